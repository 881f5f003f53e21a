package runtime

import (
	"context"

	"github.com/aretw0/checkout/pkg/card"
	"github.com/aretw0/checkout/pkg/domain"
)

// Render calculates the presentation of a session without changing it.
func (e *Engine) Render(ctx context.Context, s *domain.FormSession) (domain.View, error) {
	if err := checkSession(s); err != nil {
		return domain.View{}, err
	}

	view := domain.View{
		SessionID:      s.ID,
		CurrentStep:    s.CurrentStep,
		Steps:          domain.NewStepIndicators(s.CurrentStep),
		Personal:       fieldViews(s, domain.PersonalFields),
		Payment:        fieldViews(s, domain.PaymentFields),
		CVVLength:      card.DefaultCVVLength,
		PaymentError:   s.PaymentError,
		Acknowledgment: s.Acknowledgment,
		Terminal:       s.CurrentStep.Terminal(),
	}

	// The network badge follows the number as typed, before any blur.
	if rule, ok := card.Detect(card.StripSpaces(s.Payment[domain.FieldCardNumber])); ok {
		view.CardNetwork = rule.Name
		view.CVVLength = rule.CVVLength
	}

	if s.CurrentStep == domain.StepConfirmation {
		summary := domain.NewSubmission(s)
		view.Summary = &summary
	}
	return view, nil
}

func fieldViews(s *domain.FormSession, names []string) []domain.FieldView {
	out := make([]domain.FieldView, 0, len(names))
	for _, name := range names {
		fv := domain.FieldView{Name: name, Value: s.Value(name)}
		if m, ok := s.Markers[name]; ok {
			m := m
			fv.Marker = &m
		}
		out = append(out, fv)
	}
	return out
}
