package middleware

import (
	"context"
	"regexp"

	"github.com/aretw0/checkout/pkg/card"
	"github.com/aretw0/checkout/pkg/domain"
	"github.com/aretw0/checkout/pkg/ports"
)

// DefaultPIIPatterns match the card inputs that must not outlive a checkout.
var DefaultPIIPatterns = []string{`^cardNumber$`, `^cvv$`}

const masked = "***"

type piiMiddleware struct {
	next     ports.StateStore
	patterns []*regexp.Regexp
}

// NewPIIMiddleware creates a middleware that masks the inputs whose names
// match the patterns once a session is confirmed. Earlier steps are stored
// intact because the flow still needs the values to validate and submit.
// Masked card numbers keep their last four digits so the summary still renders.
func NewPIIMiddleware(patternStrings []string) Middleware {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		patterns[i] = regexp.MustCompile(p)
	}
	return func(next ports.StateStore) ports.StateStore {
		return &piiMiddleware{next: next, patterns: patterns}
	}
}

func (m *piiMiddleware) Save(ctx context.Context, sessionID string, s *domain.FormSession) error {
	if s.CurrentStep != domain.StepConfirmation {
		return m.next.Save(ctx, sessionID, s)
	}

	// Clone so the caller's session is left untouched.
	cloned := s.Snapshot()
	maskValues(cloned.Personal, m.patterns)
	maskValues(cloned.Payment, m.patterns)

	if m.matches(domain.FieldCardNumber) {
		cloned.Card.Number = card.Mask(cloned.Card.Number)
	}
	if m.matches(domain.FieldCVV) {
		cloned.Card.CVV = ""
	}
	if m.matches(domain.FieldCardHolder) && cloned.Card.Holder != "" {
		cloned.Card.Holder = masked
	}

	return m.next.Save(ctx, sessionID, cloned)
}

func (m *piiMiddleware) Load(ctx context.Context, sessionID string) (*domain.FormSession, error) {
	return m.next.Load(ctx, sessionID)
}

func (m *piiMiddleware) Delete(ctx context.Context, sessionID string) error {
	return m.next.Delete(ctx, sessionID)
}

func (m *piiMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

func (m *piiMiddleware) matches(name string) bool {
	for _, p := range m.patterns {
		if p.MatchString(name) {
			return true
		}
	}
	return false
}

// Helpers

func maskValues(values map[string]string, patterns []*regexp.Regexp) {
	for k, v := range values {
		for _, p := range patterns {
			if p.MatchString(k) {
				values[k] = maskValue(v)
				break
			}
		}
	}
}

func maskValue(v string) string {
	if digits := card.Digits(v); len(digits) > 4 {
		return card.Mask(digits)
	}
	if v == "" {
		return ""
	}
	return masked
}
