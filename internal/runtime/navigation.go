package runtime

import (
	"context"
	"strings"
	"time"

	"github.com/aretw0/checkout/internal/validator"
	"github.com/aretw0/checkout/pkg/domain"
)

// Advance validates the current step and moves to the next one.
// A blocked transition returns the annotated session and a typed error.
func (e *Engine) Advance(ctx context.Context, current *domain.FormSession) (*domain.FormSession, error) {
	if err := checkSession(current); err != nil {
		return nil, err
	}
	next := current.Snapshot()

	switch next.CurrentStep {
	case domain.StepPersonal:
		return e.advancePersonal(ctx, next)
	case domain.StepCard:
		return e.advanceCard(ctx, next)
	default:
		// Confirmation is terminal.
		return next, nil
	}
}

func (e *Engine) advancePersonal(ctx context.Context, s *domain.FormSession) (*domain.FormSession, error) {
	for _, f := range domain.PersonalFields {
		delete(s.Markers, f)
	}

	errs, err := e.checker.Personal(s.Personal)
	if err != nil {
		return nil, err
	}
	if first := validator.FirstInvalid(errs); len(first) > 0 {
		e.markInvalid(ctx, s, first[0])
		return s, &domain.ValidationError{Step: domain.StepPersonal, Fields: first}
	}
	return e.transitionTo(ctx, s, domain.StepCard), nil
}

func (e *Engine) advanceCard(ctx context.Context, s *domain.FormSession) (*domain.FormSession, error) {
	var failed []domain.FieldError

	delete(s.Markers, domain.FieldCardHolder)
	holderErrs, err := e.checker.Payment(s.Payment)
	if err != nil {
		return nil, err
	}
	if len(holderErrs) > 0 {
		s.Card.Holder = ""
		for _, fe := range holderErrs {
			e.markInvalid(ctx, s, fe)
		}
		failed = append(failed, holderErrs...)
	}

	// All three run so that every field gets its marker.
	for _, field := range []string{domain.FieldCardNumber, domain.FieldExpiry, domain.FieldCVV} {
		if fe := e.validatePaymentField(ctx, s, field); fe != nil {
			failed = append(failed, *fe)
		}
	}

	if len(failed) > 0 {
		s.PaymentError = MsgCorrectErrors
		return s, &domain.ValidationError{Step: domain.StepCard, Fields: failed}
	}
	s.Card.Holder = strings.TrimSpace(s.Payment[domain.FieldCardHolder])

	return e.submit(ctx, s)
}

// submit makes a single attempt to hand the record over.
func (e *Engine) submit(ctx context.Context, s *domain.FormSession) (*domain.FormSession, error) {
	record := domain.NewSubmission(s)
	e.emitSubmit(ctx, s.ID, record.CardType)

	start := time.Now()
	var (
		ack string
		err error
	)
	if e.submitter == nil {
		err = errNoSubmitter
	} else {
		ack, err = e.submitter.Submit(ctx, record)
	}
	e.emitSubmitReturn(ctx, s.ID, record.CardType, time.Since(start), err != nil)

	if err != nil {
		e.logger.Error("submission failed", "session_id", s.ID, "error", err)
		s.PaymentError = MsgPaymentFailed
		return s, &domain.SubmissionError{SessionID: s.ID, Cause: err}
	}

	e.logger.Info("submission accepted", "session_id", s.ID, "card_type", record.CardType, "last_four", record.LastFour)
	s.PaymentError = ""
	s.Acknowledgment = ack
	return e.transitionTo(ctx, s, domain.StepConfirmation), nil
}

// Retreat moves from the card step back to the personal step without
// validation. It is a no-op everywhere else.
func (e *Engine) Retreat(ctx context.Context, current *domain.FormSession) (*domain.FormSession, error) {
	if err := checkSession(current); err != nil {
		return nil, err
	}
	next := current.Snapshot()
	if next.CurrentStep != domain.StepCard {
		return next, nil
	}
	return e.transitionTo(ctx, next, domain.StepPersonal), nil
}

// Reset discards every input, marker and derived value and returns to the
// personal step. The session keeps its ID.
func (e *Engine) Reset(ctx context.Context, current *domain.FormSession) (*domain.FormSession, error) {
	if err := checkSession(current); err != nil {
		return nil, err
	}
	e.emitStepLeave(ctx, current.ID, current.CurrentStep)
	next := domain.NewFormSession(current.ID)
	e.emitStepEnter(ctx, next.ID, next.CurrentStep)
	e.logger.Debug("checkout reset", "session_id", next.ID)
	return next, nil
}
