package runtime

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/checkout/pkg/card"
	"github.com/aretw0/checkout/pkg/domain"
)

// ChangeField applies an input event. Card inputs are reformatted as typed;
// other inputs are stored verbatim. Markers are left for the blur event.
func (e *Engine) ChangeField(ctx context.Context, current *domain.FormSession, field, value string) (*domain.FormSession, error) {
	if err := checkSession(current); err != nil {
		return nil, err
	}
	next := current.Snapshot()

	switch {
	case domain.IsPersonalField(field):
		next.Personal[field] = value
	case field == domain.FieldCardNumber:
		next.Payment[field] = card.FormatNumber(value)
	case field == domain.FieldExpiry:
		next.Payment[field] = card.FormatExpiry(value)
	case field == domain.FieldCVV:
		next.Payment[field] = card.FormatCVV(value)
	case field == domain.FieldCardHolder:
		next.Payment[field] = value
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownField, field)
	}
	return next, nil
}

// ValidateField applies a blur event. Only the card number, expiry and CVV
// have blur validation; other known fields are returned unchanged.
func (e *Engine) ValidateField(ctx context.Context, current *domain.FormSession, field string) (*domain.FormSession, error) {
	if err := checkSession(current); err != nil {
		return nil, err
	}
	if !domain.IsPersonalField(field) && !domain.IsPaymentField(field) {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownField, field)
	}
	next := current.Snapshot()
	e.validatePaymentField(ctx, next, field)
	return next, nil
}

// validatePaymentField clears the marker of field, validates it and records
// the outcome: a marker, and the derived card data on success. A failure
// clears the derived data owned by the field.
func (e *Engine) validatePaymentField(ctx context.Context, s *domain.FormSession, field string) *domain.FieldError {
	var err error

	switch field {
	case domain.FieldCardNumber:
		delete(s.Markers, field)
		var n card.Number
		n, err = card.ValidateNumber(s.Payment[field])
		if err == nil {
			s.Card.Number = n.Digits
			s.Card.Network = string(n.Rule.Network)
			s.Card.NetworkName = n.Rule.Name
		} else {
			s.Card.Number, s.Card.Network, s.Card.NetworkName = "", "", ""
		}
	case domain.FieldExpiry:
		delete(s.Markers, field)
		var exp card.Expiry
		exp, err = card.ValidateExpiry(s.Payment[field], e.now())
		if err == nil {
			s.Card.ExpiryMonth, s.Card.ExpiryYear = exp.Month, exp.Year
		} else {
			s.Card.ExpiryMonth, s.Card.ExpiryYear = 0, 0
		}
	case domain.FieldCVV:
		delete(s.Markers, field)
		cvv := s.Payment[field]
		err = card.ValidateCVV(cvv, s.Payment[domain.FieldCardNumber])
		if err == nil {
			s.Card.CVV = cvv
		} else {
			s.Card.CVV = ""
		}
	default:
		return nil
	}

	if err != nil {
		fe := domain.FieldError{Field: field, Message: messageOf(err)}
		e.markInvalid(ctx, s, fe)
		return &fe
	}
	s.Markers[field] = domain.Marker{State: domain.MarkerValid}
	return nil
}

func (e *Engine) markInvalid(ctx context.Context, s *domain.FormSession, fe domain.FieldError) {
	s.Markers[fe.Field] = domain.Marker{State: domain.MarkerInvalid, Message: fe.Message}
	e.emitFieldInvalid(ctx, s.ID, fe)
}

func messageOf(err error) string {
	var ce *card.Error
	if errors.As(err, &ce) {
		return ce.Message
	}
	return strings.TrimSpace(err.Error())
}
