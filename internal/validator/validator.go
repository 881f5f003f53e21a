package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/aretw0/checkout/pkg/domain"
	playground "github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
)

// PersonalInfo mirrors the personal form. Field order is document order,
// which decides the field reported first.
type PersonalInfo struct {
	FirstName string `mapstructure:"firstName" validate:"required"`
	LastName  string `mapstructure:"lastName" validate:"required"`
	Email     string `mapstructure:"email" validate:"required,email"`
	Phone     string `mapstructure:"phone" validate:"required"`
	Address   string `mapstructure:"address" validate:"required"`
	City      string `mapstructure:"city" validate:"required"`
	Province  string `mapstructure:"province" validate:"required"`
	Postal    string `mapstructure:"postal" validate:"required"`
	Country   string `mapstructure:"country" validate:"required"`
}

// PaymentForm mirrors the constraints the card form declares on its own.
// Number, expiry and CVV are checked by package card.
type PaymentForm struct {
	CardHolder string `mapstructure:"cardHolder" validate:"required"`
}

// Checker applies the constraints the page markup declares on its inputs
// (required, type=email) the way a browser reports them.
type Checker struct {
	validate *playground.Validate
}

// New creates a Checker.
func New() *Checker {
	v := playground.New(playground.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := fld.Tag.Get("mapstructure")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return &Checker{validate: v}
}

// Personal checks the personal form and returns every violation in document order.
func (c *Checker) Personal(values map[string]string) ([]domain.FieldError, error) {
	var info PersonalInfo
	return c.check(values, &info)
}

// Payment checks the host constraints of the card form.
func (c *Checker) Payment(values map[string]string) ([]domain.FieldError, error) {
	var form PaymentForm
	return c.check(values, &form)
}

// FirstInvalid mimics reportValidity: only the first violation is surfaced.
func FirstInvalid(errs []domain.FieldError) []domain.FieldError {
	if len(errs) == 0 {
		return nil
	}
	return errs[:1]
}

func (c *Checker) check(values map[string]string, dst any) ([]domain.FieldError, error) {
	trimmed := make(map[string]string, len(values))
	for k, v := range values {
		trimmed[k] = strings.TrimSpace(v)
	}
	if err := mapstructure.Decode(trimmed, dst); err != nil {
		return nil, fmt.Errorf("failed to decode form values: %w", err)
	}

	err := c.validate.Struct(dst)
	if err == nil {
		return nil, nil
	}

	var ve playground.ValidationErrors
	if !errors.As(err, &ve) {
		return nil, fmt.Errorf("failed to validate form: %w", err)
	}

	out := make([]domain.FieldError, 0, len(ve))
	for _, fe := range ve {
		out = append(out, domain.FieldError{
			Field:   fe.Field(),
			Message: messageForTag(fe.Tag()),
		})
	}
	return out, nil
}

func messageForTag(tag string) string {
	switch tag {
	case "required":
		return "Please fill out this field."
	case "email":
		return "Please enter an email address."
	default:
		return "Please match the requested format."
	}
}
