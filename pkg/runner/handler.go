package runner

import (
	"context"

	"github.com/aretw0/checkout/pkg/domain"
)

// IOHandler defines the strategy for interacting with the user.
// This allows switching between Text (CLI/TUI) and JSON (Structured) modes.
type IOHandler interface {
	// Output presents the current view.
	Output(ctx context.Context, view domain.View) error

	// Input reads the value for one prompt.
	Input(ctx context.Context, prompt Prompt) (string, error)

	// SystemOutput presents a meta-message to the user (e.g. a rejected input).
	// This is distinct from view rendering.
	SystemOutput(ctx context.Context, msg string) error
}

// Prompt describes a requested input.
type Prompt struct {
	Field   string `json:"field,omitempty"`
	Label   string `json:"label"`
	Current string `json:"current,omitempty"`

	// Secret asks the handler not to echo the value.
	Secret bool `json:"secret,omitempty"`
}

// ContentRenderer turns markdown into terminal output.
type ContentRenderer func(string) (string, error)

var fieldLabels = map[string]string{
	domain.FieldFirstName:  "First name",
	domain.FieldLastName:   "Last name",
	domain.FieldEmail:      "Email",
	domain.FieldPhone:      "Phone",
	domain.FieldAddress:    "Address",
	domain.FieldCity:       "City",
	domain.FieldProvince:   "Province",
	domain.FieldPostal:     "Postal code",
	domain.FieldCountry:    "Country",
	domain.FieldCardNumber: "Card number",
	domain.FieldCardHolder: "Cardholder name",
	domain.FieldExpiry:     "Expiry (MM/YY)",
	domain.FieldCVV:        "CVV",
}

// Label returns the human label of a field.
func Label(field string) string {
	if l, ok := fieldLabels[field]; ok {
		return l
	}
	return field
}
