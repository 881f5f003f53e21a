package card

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFormatters(t *testing.T) {
	type result struct{ Number, Expiry, CVV string }

	tests := []struct {
		name  string
		input string
		want  result
	}{
		{"empty", "", result{"", "", ""}},
		{"two digits", "12", result{"12", "12", "12"}},
		{"three digits", "123", result{"123", "12/3", "123"}},
		{"four digits", "1225", result{"1225", "12/25", "1225"}},
		{"already formatted", "12/25", result{"1225", "12/25", "1225"}},
		{"overflow", "122599", result{"1225 99", "12/25", "122599"}},
		{"full card", "4111111111111111", result{"4111 1111 1111 1111", "41/11", "4111111111111111"}},
		{"retyped with spaces", "4111 1111 11", result{"4111 1111 11", "41/11", "4111111111"}},
		{"letters", "1a2b3", result{"123", "12/3", "123"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := result{
				Number: FormatNumber(tt.input),
				Expiry: FormatExpiry(tt.input),
				CVV:    FormatCVV(tt.input),
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("formatters mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMask(t *testing.T) {
	if got := Mask("4111 1111 1111 1111"); got != "************1111" {
		t.Errorf("Mask = %q", got)
	}
	if got := Mask("123"); got != "123" {
		t.Errorf("Mask short = %q", got)
	}
}
