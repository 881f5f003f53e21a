package card

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLuhn_KnownVectors(t *testing.T) {
	tests := []struct {
		digits string
		want   bool
	}{
		{"4111111111111111", true},
		{"4111111111111112", false},
		{"5500000000000004", true},
		{"340000000000009", true},
		{"6011000000000004", true},
		{"0000000000000000", true},
		{"79927398713", true},
		{"79927398710", false},
		{"", false},
		{"4111-1111", false},
	}
	for _, tt := range tests {
		t.Run(tt.digits, func(t *testing.T) {
			assert.Equal(t, tt.want, Luhn(tt.digits))
		})
	}
}

// Every single-digit substitution of a valid number must break the checksum.
func TestLuhn_SingleDigitMutation(t *testing.T) {
	valid := []string{
		"4111111111111111", // 16 digits
		"340000000000009",  // 15 digits
		"4222222222222",    // 13 digits
		"30569309025904",   // 14 digits
	}
	for _, number := range valid {
		if !Luhn(number) {
			t.Fatalf("fixture %s should pass Luhn", number)
		}
		for i := 0; i < len(number); i++ {
			for delta := 1; delta <= 9; delta++ {
				b := []byte(number)
				b[i] = byte('0' + (int(b[i]-'0')+delta)%10)
				mutated := string(b)
				if Luhn(mutated) {
					t.Errorf("mutation %s of %s (pos %d, +%d) still passes", mutated, number, i, delta)
				}
			}
		}
	}
}
