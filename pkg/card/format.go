package card

import (
	"strings"
	"unicode"
)

// NumberGroupSize is the number of digits between separators.
const NumberGroupSize = 4

// Digits strips every non-digit character.
func Digits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// StripSpaces removes the whitespace separators inserted by FormatNumber.
func StripSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// FormatNumber formats a card number as typed: a space every four digits.
func FormatNumber(input string) string {
	digits := Digits(input)
	var b strings.Builder
	b.Grow(len(digits) + len(digits)/NumberGroupSize)
	for i := 0; i < len(digits); i++ {
		if i > 0 && i%NumberGroupSize == 0 {
			b.WriteByte(' ')
		}
		b.WriteByte(digits[i])
	}
	return b.String()
}

// FormatExpiry formats an expiry date as typed. The separator appears once a
// third digit is entered and anything past four digits is dropped.
func FormatExpiry(input string) string {
	digits := Digits(input)
	if len(digits) < 3 {
		return digits
	}
	end := len(digits)
	if end > 4 {
		end = 4
	}
	return digits[:2] + "/" + digits[2:end]
}

// FormatCVV keeps only the digits of a CVV.
func FormatCVV(input string) string {
	return Digits(input)
}

// Mask hides all but the last four digits of a number.
func Mask(number string) string {
	digits := Digits(number)
	if len(digits) <= 4 {
		return digits
	}
	return strings.Repeat("*", len(digits)-4) + digits[len(digits)-4:]
}
