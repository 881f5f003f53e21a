package card

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// MinNumberLength is the shortest accepted card number.
const MinNumberLength = 13

// Reason classifies a validation failure.
type Reason string

const (
	ReasonTooShort      Reason = "too_short"
	ReasonInvalidType   Reason = "invalid_type"
	ReasonInvalidNumber Reason = "invalid_number"
	ReasonFormat        Reason = "format"
	ReasonInvalidMonth  Reason = "invalid_month"
	ReasonExpired       Reason = "expired"
	ReasonLength        Reason = "length"
)

// Error is a field validation failure. Message is meant for display.
type Error struct {
	Reason  Reason
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func fail(reason Reason, msg string) *Error {
	return &Error{Reason: reason, Message: msg}
}

// Number is a validated card number.
type Number struct {
	Digits string
	Rule   Rule
}

// ValidateNumber checks length, network and checksum, in that order.
// A number matching no network is rejected even if it passes Luhn.
func ValidateNumber(input string) (Number, error) {
	digits := StripSpaces(input)

	if len(digits) < MinNumberLength {
		return Number{}, fail(ReasonTooShort, "Card number is too short")
	}
	rule, ok := Detect(digits)
	if !ok {
		return Number{}, fail(ReasonInvalidType, "Invalid card type")
	}
	if !Luhn(digits) {
		return Number{}, fail(ReasonInvalidNumber, "Invalid card number")
	}
	return Number{Digits: digits, Rule: rule}, nil
}

var expiryPattern = regexp.MustCompile(`^\d{2}/\d{2}$`)

// Expiry is a validated expiry date.
type Expiry struct {
	Month int
	Year  int // four digits
}

// LastDay returns the last calendar day the card is valid, in loc.
func (e Expiry) LastDay(loc *time.Location) time.Time {
	return time.Date(e.Year, time.Month(e.Month)+1, 0, 0, 0, 0, 0, loc)
}

// ValidateExpiry checks an MM/YY value against now.
// The card stays valid through the last day of its expiry month.
func ValidateExpiry(input string, now time.Time) (Expiry, error) {
	if !expiryPattern.MatchString(input) {
		return Expiry{}, fail(ReasonFormat, "Use MM/YY format")
	}

	month, _ := strconv.Atoi(input[:2])
	yy, _ := strconv.Atoi(input[3:])
	exp := Expiry{Month: month, Year: 2000 + yy}

	if month < 1 || month > 12 {
		return Expiry{}, fail(ReasonInvalidMonth, "Invalid month")
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if exp.LastDay(now.Location()).Before(today) {
		return Expiry{}, fail(ReasonExpired, "Card has expired")
	}
	return exp, nil
}

// ValidateCVV checks the CVV length against the network detected from number.
func ValidateCVV(cvv, number string) error {
	required := RequiredCVVLength(number)
	if len(cvv) != required || Digits(cvv) != cvv {
		return fail(ReasonLength, fmt.Sprintf("Must be %d digits", required))
	}
	return nil
}
