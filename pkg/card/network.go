package card

import "regexp"

// Network is the tag of a card scheme.
type Network string

const (
	Visa       Network = "visa"
	Mastercard Network = "mastercard"
	Amex       Network = "amex"
	Discover   Network = "discover"
	Diners     Network = "diners"
	JCB        Network = "jcb"
)

// DefaultCVVLength is required for every network except American Express.
const DefaultCVVLength = 3

// Rule maps a network to the pattern over the full digit string,
// its display name and the CVV length it requires.
type Rule struct {
	Network   Network
	Name      string
	Pattern   *regexp.Regexp
	CVVLength int
}

// rules is evaluated in declared order; the first match wins.
var rules = []Rule{
	{Network: Visa, Name: "Visa", Pattern: regexp.MustCompile(`^4[0-9]{12}(?:[0-9]{3})?$`), CVVLength: 3},
	{Network: Mastercard, Name: "Mastercard", Pattern: regexp.MustCompile(`^5[1-5][0-9]{14}$`), CVVLength: 3},
	{Network: Amex, Name: "American Express", Pattern: regexp.MustCompile(`^3[47][0-9]{13}$`), CVVLength: 4},
	{Network: Discover, Name: "Discover", Pattern: regexp.MustCompile(`^6(?:011|5[0-9]{2})[0-9]{12}$`), CVVLength: 3},
	{Network: Diners, Name: "Diners Club", Pattern: regexp.MustCompile(`^3(?:0[0-5]|[68][0-9])[0-9]{11}$`), CVVLength: 3},
	{Network: JCB, Name: "JCB", Pattern: regexp.MustCompile(`^(?:2131|1800|35\d{3})\d{11}$`), CVVLength: 3},
}

// Rules returns the network table in detection order.
func Rules() []Rule {
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}

// Detect returns the first rule whose pattern matches the digit string.
func Detect(digits string) (Rule, bool) {
	for _, r := range rules {
		if r.Pattern.MatchString(digits) {
			return r, true
		}
	}
	return Rule{}, false
}

// RequiredCVVLength returns the CVV length for the number typed so far.
// Unknown networks fall back to DefaultCVVLength.
func RequiredCVVLength(number string) int {
	if r, ok := Detect(StripSpaces(number)); ok {
		return r.CVVLength
	}
	return DefaultCVVLength
}
