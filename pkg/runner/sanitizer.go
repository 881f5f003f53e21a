package runner

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	// DefaultMaxInputSize is 4KB (conservative default)
	DefaultMaxInputSize = 4096
	// EnvMaxInputSize is the environment variable to override the default
	EnvMaxInputSize = "CHECKOUT_MAX_INPUT_SIZE"
	// MaxFieldSize bounds a single form input.
	MaxFieldSize = 256
)

var (
	ErrInputTooLarge = errors.New("input exceeds maximum allowed size")
	ErrInvalidUTF8   = errors.New("input contains invalid UTF-8 sequences")
)

// SanitizeInput cleans user input by enforcing size limits,
// validating UTF-8, and stripping dangerous control characters.
// Newlines and tabs survive.
func SanitizeInput(input string) (string, error) {
	return sanitize(input, getMaxInputSize(), isSafeControl)
}

// SanitizeField cleans a single-line form input. Every control character
// is removed, including newlines, and the limit is MaxFieldSize.
func SanitizeField(input string) (string, error) {
	return sanitize(input, MaxFieldSize, func(rune) bool { return false })
}

func sanitize(input string, limit int, keep func(rune) bool) (string, error) {
	// Reject rather than truncate so the stored value is what was sent.
	if len(input) > limit {
		return "", fmt.Errorf("%w: size=%d limit=%d", ErrInputTooLarge, len(input), limit)
	}

	if !utf8.ValidString(input) {
		return "", ErrInvalidUTF8
	}

	// ESC, NULL, BEL and friends poison logs and terminals.
	clean := true
	for _, r := range input {
		if unicode.IsControl(r) && !keep(r) {
			clean = false
			break
		}
	}
	if clean {
		return input, nil
	}

	var b strings.Builder
	b.Grow(len(input))
	for _, r := range input {
		if !unicode.IsControl(r) || keep(r) {
			b.WriteRune(r)
		}
	}
	return b.String(), nil
}

func isSafeControl(r rune) bool {
	return r == '\n' || r == '\t' || r == '\r'
}

func getMaxInputSize() int {
	if val := os.Getenv(EnvMaxInputSize); val != "" {
		if size, err := strconv.Atoi(val); err == nil && size > 0 {
			return size
		}
	}
	return DefaultMaxInputSize
}
