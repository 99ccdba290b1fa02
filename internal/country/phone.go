package country

import (
	"strings"

	"github.com/AnshRaj112/multicrypto-funnel/internal/apperr"
	"github.com/AnshRaj112/multicrypto-funnel/internal/models"
)

// Rule is the accepted national digit count for a country, inclusive.
type Rule struct {
	Min int
	Max int
	Key string
}

var defaultRule = Rule{Min: 8, Max: 12, Key: "capture.phoneError.default"}

var rules = map[string]Rule{
	"BR": {Min: 11, Max: 11, Key: "capture.phoneError.br"},
	"US": {Min: 10, Max: 10, Key: "capture.phoneError.usca"},
	"CA": {Min: 10, Max: 10, Key: "capture.phoneError.usca"},
	"GB": {Min: 10, Max: 11, Key: "capture.phoneError.gb"},
}

// RuleFor returns the digit-count rule for a country code.
func RuleFor(code string) Rule {
	if r, ok := rules[code]; ok {
		return r
	}
	return defaultRule
}

func digitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Normalize maps raw input to the canonical "+<dial><national>" form.
// A leading copy of the dial code is kept as-is instead of being doubled.
func Normalize(raw string, c models.CountryProfile) string {
	digits := digitsOnly(raw)
	dial := digitsOnly(c.DialCode)
	if !strings.HasPrefix(digits, dial) {
		digits = dial + digits
	}
	return "+" + digits
}

// NationalDigits strips formatting and a leading duplicate of the dial code.
func NationalDigits(raw string, c models.CountryProfile) string {
	digits := digitsOnly(raw)
	dial := digitsOnly(c.DialCode)
	if dial != "" && strings.HasPrefix(digits, dial) {
		return digits[len(dial):]
	}
	return digits
}

// Validate checks the national digit count against the country's rule.
// The returned error is an *apperr.Error of kind Validation whose Key is country specific.
func Validate(raw string, c models.CountryProfile) error {
	n := len(NationalDigits(raw, c))
	r := RuleFor(c.Code)
	if n < r.Min || n > r.Max {
		return apperr.New(apperr.Validation, r.Key, nil)
	}
	return nil
}
