package enums

import (
	"fmt"
	"strings"
)

// Currency is an ISO 4217 style three letter code.
type Currency string

const CurrencyNGN Currency = "NGN"

// String implements fmt.Stringer.
func (c Currency) String() string {
	return string(c)
}

// IsValid reports whether the value is three ASCII upper-case letters.
func (c Currency) IsValid() bool {
	if len(c) != 3 {
		return false
	}
	for _, r := range string(c) {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// ParseCurrency normalises raw input into a Currency.
func ParseCurrency(value string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(value)))
	if !c.IsValid() {
		return "", fmt.Errorf("invalid currency %q", value)
	}
	return c, nil
}
