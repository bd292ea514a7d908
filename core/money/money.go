// Package money - Currency amounts
// Amounts are decimals held at two places; rounding is half away from zero.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Places is the number of fractional digits kept for currency amounts
const Places = 2

// Currency is an ISO 4217 currency code
type Currency string

const (
	USD Currency = "USD"
	EUR Currency = "EUR"
	GBP Currency = "GBP"
)

// String returns the string representation
func (c Currency) String() string {
	return string(c)
}

// Symbol returns the display symbol, falling back to the code itself
func (c Currency) Symbol() string {
	switch c {
	case USD:
		return "$"
	case EUR:
		return "€"
	case GBP:
		return "£"
	default:
		return string(c) + " "
	}
}

// ParseCurrency normalises a currency code; empty input yields USD
func ParseCurrency(s string) Currency {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return USD
	}
	return Currency(s)
}

// Round rounds an amount to currency precision
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Places)
}

// Parse reads a decimal amount such as "32.95"
func Parse(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.TrimSpace(s))
}

// MustParse is Parse for literals known to be valid
func MustParse(s string) decimal.Decimal {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Format renders an amount with its currency symbol, e.g. "$54.37"
func Format(d decimal.Decimal, c Currency) string {
	return c.Symbol() + d.StringFixed(Places)
}
