package domain

import (
	"github.com/shopspring/decimal"
)

// Money is a decimal amount that travels over the wire as a bare JSON number
// with two fractional digits, the shape the store backend sends and expects.
type Money struct {
	decimal.Decimal
}

// NewMoney wraps d rounded to cents.
func NewMoney(d decimal.Decimal) Money {
	return Money{Decimal: d.Round(2)}
}

// MoneyFromString parses an amount such as "129.60". It panics on malformed input
// and is meant for constants and tests.
func MoneyFromString(s string) Money {
	return Money{Decimal: decimal.RequireFromString(s)}
}

// MarshalJSON writes the amount as a JSON number.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.Decimal.StringFixed(2)), nil
}

// String formats the amount with two fractional digits.
func (m Money) String() string {
	return m.Decimal.StringFixed(2)
}
