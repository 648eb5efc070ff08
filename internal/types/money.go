package types

import (
	"github.com/shopspring/decimal"
)

// All invoice arithmetic runs on integer minor-unit (cent) amounts and is
// converted back to decimal currency only at the public boundary. Rounding is
// always half away from zero, which is what decimal.Round implements.

var hundred = decimal.NewFromInt(100)

// ToCents converts a decimal currency amount to integer cents, rounding half
// away from zero.
func ToCents(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).Round(0).IntPart()
}

// FromCents converts integer cents back to a decimal currency amount. The
// result is exact (scale of two), not a floating division.
func FromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}
