// Package money converts between decimal rand amounts and the integer cents
// stored in the database. Amounts always carry two decimal places on the
// wire; PayFast rejects anything else.
package money

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// FromCents converts stored integer cents to a decimal rand amount.
func FromCents(cents int64) decimal.Decimal {
	return decimal.NewFromInt(cents).Div(hundred)
}

// ToCents converts a decimal rand amount to integer cents, rounding
// half-up to the nearest cent.
func ToCents(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).Round(0).IntPart()
}

// Format renders an amount with exactly two decimal places.
func Format(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}
