package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// FlatShippingRate is the single flat delivery charge applied to every
// order regardless of cart contents.
var FlatShippingRate = decimal.RequireFromString("10.00")

// Line is one priced cart or order line: a unit price snapshot and a
// quantity. Quantity is always >= 1 for a persisted line.
type Line struct {
	Price    decimal.Decimal
	Quantity uint
}

func Parse(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse amount %q: %w", s, err)
	}
	return d, nil
}

// Subtotal returns the exact sum of price*quantity over all lines.
// An empty list yields zero.
func Subtotal(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return total
}

// Total is the order total: subtotal plus the flat shipping charge.
func Total(lines []Line, shipping decimal.Decimal) decimal.Decimal {
	return Subtotal(lines).Add(shipping)
}

// Format renders an amount with exactly two decimal places for
// presentation and wire formats.
func Format(d decimal.Decimal) string {
	return d.StringFixed(2)
}
