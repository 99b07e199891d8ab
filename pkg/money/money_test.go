package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func line(t *testing.T, price string, qty uint) Line {
	t.Helper()
	p, err := Parse(price)
	require.NoError(t, err)
	return Line{Price: p, Quantity: qty}
}

func TestSubtotal_Empty(t *testing.T) {
	t.Parallel()

	require.True(t, Subtotal(nil).IsZero())
	require.True(t, Subtotal([]Line{}).IsZero())
}

func TestSubtotal_SumsPriceTimesQuantity(t *testing.T) {
	t.Parallel()

	lines := []Line{
		line(t, "14.99", 1),
		line(t, "16.49", 2),
	}

	assert.Equal(t, "47.97", Format(Subtotal(lines)))
}

func TestTotal_AddsFlatShipping(t *testing.T) {
	t.Parallel()

	lines := []Line{
		line(t, "14.99", 1),
		line(t, "16.49", 2),
	}

	assert.Equal(t, "57.97", Format(Total(lines, FlatShippingRate)))
}

func TestTotal_EqualsSubtotalPlusRate(t *testing.T) {
	t.Parallel()

	cases := [][]Line{
		nil,
		{line(t, "0.00", 5)},
		{line(t, "9.99", 3), line(t, "0.01", 7)},
		{line(t, "1234.56", 2), line(t, "0.10", 1), line(t, "3.33", 4)},
	}

	for _, lines := range cases {
		rate := decimal.RequireFromString("4.50")
		assert.True(t, Total(lines, rate).Equal(Subtotal(lines).Add(rate)))
	}
}

func TestSubtotal_NoFloatDrift(t *testing.T) {
	t.Parallel()

	// 0.10 a hundred times must be exactly 10.00, not 9.99999...
	lines := make([]Line, 100)
	for i := range lines {
		lines[i] = line(t, "0.10", 1)
	}

	assert.Equal(t, "10.00", Format(Subtotal(lines)))
}

func TestParse_Malformed(t *testing.T) {
	t.Parallel()

	_, err := Parse("not-a-price")
	require.Error(t, err)
}

func TestFormat_TwoDecimalPlaces(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "10.00", Format(decimal.NewFromInt(10)))
	assert.Equal(t, "10.50", Format(decimal.RequireFromString("10.5")))
}
