package pricing

import (
	"context"
	"testing"

	"github.com/dukerupert/stride/internal"
	"github.com/dukerupert/stride/internal/shipping"
	"github.com/dukerupert/stride/internal/tax"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultQuoter(t *testing.T) *Quoter {
	t.Helper()
	q, err := NewQuoterFromConfig(internal.PricingConfig{
		TaxRate:               decimal.RequireFromString("0.08"),
		FreeShippingThreshold: decimal.NewFromInt(100),
		FlatShipping:          decimal.NewFromInt(15),
	})
	require.NoError(t, err)
	return q
}

func TestQuote(t *testing.T) {
	tests := []struct {
		subtotal string
		tax      string
		shipping string
		total    string
	}{
		{"120", "9.60", "0.00", "129.60"},
		{"40", "3.20", "15.00", "58.20"},
		{"100", "8.00", "15.00", "123.00"},
		{"0", "0.00", "15.00", "15.00"},
		{"59.97", "4.80", "15.00", "79.77"},
	}
	q := defaultQuoter(t)
	for _, tt := range tests {
		t.Run(tt.subtotal, func(t *testing.T) {
			got, err := q.Quote(context.Background(), decimal.RequireFromString(tt.subtotal))
			require.NoError(t, err)
			assert.Equal(t, tt.tax, got.Tax.String())
			assert.Equal(t, tt.shipping, got.Shipping.String())
			assert.Equal(t, tt.total, got.Total.String())
		})
	}
}

func TestQuote_FreeShippingRemaining(t *testing.T) {
	q := defaultQuoter(t)

	got, err := q.Quote(context.Background(), decimal.NewFromInt(40))
	require.NoError(t, err)
	assert.Equal(t, "60.00", got.FreeShippingRemaining.String())

	got, err = q.Quote(context.Background(), decimal.NewFromInt(120))
	require.NoError(t, err)
	assert.Equal(t, "0.00", got.FreeShippingRemaining.String())
}

func TestQuote_NoTax(t *testing.T) {
	ship, err := shipping.NewThresholdProvider(decimal.NewFromInt(50), decimal.NewFromInt(5))
	require.NoError(t, err)
	q := NewQuoter(tax.NewNoTaxCalculator(), ship)

	got, err := q.Quote(context.Background(), decimal.NewFromInt(20))
	require.NoError(t, err)
	assert.Equal(t, "25.00", got.Total.String())
}

func TestNewQuoterFromConfig_Invalid(t *testing.T) {
	_, err := NewQuoterFromConfig(internal.PricingConfig{TaxRate: decimal.NewFromInt(2)})
	assert.ErrorIs(t, err, tax.ErrInvalidTaxRate)
}

func TestNewQuoterFromConfig_ZeroRateUsesNoTax(t *testing.T) {
	q, err := NewQuoterFromConfig(internal.PricingConfig{
		FreeShippingThreshold: decimal.NewFromInt(100),
		FlatShipping:          decimal.NewFromInt(15),
	})
	require.NoError(t, err)
	assert.IsType(t, &tax.NoTaxCalculator{}, q.tax)

	got, err := q.Quote(context.Background(), decimal.NewFromInt(40))
	require.NoError(t, err)
	assert.Equal(t, "0.00", got.Tax.String())
	assert.Equal(t, "55.00", got.Total.String())
}
