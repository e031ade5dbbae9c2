package tax

import (
	"context"

	"github.com/shopspring/decimal"
)

// PercentageCalculator calculates tax using a simple percentage rate applied
// to the merchandise subtotal. Shipping is not taxed.
type PercentageCalculator struct {
	rate decimal.Decimal // e.g., 0.08 for 8%
}

// NewPercentageCalculator creates a new percentage-based tax calculator.
func NewPercentageCalculator(rate decimal.Decimal) (Calculator, error) {
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return nil, ErrInvalidTaxRate
	}
	return &PercentageCalculator{rate: rate}, nil
}

// CalculateTax computes tax on the subtotal, rounded to cents.
func (c *PercentageCalculator) CalculateTax(ctx context.Context, params TaxParams) (*TaxResult, error) {
	if params.Subtotal.IsNegative() {
		return nil, ErrNegativeSubtotal
	}

	amount := params.Subtotal.Mul(c.rate).Round(2)
	return &TaxResult{
		Total: amount,
		Breakdown: []TaxBreakdown{{
			Jurisdiction: "state",
			Name:         "Default Sales Tax",
			Rate:         c.rate,
			Amount:       amount,
		}},
	}, nil
}
