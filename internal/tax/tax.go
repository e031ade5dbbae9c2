package tax

import (
	"context"

	"github.com/shopspring/decimal"
)

// Calculator defines the interface for tax calculation.
// Implementations: PercentageCalculator, NoTaxCalculator
type Calculator interface {
	// CalculateTax computes tax for an order. Amounts are in dollars.
	CalculateTax(ctx context.Context, params TaxParams) (*TaxResult, error)
}

// TaxParams contains all information needed for tax calculation.
type TaxParams struct {
	ShippingAddress Address
	Subtotal        decimal.Decimal // merchandise total
	Shipping        decimal.Decimal
}

// Address represents a physical address for tax purposes.
type Address struct {
	Street  string
	City    string
	State   string
	ZipCode string
	Country string
}

// TaxResult contains the calculated tax amount and breakdown.
type TaxResult struct {
	Total     decimal.Decimal
	Breakdown []TaxBreakdown
}

// TaxBreakdown represents tax for a single jurisdiction.
type TaxBreakdown struct {
	Jurisdiction string          // "state", "county", "city"
	Name         string          // e.g., "Default Sales Tax"
	Rate         decimal.Decimal // e.g., 0.08 for 8%
	Amount       decimal.Decimal
}
