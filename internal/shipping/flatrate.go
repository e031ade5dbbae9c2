package shipping

import (
	"context"

	"github.com/shopspring/decimal"
)

// ThresholdProvider charges a flat rate unless the subtotal is strictly
// above the free-shipping threshold.
type ThresholdProvider struct {
	threshold decimal.Decimal
	flat      decimal.Decimal
}

// NewThresholdProvider creates a new flat-rate provider with free shipping
// above threshold.
func NewThresholdProvider(threshold, flat decimal.Decimal) (*ThresholdProvider, error) {
	if threshold.IsNegative() || flat.IsNegative() {
		return nil, ErrInvalidRate
	}
	return &ThresholdProvider{threshold: threshold, flat: flat}, nil
}

// GetRates returns the single standard rate for the order.
func (p *ThresholdProvider) GetRates(ctx context.Context, params RateParams) ([]Rate, error) {
	if params.Subtotal.IsNegative() {
		return nil, ErrInvalidSubtotal
	}

	cost := p.flat
	if p.Qualifies(params.Subtotal) {
		cost = decimal.Zero
	}
	return []Rate{{
		RateID:           "standard",
		Carrier:          "Flat Rate",
		ServiceName:      "Standard Shipping",
		ServiceCode:      "STD",
		Cost:             cost.Round(2),
		EstimatedDaysMin: 3,
		EstimatedDaysMax: 7,
	}}, nil
}

// Qualifies reports whether subtotal ships free.
func (p *ThresholdProvider) Qualifies(subtotal decimal.Decimal) bool {
	return subtotal.GreaterThan(p.threshold)
}

// Remaining is how much more must be spent to ship free; zero once qualified.
func (p *ThresholdProvider) Remaining(subtotal decimal.Decimal) decimal.Decimal {
	if p.Qualifies(subtotal) {
		return decimal.Zero
	}
	return p.threshold.Sub(subtotal)
}
