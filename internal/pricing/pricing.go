// Package pricing turns a cart subtotal into the order totals shown on the
// cart and checkout pages and submitted with the order.
package pricing

import (
	"context"
	"fmt"

	"github.com/dukerupert/stride/internal"
	"github.com/dukerupert/stride/internal/domain"
	"github.com/dukerupert/stride/internal/shipping"
	"github.com/dukerupert/stride/internal/tax"
	"github.com/shopspring/decimal"
)

// Totals is the price breakdown of an order.
type Totals struct {
	Subtotal domain.Money `json:"subtotal"`
	Tax      domain.Money `json:"tax"`
	Shipping domain.Money `json:"shipping"`
	Total    domain.Money `json:"total"`

	// FreeShippingRemaining is what must still be spent to ship free.
	FreeShippingRemaining domain.Money `json:"freeShippingRemaining"`
}

// Quoter prices orders. It is the single source of the tax rate and the
// shipping rules.
type Quoter struct {
	tax      tax.Calculator
	shipping *shipping.ThresholdProvider
}

func NewQuoter(calc tax.Calculator, ship *shipping.ThresholdProvider) *Quoter {
	return &Quoter{tax: calc, shipping: ship}
}

// NewQuoterFromConfig builds the tax and threshold shipping rules. A zero
// TAX_RATE selects the no-tax calculator.
func NewQuoterFromConfig(cfg internal.PricingConfig) (*Quoter, error) {
	calc := tax.NewNoTaxCalculator()
	if !cfg.TaxRate.IsZero() {
		var err error
		if calc, err = tax.NewPercentageCalculator(cfg.TaxRate); err != nil {
			return nil, fmt.Errorf("tax: %w", err)
		}
	}
	ship, err := shipping.NewThresholdProvider(cfg.FreeShippingThreshold, cfg.FlatShipping)
	if err != nil {
		return nil, fmt.Errorf("shipping: %w", err)
	}
	return NewQuoter(calc, ship), nil
}

// Quote computes tax, shipping and total for subtotal.
func (q *Quoter) Quote(ctx context.Context, subtotal decimal.Decimal) (Totals, error) {
	subtotal = subtotal.Round(2)

	rates, err := q.shipping.GetRates(ctx, shipping.RateParams{Subtotal: subtotal})
	if err != nil {
		return Totals{}, err
	}
	if len(rates) == 0 {
		return Totals{}, shipping.ErrNoRates
	}
	ship := rates[0].Cost

	taxed, err := q.tax.CalculateTax(ctx, tax.TaxParams{Subtotal: subtotal, Shipping: ship})
	if err != nil {
		return Totals{}, err
	}

	return Totals{
		Subtotal:              domain.NewMoney(subtotal),
		Tax:                   domain.NewMoney(taxed.Total),
		Shipping:              domain.NewMoney(ship),
		Total:                 domain.NewMoney(subtotal.Add(taxed.Total).Add(ship)),
		FreeShippingRemaining: domain.NewMoney(q.shipping.Remaining(subtotal)),
	}, nil
}
