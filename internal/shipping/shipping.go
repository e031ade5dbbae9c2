package shipping

import (
	"context"

	"github.com/shopspring/decimal"
)

// Provider defines the interface for quoting shipping on an order.
type Provider interface {
	// GetRates returns the shipping options for an order, cheapest first.
	GetRates(ctx context.Context, params RateParams) ([]Rate, error)
}

// RateParams contains parameters for calculating shipping rates.
type RateParams struct {
	DestinationAddress ShippingAddress
	Subtotal           decimal.Decimal // merchandise total
	ItemCount          int
}

// ShippingAddress represents a complete shipping address.
type ShippingAddress struct {
	Name    string
	Street  string
	City    string
	State   string
	ZipCode string
	Country string
	Phone   string
	Email   string
}

// Rate represents a shipping rate option.
type Rate struct {
	RateID           string
	Carrier          string
	ServiceName      string
	ServiceCode      string
	Cost             decimal.Decimal
	EstimatedDaysMin int
	EstimatedDaysMax int
}
