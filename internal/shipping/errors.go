package shipping

import "github.com/dukerupert/stride/internal/domain"

var (
	// ErrNoRates is returned when no shipping provider is configured.
	ErrNoRates = &domain.Error{Code: domain.EUNAVAILABLE, Op: "shipping", Message: "No shipping rates available"}

	// ErrInvalidRate is returned when a configured rate or threshold is negative.
	ErrInvalidRate = &domain.Error{Code: domain.EINVALID, Op: "shipping", Message: "Shipping rates must not be negative"}

	ErrInvalidSubtotal = &domain.Error{Code: domain.EINVALID, Op: "shipping", Message: "Subtotal must not be negative"}
)
