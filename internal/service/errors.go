package service

import (
	"github.com/dukerupert/stride/internal/domain"
)

// Cart errors
var (
	ErrSizeRequired      = domain.Errorf(domain.EINVALID, "", "Please select a size")
	ErrColorRequired     = domain.Errorf(domain.EINVALID, "", "Please select a color")
	ErrInsufficientStock = domain.Errorf(domain.EINVALID, "", "Not enough stock available")
	ErrCartItemNotFound  = domain.Errorf(domain.ENOTFOUND, "", "Cart item not found")
)

// Checkout errors
var (
	ErrLoginRequired          = domain.Errorf(domain.EUNAUTHORIZED, "", "Please login to continue")
	ErrEmptyCart              = domain.Errorf(domain.EINVALID, "", "Your cart is empty")
	ErrCheckoutInProgress     = domain.Errorf(domain.ECONFLICT, "", "Your order is already being placed")
	ErrAuthenticationInFlight = domain.Errorf(domain.ECONFLICT, "", "Authentication already in progress")
)

// Catalog and order errors
var (
	ErrProductNotFound = domain.Errorf(domain.ENOTFOUND, "", "Product not found")
	ErrOrderNotFound   = domain.Errorf(domain.ENOTFOUND, "", "Order not found")
)

// Admin errors
var (
	ErrTooManyImages      = domain.Errorf(domain.EINVALID, "", "Maximum 5 images allowed")
	ErrNoProductsSelected = domain.Errorf(domain.EINVALID, "", "Select at least one product")
	ErrInvalidStatus      = domain.Errorf(domain.EINVALID, "", "Please select a valid status")
)

// notFound keeps the backend's wording for a 404 and falls back to fallback.
func notFound(err error, fallback error) error {
	if domain.IsCode(err, domain.ENOTFOUND) && domain.MessageOr(err, "") == "" {
		return fallback
	}
	return err
}
