package tax

import "github.com/dukerupert/stride/internal/domain"

var (
	ErrInvalidTaxRate   = &domain.Error{Code: domain.EINVALID, Op: "tax", Message: "Tax rate must be between 0 and 1"}
	ErrNegativeSubtotal = &domain.Error{Code: domain.EINVALID, Op: "tax", Message: "Subtotal must not be negative"}
)
