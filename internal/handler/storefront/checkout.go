package storefront

import (
	"net/http"

	"github.com/dukerupert/stride/internal/form"
	"github.com/dukerupert/stride/internal/handler"
	"github.com/dukerupert/stride/internal/service"
)

// CheckoutHandler handles the checkout page data and order placement
type CheckoutHandler struct {
	checkout service.CheckoutService
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkout service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout}
}

// Quote handles GET /checkout
func (h *CheckoutHandler) Quote(w http.ResponseWriter, r *http.Request) {
	quote, err := h.checkout.Quote(r.Context(), visitorID(r))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.OK(w, r, quote)
}

// Place handles POST /checkout
func (h *CheckoutHandler) Place(w http.ResponseWriter, r *http.Request) {
	var f form.Checkout
	if err := handler.DecodeJSON(r, &f); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	order, err := h.checkout.PlaceOrder(r.Context(), visitorID(r), f)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.Created(w, r, order)
}
