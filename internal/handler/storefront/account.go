package storefront

import (
	"net/http"

	"github.com/dukerupert/stride/internal/form"
	"github.com/dukerupert/stride/internal/handler"
	"github.com/dukerupert/stride/internal/service"
)

// AccountHandler serves the signed-in customer's profile, wishlist,
// addresses and orders. Routes sit behind RequireAuth.
type AccountHandler struct {
	account service.AccountService
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(account service.AccountService) *AccountHandler {
	return &AccountHandler{account: account}
}

// Profile handles GET /account/profile
func (h *AccountHandler) Profile(w http.ResponseWriter, r *http.Request) {
	customer, err := h.account.Profile(r.Context(), visitorID(r))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.OK(w, r, customer)
}

// UpdateProfile handles PATCH /account/profile
func (h *AccountHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var f form.Profile
	if err := handler.DecodeJSON(r, &f); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	customer, err := h.account.UpdateProfile(r.Context(), visitorID(r), f)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.OK(w, r, customer)
}

// AddToWishlist handles POST /account/wishlist/{productID}
func (h *AccountHandler) AddToWishlist(w http.ResponseWriter, r *http.Request) {
	customer, err := h.account.AddToWishlist(r.Context(), visitorID(r), r.PathValue("productID"))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.OK(w, r, customer)
}

// RemoveFromWishlist handles DELETE /account/wishlist/{productID}
func (h *AccountHandler) RemoveFromWishlist(w http.ResponseWriter, r *http.Request) {
	customer, err := h.account.RemoveFromWishlist(r.Context(), visitorID(r), r.PathValue("productID"))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.OK(w, r, customer)
}

// AddAddress handles POST /account/addresses
func (h *AccountHandler) AddAddress(w http.ResponseWriter, r *http.Request) {
	var f form.Address
	if err := handler.DecodeJSON(r, &f); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	customer, err := h.account.AddAddress(r.Context(), visitorID(r), f)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.Created(w, r, customer)
}

// UpdateAddress handles PATCH /account/addresses/{addressID}
func (h *AccountHandler) UpdateAddress(w http.ResponseWriter, r *http.Request) {
	var f form.Address
	if err := handler.DecodeJSON(r, &f); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	customer, err := h.account.UpdateAddress(r.Context(), visitorID(r), r.PathValue("addressID"), f)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.OK(w, r, customer)
}

// DeleteAddress handles DELETE /account/addresses/{addressID}
func (h *AccountHandler) DeleteAddress(w http.ResponseWriter, r *http.Request) {
	customer, err := h.account.DeleteAddress(r.Context(), visitorID(r), r.PathValue("addressID"))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.OK(w, r, customer)
}

// Orders handles GET /account/orders
func (h *AccountHandler) Orders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.account.Orders(r.Context(), visitorID(r))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.OK(w, r, orders)
}

// Order handles GET /account/orders/{id}
func (h *AccountHandler) Order(w http.ResponseWriter, r *http.Request) {
	order, err := h.account.Order(r.Context(), visitorID(r), r.PathValue("id"))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.OK(w, r, order)
}
