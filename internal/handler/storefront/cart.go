package storefront

import (
	"encoding/json"
	"net/http"

	"github.com/dukerupert/stride/internal/cart"
	"github.com/dukerupert/stride/internal/handler"
	"github.com/dukerupert/stride/internal/service"
)

// CartHandler handles all cart-related storefront routes
type CartHandler struct {
	cartService service.CartService
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// addItemRequest keeps size and color raw: clients send numbers and objects
// as well as strings, and all of them become option text.
type addItemRequest struct {
	ProductID string          `json:"productId"`
	Size      json.RawMessage `json:"size"`
	Color     json.RawMessage `json:"color"`
	Quantity  int             `json:"quantity"`
}

type updateItemRequest struct {
	Quantity int `json:"quantity"`
}

// View handles GET /cart
func (h *CartHandler) View(w http.ResponseWriter, r *http.Request) {
	summary, err := h.cartService.Get(r.Context(), visitorID(r))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.OK(w, r, summary)
}

// Add handles POST /cart/items
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	summary, err := h.cartService.Add(r.Context(), visitorID(r), service.AddItemInput{
		ProductID: req.ProductID,
		Size:      cart.OptionText(req.Size),
		Color:     cart.OptionText(req.Color),
		Quantity:  req.Quantity,
	})
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.OK(w, r, summary)
}

// Update handles PATCH /cart/items/{productID}
// With size or color in the query only that variant changes; otherwise every
// variant of the product takes the new quantity. Zero removes.
func (h *CartHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateItemRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	var (
		summary service.CartSummary
		err     error
	)
	if key, ok := variantKey(r); ok {
		summary, err = h.cartService.UpdateVariantQuantity(r.Context(), visitorID(r), key, req.Quantity)
	} else {
		summary, err = h.cartService.UpdateQuantity(r.Context(), visitorID(r), r.PathValue("productID"), req.Quantity)
	}
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.OK(w, r, summary)
}

// Remove handles DELETE /cart/items/{productID}
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	var (
		summary service.CartSummary
		err     error
	)
	if key, ok := variantKey(r); ok {
		summary, err = h.cartService.RemoveVariant(r.Context(), visitorID(r), key)
	} else {
		summary, err = h.cartService.Remove(r.Context(), visitorID(r), r.PathValue("productID"))
	}
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.OK(w, r, summary)
}

// Clear handles DELETE /cart
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	summary, err := h.cartService.Clear(r.Context(), visitorID(r))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.OK(w, r, summary)
}

// variantKey reads the optional size/color narrowing from the query.
func variantKey(r *http.Request) (cart.Key, bool) {
	q := r.URL.Query()
	if !q.Has("size") && !q.Has("color") {
		return cart.Key{}, false
	}
	return cart.Key{
		ProductID: r.PathValue("productID"),
		Size:      q.Get("size"),
		Color:     q.Get("color"),
	}, true
}
