package admin

import (
	"net/http"

	"github.com/dukerupert/stride/internal/form"
	"github.com/dukerupert/stride/internal/handler"
	"github.com/dukerupert/stride/internal/service"
)

// OrderHandler handles admin order management
type OrderHandler struct {
	admin service.AdminService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(admin service.AdminService) *OrderHandler {
	return &OrderHandler{admin: admin}
}

// List handles GET /dashboard/orders?status=
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.admin.Orders(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.OK(w, r, orders)
}

// Show handles GET /dashboard/orders/{id}
func (h *OrderHandler) Show(w http.ResponseWriter, r *http.Request) {
	order, err := h.admin.Order(r.Context(), r.PathValue("id"))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.OK(w, r, order)
}

// UpdateStatus handles PATCH /dashboard/orders/{id}/status
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var f form.OrderStatus
	if err := handler.DecodeJSON(r, &f); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	order, err := h.admin.UpdateOrderStatus(r.Context(), r.PathValue("id"), f)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.OK(w, r, order)
}
