package admin

import (
	"net/http"

	"github.com/dukerupert/stride/internal/handler"
	"github.com/dukerupert/stride/internal/service"
)

// DashboardHandler serves the admin dashboard figures
type DashboardHandler struct {
	admin service.AdminService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(admin service.AdminService) *DashboardHandler {
	return &DashboardHandler{admin: admin}
}

// Stats handles GET /dashboard
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.admin.Dashboard(r.Context())
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.OK(w, r, stats)
}

// Analytics handles GET /dashboard/analytics?period=7d|30d|90d
func (h *DashboardHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	analytics, err := h.admin.Analytics(r.Context(), r.URL.Query().Get("period"))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.OK(w, r, analytics)
}
