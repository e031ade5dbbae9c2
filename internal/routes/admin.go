package routes

import (
	"github.com/dukerupert/stride/internal/middleware"
	"github.com/dukerupert/stride/internal/router"
)

// RegisterAdminRoutes registers the admin dashboard routes. All of them
// require a signed-in admin.
func RegisterAdminRoutes(r *router.Router, deps AdminDeps) {
	a := r.Group(deps.Visitor, middleware.RequireAdmin, middleware.MaxBodySize())
	uploads := r.Group(deps.Visitor, middleware.RequireAdmin, middleware.MaxBodySize(middleware.UploadMaxBodySize))

	// Dashboard
	a.Get("/dashboard", deps.DashboardHandler.Stats)
	a.Get("/dashboard/analytics", deps.DashboardHandler.Analytics)

	// Orders
	a.Get("/dashboard/orders", deps.OrderHandler.List)
	a.Get("/dashboard/orders/{id}", deps.OrderHandler.Show)
	a.Patch("/dashboard/orders/{id}/status", deps.OrderHandler.UpdateStatus)

	// Products
	uploads.Post("/dashboard/products", deps.ProductHandler.Create)
	uploads.Patch("/dashboard/products/{id}", deps.ProductHandler.Update)
	a.Delete("/dashboard/products/{id}", deps.ProductHandler.Delete)
	a.Post("/dashboard/products/bulk-delete", deps.ProductHandler.BulkDelete)
}
