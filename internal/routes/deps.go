package routes

import (
	"net/http"

	"github.com/dukerupert/stride/internal/handler/admin"
	"github.com/dukerupert/stride/internal/handler/storefront"
	"github.com/dukerupert/stride/internal/router"
)

// StorefrontDeps contains dependencies for storefront routes
type StorefrontDeps struct {
	// Visitor resolves the browser and loads its session. Every storefront
	// route runs behind it.
	Visitor router.Middleware

	// AuthRateLimit guards login and registration
	AuthRateLimit router.Middleware

	ProductHandler  *storefront.ProductHandler
	CartHandler     *storefront.CartHandler
	AuthHandler     *storefront.AuthHandler
	CheckoutHandler *storefront.CheckoutHandler
	AccountHandler  *storefront.AccountHandler
}

// AdminDeps contains dependencies for admin routes
type AdminDeps struct {
	Visitor router.Middleware

	DashboardHandler *admin.DashboardHandler
	OrderHandler     *admin.OrderHandler
	ProductHandler   *admin.ProductHandler
}

// SystemDeps contains dependencies for operational routes
type SystemDeps struct {
	Health  http.HandlerFunc
	Metrics http.Handler
}
