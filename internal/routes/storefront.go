package routes

import (
	"github.com/dukerupert/stride/internal/middleware"
	"github.com/dukerupert/stride/internal/router"
)

// RegisterStorefrontRoutes registers all customer-facing storefront routes.
// Checkout is not behind RequireAuth: the checkout service answers
// anonymous visitors with its own "Please login to continue" notification.
func RegisterStorefrontRoutes(r *router.Router, deps StorefrontDeps) {
	r = r.Group(deps.Visitor, middleware.MaxBodySize())

	// Product browsing
	r.Get("/products", deps.ProductHandler.List)
	r.Get("/products/featured", deps.ProductHandler.Featured)
	r.Get("/products/{id}", deps.ProductHandler.Show)

	// Shopping cart
	r.Get("/cart", deps.CartHandler.View)
	r.Post("/cart/items", deps.CartHandler.Add)
	r.Patch("/cart/items/{productID}", deps.CartHandler.Update)
	r.Delete("/cart/items/{productID}", deps.CartHandler.Remove)
	r.Delete("/cart", deps.CartHandler.Clear)

	// Checkout flow
	r.Get("/checkout", deps.CheckoutHandler.Quote)
	r.Post("/checkout", deps.CheckoutHandler.Place)

	// Authentication
	r.Post("/login", deps.AuthHandler.Login, deps.AuthRateLimit)
	r.Post("/register", deps.AuthHandler.Register, deps.AuthRateLimit)
	r.Post("/logout", deps.AuthHandler.Logout)
	r.Get("/account/session", deps.AuthHandler.Session)

	// Account routes (require authentication)
	account := r.Group(middleware.RequireAuth)
	account.Get("/account/profile", deps.AccountHandler.Profile)
	account.Patch("/account/profile", deps.AccountHandler.UpdateProfile)
	account.Post("/account/wishlist/{productID}", deps.AccountHandler.AddToWishlist)
	account.Delete("/account/wishlist/{productID}", deps.AccountHandler.RemoveFromWishlist)
	account.Post("/account/addresses", deps.AccountHandler.AddAddress)
	account.Patch("/account/addresses/{addressID}", deps.AccountHandler.UpdateAddress)
	account.Delete("/account/addresses/{addressID}", deps.AccountHandler.DeleteAddress)
	account.Get("/account/orders", deps.AccountHandler.Orders)
	account.Get("/account/orders/{id}", deps.AccountHandler.Order)
}
