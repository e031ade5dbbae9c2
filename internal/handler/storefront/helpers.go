package storefront

import (
	"net/http"

	"github.com/dukerupert/stride/internal/middleware"
)

// visitorID is the id the Visitor middleware resolved for this browser.
func visitorID(r *http.Request) string {
	return middleware.GetVisitorID(r.Context())
}
