package routes

import (
	"net/http"

	"github.com/dukerupert/stride/internal/router"
)

// RegisterSystemRoutes registers health and metrics. They skip the visitor
// middleware so health checks never create cookies or touch stored state.
func RegisterSystemRoutes(r *router.Router, deps SystemDeps) {
	r.Get("/health", deps.Health)
	r.Handle(http.MethodGet, "/metrics", deps.Metrics)
}
