// Package router is a thin layer over http.ServeMux. Middleware is applied
// per route, inside the mux, so handlers and middleware both see the matched
// pattern in r.Pattern.
package router

import (
	"net/http"
	"slices"
	"sync"
)

// Middleware is a function that wraps an http.Handler
type Middleware func(http.Handler) http.Handler

// Router wraps http.ServeMux with middleware chaining. Groups share the
// parent's mux and route table.
type Router struct {
	mux    *http.ServeMux
	chain  []Middleware
	routes *routeTable
}

type routeTable struct {
	mu       sync.Mutex
	patterns []string
}

// New creates a Router whose middleware runs for every route
func New(middleware ...Middleware) *Router {
	return &Router{
		mux:    http.NewServeMux(),
		chain:  middleware,
		routes: &routeTable{},
	}
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

func (r *Router) Get(pattern string, handler http.HandlerFunc, middleware ...Middleware) {
	r.Handle(http.MethodGet, pattern, handler, middleware...)
}

func (r *Router) Post(pattern string, handler http.HandlerFunc, middleware ...Middleware) {
	r.Handle(http.MethodPost, pattern, handler, middleware...)
}

func (r *Router) Patch(pattern string, handler http.HandlerFunc, middleware ...Middleware) {
	r.Handle(http.MethodPatch, pattern, handler, middleware...)
}

func (r *Router) Delete(pattern string, handler http.HandlerFunc, middleware ...Middleware) {
	r.Handle(http.MethodDelete, pattern, handler, middleware...)
}

// Handle registers handler for "METHOD pattern". Route middleware runs after
// the router's and group's chain.
func (r *Router) Handle(method, pattern string, handler http.Handler, middleware ...Middleware) {
	r.register(method+" "+pattern, handler, middleware)
}

// NotFound serves every request no other route matches.
func (r *Router) NotFound(handler http.HandlerFunc) {
	r.register("/", handler, nil)
}

// Group creates a sub-router with additional middleware
func (r *Router) Group(middleware ...Middleware) *Router {
	return &Router{
		mux:    r.mux,
		chain:  append(slices.Clone(r.chain), middleware...),
		routes: r.routes,
	}
}

// Routes lists the registered patterns in registration order.
func (r *Router) Routes() []string {
	r.routes.mu.Lock()
	defer r.routes.mu.Unlock()
	return slices.Clone(r.routes.patterns)
}

func (r *Router) register(pattern string, handler http.Handler, middleware []Middleware) {
	r.mux.Handle(pattern, chain(handler, r.chain, middleware))

	r.routes.mu.Lock()
	r.routes.patterns = append(r.routes.patterns, pattern)
	r.routes.mu.Unlock()
}

// chain wraps h so the first middleware listed runs outermost.
func chain(h http.Handler, lists ...[]Middleware) http.Handler {
	for i := len(lists) - 1; i >= 0; i-- {
		for j := len(lists[i]) - 1; j >= 0; j-- {
			h = lists[i][j](h)
		}
	}
	return h
}
