package storefront

import (
	"net/http"

	"github.com/dukerupert/stride/internal/form"
	"github.com/dukerupert/stride/internal/handler"
	"github.com/dukerupert/stride/internal/service"
)

// AuthHandler handles sign-in, registration and the session view
type AuthHandler struct {
	sessions service.SessionService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(sessions service.SessionService) *AuthHandler {
	return &AuthHandler{sessions: sessions}
}

// Session handles GET /account/session
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	view, err := h.sessions.Current(r.Context(), visitorID(r))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.OK(w, r, view)
}

// Login handles POST /login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var f form.Login
	if err := handler.DecodeJSON(r, &f); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	view, err := h.sessions.Login(r.Context(), visitorID(r), f)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.OK(w, r, view)
}

// Register handles POST /register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var f form.Register
	if err := handler.DecodeJSON(r, &f); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	view, err := h.sessions.Register(r.Context(), visitorID(r), f)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.Created(w, r, view)
}

// Logout handles POST /logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	view, err := h.sessions.Logout(r.Context(), visitorID(r))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.OK(w, r, view)
}
