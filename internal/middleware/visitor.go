package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/dukerupert/stride/internal/api"
	"github.com/dukerupert/stride/internal/cookie"
	"github.com/dukerupert/stride/internal/notify"
	"github.com/dukerupert/stride/internal/session"
)

const (
	// VisitorCookieName names the browser's stored cart and session.
	VisitorCookieName = "stride_visitor"

	// VisitorCookieMaxAge keeps the cookie for a year.
	VisitorCookieMaxAge = 365 * 24 * 60 * 60

	// VisitorIDContextKey is the context key for the visitor id
	VisitorIDContextKey contextKey = "visitor_id"

	// SessionContextKey is the context key for the visitor's session store
	SessionContextKey contextKey = "session"
)

// SessionLoader loads a visitor's persisted session.
type SessionLoader interface {
	Session(ctx context.Context, visitorID string, n notify.Notifier) (*session.Store, error)
}

// Visitor identifies the browser and loads its session.
// It reads the visitor cookie (issuing a fresh one when it is missing or
// malformed), attaches a notification flash, and makes the session's token
// available to backend calls made with the request context.
func Visitor(loader SessionLoader, cookies *cookie.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			visitorID := cookie.Get(r, VisitorCookieName)
			if _, err := uuid.Parse(visitorID); err != nil {
				visitorID = uuid.NewString()
				cookies.Set(w, VisitorCookieName, visitorID, VisitorCookieMaxAge)
			}

			flash := notify.NewFlash()
			ctx := notify.WithFlash(r.Context(), flash)

			sess, err := loader.Session(ctx, visitorID, flash)
			if err != nil {
				respondInternalError(w, r, err)
				return
			}

			ctx = context.WithValue(ctx, VisitorIDContextKey, visitorID)
			ctx = context.WithValue(ctx, LoggerContextKey, GetLogger(ctx).With(slog.String("visitor_id", visitorID)))
			ctx = context.WithValue(ctx, SessionContextKey, sess)
			ctx = api.ContextWithToken(ctx, sess)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetVisitorID retrieves the visitor id from the context
func GetVisitorID(ctx context.Context) string {
	if id, ok := ctx.Value(VisitorIDContextKey).(string); ok {
		return id
	}
	return ""
}

// GetSession retrieves the session store loaded by Visitor.
// Returns nil when the request did not pass through Visitor.
func GetSession(ctx context.Context) *session.Store {
	sess, _ := ctx.Value(SessionContextKey).(*session.Store)
	return sess
}

// RequireAuth rejects visitors without an authenticated session.
// Must be used after Visitor.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := GetSession(r.Context())
		if sess == nil || !sess.IsAuthenticated() {
			respondUnauthorized(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects visitors whose user lacks the admin role.
// Anonymous visitors get 401, signed-in customers 403.
// Must be used after Visitor.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := GetSession(r.Context())
		if sess == nil || !sess.IsAuthenticated() {
			respondUnauthorized(w, r)
			return
		}
		if !sess.IsAdmin() {
			respondForbidden(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// SentryVisitor reports the visitor and signed-in customer to Sentry.
func SentryVisitor(ctx context.Context) (visitorID, customerID, email string) {
	visitorID = GetVisitorID(ctx)
	if sess := GetSession(ctx); sess != nil {
		if u, ok := sess.User(); ok {
			customerID, email = u.ID, u.Email
		}
	}
	return visitorID, customerID, email
}
