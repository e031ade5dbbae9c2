// Package session holds a visitor's authentication state: the signed-in
// customer, the bearer token and the derived role flags.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/dukerupert/stride/internal/domain"
	"github.com/dukerupert/stride/internal/notify"
	"github.com/golang-jwt/jwt/v5"
)

// State is the position of the session in its lifecycle.
type State string

const (
	StateAnonymous      State = "anonymous"
	StateAuthenticating State = "authenticating"
	StateAuthenticated  State = "authenticated"
)

// Authenticator exchanges credentials for a customer and token.
type Authenticator interface {
	Login(ctx context.Context, creds domain.Credentials) (domain.AuthResult, error)
	Register(ctx context.Context, reg domain.Registration) (domain.AuthResult, error)
}

// Store is the session of a single visitor.
//
// IsAuthenticated is true only while both a customer and a token are held,
// and IsAdmin mirrors the customer's admin flag.
type Store struct {
	mu              sync.RWMutex
	user            *domain.Customer
	token           string
	isAuthenticated bool
	isAdmin         bool
	loading         bool

	auth     Authenticator
	notifier notify.Notifier
}

// NewStore returns an anonymous session. A nil n discards notifications.
func NewStore(auth Authenticator, n notify.Notifier) *Store {
	if n == nil {
		n = notify.Discard
	}
	return &Store{auth: auth, notifier: n}
}

// Login authenticates with email and password. On failure the session is
// left anonymous and the backend's message, or "Login failed", is raised.
func (s *Store) Login(ctx context.Context, email, password string) error {
	return s.authenticate(ctx, "session.login", "Welcome back!", "Login failed",
		func(ctx context.Context) (domain.AuthResult, error) {
			return s.auth.Login(ctx, domain.Credentials{Email: email, Password: password})
		})
}

// Register creates an account; the backend signs the new customer in.
func (s *Store) Register(ctx context.Context, reg domain.Registration) error {
	return s.authenticate(ctx, "session.register", "Account created successfully!", "Registration failed",
		func(ctx context.Context) (domain.AuthResult, error) {
			return s.auth.Register(ctx, reg)
		})
}

func (s *Store) authenticate(ctx context.Context, op, welcome, fallback string, call func(context.Context) (domain.AuthResult, error)) error {
	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		return domain.Conflict(op, "Authentication already in progress")
	}
	s.loading = true
	s.mu.Unlock()

	result, err := call(ctx)

	s.mu.Lock()
	s.loading = false
	if err == nil && (result.Token == "" || result.Customer.ID == "") {
		err = domain.Errorf(domain.EUNAVAILABLE, op, "%s", fallback)
	}
	if err != nil {
		s.user, s.token = nil, ""
		s.derive()
		s.mu.Unlock()

		s.notifier.Error(domain.MessageOr(err, fallback))
		return err
	}

	customer := result.Customer
	s.user, s.token = &customer, result.Token
	s.derive()
	s.mu.Unlock()

	s.notifier.Success(welcome)
	return nil
}

// Logout forgets the customer and token. It never fails.
func (s *Store) Logout() {
	s.mu.Lock()
	s.user, s.token = nil, ""
	s.derive()
	s.mu.Unlock()

	s.notifier.Success("Logged out successfully")
}

// UpdateUser replaces the held customer, typically after a profile edit.
func (s *Store) UpdateUser(c domain.Customer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = &c
	s.derive()
}

// CheckAuth re-derives the flags from the held customer and token.
func (s *Store) CheckAuth() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.derive()
}

func (s *Store) derive() {
	s.isAuthenticated = s.user != nil && s.token != ""
	s.isAdmin = s.user != nil && s.user.IsAdmin
}

// User returns a copy of the signed-in customer.
func (s *Store) User() (domain.Customer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return domain.Customer{}, false
	}
	return *s.user, true
}

func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isAuthenticated
}

func (s *Store) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isAdmin
}

func (s *Store) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch {
	case s.loading:
		return StateAuthenticating
	case s.isAuthenticated:
		return StateAuthenticated
	default:
		return StateAnonymous
	}
}

// TokenExpiry reads the exp claim of the bearer token. The signature is not
// checked; the backend remains the authority on token validity.
func (s *Store) TokenExpiry() (time.Time, bool) {
	return tokenExpiry(s.Token())
}

func tokenExpiry(token string) (time.Time, bool) {
	if token == "" {
		return time.Time{}, false
	}
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
