package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/dukerupert/stride/internal/cart"
	"github.com/dukerupert/stride/internal/domain"
	"github.com/dukerupert/stride/internal/notify"
	"github.com/dukerupert/stride/internal/session"
	"github.com/dukerupert/stride/internal/state"
	"github.com/dukerupert/stride/internal/telemetry"
)

// Stores loads and saves the per-visitor cart and session. Mutations of one
// visitor's state are serialized with Lock so concurrent requests from the
// same browser cannot lose each other's writes.
type Stores struct {
	carts    *state.Namespace
	sessions *state.Namespace
	auth     session.Authenticator
	metrics  *telemetry.BusinessMetrics
	logger   *slog.Logger

	mu    sync.Mutex
	locks map[string]*visitorLock
}

type visitorLock struct {
	mu   sync.Mutex
	refs int
}

func NewStores(backend state.Backend, auth session.Authenticator, metrics *telemetry.BusinessMetrics, logger *slog.Logger) *Stores {
	if logger == nil {
		logger = slog.Default()
	}
	return &Stores{
		carts:    state.NewNamespace(backend, cart.Codec),
		sessions: state.NewNamespace(backend, session.Codec),
		auth:     auth,
		metrics:  metrics,
		logger:   logger,
		locks:    make(map[string]*visitorLock),
	}
}

// Lock takes the visitor's state lock and returns its release.
func (s *Stores) Lock(visitorID string) (unlock func()) {
	s.mu.Lock()
	l, ok := s.locks[visitorID]
	if !ok {
		l = &visitorLock{}
		s.locks[visitorID] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()

		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, visitorID)
		}
		s.mu.Unlock()
	}
}

// Cart loads the visitor's cart. A missing, unreadable or newer-versioned
// blob yields an empty cart; only backend failures are returned.
func (s *Stores) Cart(ctx context.Context, visitorID string, n notify.Notifier) (*cart.Store, error) {
	c := cart.NewStore(n)

	var snap cart.Snapshot
	if err := s.load(ctx, s.carts, visitorID, &snap); err != nil {
		return nil, err
	}
	c.Restore(snap)
	return c, nil
}

// SaveCart writes the cart through to storage.
func (s *Stores) SaveCart(ctx context.Context, visitorID string, c *cart.Store) error {
	if err := s.carts.Save(ctx, visitorID, c.Snapshot()); err != nil {
		return domain.Internal(err, "stores.save_cart", "failed to save cart")
	}
	return nil
}

// Session loads the visitor's session and re-derives its flags.
func (s *Stores) Session(ctx context.Context, visitorID string, n notify.Notifier) (*session.Store, error) {
	sess := session.NewStore(s.auth, n)

	var snap session.Snapshot
	if err := s.load(ctx, s.sessions, visitorID, &snap); err != nil {
		return nil, err
	}
	sess.Restore(snap)
	return sess, nil
}

// SaveSession writes the session through to storage.
func (s *Stores) SaveSession(ctx context.Context, visitorID string, sess *session.Store) error {
	if err := s.sessions.Save(ctx, visitorID, sess.Snapshot()); err != nil {
		return domain.Internal(err, "stores.save_session", "failed to save session")
	}
	return nil
}

func (s *Stores) load(ctx context.Context, ns *state.Namespace, visitorID string, v any) error {
	err := ns.Load(ctx, visitorID, v)
	switch {
	case err == nil:
		return nil
	case state.IsNotFound(err):
		return nil
	case state.IsNewerVersion(err) || state.IsCorrupt(err):
		s.logger.Warn("resetting unreadable client state",
			"namespace", ns.Name(),
			"visitor_id", visitorID,
			"error", err,
		)
		if s.metrics != nil {
			s.metrics.StateLoadFailed.WithLabelValues(ns.Name()).Inc()
		}
		return nil
	default:
		return domain.Internal(err, "stores.load", "failed to load "+ns.Name())
	}
}
