package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/dukerupert/stride/internal/domain"
	"github.com/dukerupert/stride/internal/events"
	"github.com/dukerupert/stride/internal/form"
	"github.com/dukerupert/stride/internal/notify"
	"github.com/dukerupert/stride/internal/session"
	"github.com/dukerupert/stride/internal/telemetry"
)

// SessionView is the session as the browser sees it. The token never leaves
// the gateway.
type SessionView struct {
	User            *domain.Customer `json:"user"`
	IsAuthenticated bool             `json:"isAuthenticated"`
	IsAdmin         bool             `json:"isAdmin"`
	State           session.State    `json:"state"`
	TokenExpiresAt  *time.Time       `json:"tokenExpiresAt,omitempty"`
}

// ViewOf projects a session store into its browser view.
func ViewOf(sess *session.Store) SessionView {
	v := SessionView{
		IsAuthenticated: sess.IsAuthenticated(),
		IsAdmin:         sess.IsAdmin(),
		State:           sess.State(),
	}
	if u, ok := sess.User(); ok {
		v.User = &u
	}
	if exp, ok := sess.TokenExpiry(); ok {
		v.TokenExpiresAt = &exp
	}
	return v
}

// SessionService signs visitors in and out.
type SessionService interface {
	Current(ctx context.Context, visitorID string) (SessionView, error)
	Login(ctx context.Context, visitorID string, f form.Login) (SessionView, error)
	Register(ctx context.Context, visitorID string, f form.Register) (SessionView, error)
	Logout(ctx context.Context, visitorID string) (SessionView, error)

	// UpdateUser replaces the signed-in customer, e.g. after a profile edit.
	UpdateUser(ctx context.Context, visitorID string, c domain.Customer) error
}

type sessionService struct {
	stores    *Stores
	publisher events.Publisher
	metrics   *telemetry.BusinessMetrics
	logger    *slog.Logger

	inflight sync.Map // visitor id -> struct{}
}

// NewSessionService creates a new session service.
func NewSessionService(stores *Stores, publisher events.Publisher, metrics *telemetry.BusinessMetrics, logger *slog.Logger) SessionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &sessionService{
		stores:    stores,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
	}
}

func (s *sessionService) Current(ctx context.Context, visitorID string) (SessionView, error) {
	sess, err := s.stores.Session(ctx, visitorID, notify.From(ctx))
	if err != nil {
		return SessionView{}, err
	}
	return ViewOf(sess), nil
}

func (s *sessionService) Login(ctx context.Context, visitorID string, f form.Login) (SessionView, error) {
	const op = "session.login"
	if err := form.Validate(op, f); err != nil {
		return SessionView{}, err
	}
	creds := f.Credentials()

	view, err := s.authenticate(ctx, visitorID, func(sess *session.Store) error {
		return sess.Login(ctx, creds.Email, creds.Password)
	})
	if err != nil {
		s.metrics.LoginFailed.WithLabelValues(domain.ErrorCode(err)).Inc()
		return view, err
	}
	s.metrics.Logins.Inc()
	return view, nil
}

func (s *sessionService) Register(ctx context.Context, visitorID string, f form.Register) (SessionView, error) {
	const op = "session.register"
	if err := form.Validate(op, f); err != nil {
		return SessionView{}, err
	}
	reg := f.Registration()

	view, err := s.authenticate(ctx, visitorID, func(sess *session.Store) error {
		return sess.Register(ctx, reg)
	})
	if err != nil {
		s.metrics.LoginFailed.WithLabelValues(domain.ErrorCode(err)).Inc()
		return view, err
	}
	s.metrics.Signups.Inc()
	return view, nil
}

// authenticate runs one login or registration per visitor at a time. The
// backend call is made outside the visitor lock; the outcome, success or
// not, is written through afterwards.
func (s *sessionService) authenticate(ctx context.Context, visitorID string, call func(*session.Store) error) (SessionView, error) {
	if _, busy := s.inflight.LoadOrStore(visitorID, struct{}{}); busy {
		return SessionView{}, ErrAuthenticationInFlight
	}
	defer s.inflight.Delete(visitorID)

	sess := session.NewStore(s.stores.auth, notify.From(ctx))
	callErr := call(sess)

	unlock := s.stores.Lock(visitorID)
	err := s.stores.SaveSession(ctx, visitorID, sess)
	unlock()
	if err != nil {
		s.logger.Error("failed to save session", "visitor_id", visitorID, "error", err)
		return SessionView{}, err
	}

	view := ViewOf(sess)
	if callErr != nil {
		return view, callErr
	}

	if u, ok := sess.User(); ok {
		s.publisher.Publish(ctx, events.Event{
			Name:       events.SessionLogin,
			VisitorID:  visitorID,
			CustomerID: u.ID,
			At:         time.Now().UTC(),
		})
	}
	return view, nil
}

func (s *sessionService) Logout(ctx context.Context, visitorID string) (SessionView, error) {
	unlock := s.stores.Lock(visitorID)
	defer unlock()

	sess, err := s.stores.Session(ctx, visitorID, notify.From(ctx))
	if err != nil {
		return SessionView{}, err
	}
	u, hadUser := sess.User()

	sess.Logout()
	if err := s.stores.SaveSession(ctx, visitorID, sess); err != nil {
		return SessionView{}, err
	}

	s.metrics.Logouts.Inc()
	if hadUser {
		s.publisher.Publish(ctx, events.Event{
			Name:       events.SessionLogout,
			VisitorID:  visitorID,
			CustomerID: u.ID,
			At:         time.Now().UTC(),
		})
	}
	return ViewOf(sess), nil
}

func (s *sessionService) UpdateUser(ctx context.Context, visitorID string, c domain.Customer) error {
	unlock := s.stores.Lock(visitorID)
	defer unlock()

	sess, err := s.stores.Session(ctx, visitorID, notify.Discard)
	if err != nil {
		return err
	}
	if !sess.IsAuthenticated() {
		return nil
	}
	sess.UpdateUser(c)
	return s.stores.SaveSession(ctx, visitorID, sess)
}
