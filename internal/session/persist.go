package session

import (
	"github.com/dukerupert/stride/internal/domain"
	"github.com/dukerupert/stride/internal/state"
)

// Snapshot is the persisted "auth-storage" blob.
type Snapshot struct {
	User            *domain.Customer `json:"user"`
	Token           string           `json:"token"`
	IsAuthenticated bool             `json:"isAuthenticated"`
	IsAdmin         bool             `json:"isAdmin"`
}

// Codec versions the "auth-storage" blob.
var Codec = state.Codec{
	Namespace: "auth-storage",
	Version:   1,
}

// Snapshot captures the session for persistence. The loading flag is transient.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		Token:           s.token,
		IsAuthenticated: s.isAuthenticated,
		IsAdmin:         s.isAdmin,
	}
	if s.user != nil {
		u := *s.user
		snap.User = &u
	}
	return snap
}

// Restore rehydrates the session and re-derives the flags, so a stored blob
// with inconsistent flags cannot grant access.
func (s *Store) Restore(snap Snapshot) {
	s.mu.Lock()
	s.user, s.token = snap.User, snap.Token
	s.mu.Unlock()

	s.CheckAuth()
}
