// Package state persists the per-visitor client state blobs (cart and
// session) that the storefront rehydrates on every request.
package state

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dukerupert/stride/internal"
)

// Envelope is one stored blob together with its schema version.
type Envelope struct {
	Version int             `json:"version"`
	Data    json.RawMessage `json:"data"`
	SavedAt time.Time       `json:"savedAt"`
}

// Backend stores envelopes keyed by (namespace, owner). The owner is the
// visitor id; namespaces are independent and never written in one transaction.
type Backend interface {
	// Load returns ErrNotFound when nothing is stored for the key.
	Load(ctx context.Context, namespace, owner string) (Envelope, error)

	// Save replaces whatever is stored for the key.
	Save(ctx context.Context, namespace, owner string, env Envelope) error

	// Delete is idempotent.
	Delete(ctx context.Context, namespace, owner string) error

	Close() error
}

// Pruner is implemented by backends that can drop blobs not saved since a
// cutoff. Both namespaces are pruned together.
type Pruner interface {
	Prune(ctx context.Context, before time.Time) (int64, error)
}

// NewBackend creates a Backend from configuration. "file" stores one JSON
// file per blob under cfg.Path; "sqlite" and "postgres" use the client_state
// table, migrated on open.
func NewBackend(cfg internal.PersistenceConfig) (Backend, error) {
	switch cfg.Provider {
	case "file", "":
		return NewFileBackend(cfg.Path)
	case "sqlite":
		db, err := sql.Open("sqlite", cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		// modernc sqlite serializes writers; one connection avoids SQLITE_BUSY.
		db.SetMaxOpenConns(1)
		return OpenSQLBackend(db, DialectSQLite)
	case "postgres":
		db, err := sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres database: %w", err)
		}
		return OpenSQLBackend(db, DialectPostgres)
	default:
		return nil, ErrUnknownProvider(cfg.Provider)
	}
}
