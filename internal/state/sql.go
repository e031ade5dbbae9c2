package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dukerupert/stride/internal"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// gooseDialect maps to the names goose registers.
func (d Dialect) gooseDialect() string {
	if d == DialectSQLite {
		return "sqlite3"
	}
	return "postgres"
}

// SQLBackend stores envelopes in the client_state table.
type SQLBackend struct {
	db      *sql.DB
	dialect Dialect
}

// OpenSQLBackend pings db, runs the schema migrations and takes ownership of db.
func OpenSQLBackend(db *sql.DB, dialect Dialect) (*SQLBackend, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", dialect, err)
	}
	if err := internal.RunMigrations(ctx, db, dialect.gooseDialect()); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLBackend{db: db, dialect: dialect}, nil
}

// rebind rewrites ? placeholders to $n for postgres.
func (b *SQLBackend) rebind(query string) string {
	if b.dialect != DialectPostgres {
		return query
	}
	var sb strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func (b *SQLBackend) Load(ctx context.Context, namespace, owner string) (Envelope, error) {
	var (
		env     Envelope
		data    string
		savedAt int64
	)
	err := b.db.QueryRowContext(ctx,
		b.rebind(`SELECT version, data, saved_at FROM client_state WHERE namespace = ? AND owner = ?`),
		namespace, owner,
	).Scan(&env.Version, &data, &savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Envelope{}, ErrNotFound
	}
	if err != nil {
		return Envelope{}, fmt.Errorf("failed to load state: %w", err)
	}
	env.Data = []byte(data)
	env.SavedAt = time.UnixMilli(savedAt).UTC()
	return env, nil
}

func (b *SQLBackend) Save(ctx context.Context, namespace, owner string, env Envelope) error {
	_, err := b.db.ExecContext(ctx, b.rebind(`
		INSERT INTO client_state (namespace, owner, version, data, saved_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (namespace, owner) DO UPDATE
		SET version = excluded.version, data = excluded.data, saved_at = excluded.saved_at`),
		namespace, owner, env.Version, string(env.Data), env.SavedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}
	return nil
}

func (b *SQLBackend) Delete(ctx context.Context, namespace, owner string) error {
	_, err := b.db.ExecContext(ctx,
		b.rebind(`DELETE FROM client_state WHERE namespace = ? AND owner = ?`),
		namespace, owner,
	)
	if err != nil {
		return fmt.Errorf("failed to delete state: %w", err)
	}
	return nil
}

func (b *SQLBackend) Prune(ctx context.Context, before time.Time) (int64, error) {
	res, err := b.db.ExecContext(ctx,
		b.rebind(`DELETE FROM client_state WHERE saved_at < ?`),
		before.UnixMilli(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to prune state: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count pruned state: %w", err)
	}
	return n, nil
}

// DB exposes the handle for health checks.
func (b *SQLBackend) DB() *sql.DB {
	return b.db
}

func (b *SQLBackend) Close() error {
	return b.db.Close()
}
