package internal

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/dukerupert/stride/migrations"
)

// RunMigrations applies all pending client state migrations to db.
// dialect is a goose dialect name: "postgres" or "sqlite3". A provider is
// built per call, so several databases can be migrated concurrently.
func RunMigrations(ctx context.Context, db *sql.DB, dialect string) error {
	provider, err := goose.NewProvider(goose.Dialect(dialect), db, migrations.MigrationsFS)
	if err != nil {
		return fmt.Errorf("failed to create migration provider: %w", err)
	}

	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
