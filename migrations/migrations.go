// Package migrations embeds the SQL schema for the persisted client state table.
package migrations

import "embed"

//go:embed *.sql
var MigrationsFS embed.FS
