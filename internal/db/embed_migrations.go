package db

import "embed"

// MigrationFS embeds SQL migration files from internal/db/migrations.
// Used by the migrate runner (cmd/migrate, MIGRATE_ON_START) and by testutil for SQLite test databases.
//
//go:embed migrations/*.sql
var MigrationFS embed.FS
