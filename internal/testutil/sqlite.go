// Package testutil provides SQLite-backed GORM databases for tests. The schema comes
// from the same embedded migrations the server applies to Postgres.
package testutil

import (
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"sync/atomic"
	"testing"

	"go.uber.org/zap/zaptest"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"org-membership-service/internal/db"
)

var dbSeq atomic.Uint64

// NewDB returns a fresh in-memory SQLite database with all up migrations applied
// and foreign keys enforced. It is closed when the test ends.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared&_foreign_keys=on", dbSeq.Add(1))
	gdb, err := gorm.Open(sqlite.Open(dsn), db.GormConfig(zaptest.NewLogger(t)))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("sqlite handle: %v", err)
	}
	// One connection keeps the in-memory database alive and serializes transactions.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := applyMigrations(gdb); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return gdb
}

func applyMigrations(gdb *gorm.DB) error {
	files, err := fs.Glob(db.MigrationFS, "migrations/*.up.sql")
	if err != nil {
		return err
	}
	sort.Strings(files)
	for _, name := range files {
		body, err := fs.ReadFile(db.MigrationFS, name)
		if err != nil {
			return err
		}
		for _, stmt := range strings.Split(string(body), ";") {
			if strings.TrimSpace(stmt) == "" {
				continue
			}
			if err := gdb.Exec(stmt).Error; err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
		}
	}
	return nil
}

// CountRows returns the number of rows in table.
func CountRows(t testing.TB, gdb *gorm.DB, table string) int64 {
	t.Helper()
	var n int64
	if err := gdb.Table(table).Count(&n).Error; err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}
