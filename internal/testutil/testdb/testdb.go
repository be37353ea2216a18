// Package testdb opens migrated sqlite databases for tests.
package testdb

import (
	"path/filepath"
	"testing"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"microlend-backend/internal/infrastructure/db"
)

// Open returns a fresh in-memory schema per call. The pool is pinned to one
// connection because every sqlite :memory: connection is its own database.
func Open(t *testing.T) *gorm.DB {
	t.Helper()
	return open(t, ":memory:", 1)
}

// OpenFile returns a file-backed schema shared by several connections, for
// tests that race transactions against each other. Writers take the lock at
// BEGIN and wait on it instead of failing with SQLITE_BUSY.
func OpenFile(t *testing.T, conns int) *gorm.DB {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "ledger.db") +
		"?_busy_timeout=10000&_txlock=immediate&_journal_mode=WAL"
	return open(t, dsn, conns)
}

func open(t *testing.T, dsn string, conns int) *gorm.DB {
	t.Helper()
	dial, err := db.Dialector("sqlite", dsn)
	if err != nil {
		t.Fatalf("dialector: %v", err)
	}
	gdb, err := gorm.Open(dial, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(conns)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gdb
}
