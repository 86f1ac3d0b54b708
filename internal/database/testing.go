// internal/database/testing.go
package database

import (
	"testing"

	"gorm.io/gorm"

	"github.com/luxeshop/luxe-backend/internal/config"
)

// OpenTestDB opens a migrated in-memory SQLite database. The pool is pinned to
// one connection because every new SQLite memory connection is a fresh
// database.
func OpenTestDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := Initialize(config.DatabaseConfig{
		Driver:       "sqlite",
		Database:     ":memory:",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		LogLevel:     "silent",
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := RunMigrations(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() { Close(db) })
	return db
}
