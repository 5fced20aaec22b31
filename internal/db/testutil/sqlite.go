// Package testutil opens throwaway SQLite databases for package tests.
package testutil

import (
	"testing"

	"carclub/paddock/internal/db"

	"github.com/jmoiron/sqlx"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenSQLite returns a migrated in-memory database. The pool is pinned to
// one connection so every query, and every transaction, sees the same
// in-memory database; concurrent callers queue on it like writers queue
// on a Postgres row lock.
func OpenSQLite(t testing.TB) *gorm.DB {
	t.Helper()

	cfg := db.GormConfig()
	cfg.Logger = logger.Default.LogMode(logger.Silent)

	gdb, err := gorm.Open(sqlite.Open(":memory:"), cfg)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	return gdb
}

// SQLX wraps the GORM pool for the sqlx reporting repository.
func SQLX(t testing.TB, gdb *gorm.DB) *sqlx.DB {
	t.Helper()

	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	return sqlx.NewDb(sqlDB, "sqlite3")
}
