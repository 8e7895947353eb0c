// Package database opens the SQLite card database and provides the card repository
package database

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const (
	// DefaultName is the database every bbct process opens unless configured otherwise
	DefaultName = "bbct"

	// TestName is the database name used by tests that need a file on disk
	TestName = "bbct_test"

	// MemoryPath opens a private in-memory database
	MemoryPath = ":memory:"
)

// PathFor returns the database file for name inside dataDir
func PathFor(dataDir, name string) string {
	return filepath.Join(dataDir, name+".db")
}

// Open opens the database at path, applies connection pragmas and runs migrations.
// The parent directory is created when missing.
func Open(ctx context.Context, path string) (*sqlx.DB, error) {
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, classify("open", 0, fmt.Errorf("failed to create directory: %w", err))
		}
	}

	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, classify("open", 0, fmt.Errorf("failed to open database: %w", err))
	}

	// one connection: SQLite has a single writer, and :memory: lives per connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			slog.Error("failed to apply pragma", "pragma", pragma, "error", err)
			closeQuietly(db)
			return nil, classify("open", 0, err)
		}
	}

	if err := db.PingContext(ctx); err != nil {
		closeQuietly(db)
		return nil, classify("open", 0, fmt.Errorf("database ping failed: %w", err))
	}

	if err := runMigrations(ctx, db); err != nil {
		closeQuietly(db)
		return nil, classify("migrate", 0, fmt.Errorf("failed to run migrations: %w", err))
	}

	return db, nil
}

func closeQuietly(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		slog.Error("error closing db", "error", err)
	}
}
