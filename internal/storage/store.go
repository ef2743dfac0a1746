// Package storage persists the ledger in a single SQLite file.
//
// Amounts are stored as integer cents so SQL aggregation is exact;
// dates as plain YYYY-MM-DD text so month grouping is a substring, not
// timezone arithmetic. Every ledger mutation commits the row change and
// its history entry in one transaction.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"outlay/internal/core"

	_ "modernc.org/sqlite"
)

// Store wraps the SQLite handle. Open runs migrations, so a returned
// Store is always at the current schema.
type Store struct {
	db *sql.DB
}

// Open creates the database file (and its directory) if needed, applies
// pragmas and pending migrations, and verifies connectivity.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	// Pragmas go in the DSN so every pooled connection gets them;
	// foreign_keys in particular is per-connection in SQLite.
	dsn := "file:" + dbPath +
		"?_pragma=journal_mode(WAL)" +
		"&_pragma=synchronous(NORMAL)" +
		"&_pragma=foreign_keys(1)" +
		"&_pragma=busy_timeout(5000)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SchemaVersion reads the schema_version row migrations maintain in
// meta_info.
func (s *Store) SchemaVersion(ctx context.Context) (string, error) {
	var v string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM meta_info WHERE key = 'schema_version'`).Scan(&v)
	if err != nil {
		return "", storageErr("read schema version", err)
	}
	return v, nil
}

// storageErr tags a driver failure with ErrStorage so callers can
// branch on the kind while the cause stays in the chain.
func storageErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, core.ErrStorage, err)
}
