// Package store manages SQLite persistence for cadence: rhythm
// definitions and the activity record log. The chain engine itself
// never touches the database; it consumes records through a fetch
// closure built by this package.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Store holds the database handle.
type Store struct {
	db *sql.DB
}

// Open creates a new Store connected to the SQLite database at dsn.
// It applies recommended pragmas and creates the schema.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// applyPragmas configures SQLite for optimal single-user performance.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS rhythms (
		id                   TEXT PRIMARY KEY,
		name                 TEXT NOT NULL UNIQUE,
		category             TEXT NOT NULL DEFAULT '',
		subcategory          TEXT NOT NULL DEFAULT '',
		activity_name        TEXT NOT NULL DEFAULT '',
		activity_type        TEXT NOT NULL DEFAULT '',
		daily_threshold_secs INTEGER NOT NULL,
		timezone             TEXT NOT NULL DEFAULT '',
		created_at           TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS activities (
		id            TEXT PRIMARY KEY,
		category      TEXT NOT NULL DEFAULT '',
		subcategory   TEXT NOT NULL DEFAULT '',
		name          TEXT NOT NULL DEFAULT '',
		activity_type TEXT NOT NULL DEFAULT '',
		occurred_at   TEXT NOT NULL,
		duration_secs INTEGER,
		created_at    TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_activities_occurred ON activities(occurred_at);
	CREATE INDEX IF NOT EXISTS idx_activities_category ON activities(category, subcategory);

	CREATE TABLE IF NOT EXISTS encouragement_state (
		rhythm_id       TEXT PRIMARY KEY,
		last_message_id TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// DefaultDBPath resolves the database file path in priority order:
// 1. CADENCE_DB environment variable
// 2. $XDG_DATA_HOME/cadence/cadence.db
// 3. ~/.local/share/cadence/cadence.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("CADENCE_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "cadence", "cadence.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
