// Package storage provides SQLite implementations of the storage ports.
package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"modernc.org/sqlite"

	"github.com/xvierd/flow-touch/internal/ports"
)

// sqliteStorage implements the ports.Storage interface using SQLite.
type sqliteStorage struct {
	db             *sql.DB
	settingsRepo   ports.SettingsRepository
	transitionRepo ports.TransitionRepository
}

// Ensure sqliteStorage implements ports.Storage.
var _ ports.Storage = (*sqliteStorage)(nil)

// New creates a new SQLite storage instance.
func New(dbPath string) (ports.Storage, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// every connection to ":memory:" is a separate database
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 2000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	storage := &sqliteStorage{
		db:             db,
		settingsRepo:   newSettingsRepository(db),
		transitionRepo: newTransitionRepository(db),
	}

	if err := storage.Migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return storage, nil
}

// NewMemory creates a new in-memory SQLite storage instance for testing.
func NewMemory() (ports.Storage, error) {
	return New(":memory:")
}

// Settings returns the settings repository.
func (s *sqliteStorage) Settings() ports.SettingsRepository {
	return s.settingsRepo
}

// Transitions returns the transition history repository.
func (s *sqliteStorage) Transitions() ports.TransitionRepository {
	return s.transitionRepo
}

// Close closes the database connection.
func (s *sqliteStorage) Close() error {
	return s.db.Close()
}

// Migrate creates the database schema.
func (s *sqliteStorage) Migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS settings (
		namespace TEXT NOT NULL,
		key TEXT NOT NULL,
		value TEXT NOT NULL,
		updated_at DATETIME NOT NULL,
		PRIMARY KEY (namespace, key)
	);

	CREATE TABLE IF NOT EXISTS transitions (
		id TEXT PRIMARY KEY,
		transition TEXT NOT NULL,
		phase TEXT NOT NULL,
		kind TEXT NOT NULL,
		mode TEXT NOT NULL,
		message TEXT,
		at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_transitions_at ON transitions(at);
	`

	_, err := s.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	return nil
}

// isUniqueConstraintError checks if an error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	// SQLITE_CONSTRAINT_UNIQUE and SQLITE_CONSTRAINT_PRIMARYKEY
	return sqliteErr.Code() == 2067 || sqliteErr.Code() == 1555
}
