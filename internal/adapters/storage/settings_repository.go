package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/xvierd/flow-touch/internal/domain"
	"github.com/xvierd/flow-touch/internal/ports"
)

// Namespace groups the device settings, like an NVS namespace.
const Namespace = "pomodoro"

// settingsRepository implements ports.SettingsRepository using SQLite.
type settingsRepository struct {
	db *sql.DB
}

// newSettingsRepository creates a new settings repository.
func newSettingsRepository(db *sql.DB) ports.SettingsRepository {
	return &settingsRepository{db: db}
}

// Get returns the stored value for key.
func (r *settingsRepository) Get(ctx context.Context, key string) (string, error) {
	query := `SELECT value FROM settings WHERE namespace = ? AND key = ?`

	var value string
	err := r.db.QueryRowContext(ctx, query, Namespace, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", domain.ErrSettingNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get setting %s: %w", key, err)
	}
	return value, nil
}

// Set inserts or replaces the value for key.
func (r *settingsRepository) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO settings (namespace, key, value, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(namespace, key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`

	if _, err := r.db.ExecContext(ctx, query, Namespace, key, value, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to set setting %s: %w", key, err)
	}
	return nil
}
