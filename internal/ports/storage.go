// Package ports defines the interfaces (driven and driving ports)
// for the Flow Touch application following hexagonal architecture
// principles. These interfaces define the contracts between the domain
// layer and external infrastructure.
package ports

import (
	"context"

	"github.com/xvierd/flow-touch/internal/domain"
)

// SettingsRepository defines the interface for small key/value settings.
// This is a driven port (implemented by adapters).
type SettingsRepository interface {
	// Get returns the stored value or domain.ErrSettingNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Set inserts or replaces a value.
	Set(ctx context.Context, key, value string) error
}

// TransitionRepository defines the interface for the transition history.
// This is a driven port (implemented by adapters).
type TransitionRepository interface {
	// Record appends a transition to the history.
	Record(ctx context.Context, rec domain.TransitionRecord) error

	// Recent returns up to limit records, newest first.
	Recent(ctx context.Context, limit int) ([]domain.TransitionRecord, error)
}

// Storage is the combined repository interface.
// This is a driven port (implemented by adapters).
type Storage interface {
	// Settings provides access to persisted settings.
	Settings() SettingsRepository

	// Transitions provides access to the transition history.
	Transitions() TransitionRepository

	// Close closes the storage connection.
	Close() error

	// Migrate runs database migrations.
	Migrate() error
}
