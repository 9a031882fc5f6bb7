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

// ErrDuplicateRecord is returned when a transition ID is recorded twice.
var ErrDuplicateRecord = errors.New("transition already recorded")

// transitionRepository implements ports.TransitionRepository using SQLite.
type transitionRepository struct {
	db *sql.DB
}

// newTransitionRepository creates a new transition repository.
func newTransitionRepository(db *sql.DB) ports.TransitionRepository {
	return &transitionRepository{db: db}
}

// Record appends a transition to the history.
func (r *transitionRepository) Record(ctx context.Context, rec domain.TransitionRecord) error {
	query := `
		INSERT INTO transitions (id, transition, phase, kind, mode, message, at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		rec.ID,
		string(rec.Transition),
		string(rec.Phase),
		string(rec.Kind),
		rec.ModeLabel,
		rec.Message,
		rec.At.UTC(),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: %s", ErrDuplicateRecord, rec.ID)
		}
		return fmt.Errorf("failed to record transition: %w", err)
	}
	return nil
}

// Recent returns up to limit records, newest first.
func (r *transitionRepository) Recent(ctx context.Context, limit int) ([]domain.TransitionRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `
		SELECT id, transition, phase, kind, mode, message, at
		FROM transitions
		ORDER BY at DESC, rowid DESC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query transitions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []domain.TransitionRecord
	for rows.Next() {
		rec, err := scanTransition(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transitions: %w", err)
	}
	return records, nil
}

func scanTransition(rows *sql.Rows) (domain.TransitionRecord, error) {
	var (
		rec        domain.TransitionRecord
		transition string
		phase      string
		kind       string
		message    sql.NullString
		at         time.Time
	)
	if err := rows.Scan(&rec.ID, &transition, &phase, &kind, &rec.ModeLabel, &message, &at); err != nil {
		return rec, fmt.Errorf("failed to scan transition: %w", err)
	}
	rec.Transition = domain.Transition(transition)
	rec.Phase = domain.SessionPhase(phase)
	rec.Kind = domain.SessionKind(kind)
	rec.Message = message.String
	rec.At = at
	return rec, nil
}
