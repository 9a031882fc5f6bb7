package services

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/xvierd/flow-touch/internal/domain"
	"github.com/xvierd/flow-touch/internal/ports"
	"github.com/xvierd/flow-touch/internal/remote"
)

// DefaultCooldown is the minimum gap between two delivered notifications.
const DefaultCooldown = 3 * time.Second

// Dispatcher drains the outbox on its own goroutine. Every message is
// written to the history; delivery to the sinks is rate limited by a
// single cooldown shared by all transitions.
type Dispatcher struct {
	outbox   *remote.Outbox
	history  ports.TransitionRepository
	sinks    []ports.Notifier
	cooldown time.Duration
	lastSent time.Time
	logger   *log.Logger
}

// NewDispatcher creates a dispatcher. history may be nil.
func NewDispatcher(outbox *remote.Outbox, history ports.TransitionRepository, cooldown time.Duration, logger *log.Logger, sinks ...ports.Notifier) *Dispatcher {
	if logger == nil {
		logger = log.Default()
	}
	if cooldown < 0 {
		cooldown = DefaultCooldown
	}
	return &Dispatcher{
		outbox:   outbox,
		history:  history,
		sinks:    sinks,
		cooldown: cooldown,
		logger:   logger,
	}
}

// Run delivers notifications until ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case n := <-d.outbox.C():
			d.Handle(ctx, n)
		}
	}
}

// Handle records n and forwards it to the sinks unless it falls inside the
// cooldown. It reports whether n was delivered.
func (d *Dispatcher) Handle(ctx context.Context, n ports.Notification) bool {
	if d.history != nil {
		rec := domain.NewTransitionRecord(n.Transition, n.Session, n.At)
		if err := d.history.Record(ctx, rec); err != nil {
			d.logger.Warn("failed to record transition", "transition", n.Transition, "err", err)
		}
	}

	if !d.lastSent.IsZero() && n.At.Sub(d.lastSent) < d.cooldown {
		d.logger.Debug("notification suppressed", "transition", n.Transition, "since_last", n.At.Sub(d.lastSent))
		return false
	}
	d.lastSent = n.At

	for _, sink := range d.sinks {
		if err := sink.Notify(ctx, n); err != nil {
			d.logger.Warn("notification failed", "transition", n.Transition, "err", err)
		}
	}
	return true
}
