package ports

import (
	"context"
	"time"

	"github.com/xvierd/flow-touch/internal/domain"
)

// Notification is one outbound message produced by the control loop.
type Notification struct {
	Transition domain.Transition
	Text       string
	Session    domain.SessionSnapshot
	At         time.Time
}

// Notifier delivers notifications to a human.
// This is a driven port (implemented by adapters).
type Notifier interface {
	// Notify sends n. Failures are reported but never retried.
	Notify(ctx context.Context, n Notification) error
}
