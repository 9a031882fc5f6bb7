package remote

import (
	"sync/atomic"
	"time"

	"github.com/xvierd/flow-touch/internal/domain"
)

// Status is the state published by the control loop after each tick.
type Status struct {
	Session   domain.SessionSnapshot
	Screen    domain.ScreenKind
	Accent    domain.Color
	UpdatedAt time.Time
}

// Line renders the status the way the chat command replies.
func (s Status) Line() string {
	if s.UpdatedAt.IsZero() {
		return "🍅 Starting up"
	}
	return "🍅 " + domain.StatusLine(s.Session)
}

// StatusBoard lets readers on other goroutines see the latest status
// without touching loop-owned state.
type StatusBoard struct {
	current atomic.Pointer[Status]
}

// NewStatusBoard creates an empty board.
func NewStatusBoard() *StatusBoard {
	return &StatusBoard{}
}

// Publish replaces the current status.
func (b *StatusBoard) Publish(s Status) {
	b.current.Store(&s)
}

// Load returns the latest status, or the zero Status before the first
// publish.
func (b *StatusBoard) Load() Status {
	if s := b.current.Load(); s != nil {
		return *s
	}
	return Status{}
}
