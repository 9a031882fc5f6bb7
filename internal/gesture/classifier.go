// Package gesture turns raw touch samples into discrete gestures.
//
// The touch controller exposes a chattery contact line and a coordinate
// register that may lag it by a poll. The classifier debounces the line,
// fires long presses while the finger is still down, and reports short
// taps on release at the last known coordinate.
package gesture

import (
	"image"
	"time"

	"github.com/xvierd/flow-touch/internal/domain"
)

// EventType identifies what the classifier observed in one update.
type EventType int

const (
	EventNone EventType = iota
	EventPressed
	EventShortTap
	EventLongPress
	EventReleased
)

func (e EventType) String() string {
	switch e {
	case EventPressed:
		return "pressed"
	case EventShortTap:
		return "short_tap"
	case EventLongPress:
		return "long_press"
	case EventReleased:
		return "released"
	default:
		return "none"
	}
}

// Event is the classifier output. Point is set for EventShortTap.
type Event struct {
	Type     EventType
	Point    image.Point
	Duration time.Duration
}

// Config holds the classifier thresholds.
type Config struct {
	LongPress        time.Duration
	Debounce         time.Duration
	MinTap           time.Duration
	StartSuppression time.Duration
}

// DefaultConfig returns the thresholds tuned for the capacitive panel.
func DefaultConfig() Config {
	return Config{
		LongPress:        1000 * time.Millisecond,
		Debounce:         200 * time.Millisecond,
		MinTap:           10 * time.Millisecond,
		StartSuppression: 1500 * time.Millisecond,
	}
}

// Classifier is a two-state machine (idle, pressed). It is not safe for
// concurrent use; the control loop owns it.
type Classifier struct {
	cfg Config

	pressed       bool
	pressedAt     time.Time
	liftedAt      time.Time // first inactive raw sample of the current press
	longFired     bool
	last          image.Point
	hasLast       bool
	suppressUntil time.Time
}

// New creates an idle classifier.
func New(cfg Config) *Classifier {
	return &Classifier{cfg: cfg}
}

// Pressed reports whether a contact is logically in progress.
func (c *Classifier) Pressed() bool {
	return c.pressed
}

// SuppressTaps drops short taps released before now+StartSuppression. The
// control loop calls it whenever the session starts so the finger lifting
// off a long press cannot land on a freshly drawn button.
func (c *Classifier) SuppressTaps(now time.Time) {
	c.suppressUntil = now.Add(c.cfg.StartSuppression)
}

// Update feeds one sample and returns at most one event.
func (c *Classifier) Update(s domain.TouchSample, now time.Time) Event {
	if !c.pressed {
		if !s.Touched {
			return Event{Type: EventNone}
		}
		c.pressed = true
		c.pressedAt = now
		c.liftedAt = time.Time{}
		c.longFired = false
		// a tap lands only where this contact reported
		c.last, c.hasLast = s.Point, s.HasPoint
		return Event{Type: EventPressed}
	}

	if s.HasPoint {
		c.last = s.Point
		c.hasLast = true
	}

	if s.Touched {
		c.liftedAt = time.Time{}
		held := now.Sub(c.pressedAt)
		if !c.longFired && held >= c.cfg.LongPress {
			c.longFired = true
			return Event{Type: EventLongPress, Duration: held}
		}
		return Event{Type: EventNone}
	}

	if c.liftedAt.IsZero() {
		c.liftedAt = now
	}
	if now.Sub(c.liftedAt) < c.cfg.Debounce {
		return Event{Type: EventNone}
	}

	c.pressed = false
	contact := c.liftedAt.Sub(c.pressedAt)
	if c.longFired || contact < c.cfg.MinTap || now.Before(c.suppressUntil) || !c.hasLast {
		return Event{Type: EventReleased, Duration: contact}
	}
	return Event{Type: EventShortTap, Point: c.last, Duration: contact}
}
