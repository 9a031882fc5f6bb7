// Package notification provides the desktop and log notification sinks.
package notification

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/gen2brain/beeep"

	"github.com/xvierd/flow-touch/internal/domain"
	"github.com/xvierd/flow-touch/internal/ports"
)

// Notifier handles desktop notifications.
type Notifier struct {
	enabled bool
	send    func(title, message, icon string) error
}

var _ ports.Notifier = (*Notifier)(nil)

// New creates a new desktop notifier.
func New(enabled bool) *Notifier {
	return &Notifier{
		enabled: enabled,
		send: func(title, message, icon string) error {
			return beeep.Notify(title, message, icon)
		},
	}
}

// Notify displays a desktop notification if enabled.
func (n *Notifier) Notify(ctx context.Context, msg ports.Notification) error {
	if !n.enabled {
		return nil
	}
	if err := n.send(Title(msg), Body(msg), ""); err != nil {
		return fmt.Errorf("desktop notification failed: %w", err)
	}
	return nil
}

// IsEnabled returns true if notifications are enabled.
func (n *Notifier) IsEnabled() bool {
	return n.enabled
}

// Title picks a heading for the notification.
func Title(msg ports.Notification) string {
	switch msg.Transition {
	case domain.TransitionRestBegan:
		return "☕ Rest"
	case domain.TransitionConnected:
		return "🍅 Flow Touch"
	default:
		if msg.Session.Kind == domain.KindRest && msg.Session.Active() {
			return "☕ Rest"
		}
		return "🍅 Work"
	}
}

// Body is the message text followed by the status line.
func Body(msg ports.Notification) string {
	if msg.Transition == domain.TransitionConnected {
		return msg.Text
	}
	return msg.Text + "\n" + domain.StatusLine(msg.Session)
}

// LogNotifier writes notifications to a logger. It stands in for the chat
// channel on a device without a display session.
type LogNotifier struct {
	logger *log.Logger
}

var _ ports.Notifier = (*LogNotifier)(nil)

// NewLogNotifier creates a log sink.
func NewLogNotifier(logger *log.Logger) *LogNotifier {
	if logger == nil {
		logger = log.Default()
	}
	return &LogNotifier{logger: logger}
}

// Notify logs msg at info level.
func (n *LogNotifier) Notify(ctx context.Context, msg ports.Notification) error {
	n.logger.Info(msg.Text, "transition", msg.Transition, "status", domain.StatusLine(msg.Session))
	return nil
}
