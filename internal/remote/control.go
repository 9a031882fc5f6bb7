package remote

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/xvierd/flow-touch/internal/ports"
)

// Control answers text commands by queuing them for the loop. Replies
// acknowledge the request; the effect shows up in the next status.
type Control struct {
	inbox  *Inbox
	board  *StatusBoard
	logger *log.Logger
}

var _ ports.RemoteControl = (*Control)(nil)

// NewControl wires a command surface to the loop's inbox and status board.
func NewControl(inbox *Inbox, board *StatusBoard, logger *log.Logger) *Control {
	if logger == nil {
		logger = log.Default()
	}
	return &Control{inbox: inbox, board: board, logger: logger}
}

// Handle parses and queues one command.
func (c *Control) Handle(ctx context.Context, text string) (string, error) {
	req, err := Parse(text)
	if err != nil {
		c.logger.Warn("rejected remote command", "text", text, "err", err)
		return "", err
	}
	c.logger.Debug("remote command", "text", text, "kind", req.Kind, "command", req.Command)

	switch req.Kind {
	case RequestHelp:
		return HelpText(), nil
	case RequestStatus:
		return c.Status(), nil
	}

	c.inbox.Fire(req.Command)
	return c.reply(req.Command), nil
}

// Fire queues a command without a reply.
func (c *Control) Fire(cmd Command) {
	c.inbox.Fire(cmd)
}

// Status returns the latest status line.
func (c *Control) Status() string {
	return c.board.Load().Line()
}

// Board exposes the status board for structured readers.
func (c *Control) Board() *StatusBoard {
	return c.board
}

func (c *Control) reply(cmd Command) string {
	switch cmd {
	case CommandStart:
		return "🍅 Starting..."
	case CommandPause:
		return "⏸ Pausing..."
	case CommandResume:
		return "▶️ Resuming..."
	case CommandStop:
		return "⏹ Stopping..."
	case CommandCycleMode:
		next := c.board.Load().Session.NextLabel
		if next == "" {
			return "⏱ Changing mode..."
		}
		return "⏱ Mode: " + next
	default:
		return ""
	}
}
