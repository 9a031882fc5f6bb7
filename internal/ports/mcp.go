package ports

import (
	"context"
)

// MCPHandler defines the interface for MCP server operations.
// This is a driving port (called by the application layer).
type MCPHandler interface {
	// Start begins serving MCP requests.
	Start(ctx context.Context) error

	// Stop gracefully shuts down the server.
	Stop() error

	// IsRunning returns true if the server is active.
	IsRunning() bool
}

// RemoteControl accepts text commands from a remote client and answers
// with a reply line. Commands are queued for the control loop; the reply
// never waits for them to be applied.
// This is a driven port (implemented by the remote package).
type RemoteControl interface {
	// Handle interprets one command such as "pause" or "/status".
	Handle(ctx context.Context, text string) (string, error)

	// Status returns the latest published status line.
	Status() string
}
