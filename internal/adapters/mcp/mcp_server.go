// Package mcp provides the MCP (Model Context Protocol) server implementation.
// It is the remote command source of the device: every tool queues a command
// for the control loop or reads the published status.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/xvierd/flow-touch/internal/ports"
	"github.com/xvierd/flow-touch/internal/remote"
)

// Transports accepted by Start.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Options selects how the server is exposed.
type Options struct {
	Transport string
	Addr      string
}

// Server implements the MCP server using mark3labs/mcp-go.
type Server struct {
	server  *server.MCPServer
	control ports.RemoteControl
	board   *remote.StatusBoard
	history ports.TransitionRepository
	opts    Options
	logger  *log.Logger

	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
	http   *server.StreamableHTTPServer
}

// NewServer creates a new MCP server instance. history may be nil, in which
// case get_history is not offered.
func NewServer(control ports.RemoteControl, board *remote.StatusBoard, history ports.TransitionRepository, opts Options, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if opts.Transport == "" {
		opts.Transport = TransportStdio
	}
	s := &Server{
		control: control,
		board:   board,
		history: history,
		opts:    opts,
		logger:  logger,
	}

	s.server = server.NewMCPServer(
		"flow-touch",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithLogging(),
	)

	s.registerTools()

	return s
}

// commandTools maps the one-shot tools to the chat command they send.
var commandTools = []struct {
	name        string
	description string
	command     string
}{
	{"start_timer", "Start a work session (ignored while a session is active or a color is being picked)", "/work"},
	{"pause_timer", "Pause the running session", "/pause"},
	{"resume_timer", "Resume the paused session", "/resume"},
	{"stop_timer", "Stop the session and return to the home screen", "/stop"},
	{"cycle_mode", "Switch to the next work/rest preset (1/1, 25/5, 50/10)", "/mode"},
}

// registerTools registers all available MCP tools.
func (s *Server) registerTools() {
	for _, ct := range commandTools {
		s.server.AddTool(
			mcp.NewTool(ct.name, mcp.WithDescription(ct.description)),
			s.commandHandler(ct.command),
		)
	}

	// Tool: get_status
	s.server.AddTool(
		mcp.NewTool(
			"get_status",
			mcp.WithDescription("Get the timer phase, session kind, mode, remaining time and visible screen"),
		),
		s.handleGetStatus,
	)

	// Tool: send_command
	sendCommandTool := mcp.NewTool(
		"send_command",
		mcp.WithDescription("Send a chat-style command such as /pause, /status or a loose word like 'paus'"),
		mcp.WithString(
			"command",
			mcp.Required(),
			mcp.Description("The command text"),
		),
	)
	s.server.AddTool(sendCommandTool, s.handleSendCommand)

	if s.history == nil {
		return
	}

	// Tool: get_history
	historyTool := mcp.NewTool(
		"get_history",
		mcp.WithDescription("List recent session transitions, newest first"),
		mcp.WithNumber(
			"limit",
			mcp.Description("Maximum number of entries (default: 20)"),
		),
	)
	s.server.AddTool(historyTool, s.handleGetHistory)
}

// Start begins serving MCP requests on the configured transport. It blocks
// until the transport stops.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.mu.Unlock()

	switch s.opts.Transport {
	case TransportHTTP:
		httpServer := server.NewStreamableHTTPServer(s.server)
		s.mu.Lock()
		s.http = httpServer
		s.mu.Unlock()
		stop := s.ctx
		go func() {
			<-stop.Done()
			_ = httpServer.Shutdown(context.Background())
		}()
		s.logger.Info("mcp listening", "addr", s.opts.Addr)
		if err := httpServer.Start(s.opts.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case TransportStdio:
		return server.ServeStdio(s.server)
	default:
		return fmt.Errorf("unknown mcp transport %q", s.opts.Transport)
	}
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}
	if s.http != nil {
		return s.http.Shutdown(context.Background())
	}
	return nil
}

// IsRunning returns true if the server is active.
func (s *Server) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctx == nil {
		return false
	}
	return s.ctx.Err() == nil
}

// Ensure Server implements ports.MCPHandler.
var _ ports.MCPHandler = (*Server)(nil)

func (s *Server) commandHandler(command string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		reply, err := s.control.Handle(ctx, command)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to send %s: %v", command, err)), nil
		}
		return mcp.NewToolResultText(reply), nil
	}
}

// handleSendCommand handles the send_command tool.
func (s *Server) handleSendCommand(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("command")
	if err != nil {
		return mcp.NewToolResultError("command is required: " + err.Error()), nil
	}

	reply, err := s.control.Handle(ctx, text)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("unknown command %q, try /help", text)), nil
	}
	return mcp.NewToolResultText(reply), nil
}

// handleGetStatus handles the get_status tool.
func (s *Server) handleGetStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	st := s.board.Load()
	if st.UpdatedAt.IsZero() {
		return mcp.NewToolResultText(st.Line()), nil
	}

	snap := st.Session
	result := map[string]interface{}{
		"status":     st.Line(),
		"phase":      string(snap.Phase),
		"kind":       string(snap.Kind),
		"mode":       snap.ModeLabel,
		"next_mode":  snap.NextLabel,
		"duration":   snap.Duration.String(),
		"remaining":  snap.Remaining.String(),
		"progress":   snap.Progress,
		"screen":     string(st.Screen),
		"accent":     st.Accent.String(),
		"updated_at": st.UpdatedAt.Format("2006-01-02T15:04:05"),
	}

	jsonData, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal status: %w", err)
	}

	return mcp.NewToolResultText(string(jsonData)), nil
}

// handleGetHistory handles the get_history tool.
func (s *Server) handleGetHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := int(request.GetFloat("limit", 20))

	records, err := s.history.Recent(ctx, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load history: %v", err)), nil
	}

	entries := make([]map[string]interface{}, 0, len(records))
	for _, rec := range records {
		entries = append(entries, map[string]interface{}{
			"id":         rec.ID,
			"transition": string(rec.Transition),
			"phase":      string(rec.Phase),
			"kind":       string(rec.Kind),
			"mode":       rec.ModeLabel,
			"message":    rec.Message,
			"at":         rec.At.Format("2006-01-02T15:04:05"),
		})
	}

	jsonData, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal history: %w", err)
	}

	return mcp.NewToolResultText(string(jsonData)), nil
}
