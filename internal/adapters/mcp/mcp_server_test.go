package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/xvierd/flow-touch/internal/adapters/storage"
	"github.com/xvierd/flow-touch/internal/domain"
	"github.com/xvierd/flow-touch/internal/logging"
	"github.com/xvierd/flow-touch/internal/remote"
)

type fixture struct {
	inbox  *remote.Inbox
	board  *remote.StatusBoard
	server *Server
}

func newFixture(t *testing.T) *fixture {
	inbox := remote.NewInbox()
	board := remote.NewStatusBoard()
	control := remote.NewControl(inbox, board, logging.Discard())

	store, err := storage.NewMemory()
	if err != nil {
		t.Fatalf("Failed to create test storage: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return &fixture{
		inbox:  inbox,
		board:  board,
		server: NewServer(control, board, store.Transitions(), Options{}, logging.Discard()),
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil {
		t.Fatal("nil result")
	}
	if len(result.Content) == 0 {
		t.Fatal("empty content")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want TextContent", result.Content[0])
	}
	return text.Text
}

func callRequest(args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

func TestNewServer(t *testing.T) {
	f := newFixture(t)

	if f.server.server == nil {
		t.Error("NewServer() did not create MCP server")
	}
	if f.server.opts.Transport != TransportStdio {
		t.Errorf("default transport = %q, want stdio", f.server.opts.Transport)
	}
}

func TestServer_IsRunning(t *testing.T) {
	f := newFixture(t)

	if f.server.IsRunning() {
		t.Error("IsRunning() should return false before Start()")
	}
}

func TestServer_CommandTools(t *testing.T) {
	tests := []struct {
		command string
		want    remote.Command
		reply   string
	}{
		{"/work", remote.CommandStart, "Starting"},
		{"/pause", remote.CommandPause, "Pausing"},
		{"/resume", remote.CommandResume, "Resuming"},
		{"/stop", remote.CommandStop, "Stopping"},
		{"/mode", remote.CommandCycleMode, "mode"},
	}

	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			f := newFixture(t)
			handler := f.server.commandHandler(tt.command)

			result, err := handler(context.Background(), callRequest(nil))
			if err != nil {
				t.Fatalf("handler error = %v", err)
			}
			if text := resultText(t, result); !strings.Contains(strings.ToLower(text), strings.ToLower(tt.reply)) {
				t.Errorf("reply = %q, want it to contain %q", text, tt.reply)
			}

			got := f.inbox.Drain()
			if len(got) != 1 || got[0] != tt.want {
				t.Errorf("inbox = %v, want [%v]", got, tt.want)
			}
		})
	}
}

func TestServer_handleSendCommand(t *testing.T) {
	f := newFixture(t)

	result, err := f.server.handleSendCommand(context.Background(), callRequest(map[string]interface{}{
		"command": "paus",
	}))
	if err != nil {
		t.Fatalf("handleSendCommand() error = %v", err)
	}
	if result.IsError {
		t.Fatalf("handleSendCommand() returned error result: %s", resultText(t, result))
	}
	if got := f.inbox.Drain(); len(got) != 1 || got[0] != remote.CommandPause {
		t.Errorf("inbox = %v, want [pause]", got)
	}
}

func TestServer_handleSendCommand_Unknown(t *testing.T) {
	f := newFixture(t)

	result, err := f.server.handleSendCommand(context.Background(), callRequest(map[string]interface{}{
		"command": "/launch-rocket",
	}))
	if err != nil {
		t.Fatalf("handleSendCommand() error = %v", err)
	}
	if !result.IsError {
		t.Error("handleSendCommand() should return an error result")
	}
	if got := f.inbox.Drain(); len(got) != 0 {
		t.Errorf("inbox = %v, want empty", got)
	}
}

func TestServer_handleSendCommand_Missing(t *testing.T) {
	f := newFixture(t)

	result, err := f.server.handleSendCommand(context.Background(), callRequest(nil))
	if err != nil {
		t.Fatalf("handleSendCommand() error = %v", err)
	}
	if !result.IsError {
		t.Error("handleSendCommand() should require a command")
	}
}

func TestServer_handleGetStatus(t *testing.T) {
	f := newFixture(t)

	result, err := f.server.handleGetStatus(context.Background(), callRequest(nil))
	if err != nil {
		t.Fatalf("handleGetStatus() error = %v", err)
	}
	if text := resultText(t, result); text != "🍅 Starting up" {
		t.Errorf("status before first tick = %q", text)
	}

	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	session := domain.NewTimerSession(domain.DefaultPresets(), domain.ModeClassic)
	session.Start(now)
	f.board.Publish(remote.Status{
		Session:   session.Snapshot(now.Add(13 * time.Minute)),
		Screen:    domain.ScreenTimer,
		Accent:    domain.Gold,
		UpdatedAt: now.Add(13 * time.Minute),
	})

	result, err = f.server.handleGetStatus(context.Background(), callRequest(nil))
	if err != nil {
		t.Fatalf("handleGetStatus() error = %v", err)
	}

	var got map[string]interface{}
	if err := json.Unmarshal([]byte(resultText(t, result)), &got); err != nil {
		t.Fatalf("status is not JSON: %v", err)
	}
	if got["phase"] != "running" || got["mode"] != "25/5" || got["screen"] != "timer" {
		t.Errorf("status = %v", got)
	}
	if got["remaining"] != "12m0s" {
		t.Errorf("remaining = %v, want 12m0s", got["remaining"])
	}
}

func TestServer_handleGetHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	snap := domain.NewTimerSession(domain.DefaultPresets(), domain.ModeClassic).Snapshot(now)

	for i, tr := range []domain.Transition{domain.TransitionStarted, domain.TransitionPaused, domain.TransitionStopped} {
		rec := domain.NewTransitionRecord(tr, snap, now.Add(time.Duration(i)*time.Minute))
		if err := f.server.history.Record(ctx, rec); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	result, err := f.server.handleGetHistory(ctx, callRequest(map[string]interface{}{"limit": float64(2)}))
	if err != nil {
		t.Fatalf("handleGetHistory() error = %v", err)
	}

	var entries []map[string]interface{}
	if err := json.Unmarshal([]byte(resultText(t, result)), &entries); err != nil {
		t.Fatalf("history is not JSON: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}
	if entries[0]["transition"] != "stopped" {
		t.Errorf("newest entry = %v, want stopped", entries[0]["transition"])
	}
}
