// Package remote connects out-of-loop clients to the control loop.
//
// Inbound commands are coalesced into one pending flag per command and
// drained by the loop once per tick. Outbound notifications go through a
// small bounded queue that drops new messages when full. Neither side ever
// blocks the loop.
package remote

import (
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/xvierd/flow-touch/internal/domain"
)

// Command is a session operation requested from outside the loop.
type Command int

const (
	CommandStart Command = iota
	CommandPause
	CommandResume
	CommandStop
	CommandCycleMode

	commandCount
)

func (c Command) String() string {
	switch c {
	case CommandStart:
		return "start"
	case CommandPause:
		return "pause"
	case CommandResume:
		return "resume"
	case CommandStop:
		return "stop"
	case CommandCycleMode:
		return "mode"
	default:
		return fmt.Sprintf("command(%d)", int(c))
	}
}

// RequestKind separates session commands from read-only queries.
type RequestKind int

const (
	RequestCommand RequestKind = iota
	RequestStatus
	RequestHelp
)

// Request is a parsed text command.
type Request struct {
	Kind    RequestKind
	Command Command
}

var verbs = map[string]Request{
	"work":   {Kind: RequestCommand, Command: CommandStart},
	"start":  {Kind: RequestCommand, Command: CommandStart},
	"pause":  {Kind: RequestCommand, Command: CommandPause},
	"resume": {Kind: RequestCommand, Command: CommandResume},
	"stop":   {Kind: RequestCommand, Command: CommandStop},
	"mode":   {Kind: RequestCommand, Command: CommandCycleMode},
	"status": {Kind: RequestStatus},
	"help":   {Kind: RequestHelp},
}

var verbNames = []string{"work", "start", "pause", "resume", "stop", "mode", "status", "help"}

// Parse interprets a chat-style command such as "/pause" or "paus". The
// slash form "/start" is the chat greeting and maps to help; bare words
// are matched exactly first and then fuzzily.
func Parse(text string) (Request, error) {
	word := strings.ToLower(strings.TrimSpace(text))
	if fields := strings.Fields(word); len(fields) > 0 {
		word = fields[0]
	}
	if word == "/start" {
		return Request{Kind: RequestHelp}, nil
	}
	word = strings.TrimPrefix(word, "/")
	if word == "" {
		return Request{}, fmt.Errorf("%w: empty", domain.ErrUnknownCommand)
	}

	if req, ok := verbs[word]; ok {
		return req, nil
	}
	matches := fuzzy.Find(word, verbNames)
	if len(matches) == 0 {
		return Request{}, fmt.Errorf("%w: %q", domain.ErrUnknownCommand, text)
	}
	return verbs[matches[0].Str], nil
}

// HelpText lists the accepted commands.
func HelpText() string {
	var b strings.Builder
	b.WriteString("🍅 Pomodoro Timer\n\n")
	b.WriteString("/status - Current status\n")
	b.WriteString("/work - Start work\n")
	b.WriteString("/pause - Pause\n")
	b.WriteString("/resume - Resume\n")
	b.WriteString("/stop - Stop\n")
	b.WriteString("/mode - Change mode")
	return b.String()
}
