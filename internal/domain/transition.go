package domain

import "time"

// Transition names a change of session state that observers care about.
type Transition string

const (
	TransitionNone        Transition = ""
	TransitionStarted     Transition = "started"
	TransitionPaused      Transition = "paused"
	TransitionResumed     Transition = "resumed"
	TransitionStopped     Transition = "stopped"
	TransitionRestBegan   Transition = "rest_began"
	TransitionWorkBegan   Transition = "work_began"
	TransitionModeChanged Transition = "mode_changed"
	TransitionConnected   Transition = "connected"
)

// Message returns the notification text for t, or "" when t is not
// announced.
func (t Transition) Message() string {
	switch t {
	case TransitionStarted:
		return "🍅 Work started!"
	case TransitionPaused:
		return "⏸ Timer paused"
	case TransitionResumed:
		return "▶️ Timer resumed"
	case TransitionStopped:
		return "⏹ Timer stopped"
	case TransitionRestBegan:
		return "☕ Rest time! Take a break."
	case TransitionWorkBegan:
		return "🍅 Work time! Focus on your task."
	case TransitionConnected:
		return "🍅 Pomodoro Timer connected!"
	default:
		return ""
	}
}

// Notable reports whether t should be sent to notification sinks.
func (t Transition) Notable() bool {
	return t.Message() != ""
}

// TransitionRecord is one entry of the transition history.
type TransitionRecord struct {
	ID         string
	Transition Transition
	Phase      SessionPhase
	Kind       SessionKind
	ModeLabel  string
	Message    string
	At         time.Time
}

// NewTransitionRecord builds a history entry for t observed in snapshot s.
func NewTransitionRecord(t Transition, s SessionSnapshot, at time.Time) TransitionRecord {
	return TransitionRecord{
		ID:         generateID(),
		Transition: t,
		Phase:      s.Phase,
		Kind:       s.Kind,
		ModeLabel:  s.ModeLabel,
		Message:    t.Message(),
		At:         at,
	}
}
