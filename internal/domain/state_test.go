package domain

import (
	"testing"
	"time"
)

func TestFormatClock(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "00:00"},
		{-time.Second, "00:00"},
		{time.Second, "00:01"},
		{59*time.Second + 900*time.Millisecond, "00:59"},
		{25 * time.Minute, "25:00"},
		{49*time.Minute + 5*time.Second, "49:05"},
	}

	for _, tt := range tests {
		if got := FormatClock(tt.in); got != tt.want {
			t.Errorf("FormatClock(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatMinutes(t *testing.T) {
	if got := FormatMinutes(24*time.Minute + 59*time.Second); got != "24" {
		t.Errorf("FormatMinutes() = %q, want %q", got, "24")
	}
}

func TestGetPhaseLabel(t *testing.T) {
	tests := []struct {
		phase SessionPhase
		want  string
	}{
		{PhaseStopped, "Stopped"},
		{PhaseRunning, "Running"},
		{PhasePaused, "Paused"},
		{SessionPhase("bogus"), "Unknown"},
	}

	for _, tt := range tests {
		if got := GetPhaseLabel(tt.phase); got != tt.want {
			t.Errorf("GetPhaseLabel(%v) = %q, want %q", tt.phase, got, tt.want)
		}
	}
}

func TestStatusLine(t *testing.T) {
	tests := []struct {
		name string
		snap SessionSnapshot
		want string
	}{
		{
			name: "stopped",
			snap: SessionSnapshot{Phase: PhaseStopped, ModeLabel: "25/5"},
			want: "Stopped | 25/5",
		},
		{
			name: "working",
			snap: SessionSnapshot{Phase: PhaseRunning, Kind: KindWork, ModeLabel: "25/5", Remaining: 12 * time.Minute},
			want: "Working | 25/5 | 12:00 left",
		},
		{
			name: "resting",
			snap: SessionSnapshot{Phase: PhaseRunning, Kind: KindRest, ModeLabel: "50/10", Remaining: 90 * time.Second},
			want: "Resting | 50/10 | 01:30 left",
		},
		{
			name: "paused",
			snap: SessionSnapshot{Phase: PhasePaused, Kind: KindWork, ModeLabel: "1/1", Remaining: 30 * time.Second},
			want: "Paused (Work) | 1/1 | 00:30 left",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusLine(tt.snap); got != tt.want {
				t.Errorf("StatusLine() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTransition_Message(t *testing.T) {
	if TransitionModeChanged.Notable() {
		t.Error("mode changes should not be announced")
	}
	if TransitionNone.Notable() {
		t.Error("TransitionNone should not be announced")
	}
	if got := TransitionRestBegan.Message(); got != "☕ Rest time! Take a break." {
		t.Errorf("Message() = %q", got)
	}
}

func TestNewTransitionRecord(t *testing.T) {
	snap := SessionSnapshot{Phase: PhaseRunning, Kind: KindWork, ModeLabel: "25/5"}
	rec := NewTransitionRecord(TransitionStarted, snap, t0)

	if rec.ID == "" {
		t.Error("ID is empty")
	}
	if rec.Message != TransitionStarted.Message() {
		t.Errorf("Message = %q, want %q", rec.Message, TransitionStarted.Message())
	}
	if !rec.At.Equal(t0) {
		t.Errorf("At = %v, want %v", rec.At, t0)
	}
}
