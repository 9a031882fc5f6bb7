package domain

import (
	"fmt"
	"time"
)

// FormatClock renders a remaining duration as MM:SS. Partial seconds are
// dropped so 59.9s reads "00:59".
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

// FormatMinutes renders only the minutes part, e.g. "24".
func FormatMinutes(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	return fmt.Sprintf("%02d", int(d/time.Minute))
}

// GetPhaseLabel returns a human-readable label for the session phase.
func GetPhaseLabel(p SessionPhase) string {
	switch p {
	case PhaseStopped:
		return "Stopped"
	case PhaseRunning:
		return "Running"
	case PhasePaused:
		return "Paused"
	default:
		return "Unknown"
	}
}

// GetKindLabel returns a human-readable label for the session kind.
func GetKindLabel(k SessionKind) string {
	switch k {
	case KindWork:
		return "Work"
	case KindRest:
		return "Rest"
	default:
		return "Unknown"
	}
}

// StatusLine describes the session in one line, e.g. "Working | 25/5 | 12:03 left".
func StatusLine(s SessionSnapshot) string {
	switch s.Phase {
	case PhaseStopped:
		return fmt.Sprintf("Stopped | %s", s.ModeLabel)
	case PhasePaused:
		return fmt.Sprintf("Paused (%s) | %s | %s left", GetKindLabel(s.Kind), s.ModeLabel, FormatClock(s.Remaining))
	}
	activity := "Working"
	if s.Kind == KindRest {
		activity = "Resting"
	}
	return fmt.Sprintf("%s | %s | %s left", activity, s.ModeLabel, FormatClock(s.Remaining))
}
