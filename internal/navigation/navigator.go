// Package navigation implements the screen state machine.
package navigation

import (
	"github.com/xvierd/flow-touch/internal/domain"
)

// Effect is a side effect the caller must apply after a transition.
type Effect int

const (
	EffectNone Effect = iota
	EffectCycleMode
	EffectTogglePause
	EffectSaveAccent
)

func (e Effect) String() string {
	switch e {
	case EffectCycleMode:
		return "cycle_mode"
	case EffectTogglePause:
		return "toggle_pause"
	case EffectSaveAccent:
		return "save_accent"
	default:
		return "none"
	}
}

// Result is the outcome of applying an action to a screen.
type Result struct {
	Screen domain.Screen
	Effect Effect
	Accent domain.Color // set with EffectSaveAccent
}

// Next applies a resolved tap to the current screen. Unknown combinations
// leave the screen unchanged.
func Next(current domain.Screen, action domain.Action) Result {
	stay := Result{Screen: current}

	switch s := current.(type) {
	case domain.HomeScreen:
		if action.Name == domain.ActionGear {
			return Result{Screen: domain.NewPaletteScreen()}
		}

	case domain.PaletteScreen:
		switch action.Name {
		case domain.ActionCell:
			if action.Cell < 0 || action.Cell >= domain.PaletteSize {
				return stay
			}
			return Result{Screen: domain.PaletteScreen{Selected: action.Cell}}
		case domain.ActionConfirm:
			if !s.HasSelection() {
				return stay
			}
			return Result{Screen: domain.PreviewScreen{Candidate: domain.Palette[s.Selected].Color}}
		case domain.ActionCancel:
			return Result{Screen: domain.HomeScreen{}}
		}

	case domain.PreviewScreen:
		switch action.Name {
		case domain.ActionConfirm:
			return Result{Screen: domain.HomeScreen{}, Effect: EffectSaveAccent, Accent: s.Candidate}
		case domain.ActionCancel:
			return Result{Screen: domain.HomeScreen{}}
		}

	case domain.TimerScreen:
		switch action.Name {
		case domain.ActionModeButton:
			return Result{Screen: s, Effect: EffectCycleMode}
		case domain.ActionStatusButton:
			return Result{Screen: s, Effect: EffectTogglePause}
		case domain.ActionProgressCircle:
			return Result{Screen: domain.TimerScreen{Display: s.Display.Toggle()}}
		}
	}

	return stay
}

// ForPhase forces the screen to agree with the session phase: an active
// session always shows the timer and a stopped one never does. Palette and
// preview survive a stopped session so an accent change is not interrupted.
func ForPhase(current domain.Screen, phase domain.SessionPhase, display domain.DisplayMode) domain.Screen {
	active := phase == domain.PhaseRunning || phase == domain.PhasePaused

	if active {
		if _, ok := current.(domain.TimerScreen); ok {
			return current
		}
		if display == "" {
			display = domain.DisplayMinutesSeconds
		}
		return domain.TimerScreen{Display: display}
	}

	if _, ok := current.(domain.TimerScreen); ok {
		return domain.HomeScreen{}
	}
	if current == nil {
		return domain.HomeScreen{}
	}
	return current
}

// CanStart reports whether a session may start from the given screen.
// An accent change in progress must be confirmed or cancelled first.
func CanStart(current domain.Screen) bool {
	switch current.(type) {
	case domain.PaletteScreen, domain.PreviewScreen:
		return false
	default:
		return true
	}
}
