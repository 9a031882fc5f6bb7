package domain

import (
	"fmt"
	"time"
)

// SessionPhase is the lifecycle state of the timer.
type SessionPhase string

const (
	PhaseStopped SessionPhase = "stopped"
	PhaseRunning SessionPhase = "running"
	PhasePaused  SessionPhase = "paused"
)

// SessionKind tells whether the current interval is work or rest.
type SessionKind string

const (
	KindWork SessionKind = "work"
	KindRest SessionKind = "rest"
)

// Mode indexes one of the three fixed work/rest presets.
type Mode int

const (
	ModeShort Mode = iota
	ModeClassic
	ModeLong

	ModeCount = 3
)

// DefaultMode is the preset selected at boot.
const DefaultMode = ModeClassic

// Preset is a (work, rest) duration pair.
type Preset struct {
	Work time.Duration
	Rest time.Duration
}

// Label renders the preset as "work/rest" in whole minutes, e.g. "25/5".
func (p Preset) Label() string {
	return fmt.Sprintf("%d/%d", int(p.Work/time.Minute), int(p.Rest/time.Minute))
}

// Presets holds the three selectable modes in cycle order.
type Presets [ModeCount]Preset

// DefaultPresets returns the 1/1, 25/5 and 50/10 presets.
func DefaultPresets() Presets {
	return Presets{
		{Work: 1 * time.Minute, Rest: 1 * time.Minute},
		{Work: 25 * time.Minute, Rest: 5 * time.Minute},
		{Work: 50 * time.Minute, Rest: 10 * time.Minute},
	}
}

// Next returns the mode after m in the cycle 0 -> 1 -> 2 -> 0.
func (m Mode) Next() Mode {
	return (m + 1) % ModeCount
}

// Valid reports whether m names one of the presets.
func (m Mode) Valid() bool {
	return m >= 0 && m < ModeCount
}

// TimerSession is the pomodoro state machine. All methods take the current
// time so the owner controls the clock.
type TimerSession struct {
	presets   Presets
	mode      Mode
	phase     SessionPhase
	kind      SessionKind
	startedAt time.Time
	pausedFor time.Duration // elapsed frozen at pause
}

// NewTimerSession creates a stopped work session in the given mode.
func NewTimerSession(presets Presets, mode Mode) *TimerSession {
	if !mode.Valid() {
		mode = DefaultMode
	}
	return &TimerSession{
		presets: presets,
		mode:    mode,
		phase:   PhaseStopped,
		kind:    KindWork,
	}
}

// Start begins a work interval. It is a no-op unless the session is stopped.
func (s *TimerSession) Start(now time.Time) Transition {
	if s.phase != PhaseStopped {
		return TransitionNone
	}
	s.phase = PhaseRunning
	s.kind = KindWork
	s.startedAt = now
	s.pausedFor = 0
	return TransitionStarted
}

// Pause freezes the elapsed time. Only valid while running.
func (s *TimerSession) Pause(now time.Time) Transition {
	if s.phase != PhaseRunning {
		return TransitionNone
	}
	s.pausedFor = now.Sub(s.startedAt)
	s.phase = PhasePaused
	return TransitionPaused
}

// Resume re-bases the start reference so the frozen elapsed time carries
// over exactly.
func (s *TimerSession) Resume(now time.Time) Transition {
	if s.phase != PhasePaused {
		return TransitionNone
	}
	s.startedAt = now.Add(-s.pausedFor)
	s.pausedFor = 0
	s.phase = PhaseRunning
	return TransitionResumed
}

// Stop ends the session from any active phase and resets to work.
func (s *TimerSession) Stop(now time.Time) Transition {
	if s.phase == PhaseStopped {
		return TransitionNone
	}
	s.phase = PhaseStopped
	s.kind = KindWork
	s.startedAt = time.Time{}
	s.pausedFor = 0
	return TransitionStopped
}

// Tick flips work and rest when the current interval has run out.
func (s *TimerSession) Tick(now time.Time) Transition {
	if s.phase != PhaseRunning {
		return TransitionNone
	}
	if now.Sub(s.startedAt) < s.Duration() {
		return TransitionNone
	}
	s.startedAt = now
	if s.kind == KindWork {
		s.kind = KindRest
		return TransitionRestBegan
	}
	s.kind = KindWork
	return TransitionWorkBegan
}

// CycleMode advances to the next preset. Allowed in any phase; the elapsed
// time is kept so a running interval may finish early on the next tick.
func (s *TimerSession) CycleMode() Transition {
	s.mode = s.mode.Next()
	return TransitionModeChanged
}

// SetMode selects a preset directly.
func (s *TimerSession) SetMode(m Mode) error {
	if !m.Valid() {
		return ErrInvalidMode
	}
	s.mode = m
	return nil
}

// Phase returns the lifecycle state.
func (s *TimerSession) Phase() SessionPhase { return s.phase }

// Kind returns whether the session is in work or rest.
func (s *TimerSession) Kind() SessionKind { return s.kind }

// Mode returns the selected preset index.
func (s *TimerSession) Mode() Mode { return s.mode }

// Preset returns the durations of the selected mode.
func (s *TimerSession) Preset() Preset { return s.presets[s.mode] }

// Presets returns all three presets.
func (s *TimerSession) Presets() Presets { return s.presets }

// Duration is the length of the current interval.
func (s *TimerSession) Duration() time.Duration {
	p := s.presets[s.mode]
	if s.kind == KindRest {
		return p.Rest
	}
	return p.Work
}

// Elapsed returns how much of the current interval has passed.
func (s *TimerSession) Elapsed(now time.Time) time.Duration {
	switch s.phase {
	case PhaseRunning:
		elapsed := now.Sub(s.startedAt)
		if elapsed < 0 {
			return 0
		}
		return elapsed
	case PhasePaused:
		return s.pausedFor
	default:
		return 0
	}
}

// Remaining returns the time left, never negative.
func (s *TimerSession) Remaining(now time.Time) time.Duration {
	if s.phase == PhaseStopped {
		return 0
	}
	remaining := s.Duration() - s.Elapsed(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Progress returns the completed fraction in [0, 1].
func (s *TimerSession) Progress(now time.Time) float64 {
	d := s.Duration()
	if d <= 0 || s.phase == PhaseStopped {
		return 0
	}
	progress := float64(s.Elapsed(now)) / float64(d)
	if progress > 1 {
		return 1
	}
	return progress
}

// Snapshot captures everything a view needs at time now.
func (s *TimerSession) Snapshot(now time.Time) SessionSnapshot {
	return SessionSnapshot{
		Phase:     s.phase,
		Kind:      s.kind,
		Mode:      s.mode,
		ModeLabel: s.presets[s.mode].Label(),
		NextLabel: s.presets[s.mode.Next()].Label(),
		Duration:  s.Duration(),
		Elapsed:   s.Elapsed(now),
		Remaining: s.Remaining(now),
		Progress:  s.Progress(now),
	}
}

// SessionSnapshot is an immutable copy of the session state.
type SessionSnapshot struct {
	Phase     SessionPhase
	Kind      SessionKind
	Mode      Mode
	ModeLabel string
	NextLabel string
	Duration  time.Duration
	Elapsed   time.Duration
	Remaining time.Duration
	Progress  float64
}

// Active returns true while running or paused.
func (s SessionSnapshot) Active() bool {
	return s.Phase == PhaseRunning || s.Phase == PhasePaused
}
