// Package services contains the use cases that drive the device: the
// control loop, accent persistence and notification dispatch.
package services

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/xvierd/flow-touch/internal/domain"
	"github.com/xvierd/flow-touch/internal/gesture"
	"github.com/xvierd/flow-touch/internal/hittest"
	"github.com/xvierd/flow-touch/internal/navigation"
	"github.com/xvierd/flow-touch/internal/ports"
	"github.com/xvierd/flow-touch/internal/remote"
	"github.com/xvierd/flow-touch/internal/render"
)

// DefaultOrientationInterval is how often the orientation source is polled.
const DefaultOrientationInterval = 2 * time.Second

// ControllerDeps holds everything the control loop talks to. Touch and
// Orientation may be nil when the device has no such sensor.
type ControllerDeps struct {
	Surface     ports.Surface
	Touch       ports.TouchSource
	Orientation ports.OrientationSource
	Accents     *AccentService
	Inbox       *remote.Inbox
	Outbox      *remote.Outbox
	Board       *remote.StatusBoard
	Logger      *log.Logger
}

// ControllerOptions tunes the control loop.
type ControllerOptions struct {
	Presets             domain.Presets
	Mode                domain.Mode
	Gesture             gesture.Config
	Render              render.Config
	Margin              int
	OrientationInterval time.Duration
}

// DefaultControllerOptions returns the factory settings.
func DefaultControllerOptions() ControllerOptions {
	return ControllerOptions{
		Presets:             domain.DefaultPresets(),
		Mode:                domain.DefaultMode,
		Gesture:             gesture.DefaultConfig(),
		Render:              render.DefaultConfig(),
		Margin:              hittest.DefaultMargin,
		OrientationInterval: DefaultOrientationInterval,
	}
}

// Controller is the single control loop. It owns the session, the screen,
// the hit regions and the render cache; nothing else mutates them.
type Controller struct {
	session    *domain.TimerSession
	screen     domain.Screen
	display    domain.DisplayMode
	accent     domain.Color
	classifier *gesture.Classifier
	regions    *hittest.Registry
	renderer   *render.Renderer

	surface     ports.Surface
	touch       ports.TouchSource
	orientation ports.OrientationSource
	accents     *AccentService
	inbox       *remote.Inbox
	outbox      *remote.Outbox
	board       *remote.StatusBoard
	logger      *log.Logger

	orientEvery time.Duration
	lastOrient  time.Time
}

// NewController wires a control loop. The session starts stopped on the
// home screen with the default accent until Boot loads the saved one.
func NewController(deps ControllerDeps, opts ControllerOptions) *Controller {
	logger := deps.Logger
	if logger == nil {
		logger = log.Default()
	}
	if deps.Inbox == nil {
		deps.Inbox = remote.NewInbox()
	}
	if deps.Outbox == nil {
		deps.Outbox = remote.NewOutbox(remote.DefaultQueueSize)
	}
	if deps.Board == nil {
		deps.Board = remote.NewStatusBoard()
	}
	if opts.OrientationInterval <= 0 {
		opts.OrientationInterval = DefaultOrientationInterval
	}

	regions := hittest.NewRegistry(opts.Margin)
	return &Controller{
		session:     domain.NewTimerSession(opts.Presets, opts.Mode),
		screen:      domain.HomeScreen{},
		display:     domain.DisplayMinutesSeconds,
		accent:      domain.DefaultAccent,
		classifier:  gesture.New(opts.Gesture),
		regions:     regions,
		renderer:    render.New(deps.Surface, regions, opts.Render, logger),
		surface:     deps.Surface,
		touch:       deps.Touch,
		orientation: deps.Orientation,
		accents:     deps.Accents,
		inbox:       deps.Inbox,
		outbox:      deps.Outbox,
		board:       deps.Board,
		logger:      logger,
		orientEvery: opts.OrientationInterval,
	}
}

// Boot loads the saved accent, announces the device and draws the first
// frame.
func (c *Controller) Boot(ctx context.Context, now time.Time) {
	if c.accents != nil {
		c.accent = c.accents.Load(ctx)
	}
	c.pollOrientation(now)
	c.notify(domain.TransitionConnected, now)
	c.renderer.Render(c.frame(now))
	c.publish(now)
	c.logger.Info("booted", "accent", c.accent, "mode", c.session.Preset().Label())
}

// Tick runs one pass of the loop: remote commands, touch, session timing,
// orientation, then rendering. It never blocks and never fails.
func (c *Controller) Tick(ctx context.Context, now time.Time) render.Redraw {
	for _, cmd := range c.inbox.Drain() {
		c.applyCommand(cmd, now)
	}

	if ev := c.pollTouch(now); ev.Type != gesture.EventNone {
		c.handleGesture(ctx, ev, now)
	}

	if t := c.session.Tick(now); t != domain.TransitionNone {
		c.logger.Info("interval finished", "transition", t, "kind", c.session.Kind())
		c.notify(t, now)
	}

	if now.Sub(c.lastOrient) >= c.orientEvery {
		c.pollOrientation(now)
	}

	c.syncScreen()
	redraw := c.renderer.Render(c.frame(now))
	c.publish(now)
	return redraw
}

// Run ticks every interval until ctx is cancelled.
func (c *Controller) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			c.Tick(ctx, now)
		}
	}
}

// Screen returns the visible screen.
func (c *Controller) Screen() domain.Screen {
	return c.screen
}

// Snapshot returns the session state at now.
func (c *Controller) Snapshot(now time.Time) domain.SessionSnapshot {
	return c.session.Snapshot(now)
}

// Accent returns the current accent color.
func (c *Controller) Accent() domain.Color {
	return c.accent
}

// Regions exposes the hit regions published by the last render.
func (c *Controller) Regions() *hittest.Registry {
	return c.regions
}

func (c *Controller) pollTouch(now time.Time) gesture.Event {
	if c.touch == nil {
		return gesture.Event{}
	}
	sample, err := c.touch.Poll(now)
	if err != nil {
		c.logger.Debug("touch read failed", "err", err)
		sample = domain.TouchSample{}
	}
	return c.classifier.Update(sample, now)
}

func (c *Controller) handleGesture(ctx context.Context, ev gesture.Event, now time.Time) {
	c.logger.Debug("gesture", "type", ev.Type, "x", ev.Point.X, "y", ev.Point.Y, "held", ev.Duration)

	switch ev.Type {
	case gesture.EventLongPress:
		if c.session.Phase() == domain.PhaseStopped {
			c.start(now)
			return
		}
		c.apply(c.session.Stop(now), now)

	case gesture.EventShortTap:
		action := c.regions.Resolve(c.screen.Kind(), ev.Point)
		if action.Name == domain.ActionNone {
			return
		}
		c.navigate(ctx, action, now)
	}
}

func (c *Controller) navigate(ctx context.Context, action domain.Action, now time.Time) {
	res := navigation.Next(c.screen, action)
	c.logger.Debug("navigate", "from", c.screen.Kind(), "action", action.Name, "to", res.Screen.Kind(), "effect", res.Effect)
	c.screen = res.Screen
	if ts, ok := res.Screen.(domain.TimerScreen); ok {
		c.display = ts.Display
	}

	switch res.Effect {
	case navigation.EffectCycleMode:
		c.apply(c.session.CycleMode(), now)
	case navigation.EffectTogglePause:
		if c.session.Phase() == domain.PhaseRunning {
			c.apply(c.session.Pause(now), now)
		} else {
			c.apply(c.session.Resume(now), now)
		}
	case navigation.EffectSaveAccent:
		c.setAccent(ctx, res.Accent)
	}
}

func (c *Controller) applyCommand(cmd remote.Command, now time.Time) {
	c.logger.Debug("remote command", "command", cmd)

	switch cmd {
	case remote.CommandStart:
		c.start(now)
	case remote.CommandPause:
		c.apply(c.session.Pause(now), now)
	case remote.CommandResume:
		c.apply(c.session.Resume(now), now)
	case remote.CommandStop:
		c.apply(c.session.Stop(now), now)
	case remote.CommandCycleMode:
		c.apply(c.session.CycleMode(), now)
	}
}

func (c *Controller) start(now time.Time) {
	if !navigation.CanStart(c.screen) {
		c.logger.Debug("start ignored", "screen", c.screen.Kind())
		return
	}
	t := c.session.Start(now)
	if t == domain.TransitionStarted {
		c.classifier.SuppressTaps(now)
	}
	c.apply(t, now)
}

func (c *Controller) apply(t domain.Transition, now time.Time) {
	if t == domain.TransitionNone {
		return
	}
	c.logger.Info("session", "transition", t, "phase", c.session.Phase(), "mode", c.session.Preset().Label())
	c.notify(t, now)
	c.syncScreen()
}

func (c *Controller) notify(t domain.Transition, now time.Time) {
	if !t.Notable() {
		return
	}
	n := ports.Notification{
		Transition: t,
		Text:       t.Message(),
		Session:    c.session.Snapshot(now),
		At:         now,
	}
	if !c.outbox.Offer(n) {
		c.logger.Debug("notification dropped", "transition", t)
	}
}

func (c *Controller) setAccent(ctx context.Context, col domain.Color) {
	c.accent = col
	if c.accents == nil {
		return
	}
	if err := c.accents.Save(ctx, col); err != nil {
		c.logger.Warn("failed to save accent", "color", col, "err", err)
	}
}

func (c *Controller) pollOrientation(now time.Time) {
	c.lastOrient = now
	if c.orientation == nil {
		return
	}
	current := c.surface.Rotation()
	next, err := c.orientation.Orientation(current)
	if err != nil {
		c.logger.Debug("orientation read failed", "err", err)
		return
	}
	if next == current || !next.Valid() {
		return
	}
	c.logger.Info("rotation changed", "from", current, "to", next)
	c.surface.SetRotation(next)
	c.renderer.Invalidate()
}

func (c *Controller) syncScreen() {
	c.screen = navigation.ForPhase(c.screen, c.session.Phase(), c.display)
}

func (c *Controller) frame(now time.Time) render.Frame {
	return render.Frame{
		Screen:  c.screen,
		Session: c.session.Snapshot(now),
		Accent:  c.accent,
		Now:     now,
	}
}

func (c *Controller) publish(now time.Time) {
	c.board.Publish(remote.Status{
		Session:   c.session.Snapshot(now),
		Screen:    c.screen.Kind(),
		Accent:    c.accent,
		UpdatedAt: now,
	})
}
