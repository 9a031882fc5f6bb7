package integration

import (
	"context"
	"image"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xvierd/flow-touch/internal/adapters/canvas"
	"github.com/xvierd/flow-touch/internal/adapters/storage"
	"github.com/xvierd/flow-touch/internal/adapters/tui"
	"github.com/xvierd/flow-touch/internal/domain"
	"github.com/xvierd/flow-touch/internal/logging"
	"github.com/xvierd/flow-touch/internal/ports"
	"github.com/xvierd/flow-touch/internal/remote"
	"github.com/xvierd/flow-touch/internal/services"
)

const step = 20 * time.Millisecond

var t0 = time.Date(2026, 5, 4, 8, 30, 0, 0, time.UTC)

// recordingSink collects delivered notifications.
type recordingSink struct {
	mu   sync.Mutex
	sent []ports.Notification
}

func (s *recordingSink) Notify(_ context.Context, n ports.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, n)
	return nil
}

func (s *recordingSink) messages() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.sent))
	for _, n := range s.sent {
		out = append(out, n.Transition.Message())
	}
	return out
}

// device is a full stack on a database file: control loop, simulator
// inputs, remote control and the notification dispatcher.
type device struct {
	t           *testing.T
	ctx         context.Context
	store       ports.Storage
	ctrl        *services.Controller
	canvas      *canvas.Canvas
	touch       *tui.MouseTouch
	orientation *tui.ManualOrientation
	control     *remote.Control
	outbox      *remote.Outbox
	dispatcher  *services.Dispatcher
	accents     *services.AccentService
	sink        *recordingSink
	now         time.Time
}

func bootDevice(t *testing.T, dbPath string, now time.Time) *device {
	t.Helper()

	store, err := storage.New(dbPath)
	require.NoError(t, err)

	logger := logging.Discard()
	inbox := remote.NewInbox()
	outbox := remote.NewOutbox(remote.DefaultQueueSize)
	board := remote.NewStatusBoard()
	sink := &recordingSink{}

	d := &device{
		t:           t,
		ctx:         context.Background(),
		store:       store,
		canvas:      canvas.New(172, 320),
		touch:       &tui.MouseTouch{},
		orientation: &tui.ManualOrientation{},
		control:     remote.NewControl(inbox, board, logger),
		outbox:      outbox,
		accents:     services.NewAccentService(store.Settings(), logger),
		sink:        sink,
		now:         now,
	}
	d.dispatcher = services.NewDispatcher(outbox, store.Transitions(), 0, logger, sink)
	d.ctrl = services.NewController(services.ControllerDeps{
		Surface:     d.canvas,
		Touch:       d.touch,
		Orientation: d.orientation,
		Accents:     d.accents,
		Inbox:       inbox,
		Outbox:      outbox,
		Board:       board,
		Logger:      logger,
	}, services.DefaultControllerOptions())

	d.ctrl.Boot(d.ctx, now)
	d.deliver()
	return d
}

func (d *device) shutdown() {
	require.NoError(d.t, d.store.Close())
}

// advance ticks the loop at the real loop rate.
func (d *device) advance(dur time.Duration) {
	end := d.now.Add(dur)
	for d.now.Before(end) {
		d.now = d.now.Add(step)
		d.ctrl.Tick(d.ctx, d.now)
	}
	d.deliver()
}

// jump moves the clock without intermediate ticks.
func (d *device) jump(dur time.Duration) {
	d.now = d.now.Add(dur)
	d.ctrl.Tick(d.ctx, d.now)
	d.deliver()
}

// deliver hands everything queued to the dispatcher, as its goroutine
// would.
func (d *device) deliver() {
	for {
		select {
		case n := <-d.outbox.C():
			d.dispatcher.Handle(d.ctx, n)
		default:
			return
		}
	}
}

func (d *device) send(text string) string {
	d.t.Helper()
	reply, err := d.control.Handle(d.ctx, text)
	require.NoError(d.t, err)
	d.advance(step)
	return reply
}

func (d *device) tap(p image.Point) {
	d.touch.Press(p)
	d.advance(60 * time.Millisecond)
	d.touch.Release()
	d.advance(260 * time.Millisecond)
}

func (d *device) hold(p image.Point) {
	d.touch.Press(p)
	d.advance(1100 * time.Millisecond)
	d.touch.Release()
	d.advance(260 * time.Millisecond)
}

func (d *device) center(kind domain.ScreenKind, action domain.ActionName) image.Point {
	d.t.Helper()
	b, ok := d.ctrl.Regions().Bounds(kind, action)
	require.True(d.t, ok, "%s has no %s region", kind, action)
	return image.Pt((b.Min.X+b.Max.X)/2, (b.Min.Y+b.Max.Y)/2)
}

func (d *device) phase() domain.SessionPhase {
	return d.ctrl.Snapshot(d.now).Phase
}

// TestRemoteSessionLifecycle drives a whole work/rest cycle over the text
// command channel and checks the history written by the dispatcher.
func TestRemoteSessionLifecycle(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "flow-touch.db")
	d := bootDevice(t, dbPath, t0)
	defer d.shutdown()

	assert.Equal(t, "🍅 Stopped | 25/5", d.control.Status())

	assert.Equal(t, "🍅 Starting...", d.send("/work"))
	require.Equal(t, domain.PhaseRunning, d.phase())
	assert.Equal(t, domain.ScreenTimer, d.ctrl.Screen().Kind())
	assert.Contains(t, d.control.Status(), "Working | 25/5")

	d.jump(25 * time.Minute)
	assert.Equal(t, domain.KindRest, d.ctrl.Snapshot(d.now).Kind)
	assert.Contains(t, d.control.Status(), "Resting")

	d.send("paus")
	require.Equal(t, domain.PhasePaused, d.phase())
	assert.Contains(t, d.control.Status(), "Paused (")

	d.send("/resume")
	require.Equal(t, domain.PhaseRunning, d.phase())

	d.send("/stop")
	require.Equal(t, domain.PhaseStopped, d.phase())
	assert.Equal(t, domain.ScreenHome, d.ctrl.Screen().Kind())

	assert.Equal(t, []string{
		domain.TransitionConnected.Message(),
		domain.TransitionStarted.Message(),
		domain.TransitionRestBegan.Message(),
		domain.TransitionPaused.Message(),
		domain.TransitionResumed.Message(),
		domain.TransitionStopped.Message(),
	}, d.sink.messages())

	records, err := d.store.Transitions().Recent(d.ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 6)
	assert.Equal(t, domain.TransitionStopped, records[0].Transition)
	assert.Equal(t, domain.TransitionConnected, records[5].Transition)
	assert.Equal(t, domain.KindRest, records[2].Kind, "paused during rest")
}

// TestTouchSessionAndRestart starts and stops a session by touch, picks a
// new accent in landscape and checks it survives a reboot.
func TestTouchSessionAndRestart(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "flow-touch.db")
	d := bootDevice(t, dbPath, t0)

	mid := image.Pt(d.canvas.Width()/2, d.canvas.Height()/2)
	d.hold(mid)
	require.Equal(t, domain.PhaseRunning, d.phase())

	d.advance(2 * time.Second)
	d.hold(mid)
	require.Equal(t, domain.PhaseStopped, d.phase())

	d.orientation.Rotate()
	d.advance(2100 * time.Millisecond)
	require.Equal(t, domain.RotationLandscape, d.canvas.Rotation())
	require.Equal(t, 320, d.canvas.Width())

	d.tap(d.center(domain.ScreenHome, domain.ActionGear))
	require.Equal(t, domain.ScreenPalette, d.ctrl.Screen().Kind())

	g, ok := d.ctrl.Regions().GridOf(domain.ScreenPalette)
	require.True(t, ok)
	violet := 13
	require.Equal(t, "violet", domain.Palette[violet].Name)
	b := g.CellBounds(violet)
	d.tap(image.Pt((b.Min.X+b.Max.X)/2, (b.Min.Y+b.Max.Y)/2))
	d.tap(d.center(domain.ScreenPalette, domain.ActionConfirm))
	d.tap(d.center(domain.ScreenPreview, domain.ActionConfirm))
	require.Equal(t, domain.Palette[violet].Color, d.ctrl.Accent())
	d.shutdown()

	again := bootDevice(t, dbPath, d.now.Add(time.Hour))
	defer again.shutdown()
	assert.Equal(t, domain.Palette[violet].Color, again.ctrl.Accent())
	assert.Equal(t, domain.HomeScreen{}, again.ctrl.Screen())

	records, err := again.store.Transitions().Recent(again.ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, domain.TransitionConnected, records[0].Transition)
	assert.Equal(t, domain.TransitionStopped, records[1].Transition)
	assert.Equal(t, domain.TransitionStarted, records[2].Transition)
}

// TestCommandsCoalesceBetweenTicks fires the same command repeatedly before
// the loop runs; it is applied once.
func TestCommandsCoalesceBetweenTicks(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "flow-touch.db")
	d := bootDevice(t, dbPath, t0)
	defer d.shutdown()

	for i := 0; i < 5; i++ {
		d.control.Fire(remote.CommandCycleMode)
	}
	d.advance(step)

	assert.Equal(t, "50/10", d.ctrl.Snapshot(d.now).ModeLabel)
}
