package services

import (
	"image"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xvierd/flow-touch/internal/domain"
	"github.com/xvierd/flow-touch/internal/remote"
	"github.com/xvierd/flow-touch/internal/render"
)

func TestController_BootLoadsAccent(t *testing.T) {
	r := newRig(t, DefaultControllerOptions())
	require.NoError(t, r.accents.Save(r.ctx, domain.Palette[5].Color))

	r.ctrl.Boot(r.ctx, r.now)

	assert.Equal(t, domain.Palette[5].Color, r.ctrl.Accent())
	assert.Equal(t, []domain.Transition{domain.TransitionConnected}, r.drain())
	assert.Equal(t, domain.ScreenHome, r.board.Load().Screen)
}

func TestController_PaletteFlowPersistsAccent(t *testing.T) {
	r := newRig(t, DefaultControllerOptions())

	r.tap(r.center(domain.ScreenHome, domain.ActionGear))
	require.Equal(t, domain.NewPaletteScreen(), r.ctrl.Screen())

	r.tap(r.cell(3))
	require.Equal(t, domain.PaletteScreen{Selected: 3}, r.ctrl.Screen())

	r.tap(r.center(domain.ScreenPalette, domain.ActionConfirm))
	require.Equal(t, domain.PreviewScreen{Candidate: domain.Palette[3].Color}, r.ctrl.Screen())

	r.tap(r.center(domain.ScreenPreview, domain.ActionConfirm))
	assert.Equal(t, domain.HomeScreen{}, r.ctrl.Screen())
	assert.Equal(t, domain.Palette[3].Color, r.ctrl.Accent())
	assert.Equal(t, domain.Palette[3].Color, r.accents.Load(r.ctx))
}

func TestController_PreviewCancelGoesHomeWithoutSaving(t *testing.T) {
	r := newRig(t, DefaultControllerOptions())

	r.tap(r.center(domain.ScreenHome, domain.ActionGear))
	r.tap(r.cell(5))
	r.tap(r.center(domain.ScreenPalette, domain.ActionConfirm))
	require.Equal(t, domain.PreviewScreen{Candidate: domain.Palette[5].Color}, r.ctrl.Screen())

	r.tap(r.center(domain.ScreenPreview, domain.ActionCancel))
	assert.Equal(t, domain.HomeScreen{}, r.ctrl.Screen())
	assert.Equal(t, domain.DefaultAccent, r.ctrl.Accent())
	assert.Equal(t, domain.DefaultAccent, r.accents.Load(r.ctx))
}

func TestController_ConfirmWithoutSelectionStays(t *testing.T) {
	r := newRig(t, DefaultControllerOptions())

	r.tap(r.center(domain.ScreenHome, domain.ActionGear))
	r.tap(r.center(domain.ScreenPalette, domain.ActionConfirm))

	assert.Equal(t, domain.NewPaletteScreen(), r.ctrl.Screen())
	assert.Equal(t, domain.DefaultAccent, r.ctrl.Accent())
}

func TestController_PaletteCancelDiscards(t *testing.T) {
	r := newRig(t, DefaultControllerOptions())

	r.tap(r.center(domain.ScreenHome, domain.ActionGear))
	r.tap(r.cell(7))
	r.tap(r.center(domain.ScreenPalette, domain.ActionCancel))

	assert.Equal(t, domain.HomeScreen{}, r.ctrl.Screen())
	assert.Equal(t, domain.DefaultAccent, r.ctrl.Accent())
}

func TestController_TapOutsideMarginMisses(t *testing.T) {
	r := newRig(t, DefaultControllerOptions())
	b, ok := r.ctrl.Regions().Bounds(domain.ScreenHome, domain.ActionGear)
	require.True(t, ok)

	r.tap(image.Pt(b.Min.X-20, b.Min.Y-20))
	assert.Equal(t, domain.HomeScreen{}, r.ctrl.Screen())

	r.tap(image.Pt(b.Max.X+9, b.Min.Y))
	assert.Equal(t, domain.NewPaletteScreen(), r.ctrl.Screen())
}

func TestController_LongPressStartsAndStops(t *testing.T) {
	r := newRig(t, DefaultControllerOptions())

	r.longPress(image.Pt(86, 100))
	assert.Equal(t, domain.PhaseRunning, r.phase())
	assert.Equal(t, domain.TimerScreen{Display: domain.DisplayMinutesSeconds}, r.ctrl.Screen())

	r.advance(2 * time.Second)
	r.longPress(image.Pt(86, 100))
	assert.Equal(t, domain.PhaseStopped, r.phase())
	assert.Equal(t, domain.HomeScreen{}, r.ctrl.Screen())
	assert.Equal(t, []domain.Transition{domain.TransitionStarted, domain.TransitionStopped}, r.drain())
}

func TestController_LongPressOnGearDoesNotNavigate(t *testing.T) {
	r := newRig(t, DefaultControllerOptions())

	r.longPress(r.center(domain.ScreenHome, domain.ActionGear))

	assert.Equal(t, domain.PhaseRunning, r.phase())
	assert.Equal(t, domain.ScreenTimer, r.ctrl.Screen().Kind())
}

func TestController_TapsSuppressedAfterStart(t *testing.T) {
	r := newRig(t, DefaultControllerOptions())
	r.longPress(image.Pt(86, 100))

	status := r.center(domain.ScreenTimer, domain.ActionStatusButton)
	r.tap(status)
	assert.Equal(t, domain.PhaseRunning, r.phase(), "tap inside the start window is ignored")

	r.advance(1500 * time.Millisecond)
	r.tap(status)
	assert.Equal(t, domain.PhasePaused, r.phase())

	r.tap(r.center(domain.ScreenTimer, domain.ActionStatusButton))
	assert.Equal(t, domain.PhaseRunning, r.phase())
}

func TestController_RemotePauseDuringLongPress(t *testing.T) {
	r := newRig(t, DefaultControllerOptions())
	r.inbox.Fire(remote.CommandStart)
	r.advance(step)
	require.Equal(t, domain.PhaseRunning, r.phase())
	r.drain()

	r.touch.down(image.Pt(86, 100))
	r.advance(500 * time.Millisecond)
	r.inbox.Fire(remote.CommandPause)
	r.advance(step)
	require.Equal(t, domain.PhasePaused, r.phase())

	r.advance(700 * time.Millisecond)
	r.touch.up()
	r.advance(260 * time.Millisecond)

	assert.Equal(t, domain.PhaseStopped, r.phase())
	assert.Equal(t, []domain.Transition{domain.TransitionPaused, domain.TransitionStopped}, r.drain())
}

func TestController_RemoteStartIsIdempotent(t *testing.T) {
	r := newRig(t, DefaultControllerOptions())
	r.inbox.Fire(remote.CommandStart)
	r.inbox.Fire(remote.CommandStart)
	r.advance(step)

	r.advance(3 * time.Second)
	before := r.ctrl.Snapshot(r.now)

	r.inbox.Fire(remote.CommandStart)
	r.ctrl.Tick(r.ctx, r.now)
	after := r.ctrl.Snapshot(r.now)

	assert.Equal(t, before, after)
	assert.Equal(t, []domain.Transition{domain.TransitionStarted}, r.drain())
}

func TestController_StartIgnoredWhilePickingColor(t *testing.T) {
	r := newRig(t, DefaultControllerOptions())
	r.tap(r.center(domain.ScreenHome, domain.ActionGear))

	r.inbox.Fire(remote.CommandStart)
	r.advance(step)
	r.longPress(image.Pt(86, 100))

	assert.Equal(t, domain.PhaseStopped, r.phase())
	assert.Equal(t, domain.ScreenPalette, r.ctrl.Screen().Kind())
}

func TestController_ModeButtonCycles(t *testing.T) {
	r := newRig(t, DefaultControllerOptions())
	r.inbox.Fire(remote.CommandStart)
	r.advance(2 * time.Second)

	labels := []string{"50/10", "1/1", "25/5"}
	for _, want := range labels {
		r.tap(r.center(domain.ScreenTimer, domain.ActionModeButton))
		assert.Equal(t, want, r.ctrl.Snapshot(r.now).ModeLabel)
	}
	assert.Equal(t, domain.PhaseRunning, r.phase())
}

func TestController_CircleTogglesDisplay(t *testing.T) {
	r := newRig(t, DefaultControllerOptions())
	r.inbox.Fire(remote.CommandStart)
	r.advance(2 * time.Second)

	r.tap(image.Pt(86, 160))
	assert.Equal(t, domain.TimerScreen{Display: domain.DisplayMinutes}, r.ctrl.Screen())

	r.inbox.Fire(remote.CommandStop)
	r.advance(step)
	r.inbox.Fire(remote.CommandStart)
	r.advance(step)
	assert.Equal(t, domain.TimerScreen{Display: domain.DisplayMinutes}, r.ctrl.Screen(), "display mode survives a restart")
}

func TestController_WorkRestFlip(t *testing.T) {
	opts := DefaultControllerOptions()
	opts.Mode = domain.ModeShort
	r := newRig(t, opts)
	r.inbox.Fire(remote.CommandStart)
	r.ctrl.Tick(r.ctx, r.now)

	snap := r.ctrl.Snapshot(r.now.Add(59 * time.Second))
	assert.Equal(t, "00:01", domain.FormatClock(snap.Remaining))
	assert.InDelta(t, 0.983, snap.Progress, 0.001)

	got := r.ctrl.Tick(r.ctx, r.now.Add(60*time.Second))
	snap = r.ctrl.Snapshot(r.now.Add(60 * time.Second))
	assert.Equal(t, domain.KindRest, snap.Kind)
	assert.Equal(t, 0.0, snap.Progress)
	assert.True(t, got.Has(render.RedrawFull), "rest recolors the screen")
	assert.Equal(t, []domain.Transition{domain.TransitionStarted, domain.TransitionRestBegan}, r.drain())
}

func TestController_OrientationChangeRedraws(t *testing.T) {
	r := newRig(t, DefaultControllerOptions())
	orient := &fakeOrientation{next: domain.Rotation(1)}
	r.ctrl.orientation = orient

	got := r.ctrl.Tick(r.ctx, r.now.Add(3*time.Second))

	assert.Equal(t, render.RedrawFull, got)
	assert.Equal(t, domain.Rotation(1), r.canvas.Rotation())
	assert.Equal(t, 320, r.canvas.Width())
}

func TestController_OrientationPolledOnInterval(t *testing.T) {
	r := newRig(t, DefaultControllerOptions())
	orient := &fakeOrientation{next: domain.Rotation(2)}
	r.ctrl.orientation = orient
	r.ctrl.lastOrient = r.now

	r.ctrl.Tick(r.ctx, r.now.Add(time.Second))
	assert.Equal(t, domain.Rotation(0), r.canvas.Rotation())

	r.ctrl.Tick(r.ctx, r.now.Add(2*time.Second))
	assert.Equal(t, domain.Rotation(2), r.canvas.Rotation())
}

func TestController_OutboxKeepsOldest(t *testing.T) {
	r := newRig(t, DefaultControllerOptions())
	r.ctrl.Boot(r.ctx, r.now)

	for _, cmd := range []remote.Command{remote.CommandStart, remote.CommandPause, remote.CommandResume, remote.CommandStop} {
		r.inbox.Fire(cmd)
		r.advance(step)
	}

	assert.Equal(t, uint64(2), r.outbox.Dropped())
	assert.Equal(t, []domain.Transition{
		domain.TransitionConnected,
		domain.TransitionStarted,
		domain.TransitionPaused,
	}, r.drain())
}

func TestController_PublishesStatus(t *testing.T) {
	r := newRig(t, DefaultControllerOptions())
	r.inbox.Fire(remote.CommandStart)
	r.advance(time.Second)

	st := r.board.Load()
	assert.Equal(t, domain.PhaseRunning, st.Session.Phase)
	assert.Equal(t, domain.ScreenTimer, st.Screen)
	assert.Equal(t, r.now, st.UpdatedAt)
}

func TestController_IdleTickDrawsNothing(t *testing.T) {
	r := newRig(t, DefaultControllerOptions())
	r.advance(time.Second)

	r.canvas.ResetOps()
	got := r.ctrl.Tick(r.ctx, r.now.Add(step))

	assert.Equal(t, render.Redraw(0), got)
	assert.Zero(t, r.canvas.Ops())
}
