package services

import (
	"context"
	"image"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/xvierd/flow-touch/internal/adapters/canvas"
	"github.com/xvierd/flow-touch/internal/adapters/storage"
	"github.com/xvierd/flow-touch/internal/domain"
	"github.com/xvierd/flow-touch/internal/logging"
	"github.com/xvierd/flow-touch/internal/ports"
	"github.com/xvierd/flow-touch/internal/remote"
)

var t0 = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

const step = 20 * time.Millisecond

func setupTestStorage(t *testing.T) (ports.Storage, func()) {
	store, err := storage.NewMemory()
	if err != nil {
		t.Fatalf("Failed to create test storage: %v", err)
	}
	return store, func() { store.Close() }
}

type fakeTouch struct {
	sample domain.TouchSample
}

func (f *fakeTouch) Poll(time.Time) (domain.TouchSample, error) {
	return f.sample, nil
}

func (f *fakeTouch) down(p image.Point) {
	f.sample = domain.TouchSample{Touched: true, Point: p, HasPoint: true}
}

func (f *fakeTouch) up() {
	f.sample = domain.TouchSample{}
}

type fakeOrientation struct {
	next domain.Rotation
}

func (f *fakeOrientation) Orientation(domain.Rotation) (domain.Rotation, error) {
	return f.next, nil
}

// rig drives a controller with a scripted finger and a fake clock.
type rig struct {
	t       *testing.T
	ctx     context.Context
	ctrl    *Controller
	touch   *fakeTouch
	canvas  *canvas.Canvas
	inbox   *remote.Inbox
	outbox  *remote.Outbox
	board   *remote.StatusBoard
	accents *AccentService
	now     time.Time
}

func newRig(t *testing.T, opts ControllerOptions) *rig {
	t.Helper()
	store, cleanup := setupTestStorage(t)
	t.Cleanup(cleanup)

	r := &rig{
		t:       t,
		ctx:     context.Background(),
		touch:   &fakeTouch{},
		canvas:  canvas.New(172, 320),
		inbox:   remote.NewInbox(),
		outbox:  remote.NewOutbox(remote.DefaultQueueSize),
		board:   remote.NewStatusBoard(),
		accents: NewAccentService(store.Settings(), logging.Discard()),
		now:     t0,
	}
	r.ctrl = NewController(ControllerDeps{
		Surface: r.canvas,
		Touch:   r.touch,
		Accents: r.accents,
		Inbox:   r.inbox,
		Outbox:  r.outbox,
		Board:   r.board,
		Logger:  logging.Discard(),
	}, opts)
	r.ctrl.Tick(r.ctx, r.now)
	return r
}

func (r *rig) advance(d time.Duration) {
	end := r.now.Add(d)
	for r.now.Before(end) {
		r.now = r.now.Add(step)
		r.ctrl.Tick(r.ctx, r.now)
	}
}

func (r *rig) tap(p image.Point) {
	r.touch.down(p)
	r.advance(60 * time.Millisecond)
	r.touch.up()
	r.advance(260 * time.Millisecond)
}

func (r *rig) longPress(p image.Point) {
	r.touch.down(p)
	r.advance(1100 * time.Millisecond)
	r.touch.up()
	r.advance(260 * time.Millisecond)
}

func (r *rig) center(kind domain.ScreenKind, action domain.ActionName) image.Point {
	r.t.Helper()
	b, ok := r.ctrl.Regions().Bounds(kind, action)
	require.True(r.t, ok, "%s has no %s region", kind, action)
	return image.Pt((b.Min.X+b.Max.X)/2, (b.Min.Y+b.Max.Y)/2)
}

func (r *rig) cell(i int) image.Point {
	r.t.Helper()
	g, ok := r.ctrl.Regions().GridOf(domain.ScreenPalette)
	require.True(r.t, ok, "palette grid not drawn")
	b := g.CellBounds(i)
	return image.Pt((b.Min.X+b.Max.X)/2, (b.Min.Y+b.Max.Y)/2)
}

func (r *rig) drain() []domain.Transition {
	var out []domain.Transition
	for {
		select {
		case n := <-r.outbox.C():
			out = append(out, n.Transition)
		default:
			return out
		}
	}
}

func (r *rig) phase() domain.SessionPhase {
	return r.ctrl.Snapshot(r.now).Phase
}
