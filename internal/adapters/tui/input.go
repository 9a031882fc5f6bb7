package tui

import (
	"image"
	"sync"
	"sync/atomic"
	"time"

	"github.com/xvierd/flow-touch/internal/domain"
	"github.com/xvierd/flow-touch/internal/ports"
)

// MouseTouch turns mouse button state into touch samples.
type MouseTouch struct {
	mu     sync.Mutex
	sample domain.TouchSample
}

var _ ports.TouchSource = (*MouseTouch)(nil)

// Press records a contact at p. Moving while pressed calls Press again.
func (m *MouseTouch) Press(p image.Point) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sample = domain.TouchSample{Touched: true, Point: p, HasPoint: true}
}

// Release ends the contact. The last point is kept, as the panel does.
func (m *MouseTouch) Release() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sample.Touched = false
}

// Poll implements ports.TouchSource.
func (m *MouseTouch) Poll(time.Time) (domain.TouchSample, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sample, nil
}

// ManualOrientation is an orientation source driven by a key.
type ManualOrientation struct {
	rotation atomic.Int32
}

var _ ports.OrientationSource = (*ManualOrientation)(nil)

// Rotate turns the virtual device a quarter clockwise.
func (o *ManualOrientation) Rotate() domain.Rotation {
	for {
		cur := o.rotation.Load()
		next := (cur + 1) % 4
		if o.rotation.CompareAndSwap(cur, next) {
			return domain.Rotation(next)
		}
	}
}

// Orientation implements ports.OrientationSource.
func (o *ManualOrientation) Orientation(domain.Rotation) (domain.Rotation, error) {
	return domain.Rotation(o.rotation.Load()), nil
}
