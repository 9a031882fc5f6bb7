// Package hittest maps tap coordinates to on-screen actions.
//
// The renderer publishes the bounds of every touchable element as it draws
// it; a screen whose elements have not been drawn yet resolves nothing.
package hittest

import (
	"image"
	"sync"

	"github.com/xvierd/flow-touch/internal/domain"
)

// DefaultMargin is the tolerance around rectangular targets in pixels.
const DefaultMargin = 15

// priority is the resolution order of elements per screen. The first
// element containing the point wins.
var priority = map[domain.ScreenKind][]domain.ActionName{
	domain.ScreenHome:    {domain.ActionGear},
	domain.ScreenPalette: {domain.ActionCancel, domain.ActionConfirm, domain.ActionCell},
	domain.ScreenPreview: {domain.ActionCancel, domain.ActionConfirm},
	domain.ScreenTimer:   {domain.ActionModeButton, domain.ActionStatusButton, domain.ActionProgressCircle},
}

// Grid describes the palette cell layout. Cells are numbered row-major from
// Origin and only the first Count cells are selectable.
type Grid struct {
	Origin image.Point
	Cell   image.Point
	Cols   int
	Count  int
}

// CellAt returns the index of the cell containing p. Cell hits use exact
// bounds, no margin.
func (g Grid) CellAt(p image.Point) (int, bool) {
	if g.Cols <= 0 || g.Cell.X <= 0 || g.Cell.Y <= 0 {
		return 0, false
	}
	d := p.Sub(g.Origin)
	if d.X < 0 || d.Y < 0 {
		return 0, false
	}
	col, row := d.X/g.Cell.X, d.Y/g.Cell.Y
	if col >= g.Cols {
		return 0, false
	}
	idx := row*g.Cols + col
	if idx >= g.Count {
		return 0, false
	}
	return idx, true
}

// CellBounds returns the rectangle of cell i.
func (g Grid) CellBounds(i int) image.Rectangle {
	col, row := i%g.Cols, i/g.Cols
	min := g.Origin.Add(image.Pt(col*g.Cell.X, row*g.Cell.Y))
	return image.Rectangle{Min: min, Max: min.Add(g.Cell)}
}

// Circle is a round target tested by squared distance.
type Circle struct {
	Center image.Point
	Radius int
}

// Contains reports whether p lies inside or on the circle.
func (c Circle) Contains(p image.Point) bool {
	d := p.Sub(c.Center)
	return d.X*d.X+d.Y*d.Y <= c.Radius*c.Radius
}

type layer struct {
	drawn  bool
	rects  map[domain.ActionName]image.Rectangle
	grid   *Grid
	circle *Circle
}

// Registry holds the published regions of every screen. The renderer
// writes and the control loop reads; the mutex only matters for the
// simulator, which reads from the UI goroutine.
type Registry struct {
	mu     sync.RWMutex
	margin int
	layers map[domain.ScreenKind]*layer
}

// NewRegistry creates an empty registry with the given margin.
func NewRegistry(margin int) *Registry {
	if margin < 0 {
		margin = 0
	}
	return &Registry{
		margin: margin,
		layers: make(map[domain.ScreenKind]*layer),
	}
}

// Margin returns the tolerance applied to rectangular targets.
func (r *Registry) Margin() int {
	return r.margin
}

// Reset discards every region of kind and marks it drawn. Call it at the
// start of a full redraw.
func (r *Registry) Reset(kind domain.ScreenKind) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.layers[kind] = &layer{drawn: true, rects: make(map[domain.ActionName]image.Rectangle)}
}

// Invalidate forgets everything published for kind.
func (r *Registry) Invalidate(kind domain.ScreenKind) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.layers, kind)
}

// InvalidateAll forgets every screen.
func (r *Registry) InvalidateAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.layers = make(map[domain.ScreenKind]*layer)
}

// Publish records the bounds of a rectangular element.
func (r *Registry) Publish(kind domain.ScreenKind, action domain.ActionName, bounds image.Rectangle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.layerFor(kind).rects[action] = bounds
}

// PublishGrid records the palette grid.
func (r *Registry) PublishGrid(kind domain.ScreenKind, g Grid) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.layerFor(kind).grid = &g
}

// PublishCircle records the round progress target.
func (r *Registry) PublishCircle(kind domain.ScreenKind, c Circle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.layerFor(kind).circle = &c
}

// Bounds returns the published rectangle of action, if any.
func (r *Registry) Bounds(kind domain.ScreenKind, action domain.ActionName) (image.Rectangle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.layers[kind]
	if !ok {
		return image.Rectangle{}, false
	}
	b, ok := l.rects[action]
	return b, ok
}

// GridOf returns the published grid of kind, if any.
func (r *Registry) GridOf(kind domain.ScreenKind) (Grid, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.layers[kind]
	if !ok || l.grid == nil {
		return Grid{}, false
	}
	return *l.grid, true
}

// Drawn reports whether kind has been published since its last
// invalidation.
func (r *Registry) Drawn(kind domain.ScreenKind) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.layers[kind]
	return ok && l.drawn
}

// Resolve maps a tap on screen kind to an action.
func (r *Registry) Resolve(kind domain.ScreenKind, p image.Point) domain.Action {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.layers[kind]
	if !ok || !l.drawn {
		return domain.NoAction
	}

	for _, name := range priority[kind] {
		switch name {
		case domain.ActionCell:
			if l.grid == nil {
				continue
			}
			if idx, ok := l.grid.CellAt(p); ok {
				return domain.CellAction(idx)
			}
		case domain.ActionProgressCircle:
			if l.circle != nil && l.circle.Contains(p) {
				return domain.Action{Name: name}
			}
		default:
			b, ok := l.rects[name]
			if !ok {
				continue
			}
			if p.In(b.Inset(-r.margin)) {
				return domain.Action{Name: name}
			}
		}
	}
	return domain.NoAction
}

func (r *Registry) layerFor(kind domain.ScreenKind) *layer {
	l, ok := r.layers[kind]
	if !ok {
		l = &layer{drawn: true, rects: make(map[domain.ActionName]image.Rectangle)}
		r.layers[kind] = l
	}
	return l
}
