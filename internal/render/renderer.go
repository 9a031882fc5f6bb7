// Package render draws the screens onto a Surface and keeps the hit-test
// registry in sync with what is on the panel.
//
// The panel is slow to write, so after a full redraw the renderer only
// touches pixels whose content changed: the time text, the newly elapsed
// ring segment, and the status button.
package render

import (
	"image"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/xvierd/flow-touch/internal/domain"
	"github.com/xvierd/flow-touch/internal/hittest"
	"github.com/xvierd/flow-touch/internal/ports"
)

// Config holds the progress ring geometry.
type Config struct {
	RingRadius    int
	RingThickness int
	RingSteps     int
}

// DefaultConfig returns the ring used on the 172x320 panel.
func DefaultConfig() Config {
	return Config{RingRadius: 70, RingThickness: 5, RingSteps: 720}
}

// Redraw reports which parts of the screen a Render call touched.
type Redraw uint8

const (
	RedrawFull Redraw = 1 << iota
	RedrawTime
	RedrawRing
	RedrawStatus
	RedrawCells
)

// Has reports whether all bits of o are set.
func (r Redraw) Has(o Redraw) bool {
	return r&o == o
}

// Frame is everything the renderer needs for one tick.
type Frame struct {
	Screen  domain.Screen
	Session domain.SessionSnapshot
	Accent  domain.Color
	Now     time.Time
}

// cache records what is currently on the panel.
type cache struct {
	valid     bool
	screen    domain.ScreenKind
	rotation  domain.Rotation
	size      image.Point
	accent    domain.Color
	mode      domain.Mode
	kind      domain.SessionKind
	phase     domain.SessionPhase
	display   domain.DisplayMode
	selected  int
	candidate domain.Color

	timeText   string
	timeBox    image.Rectangle
	statusBox  image.Rectangle
	ringStep   int
	lastUpdate time.Time
	grid       hittest.Grid
}

// Renderer owns the render cache. It must only be used from the control
// loop.
type Renderer struct {
	surface ports.Surface
	regions *hittest.Registry
	cfg     Config
	ring    *ring
	c       cache
	logger  *log.Logger
}

// New creates a renderer with an invalid cache, so the first Render is a
// full redraw.
func New(surface ports.Surface, regions *hittest.Registry, cfg Config, logger *log.Logger) *Renderer {
	if logger == nil {
		logger = log.Default()
	}
	return &Renderer{
		surface: surface,
		regions: regions,
		cfg:     cfg,
		ring:    newRing(cfg.RingRadius, cfg.RingThickness, cfg.RingSteps),
		logger:  logger,
	}
}

// Invalidate forces the next Render to redraw everything.
func (r *Renderer) Invalidate() {
	r.c.valid = false
}

// Render brings the panel up to date with f and returns what it redrew.
func (r *Renderer) Render(f Frame) Redraw {
	if f.Screen == nil {
		f.Screen = domain.HomeScreen{}
	}
	kind := f.Screen.Kind()
	size := image.Pt(r.surface.Width(), r.surface.Height())
	rot := r.surface.Rotation()

	full := !r.c.valid ||
		r.c.screen != kind ||
		r.c.rotation != rot ||
		r.c.size != size ||
		r.c.accent != f.Accent
	if kind == domain.ScreenTimer && (r.c.mode != f.Session.Mode || r.c.kind != f.Session.Kind) {
		full = true
	}

	lay := newLayout(size.X, size.Y, rot)

	if full {
		r.regions.InvalidateAll()
		r.regions.Reset(kind)
		r.c = cache{
			valid:    true,
			screen:   kind,
			rotation: rot,
			size:     size,
			accent:   f.Accent,
			selected: domain.NoSelection,
		}
		r.logger.Debug("full redraw", "screen", kind, "rotation", rot)
	}

	switch s := f.Screen.(type) {
	case domain.HomeScreen:
		if full {
			r.drawHome(lay, f.Accent)
			return RedrawFull
		}
	case domain.PaletteScreen:
		if full {
			r.drawPalette(lay, s)
			return RedrawFull
		}
		if s.Selected != r.c.selected {
			r.moveSelection(s.Selected)
			return RedrawCells
		}
	case domain.PreviewScreen:
		if full || s.Candidate != r.c.candidate {
			r.drawPreview(lay, s)
			return RedrawFull
		}
	case domain.TimerScreen:
		if full {
			r.drawTimer(lay, s, f)
			return RedrawFull
		}
		return r.updateTimer(lay, s, f)
	}
	return 0
}

func uiColor(accent domain.Color, kind domain.SessionKind) domain.Color {
	if kind == domain.KindRest {
		return accent.Invert()
	}
	return accent
}

// centered draws text with its ink box centered on p and returns the box.
func (r *Renderer) centered(text string, p image.Point, scale int, col domain.Color) image.Rectangle {
	b := r.surface.MeasureText(text, scale)
	dot := p.Sub(b.Min).Sub(b.Size().Div(2))
	r.surface.DrawText(text, dot, scale, col)
	return b.Add(dot)
}

// button draws a framed text button and returns its touch bounds.
func (r *Renderer) button(text string, p image.Point, scale int, textCol, frameCol domain.Color) image.Rectangle {
	box := r.centered(text, p, scale, textCol).Inset(-buttonPadding)
	r.surface.DrawRect(box, frameCol)
	return box
}

func (r *Renderer) drawHome(lay Layout, accent domain.Color) {
	r.surface.Clear(domain.Black)
	center := lay.Center()
	r.drawRing(center, accent)
	r.centered("R", center, 6, accent)

	gear := lay.Gear()
	r.drawGear(gear, accent)
	half := image.Pt(gearSize/2, gearSize/2)
	bounds := image.Rectangle{Min: gear.Sub(half), Max: gear.Add(half)}.Inset(-gearPadding)
	r.regions.Publish(domain.ScreenHome, domain.ActionGear, bounds)
}

func (r *Renderer) drawGear(c image.Point, col domain.Color) {
	const teeth = 8
	for i := 0; i < teeth; i++ {
		a := float64(i) * 2 * math.Pi / teeth
		tc := c.Add(image.Pt(int(math.Round(14*math.Cos(a))), int(math.Round(14*math.Sin(a)))))
		r.surface.FillRect(image.Rect(tc.X-3, tc.Y-3, tc.X+4, tc.Y+4), col)
	}
	r.surface.FillCircle(c, 12, col)
	r.surface.FillCircle(c, 5, domain.Black)
}

func (r *Renderer) drawPalette(lay Layout, s domain.PaletteScreen) {
	r.surface.Clear(domain.Black)
	g := lay.Grid()
	r.c.grid = g
	for i := 0; i < g.Count; i++ {
		r.drawCell(i, i == s.Selected)
	}
	r.c.selected = s.Selected
	r.regions.PublishGrid(domain.ScreenPalette, g)

	cancel, confirm := lay.GridButtons(g)
	scale := lay.ButtonScale()
	r.regions.Publish(domain.ScreenPalette, domain.ActionCancel, r.button("X", cancel, scale, 0xF800, domain.White))
	r.regions.Publish(domain.ScreenPalette, domain.ActionConfirm, r.button("V", confirm, scale, 0x07E0, domain.White))
}

// drawCell paints one swatch including the grid lines on its left and top
// edges, so redrawing a single cell gives the same pixels as a full grid.
func (r *Renderer) drawCell(i int, selected bool) {
	g := r.c.grid
	if i < 0 || i >= g.Count {
		return
	}
	b := g.CellBounds(i)
	r.surface.FillRect(b, domain.Palette[i].Color)
	if i%g.Cols > 0 {
		r.surface.DrawLine(b.Min.X, b.Min.Y, b.Min.X, b.Max.Y-1, domain.Black)
	}
	if i/g.Cols > 0 {
		r.surface.DrawLine(b.Min.X, b.Min.Y, b.Max.X-1, b.Min.Y, domain.Black)
	}
	if selected {
		for k := 0; k < selectBorder; k++ {
			r.surface.DrawRect(b.Inset(k), domain.White)
		}
	}
}

func (r *Renderer) moveSelection(next int) {
	r.drawCell(r.c.selected, false)
	r.drawCell(next, true)
	r.c.selected = next
}

func (r *Renderer) drawPreview(lay Layout, s domain.PreviewScreen) {
	r.surface.Clear(domain.Black)
	r.c.candidate = s.Candidate

	work, rest := lay.Swatches()
	r.drawSwatch("WORK", work, s.Candidate)
	r.drawSwatch("REST", rest, s.Candidate.Invert())

	cancel, confirm := lay.PreviewButtons()
	scale := lay.ButtonScale()
	r.regions.Reset(domain.ScreenPreview)
	r.regions.Publish(domain.ScreenPreview, domain.ActionCancel, r.button("X", cancel, scale, 0xF800, domain.White))
	r.regions.Publish(domain.ScreenPreview, domain.ActionConfirm, r.button("V", confirm, scale, 0x07E0, domain.White))
}

func (r *Renderer) drawSwatch(label string, c image.Point, col domain.Color) {
	box := image.Rect(c.X-swatchW/2, c.Y-swatchH/2, c.X+swatchW/2, c.Y+swatchH/2)
	r.surface.FillRect(box, col)
	r.surface.DrawRect(box, domain.White)
	r.centered(label, image.Pt(c.X, box.Min.Y-14), 2, domain.White)
}

func (r *Renderer) drawTimer(lay Layout, s domain.TimerScreen, f Frame) {
	ui := uiColor(f.Accent, f.Session.Kind)
	center := lay.Center()

	r.surface.Clear(domain.Black)
	r.drawRing(center, ui)
	r.c.ringStep = r.ring.stepFor(f.Session.Progress)
	r.eraseRing(center, 0, r.c.ringStep)

	r.drawModeButton(lay, f.Session.ModeLabel, ui)
	r.drawStatus(lay, f.Session.Phase, ui)
	r.drawTime(center, s.Display, f.Session, ui)

	r.regions.PublishCircle(domain.ScreenTimer, hittest.Circle{Center: center, Radius: r.cfg.RingRadius})

	r.c.mode = f.Session.Mode
	r.c.kind = f.Session.Kind
	r.c.phase = f.Session.Phase
	r.c.display = s.Display
	r.c.lastUpdate = f.Now
}

// updateTimer applies the minimal patch for an already drawn timer.
func (r *Renderer) updateTimer(lay Layout, s domain.TimerScreen, f Frame) Redraw {
	var out Redraw
	ui := uiColor(f.Accent, f.Session.Kind)
	center := lay.Center()

	if f.Session.Phase != r.c.phase {
		r.surface.FillRect(r.c.statusBox, domain.Black)
		r.drawStatus(lay, f.Session.Phase, ui)
		r.c.phase = f.Session.Phase
		out |= RedrawStatus
	}

	if f.Now.Sub(r.c.lastUpdate) < time.Second && s.Display == r.c.display {
		return out
	}
	r.c.lastUpdate = f.Now

	step := r.ring.stepFor(f.Session.Progress)
	switch {
	case step < r.c.ringStep:
		r.drawRing(center, ui)
		r.eraseRing(center, 0, step)
		out |= RedrawRing
	case step > r.c.ringStep:
		r.eraseRing(center, r.c.ringStep, step)
		out |= RedrawRing
	}
	r.c.ringStep = step

	text := timeText(s.Display, f.Session)
	if text != r.c.timeText || s.Display != r.c.display {
		r.surface.FillRect(r.c.timeBox, domain.Black)
		r.drawTime(center, s.Display, f.Session, ui)
		r.c.display = s.Display
		out |= RedrawTime
	}
	return out
}

func (r *Renderer) drawRing(center image.Point, col domain.Color) {
	r.paintRing(center, 0, r.ring.steps, col)
}

func (r *Renderer) eraseRing(center image.Point, from, to int) {
	r.paintRing(center, from, to, domain.Black)
}

// paintRing colors the annulus pixels of steps [from, to).
func (r *Renderer) paintRing(center image.Point, from, to int, col domain.Color) {
	for _, px := range r.ring.span(from, to) {
		p := center.Add(px.off)
		r.surface.SetPixel(p.X, p.Y, col)
	}
}

func timeText(d domain.DisplayMode, s domain.SessionSnapshot) string {
	if d == domain.DisplayMinutes {
		return domain.FormatMinutes(s.Remaining)
	}
	return domain.FormatClock(s.Remaining)
}

func (r *Renderer) drawTime(center image.Point, d domain.DisplayMode, s domain.SessionSnapshot, col domain.Color) {
	scale := 3
	if d == domain.DisplayMinutes {
		scale = 5
	}
	text := timeText(d, s)
	r.c.timeText = text
	r.c.timeBox = r.centered(text, center, scale, col)
}

func (r *Renderer) drawModeButton(lay Layout, label string, col domain.Color) {
	scale := lay.ModeScale()
	size := r.surface.MeasureText(label, scale).Inset(-modePadding).Size()
	p := lay.ModeButton(size)
	box := r.centered(label, p, scale, col).Inset(-modePadding)
	r.surface.DrawRect(box, col)
	r.regions.Publish(domain.ScreenTimer, domain.ActionModeButton, box)
}

// drawStatus draws the pause bars while running and the play triangle
// while paused.
func (r *Renderer) drawStatus(lay Layout, phase domain.SessionPhase, col domain.Color) {
	c := lay.StatusButton()
	box := image.Rect(c.X-iconWidth/2, c.Y-iconSize/2, c.X+iconWidth/2, c.Y+iconSize/2)

	if phase == domain.PhasePaused {
		r.surface.FillTriangle(
			image.Pt(c.X-9, c.Y-iconSize/2),
			image.Pt(c.X-9, c.Y+iconSize/2-1),
			image.Pt(c.X+12, c.Y),
			col,
		)
	} else {
		r.surface.FillRect(image.Rect(c.X-12, box.Min.Y, c.X-4, box.Max.Y), col)
		r.surface.FillRect(image.Rect(c.X+4, box.Min.Y, c.X+12, box.Max.Y), col)
	}

	r.c.statusBox = box
	r.regions.Publish(domain.ScreenTimer, domain.ActionStatusButton, box.Inset(-buttonPadding))
}
