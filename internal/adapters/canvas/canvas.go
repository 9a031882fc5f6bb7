// Package canvas implements the drawing surface on an in-memory image. It
// backs the simulator, the frame dumps of the headless runner and the
// renderer tests.
package canvas

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"sync"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/xvierd/flow-touch/internal/domain"
	"github.com/xvierd/flow-touch/internal/ports"
)

// Canvas is an RGB565-valued surface of a fixed native size.
type Canvas struct {
	mu       sync.RWMutex
	nativeW  int
	nativeH  int
	rotation domain.Rotation
	img      *image.RGBA
	face     font.Face
	version  uint64
	ops      int
}

var _ ports.Surface = (*Canvas)(nil)

// New creates a black portrait canvas of the native panel size.
func New(width, height int) *Canvas {
	c := &Canvas{
		nativeW: width,
		nativeH: height,
		face:    basicfont.Face7x13,
	}
	c.img = image.NewRGBA(image.Rect(0, 0, width, height))
	c.fill(c.img.Rect, domain.Black)
	return c
}

func (c *Canvas) Width() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.img.Rect.Dx()
}

func (c *Canvas) Height() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.img.Rect.Dy()
}

func (c *Canvas) Rotation() domain.Rotation {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.rotation
}

// SetRotation reallocates the buffer with swapped dimensions when the
// orientation changes between portrait and landscape.
func (c *Canvas) SetRotation(r domain.Rotation) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if r == c.rotation || !r.Valid() {
		return
	}
	c.rotation = r
	w, h := c.nativeW, c.nativeH
	if r.Landscape() {
		w, h = h, w
	}
	c.img = image.NewRGBA(image.Rect(0, 0, w, h))
	c.fill(c.img.Rect, domain.Black)
	c.touch()
}

func (c *Canvas) Clear(col domain.Color) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fill(c.img.Rect, col)
	c.touch()
}

func (c *Canvas) SetPixel(x, y int, col domain.Color) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.set(x, y, col)
	c.touch()
}

// DrawLine uses Bresenham's algorithm.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int, col domain.Color) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.line(x0, y0, x1, y1, col)
	c.touch()
}

func (c *Canvas) DrawRect(r image.Rectangle, col domain.Color) {
	if r.Empty() {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	x0, y0, x1, y1 := r.Min.X, r.Min.Y, r.Max.X-1, r.Max.Y-1
	c.line(x0, y0, x1, y0, col)
	c.line(x0, y1, x1, y1, col)
	c.line(x0, y0, x0, y1, col)
	c.line(x1, y0, x1, y1, col)
	c.touch()
}

func (c *Canvas) FillRect(r image.Rectangle, col domain.Color) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fill(r, col)
	c.touch()
}

// DrawCircle draws a one pixel outline: every pixel whose squared distance
// lies in ((r-1)^2, r^2].
func (c *Canvas) DrawCircle(center image.Point, radius int, col domain.Color) {
	c.mu.Lock()
	defer c.mu.Unlock()
	inner, outer := (radius-1)*(radius-1), radius*radius
	for y := -radius; y <= radius; y++ {
		for x := -radius; x <= radius; x++ {
			d := x*x + y*y
			if d > inner && d <= outer {
				c.set(center.X+x, center.Y+y, col)
			}
		}
	}
	c.touch()
}

func (c *Canvas) FillCircle(center image.Point, radius int, col domain.Color) {
	c.mu.Lock()
	defer c.mu.Unlock()
	rr := radius * radius
	for y := -radius; y <= radius; y++ {
		for x := -radius; x <= radius; x++ {
			if x*x+y*y <= rr {
				c.set(center.X+x, center.Y+y, col)
			}
		}
	}
	c.touch()
}

// FillTriangle fills every pixel center on or inside the three edges.
func (c *Canvas) FillTriangle(a, b, p image.Point, col domain.Color) {
	c.mu.Lock()
	defer c.mu.Unlock()
	bounds := image.Rectangle{Min: a, Max: a.Add(image.Pt(1, 1))}.
		Union(image.Rectangle{Min: b, Max: b.Add(image.Pt(1, 1))}).
		Union(image.Rectangle{Min: p, Max: p.Add(image.Pt(1, 1))})
	area := edge(a, b, p)
	if area == 0 {
		c.line(a.X, a.Y, b.X, b.Y, col)
		c.line(b.X, b.Y, p.X, p.Y, col)
		c.touch()
		return
	}
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			q := image.Pt(x, y)
			w0, w1, w2 := edge(b, p, q), edge(p, a, q), edge(a, b, q)
			if area > 0 && w0 >= 0 && w1 >= 0 && w2 >= 0 || area < 0 && w0 <= 0 && w1 <= 0 && w2 <= 0 {
				c.set(x, y, col)
			}
		}
	}
	c.touch()
}

// MeasureText returns the ink bounds of text relative to the dot.
func (c *Canvas) MeasureText(text string, scale int) image.Rectangle {
	if scale < 1 {
		scale = 1
	}
	b, _ := font.BoundString(c.face, text)
	return image.Rect(
		b.Min.X.Floor()*scale, b.Min.Y.Floor()*scale,
		b.Max.X.Ceil()*scale, b.Max.Y.Ceil()*scale,
	)
}

// DrawText renders with the 7x13 bitmap face and scales glyphs up with
// nearest-neighbour sampling so they stay crisp.
func (c *Canvas) DrawText(text string, dot image.Point, scale int, col domain.Color) {
	if scale < 1 {
		scale = 1
	}
	b, _ := font.BoundString(c.face, text)
	unit := image.Rect(b.Min.X.Floor(), b.Min.Y.Floor(), b.Max.X.Ceil(), b.Max.Y.Ceil())
	if unit.Empty() {
		return
	}

	mask := image.NewAlpha(image.Rect(0, 0, unit.Dx(), unit.Dy()))
	d := font.Drawer{
		Dst:  mask,
		Src:  image.Opaque,
		Face: c.face,
		Dot:  fixed.P(-unit.Min.X, -unit.Min.Y),
	}
	d.DrawString(text)

	scaled := image.NewAlpha(image.Rect(0, 0, unit.Dx()*scale, unit.Dy()*scale))
	xdraw.NearestNeighbor.Scale(scaled, scaled.Rect, mask, mask.Rect, xdraw.Src, nil)

	dst := image.Rectangle{
		Min: dot.Add(unit.Min.Mul(scale)),
		Max: dot.Add(unit.Min.Mul(scale)).Add(scaled.Rect.Size()),
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	// threshold the mask so every pixel stays a pure palette color
	for y := 0; y < scaled.Rect.Dy(); y++ {
		for x := 0; x < scaled.Rect.Dx(); x++ {
			if scaled.AlphaAt(x, y).A >= 0x80 {
				c.set(dst.Min.X+x, dst.Min.Y+y, col)
			}
		}
	}
	c.touch()
}

// ColorAt returns the pixel at (x, y) as RGB565.
func (c *Canvas) ColorAt(x, y int) domain.Color {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !image.Pt(x, y).In(c.img.Rect) {
		return domain.Black
	}
	px := c.img.RGBAAt(x, y)
	return domain.RGB565(px.R, px.G, px.B)
}

// Snapshot returns a copy of the current frame.
func (c *Canvas) Snapshot() *image.RGBA {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := image.NewRGBA(c.img.Rect)
	draw.Draw(out, out.Rect, c.img, c.img.Rect.Min, draw.Src)
	return out
}

// WritePNG encodes the current frame.
func (c *Canvas) WritePNG(w io.Writer) error {
	return png.Encode(w, c.Snapshot())
}

// SavePNG writes the current frame to path, replacing it atomically so a
// viewer polling the file never reads half a frame.
func (c *Canvas) SavePNG(path string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".frame-*.png")
	if err != nil {
		return fmt.Errorf("failed to create frame file: %w", err)
	}
	if err := c.WritePNG(tmp); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to encode frame: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to close frame file: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}

// Version increases with every drawing call.
func (c *Canvas) Version() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.version
}

// Ops returns the number of drawing calls since the last ResetOps.
func (c *Canvas) Ops() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ops
}

// ResetOps zeroes the drawing call counter.
func (c *Canvas) ResetOps() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ops = 0
}

func (c *Canvas) touch() {
	c.version++
	c.ops++
}

func (c *Canvas) set(x, y int, col domain.Color) {
	if !image.Pt(x, y).In(c.img.Rect) {
		return
	}
	r, g, b := col.RGB()
	c.img.SetRGBA(x, y, color.RGBA{R: r, G: g, B: b, A: 0xff})
}

func (c *Canvas) fill(r image.Rectangle, col domain.Color) {
	r = r.Intersect(c.img.Rect)
	if r.Empty() {
		return
	}
	rr, g, b := col.RGB()
	draw.Draw(c.img, r, image.NewUniform(color.RGBA{R: rr, G: g, B: b, A: 0xff}), image.Point{}, draw.Src)
}

func (c *Canvas) line(x0, y0, x1, y1 int, col domain.Color) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		c.set(x0, y0, col)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func edge(a, b, p image.Point) int {
	return (b.X-a.X)*(p.Y-a.Y) - (b.Y-a.Y)*(p.X-a.X)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
