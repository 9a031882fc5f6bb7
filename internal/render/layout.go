package render

import (
	"image"

	"github.com/xvierd/flow-touch/internal/domain"
	"github.com/xvierd/flow-touch/internal/hittest"
)

const (
	cellSize      = 43
	gearSize      = 36
	gearPadding   = 8
	buttonPadding = 6
	iconSize      = 24
	iconWidth     = 32
	modePadding   = 4
	swatchW       = 80
	swatchH       = 40
	selectBorder  = 3
)

// Layout holds the element positions for one surface size and rotation.
type Layout struct {
	Size      image.Point
	Landscape bool
}

func newLayout(w, h int, rot domain.Rotation) Layout {
	return Layout{Size: image.Pt(w, h), Landscape: rot.Landscape()}
}

// Center is the middle of the surface.
func (l Layout) Center() image.Point {
	return l.Size.Div(2)
}

// Gear is the center of the settings icon on the home screen.
func (l Layout) Gear() image.Point {
	if l.Landscape {
		return image.Pt(l.Size.X-40, l.Size.Y/2)
	}
	return image.Pt(l.Size.X/2, l.Size.Y-40)
}

// Grid computes the palette grid. One row at the bottom is kept for the
// buttons and the column count grows until every swatch fits.
func (l Layout) Grid() hittest.Grid {
	rows := l.Size.Y/cellSize - 1
	if rows < 1 {
		rows = 1
	}
	cols := (domain.PaletteSize + rows - 1) / rows
	if fit := l.Size.X / cellSize; cols > fit {
		cols = fit
	}
	count := cols * rows
	if count > domain.PaletteSize {
		count = domain.PaletteSize
	}
	return hittest.Grid{
		Origin: image.Pt((l.Size.X-cols*cellSize)/2, 0),
		Cell:   image.Pt(cellSize, cellSize),
		Cols:   cols,
		Count:  count,
	}
}

// GridButtons returns the cancel and confirm centers under the grid.
func (l Layout) GridButtons(g hittest.Grid) (cancel, confirm image.Point) {
	rows := (g.Count + g.Cols - 1) / g.Cols
	top := g.Origin.Y + rows*g.Cell.Y
	y := (top + l.Size.Y) / 2
	return image.Pt(l.Size.X/4, y), image.Pt(3*l.Size.X/4, y)
}

// ButtonScale is the text scale of the X/V buttons.
func (l Layout) ButtonScale() int {
	if l.Landscape {
		return 2
	}
	return 3
}

// Swatches returns the centers of the work and rest previews.
func (l Layout) Swatches() (work, rest image.Point) {
	c := l.Center()
	if l.Landscape {
		return image.Pt(l.Size.X/3, c.Y-10), image.Pt(2*l.Size.X/3, c.Y-10)
	}
	return image.Pt(c.X, c.Y-60), image.Pt(c.X, c.Y+60)
}

// PreviewButtons returns the cancel and confirm centers on the preview.
func (l Layout) PreviewButtons() (cancel, confirm image.Point) {
	y := l.Size.Y - 40
	return image.Pt(l.Size.X/4, y), image.Pt(3*l.Size.X/4, y)
}

// StatusButton is the center of the pause/play icon.
func (l Layout) StatusButton() image.Point {
	if l.Landscape {
		return image.Pt(l.Size.X-35, l.Size.Y/2)
	}
	return image.Pt(l.Size.X/2, l.Size.Y-30)
}

// ModeScale is the text scale of the mode label.
func (l Layout) ModeScale() int {
	if l.Landscape {
		return 2
	}
	return 3
}

// ModeButton places the mode label given its measured box size.
func (l Layout) ModeButton(box image.Point) image.Point {
	if l.Landscape {
		return image.Pt(box.X/2+modePadding, l.Size.Y/2)
	}
	return image.Pt(l.Size.X/2, 6+box.Y/2)
}
