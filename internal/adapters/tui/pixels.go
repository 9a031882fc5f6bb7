package tui

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const halfBlock = "▀"

// chromeRows is the space kept under the panel for status and help.
const chromeRows = 3

// FitScale returns the smallest pixel step that fits a panel of size px
// into a terminal of cols x rows cells. Each cell shows two pixel rows.
func FitScale(px image.Point, cols, rows int) int {
	rows -= chromeRows
	if cols < 1 || rows < 1 {
		return maxScale(px)
	}
	for s := 1; s < maxScale(px); s++ {
		if ceilDiv(px.X, s) <= cols && ceilDiv(px.Y, 2*s) <= rows {
			return s
		}
	}
	return maxScale(px)
}

func maxScale(px image.Point) int {
	return max(px.X, px.Y, 1)
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

// CellToPixel maps a terminal cell to the panel pixel it samples.
func CellToPixel(col, row, scale int) image.Point {
	return image.Pt(col*scale+scale/2, row*2*scale+scale/2)
}

// RenderHalfBlocks draws img with one upper-half block per cell: the
// foreground is the upper pixel row and the background the lower one.
func RenderHalfBlocks(img image.Image, scale int) string {
	if scale < 1 {
		scale = 1
	}
	b := img.Bounds()
	cols := ceilDiv(b.Dx(), scale)
	rows := ceilDiv(b.Dy(), 2*scale)

	var sb strings.Builder
	for row := 0; row < rows; row++ {
		if row > 0 {
			sb.WriteByte('\n')
		}
		for col := 0; col < cols; col++ {
			top := CellToPixel(col, row, scale)
			bottom := top.Add(image.Pt(0, scale))
			style := lipgloss.NewStyle().
				Foreground(hexColor(sample(img, top))).
				Background(hexColor(sample(img, bottom)))
			sb.WriteString(style.Render(halfBlock))
		}
	}
	return sb.String()
}

func sample(img image.Image, p image.Point) color.Color {
	if !p.In(img.Bounds()) {
		return color.Black
	}
	return img.At(p.X, p.Y)
}

func hexColor(c color.Color) lipgloss.Color {
	r, g, b, _ := c.RGBA()
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8))
}
