package ports

import (
	"image"
	"time"

	"github.com/xvierd/flow-touch/internal/domain"
)

// Surface is a drawable panel in the current orientation. Rectangles follow
// image.Rectangle conventions (Max is exclusive).
// This is a driven port (implemented by adapters).
type Surface interface {
	// Width and Height are the logical size in the current rotation.
	Width() int
	Height() int

	// Rotation returns the current orientation.
	Rotation() domain.Rotation

	// SetRotation changes the orientation. Content is undefined afterwards.
	SetRotation(r domain.Rotation)

	Clear(c domain.Color)
	SetPixel(x, y int, c domain.Color)
	DrawLine(x0, y0, x1, y1 int, c domain.Color)
	DrawRect(r image.Rectangle, c domain.Color)
	FillRect(r image.Rectangle, c domain.Color)
	DrawCircle(center image.Point, radius int, c domain.Color)
	FillCircle(center image.Point, radius int, c domain.Color)
	FillTriangle(a, b, p image.Point, c domain.Color)

	// MeasureText returns the ink bounds of text drawn at the origin dot
	// with the given integer scale.
	MeasureText(text string, scale int) image.Rectangle

	// DrawText draws text with its baseline origin at dot.
	DrawText(text string, dot image.Point, scale int, c domain.Color)
}

// TouchSource is polled once per control-loop tick.
// This is a driven port (implemented by adapters).
type TouchSource interface {
	Poll(now time.Time) (domain.TouchSample, error)
}

// OrientationSource reports the physical orientation of the device.
// This is a driven port (implemented by adapters).
type OrientationSource interface {
	// Orientation returns the detected rotation given the current one.
	// Implementations keep current when the reading is ambiguous.
	Orientation(current domain.Rotation) (domain.Rotation, error)
}
