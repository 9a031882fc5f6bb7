package domain

import "image"

// Rotation is the panel orientation in quarter turns.
type Rotation uint8

const (
	RotationPortrait Rotation = iota
	RotationLandscape
	RotationPortraitFlipped
	RotationLandscapeFlipped
)

// Landscape reports whether width and height are swapped.
func (r Rotation) Landscape() bool {
	return r == RotationLandscape || r == RotationLandscapeFlipped
}

// Valid reports whether r is one of the four orientations.
func (r Rotation) Valid() bool {
	return r <= RotationLandscapeFlipped
}

// TouchSample is one poll of the touch controller. Touched is the raw
// contact signal; Point is only set when the controller reported a
// coordinate in this poll.
type TouchSample struct {
	Touched  bool
	Point    image.Point
	HasPoint bool
}
