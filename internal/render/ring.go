package render

import (
	"image"
	"math"
	"sort"
)

// ringPixel is one pixel of the progress ring, tagged with the angular step
// it belongs to. Steps run clockwise from twelve o'clock.
type ringPixel struct {
	off  image.Point
	step int
}

// ring precomputes the annulus ((r-t)^2, r^2] around the origin. Erasing by
// step touches every pixel exactly once, so no gaps or stray pixels are
// left whatever the sampling resolution.
type ring struct {
	radius    int
	thickness int
	steps     int
	pixels    []ringPixel // sorted by step
	index     []int       // index[s] is the first pixel of step s
}

func newRing(radius, thickness, steps int) *ring {
	if steps < 1 {
		steps = 1
	}
	if thickness < 1 {
		thickness = 1
	}
	r := &ring{radius: radius, thickness: thickness, steps: steps}
	inner := (radius - thickness) * (radius - thickness)
	outer := radius * radius

	for y := -radius; y <= radius; y++ {
		for x := -radius; x <= radius; x++ {
			d := x*x + y*y
			if d <= inner || d > outer {
				continue
			}
			angle := math.Atan2(float64(y), float64(x)) + math.Pi/2
			if angle < 0 {
				angle += 2 * math.Pi
			}
			step := int(angle / (2 * math.Pi) * float64(steps))
			if step >= steps {
				step = steps - 1
			}
			r.pixels = append(r.pixels, ringPixel{off: image.Pt(x, y), step: step})
		}
	}
	sort.SliceStable(r.pixels, func(i, j int) bool { return r.pixels[i].step < r.pixels[j].step })

	r.index = make([]int, steps+1)
	p := 0
	for s := 0; s <= steps; s++ {
		for p < len(r.pixels) && r.pixels[p].step < s {
			p++
		}
		r.index[s] = p
	}
	return r
}

// stepFor converts a progress fraction to the number of erased steps.
func (r *ring) stepFor(progress float64) int {
	if progress <= 0 {
		return 0
	}
	if progress >= 1 {
		return r.steps
	}
	return int(progress * float64(r.steps))
}

// span returns the pixels of steps [from, to).
func (r *ring) span(from, to int) []ringPixel {
	if from < 0 {
		from = 0
	}
	if to > r.steps {
		to = r.steps
	}
	if to <= from {
		return nil
	}
	return r.pixels[r.index[from]:r.index[to]]
}

// contains reports whether offset p is a ring pixel.
func (r *ring) contains(p image.Point) bool {
	d := p.X*p.X + p.Y*p.Y
	return d > (r.radius-r.thickness)*(r.radius-r.thickness) && d <= r.radius*r.radius
}
