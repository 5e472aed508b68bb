package linedetect

import (
	"image"
	"math"
)

// Segment is a canonicalised line segment measured against a pointer.
// Canonical form has a non-negative x extent, and a non-negative y extent when
// the segment is vertical.
type Segment struct {
	X1, Y1, X2, Y2 float64
	Unit           Vector  // unit direction from endpoint 1 to endpoint 2
	MidX, MidY     float64 // midpoint
	Angle          float64 // atan2 of Unit, radians in (-π/2, π/2]
	Distance       float64 // perpendicular distance from the pointer to the infinite line
}

// NewSegment canonicalises raw endpoints and measures them against pointer.
// It reports false for degenerate segments shorter than 1e-8.
func NewSegment(raw RawSegment, pointer image.Point) (Segment, bool) {
	x1, y1 := float64(raw[0]), float64(raw[1])
	x2, y2 := float64(raw[2]), float64(raw[3])
	dx, dy := x2-x1, y2-y1
	if dx < 0 || (dx == 0 && dy < 0) {
		x1, y1, x2, y2 = x2, y2, x1, y1
		dx, dy = -dx, -dy
	}
	length := math.Hypot(dx, dy)
	if length < degenerateLength {
		return Segment{}, false
	}

	vx, vy := dx/length, dy/length
	mx, my := (x1+x2)/2, (y1+y2)/2
	px, py := float64(pointer.X), float64(pointer.Y)

	return Segment{
		X1: x1, Y1: y1, X2: x2, Y2: y2,
		Unit:     Vector{X: vx, Y: vy},
		MidX:     mx,
		MidY:     my,
		Angle:    math.Atan2(vy, vx),
		Distance: math.Abs(-vy*(px-mx) + vx*(py-my)),
	}, true
}

// Segments converts raw transform output, dropping degenerate entries.
func Segments(raw []RawSegment, pointer image.Point) []Segment {
	out := make([]Segment, 0, len(raw))
	for _, r := range raw {
		if s, ok := NewSegment(r, pointer); ok {
			out = append(out, s)
		}
	}
	return out
}
