package linedetect

import "math"

// Vector is a direction in image coordinates (y grows downward).
// The zero value is the "no direction found" sentinel.
type Vector struct {
	X, Y float64
}

// IsZero reports whether v is the no-direction sentinel.
func (v Vector) IsZero() bool { return v.X == 0 && v.Y == 0 }

// Len returns the magnitude. Averaged cluster directions are not
// renormalised, so values below 1 indicate angular spread.
func (v Vector) Len() float64 { return math.Hypot(v.X, v.Y) }

// Angle returns atan2(Y, X) in radians.
func (v Vector) Angle() float64 { return math.Atan2(v.Y, v.X) }

// Degrees returns Angle in degrees.
func (v Vector) Degrees() float64 { return v.Angle() * 180 / math.Pi }
