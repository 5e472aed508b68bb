package linedetect

import "math"

// Params carries the tunable line-transform settings. A fresh value is taken
// from the configuration snapshot on every frame.
type Params struct {
	HoughThreshold int // minimum accumulator votes for a segment
	MinLineLength  int // minimum segment extent in pixels
	MaxLineGap     int // largest gap bridged inside one segment
}

// DefaultParams returns the detection settings used when no config is loaded.
func DefaultParams() Params {
	return Params{HoughThreshold: 50, MinLineLength: 40, MaxLineGap: 10}
}

// normalized clamps each field to at least 1.
func (p Params) normalized() Params {
	if p.HoughThreshold < 1 {
		p.HoughThreshold = 1
	}
	if p.MinLineLength < 1 {
		p.MinLineLength = 1
	}
	if p.MaxLineGap < 1 {
		p.MaxLineGap = 1
	}
	return p
}

// Fixed pipeline constants.
const (
	brightnessFloor  = 142 // per-channel minimum for a line pixel
	maxChannelSpread = 29  // max-min channel value allowed (near grey)

	cannyLow  = 80
	cannyHigh = 150

	houghRho   = 1.0
	houghTheta = math.Pi / 540

	clusterAngle    = 5 * math.Pi / 180
	clusterDistance = 6.0

	degenerateLength = 1e-8

	// fixed seed so the transform is deterministic for a given edge map
	houghSeed = 0x9e3779b97f4a7c15
)
