package linedetect

import (
	"image"
	"log/slog"

	"github.com/disintegration/imaging"
)

// Analysis holds every intermediate result of one detection pass.
type Analysis struct {
	Segments  []Segment
	Clusters  []Cluster
	Selected  int // index into Clusters, -1 when nothing was found
	Direction Vector
}

// Detector estimates the direction of the bright line nearest to a pointer.
// It keeps no state between calls and is safe for concurrent use.
type Detector struct {
	logger *slog.Logger
}

// NewDetector returns a detector. A nil logger disables logging.
func NewDetector(logger *slog.Logger) *Detector {
	return &Detector{logger: logger}
}

// Detect returns the averaged direction of the line cluster closest to
// pointer, or the zero vector when none is found. pointer is relative to the
// image origin. Internal failures are logged and yield the zero vector.
func (d *Detector) Detect(img image.Image, pointer image.Point, p Params) (v Vector) {
	defer func() {
		if r := recover(); r != nil {
			if d != nil && d.logger != nil {
				d.logger.Error("detect.panic", "recovered", r)
			}
			v = Vector{}
		}
	}()
	return d.Analyze(img, pointer, p).Direction
}

// Analyze runs the full pipeline and keeps the intermediate results.
func (d *Detector) Analyze(img image.Image, pointer image.Point, p Params) Analysis {
	out := Analysis{Selected: -1}
	if img == nil || img.Bounds().Empty() {
		return out
	}
	p = p.normalized()

	src := imaging.Clone(img)
	w, h := src.Bounds().Dx(), src.Bounds().Dy()

	masked := applyMask(src, LineMask(src))
	gray := imaging.Grayscale(masked)
	intensity := make([]uint8, w*h)
	for y := 0; y < h; y++ {
		row := gray.Pix[y*gray.Stride:]
		for x := 0; x < w; x++ {
			intensity[y*w+x] = row[x*4]
		}
	}

	edges := Canny(intensity, w, h, cannyLow, cannyHigh)
	raw := HoughLinesP(edges, w, h, houghRho, houghTheta, p.HoughThreshold, p.MinLineLength, p.MaxLineGap)

	out.Segments = Segments(raw, pointer)
	if len(out.Segments) == 0 {
		return out
	}
	out.Clusters = ClusterSegments(out.Segments)
	out.Selected = Nearest(out.Clusters)
	if out.Selected >= 0 {
		out.Direction = out.Clusters[out.Selected].Direction()
	}
	if d != nil && d.logger != nil {
		d.logger.Debug("detect.result",
			"segments", len(out.Segments),
			"clusters", len(out.Clusters),
			"selected", out.Selected,
			"dx", out.Direction.X,
			"dy", out.Direction.Y,
		)
	}
	return out
}

var defaultDetector = &Detector{}

// Detect runs a detector without logging.
func Detect(img image.Image, pointer image.Point, p Params) Vector {
	return defaultDetector.Detect(img, pointer, p)
}
