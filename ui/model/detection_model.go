package model

import (
	"image"
	"sync/atomic"
	"time"

	"github.com/soocke/pixel-line-go/domain/linedetect"
)

// Detection is the outcome of one frame loop iteration.
type Detection struct {
	Direction linedetect.Vector
	Pointer   image.Point     // screen coordinates
	Local     image.Point     // pointer relative to Crop
	Region    image.Rectangle // crop area in frame coordinates
	Crop      *image.NRGBA
	Sequence  uint64 // capture sequence the crop came from
	Elapsed   time.Duration
	At        time.Time
}

// Found reports whether a direction was detected.
func (d Detection) Found() bool { return !d.Direction.IsZero() }

// DetectionModel holds the most recent Detection. It is written by the frame
// loop goroutine and read on the UI tick. The zero value is usable.
type DetectionModel struct {
	latest atomic.Pointer[Detection]
}

func NewDetectionModel() *DetectionModel { return &DetectionModel{} }

// Render stores d as the latest detection.
func (m *DetectionModel) Render(d Detection) {
	if m == nil {
		return
	}
	m.latest.Store(&d)
}

// Latest returns the most recent detection, if any.
func (m *DetectionModel) Latest() (Detection, bool) {
	if m == nil {
		return Detection{}, false
	}
	d := m.latest.Load()
	if d == nil {
		return Detection{}, false
	}
	return *d, true
}

// Clear drops the stored detection.
func (m *DetectionModel) Clear() {
	if m == nil {
		return
	}
	m.latest.Store(nil)
}
