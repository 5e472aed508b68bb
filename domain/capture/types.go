package capture

import (
	"errors"
	"image"
	"time"
)

var (
	// ErrCaptureFailed wraps the error that stopped the capture loop.
	ErrCaptureFailed = errors.New("capture failed")
	// ErrStopped is returned by WaitFirst when the source stops before any
	// frame was captured.
	ErrStopped = errors.New("capture stopped")
	// ErrAlreadyStarted is returned by a second Start.
	ErrAlreadyStarted = errors.New("capture already started")
	// ErrEmptyClientArea is returned when the window has no visible client area.
	ErrEmptyClientArea = errors.New("empty client area")
)

// WindowRect is the client area of the captured window in screen coordinates.
type WindowRect struct {
	Left, Top, Width, Height int
}

// RectFrom converts a screen rectangle.
func RectFrom(r image.Rectangle) WindowRect {
	return WindowRect{Left: r.Min.X, Top: r.Min.Y, Width: r.Dx(), Height: r.Dy()}
}

// Rectangle returns the area as an image.Rectangle in screen coordinates.
func (w WindowRect) Rectangle() image.Rectangle {
	return image.Rect(w.Left, w.Top, w.Left+w.Width, w.Top+w.Height)
}

// Snapshot pairs a frame with the window geometry measured in the same
// capture cycle.
type Snapshot struct {
	Frame      *Frame
	Rect       WindowRect
	Sequence   uint64
	CapturedAt time.Time
}

// State is the lifecycle of a Source.
type State int32

const (
	StateCreated State = iota
	StateCapturing
	StateStopped
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateCapturing:
		return "capturing"
	case StateStopped:
		return "stopped"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Window is the capture target as seen by the loop.
type Window interface {
	Iconic() bool
	Restore() error
	ClientRect() (image.Rectangle, error)
}

// Grabber copies the screen area r into a new Frame. It returns the area
// actually captured, which may be r clipped to the display.
type Grabber interface {
	Grab(r image.Rectangle) (*Frame, image.Rectangle, error)
}
