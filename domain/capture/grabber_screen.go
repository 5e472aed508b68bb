package capture

import (
	"fmt"
	"image"

	"github.com/vova616/screenshot"
)

// ScreenGrabber captures a screen rectangle through the screenshot library.
// It sees whatever is on top of the window, unlike GDIGrabber.
type ScreenGrabber struct{}

func NewScreenGrabber() *ScreenGrabber { return &ScreenGrabber{} }

// Grab captures r clipped to the primary display.
func (ScreenGrabber) Grab(r image.Rectangle) (*Frame, image.Rectangle, error) {
	screen, err := screenshot.ScreenRect()
	if err != nil {
		return nil, r, fmt.Errorf("capture: screen rect: %w", err)
	}
	clip := r.Intersect(screen)
	if clip.Empty() {
		return nil, r, fmt.Errorf("capture: selection out of bounds sel=%v screen=%v", r, screen)
	}
	img, err := screenshot.CaptureRect(clip)
	if err != nil {
		return nil, clip, err
	}
	return NewFrameFromRGBA(img), clip, nil
}
