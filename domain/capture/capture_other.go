//go:build !windows

package capture

import (
	"errors"
	"image"

	"github.com/soocke/pixel-line-go/domain/window"
)

// GDIGrabber is only available on Windows.
type GDIGrabber struct{}

func NewGDIGrabber(window.Handle) *GDIGrabber { return &GDIGrabber{} }

func (g *GDIGrabber) Grab(r image.Rectangle) (*Frame, image.Rectangle, error) {
	return nil, r, errors.New("capture: gdi backend requires windows")
}
