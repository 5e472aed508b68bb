//go:build !windows

package window

import "image"

// Window is a resolved top-level window. Non-Windows builds cannot resolve one.
type Window struct {
	handle Handle
	title  string
}

func Find(title string) (*Window, error) { return nil, ErrUnsupported }

func (w *Window) Handle() Handle { return w.handle }
func (w *Window) Title() string  { return w.title }
func (w *Window) Iconic() bool   { return false }
func (w *Window) Restore() error { return ErrUnsupported }

func (w *Window) ClientRect() (image.Rectangle, error) {
	return image.Rectangle{}, ErrUnsupported
}

func CursorPos() (image.Point, error) { return image.Point{}, ErrUnsupported }

func KeyDown(vk int) bool { return false }

func ListWindows() ([]string, error) { return nil, ErrUnsupported }
