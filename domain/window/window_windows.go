//go:build windows

package window

import (
	"fmt"
	"image"
	"strings"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

const swRestore = 9

var (
	user32 = windows.NewLazySystemDLL("user32.dll")

	procFindWindowW         = user32.NewProc("FindWindowW")
	procEnumWindows         = user32.NewProc("EnumWindows")
	procGetWindowTextW      = user32.NewProc("GetWindowTextW")
	procIsWindowVisible     = user32.NewProc("IsWindowVisible")
	procIsIconic            = user32.NewProc("IsIconic")
	procShowWindow          = user32.NewProc("ShowWindow")
	procSetForegroundWindow = user32.NewProc("SetForegroundWindow")
	procBringWindowToTop    = user32.NewProc("BringWindowToTop")
	procGetClientRect       = user32.NewProc("GetClientRect")
	procClientToScreen      = user32.NewProc("ClientToScreen")
	procGetCursorPos        = user32.NewProc("GetCursorPos")
	procGetAsyncKeyState    = user32.NewProc("GetAsyncKeyState")
)

type point struct{ X, Y int32 }

type rect struct{ Left, Top, Right, Bottom int32 }

// Window is a resolved top-level window.
type Window struct {
	handle Handle
	title  string
}

// Find resolves the top-level window whose title is exactly title.
func Find(title string) (*Window, error) {
	p, err := windows.UTF16PtrFromString(title)
	if err != nil {
		return nil, fmt.Errorf("window title %q: %w", title, err)
	}
	hwnd, _, _ := procFindWindowW.Call(0, uintptr(unsafe.Pointer(p)))
	if hwnd == 0 {
		return nil, fmt.Errorf("%w: %q", ErrWindowNotFound, title)
	}
	return &Window{handle: Handle(hwnd), title: title}, nil
}

func (w *Window) Handle() Handle { return w.handle }
func (w *Window) Title() string  { return w.title }

// Iconic reports whether the window is minimised.
func (w *Window) Iconic() bool {
	r, _, _ := procIsIconic.Call(uintptr(w.handle))
	return r != 0
}

// Restore un-minimises the window and brings it to the foreground.
func (w *Window) Restore() error {
	_, _, _ = procShowWindow.Call(uintptr(w.handle), swRestore)
	_, _, _ = procSetForegroundWindow.Call(uintptr(w.handle))
	if r, _, callErr := procBringWindowToTop.Call(uintptr(w.handle)); r == 0 {
		return fmt.Errorf("BringWindowToTop: %w", callErr)
	}
	return nil
}

// ClientRect returns the client area in screen coordinates.
func (w *Window) ClientRect() (image.Rectangle, error) {
	var rc rect
	if r, _, callErr := procGetClientRect.Call(uintptr(w.handle), uintptr(unsafe.Pointer(&rc))); r == 0 {
		return image.Rectangle{}, fmt.Errorf("GetClientRect: %w", callErr)
	}
	tl := point{rc.Left, rc.Top}
	br := point{rc.Right, rc.Bottom}
	if r, _, callErr := procClientToScreen.Call(uintptr(w.handle), uintptr(unsafe.Pointer(&tl))); r == 0 {
		return image.Rectangle{}, fmt.Errorf("ClientToScreen: %w", callErr)
	}
	if r, _, callErr := procClientToScreen.Call(uintptr(w.handle), uintptr(unsafe.Pointer(&br))); r == 0 {
		return image.Rectangle{}, fmt.Errorf("ClientToScreen: %w", callErr)
	}
	return image.Rect(int(tl.X), int(tl.Y), int(br.X), int(br.Y)), nil
}

// CursorPos returns the pointer position in screen coordinates.
func CursorPos() (image.Point, error) {
	var pt point
	if r, _, callErr := procGetCursorPos.Call(uintptr(unsafe.Pointer(&pt))); r == 0 {
		return image.Point{}, fmt.Errorf("GetCursorPos: %w", callErr)
	}
	return image.Pt(int(pt.X), int(pt.Y)), nil
}

// KeyDown reports whether the virtual key vk is currently held.
func KeyDown(vk int) bool {
	r, _, _ := procGetAsyncKeyState.Call(uintptr(vk))
	return uint16(r)&0x8000 != 0
}

// ListWindows returns titles of visible top-level windows.
// Empty titles are skipped.
func ListWindows() ([]string, error) {
	var titles []string
	cb := syscall.NewCallback(func(hwnd uintptr, _ uintptr) uintptr {
		if vis, _, _ := procIsWindowVisible.Call(hwnd); vis == 0 {
			return 1
		}
		buf := make([]uint16, 256)
		n, _, _ := procGetWindowTextW.Call(hwnd, uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
		if n == 0 {
			return 1
		}
		if title := strings.TrimSpace(windows.UTF16ToString(buf[:n])); title != "" {
			titles = append(titles, title)
		}
		return 1
	})
	if r, _, callErr := procEnumWindows.Call(cb, 0); r == 0 {
		return nil, fmt.Errorf("EnumWindows: %w", callErr)
	}
	return titles, nil
}
