//go:build windows

package capture

// Window client-area capture using per-frame GDI allocations.
// Each Grab creates a temporary DIB, BitBlt's the window's client DC into it,
// converts BGRX->RGB into a heap-owned Frame, and frees GDI resources.

import (
	"fmt"
	"image"
	"syscall"
	"unsafe"

	"github.com/soocke/pixel-line-go/domain/window"
)

// Win32 constants
const (
	srccopy      = 0x00CC0020
	dibRGBColors = 0
	biRgb        = 0
)

// Win32 DLL procs (lazy loaded)
var (
	user32                 = syscall.NewLazyDLL("user32.dll")
	gdi32                  = syscall.NewLazyDLL("gdi32.dll")
	kernel32               = syscall.NewLazyDLL("kernel32.dll")
	procGetDC              = user32.NewProc("GetDC")
	procReleaseDC          = user32.NewProc("ReleaseDC")
	procCreateCompatibleDC = gdi32.NewProc("CreateCompatibleDC")
	procDeleteDC           = gdi32.NewProc("DeleteDC")
	procSelectObject       = gdi32.NewProc("SelectObject")
	procBitBlt             = gdi32.NewProc("BitBlt")
	procCreateDIBSection   = gdi32.NewProc("CreateDIBSection")
	procDeleteObject       = gdi32.NewProc("DeleteObject")
	procGetLastError       = kernel32.NewProc("GetLastError")
)

// BITMAPINFO structures (Win32 layout).
type bitmapInfoHeader struct {
	BiSize          uint32
	BiWidth         int32
	BiHeight        int32
	BiPlanes        uint16
	BiBitCount      uint16
	BiCompression   uint32
	BiSizeImage     uint32
	BiXPelsPerMeter int32
	BiYPelsPerMeter int32
	BiClrUsed       uint32
	BiClrImportant  uint32
}

type bitmapInfo struct {
	Header bitmapInfoHeader
	_      [4]byte // one RGBQUAD placeholder (unused for 32-bit)
}

// GDIGrabber reads pixels straight from a window's client device context.
type GDIGrabber struct {
	hwnd uintptr
}

// NewGDIGrabber returns a grabber bound to the window h.
func NewGDIGrabber(h window.Handle) *GDIGrabber {
	return &GDIGrabber{hwnd: uintptr(h)}
}

// Grab copies the client area. r supplies the size in screen coordinates;
// the blit always starts at the client origin.
func (g *GDIGrabber) Grab(r image.Rectangle) (*Frame, image.Rectangle, error) {
	w, h := r.Dx(), r.Dy()
	if w <= 0 || h <= 0 {
		return nil, r, fmt.Errorf("capture: invalid rect %v", r)
	}

	clientDC, _, _ := procGetDC.Call(g.hwnd)
	if clientDC == 0 {
		return nil, r, fmt.Errorf("capture: GetDC failed winerr=%d", getLastError())
	}
	defer procReleaseDC.Call(g.hwnd, clientDC)

	memDC, _, _ := procCreateCompatibleDC.Call(clientDC)
	if memDC == 0 {
		return nil, r, fmt.Errorf("capture: CreateCompatibleDC failed winerr=%d", getLastError())
	}
	defer procDeleteDC.Call(memDC)

	// Top-down 32-bit DIB.
	var bi bitmapInfo
	bi.Header.BiSize = uint32(unsafe.Sizeof(bi.Header))
	bi.Header.BiWidth = int32(w)
	bi.Header.BiHeight = -int32(h)
	bi.Header.BiPlanes = 1
	bi.Header.BiBitCount = 32
	bi.Header.BiCompression = biRgb
	bi.Header.BiSizeImage = uint32(w * h * 4)

	var bitsPtr unsafe.Pointer
	bmp, _, _ := procCreateDIBSection.Call(memDC, uintptr(unsafe.Pointer(&bi)), dibRGBColors, uintptr(unsafe.Pointer(&bitsPtr)), 0, 0)
	if bmp == 0 {
		return nil, r, fmt.Errorf("capture: CreateDIBSection failed winerr=%d", getLastError())
	}
	defer procDeleteObject.Call(bmp)

	prev, _, _ := procSelectObject.Call(memDC, bmp)
	if prev == 0 || prev == ^uintptr(0) { // failure or GDI_ERROR
		return nil, r, fmt.Errorf("capture: SelectObject failed winerr=%d", getLastError())
	}
	defer procSelectObject.Call(memDC, prev)

	ok, _, _ := procBitBlt.Call(memDC, 0, 0, uintptr(w), uintptr(h), clientDC, 0, 0, srccopy)
	if ok == 0 {
		return nil, r, fmt.Errorf("capture: BitBlt failed w=%d h=%d winerr=%d", w, h, getLastError())
	}

	pixLen := w * h * 4
	src := unsafe.Slice((*byte)(bitsPtr), pixLen)
	return NewFrameFromBGRA(src, w*4, w, h), r, nil
}

func getLastError() uint32 {
	v, _, _ := procGetLastError.Call()
	return uint32(v)
}
