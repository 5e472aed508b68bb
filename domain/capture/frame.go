package capture

import (
	"image"
	"image/color"
)

// Frame is an immutable RGB image, 3 bytes per pixel, origin (0,0).
// Frames are never written after construction so they can be shared between
// the capture loop and any number of readers.
type Frame struct {
	pix    []uint8
	width  int
	height int
}

// NewFrameFromBGRA converts a 32-bit BGRX buffer (as produced by GDI DIB
// sections) into a new Frame. The fourth byte of every pixel is ignored.
func NewFrameFromBGRA(src []byte, stride, w, h int) *Frame {
	f := &Frame{pix: make([]uint8, w*h*3), width: w, height: h}
	for y := 0; y < h; y++ {
		row := src[y*stride : y*stride+w*4]
		dst := f.pix[y*w*3 : (y+1)*w*3]
		for x := 0; x < w; x++ {
			dst[x*3+0] = row[x*4+2]
			dst[x*3+1] = row[x*4+1]
			dst[x*3+2] = row[x*4+0]
		}
	}
	return f
}

// NewFrameFromRGBA copies img into a new Frame, dropping alpha.
func NewFrameFromRGBA(img *image.RGBA) *Frame {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	f := &Frame{pix: make([]uint8, w*h*3), width: w, height: h}
	for y := 0; y < h; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, b.Min.Y+y):]
		dst := f.pix[y*w*3 : (y+1)*w*3]
		for x := 0; x < w; x++ {
			dst[x*3+0] = row[x*4+0]
			dst[x*3+1] = row[x*4+1]
			dst[x*3+2] = row[x*4+2]
		}
	}
	return f
}

func (f *Frame) Width() int  { return f.width }
func (f *Frame) Height() int { return f.height }

func (f *Frame) ColorModel() color.Model { return color.RGBAModel }

func (f *Frame) Bounds() image.Rectangle { return image.Rect(0, 0, f.width, f.height) }

func (f *Frame) At(x, y int) color.Color {
	if x < 0 || y < 0 || x >= f.width || y >= f.height {
		return color.RGBA{}
	}
	r, g, b := f.RGB(x, y)
	return color.RGBA{R: r, G: g, B: b, A: 0xFF}
}

// RGB returns the channels at (x, y). The point must lie inside the frame.
func (f *Frame) RGB(x, y int) (r, g, b uint8) {
	i := (y*f.width + x) * 3
	return f.pix[i], f.pix[i+1], f.pix[i+2]
}

// Crop copies the part of r inside the frame into a new opaque image with
// origin (0,0).
func (f *Frame) Crop(r image.Rectangle) *image.NRGBA {
	r = r.Intersect(f.Bounds())
	w, h := r.Dx(), r.Dy()
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		src := f.pix[((r.Min.Y+y)*f.width+r.Min.X)*3:]
		dst := out.Pix[y*out.Stride : y*out.Stride+w*4]
		for x := 0; x < w; x++ {
			dst[x*4+0] = src[x*3+0]
			dst[x*4+1] = src[x*3+1]
			dst[x*4+2] = src[x*3+2]
			dst[x*4+3] = 0xFF
		}
	}
	return out
}
