package linedetect

import (
	"image"

	"github.com/anthonynsimon/bild/parallel"
)

// maskOn is the value written for pixels that pass the line mask.
const maskOn = 255

// LineMask marks bright, achromatic pixels of img with 255 and every other
// pixel with 0. A pixel passes when all channels are within [142,255] and the
// spread between its largest and smallest channel is at most 29.
// The returned mask has origin (0,0).
func LineMask(img *image.NRGBA) *image.Gray {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	mask := image.NewGray(image.Rect(0, 0, w, h))
	if w == 0 || h == 0 {
		return mask
	}
	parallel.Line(h, func(start, end int) {
		for y := start; y < end; y++ {
			src := img.Pix[img.PixOffset(b.Min.X, b.Min.Y+y):]
			dst := mask.Pix[y*mask.Stride : y*mask.Stride+w]
			for x := range dst {
				i := x * 4
				if isLinePixel(src[i], src[i+1], src[i+2]) {
					dst[x] = maskOn
				}
			}
		}
	})
	return mask
}

func isLinePixel(r, g, b uint8) bool {
	lo := min(r, g, b)
	hi := max(r, g, b)
	return lo >= brightnessFloor && hi-lo <= maxChannelSpread
}

// applyMask copies the pixels of img selected by mask into a new opaque
// image; unselected pixels become black.
func applyMask(img *image.NRGBA, mask *image.Gray) *image.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	parallel.Line(h, func(start, end int) {
		for y := start; y < end; y++ {
			src := img.Pix[img.PixOffset(b.Min.X, b.Min.Y+y):]
			dst := out.Pix[y*out.Stride : y*out.Stride+w*4]
			m := mask.Pix[y*mask.Stride : y*mask.Stride+w]
			for x := range m {
				i := x * 4
				if m[x] == maskOn {
					dst[i], dst[i+1], dst[i+2] = src[i], src[i+1], src[i+2]
				}
				dst[i+3] = 0xFF
			}
		}
	})
	return out
}
