package images

import "image"

// MinRegionSide is the smallest crop side, in pixels, worth analysing.
const MinRegionSide = 120

// PointerRegion returns the square of side size centred on pointer, clamped
// to frame. pointer is in frame coordinates. The returned point is the
// pointer relative to the region origin. ok is false when either side of the
// clamped region is shorter than MinRegionSide.
func PointerRegion(frame image.Rectangle, pointer image.Point, size int) (region image.Rectangle, local image.Point, ok bool) {
	half := size / 2
	// not image.Rect: a pointer outside the frame must not be re-canonicalised
	region = image.Rectangle{
		Min: image.Pt(max(frame.Min.X, pointer.X-half), max(frame.Min.Y, pointer.Y-half)),
		Max: image.Pt(min(frame.Max.X, pointer.X+half), min(frame.Max.Y, pointer.Y+half)),
	}
	// A side of exactly MinRegionSide is kept so that the smallest allowed
	// capture size still produces results when the pointer is centred.
	if region.Dx() < MinRegionSide || region.Dy() < MinRegionSide {
		return image.Rectangle{}, image.Point{}, false
	}
	return region, pointer.Sub(region.Min), true
}

// ToFrame converts a screen point to coordinates relative to the window
// client area whose top-left corner is origin.
func ToFrame(screen, origin image.Point) image.Point {
	return screen.Sub(origin)
}
