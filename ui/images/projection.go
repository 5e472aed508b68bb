package images

import (
	"image"
	"math"
)

// ExtendToBounds returns the two points where the line through center with
// direction (vx, vy) leaves bounds. A zero direction yields the bounds'
// diagonal.
func ExtendToBounds(vx, vy float64, center image.Point, bounds image.Rectangle) (image.Point, image.Point) {
	const eps = 1e-5
	cx, cy := float64(center.X), float64(center.Y)
	var ts []float64
	if math.Abs(vx) > eps {
		ts = append(ts, (float64(bounds.Min.X)-cx)/vx, (float64(bounds.Max.X)-cx)/vx)
	}
	if math.Abs(vy) > eps {
		ts = append(ts, (float64(bounds.Min.Y)-cy)/vy, (float64(bounds.Max.Y)-cy)/vy)
	}
	if len(ts) == 0 {
		return bounds.Min, bounds.Max
	}
	tMin, tMax := ts[0], ts[0]
	for _, t := range ts[1:] {
		tMin = min(tMin, t)
		tMax = max(tMax, t)
	}
	start := image.Pt(int(cx+vx*tMin), int(cy+vy*tMin))
	end := image.Pt(int(cx+vx*tMax), int(cy+vy*tMax))
	return start, end
}
