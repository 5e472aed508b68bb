package linedetect

import (
	"math"
	"math/rand/v2"
)

// RawSegment is a detected segment as two endpoints: x1, y1, x2, y2.
type RawSegment [4]int

const houghShift = 16

// HoughLinesP runs the progressive probabilistic Hough transform over a
// w*h binary edge map (non-zero = edge). Points are visited in a random
// order drawn from a fixed seed so equal inputs give equal output. Each
// visited point votes into the (theta, rho) accumulator; when a bin reaches
// threshold the line through it is walked in both directions, bridging gaps
// up to maxGap, and kept when either axis extent is at least minLen. Pixels
// of a walked line are removed from further voting.
func HoughLinesP(edges []uint8, w, h int, rho, theta float64, threshold, minLen, maxGap int) []RawSegment {
	if w <= 0 || h <= 0 || len(edges) < w*h {
		return nil
	}

	numAngle := int(math.RoundToEven(math.Pi / theta))
	numRho := int(math.RoundToEven(float64((w+h)*2+1) / rho))
	rhoOffset := (numRho - 1) / 2
	irho := 1 / rho

	trig := make([]float32, numAngle*2)
	for n := 0; n < numAngle; n++ {
		trig[n*2] = float32(math.Cos(float64(n)*theta) * irho)
		trig[n*2+1] = float32(math.Sin(float64(n)*theta) * irho)
	}
	rhoBin := func(n, x, y int) int {
		r := float32(x)*trig[n*2] + float32(y)*trig[n*2+1]
		return int(math.RoundToEven(float64(r))) + rhoOffset
	}

	accum := make([]int32, numAngle*numRho)
	mask := make([]uint8, w*h)
	points := make([][2]int, 0, 1024)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if edges[y*w+x] != 0 {
				mask[y*w+x] = 1
				points = append(points, [2]int{x, y})
			}
		}
	}

	rng := rand.New(rand.NewPCG(houghSeed, uint64(len(points))))
	var lines []RawSegment

	for count := len(points); count > 0; count-- {
		idx := rng.IntN(count)
		pt := points[idx]
		points[idx] = points[count-1]
		px, py := pt[0], pt[1]

		if mask[py*w+px] == 0 {
			continue
		}

		maxVal, maxN := int32(threshold-1), 0
		for n := 0; n < numAngle; n++ {
			r := rhoBin(n, px, py)
			a := &accum[n*numRho+r]
			*a++
			if maxVal < *a {
				maxVal = *a
				maxN = n
			}
		}
		if maxVal < int32(threshold) {
			continue
		}

		a := -trig[maxN*2+1]
		b := trig[maxN*2]
		x0, y0 := px, py
		var dx0, dy0 int
		xflag := math.Abs(float64(a)) > math.Abs(float64(b))
		if xflag {
			dx0 = 1
			if a <= 0 {
				dx0 = -1
			}
			dy0 = int(math.RoundToEven(float64(b) * (1 << houghShift) / math.Abs(float64(a))))
			y0 = (y0 << houghShift) + (1 << (houghShift - 1))
		} else {
			dy0 = 1
			if b <= 0 {
				dy0 = -1
			}
			dx0 = int(math.RoundToEven(float64(a) * (1 << houghShift) / math.Abs(float64(b))))
			x0 = (x0 << houghShift) + (1 << (houghShift - 1))
		}
		pixel := func(x, y int) (int, int) {
			if xflag {
				return x, y >> houghShift
			}
			return x >> houghShift, y
		}

		var ends [2][2]int
		for k := 0; k < 2; k++ {
			gap := 0
			dx, dy := dx0, dy0
			if k > 0 {
				dx, dy = -dx, -dy
			}
			for x, y := x0, y0; ; x, y = x+dx, y+dy {
				jx, iy := pixel(x, y)
				if jx < 0 || jx >= w || iy < 0 || iy >= h {
					break
				}
				if mask[iy*w+jx] != 0 {
					gap = 0
					ends[k] = [2]int{jx, iy}
				} else if gap++; gap > maxGap {
					break
				}
			}
		}

		good := absInt(ends[1][0]-ends[0][0]) >= minLen || absInt(ends[1][1]-ends[0][1]) >= minLen

		for k := 0; k < 2; k++ {
			dx, dy := dx0, dy0
			if k > 0 {
				dx, dy = -dx, -dy
			}
			for x, y := x0, y0; ; x, y = x+dx, y+dy {
				jx, iy := pixel(x, y)
				if mask[iy*w+jx] != 0 {
					if good {
						for n := 0; n < numAngle; n++ {
							accum[n*numRho+rhoBin(n, jx, iy)]--
						}
					}
					mask[iy*w+jx] = 0
				}
				if jx == ends[k][0] && iy == ends[k][1] {
					break
				}
			}
		}

		if good {
			lines = append(lines, RawSegment{ends[0][0], ends[0][1], ends[1][0], ends[1][1]})
		}
	}
	return lines
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
