package linedetect

import "github.com/anthonynsimon/bild/parallel"

// tan(22.5°) in 15-bit fixed point.
const tg22 = 13573

// Canny returns a binary edge map (255 = edge) for a w*h single-channel
// image. Gradients come from a 3x3 Sobel operator with replicated borders and
// are measured with the L1 norm. Pixels whose magnitude exceeds high seed
// edges; pixels above low that survive non-maximum suppression join an edge
// when 8-connected to a seed.
func Canny(gray []uint8, w, h, low, high int) []uint8 {
	edges := make([]uint8, w*h)
	if w <= 0 || h <= 0 || len(gray) < w*h {
		return edges
	}

	dx := make([]int32, w*h)
	dy := make([]int32, w*h)
	mag := make([]int32, w*h)
	sobel(gray, w, h, dx, dy, mag)

	const (
		none = iota
		weak
		strong
	)
	class := make([]uint8, w*h)
	at := func(x, y int) int32 {
		if x < 0 || y < 0 || x >= w || y >= h {
			return 0
		}
		return mag[y*w+x]
	}

	parallel.Line(h, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < w; x++ {
				i := y*w + x
				m := mag[i]
				if m <= int32(low) {
					continue
				}
				if !isLocalMax(m, dx[i], dy[i], x, y, at) {
					continue
				}
				if m > int32(high) {
					class[i] = strong
				} else {
					class[i] = weak
				}
			}
		}
	})

	// hysteresis: grow every strong pixel through weak 8-neighbours
	stack := make([]int, 0, 256)
	for i, c := range class {
		if c != strong || edges[i] != 0 {
			continue
		}
		edges[i] = 255
		stack = append(stack[:0], i)
		for len(stack) > 0 {
			p := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			px, py := p%w, p/w
			for ny := py - 1; ny <= py+1; ny++ {
				if ny < 0 || ny >= h {
					continue
				}
				for nx := px - 1; nx <= px+1; nx++ {
					if nx < 0 || nx >= w {
						continue
					}
					n := ny*w + nx
					if edges[n] == 0 && class[n] != none {
						edges[n] = 255
						stack = append(stack, n)
					}
				}
			}
		}
	}
	return edges
}

// isLocalMax performs the non-maximum suppression test along the quantised
// gradient direction.
func isLocalMax(m, gx, gy int32, x, y int, at func(x, y int) int32) bool {
	ax, ay := int64(abs32(gx)), int64(abs32(gy))
	ty := ay << 15
	tg22x := ax * tg22
	if ty < tg22x {
		return m > at(x-1, y) && m >= at(x+1, y)
	}
	tg67x := tg22x + (ax << 16)
	if ty > tg67x {
		return m > at(x, y-1) && m >= at(x, y+1)
	}
	s := 1
	if (gx ^ gy) < 0 {
		s = -1
	}
	return m > at(x-s, y-1) && m > at(x+s, y+1)
}

func sobel(gray []uint8, w, h int, dx, dy, mag []int32) {
	clamp := func(v, hi int) int {
		if v < 0 {
			return 0
		}
		if v > hi {
			return hi
		}
		return v
	}
	parallel.Line(h, func(start, end int) {
		for y := start; y < end; y++ {
			up := clamp(y-1, h-1) * w
			mid := y * w
			down := clamp(y+1, h-1) * w
			for x := 0; x < w; x++ {
				l := clamp(x-1, w-1)
				r := clamp(x+1, w-1)
				tl, tc, tr := int32(gray[up+l]), int32(gray[up+x]), int32(gray[up+r])
				ml, mr := int32(gray[mid+l]), int32(gray[mid+r])
				bl, bc, br := int32(gray[down+l]), int32(gray[down+x]), int32(gray[down+r])

				gx := (tr + 2*mr + br) - (tl + 2*ml + bl)
				gy := (bl + 2*bc + br) - (tl + 2*tc + tr)
				i := mid + x
				dx[i] = gx
				dy[i] = gy
				mag[i] = abs32(gx) + abs32(gy)
			}
		}
	})
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
