package imaging

import (
	"image"
	"math"
)

// plane is a single-channel 8-bit raster in row-major order.
type plane struct {
	w, h int
	pix  []uint8
}

func (p plane) at(x, y int) int {
	return int(p.pix[y*p.w+x])
}

// grayscale converts img to 8-bit luma with BT.601 weights, using the same
// 14-bit fixed-point rounding as common vision libraries.
func grayscale(img *image.RGBA) plane {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	out := plane{w: w, h: h, pix: make([]uint8, w*h)}
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for x := 0; x < w; x++ {
			r, g, b := int(row[x*4]), int(row[x*4+1]), int(row[x*4+2])
			out.pix[y*w+x] = uint8((r*4899 + g*9617 + b*1868 + 8192) >> 14)
		}
	}
	return out
}

// reflect101 maps an out-of-range index into [0,n) mirroring around the
// edge pixel without repeating it (gfedcb|abcdefgh|gfedcba).
func reflect101(i, n int) int {
	if n == 1 {
		return 0
	}
	for i < 0 || i >= n {
		if i < 0 {
			i = -i
		}
		if i >= n {
			i = 2*n - 2 - i
		}
	}
	return i
}

// replicate clamps i into [0,n).
func replicate(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// laplacianVariance convolves g with the 4-neighbour Laplacian kernel
// [0 1 0; 1 -4 1; 0 1 0] using reflect-101 borders and returns the
// population variance of the response.
func laplacianVariance(g plane) float64 {
	n := g.w * g.h
	if n == 0 {
		return 0
	}

	var sum, sumSq float64
	for y := 0; y < g.h; y++ {
		up, down := reflect101(y-1, g.h), reflect101(y+1, g.h)
		for x := 0; x < g.w; x++ {
			left, right := reflect101(x-1, g.w), reflect101(x+1, g.w)
			v := float64(g.at(x, up) + g.at(x, down) + g.at(left, y) + g.at(right, y) - 4*g.at(x, y))
			sum += v
			sumSq += v * v
		}
	}

	mean := sum / float64(n)
	variance := sumSq/float64(n) - mean*mean
	if variance < 0 {
		return 0
	}
	return variance
}

// hsv8 converts one RGB pixel to 8-bit HSV with hue halved into [0,180).
func hsv8(r, g, b int) (h, s, v int) {
	v = max(r, g, b)
	minC := min(r, g, b)
	diff := v - minC

	if v > 0 {
		s = int(math.Round(float64(diff) * 255 / float64(v)))
	}
	if diff == 0 {
		return 0, s, v
	}

	var hue float64
	switch v {
	case r:
		hue = 60 * float64(g-b) / float64(diff)
	case g:
		hue = 120 + 60*float64(b-r)/float64(diff)
	default:
		hue = 240 + 60*float64(r-g)/float64(diff)
	}
	if hue < 0 {
		hue += 360
	}

	h = int(math.Round(hue / 2))
	if h >= 180 {
		h -= 180
	}
	return h, s, v
}

// greenRatio returns the fraction of pixels inside the leaf-green HSV band.
func greenRatio(img *image.RGBA) float64 {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	if w*h == 0 {
		return 0
	}

	green := 0
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for x := 0; x < w; x++ {
			hh, ss, vv := hsv8(int(row[x*4]), int(row[x*4+1]), int(row[x*4+2]))
			if hh >= greenHueMin && hh <= greenHueMax &&
				ss >= greenSatMin && vv >= greenValMin {
				green++
			}
		}
	}
	return float64(green) / float64(w*h)
}

// cannyEdgeRatio runs Canny edge detection on g (3x3 Sobel, L1 gradient
// magnitude, non-maximum suppression, double-threshold hysteresis) and
// returns the fraction of edge pixels.
func cannyEdgeRatio(g plane, low, high int) float64 {
	w, h := g.w, g.h
	if w*h == 0 {
		return 0
	}

	dx := make([]int, w*h)
	dy := make([]int, w*h)
	// mag has a one-pixel zero border so neighbour lookups never go out of
	// range.
	mw := w + 2
	mag := make([]int, mw*(h+2))

	for y := 0; y < h; y++ {
		y0, y2 := replicate(y-1, h), replicate(y+1, h)
		for x := 0; x < w; x++ {
			x0, x2 := replicate(x-1, w), replicate(x+1, w)
			gx := (g.at(x2, y0) + 2*g.at(x2, y) + g.at(x2, y2)) -
				(g.at(x0, y0) + 2*g.at(x0, y) + g.at(x0, y2))
			gy := (g.at(x0, y2) + 2*g.at(x, y2) + g.at(x2, y2)) -
				(g.at(x0, y0) + 2*g.at(x, y0) + g.at(x2, y0))
			dx[y*w+x], dy[y*w+x] = gx, gy
			mag[(y+1)*mw+x+1] = abs(gx) + abs(gy)
		}
	}

	const (
		notEdge = iota
		weak
		strong
	)
	state := make([]uint8, w*h)
	stack := make([]int, 0, w)

	// tan(22.5°) in Q15.
	const tg22 = 13573

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m := mag[(y+1)*mw+x+1]
			if m <= low {
				continue
			}

			ax, ay := abs(dx[y*w+x]), abs(dy[y*w+x])<<15
			tg22x := ax * tg22
			at := func(ox, oy int) int { return mag[(y+1+oy)*mw+x+1+ox] }

			var isMax bool
			switch {
			case ay < tg22x:
				isMax = m > at(-1, 0) && m >= at(1, 0)
			case ay > tg22x+(ax<<16):
				isMax = m > at(0, -1) && m >= at(0, 1)
			default:
				s := 1
				if (dx[y*w+x] ^ dy[y*w+x]) < 0 {
					s = -1
				}
				isMax = m > at(-s, -1) && m > at(s, 1)
			}
			if !isMax {
				continue
			}

			if m > high {
				state[y*w+x] = strong
				stack = append(stack, y*w+x)
			} else {
				state[y*w+x] = weak
			}
		}
	}

	edges := len(stack)
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		cx, cy := i%w, i/w
		for oy := -1; oy <= 1; oy++ {
			for ox := -1; ox <= 1; ox++ {
				nx, ny := cx+ox, cy+oy
				if nx < 0 || ny < 0 || nx >= w || ny >= h {
					continue
				}
				j := ny*w + nx
				if state[j] == weak {
					state[j] = strong
					edges++
					stack = append(stack, j)
				}
			}
		}
	}

	return float64(edges) / float64(w*h)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
