package imaging

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrayscale_BT601(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 1))
	img.SetRGBA(0, 0, color.RGBA{R: 255, A: 255})
	img.SetRGBA(1, 0, color.RGBA{G: 255, A: 255})
	img.SetRGBA(2, 0, color.RGBA{B: 255, A: 255})
	img.SetRGBA(3, 0, color.RGBA{R: 255, G: 255, B: 255, A: 255})

	g := grayscale(img)

	assert.Equal(t, []uint8{76, 150, 29, 255}, g.pix)
}

func TestReflect101(t *testing.T) {
	tests := []struct {
		i, n, want int
	}{
		{-1, 5, 1},
		{-2, 5, 2},
		{0, 5, 0},
		{4, 5, 4},
		{5, 5, 3},
		{6, 5, 2},
		{-1, 1, 0},
		{1, 1, 0},
		{-1, 2, 1},
		{2, 2, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, reflect101(tt.i, tt.n), "reflect101(%d, %d)", tt.i, tt.n)
	}
}

func TestLaplacianVariance(t *testing.T) {
	g := plane{w: 6, h: 2, pix: []uint8{
		96, 96, 96, 35, 35, 35,
		96, 96, 96, 35, 35, 35,
	}}
	// Columns 0 and 5 reflect onto columns 1 and 4 and therefore see no edge.
	// Responses per row: 0, 0, -61, 61, 0, 0 → variance 2·61²/6.
	assert.InDelta(t, 2*61.0*61.0/6, laplacianVariance(g), 1e-9)

	flat := plane{w: 3, h: 3, pix: []uint8{7, 7, 7, 7, 7, 7, 7, 7, 7}}
	assert.Zero(t, laplacianVariance(flat))

	assert.Zero(t, laplacianVariance(plane{}))
}

func TestHSV8(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b int
		h, s, v int
	}{
		{"black", 0, 0, 0, 0, 0, 0},
		{"white", 255, 255, 255, 0, 0, 255},
		{"red", 255, 0, 0, 0, 255, 255},
		{"green", 0, 255, 0, 60, 255, 255},
		{"blue", 0, 0, 255, 120, 255, 255},
		{"forest green", 34, 139, 34, 60, 193, 139},
		{"hue just below 360 wraps to 0", 255, 0, 1, 0, 255, 255},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, s, v := hsv8(tt.r, tt.g, tt.b)
			assert.Equal(t, tt.h, h)
			assert.Equal(t, tt.s, s)
			assert.Equal(t, tt.v, v)
		})
	}
}

func TestGreenRatio(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 1))
	img.SetRGBA(0, 0, color.RGBA{R: 34, G: 139, B: 34, A: 255}) // in band
	img.SetRGBA(1, 0, color.RGBA{R: 0, G: 30, B: 0, A: 255})    // too dark
	img.SetRGBA(2, 0, color.RGBA{R: 200, G: 30, B: 30, A: 255}) // red
	img.SetRGBA(3, 0, color.RGBA{R: 120, G: 130, B: 120, A: 255})

	assert.InDelta(t, 0.25, greenRatio(img), 1e-9)
}

func TestCannyEdgeRatio(t *testing.T) {
	// Three-pixel bands: non-maximum suppression keeps one pixel per band
	// boundary, two of every six columns, minus the flat last column.
	w, h := 60, 10
	g := plane{w: w, h: h, pix: make([]uint8, w*h)}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := uint8(96)
			if (x/3)%2 == 1 {
				v = 35
			}
			g.pix[y*w+x] = v
		}
	}

	ratio := cannyEdgeRatio(g, cannyLow, cannyHigh)
	require.Greater(t, ratio, MinEdgeDensity)
	assert.InDelta(t, 2.0/6.0, ratio, 0.02)

	flat := plane{w: 5, h: 5, pix: make([]uint8, 25)}
	assert.Zero(t, cannyEdgeRatio(flat, cannyLow, cannyHigh))
}

func TestToRGBA_ReanchorsSubImage(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 4))
	src.SetRGBA(2, 2, color.RGBA{R: 9, A: 255})
	sub := src.SubImage(image.Rect(2, 2, 4, 4))

	out := ToRGBA(sub)

	assert.Equal(t, image.Rect(0, 0, 2, 2), out.Bounds())
	assert.Equal(t, uint8(9), out.Pix[0])
}
