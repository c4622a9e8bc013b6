package imaging

import (
	"bytes"
	"context"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/MKhiriev/agricheck/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── helpers ───────────────────────────────────────────────────────────────────

// stripes returns a w×h image of vertical bands of the given width,
// alternating between a and b.
func stripes(w, h, band int, a, b color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := a
			if (x/band)%2 == 1 {
				c = b
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// withPNGSize rewrites the IHDR dimensions of a PNG and fixes its CRC. The
// pixel data is left as is, so only the header describes the new size.
func withPNGSize(t *testing.T, data []byte, w, h uint32) []byte {
	t.Helper()
	require.Equal(t, "IHDR", string(data[12:16]))
	out := bytes.Clone(data)
	binary.BigEndian.PutUint32(out[16:20], w)
	binary.BigEndian.PutUint32(out[20:24], h)
	binary.BigEndian.PutUint32(out[29:33], crc32.ChecksumIEEE(out[12:29]))
	return out
}

var (
	forestGreen = color.RGBA{R: 34, G: 139, B: 34, A: 255}
	darkGreen   = color.RGBA{R: 0, G: 60, B: 0, A: 255}
	brickRed    = color.RGBA{R: 200, G: 30, B: 30, A: 255}
	darkRed     = color.RGBA{R: 60, G: 0, B: 0, A: 255}
)

// ── Gate.Assess ───────────────────────────────────────────────────────────────

func TestAssess_AcceptsSharpLeafLikeImage(t *testing.T) {
	gate := NewGate(logger.Nop())
	data := encodePNG(t, stripes(60, 60, 3, forestGreen, darkGreen))

	a := gate.Assess(context.Background(), data)

	assert.True(t, a.Accepted)
	assert.Equal(t, ReasonNone, a.Reason)
	assert.Greater(t, a.BlurScore, BlurWarnThreshold)
	assert.InDelta(t, 1.0, a.GreenRatio, 1e-9)
	assert.Greater(t, a.EdgeDensity, MinEdgeDensity)
	assert.False(t, a.SoftBlur)
}

func TestAssess_RejectsUndecodable(t *testing.T) {
	gate := NewGate(logger.Nop())

	a := gate.Assess(context.Background(), []byte("definitely not an image"))

	assert.False(t, a.Accepted)
	assert.Equal(t, ReasonUndecodable, a.Reason)
}

func TestAssess_RejectsOversizedDimensions(t *testing.T) {
	gate := NewGate(logger.Nop())
	data := withPNGSize(t, encodePNG(t, image.NewGray(image.Rect(0, 0, 1, 1))), 8000, 8000)

	a := gate.Assess(context.Background(), data)

	assert.False(t, a.Accepted)
	assert.Equal(t, ReasonTooLarge, a.Reason)
	assert.Zero(t, a.BlurScore)
}

func TestDecode_PixelBudget(t *testing.T) {
	small := encodePNG(t, image.NewGray(image.Rect(0, 0, 1, 1)))

	_, _, err := Decode(withPNGSize(t, small, 8000, 8000))
	assert.ErrorIs(t, err, ErrTooLarge)

	_, _, err = Decode(withPNGSize(t, small, 1, MaxPixels+1))
	assert.ErrorIs(t, err, ErrTooLarge)

	img, format, err := Decode(small)
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, image.Rect(0, 0, 1, 1), img.Bounds())
}

func TestAssess_RejectsSinglePixelAsBlurry(t *testing.T) {
	gate := NewGate(logger.Nop())
	data := encodePNG(t, solid(1, 1, color.RGBA{A: 255}))

	a := gate.Assess(context.Background(), data)

	assert.False(t, a.Accepted)
	assert.Equal(t, ReasonTooBlurry, a.Reason)
	assert.Zero(t, a.BlurScore)
}

func TestAssess_RejectsFlatImageAsBlurry(t *testing.T) {
	gate := NewGate(logger.Nop())
	data := encodePNG(t, solid(64, 48, forestGreen))

	a := gate.Assess(context.Background(), data)

	assert.Equal(t, ReasonTooBlurry, a.Reason)
	assert.Zero(t, a.GreenRatio, "later stages must not run")
}

func TestAssess_RejectsSharpNonGreenImage(t *testing.T) {
	gate := NewGate(logger.Nop())
	data := encodePNG(t, stripes(60, 60, 3, brickRed, darkRed))

	a := gate.Assess(context.Background(), data)

	assert.False(t, a.Accepted)
	assert.Equal(t, ReasonNotLeaf, a.Reason)
	assert.Greater(t, a.BlurScore, BlurWarnThreshold)
	assert.Zero(t, a.GreenRatio)
}

func TestAssess_DecodesJPEG(t *testing.T) {
	gate := NewGate(logger.Nop())
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, stripes(64, 64, 8, forestGreen, darkGreen), &jpeg.Options{Quality: 95}))

	a := gate.Assess(context.Background(), buf.Bytes())

	assert.NotEqual(t, ReasonUndecodable, a.Reason)
}

func TestReason_String(t *testing.T) {
	assert.Equal(t, "none", ReasonNone.String())
	assert.Equal(t, "undecodable", ReasonUndecodable.String())
	assert.Equal(t, "too_blurry", ReasonTooBlurry.String())
	assert.Equal(t, "not_a_leaf", ReasonNotLeaf.String())
	assert.Equal(t, "too_large", ReasonTooLarge.String())
	assert.Equal(t, "unknown", Reason(42).String())
}
