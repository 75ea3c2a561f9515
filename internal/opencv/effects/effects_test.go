package effects

import (
	"image"
	"image/color"
	"testing"

	"filter-bench/internal/filters"
	"filter-bench/internal/opencv/memory"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uniform(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 40), G: uint8(y * 30), B: uint8((x + y) * 10), A: 255})
		}
	}
	return img
}

func newTestRegistry(t *testing.T) (*filters.Registry, *memory.Manager) {
	t.Helper()
	tracker := memory.NewManager(nil)
	reg, err := NewRegistry(tracker)
	require.NoError(t, err)
	return reg, tracker
}

func apply(t *testing.T, reg *filters.Registry, kind filters.Kind, img image.Image, strength int, params []any) *image.NRGBA {
	t.Helper()
	op, err := reg.Lookup(kind)
	require.NoError(t, err)
	out, err := op.Apply(img, strength, params)
	require.NoError(t, err)
	return imaging.Clone(out)
}

func TestRegistryHasEveryKind(t *testing.T) {
	reg, _ := newTestRegistry(t)
	assert.Equal(t, filters.Kinds(), reg.Available())
}

func TestZeroStrengthIsNoOp(t *testing.T) {
	reg, _ := newTestRegistry(t)
	src := gradient(6, 4)

	for _, kind := range []filters.Kind{
		filters.Identity, filters.Contrast, filters.Sharpen, filters.Median,
		filters.Averaging, filters.BrightnessHSV, filters.SaturationHSV, filters.HueHSV,
	} {
		out := apply(t, reg, kind, src, 0, nil)
		assert.Equal(t, src.Pix, out.Pix, kind.String())
	}
}

func translucent() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 4, 1))
	copy(img.Pix, []uint8{0, 2, 1, 3, 14, 27, 16, 43, 44, 39, 32, 83, 90, 39, 47, 123})
	return img
}

func TestZeroStrengthKeepsTranslucentPixels(t *testing.T) {
	reg, _ := newTestRegistry(t)
	src := translucent()

	for _, kind := range []filters.Kind{
		filters.Identity, filters.Contrast, filters.Sharpen, filters.Median,
		filters.Averaging, filters.BrightnessHSV, filters.SaturationHSV, filters.HueHSV,
	} {
		op, err := reg.Lookup(kind)
		require.NoError(t, err)
		out, err := op.Apply(src, 0, nil)
		require.NoError(t, err)

		rgba, ok := out.(*image.RGBA)
		require.True(t, ok, kind.String())
		assert.Equal(t, translucent().Pix, rgba.Pix, kind.String())
		assert.NotSame(t, src, rgba, kind.String())
	}
}

func TestProcessedOutputIsPremultiplied(t *testing.T) {
	reg, _ := newTestRegistry(t)
	op, err := reg.Lookup(filters.BlackWhite)
	require.NoError(t, err)

	// Straight white at half alpha premultiplies to 128.
	out, err := op.Apply(uniform(2, 2, color.NRGBA{R: 255, G: 255, B: 255, A: 128}), 0, nil)
	require.NoError(t, err)
	rgba, ok := out.(*image.RGBA)
	require.True(t, ok)
	assert.Equal(t, color.RGBA{R: 128, G: 128, B: 128, A: 128}, rgba.RGBAAt(1, 1))

	out, err = op.Apply(gradient(3, 3), 0, nil)
	require.NoError(t, err)
	assert.Equal(t, uint8(255), out.(*image.RGBA).RGBAAt(2, 2).A)
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	reg, _ := newTestRegistry(t)
	src := gradient(6, 4)
	before := imaging.Clone(src)

	for _, kind := range filters.Kinds() {
		strength := 40
		apply(t, reg, kind, src, strength, nil)
		assert.Equal(t, before.Pix, src.Pix, kind.String())
	}
}

func TestBinaryThreshold(t *testing.T) {
	reg, _ := newTestRegistry(t)
	src := uniform(2, 2, color.NRGBA{R: 100, G: 200, B: 150, A: 255})

	out := apply(t, reg, filters.Binary, src, 150, nil)
	assert.Equal(t, color.NRGBA{R: 0, G: 255, B: 0, A: 255}, out.NRGBAAt(1, 1))

	op, err := reg.Lookup(filters.Binary)
	require.NoError(t, err)
	_, err = op.Apply(src, 256, nil)
	assert.ErrorIs(t, err, ErrInvalidStrength)
	_, err = op.Apply(src, -1, nil)
	assert.ErrorIs(t, err, ErrInvalidStrength)
}

func TestContrastRejectsSingularFactor(t *testing.T) {
	reg, _ := newTestRegistry(t)
	op, err := reg.Lookup(filters.Contrast)
	require.NoError(t, err)

	_, err = op.Apply(gradient(2, 2), 259, nil)
	assert.ErrorIs(t, err, ErrInvalidStrength)
}

func TestBlurFiltersKeepUniformImages(t *testing.T) {
	reg, _ := newTestRegistry(t)
	src := uniform(8, 8, color.NRGBA{R: 90, G: 60, B: 30, A: 255})

	for _, kind := range []filters.Kind{filters.Median, filters.Averaging, filters.Sharpen} {
		out := apply(t, reg, kind, src, 3, nil)
		assert.Equal(t, src.Pix, out.Pix, kind.String())
	}

	op, err := reg.Lookup(filters.Median)
	require.NoError(t, err)
	_, err = op.Apply(src, -3, nil)
	assert.ErrorIs(t, err, ErrInvalidStrength)
}

func TestBlackWhiteProducesGray(t *testing.T) {
	reg, _ := newTestRegistry(t)
	out := apply(t, reg, filters.BlackWhite, gradient(5, 5), 0, nil)

	for i := 0; i < len(out.Pix); i += 4 {
		assert.Equal(t, out.Pix[i], out.Pix[i+1])
		assert.Equal(t, out.Pix[i], out.Pix[i+2])
	}
}

func TestBrightnessSaturatesToWhite(t *testing.T) {
	reg, _ := newTestRegistry(t)
	src := uniform(2, 2, color.NRGBA{R: 128, G: 128, B: 128, A: 255})

	out := apply(t, reg, filters.BrightnessHSV, src, 255, nil)
	assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, out.NRGBAAt(0, 0))
}

func TestHueRotatesRedToGreen(t *testing.T) {
	reg, _ := newTestRegistry(t)
	src := uniform(2, 2, color.NRGBA{R: 255, A: 255})

	out := apply(t, reg, filters.HueHSV, src, 85, nil)
	assert.Equal(t, color.NRGBA{G: 255, A: 255}, out.NRGBAAt(1, 0))
}

func TestHueTableWrapsNegativeShift(t *testing.T) {
	f := newHSVFilter(base{}, filters.HueHSV)
	lut := f.table(-85)
	assert.Equal(t, uint8(120), lut[0])
	assert.Equal(t, uint8(200), lut[200])
}

func TestAlphaIsPreserved(t *testing.T) {
	reg, _ := newTestRegistry(t)
	src := uniform(3, 3, color.NRGBA{R: 10, G: 20, B: 30, A: 128})

	out := apply(t, reg, filters.Contrast, src, 0, nil)
	assert.Equal(t, uint8(128), out.NRGBAAt(2, 2).A)
}

func TestEdgeColoring(t *testing.T) {
	reg, _ := newTestRegistry(t)

	flat := apply(t, reg, filters.EdgeColoring, uniform(6, 6, color.NRGBA{R: 50, G: 50, B: 50, A: 255}), 0, nil)
	assert.Equal(t, color.NRGBA{A: 255}, flat.NRGBAAt(3, 3))

	// Left half black, right half white: a vertical edge at x=3.
	edge := uniform(6, 6, color.NRGBA{A: 255})
	for y := 0; y < 6; y++ {
		for x := 3; x < 6; x++ {
			edge.SetNRGBA(x, y, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
		}
	}

	out := apply(t, reg, filters.EdgeColoring, edge, 0, []any{0, 0, 255})
	px := out.NRGBAAt(3, 3)
	assert.Zero(t, px.R)
	assert.Zero(t, px.G)
	assert.Equal(t, uint8(255), px.B)
}

func TestEdgeColorFromParams(t *testing.T) {
	c, err := EdgeColorFromParams(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultEdgeColor, c)

	c, err = EdgeColorFromParams([]any{10, "x", 30})
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 10, G: 0, B: 30, A: 255}, c)

	_, err = EdgeColorFromParams([]any{10, 300, 30})
	assert.Error(t, err)
}

func TestNativeMemoryIsReleased(t *testing.T) {
	reg, tracker := newTestRegistry(t)
	for _, kind := range filters.Kinds() {
		apply(t, reg, kind, gradient(4, 4), 3, nil)
	}
	assert.Zero(t, tracker.GetStats().ActiveMats)
}
