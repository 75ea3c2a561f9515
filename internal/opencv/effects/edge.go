package effects

import (
	"fmt"
	"image"
	"image/color"

	"filter-bench/internal/filters"
	"filter-bench/internal/opencv/conversion"
	"filter-bench/internal/opencv/safe"

	"gocv.io/x/gocv"
)

// DefaultEdgeColor is used when no colour parameters are supplied.
var DefaultEdgeColor = color.RGBA{R: 255, A: 255}

// edgeColoringFilter paints the Sobel gradient magnitude in a single colour.
// params may carry red, green and blue as ints in [0,255]. Strength is ignored.
type edgeColoringFilter struct{ base }

func (edgeColoringFilter) Kind() filters.Kind { return filters.EdgeColoring }

func (f edgeColoringFilter) Apply(img image.Image, _ int, params []any) (image.Image, error) {
	tint, err := EdgeColorFromParams(params)
	if err != nil {
		return nil, err
	}

	return f.process(img, func(src *safe.Mat) (*safe.Mat, error) {
		gray, err := conversion.ConvertToGrayscale(src, f.tracker)
		if err != nil {
			return nil, err
		}
		defer gray.Close()

		magnitude, err := f.gradientMagnitude(gray)
		if err != nil {
			return nil, err
		}
		defer magnitude.Close()

		return f.tint(magnitude, tint)
	})
}

// EdgeColorFromParams reads an optional [r, g, b] triple. Entries that are not
// ints keep the default component; ints outside [0,255] are rejected.
func EdgeColorFromParams(params []any) (color.RGBA, error) {
	c := DefaultEdgeColor
	if len(params) < 3 {
		return c, nil
	}

	components := []*uint8{&c.R, &c.G, &c.B}
	for i, dst := range components {
		v, ok := params[i].(int)
		if !ok {
			continue
		}
		if v < 0 || v > 255 {
			return c, fmt.Errorf("edge colour component %d out of range: %d", i, v)
		}
		*dst = uint8(v)
	}
	return c, nil
}

func (f edgeColoringFilter) gradientMagnitude(gray *safe.Mat) (*safe.Mat, error) {
	src := gray.GetMat()

	gx := gocv.NewMat()
	defer gx.Close()
	gy := gocv.NewMat()
	defer gy.Close()
	mag := gocv.NewMat()
	defer mag.Close()

	gocv.Sobel(src, &gx, gocv.MatTypeCV32F, 1, 0, 3, 1, 0, gocv.BorderDefault)
	gocv.Sobel(src, &gy, gocv.MatTypeCV32F, 0, 1, 3, 1, 0, gocv.BorderDefault)
	gocv.Magnitude(gx, gy, &mag)

	dst, err := f.newLike(gray, "edge_magnitude")
	if err != nil {
		return nil, err
	}
	dstMat := dst.GetMat()
	mag.ConvertTo(&dstMat, gocv.MatTypeCV8U)
	return dst, nil
}

func (f edgeColoringFilter) tint(magnitude *safe.Mat, c color.RGBA) (*safe.Mat, error) {
	src := magnitude.GetMat()

	channels := make([]gocv.Mat, 3)
	for i, component := range []uint8{c.B, c.G, c.R} {
		channels[i] = gocv.NewMat()
		defer channels[i].Close()
		src.ConvertToWithParams(&channels[i], gocv.MatTypeCV8U, float32(component)/255, 0)
	}

	dst, err := safe.NewMatWithTracker(magnitude.Rows(), magnitude.Cols(), gocv.MatTypeCV8UC3, f.tracker, "edge_tint")
	if err != nil {
		return nil, err
	}
	dstMat := dst.GetMat()
	gocv.Merge(channels, &dstMat)
	return dst, nil
}
