package effects

import (
	"image"

	"filter-bench/internal/filters"
	"filter-bench/internal/opencv/conversion"
	"filter-bench/internal/opencv/safe"

	"gocv.io/x/gocv"
)

// binaryFilter sets every channel to 0 at or below the threshold and 255 above it.
type binaryFilter struct{ base }

func (binaryFilter) Kind() filters.Kind { return filters.Binary }

func (f binaryFilter) Apply(img image.Image, strength int, _ []any) (image.Image, error) {
	if strength < 0 || strength > 255 {
		return nil, invalidStrength(filters.Binary, strength, "must be between 0 and 255")
	}

	return f.process(img, func(src *safe.Mat) (*safe.Mat, error) {
		dst, err := f.newLike(src, "binary")
		if err != nil {
			return nil, err
		}
		dstMat := dst.GetMat()
		gocv.Threshold(src.GetMat(), &dstMat, float32(strength), 255, gocv.ThresholdBinary)
		return dst, nil
	})
}

// contrastFilter uses the classic 259-based contrast correction factor.
type contrastFilter struct{ base }

func (contrastFilter) Kind() filters.Kind { return filters.Contrast }

func (f contrastFilter) Apply(img image.Image, strength int, _ []any) (image.Image, error) {
	if strength == 259 {
		return nil, invalidStrength(filters.Contrast, strength, "makes the contrast factor infinite")
	}
	if strength == 0 {
		return copyOf(img), nil
	}

	factor := (259.0 * float64(strength+255)) / (255.0 * float64(259-strength))
	offset := 128 * (1 - factor)

	return f.process(img, func(src *safe.Mat) (*safe.Mat, error) {
		dst, err := f.newLike(src, "contrast")
		if err != nil {
			return nil, err
		}
		srcMat := src.GetMat()
		dstMat := dst.GetMat()
		srcMat.ConvertToWithParams(&dstMat, gocv.MatTypeCV8UC3, float32(factor), float32(offset))
		return dst, nil
	})
}

type blackWhiteFilter struct{ base }

func (blackWhiteFilter) Kind() filters.Kind { return filters.BlackWhite }

func (f blackWhiteFilter) Apply(img image.Image, _ int, _ []any) (image.Image, error) {
	return f.process(img, func(src *safe.Mat) (*safe.Mat, error) {
		return conversion.ConvertToGrayscale(src, f.tracker)
	})
}
