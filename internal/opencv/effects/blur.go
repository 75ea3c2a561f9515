package effects

import (
	"image"

	"filter-bench/internal/filters"
	"filter-bench/internal/opencv/safe"

	"gocv.io/x/gocv"
)

type medianFilter struct{ base }

func (medianFilter) Kind() filters.Kind { return filters.Median }

// Apply uses strength as the aperture size. Even apertures are rounded up.
func (f medianFilter) Apply(img image.Image, strength int, _ []any) (image.Image, error) {
	if strength < 0 {
		return nil, invalidStrength(filters.Median, strength, "must not be negative")
	}
	if strength <= 1 {
		return copyOf(img), nil
	}

	return f.process(img, func(src *safe.Mat) (*safe.Mat, error) {
		return f.median(src, aperture(strength))
	})
}

func (b base) median(src *safe.Mat, ksize int) (*safe.Mat, error) {
	dst, err := b.newLike(src, "median")
	if err != nil {
		return nil, err
	}
	dstMat := dst.GetMat()
	gocv.MedianBlur(src.GetMat(), &dstMat, ksize)
	return dst, nil
}

// averagingFilter is a box blur with radius strength.
type averagingFilter struct{ base }

func (averagingFilter) Kind() filters.Kind { return filters.Averaging }

func (f averagingFilter) Apply(img image.Image, strength int, _ []any) (image.Image, error) {
	if strength < 0 {
		return nil, invalidStrength(filters.Averaging, strength, "must not be negative")
	}
	if strength == 0 {
		return copyOf(img), nil
	}

	ksize := 2*strength + 1
	return f.process(img, func(src *safe.Mat) (*safe.Mat, error) {
		dst, err := f.newLike(src, "averaging")
		if err != nil {
			return nil, err
		}
		dstMat := dst.GetMat()
		gocv.Blur(src.GetMat(), &dstMat, image.Pt(ksize, ksize))
		return dst, nil
	})
}

// sharpenFilter is an unsharp mask: src + strength*(src - median(src)).
// Negative strengths blend towards the median instead.
type sharpenFilter struct{ base }

func (sharpenFilter) Kind() filters.Kind { return filters.Sharpen }

func (f sharpenFilter) Apply(img image.Image, strength int, _ []any) (image.Image, error) {
	if strength == 0 {
		return copyOf(img), nil
	}

	amount := float64(strength)
	ksize := aperture(abs(strength))

	return f.process(img, func(src *safe.Mat) (*safe.Mat, error) {
		blurred, err := f.median(src, ksize)
		if err != nil {
			return nil, err
		}
		defer blurred.Close()

		dst, err := f.newLike(src, "sharpen")
		if err != nil {
			return nil, err
		}
		dstMat := dst.GetMat()
		gocv.AddWeighted(src.GetMat(), 1+amount, blurred.GetMat(), -amount, 0, &dstMat)
		return dst, nil
	})
}

// aperture turns a strength into a valid odd median kernel size of at least 3.
func aperture(strength int) int {
	k := strength
	if k > maxAperture {
		k = maxAperture
	}
	if k%2 == 0 {
		k++
	}
	if k < 3 {
		k = 3
	}
	return k
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
