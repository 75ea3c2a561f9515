// Package effects implements the bench's filter operations on top of OpenCV.
package effects

import (
	"errors"
	"fmt"
	"image"

	"filter-bench/internal/filters"
	"filter-bench/internal/opencv/conversion"
	"filter-bench/internal/opencv/safe"

	"github.com/anthonynsimon/bild/clone"
)

// ErrInvalidStrength is wrapped by operations that reject a strength value.
var ErrInvalidStrength = errors.New("strength not supported")

// maxAperture bounds median kernels; larger apertures only add cost.
const maxAperture = 255

// Register installs every operation into reg. Native allocations are
// reported to tracker, which may be nil.
func Register(reg *filters.Registry, tracker safe.MemoryTracker) error {
	b := base{tracker: tracker}
	ops := []filters.Operation{
		identityFilter{},
		binaryFilter{b},
		contrastFilter{b},
		sharpenFilter{b},
		medianFilter{b},
		averagingFilter{b},
		blackWhiteFilter{b},
		newHSVFilter(b, filters.BrightnessHSV),
		edgeColoringFilter{b},
		newHSVFilter(b, filters.SaturationHSV),
		newHSVFilter(b, filters.HueHSV),
	}

	for _, op := range ops {
		if err := reg.Register(op); err != nil {
			return fmt.Errorf("register %s: %w", op.Kind(), err)
		}
	}
	return nil
}

// NewRegistry returns a registry holding every operation of this package.
func NewRegistry(tracker safe.MemoryTracker) (*filters.Registry, error) {
	reg := filters.NewRegistry()
	if err := Register(reg, tracker); err != nil {
		return nil, err
	}
	return reg, nil
}

type base struct {
	tracker safe.MemoryTracker
}

// process runs fn on the BGR planes of img and reattaches the original alpha.
func (b base) process(img image.Image, fn func(src *safe.Mat) (*safe.Mat, error)) (image.Image, error) {
	frame, err := conversion.ImageToFrame(img, b.tracker)
	if err != nil {
		return nil, err
	}
	defer frame.Close()

	out, err := fn(frame.BGR)
	if err != nil {
		return nil, err
	}
	defer out.Close()

	return conversion.MatToImage(out, frame.Alpha)
}

func (b base) newLike(src *safe.Mat, tag string) (*safe.Mat, error) {
	return safe.NewMatWithTracker(src.Rows(), src.Cols(), src.Type(), b.tracker, tag)
}

// copyOf returns img unchanged as a fresh *image.RGBA. Going through
// non-premultiplied colour would round translucent pixels.
func copyOf(img image.Image) image.Image {
	return clone.AsRGBA(img)
}

func invalidStrength(kind filters.Kind, strength int, reason string) error {
	return fmt.Errorf("%w: %s strength %d %s", ErrInvalidStrength, kind, strength, reason)
}

type identityFilter struct{}

func (identityFilter) Kind() filters.Kind { return filters.Identity }

func (identityFilter) Apply(img image.Image, _ int, _ []any) (image.Image, error) {
	if img == nil {
		return nil, fmt.Errorf("input image is nil")
	}
	return copyOf(img), nil
}
