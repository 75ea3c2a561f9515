package effects

import (
	"fmt"
	"image"
	"math"

	"filter-bench/internal/filters"
	"filter-bench/internal/opencv/conversion"
	"filter-bench/internal/opencv/safe"

	"gocv.io/x/gocv"
)

// OpenCV stores 8-bit hue as degrees/2.
const hueRange = 180

// hsvFilter shifts one HSV channel through a lookup table.
type hsvFilter struct {
	base
	kind    filters.Kind
	channel int
}

func newHSVFilter(b base, kind filters.Kind) hsvFilter {
	channel := 2
	switch kind {
	case filters.HueHSV:
		channel = 0
	case filters.SaturationHSV:
		channel = 1
	}
	return hsvFilter{base: b, kind: kind, channel: channel}
}

func (f hsvFilter) Kind() filters.Kind { return f.kind }

func (f hsvFilter) Apply(img image.Image, strength int, _ []any) (image.Image, error) {
	if strength == 0 {
		return copyOf(img), nil
	}

	table := f.table(strength)
	return f.process(img, func(src *safe.Mat) (*safe.Mat, error) {
		hsv, err := conversion.ConvertBGRToHSV(src, f.tracker)
		if err != nil {
			return nil, err
		}
		defer hsv.Close()

		if err := f.shiftChannel(hsv, table); err != nil {
			return nil, err
		}
		return conversion.ConvertHSVToBGR(hsv, f.tracker)
	})
}

// table builds the 256-entry mapping for strength. Saturation and value
// add strength and clamp; hue rotates by strength/255 of a full turn.
func (f hsvFilter) table(strength int) [256]uint8 {
	var lut [256]uint8
	if f.kind == filters.HueHSV {
		shift := int(math.Round(float64(strength) / 255 * hueRange))
		shift = ((shift % hueRange) + hueRange) % hueRange
		for i := range lut {
			if i < hueRange {
				lut[i] = uint8((i + shift) % hueRange)
			} else {
				lut[i] = uint8(i)
			}
		}
		return lut
	}

	for i := range lut {
		lut[i] = uint8(clamp(i+strength, 0, 255))
	}
	return lut
}

func (f hsvFilter) shiftChannel(hsv *safe.Mat, table [256]uint8) error {
	lut, err := gocv.NewMatFromBytes(1, 256, gocv.MatTypeCV8UC1, table[:])
	if err != nil {
		return fmt.Errorf("failed to build lookup table: %w", err)
	}
	defer lut.Close()

	channels := gocv.Split(hsv.GetMat())
	defer func() {
		for i := range channels {
			channels[i].Close()
		}
	}()
	if len(channels) != 3 {
		return fmt.Errorf("expected 3 HSV channels, got %d", len(channels))
	}

	shifted := gocv.NewMat()
	gocv.LUT(channels[f.channel], lut, &shifted)
	channels[f.channel].Close()
	channels[f.channel] = shifted

	dst := hsv.GetMat()
	gocv.Merge(channels, &dst)
	return nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
