package conversion

import (
	"fmt"

	"filter-bench/internal/opencv/safe"

	"gocv.io/x/gocv"
)

// ConvertBGRToHSV converts BGR to 8-bit HSV (H in [0,180), S and V in [0,255]).
func ConvertBGRToHSV(src *safe.Mat, tracker safe.MemoryTracker) (*safe.Mat, error) {
	return convert(src, 3, gocv.MatTypeCV8UC3, gocv.ColorBGRToHSV, tracker, "hsv")
}

func ConvertHSVToBGR(src *safe.Mat, tracker safe.MemoryTracker) (*safe.Mat, error) {
	return convert(src, 3, gocv.MatTypeCV8UC3, gocv.ColorHSVToBGR, tracker, "bgr")
}

func ConvertToGrayscale(src *safe.Mat, tracker safe.MemoryTracker) (*safe.Mat, error) {
	if src != nil && src.Channels() == 1 {
		return src.Clone()
	}
	return convert(src, 3, gocv.MatTypeCV8UC1, gocv.ColorBGRToGray, tracker, "gray")
}

func convert(src *safe.Mat, channels int, dstType gocv.MatType, code gocv.ColorConversionCode, tracker safe.MemoryTracker, tag string) (*safe.Mat, error) {
	if err := safe.ValidateChannels(src, channels, "color conversion"); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	dst, err := safe.NewMatWithTracker(src.Rows(), src.Cols(), dstType, tracker, tag)
	if err != nil {
		return nil, fmt.Errorf("destination Mat creation failed: %w", err)
	}

	srcMat := src.GetMat()
	dstMat := dst.GetMat()
	gocv.CvtColor(srcMat, &dstMat, code)

	return dst, nil
}
