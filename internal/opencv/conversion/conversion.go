package conversion

import (
	"fmt"
	"image"
	"image/color"

	"filter-bench/internal/opencv/safe"

	"github.com/disintegration/imaging"
	"gocv.io/x/gocv"
)

// Frame is an image split into an 8-bit BGR Mat and a separate alpha plane.
// OpenCV filters operate on the colour channels only; alpha is carried over.
type Frame struct {
	BGR    *safe.Mat
	Alpha  []uint8
	Width  int
	Height int
}

// ImageToFrame converts any image.Image into a Frame. The returned Mat must be closed.
func ImageToFrame(img image.Image, tracker safe.MemoryTracker) (*Frame, error) {
	if img == nil {
		return nil, fmt.Errorf("input image is nil")
	}

	nrgba := imaging.Clone(img)
	width, height := nrgba.Rect.Dx(), nrgba.Rect.Dy()
	if err := safe.ValidateDimensions(width, height, "image to Mat conversion"); err != nil {
		return nil, err
	}

	bgr := make([]byte, width*height*3)
	alpha := make([]uint8, width*height)
	for i := 0; i < width*height; i++ {
		p := nrgba.Pix[i*4 : i*4+4 : i*4+4]
		bgr[i*3+0] = p[2]
		bgr[i*3+1] = p[1]
		bgr[i*3+2] = p[0]
		alpha[i] = p[3]
	}

	mat, err := safe.NewMatFromBytes(height, width, gocv.MatTypeCV8UC3, bgr, tracker, "frame_bgr")
	if err != nil {
		return nil, fmt.Errorf("failed to convert image to Mat: %w", err)
	}

	return &Frame{BGR: mat, Alpha: alpha, Width: width, Height: height}, nil
}

func (f *Frame) Close() {
	if f != nil && f.BGR != nil {
		f.BGR.Close()
	}
}

// MatToImage converts a 1- or 3-channel 8-bit Mat back into a premultiplied
// RGBA image. alpha, when non-nil, must hold one value per pixel; nil means opaque.
func MatToImage(src *safe.Mat, alpha []uint8) (*image.RGBA, error) {
	if err := safe.ValidateMatForOperation(src, "Mat to image conversion"); err != nil {
		return nil, err
	}

	rows, cols, channels := src.Rows(), src.Cols(), src.Channels()
	if alpha != nil && len(alpha) != rows*cols {
		return nil, fmt.Errorf("alpha plane has %d values for %dx%d pixels", len(alpha), cols, rows)
	}

	data, err := src.Bytes()
	if err != nil {
		return nil, err
	}
	if len(data) != rows*cols*channels {
		return nil, fmt.Errorf("unexpected Mat data length %d for %dx%dx%d", len(data), cols, rows, channels)
	}

	img := image.NewRGBA(image.Rect(0, 0, cols, rows))
	for i := 0; i < rows*cols; i++ {
		var c color.NRGBA
		switch channels {
		case 1:
			c.R, c.G, c.B = data[i], data[i], data[i]
		case 3:
			c.R, c.G, c.B = data[i*3+2], data[i*3+1], data[i*3]
		default:
			return nil, fmt.Errorf("unsupported channel count: %d", channels)
		}
		c.A = 255
		if alpha != nil {
			c.A = alpha[i]
		}

		p := img.Pix[i*4 : i*4+4 : i*4+4]
		if c.A == 255 {
			p[0], p[1], p[2], p[3] = c.R, c.G, c.B, 255
			continue
		}
		r, g, b, a := c.RGBA()
		p[0], p[1], p[2], p[3] = uint8(r>>8), uint8(g>>8), uint8(b>>8), uint8(a>>8)
	}

	return img, nil
}
