package services

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"filter-bench/internal/logger"
	"filter-bench/internal/models"

	"github.com/disintegration/imaging"
	"github.com/h2non/filetype"
	"golang.org/x/image/bmp"
)

// OpenExtensions are the extensions offered by the file-open dialog.
var OpenExtensions = []string{".jpg", ".jpeg", ".png"}

// SaveExtensions are the extensions the exporter can write.
var SaveExtensions = []string{".png", ".jpg", ".jpeg", ".bmp"}

// decodable maps sniffed content types to the format name reported to the user.
var decodable = map[string]string{
	"png": "png",
	"jpg": "jpeg",
	"bmp": "bmp",
}

// ImageService decodes, encodes and inspects raster files.
type ImageService struct {
	logger logger.Logger
}

func NewImageService(log logger.Logger) *ImageService {
	if log == nil {
		log = logger.Nop()
	}
	return &ImageService{logger: log}
}

// Load decodes the image stored at path.
func (is *ImageService) Load(ctx context.Context, path string) (image.Image, models.ImageMetadata, error) {
	file, err := os.Open(path)
	if err != nil {
		reason := "unreadable file"
		if errors.Is(err, fs.ErrNotExist) {
			reason = "file not found"
		}
		return nil, models.ImageMetadata{}, &models.DecodeError{Path: path, Reason: reason, Err: err}
	}
	defer file.Close()

	return is.LoadFromReader(ctx, path, file)
}

// LoadFromReader decodes an image from r; name is only used for reporting.
func (is *ImageService) LoadFromReader(ctx context.Context, name string, r io.Reader) (image.Image, models.ImageMetadata, error) {
	select {
	case <-ctx.Done():
		return nil, models.ImageMetadata{}, ctx.Err()
	default:
	}

	startTime := time.Now()

	data, err := io.ReadAll(bufio.NewReader(r))
	if err != nil {
		return nil, models.ImageMetadata{}, &models.DecodeError{Path: name, Reason: "unreadable file", Err: err}
	}

	format, err := sniffFormat(data)
	if err != nil {
		return nil, models.ImageMetadata{}, &models.DecodeError{Path: name, Reason: err.Error()}
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, models.ImageMetadata{}, &models.DecodeError{Path: name, Reason: "corrupt " + format + " data", Err: err}
	}

	bounds := img.Bounds()
	meta := models.ImageMetadata{
		Path:       name,
		Format:     format,
		Width:      bounds.Dx(),
		Height:     bounds.Dy(),
		FileSize:   int64(len(data)),
		Monochrome: IsMonochrome(img),
		LoadTime:   time.Now(),
	}

	is.logger.Debug("ImageService", "image decoded", map[string]interface{}{
		"path":     name,
		"format":   format,
		"width":    meta.Width,
		"height":   meta.Height,
		"bytes":    meta.FileSize,
		"duration": time.Since(startTime).String(),
	})

	return img, meta, nil
}

func sniffFormat(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty file")
	}

	kind, err := filetype.Match(data)
	if err != nil || kind == filetype.Unknown {
		return "", fmt.Errorf("unrecognised file content")
	}

	format, ok := decodable[kind.Extension]
	if !ok {
		return "", fmt.Errorf("unsupported format %s", kind.Extension)
	}
	return format, nil
}

// Save encodes img to path, choosing the format from the extension.
func (is *ImageService) Save(ctx context.Context, path string, img image.Image) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if img == nil {
		return fmt.Errorf("no image data to save")
	}

	ext := strings.ToLower(filepath.Ext(path))
	if !is.ValidateImageFormat(ext) {
		return fmt.Errorf("unsupported output format %q", ext)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := is.SaveToWriter(file, img, ext); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// SaveToWriter encodes img in the format named by ext (".png", "jpg", ...).
func (is *ImageService) SaveToWriter(writer io.Writer, img image.Image, ext string) error {
	bw := bufio.NewWriter(writer)

	var err error
	switch strings.TrimPrefix(strings.ToLower(ext), ".") {
	case "jpeg", "jpg":
		err = imaging.Encode(bw, img, imaging.JPEG, imaging.JPEGQuality(95))
	case "png":
		err = imaging.Encode(bw, img, imaging.PNG)
	case "bmp":
		err = bmp.Encode(bw, img)
	default:
		return fmt.Errorf("unsupported output format %q", ext)
	}
	if err != nil {
		return fmt.Errorf("failed to encode image: %w", err)
	}
	return bw.Flush()
}

// ValidateImageFormat reports whether ext can be written by Save.
func (is *ImageService) ValidateImageFormat(ext string) bool {
	ext = strings.ToLower(ext)
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	for _, supported := range SaveExtensions {
		if ext == supported {
			return true
		}
	}
	return false
}

// IsMonochrome reports whether every pixel has equal red, green and blue.
func IsMonochrome(img image.Image) bool {
	if img == nil {
		return false
	}

	switch img.(type) {
	case *image.Gray, *image.Gray16:
		return true
	}

	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			if r != g || g != b {
				return false
			}
		}
	}
	return true
}
