package models

import (
	"image"
	"sync"
	"time"

	"github.com/anthonynsimon/bild/clone"
)

// ImageMetadata describes where the loaded image came from.
type ImageMetadata struct {
	Path       string
	Format     string
	Width      int
	Height     int
	FileSize   int64
	Monochrome bool
	LoadTime   time.Time
}

// ImageStore holds the original image and the image currently on display.
// Every image it hands out or keeps is an independent *image.RGBA.
type ImageStore struct {
	mu       sync.RWMutex
	original *image.RGBA
	current  *image.RGBA
	metadata ImageMetadata
}

func NewImageStore() *ImageStore {
	return &ImageStore{}
}

// Load replaces both the original and the current image with copies of img.
func (s *ImageStore) Load(img image.Image, meta ImageMetadata) {
	original := clone.AsRGBA(img)
	current := clone.AsRGBA(original)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.original = original
	s.current = current
	s.metadata = meta
}

func (s *ImageStore) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current != nil
}

// Snapshot returns a deep copy of the current image.
func (s *ImageStore) Snapshot() (*image.RGBA, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return nil, ErrNoImage
	}
	return clone.AsRGBA(s.current), nil
}

// Original returns a deep copy of the image as it was loaded.
func (s *ImageStore) Original() (*image.RGBA, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.original == nil {
		return nil, ErrNoImage
	}
	return clone.AsRGBA(s.original), nil
}

// ReplaceCurrent takes ownership of img. Callers must not keep using it.
func (s *ImageStore) ReplaceCurrent(img image.Image) error {
	rgba, ok := img.(*image.RGBA)
	if !ok {
		rgba = clone.AsRGBA(img)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return ErrNoImage
	}
	s.current = rgba
	return nil
}

func (s *ImageStore) Metadata() ImageMetadata {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.metadata
}

// MemoryUsage estimates the bytes held by the stored pixel buffers.
func (s *ImageStore) MemoryUsage() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total int64
	if s.original != nil {
		total += int64(len(s.original.Pix))
	}
	if s.current != nil {
		total += int64(len(s.current.Pix))
	}
	return total
}
