package session

import (
	"context"
	"fmt"
	"image"
	"sync"

	"filter-bench/internal/filters"
	"filter-bench/internal/logger"
	"filter-bench/internal/models"
)

// Decoder turns a file into an image.
type Decoder interface {
	Load(ctx context.Context, path string) (image.Image, models.ImageMetadata, error)
}

// Encoder writes an image to a file.
type Encoder interface {
	Save(ctx context.Context, path string, img image.Image) error
}

// Invoker resolves filter identifiers and applies them.
type Invoker interface {
	Resolve(id string) (filters.Operation, error)
	Apply(ctx context.Context, img image.Image, op filters.Operation, strength int, params []any) (image.Image, error)
}

// ApplyResult describes a successful filter application.
type ApplyResult struct {
	Kind         filters.Kind
	Strength     int
	Image        *image.RGBA
	HistoryDepth int
}

// RevertResult describes the state restored by Revert.
type RevertResult struct {
	Image        *image.RGBA
	FromHistory  bool
	HistoryDepth int
}

// Session owns the original image, the current image and the undo history
// for one interactive run. Its methods run one at a time.
type Session struct {
	mu      sync.Mutex
	store   *models.ImageStore
	history *models.HistoryStack

	decoder Decoder
	encoder Encoder
	invoker Invoker
	logger  logger.Logger
}

// Config bundles a session's collaborators.
type Config struct {
	Decoder         Decoder
	Encoder         Encoder
	Invoker         Invoker
	Logger          logger.Logger
	MaxHistoryDepth int
}

func New(cfg Config) (*Session, error) {
	if cfg.Decoder == nil {
		return nil, fmt.Errorf("session requires a decoder")
	}
	if cfg.Invoker == nil {
		return nil, fmt.Errorf("session requires a filter invoker")
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Nop()
	}

	return &Session{
		store:   models.NewImageStore(),
		history: models.NewHistoryStack(cfg.MaxHistoryDepth),
		decoder: cfg.Decoder,
		encoder: cfg.Encoder,
		invoker: cfg.Invoker,
		logger:  cfg.Logger,
	}, nil
}

// Load decodes path and makes it both the original and the current image.
// History is cleared. On failure the previous state is kept.
func (s *Session) Load(ctx context.Context, path string) (models.ImageMetadata, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	img, meta, err := s.decoder.Load(ctx, path)
	if err != nil {
		return models.ImageMetadata{}, err
	}

	s.store.Load(img, meta)
	s.history.Clear()

	s.logger.Info("Session", "image loaded", map[string]interface{}{
		"path":       meta.Path,
		"format":     meta.Format,
		"width":      meta.Width,
		"height":     meta.Height,
		"monochrome": meta.Monochrome,
	})

	return meta, nil
}

// Apply runs the filter named by filterID on the current image. The pre-apply
// image is pushed onto the history only when the filter succeeds.
func (s *Session) Apply(ctx context.Context, filterID string, strength int, params []any) (*ApplyResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	op, err := s.invoker.Resolve(filterID)
	if err != nil {
		return nil, err
	}

	before, err := s.store.Snapshot()
	if err != nil {
		return nil, err
	}

	result, err := s.invoker.Apply(ctx, before, op, strength, params)
	if err != nil {
		return nil, err
	}

	if err := s.store.ReplaceCurrent(result); err != nil {
		return nil, err
	}
	s.history.Push(before)

	display, err := s.store.Snapshot()
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Session", "filter applied", map[string]interface{}{
		"filter":        op.Kind().String(),
		"strength":      strength,
		"history_depth": s.history.Len(),
	})

	return &ApplyResult{
		Kind:         op.Kind(),
		Strength:     strength,
		Image:        display,
		HistoryDepth: s.history.Len(),
	}, nil
}

// Revert restores the most recent history entry, or the original image once
// the history is exhausted.
func (s *Session) Revert() (*RevertResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.store.Loaded() {
		return nil, models.ErrNoImage
	}

	restored, fromHistory := s.history.PopOrFallback(nil)
	if !fromHistory {
		original, err := s.store.Original()
		if err != nil {
			return nil, err
		}
		restored = original
	}

	if err := s.store.ReplaceCurrent(restored); err != nil {
		return nil, err
	}

	display, err := s.store.Snapshot()
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Session", "reverted", map[string]interface{}{
		"from_history":  fromHistory,
		"history_depth": s.history.Len(),
	})

	return &RevertResult{
		Image:        display,
		FromHistory:  fromHistory,
		HistoryDepth: s.history.Len(),
	}, nil
}

// Save writes the current image to path.
func (s *Session) Save(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.encoder == nil {
		return fmt.Errorf("saving is not available")
	}

	current, err := s.store.Snapshot()
	if err != nil {
		return err
	}

	if err := s.encoder.Save(ctx, path, current); err != nil {
		return fmt.Errorf("failed to save image: %w", err)
	}

	s.logger.Info("Session", "image saved", map[string]interface{}{"path": path})
	return nil
}

// Current returns a copy of the current image.
func (s *Session) Current() (*image.RGBA, error) {
	return s.store.Snapshot()
}

// Original returns a copy of the image as loaded.
func (s *Session) Original() (*image.RGBA, error) {
	return s.store.Original()
}

func (s *Session) HistoryDepth() int {
	return s.history.Len()
}

func (s *Session) Loaded() bool {
	return s.store.Loaded()
}

// MemoryUsage reports the bytes held by the stored images and the history.
func (s *Session) MemoryUsage() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.store.MemoryUsage() + s.history.Bytes()
}
