package services

import (
	"context"
	"fmt"
	"image"
	"sync"
	"time"

	"filter-bench/internal/filters"
	"filter-bench/internal/logger"
	"filter-bench/internal/models"

	"github.com/anthonynsimon/bild/clone"
)

// FilterStats summarises the filter runs performed so far.
type FilterStats struct {
	TotalProcessed int
	TotalFailed    int
	AverageTime    time.Duration
	LastFilter     string
	LastDuration   time.Duration
}

// FilterService resolves filter identifiers and runs operations on copies of
// the caller's image.
type FilterService struct {
	registry   *filters.Registry
	logger     logger.Logger
	workerPool chan struct{}

	mu        sync.RWMutex
	stats     FilterStats
	totalTime time.Duration
}

func NewFilterService(registry *filters.Registry, log logger.Logger) *FilterService {
	if log == nil {
		log = logger.Nop()
	}

	// One slot: filters are run one at a time.
	workers := make(chan struct{}, 1)
	workers <- struct{}{}

	return &FilterService{
		registry:   registry,
		logger:     log,
		workerPool: workers,
	}
}

// Resolve maps a filter identifier to its operation.
func (fs *FilterService) Resolve(id string) (filters.Operation, error) {
	return fs.registry.Resolve(id)
}

// Available lists the kinds that can be resolved.
func (fs *FilterService) Available() []filters.Kind {
	return fs.registry.Available()
}

// Apply runs op on a copy of img. The strength is range-checked and otherwise
// passed through untouched.
func (fs *FilterService) Apply(ctx context.Context, img image.Image, op filters.Operation, strength int, params []any) (image.Image, error) {
	if op == nil {
		return nil, fmt.Errorf("no filter operation given")
	}
	if img == nil {
		return nil, models.ErrNoImage
	}

	name := op.Kind().String()
	if strength < filters.MinStrength || strength > filters.MaxStrength {
		return nil, &models.FilterApplicationError{
			Filter:   name,
			Strength: strength,
			Err:      fmt.Errorf("strength outside [%d, %d]", filters.MinStrength, filters.MaxStrength),
		}
	}

	select {
	case <-fs.workerPool:
		defer func() { fs.workerPool <- struct{}{} }()
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	startTime := time.Now()
	result, err := runOperation(op, clone.AsRGBA(img), strength, params)
	duration := time.Since(startTime)

	if err == nil && result == nil {
		err = fmt.Errorf("operation returned no image")
	}
	fs.record(name, duration, err)

	if err != nil {
		return nil, &models.FilterApplicationError{Filter: name, Strength: strength, Err: err}
	}

	fs.logger.Debug("FilterService", "filter applied", map[string]interface{}{
		"filter":   name,
		"strength": strength,
		"params":   len(params),
		"duration": duration.String(),
	})

	return result, nil
}

func runOperation(op filters.Operation, img image.Image, strength int, params []any) (result image.Image, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("panic in filter: %v", r)
		}
	}()
	return op.Apply(img, strength, params)
}

func (fs *FilterService) record(name string, duration time.Duration, err error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	fs.stats.LastFilter = name
	fs.stats.LastDuration = duration
	if err != nil {
		fs.stats.TotalFailed++
		return
	}

	fs.stats.TotalProcessed++
	fs.totalTime += duration
	fs.stats.AverageTime = fs.totalTime / time.Duration(fs.stats.TotalProcessed)
}

func (fs *FilterService) Stats() FilterStats {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return fs.stats
}
