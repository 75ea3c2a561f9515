package services

import (
	"context"
	"errors"
	"image"
	"image/color"
	"testing"

	"filter-bench/internal/filters"
	"filter-bench/internal/logger"
	"filter-bench/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingOp struct {
	kind      filters.Kind
	strengths []int
	params    [][]any
	err       error
}

func (r *recordingOp) Kind() filters.Kind { return r.kind }

func (r *recordingOp) Apply(img image.Image, strength int, params []any) (image.Image, error) {
	r.strengths = append(r.strengths, strength)
	r.params = append(r.params, params)
	if r.err != nil {
		return nil, r.err
	}

	// Paint over the input to prove the service hands out a copy.
	if rgba, ok := img.(*image.RGBA); ok {
		rgba.Set(0, 0, color.RGBA{1, 2, 3, 255})
	}
	return img, nil
}

func newTestFilterService(t *testing.T, ops ...filters.Operation) *FilterService {
	t.Helper()
	reg := filters.NewRegistry()
	for _, op := range ops {
		require.NoError(t, reg.Register(op))
	}
	return NewFilterService(reg, logger.Nop())
}

func TestFilterServiceResolve(t *testing.T) {
	op := &recordingOp{kind: filters.Sharpen}
	svc := newTestFilterService(t, op)

	got, err := svc.Resolve("sharpen")
	require.NoError(t, err)
	assert.Same(t, op, got)

	_, err = svc.Resolve("Emboss")
	var unknown *models.UnknownFilterError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "Emboss", unknown.ID)

	assert.Equal(t, []filters.Kind{filters.Sharpen}, svc.Available())
}

func TestFilterServiceApplyPassesStrengthThrough(t *testing.T) {
	op := &recordingOp{kind: filters.BrightnessHSV}
	svc := newTestFilterService(t, op)
	src := gradient(3, 2)
	params := []any{10, 20, 30}

	for _, s := range []int{filters.MinStrength, -1, 0, 1, filters.MaxStrength} {
		out, err := svc.Apply(context.Background(), src, op, s, params)
		require.NoError(t, err)
		assert.NotNil(t, out)
	}

	assert.Equal(t, []int{-10000, -1, 0, 1, 10000}, op.strengths)
	assert.Equal(t, params, op.params[0])
	assert.Equal(t, color.RGBA{0, 0, 90, 255}, src.RGBAAt(0, 0), "input must not be modified")

	stats := svc.Stats()
	assert.Equal(t, 5, stats.TotalProcessed)
	assert.Equal(t, "BrightnessHSV", stats.LastFilter)
}

func TestFilterServiceApplyRejectsOutOfRange(t *testing.T) {
	op := &recordingOp{kind: filters.Contrast}
	svc := newTestFilterService(t, op)

	for _, s := range []int{filters.MinStrength - 1, filters.MaxStrength + 1} {
		_, err := svc.Apply(context.Background(), gradient(2, 2), op, s, nil)

		var appErr *models.FilterApplicationError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, s, appErr.Strength)
		assert.Equal(t, "Contrast", appErr.Filter)
	}
	assert.Empty(t, op.strengths)
}

func TestFilterServiceApplyWrapsFailures(t *testing.T) {
	cause := errors.New("kernel too large")
	failing := &recordingOp{kind: filters.Median, err: cause}
	panicking := filters.OperationFunc{K: filters.Averaging, Fn: func(image.Image, int, []any) (image.Image, error) {
		panic("boom")
	}}
	empty := filters.OperationFunc{K: filters.Identity, Fn: func(image.Image, int, []any) (image.Image, error) {
		return nil, nil
	}}
	svc := newTestFilterService(t, failing, panicking, empty)

	_, err := svc.Apply(context.Background(), gradient(2, 2), failing, 3, nil)
	var appErr *models.FilterApplicationError
	require.ErrorAs(t, err, &appErr)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Median", appErr.Filter)
	assert.Equal(t, 3, appErr.Strength)

	_, err = svc.Apply(context.Background(), gradient(2, 2), panicking, 1, nil)
	require.ErrorAs(t, err, &appErr)
	assert.Contains(t, err.Error(), "boom")

	_, err = svc.Apply(context.Background(), gradient(2, 2), empty, 0, nil)
	require.ErrorAs(t, err, &appErr)

	assert.Equal(t, 3, svc.Stats().TotalFailed)
	assert.Zero(t, svc.Stats().TotalProcessed)
}

func TestFilterServiceApplyPreconditions(t *testing.T) {
	op := &recordingOp{kind: filters.Sharpen}
	svc := newTestFilterService(t, op)

	_, err := svc.Apply(context.Background(), nil, op, 1, nil)
	assert.ErrorIs(t, err, models.ErrNoImage)

	_, err = svc.Apply(context.Background(), gradient(1, 1), nil, 1, nil)
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	<-svc.workerPool
	defer func() { svc.workerPool <- struct{}{} }()

	_, err = svc.Apply(ctx, gradient(1, 1), op, 1, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
