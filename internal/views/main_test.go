package views

import (
	"image"
	"testing"

	"filter-bench/internal/filters"
	"filter-bench/internal/models"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestView(t *testing.T) *MainView {
	t.Helper()
	test.NewTempApp(t)
	w := test.NewWindow(nil)
	t.Cleanup(w.Close)
	return NewMainView(w, filters.Kinds(), filters.Sharpen)
}

func TestMainViewInitialState(t *testing.T) {
	view := newTestView(t)

	state := view.GetViewState()
	assert.False(t, state.HasOriginalImage)
	assert.False(t, state.HasCurrentImage)
	assert.False(t, state.Busy)
	assert.Equal(t, filters.Sharpen, state.Filter)
	assert.Equal(t, filters.Sharpen.DefaultStrength(), state.Strength)
	assert.Equal(t, "Ready", state.StatusMessage)
}

func TestMainViewForwardsToolbarEvents(t *testing.T) {
	view := newTestView(t)

	var applied, reverted int
	var selected filters.Kind
	view.SetApplyFilterHandler(func() { applied++ })
	view.SetRevertHandler(func() { reverted++ })
	view.SetFilterChangeHandler(func(k filters.Kind) { selected = k })

	view.SetImageInfo(models.ImageMetadata{Path: "/tmp/photo.png", Width: 3, Height: 2, Format: "png"})

	tb := view.GetToolbar()
	tb.SetCurrentFilter(filters.HueHSV)
	assert.Equal(t, filters.HueHSV, selected)
	assert.Equal(t, filters.HueHSV, view.SelectedFilter())

	tb.SetStrength(-42)
	strength, err := view.Strength()
	require.NoError(t, err)
	assert.Equal(t, -42, strength)

	// Drive the handlers the way the buttons would.
	tb.SetBusy(false)
	view.applyFilterHandler()
	view.revertHandler()
	assert.Equal(t, 1, applied)
	assert.Equal(t, 1, reverted)

	params, err := view.FilterParams()
	require.NoError(t, err)
	assert.Nil(t, params)
}

func TestMainViewImagesAndStatus(t *testing.T) {
	view := newTestView(t)
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))

	view.SetOriginalImage(img)
	view.SetCurrentImage(img)
	view.SetImageInfo(models.ImageMetadata{Path: "/data/photo.png", Width: 3, Height: 2, Format: "png"})
	view.SetHistoryDepth(2)
	view.UpdateStatus("Applied Sharpen (strength 50)")

	state := view.GetViewState()
	assert.True(t, state.HasOriginalImage)
	assert.True(t, state.HasCurrentImage)
	assert.Equal(t, "History: 2", state.HistoryInfo)
	assert.Equal(t, "Applied Sharpen (strength 50)", state.StatusMessage)
	assert.Equal(t, "Filter Bench - photo.png", view.GetWindow().Title())
}

func TestMainViewBusyLocksToolbar(t *testing.T) {
	view := newTestView(t)
	view.SetImageInfo(models.ImageMetadata{Path: "a.png"})

	view.SetBusy(true, "Applying Sharpen...")
	assert.True(t, view.GetViewState().Busy)

	view.SetBusy(false, "")
	assert.False(t, view.GetViewState().Busy)
}
