package components

import (
	"fmt"

	"filter-bench/internal/models"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// StatusBar shows the last action, the loaded image, the undo depth and memory use.
type StatusBar struct {
	container   *fyne.Container
	statusLabel *widget.Label
	imageInfo   *widget.Label
	historyInfo *widget.Label
	memoryInfo  *widget.Label
}

func NewStatusBar() *StatusBar {
	sb := &StatusBar{}
	sb.createComponents()
	sb.buildLayout()
	return sb
}

func (sb *StatusBar) createComponents() {
	sb.statusLabel = widget.NewLabel("Ready")
	sb.imageInfo = widget.NewLabel("No image loaded")
	sb.historyInfo = widget.NewLabel("History: 0")
	sb.memoryInfo = widget.NewLabel("Memory: --")
}

func (sb *StatusBar) buildLayout() {
	sb.container = container.NewHBox(
		sb.statusLabel,
		widget.NewSeparator(),
		sb.imageInfo,
		widget.NewSeparator(),
		sb.historyInfo,
		widget.NewSeparator(),
		sb.memoryInfo,
	)
}

func (sb *StatusBar) SetStatus(status string) {
	sb.statusLabel.SetText(status)
}

func (sb *StatusBar) GetStatus() string {
	return sb.statusLabel.Text
}

// SetImageInfo describes the loaded file.
func (sb *StatusBar) SetImageInfo(meta models.ImageMetadata) {
	info := fmt.Sprintf("Image: %dx%d %s", meta.Width, meta.Height, meta.Format)
	if meta.Monochrome {
		info += ", monochrome"
	}
	sb.imageInfo.SetText(info)
}

func (sb *StatusBar) GetImageInfo() string {
	return sb.imageInfo.Text
}

func (sb *StatusBar) SetHistoryDepth(depth int) {
	sb.historyInfo.SetText(fmt.Sprintf("History: %d", depth))
}

func (sb *StatusBar) GetHistoryInfo() string {
	return sb.historyInfo.Text
}

// SetMemoryInfo shows bytes held by Go images and by native OpenCV matrices.
func (sb *StatusBar) SetMemoryInfo(imageBytes, nativeBytes int64) {
	sb.memoryInfo.SetText(fmt.Sprintf("Memory: %s images, %s native", formatBytes(imageBytes), formatBytes(nativeBytes)))
}

func (sb *StatusBar) GetMemoryInfo() string {
	return sb.memoryInfo.Text
}

func formatBytes(n int64) string {
	const unit = 1024
	switch {
	case n < unit:
		return fmt.Sprintf("%d B", n)
	case n < unit*unit:
		return fmt.Sprintf("%.1f KB", float64(n)/unit)
	default:
		return fmt.Sprintf("%.1f MB", float64(n)/(unit*unit))
	}
}

func (sb *StatusBar) Reset() {
	sb.statusLabel.SetText("Ready")
	sb.imageInfo.SetText("No image loaded")
	sb.historyInfo.SetText("History: 0")
	sb.memoryInfo.SetText("Memory: --")
}

func (sb *StatusBar) GetContainer() *fyne.Container {
	return sb.container
}

// ActivityIndicator is an indeterminate progress bar shown while an
// operation is running.
type ActivityIndicator struct {
	container *fyne.Container
	bar       *widget.ProgressBarInfinite
	label     *widget.Label
	visible   bool
}

func NewActivityIndicator() *ActivityIndicator {
	ai := &ActivityIndicator{
		bar:   widget.NewProgressBarInfinite(),
		label: widget.NewLabel(""),
	}
	ai.bar.Stop()
	ai.container = container.NewBorder(nil, nil, ai.label, nil, ai.bar)
	ai.container.Hide()
	return ai
}

// Start shows the indicator with a description of the running operation.
func (ai *ActivityIndicator) Start(stage string) {
	ai.label.SetText(stage)
	ai.visible = true
	ai.container.Show()
	ai.bar.Start()
}

func (ai *ActivityIndicator) Stop() {
	ai.bar.Stop()
	ai.visible = false
	ai.container.Hide()
}

func (ai *ActivityIndicator) IsVisible() bool {
	return ai.visible
}

func (ai *ActivityIndicator) GetStage() string {
	return ai.label.Text
}

func (ai *ActivityIndicator) GetContainer() *fyne.Container {
	return ai.container
}
