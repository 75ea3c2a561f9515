package views

import (
	"image"
	"path/filepath"

	"filter-bench/internal/filters"
	"filter-bench/internal/models"
	"filter-bench/internal/views/components"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
)

// MainView is the single window of the bench.
type MainView struct {
	window        fyne.Window
	mainContainer *fyne.Container
	toolbar       *components.Toolbar
	imageDisplay  *components.ImageDisplay
	statusBar     *components.StatusBar
	activity      *components.ActivityIndicator

	// Event handlers - connected to controller
	loadImageHandler    func()
	applyFilterHandler  func()
	revertHandler       func()
	saveImageHandler    func()
	filterChangeHandler func(filters.Kind)
}

func NewMainView(window fyne.Window, kinds []filters.Kind, initial filters.Kind) *MainView {
	view := &MainView{
		window: window,
	}

	view.initializeComponents(kinds, initial)
	view.buildLayout()
	view.setupEventHandlers()

	return view
}

func (mv *MainView) initializeComponents(kinds []filters.Kind, initial filters.Kind) {
	mv.toolbar = components.NewToolbar(kinds, initial)
	mv.imageDisplay = components.NewImageDisplay()
	mv.statusBar = components.NewStatusBar()
	mv.activity = components.NewActivityIndicator()
}

func (mv *MainView) buildLayout() {
	topArea := container.NewVBox(
		mv.toolbar.GetContainer(),
		mv.activity.GetContainer(),
	)

	mv.mainContainer = container.NewBorder(
		topArea,
		mv.statusBar.GetContainer(),
		nil,
		nil,
		mv.imageDisplay.GetContainer(),
	)

	mv.window.SetContent(mv.mainContainer)
}

// setupEventHandlers forwards toolbar events to whatever the controller installed.
func (mv *MainView) setupEventHandlers() {
	mv.toolbar.SetLoadHandler(func() {
		if mv.loadImageHandler != nil {
			mv.loadImageHandler()
		}
	})

	mv.toolbar.SetApplyHandler(func() {
		if mv.applyFilterHandler != nil {
			mv.applyFilterHandler()
		}
	})

	mv.toolbar.SetRevertHandler(func() {
		if mv.revertHandler != nil {
			mv.revertHandler()
		}
	})

	mv.toolbar.SetSaveHandler(func() {
		if mv.saveImageHandler != nil {
			mv.saveImageHandler()
		}
	})

	mv.toolbar.SetFilterChangeHandler(func(kind filters.Kind) {
		if mv.filterChangeHandler != nil {
			mv.filterChangeHandler(kind)
		}
	})
}

// Event handler setters - called by controller

func (mv *MainView) SetLoadImageHandler(handler func()) {
	mv.loadImageHandler = handler
}

func (mv *MainView) SetApplyFilterHandler(handler func()) {
	mv.applyFilterHandler = handler
}

func (mv *MainView) SetRevertHandler(handler func()) {
	mv.revertHandler = handler
}

func (mv *MainView) SetSaveImageHandler(handler func()) {
	mv.saveImageHandler = handler
}

func (mv *MainView) SetFilterChangeHandler(handler func(filters.Kind)) {
	mv.filterChangeHandler = handler
}

// Selection accessors

func (mv *MainView) SelectedFilter() filters.Kind {
	return mv.toolbar.CurrentFilter()
}

// Strength returns the typed strength, or an error when the entry is invalid.
func (mv *MainView) Strength() (int, error) {
	return mv.toolbar.StrengthValue()
}

func (mv *MainView) FilterParams() ([]any, error) {
	return mv.toolbar.Params()
}

// UI update methods - callers off the UI goroutine wrap these in fyne.Do

func (mv *MainView) SetOriginalImage(img image.Image) {
	mv.imageDisplay.SetOriginalImage(img)
}

func (mv *MainView) SetCurrentImage(img image.Image) {
	mv.imageDisplay.SetCurrentImage(img)
}

func (mv *MainView) UpdateStatus(status string) {
	mv.statusBar.SetStatus(status)
}

func (mv *MainView) SetImageInfo(meta models.ImageMetadata) {
	mv.statusBar.SetImageInfo(meta)
	mv.toolbar.SetImageLoaded(true)
	mv.window.SetTitle("Filter Bench - " + filepath.Base(meta.Path))
}

func (mv *MainView) SetHistoryDepth(depth int) {
	mv.statusBar.SetHistoryDepth(depth)
}

func (mv *MainView) SetMemoryInfo(imageBytes, nativeBytes int64) {
	mv.statusBar.SetMemoryInfo(imageBytes, nativeBytes)
}

// SetBusy locks the toolbar while an operation named stage runs.
func (mv *MainView) SetBusy(busy bool, stage string) {
	mv.toolbar.SetBusy(busy)
	if busy {
		mv.activity.Start(stage)
	} else {
		mv.activity.Stop()
	}
}

func (mv *MainView) ShowError(err error) {
	dialog.ShowError(err, mv.window)
}

// ShowOpenDialog asks for an image to load. callback receives the chosen path.
func (mv *MainView) ShowOpenDialog(extensions []string, callback func(path string, err error)) {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			callback("", err)
			return
		}
		path := reader.URI().Path()
		reader.Close()
		callback(path, nil)
	}, mv.window)
	d.SetFilter(storage.NewExtensionFileFilter(extensions))
	d.Show()
}

// ShowSaveDialog asks where to export the current image.
func (mv *MainView) ShowSaveDialog(extensions []string, callback func(path string, err error)) {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			callback("", err)
			return
		}
		path := writer.URI().Path()
		writer.Close()
		callback(path, nil)
	}, mv.window)
	d.SetFilter(storage.NewExtensionFileFilter(extensions))
	d.SetFileName("result.png")
	d.Show()
}

func (mv *MainView) GetWindow() fyne.Window {
	return mv.window
}

func (mv *MainView) GetContainer() *fyne.Container {
	return mv.mainContainer
}

func (mv *MainView) GetToolbar() *components.Toolbar {
	return mv.toolbar
}

func (mv *MainView) GetImageDisplay() *components.ImageDisplay {
	return mv.imageDisplay
}

func (mv *MainView) GetStatusBar() *components.StatusBar {
	return mv.statusBar
}

// ViewState is a read-only summary used by tests and the debug log.
type ViewState struct {
	HasOriginalImage bool
	HasCurrentImage  bool
	Busy             bool
	Filter           filters.Kind
	Strength         int
	StatusMessage    string
	HistoryInfo      string
}

func (mv *MainView) GetViewState() ViewState {
	return ViewState{
		HasOriginalImage: mv.imageDisplay.HasOriginalImage(),
		HasCurrentImage:  mv.imageDisplay.HasCurrentImage(),
		Busy:             mv.toolbar.IsBusy(),
		Filter:           mv.toolbar.CurrentFilter(),
		Strength:         mv.toolbar.Strength(),
		StatusMessage:    mv.statusBar.GetStatus(),
		HistoryInfo:      mv.statusBar.GetHistoryInfo(),
	}
}
