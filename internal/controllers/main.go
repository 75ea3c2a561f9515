package controllers

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"filter-bench/internal/filters"
	"filter-bench/internal/logger"
	"filter-bench/internal/models"
	"filter-bench/internal/services"
	"filter-bench/internal/session"
	"filter-bench/internal/views"

	"fyne.io/fyne/v2"
)

const operationTimeout = 2 * time.Minute

// NativeMemory reports bytes held outside the Go heap.
type NativeMemory interface {
	InUse() int64
}

// MainController maps view events onto session commands. Each command runs
// off the UI goroutine and reports back through fyne.Do.
type MainController struct {
	session *session.Session
	native  NativeMemory
	logger  logger.Logger

	mainView *views.MainView

	mu     sync.Mutex
	busy   bool
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewMainController(sess *session.Session, native NativeMemory, log logger.Logger) *MainController {
	if log == nil {
		log = logger.Nop()
	}
	return &MainController{
		session: sess,
		native:  native,
		logger:  log,
	}
}

// SetMainView associates the main view with this controller.
func (mc *MainController) SetMainView(view *views.MainView) {
	mc.mainView = view
	mc.setupViewEventHandlers()
}

func (mc *MainController) setupViewEventHandlers() {
	if mc.mainView == nil {
		return
	}

	mc.mainView.SetLoadImageHandler(mc.LoadImage)
	mc.mainView.SetApplyFilterHandler(mc.ApplyFilter)
	mc.mainView.SetRevertHandler(mc.Revert)
	mc.mainView.SetSaveImageHandler(mc.SaveImage)
	mc.mainView.SetFilterChangeHandler(mc.ChangeFilter)
}

// LoadImage opens the file chooser and loads the selection.
func (mc *MainController) LoadImage() {
	if mc.mainView == nil {
		return
	}
	mc.mainView.ShowOpenDialog(services.OpenExtensions, func(path string, err error) {
		if err != nil {
			mc.handleError("file selection", err)
			return
		}
		if path != "" {
			mc.LoadPath(path)
		}
	})
}

// LoadPath decodes path and displays it as both original and current image.
func (mc *MainController) LoadPath(path string) {
	mc.run("Loading image", func(ctx context.Context) error {
		meta, err := mc.session.Load(ctx, path)
		if err != nil {
			return err
		}

		original, err := mc.session.Original()
		if err != nil {
			return err
		}

		mc.updateView(func(v *views.MainView) {
			v.SetOriginalImage(original)
			v.SetCurrentImage(original)
			v.SetImageInfo(meta)
			v.UpdateStatus("Image loaded")
		})
		return nil
	})
}

// ApplyFilter applies the filter and strength currently selected in the view.
func (mc *MainController) ApplyFilter() {
	if mc.mainView == nil {
		return
	}

	kind := mc.mainView.SelectedFilter()
	strength, err := mc.mainView.Strength()
	if err != nil {
		mc.handleError("filter parameters", err)
		return
	}
	params, err := mc.mainView.FilterParams()
	if err != nil {
		mc.handleError("filter parameters", err)
		return
	}

	mc.Apply(kind.String(), strength, params)
}

// Apply runs filterID with strength and params on the current image.
func (mc *MainController) Apply(filterID string, strength int, params []any) {
	mc.run("Applying "+filterID, func(ctx context.Context) error {
		result, err := mc.session.Apply(ctx, filterID, strength, params)
		if err != nil {
			return err
		}

		mc.updateView(func(v *views.MainView) {
			v.SetCurrentImage(result.Image)
			v.UpdateStatus(fmt.Sprintf("Applied %s (strength %d)", result.Kind.DisplayName(), result.Strength))
		})
		return nil
	})
}

// Revert steps back one entry in the history, or to the original image.
func (mc *MainController) Revert() {
	mc.run("Reverting", func(ctx context.Context) error {
		result, err := mc.session.Revert()
		if err != nil {
			return err
		}

		status := "Reverted"
		if !result.FromHistory {
			status = "Restored original image"
		}
		mc.updateView(func(v *views.MainView) {
			v.SetCurrentImage(result.Image)
			v.UpdateStatus(status)
		})
		return nil
	})
}

// SaveImage opens the save dialog and exports the current image.
func (mc *MainController) SaveImage() {
	if mc.mainView == nil {
		return
	}
	if !mc.session.Loaded() {
		mc.handleError("save", models.ErrNoImage)
		return
	}
	mc.mainView.ShowSaveDialog(services.SaveExtensions, func(path string, err error) {
		if err != nil {
			mc.handleError("file selection", err)
			return
		}
		if path != "" {
			mc.SavePath(path)
		}
	})
}

// SavePath writes the current image to path.
func (mc *MainController) SavePath(path string) {
	mc.run("Saving image", func(ctx context.Context) error {
		if err := mc.session.Save(ctx, path); err != nil {
			return err
		}
		mc.updateView(func(v *views.MainView) {
			v.UpdateStatus("Saved " + path)
		})
		return nil
	})
}

// ChangeFilter records a change of the selected filter.
func (mc *MainController) ChangeFilter(kind filters.Kind) {
	mc.logger.Debug("MainController", "filter selected", map[string]interface{}{
		"filter":           kind.String(),
		"default_strength": kind.DefaultStrength(),
	})
	if mc.mainView != nil {
		mc.mainView.UpdateStatus(kind.DisplayName() + " selected")
	}
}

// run executes op on a goroutine unless another operation is in flight.
func (mc *MainController) run(action string, op func(ctx context.Context) error) {
	mc.mu.Lock()
	if mc.busy {
		mc.mu.Unlock()
		mc.logger.Debug("MainController", "operation ignored while busy", map[string]interface{}{"action": action})
		return
	}
	mc.busy = true
	ctx, cancel := context.WithTimeout(context.Background(), operationTimeout)
	mc.cancel = cancel
	mc.wg.Add(1)
	mc.mu.Unlock()

	mc.updateView(func(v *views.MainView) {
		v.SetBusy(true, action+"...")
	})

	go func() {
		defer mc.wg.Done()
		defer cancel()

		startTime := time.Now()
		err := op(ctx)

		mc.mu.Lock()
		mc.busy = false
		mc.cancel = nil
		mc.mu.Unlock()

		if err != nil {
			mc.handleError(action, err)
		} else {
			mc.logger.Debug("MainController", "operation completed", map[string]interface{}{
				"action":   action,
				"duration": time.Since(startTime).String(),
			})
		}

		depth := mc.session.HistoryDepth()
		imageBytes := mc.session.MemoryUsage()
		var nativeBytes int64
		if mc.native != nil {
			nativeBytes = mc.native.InUse()
		}

		mc.updateView(func(v *views.MainView) {
			v.SetBusy(false, "")
			v.SetHistoryDepth(depth)
			v.SetMemoryInfo(imageBytes, nativeBytes)
		})
	}()
}

// IsBusy reports whether an operation is in flight.
func (mc *MainController) IsBusy() bool {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	return mc.busy
}

// Wait blocks until every started operation has finished.
func (mc *MainController) Wait() {
	mc.wg.Wait()
}

func (mc *MainController) updateView(update func(v *views.MainView)) {
	if mc.mainView == nil {
		return
	}
	view := mc.mainView
	fyne.Do(func() {
		update(view)
	})
}

// handleError logs err and shows it to the user.
func (mc *MainController) handleError(action string, err error) {
	fields := map[string]interface{}{"action": action}

	var decodeErr *models.DecodeError
	var unknownErr *models.UnknownFilterError
	var applyErr *models.FilterApplicationError
	switch {
	case errors.As(err, &decodeErr):
		fields["path"] = decodeErr.Path
	case errors.As(err, &unknownErr):
		fields["filter"] = unknownErr.ID
	case errors.As(err, &applyErr):
		fields["filter"] = applyErr.Filter
		fields["strength"] = applyErr.Strength
	case errors.Is(err, models.ErrNoImage):
		fields["state"] = "empty"
	}
	mc.logger.Error("MainController", err, fields)

	mc.updateView(func(v *views.MainView) {
		v.UpdateStatus("Failed: " + action)
		v.ShowError(err)
	})
}

// Shutdown cancels the running operation and waits for it to return.
func (mc *MainController) Shutdown() {
	mc.mu.Lock()
	if mc.cancel != nil {
		mc.cancel()
	}
	mc.mu.Unlock()

	mc.wg.Wait()
}
