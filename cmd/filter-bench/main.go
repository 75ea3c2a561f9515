package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"time"

	"filter-bench/internal/config"
	"filter-bench/internal/controllers"
	"filter-bench/internal/logger"
	"filter-bench/internal/opencv/effects"
	"filter-bench/internal/opencv/memory"
	"filter-bench/internal/services"
	"filter-bench/internal/session"
	"filter-bench/internal/shutdown"
	"filter-bench/internal/views"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/dialog"
)

const (
	AppName    = "Filter Bench"
	AppID      = "com.imageprocessing.filter-bench"
	AppVersion = "1.0.0"
)

const metricsInterval = 30 * time.Second

// Application owns the process-wide components.
type Application struct {
	fyneApp fyne.App
	window  fyne.Window
	logger  logger.Logger
	cfg     config.Config

	controller *controllers.MainController
	view       *views.MainView

	session       *session.Session
	filterService *services.FilterService
	memoryManager *memory.Manager
	shutdown      *shutdown.Manager
}

func main() {
	configPath := flag.String("config", os.Getenv(config.EnvConfigPath), "path to a TOML configuration file")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [-config file] [image]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Configuration failed: %v", err)
	}

	application, err := NewApplication(cfg)
	if err != nil {
		log.Fatalf("Application initialization failed: %v", err)
	}

	application.Run(flag.Arg(0))
}

// NewApplication wires configuration, services, the session and the UI.
func NewApplication(cfg config.Config) (*Application, error) {
	appLogger := logger.New(cfg.Log.Format, cfg.LogLevel())

	appLogger.Info("Application", "starting", map[string]interface{}{
		"version":       AppVersion,
		"go_version":    runtime.Version(),
		"log_level":     cfg.LogLevel().String(),
		"history_depth": cfg.History.MaxDepth,
	})

	memManager := memory.NewManager(appLogger)

	registry, err := effects.NewRegistry(memManager)
	if err != nil {
		return nil, fmt.Errorf("failed to register filters: %w", err)
	}

	imageService := services.NewImageService(appLogger)
	filterService := services.NewFilterService(registry, appLogger)

	sess, err := session.New(session.Config{
		Decoder:         imageService,
		Encoder:         imageService,
		Invoker:         filterService,
		Logger:          appLogger,
		MaxHistoryDepth: cfg.History.MaxDepth,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	fyneApp := app.NewWithID(AppID)
	fyneApp.SetMetadata(&fyne.AppMetadata{
		ID:      AppID,
		Name:    AppName,
		Version: AppVersion,
	})

	window := fyneApp.NewWindow(AppName)
	window.Resize(fyne.NewSize(cfg.Window.Width, cfg.Window.Height))
	window.CenterOnScreen()

	mainView := views.NewMainView(window, filterService.Available(), cfg.DefaultFilter())
	mainController := controllers.NewMainController(sess, memManager, appLogger)
	mainController.SetMainView(mainView)

	shutdownManager := shutdown.NewManager(appLogger)
	shutdownManager.Register("memory manager", memManager)
	shutdownManager.Register("controller", mainController)

	application := &Application{
		fyneApp:       fyneApp,
		window:        window,
		logger:        appLogger,
		cfg:           cfg,
		controller:    mainController,
		view:          mainView,
		session:       sess,
		filterService: filterService,
		memoryManager: memManager,
		shutdown:      shutdownManager,
	}

	application.setupWindowEvents()

	appLogger.Info("Application", "initialized", map[string]interface{}{
		"filters":        len(filterService.Available()),
		"default_filter": cfg.DefaultFilter().String(),
	})

	return application, nil
}

// Run shows the window and blocks until the UI exits. A non-empty
// initialImage is loaded once the window is up.
func (a *Application) Run(initialImage string) {
	a.shutdown.Listen(func() {
		fyne.Do(a.fyneApp.Quit)
	})

	go a.startPerformanceMonitoring(a.shutdown.Context())

	if initialImage != "" {
		a.fyneApp.Lifecycle().SetOnStarted(func() {
			a.controller.LoadPath(initialImage)
		})
	}

	a.window.ShowAndRun()

	a.shutdown.Shutdown()
	a.logger.Info("Application", "terminated", nil)
}

// setupWindowEvents asks before discarding applied filters on close.
func (a *Application) setupWindowEvents() {
	a.window.SetCloseIntercept(func() {
		if a.session.HistoryDepth() == 0 {
			a.closeWindow()
			return
		}

		dialog.ShowConfirm(
			"Exit",
			"Applied filters have not been saved. Exit anyway?",
			func(confirmed bool) {
				if confirmed {
					a.closeWindow()
				}
			},
			a.window,
		)
	})
}

func (a *Application) closeWindow() {
	a.logger.Info("Application", "window close requested", nil)
	a.shutdown.Shutdown()
	a.window.Close()
}

func (a *Application) startPerformanceMonitoring(ctx context.Context) {
	ticker := time.NewTicker(metricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.logPerformanceMetrics()
		case <-ctx.Done():
			return
		}
	}
}

func (a *Application) logPerformanceMetrics() {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	nativeStats := a.memoryManager.GetStats()
	filterStats := a.filterService.Stats()

	a.logger.Debug("Application", "performance metrics", map[string]interface{}{
		"go_memory_mb":        memStats.Alloc / 1024 / 1024,
		"go_gc_runs":          memStats.NumGC,
		"opencv_active_mats":  nativeStats.ActiveMats,
		"opencv_in_use_bytes": nativeStats.InUse(),
		"opencv_peak_bytes":   nativeStats.PeakBytes,
		"filters_applied":     filterStats.TotalProcessed,
		"filters_failed":      filterStats.TotalFailed,
		"avg_filter_ms":       filterStats.AverageTime.Milliseconds(),
		"history_depth":       a.session.HistoryDepth(),
		"goroutine_count":     runtime.NumGoroutine(),
	})
}
