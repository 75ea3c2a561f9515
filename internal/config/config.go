package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"filter-bench/internal/filters"
	"filter-bench/internal/logger"

	"github.com/BurntSushi/toml"
)

// Config holds the settings read at startup.
type Config struct {
	Log     LogConfig     `toml:"log"`
	History HistoryConfig `toml:"history"`
	Window  WindowConfig  `toml:"window"`
	Filters FiltersConfig `toml:"filters"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "console" or "json"
}

type HistoryConfig struct {
	// MaxDepth caps the undo history. Zero means unbounded.
	MaxDepth int `toml:"max_depth"`
}

type WindowConfig struct {
	Width  float32 `toml:"width"`
	Height float32 `toml:"height"`
}

type FiltersConfig struct {
	Default string `toml:"default"`
}

const (
	EnvConfigPath   = "FILTER_BENCH_CONFIG"
	EnvHistoryDepth = "FILTER_BENCH_HISTORY_DEPTH"
	EnvLogLevel     = "LOG_LEVEL"
	EnvDebug        = "DEBUG"
)

func Default() Config {
	return Config{
		Log:     LogConfig{Level: "info", Format: "console"},
		History: HistoryConfig{MaxDepth: 0},
		Window:  WindowConfig{Width: 800, Height: 600},
		Filters: FiltersConfig{Default: "BrightnessHSV"},
	}
}

// Load reads the TOML file at path (skipped when path is empty) on top of
// the defaults, then applies environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(os.Getenv); err != nil {
		return cfg, err
	}

	return cfg, cfg.Validate()
}

func (c *Config) applyEnv(getenv func(string) string) error {
	switch {
	case getenv(EnvLogLevel) != "":
		c.Log.Level = getenv(EnvLogLevel)
	case getenv(EnvDebug) == "1":
		c.Log.Level = "debug"
	}

	if raw := getenv(EnvHistoryDepth); raw != "" {
		depth, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("invalid %s=%q: %w", EnvHistoryDepth, raw, err)
		}
		c.History.MaxDepth = depth
	}
	return nil
}

func (c Config) Validate() error {
	var errs []error
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	if c.Log.Format != "console" && c.Log.Format != "json" {
		errs = append(errs, fmt.Errorf("unknown log format %q", c.Log.Format))
	}
	if c.History.MaxDepth < 0 {
		errs = append(errs, fmt.Errorf("history.max_depth must be >= 0, got %d", c.History.MaxDepth))
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("invalid window size %.0fx%.0f", c.Window.Width, c.Window.Height))
	}
	if _, ok := filters.ParseKind(c.Filters.Default); !ok {
		errs = append(errs, fmt.Errorf("unknown default filter %q", c.Filters.Default))
	}
	return errors.Join(errs...)
}

// LogLevel returns the parsed level; Validate has already rejected bad input.
func (c Config) LogLevel() logger.LogLevel {
	level, _ := logger.ParseLevel(c.Log.Level)
	return level
}

// DefaultFilter is the kind preselected in the toolbar.
func (c Config) DefaultFilter() filters.Kind {
	kind, ok := filters.ParseKind(c.Filters.Default)
	if !ok {
		return filters.BrightnessHSV
	}
	return kind
}
