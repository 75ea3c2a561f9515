package config

import (
	"os"
	"path/filepath"
	"testing"

	"filter-bench/internal/filters"
	"filter-bench/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv(EnvLogLevel, "")
	t.Setenv(EnvDebug, "")
	t.Setenv(EnvHistoryDepth, "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, logger.InfoLevel, cfg.LogLevel())
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bench.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[log]
level = "warn"
format = "json"

[history]
max_depth = 5

[window]
width = 1024
height = 768
`), 0o600))

	t.Setenv(EnvLogLevel, "")
	t.Setenv(EnvDebug, "1")
	t.Setenv(EnvHistoryDepth, "12")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 12, cfg.History.MaxDepth)
	assert.Equal(t, float32(1024), cfg.Window.Width)
	assert.Equal(t, "BrightnessHSV", cfg.Filters.Default)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv(EnvLogLevel, "")
	t.Setenv(EnvDebug, "")

	t.Setenv(EnvHistoryDepth, "lots")
	_, err := Load("")
	assert.Error(t, err)

	t.Setenv(EnvHistoryDepth, "-1")
	_, err = Load("")
	assert.ErrorContains(t, err, "max_depth")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestDefaultFilter(t *testing.T) {
	cfg := Default()
	assert.Equal(t, filters.BrightnessHSV, cfg.DefaultFilter())

	cfg.Filters.Default = "edge coloring"
	require.NoError(t, cfg.Validate())
	assert.Equal(t, filters.EdgeColoring, cfg.DefaultFilter())

	cfg.Filters.Default = "Emboss"
	assert.ErrorContains(t, cfg.Validate(), "Emboss")
	assert.Equal(t, filters.BrightnessHSV, cfg.DefaultFilter())
}
