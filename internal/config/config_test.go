package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestValidate checks mode validation and default filling.
func TestValidate(t *testing.T) {
	t.Parallel()

	// Nil settings.
	err := Validate(nil)
	require.Error(t, err)

	// Unknown monitor mode.
	cfg := &Config{
		MonitorMode: "psychic",
	}

	err = Validate(cfg)
	require.Error(t, err)

	// Empty settings fill up with defaults.
	cfg = new(Config)

	err = Validate(cfg)
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)

	// Explicit values survive validation.
	cfg = &Config{
		MonitorMode:     "poll",
		PollInterval:    2 * time.Second,
		DisplayInterval: 3 * time.Second,
		DisplaySlots:    4,
		SlotCapacity:    1,
		HistorySize:     64,
		LogLevel:        "debug",
	}

	err = Validate(cfg)
	require.NoError(t, err)
	require.Equal(t, "poll", cfg.MonitorMode)
	require.Equal(t, 2*time.Second, cfg.PollInterval)
	require.Equal(t, 4, cfg.DisplaySlots)
}

// TestSaveLoadRoundtrip ensures settings are persisted and loaded back
// correctly.
func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")

	cfg := &Config{
		MonitorMode:     "poll",
		PollInterval:    500 * time.Millisecond,
		DisplayInterval: 2 * time.Second,
		DisplaySlots:    3,
		SlotCapacity:    2,
		HistorySize:     128,
		LogLevel:        "warn",
	}

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg, loaded)

	// File exists.
	_, err = os.Stat(path)
	require.NoError(t, err)
}

// TestLoadMissingDefaultPath verifies a missing file at the default location
// yields the built-in settings, while an explicit missing path is an error.
func TestLoadMissingDefaultPath(t *testing.T) {
	// Fresh directory so the default settings filename never resolves to a
	// real file.
	origDir, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Chdir(origDir) })
	require.NoError(t, os.Chdir(t.TempDir()))

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)

	_, err = Load("does-not-exist.yaml")
	require.Error(t, err)
}
