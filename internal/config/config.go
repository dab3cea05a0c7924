package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds scheduling parameters shared by the alarm binaries.
type Config struct {
	// MonitorMode selects how the monitor waits for deadlines: "event" arms
	// a timer for the nearest deadline, "poll" sweeps at PollInterval.
	MonitorMode string `yaml:"monitor_mode"`
	// PollInterval is the sweep period used in "poll" mode.
	PollInterval time.Duration `yaml:"poll_interval"`
	// DisplayInterval is how often display workers render their group.
	DisplayInterval time.Duration `yaml:"display_interval"`
	// DisplaySlots is the total number of display workers available.
	DisplaySlots int `yaml:"display_slots"`
	// SlotCapacity is how many alarms of one group share a single worker.
	SlotCapacity int `yaml:"slot_capacity"`
	// HistorySize is how many recent events the session keeps for the
	// closing summary.
	HistorySize int `yaml:"history_size"`
	// LogLevel is the minimum level emitted by the engine logger.
	LogLevel string `yaml:"log_level"`
}

const (
	// DefaultConfigFilename is the default filename for scheduler settings.
	DefaultConfigFilename = "alarm-scheduler-settings.yaml"

	// DefaultMonitorMode is the monitor strategy used when none is
	// configured.
	DefaultMonitorMode = "event"

	// DefaultPollInterval is the default sweep period in "poll" mode.
	DefaultPollInterval = time.Second

	// DefaultDisplayInterval is the default render period of display
	// workers.
	DefaultDisplayInterval = 5 * time.Second

	// DefaultDisplaySlots is the default size of the display worker pool.
	DefaultDisplaySlots = 10

	// DefaultSlotCapacity is the default number of alarms per worker.
	DefaultSlotCapacity = 2

	// DefaultHistorySize is the default size of the event history ring.
	DefaultHistorySize = 512

	// DefaultLogLevel is the default engine log level.
	DefaultLogLevel = "info"

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errUnknownMonitorMode is returned for a monitor mode that is neither
	// "event" nor "poll".
	errUnknownMonitorMode = errors.New(`monitor mode must be "event" or "poll"`)
)

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		MonitorMode:     DefaultMonitorMode,
		PollInterval:    DefaultPollInterval,
		DisplayInterval: DefaultDisplayInterval,
		DisplaySlots:    DefaultDisplaySlots,
		SlotCapacity:    DefaultSlotCapacity,
		HistorySize:     DefaultHistorySize,
		LogLevel:        DefaultLogLevel,
	}
}

// Load reads configuration from the provided path and validates it. An
// absent file at the default path is not an error: the scheduler runs on
// built-in defaults.
func Load(path string) (*Config, error) {
	usingDefaultPath := path == ""
	if usingDefaultPath {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if usingDefaultPath && errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}

		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes settings to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the provided settings and fills in defaults for unset
// fields.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.MonitorMode == "" {
		cfg.MonitorMode = DefaultMonitorMode
	}

	if cfg.MonitorMode != "event" && cfg.MonitorMode != "poll" {
		return fmt.Errorf("%w, got %q", errUnknownMonitorMode, cfg.MonitorMode)
	}

	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}

	if cfg.DisplayInterval <= 0 {
		cfg.DisplayInterval = DefaultDisplayInterval
	}

	if cfg.DisplaySlots <= 0 {
		cfg.DisplaySlots = DefaultDisplaySlots
	}

	if cfg.SlotCapacity <= 0 {
		cfg.SlotCapacity = DefaultSlotCapacity
	}

	if cfg.HistorySize <= 0 {
		cfg.HistorySize = DefaultHistorySize
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}

	return nil
}
