// Package loader handles configuration file loading, validation, and
// default application.
//
// Configuration is YAML with environment variable expansion. Every value
// has a documented default in the config package; a missing file is not an
// error, it just means all defaults.
package loader

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/feedwatch/feedwatch/config"
	"github.com/feedwatch/feedwatch/internal/errors"
	"github.com/feedwatch/feedwatch/internal/logging"
)

var log = logging.Component("loader")

// Config is the complete feedwatch configuration.
type Config struct {
	Feed    FeedConfig    `yaml:"feed"`
	Flags   FlagsConfig   `yaml:"flags"`
	Archive ArchiveConfig `yaml:"archive"`
	Log     LogConfig     `yaml:"log"`
	UI      UIConfig      `yaml:"ui"`
}

// FeedConfig configures the feed file and ingestion.
type FeedConfig struct {
	// Path is the live feed file to monitor.
	Path string `yaml:"path"`

	// PollInterval is the ingestion tick cadence.
	PollInterval time.Duration `yaml:"poll_interval"`

	// Window is the rolling mean window size in samples.
	Window int `yaml:"window"`
}

// FlagsConfig configures the flag ledger.
type FlagsConfig struct {
	// Path is the flag ledger file.
	Path string `yaml:"path"`
}

// ArchiveConfig configures the optional parquet sample archive.
type ArchiveConfig struct {
	Enabled       bool          `yaml:"enabled"`
	Dir           string        `yaml:"dir"`
	FlushRows     int           `yaml:"flush_rows"`
	FlushInterval time.Duration `yaml:"flush_interval"`
	Retention     time.Duration `yaml:"retention"`
	Compression   string        `yaml:"compression"`
}

// LogConfig configures logging output.
type LogConfig struct {
	// Level is debug, info, warn, or error.
	Level string `yaml:"level"`

	// Format is text or json.
	Format string `yaml:"format"`

	// File redirects logs to a file. Required for readable logs while the
	// TUI owns the terminal; empty means stderr (headless) or discard (TUI).
	File string `yaml:"file"`
}

// UIConfig configures the terminal UI.
type UIConfig struct {
	// RefreshInterval is the TUI redraw cadence.
	RefreshInterval time.Duration `yaml:"refresh_interval"`

	// PlotWindow is how many trailing samples the plot shows.
	PlotWindow int `yaml:"plot_window"`
}

// DefaultConfig returns a configuration with all defaults applied.
func DefaultConfig() *Config {
	return &Config{
		Feed: FeedConfig{
			Path:         config.DefaultFeedPath,
			PollInterval: config.DefaultPollInterval,
			Window:       config.DefaultWindow,
		},
		Flags: FlagsConfig{
			Path: config.DefaultFlagsPath,
		},
		Archive: ArchiveConfig{
			Enabled:       false,
			Dir:           config.DefaultArchiveDir,
			FlushRows:     config.DefaultArchiveFlushRows,
			FlushInterval: config.DefaultArchiveFlushInterval,
			Retention:     config.DefaultArchiveRetention,
			Compression:   config.DefaultArchiveCompression,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		UI: UIConfig{
			RefreshInterval: config.DefaultUIRefreshInterval,
			PlotWindow:      config.DefaultPlotWindow,
		},
	}
}

// Load loads configuration from a YAML file, starting from defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	cfg := DefaultConfig()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks value ranges and normalizes where a clamp is friendlier
// than a failure.
func (c *Config) Validate() error {
	if c.Feed.Path == "" {
		return errors.Wrap(errors.ErrInvalidConfig, "feed.path is empty")
	}
	if c.Flags.Path == "" {
		return errors.Wrap(errors.ErrInvalidConfig, "flags.path is empty")
	}

	if c.Feed.PollInterval <= 0 {
		return errors.Wrapf(errors.ErrInvalidInterval, "feed.poll_interval %v", c.Feed.PollInterval)
	}
	if c.Feed.PollInterval < config.MinPollInterval {
		log.Warn("feed.poll_interval clamped", "configured", c.Feed.PollInterval, "min", config.MinPollInterval)
		c.Feed.PollInterval = config.MinPollInterval
	}
	if c.Feed.PollInterval > config.MaxPollInterval {
		log.Warn("feed.poll_interval clamped", "configured", c.Feed.PollInterval, "max", config.MaxPollInterval)
		c.Feed.PollInterval = config.MaxPollInterval
	}

	if c.Feed.Window < 1 {
		return errors.Wrapf(errors.ErrInvalidWindow, "feed.window %d", c.Feed.Window)
	}

	switch c.Archive.Compression {
	case "zstd", "snappy", "lz4", "gzip", "none":
	default:
		return errors.Wrapf(errors.ErrInvalidConfig, "archive.compression %q", c.Archive.Compression)
	}

	if c.UI.RefreshInterval <= 0 {
		c.UI.RefreshInterval = config.DefaultUIRefreshInterval
	}
	if c.UI.PlotWindow < 1 {
		c.UI.PlotWindow = config.DefaultPlotWindow
	}

	return nil
}
