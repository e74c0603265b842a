package loader

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/feedwatch/feedwatch/config"
	"github.com/feedwatch/feedwatch/internal/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Feed.Path != config.DefaultFeedPath {
		t.Errorf("feed.path=%q", cfg.Feed.Path)
	}
	if cfg.Feed.PollInterval != config.DefaultPollInterval {
		t.Errorf("feed.poll_interval=%v", cfg.Feed.PollInterval)
	}
	if cfg.Feed.Window != config.DefaultWindow {
		t.Errorf("feed.window=%d", cfg.Feed.Window)
	}
	if cfg.Archive.Enabled {
		t.Error("archive should default to disabled")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults must validate: %v", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestLoad_OverridesAndDefaults(t *testing.T) {
	path := writeConfig(t, `
feed:
  path: /tmp/feed.csv
  poll_interval: 500ms
  window: 10
archive:
  enabled: true
  compression: snappy
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Feed.Path != "/tmp/feed.csv" {
		t.Errorf("feed.path=%q", cfg.Feed.Path)
	}
	if cfg.Feed.PollInterval != 500*time.Millisecond {
		t.Errorf("feed.poll_interval=%v", cfg.Feed.PollInterval)
	}
	if cfg.Feed.Window != 10 {
		t.Errorf("feed.window=%d", cfg.Feed.Window)
	}
	if !cfg.Archive.Enabled || cfg.Archive.Compression != "snappy" {
		t.Errorf("archive=%+v", cfg.Archive)
	}

	// Untouched sections keep their defaults.
	if cfg.Flags.Path != config.DefaultFlagsPath {
		t.Errorf("flags.path=%q", cfg.Flags.Path)
	}
	if cfg.Archive.FlushRows != config.DefaultArchiveFlushRows {
		t.Errorf("archive.flush_rows=%d", cfg.Archive.FlushRows)
	}
}

func TestLoad_ExpandsEnvironment(t *testing.T) {
	t.Setenv("FEEDWATCH_DATA", "/var/lib/feedwatch")

	path := writeConfig(t, `
feed:
  path: ${FEEDWATCH_DATA}/live.csv
flags:
  path: ${FEEDWATCH_DATA}/flags.csv
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Feed.Path != "/var/lib/feedwatch/live.csv" {
		t.Errorf("feed.path=%q", cfg.Feed.Path)
	}
	if cfg.Flags.Path != "/var/lib/feedwatch/flags.csv" {
		t.Errorf("flags.path=%q", cfg.Flags.Path)
	}
}

func TestValidate_ClampsPollInterval(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Feed.PollInterval = time.Millisecond
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if cfg.Feed.PollInterval != config.MinPollInterval {
		t.Errorf("interval=%v, want clamped to %v", cfg.Feed.PollInterval, config.MinPollInterval)
	}

	cfg = DefaultConfig()
	cfg.Feed.PollInterval = time.Minute
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if cfg.Feed.PollInterval != config.MaxPollInterval {
		t.Errorf("interval=%v, want clamped to %v", cfg.Feed.PollInterval, config.MaxPollInterval)
	}
}

func TestValidate_Rejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"empty feed path", func(c *Config) { c.Feed.Path = "" }, errors.ErrInvalidConfig},
		{"empty flags path", func(c *Config) { c.Flags.Path = "" }, errors.ErrInvalidConfig},
		{"zero interval", func(c *Config) { c.Feed.PollInterval = 0 }, errors.ErrInvalidInterval},
		{"negative interval", func(c *Config) { c.Feed.PollInterval = -time.Second }, errors.ErrInvalidInterval},
		{"zero window", func(c *Config) { c.Feed.Window = 0 }, errors.ErrInvalidWindow},
		{"bad compression", func(c *Config) { c.Archive.Compression = "brotli" }, errors.ErrInvalidConfig},
	}
	for _, tc := range cases {
		cfg := DefaultConfig()
		tc.mutate(cfg)
		if err := cfg.Validate(); !errors.Is(err, tc.want) {
			t.Errorf("%s: err=%v, want %v", tc.name, err, tc.want)
		}
	}
}

func TestValidate_UIFallbacks(t *testing.T) {
	cfg := DefaultConfig()
	cfg.UI.RefreshInterval = 0
	cfg.UI.PlotWindow = 0
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if cfg.UI.RefreshInterval != config.DefaultUIRefreshInterval {
		t.Errorf("ui.refresh_interval=%v", cfg.UI.RefreshInterval)
	}
	if cfg.UI.PlotWindow != config.DefaultPlotWindow {
		t.Errorf("ui.plot_window=%d", cfg.UI.PlotWindow)
	}
}
