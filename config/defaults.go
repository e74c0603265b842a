// Package config provides configuration defaults for the feedwatch
// application.
//
// This package defines all configurable constants with documented defaults.
// Users can override these values via config.yaml or CLI flags.
package config

import "time"

// =============================================================================
// Feed Defaults
// =============================================================================

const (
	// DefaultFeedPath is the default path of the live feed file.
	// Override via config: feed.path
	DefaultFeedPath = "data/live.csv"

	// DefaultPollInterval is the ingestion loop tick cadence.
	// Override via config: feed.poll_interval
	DefaultPollInterval = 250 * time.Millisecond

	// MinPollInterval and MaxPollInterval bound feed.poll_interval.
	// Faster than 50ms burns CPU on stat calls for no visible benefit;
	// slower than 10s makes the plot feel dead.
	MinPollInterval = 50 * time.Millisecond
	MaxPollInterval = 10 * time.Second

	// DefaultWindow is the rolling mean window size in samples.
	// Override via config: feed.window
	DefaultWindow = 50
)

// =============================================================================
// Flag Ledger Defaults
// =============================================================================

const (
	// DefaultFlagsPath is the default path of the flag ledger file.
	// Override via config: flags.path
	DefaultFlagsPath = "data/flags.csv"
)

// =============================================================================
// Archive Defaults
// =============================================================================

const (
	// DefaultArchiveDir is where parquet segments are written when the
	// archive is enabled.
	// Override via config: archive.dir
	DefaultArchiveDir = "data/archive"

	// DefaultArchiveFlushRows is the row-count threshold that triggers a
	// segment flush.
	// Override via config: archive.flush_rows
	DefaultArchiveFlushRows = 500

	// DefaultArchiveFlushInterval is the timed flush cadence for partially
	// filled segments.
	// Override via config: archive.flush_interval
	DefaultArchiveFlushInterval = 5 * time.Second

	// DefaultArchiveRetention is how long segments are kept before the
	// retention pass removes them. One week.
	// Override via config: archive.retention
	DefaultArchiveRetention = 168 * time.Hour

	// DefaultArchiveCompression is the parquet compression codec.
	// Override via config: archive.compression
	DefaultArchiveCompression = "zstd"
)

// =============================================================================
// UI Defaults
// =============================================================================

const (
	// DefaultUIRefreshInterval is how often the TUI re-reads the bridge
	// and redraws.
	// Override via config: ui.refresh_interval
	DefaultUIRefreshInterval = 250 * time.Millisecond

	// DefaultPlotWindow is the number of trailing samples shown in the
	// sparkline plot.
	// Override via config: ui.plot_window
	DefaultPlotWindow = 120
)
