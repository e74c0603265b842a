package main

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/feedwatch/feedwatch/internal/archive"
	"github.com/feedwatch/feedwatch/internal/feed"
	"github.com/feedwatch/feedwatch/internal/ingest"
	"github.com/feedwatch/feedwatch/internal/ledger"
	"github.com/feedwatch/feedwatch/internal/loader"
	"github.com/feedwatch/feedwatch/internal/logging"
	"github.com/feedwatch/feedwatch/internal/series"
	"github.com/feedwatch/feedwatch/internal/ui"
)

// loadConfig loads the config file named by --config; a missing file means
// all defaults.
func loadConfig() (*loader.Config, error) {
	cfg, err := loader.Load(cfgPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return loader.DefaultConfig(), nil
		}
		return nil, err
	}
	return cfg, nil
}

func newRunCmd() *cobra.Command {
	var (
		feedPath    string
		flagsPath   string
		interval    time.Duration
		window      int
		noUI        bool
		archiveFlag bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Monitor the live feed",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			// CLI overrides
			if feedPath != "" {
				cfg.Feed.Path = feedPath
			}
			if flagsPath != "" {
				cfg.Flags.Path = flagsPath
			}
			if interval > 0 {
				cfg.Feed.PollInterval = interval
			}
			if window > 0 {
				cfg.Feed.Window = window
			}
			if archiveFlag {
				cfg.Archive.Enabled = true
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			return runMonitor(cfg, noUI)
		},
	}

	cmd.Flags().StringVar(&feedPath, "feed", "", "feed file path (overrides config)")
	cmd.Flags().StringVar(&flagsPath, "flags-file", "", "flag ledger path (overrides config)")
	cmd.Flags().DurationVar(&interval, "interval", 0, "poll interval (overrides config)")
	cmd.Flags().IntVar(&window, "window", 0, "rolling window size (overrides config)")
	cmd.Flags().BoolVar(&noUI, "no-ui", false, "run headless, logging deltas instead of drawing")
	cmd.Flags().BoolVar(&archiveFlag, "archive", false, "enable the parquet sample archive")

	return cmd
}

func runMonitor(cfg *loader.Config, noUI bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	useUI := !noUI && term.IsTerminal(int(os.Stdout.Fd()))

	// The TUI owns the terminal, so logs go to a file or nowhere.
	level := logging.ParseLevel(cfg.Log.Level)
	jsonFormat := cfg.Log.Format == "json"
	switch {
	case cfg.Log.File != "":
		if err := logging.InitFile(cfg.Log.File, level, jsonFormat); err != nil {
			return err
		}
	case useUI:
		logging.InitDiscard()
	default:
		logging.Init(level, jsonFormat)
	}
	defer logging.Close()

	log := logging.Component("main")
	log.Info("feedwatch starting", "version", Version, "feed", cfg.Feed.Path,
		"interval", cfg.Feed.PollInterval, "window", cfg.Feed.Window)

	store := series.NewStore(cfg.Feed.Window)

	lg, err := ledger.Open(cfg.Flags.Path, store)
	if err != nil {
		return err
	}
	defer lg.Close()
	log.Info("flag ledger loaded", "path", cfg.Flags.Path, "flags", lg.Len())

	bridge := ingest.NewBridge()
	tailer := feed.NewTailer(cfg.Feed.Path)

	g, gctx := errgroup.WithContext(ctx)

	// Optional parquet archive of accepted samples.
	var sink ingest.Sink
	if cfg.Archive.Enabled {
		aw, err := archive.NewWriter(archive.Options{
			Dir:           cfg.Archive.Dir,
			FlushRows:     cfg.Archive.FlushRows,
			FlushInterval: cfg.Archive.FlushInterval,
			Compression:   cfg.Archive.Compression,
		})
		if err != nil {
			return err
		}
		defer aw.Close()
		sink = aw
		g.Go(func() error { return aw.RunFlusher(gctx) })

		ret := archive.NewRetention(cfg.Archive.Dir, cfg.Archive.Retention)
		g.Go(func() error { return ret.Run(gctx) })
	}

	// Feed watcher wakeups supplement the poll ticker. The monitor works
	// without them, so a watch failure only costs latency.
	var wakeups <-chan struct{}
	if err := os.MkdirAll(filepath.Dir(cfg.Feed.Path), 0755); err == nil {
		if w, err := feed.NewWatcher(cfg.Feed.Path); err == nil {
			defer w.Close()
			wakeups = w.Wakeups()
			g.Go(func() error { w.Run(gctx); return nil })
		} else {
			log.Warn("feed watcher unavailable, polling only", "error", err)
		}
	}

	loop := ingest.NewLoop(ingest.Config{
		Interval: cfg.Feed.PollInterval,
		Tailer:   tailer,
		Store:    store,
		Bridge:   bridge,
		Sink:     sink,
		Wakeups:  wakeups,
	})
	g.Go(func() error { return loop.Run(gctx) })

	if useUI {
		model := ui.New(store, lg, bridge, cfg.Feed.Path, cfg.UI.RefreshInterval, cfg.UI.PlotWindow)
		p := tea.NewProgram(model, tea.WithAltScreen())

		g.Go(func() error {
			<-gctx.Done()
			p.Quit()
			return nil
		})
		g.Go(func() error {
			_, err := p.Run()
			cancel() // UI exit ends the process
			return err
		})
	} else {
		g.Go(func() error {
			runHeadless(gctx, bridge)
			return nil
		})
	}

	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	log.Info("feedwatch stopped", "samples", store.Len(), "flags", lg.Len())
	return err
}

// runHeadless logs each delta that carried new samples until shutdown.
func runHeadless(ctx context.Context, bridge *ingest.Bridge) {
	log := logging.Component("headless")
	var seen uint64

	for {
		select {
		case <-ctx.Done():
			return
		case <-bridge.Notify():
			d, seq, ok := bridge.Latest()
			if !ok || seq == seen {
				continue
			}
			seen = seq
			if d.Accepted == 0 && d.Rejected == 0 {
				continue
			}
			log.Info("delta",
				"accepted", d.Accepted, "rejected", d.Rejected, "total", d.Total,
				"latest", d.Latest.Value, "rolling_mean", d.RollingMean)
		}
	}
}
