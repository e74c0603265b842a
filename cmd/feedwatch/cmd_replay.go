package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/feedwatch/feedwatch/internal/logging"
	"github.com/feedwatch/feedwatch/internal/replay"
)

func newReplayCmd() *cobra.Command {
	var (
		input  string
		output string
		speed  float64
	)

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay a historical CSV as a live append-only feed",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if output == "" {
				output = cfg.Feed.Path
			}

			logging.Init(slog.LevelInfo, false)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			err = replay.Run(ctx, replay.Options{
				Input:  input,
				Output: output,
				Speed:  speed,
			})
			if err == context.Canceled {
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVar(&input, "input", "data/historical.csv", "source historical CSV")
	cmd.Flags().StringVar(&output, "output", "", "live feed output (default: feed.path from config)")
	cmd.Flags().Float64Var(&speed, "speed", 1.0, "playback speed (1.0 = real-time)")

	return cmd
}
