// feedwatch monitors an append-only CSV time-series feed.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags.
var Version = "dev"

var cfgPath string

func main() {
	root := &cobra.Command{
		Use:           "feedwatch",
		Short:         "Live monitor for an append-only CSV time-series feed",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&cfgPath, "config", "config.yaml", "config file path")

	root.AddCommand(
		newRunCmd(),
		newReplayCmd(),
		newFlagsCmd(),
		newQueryCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
