package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/feedwatch/feedwatch/internal/ledger"
)

func newFlagsCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "flags",
		Short: "List persisted flags",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if path == "" {
				path = cfg.Flags.Path
			}

			flags, err := ledger.Load(path)
			if err != nil {
				return err
			}
			if len(flags) == 0 {
				fmt.Println("no flags")
				return nil
			}

			for _, f := range flags {
				created := ""
				if !f.CreatedAt.IsZero() {
					created = f.CreatedAt.Local().Format(time.RFC3339)
				}
				fmt.Printf("t=%-12g %-40q %s\n", f.Time, f.Description, created)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "file", "", "flag ledger path (default: flags.path from config)")

	return cmd
}
