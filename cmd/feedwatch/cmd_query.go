package main

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/feedwatch/feedwatch/internal/archive"
)

func newQueryCmd() *cobra.Command {
	var (
		dir     string
		from    float64
		to      float64
		samples int
	)

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Aggregate statistics over the archived samples",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if dir == "" {
				dir = cfg.Archive.Dir
			}

			q, err := archive.NewQuery(dir)
			if err != nil {
				return err
			}
			defer q.Close()

			var fromPtr, toPtr *float64
			if !math.IsInf(from, -1) {
				fromPtr = &from
			}
			if !math.IsInf(to, 1) {
				toPtr = &to
			}

			summary, err := q.Summarize(cmd.Context(), fromPtr, toPtr)
			if err != nil {
				return err
			}

			if summary.Count == 0 {
				fmt.Println("archive is empty")
				return nil
			}

			fmt.Printf("samples: %d\n", summary.Count)
			fmt.Printf("time:    %g .. %g\n", summary.FirstTime, summary.LastTime)
			fmt.Printf("mean:    %g\n", summary.Mean)
			fmt.Printf("min:     %g\n", summary.Min)
			fmt.Printf("max:     %g\n", summary.Max)

			if samples > 0 {
				rows, err := q.Samples(cmd.Context(), samples)
				if err != nil {
					return err
				}
				fmt.Println()
				for _, s := range rows {
					fmt.Printf("t=%-12g %g\n", s.Time, s.Value)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "archive directory (default: archive.dir from config)")
	cmd.Flags().Float64Var(&from, "from", math.Inf(-1), "lower feed-time bound (inclusive)")
	cmd.Flags().Float64Var(&to, "to", math.Inf(1), "upper feed-time bound (exclusive)")
	cmd.Flags().IntVar(&samples, "samples", 0, "also print up to N archived samples")

	return cmd
}
