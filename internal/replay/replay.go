// Package replay turns a historical CSV into an append-only live feed,
// pacing playback by the input's time column. It is the producer side of
// the monitor, used for demos and for driving tests end to end.
package replay

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/feedwatch/feedwatch/internal/logging"
)

var log = logging.Component("replay")

// Options configures a replay run.
type Options struct {
	// Input is the historical CSV (header with a "time" column required).
	Input string

	// Output is the live feed file, overwritten at start.
	Output string

	// Speed is the playback factor: 1.0 real-time, 2.0 twice as fast.
	// Must be > 0.
	Speed float64
}

// Run replays the input into the output until done or ctx is cancelled.
// Every appended row is flushed and fsynced so the monitor sees whole
// lines as they land.
func Run(ctx context.Context, opts Options) error {
	if opts.Speed <= 0 {
		return fmt.Errorf("speed must be > 0, got %g", opts.Speed)
	}

	header, rows, timeIdx, err := readInput(opts.Input)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(opts.Output), 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	out, err := os.Create(opts.Output)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer out.Close()

	w := csv.NewWriter(out)

	if err := writeRow(out, w, header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	log.Info("replay started",
		"input", opts.Input, "output", opts.Output,
		"rows", len(rows), "speed", opts.Speed)

	var prev *float64
	for _, row := range rows {
		curr := parseTime(row, timeIdx)

		if sleep := pace(prev, curr, opts.Speed); sleep > 0 {
			timer := time.NewTimer(sleep)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}

		if err := writeRow(out, w, row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}

		prev = curr
	}

	log.Info("replay finished", "rows", len(rows))
	return nil
}

// readInput loads the whole historical CSV up front.
func readInput(path string) (header []string, rows [][]string, timeIdx int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, 0, fmt.Errorf("read input: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, 0, fmt.Errorf("input CSV has no header")
	}
	if len(records) == 1 {
		return nil, nil, 0, fmt.Errorf("input CSV has no data rows")
	}

	header = records[0]
	timeIdx = -1
	for i, name := range header {
		if strings.TrimSpace(name) == "time" {
			timeIdx = i
			break
		}
	}
	if timeIdx < 0 {
		return nil, nil, 0, fmt.Errorf("input CSV has no \"time\" column")
	}

	return header, records[1:], timeIdx, nil
}

// parseTime returns the row's time value, or nil when absent/unparsable.
func parseTime(row []string, idx int) *float64 {
	if idx >= len(row) {
		return nil
	}
	t, err := strconv.ParseFloat(strings.TrimSpace(row[idx]), 64)
	if err != nil {
		return nil
	}
	return &t
}

// pace returns how long to sleep before emitting the current row.
func pace(prev, curr *float64, speed float64) time.Duration {
	if prev == nil || curr == nil {
		return 0
	}
	dt := *curr - *prev
	if dt <= 0 {
		return 0
	}
	return time.Duration(dt / speed * float64(time.Second))
}

// writeRow appends one record and forces it to disk, so the consumer never
// observes a partial line as final file state.
func writeRow(f *os.File, w *csv.Writer, record []string) error {
	if err := w.Write(record); err != nil {
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Sync()
}
