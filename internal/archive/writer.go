// Package archive persists accepted samples to parquet segment files and
// answers aggregate queries over them with DuckDB.
//
// The archive is optional supporting storage for offline analysis; the
// monitor core never reads it on the hot path.
package archive

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress"

	"github.com/feedwatch/feedwatch/internal/logging"
	"github.com/feedwatch/feedwatch/internal/series"
)

var log = logging.Component("archive")

// segmentPattern matches the segment files this package writes.
const segmentPattern = "samples-*.parquet"

// Row is the parquet representation of one archived sample.
type Row struct {
	// Time is the feed timestamp in seconds.
	Time float64 `parquet:"time"`

	// Value is the measured value.
	Value float64 `parquet:"value"`

	// IngestedMs is the wall-clock unix milliseconds of ingestion.
	IngestedMs int64 `parquet:"ingested_ms"`
}

// Options configures the archive writer.
type Options struct {
	// Dir is the segment directory.
	Dir string

	// FlushRows is the buffered row count that triggers a segment flush.
	FlushRows int

	// FlushInterval is the timed flush cadence for partial buffers.
	FlushInterval time.Duration

	// Compression is the parquet codec: zstd, snappy, lz4, gzip, none.
	Compression string
}

// getCompression returns the parquet-go compression codec.
func getCompression(name string) compress.Codec {
	switch name {
	case "snappy":
		return &parquet.Snappy
	case "zstd":
		return &parquet.Zstd
	case "lz4":
		return &parquet.Lz4Raw
	case "gzip":
		return &parquet.Gzip
	case "none":
		return &parquet.Uncompressed
	default:
		return &parquet.Zstd
	}
}

// WriterStats holds archive writer statistics.
type WriterStats struct {
	RowsBuffered    int64
	RowsWritten     int64
	SegmentsWritten int64
	Errors          int64
}

// Writer buffers accepted samples and writes them out as parquet segments.
//
// Writer is safe for concurrent use. Segments are written to a temporary
// file and renamed into place so a query never sees a partial segment.
type Writer struct {
	mu     sync.Mutex
	opts   Options
	buf    []Row
	seq    int64
	closed bool
	stats  WriterStats
}

// NewWriter creates the segment directory and returns a writer.
func NewWriter(opts Options) (*Writer, error) {
	if opts.FlushRows <= 0 {
		opts.FlushRows = 500
	}
	if opts.FlushInterval <= 0 {
		opts.FlushInterval = 5 * time.Second
	}

	if err := os.MkdirAll(opts.Dir, 0755); err != nil {
		return nil, fmt.Errorf("create archive dir: %w", err)
	}

	return &Writer{
		opts: opts,
		buf:  make([]Row, 0, opts.FlushRows),
	}, nil
}

// Append buffers accepted samples, flushing a segment when the buffer
// reaches the row threshold. Satisfies ingest.Sink.
func (w *Writer) Append(samples []series.Sample) error {
	if len(samples) == 0 {
		return nil
	}

	now := time.Now().UnixMilli()

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return fmt.Errorf("archive writer closed")
	}

	for _, s := range samples {
		w.buf = append(w.buf, Row{Time: s.Time, Value: s.Value, IngestedMs: now})
	}
	w.stats.RowsBuffered += int64(len(samples))

	if len(w.buf) >= w.opts.FlushRows {
		return w.flushLocked()
	}
	return nil
}

// Flush writes any buffered rows out as a segment.
func (w *Writer) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.flushLocked()
}

func (w *Writer) flushLocked() error {
	if len(w.buf) == 0 {
		return nil
	}

	w.seq++
	name := fmt.Sprintf("samples-%d-%06d.parquet", time.Now().UnixMilli(), w.seq)
	final := filepath.Join(w.opts.Dir, name)
	tmp := final + ".tmp"

	if err := w.writeSegment(tmp); err != nil {
		w.stats.Errors++
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, final); err != nil {
		w.stats.Errors++
		os.Remove(tmp)
		return fmt.Errorf("publish segment: %w", err)
	}

	w.stats.RowsWritten += int64(len(w.buf))
	w.stats.SegmentsWritten++
	log.Debug("segment written", "path", final, "rows", len(w.buf))

	w.buf = w.buf[:0]
	return nil
}

func (w *Writer) writeSegment(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create segment: %w", err)
	}

	pw := parquet.NewGenericWriter[Row](f,
		parquet.Compression(getCompression(w.opts.Compression)),
	)

	if _, err := pw.Write(w.buf); err != nil {
		f.Close()
		return fmt.Errorf("write rows: %w", err)
	}
	if err := pw.Close(); err != nil {
		f.Close()
		return fmt.Errorf("close parquet writer: %w", err)
	}
	return f.Close()
}

// RunFlusher flushes partial buffers on a timer until ctx is cancelled,
// then performs a final flush.
func (w *Writer) RunFlusher(ctx context.Context) error {
	ticker := time.NewTicker(w.opts.FlushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if err := w.Flush(); err != nil {
				log.Warn("final flush failed", "error", err)
			}
			return nil
		case <-ticker.C:
			if err := w.Flush(); err != nil {
				log.Warn("timed flush failed", "error", err)
			}
		}
	}
}

// Stats returns a copy of the writer statistics.
func (w *Writer) Stats() WriterStats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

// Close flushes remaining rows and marks the writer closed.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	err := w.flushLocked()
	w.closed = true
	return err
}
