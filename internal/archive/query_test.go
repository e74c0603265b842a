package archive

import (
	"context"
	"math"
	"testing"

	"github.com/feedwatch/feedwatch/internal/series"
)

func writeArchive(t *testing.T, dir string, samples []series.Sample) {
	t.Helper()
	w, err := NewWriter(Options{Dir: dir, FlushRows: 1000, Compression: "zstd"})
	if err != nil {
		t.Fatalf("new writer: %v", err)
	}
	if err := w.Append(samples); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestQuery_EmptyArchive(t *testing.T) {
	q, err := NewQuery(t.TempDir())
	if err != nil {
		t.Fatalf("new query: %v", err)
	}
	defer q.Close()

	summary, err := q.Summarize(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if summary.Count != 0 {
		t.Errorf("count=%d, want 0", summary.Count)
	}

	samples, err := q.Samples(context.Background(), 10)
	if err != nil {
		t.Fatalf("samples: %v", err)
	}
	if len(samples) != 0 {
		t.Errorf("samples=%v, want none", samples)
	}
}

func TestQuery_Summarize(t *testing.T) {
	dir := t.TempDir()
	writeArchive(t, dir, []series.Sample{
		{Time: 0.0, Value: 1.0},
		{Time: 1.0, Value: 2.0},
		{Time: 2.0, Value: 3.0},
		{Time: 3.0, Value: 6.0},
	})

	q, err := NewQuery(dir)
	if err != nil {
		t.Fatalf("new query: %v", err)
	}
	defer q.Close()

	summary, err := q.Summarize(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if summary.Count != 4 {
		t.Errorf("count=%d, want 4", summary.Count)
	}
	if math.Abs(summary.Mean-3.0) > 1e-9 {
		t.Errorf("mean=%g, want 3", summary.Mean)
	}
	if summary.Min != 1.0 || summary.Max != 6.0 {
		t.Errorf("min=%g max=%g", summary.Min, summary.Max)
	}
	if summary.FirstTime != 0.0 || summary.LastTime != 3.0 {
		t.Errorf("first=%g last=%g", summary.FirstTime, summary.LastTime)
	}
}

func TestQuery_SummarizeRange(t *testing.T) {
	dir := t.TempDir()
	writeArchive(t, dir, []series.Sample{
		{Time: 0.0, Value: 1.0},
		{Time: 1.0, Value: 2.0},
		{Time: 2.0, Value: 3.0},
	})

	q, err := NewQuery(dir)
	if err != nil {
		t.Fatalf("new query: %v", err)
	}
	defer q.Close()

	from, to := 1.0, 2.0 // half-open: only the middle sample
	summary, err := q.Summarize(context.Background(), &from, &to)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if summary.Count != 1 {
		t.Errorf("count=%d, want 1", summary.Count)
	}
	if summary.Mean != 2.0 {
		t.Errorf("mean=%g, want 2", summary.Mean)
	}
}

func TestQuery_SamplesOrderedAcrossSegments(t *testing.T) {
	dir := t.TempDir()
	// Two segments, newest samples in the first file, so ordering must come
	// from the query, not file order.
	w, err := NewWriter(Options{Dir: dir, FlushRows: 2, Compression: "none"})
	if err != nil {
		t.Fatalf("new writer: %v", err)
	}
	if err := w.Append([]series.Sample{{Time: 2.0, Value: 30}, {Time: 3.0, Value: 40}}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := w.Append([]series.Sample{{Time: 0.0, Value: 10}, {Time: 1.0, Value: 20}}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	q, err := NewQuery(dir)
	if err != nil {
		t.Fatalf("new query: %v", err)
	}
	defer q.Close()

	samples, err := q.Samples(context.Background(), 0)
	if err != nil {
		t.Fatalf("samples: %v", err)
	}
	if len(samples) != 4 {
		t.Fatalf("len=%d, want 4", len(samples))
	}
	for i := 1; i < len(samples); i++ {
		if samples[i].Time <= samples[i-1].Time {
			t.Fatalf("samples out of order: %v", samples)
		}
	}

	limited, err := q.Samples(context.Background(), 2)
	if err != nil {
		t.Fatalf("samples limited: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("limited len=%d, want 2", len(limited))
	}
}
