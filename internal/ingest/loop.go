package ingest

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/feedwatch/feedwatch/internal/feed"
	"github.com/feedwatch/feedwatch/internal/logging"
	"github.com/feedwatch/feedwatch/internal/series"
)

var log = logging.Component("ingest")

// State describes what the loop is doing.
type State int32

const (
	// StateIdle means the loop is waiting for the next timer fire.
	StateIdle State = iota
	// StatePolling means a tick is in progress.
	StatePolling
	// StateStopped is terminal, reached only on explicit shutdown.
	StateStopped
)

// String returns a human-readable representation of the State.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePolling:
		return "polling"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Sink receives accepted samples after each tick. The archive writer
// satisfies this; a nil sink disables archiving.
type Sink interface {
	Append(samples []series.Sample) error
}

// Stats holds ingestion loop statistics.
type Stats struct {
	Ticks        atomic.Int64
	LinesSeen    atomic.Int64
	Accepted     atomic.Int64
	ParseRejects atomic.Int64
	OrderRejects atomic.Int64
	SinkErrors   atomic.Int64
}

// Config configures the ingestion loop.
type Config struct {
	// Interval is the tick cadence.
	Interval time.Duration

	// Tailer yields newly appended feed lines.
	Tailer *feed.Tailer

	// Store receives accepted samples.
	Store *series.Store

	// Bridge receives the per-tick delta.
	Bridge *Bridge

	// Sink, if non-nil, receives accepted samples for archiving.
	Sink Sink

	// Wakeups, if non-nil, brings the next poll forward (feed watcher).
	Wakeups <-chan struct{}
}

// Loop repeatedly drives tailer → parser → store on a fixed cadence and
// publishes a delta after every tick.
//
// The loop is a single goroutine, so ticks can never overlap; a timer fire
// that lands while a tick is still running is coalesced by time.Ticker,
// never queued. No tick error terminates the loop; only context
// cancellation does, and an in-flight tick always finishes first.
type Loop struct {
	cfg   Config
	state atomic.Int32
	stats Stats
}

// NewLoop creates a loop from the given configuration.
func NewLoop(cfg Config) *Loop {
	return &Loop{cfg: cfg}
}

// State returns the loop's current state.
func (l *Loop) State() State {
	return State(l.state.Load())
}

// Stats returns the loop's statistics counters.
func (l *Loop) Stats() *Stats {
	return &l.stats
}

// Run ticks until ctx is cancelled. It always returns nil so an errgroup
// sibling failure, not the loop, decides the process outcome.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.cfg.Interval)
	defer ticker.Stop()
	defer l.state.Store(int32(StateStopped))

	log.Info("ingestion loop started", "interval", l.cfg.Interval)

	// First poll immediately rather than one interval late.
	l.tick()

	wakeups := l.cfg.Wakeups
	if wakeups == nil {
		wakeups = make(chan struct{})
	}

	for {
		select {
		case <-ctx.Done():
			log.Info("ingestion loop stopped")
			return nil
		case <-ticker.C:
			l.tick()
		case <-wakeups:
			l.tick()
		}
	}
}

// tick runs one poll-parse-ingest-publish cycle.
func (l *Loop) tick() {
	l.state.Store(int32(StatePolling))
	defer l.state.Store(int32(StateIdle))

	l.stats.Ticks.Add(1)
	polledAt := time.Now()

	lines := l.cfg.Tailer.Poll()
	l.stats.LinesSeen.Add(int64(len(lines)))

	parseRejects := 0
	batch := series.NewBatch(len(lines))
	for _, line := range lines {
		sample, reason := feed.Parse(line.Text)
		if reason != feed.RejectNone {
			parseRejects++
			log.Debug("line rejected", "reason", reason.String(), "offset", line.Offset, "text", line.Text)
			continue
		}
		batch.Add(sample)
	}
	l.stats.ParseRejects.Add(int64(parseRejects))

	accepted := l.cfg.Store.Ingest(batch.Samples)
	orderRejects := batch.Len() - accepted
	l.stats.Accepted.Add(int64(accepted))
	l.stats.OrderRejects.Add(int64(orderRejects))

	// The loop is the store's only writer, so the trailing accepted
	// samples are exactly the ones this tick appended.
	if l.cfg.Sink != nil && accepted > 0 {
		if err := l.cfg.Sink.Append(l.cfg.Store.Tail(accepted)); err != nil {
			l.stats.SinkErrors.Add(1)
			log.Warn("archive append failed", "error", err)
		}
	}

	delta := Delta{
		Accepted: accepted,
		Rejected: parseRejects + orderRejects,
		Total:    l.cfg.Store.Len(),
		PolledAt: polledAt,
	}
	delta.Latest, delta.HasLatest = l.cfg.Store.Latest()
	delta.RollingMean, delta.HasMean = l.cfg.Store.RollingMean()

	l.cfg.Bridge.Publish(delta)

	if accepted > 0 {
		log.Debug("tick complete", "accepted", accepted, "rejected", delta.Rejected, "total", delta.Total)
	}
}
