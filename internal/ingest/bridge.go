// Package ingest drives the poll-parse-ingest-publish cycle on a fixed
// cadence, isolated from the interactive goroutine, and provides the
// single hand-off path by which tick results become visible to it.
package ingest

import (
	"sync"
	"time"

	"github.com/feedwatch/feedwatch/internal/series"
)

// Delta is the incremental result of one ingestion tick. The consumer
// always re-reads cumulative state from the series store; the delta is a
// change notification with a convenience payload, so missing an
// intermediate one is harmless.
type Delta struct {
	// Accepted is the number of samples accepted this tick.
	Accepted int

	// Rejected is the number of lines rejected this tick (parse failures
	// plus duplicate/out-of-order samples).
	Rejected int

	// Total is the series length after this tick.
	Total int

	// Latest is the newest accepted sample; HasLatest is false while the
	// series is empty.
	Latest    series.Sample
	HasLatest bool

	// RollingMean is the trailing-window mean; HasMean is false while the
	// series is empty.
	RollingMean float64
	HasMean     bool

	// PolledAt is when the tick ran.
	PolledAt time.Time
}

// Bridge is a single-slot, latest-wins hand-off from the ingestion
// goroutine to the interactive consumer.
//
// Neither side ever blocks on the other: Publish overwrites the slot, and
// Latest reads whatever is current. A capacity-1 notify channel lets a
// headless consumer sleep between deltas; a notification to a full channel
// is dropped because one pending wakeup already covers all missed deltas.
type Bridge struct {
	mu     sync.Mutex
	delta  Delta
	seq    uint64
	notify chan struct{}
}

// NewBridge creates an empty bridge.
func NewBridge() *Bridge {
	return &Bridge{
		notify: make(chan struct{}, 1),
	}
}

// Publish replaces the current delta.
func (b *Bridge) Publish(d Delta) {
	b.mu.Lock()
	b.delta = d
	b.seq++
	b.mu.Unlock()

	select {
	case b.notify <- struct{}{}:
	default:
	}
}

// Latest returns the most recently published delta and its sequence
// number. ok is false before the first publish. Consumers use the sequence
// number to detect that anything changed since their last read.
func (b *Bridge) Latest() (d Delta, seq uint64, ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.delta, b.seq, b.seq > 0
}

// Notify returns the wakeup channel for headless consumers.
func (b *Bridge) Notify() <-chan struct{} {
	return b.notify
}
