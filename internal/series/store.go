package series

import (
	"sync"
)

// Store is the single source of truth for ingested samples.
//
// Samples are kept in strictly increasing Time order; a sample whose time
// is <= the last accepted sample's time is rejected as duplicate or
// out-of-order input. The rolling aggregate and session statistics are
// updated incrementally as part of the same ingest, so readers never
// observe drift between the series and its aggregates.
//
// Store is safe for concurrent use. All reads and the batch ingest share
// one mutex held only for in-memory work, never across I/O, so a full
// redraw is lock-bounded and flag creation's capture of the latest sample
// cannot interleave with a half-applied ingest.
type Store struct {
	mu      sync.RWMutex
	samples []Sample
	rolling *Rolling
	stats   *SessionStats

	rejected int64 // duplicate / out-of-order inputs
}

// NewStore creates an empty store with a rolling window of n samples.
func NewStore(n int) *Store {
	return &Store{
		rolling: NewRolling(n),
		stats:   NewSessionStats(),
	}
}

// Ingest applies a batch of parsed samples and returns how many were
// accepted. The whole batch is applied atomically with respect to readers.
func (s *Store) Ingest(batch []Sample) int {
	if len(batch) == 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	accepted := 0
	for _, smp := range batch {
		if n := len(s.samples); n > 0 && smp.Time <= s.samples[n-1].Time {
			s.rejected++
			continue
		}
		s.samples = append(s.samples, smp)
		s.rolling.Add(smp.Value)
		s.stats.Add(smp.Value)
		accepted++
	}

	return accepted
}

// Latest returns the most recently accepted sample.
func (s *Store) Latest() (Sample, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.samples) == 0 {
		return Sample{}, false
	}
	return s.samples[len(s.samples)-1], true
}

// All returns a copy of the full series in time order.
func (s *Store) All() []Sample {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Sample, len(s.samples))
	copy(out, s.samples)
	return out
}

// Tail returns a copy of the trailing n samples (fewer if the series is
// shorter). Used by the plot, which only renders a bounded window.
func (s *Store) Tail(n int) []Sample {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if n <= 0 || len(s.samples) == 0 {
		return nil
	}
	if n > len(s.samples) {
		n = len(s.samples)
	}

	out := make([]Sample, n)
	copy(out, s.samples[len(s.samples)-n:])
	return out
}

// Len returns the number of accepted samples.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.samples)
}

// RollingMean returns the mean over the trailing window. ok is false when
// no samples have been accepted.
func (s *Store) RollingMean() (float64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rolling.Mean()
}

// Window returns the configured rolling window size.
func (s *Store) Window() int {
	return s.rolling.Window()
}

// Stats returns a snapshot of session-cumulative statistics.
func (s *Store) Stats() StatsResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats.Result()
}

// Rejected returns the number of duplicate or out-of-order samples
// rejected since startup.
func (s *Store) Rejected() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rejected
}
