// Package series holds the in-memory time series: the monotone,
// de-duplicated collection of ingested samples plus its derived statistics.
//
// Key types:
//   - Sample: a single accepted measurement from the feed
//   - Store: the single source of truth read by rendering and flag creation
//   - Rolling: the trailing-window mean aggregate
package series

import "time"

// Sample represents a single measurement from the feed file.
// Immutable once accepted; uniqueness key is Time.
type Sample struct {
	// Time is the feed timestamp in seconds, as written by the producer.
	Time float64

	// Value is the measured value.
	Value float64
}

// TimeDuration returns the feed timestamp as a duration from feed start.
func (s Sample) TimeDuration() time.Duration {
	return time.Duration(s.Time * float64(time.Second))
}

// Batch represents a collection of samples for batch ingestion.
type Batch struct {
	Samples []Sample
}

// NewBatch creates a new batch with the given capacity.
func NewBatch(capacity int) *Batch {
	return &Batch{
		Samples: make([]Sample, 0, capacity),
	}
}

// Add appends a sample to the batch.
func (b *Batch) Add(s Sample) {
	b.Samples = append(b.Samples, s)
}

// Len returns the number of samples in the batch.
func (b *Batch) Len() int {
	return len(b.Samples)
}

// Clear resets the batch for reuse.
func (b *Batch) Clear() {
	b.Samples = b.Samples[:0]
}
