package series

import (
	"math"

	"github.com/DataDog/sketches-go/ddsketch"
)

// sketchAccuracy is the DDSketch relative accuracy (1% error).
const sketchAccuracy = 0.01

// SessionStats maintains running statistics over every sample accepted
// since startup. Percentiles come from a DDSketch; the sketch is
// insert-only, so they are session-cumulative rather than windowed.
//
// SessionStats is not safe for concurrent use on its own; the owning Store
// serializes access.
type SessionStats struct {
	count int64
	sum   float64
	min   float64
	max   float64

	// sketch is nil if construction failed; percentiles are then absent.
	sketch *ddsketch.DDSketch
}

// NewSessionStats creates an empty SessionStats.
func NewSessionStats() *SessionStats {
	s := &SessionStats{
		min: math.MaxFloat64,
		max: -math.MaxFloat64,
	}

	sketch, err := ddsketch.NewDefaultDDSketch(sketchAccuracy)
	if err == nil {
		s.sketch = sketch
	}

	return s
}

// Add folds a value into the statistics.
func (s *SessionStats) Add(v float64) {
	s.count++
	s.sum += v

	if v < s.min {
		s.min = v
	}
	if v > s.max {
		s.max = v
	}

	if s.sketch != nil {
		// DDSketch rejects values it cannot index (e.g. zero with some
		// mappings); a failed insert only degrades percentile accuracy.
		_ = s.sketch.Add(v)
	}
}

// Count returns the number of values added.
func (s *SessionStats) Count() int64 {
	return s.count
}

// StatsResult is a point-in-time copy of session statistics.
type StatsResult struct {
	Count int64
	Sum   float64
	Min   float64
	Max   float64
	Mean  float64

	// Percentiles (nil if unavailable)
	P50 *float64
	P95 *float64
}

// Result returns a snapshot of the current statistics.
func (s *SessionStats) Result() StatsResult {
	res := StatsResult{
		Count: s.count,
		Sum:   s.sum,
	}

	if s.count == 0 {
		return res
	}

	res.Min = s.min
	res.Max = s.max
	res.Mean = s.sum / float64(s.count)

	if s.sketch != nil {
		qs, err := s.sketch.GetValuesAtQuantiles([]float64{0.5, 0.95})
		if err == nil && len(qs) == 2 {
			res.P50 = &qs[0]
			res.P95 = &qs[1]
		}
	}

	return res
}
