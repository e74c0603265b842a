package series

// Rolling maintains the mean over the trailing N accepted samples.
//
// The window is a fixed-size ring; each accepted value is added to the
// running sum and, once the ring is full, the evicted value is subtracted.
// Cost per accepted sample is O(1), so ingestion stays proportional to the
// number of new samples per tick rather than total history size.
//
// Rolling is not safe for concurrent use on its own; the owning Store
// serializes access.
type Rolling struct {
	window int
	values []float64 // ring of the windowed values
	head   int       // next write position
	count  int       // current number of windowed values
	sum    float64
}

// NewRolling creates a rolling aggregate over a window of n samples.
// n must be >= 1.
func NewRolling(n int) *Rolling {
	if n < 1 {
		n = 1
	}
	return &Rolling{
		window: n,
		values: make([]float64, n),
	}
}

// Add folds a value into the window, evicting the oldest value's
// contribution when the window is full.
func (r *Rolling) Add(v float64) {
	if r.count == r.window {
		r.sum -= r.values[r.head]
	} else {
		r.count++
	}
	r.values[r.head] = v
	r.sum += v
	r.head = (r.head + 1) % r.window
}

// Mean returns the windowed mean. ok is false when no values have been
// added yet.
func (r *Rolling) Mean() (mean float64, ok bool) {
	if r.count == 0 {
		return 0, false
	}
	return r.sum / float64(r.count), true
}

// Count returns the number of values currently in the window.
func (r *Rolling) Count() int {
	return r.count
}

// Window returns the configured window size.
func (r *Rolling) Window() int {
	return r.window
}
