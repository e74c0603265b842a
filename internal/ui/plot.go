package ui

import "strings"

// sparkRunes are the eight block levels of the sparkline, lowest first.
var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// Sparkline renders values as a single-row block-character plot of at most
// width cells. When there are more values than cells, only the trailing
// values are shown; when fewer, the line is left-padded so the newest
// sample stays pinned to the right edge.
func Sparkline(values []float64, width int) string {
	if width <= 0 || len(values) == 0 {
		return ""
	}

	if len(values) > width {
		values = values[len(values)-width:]
	}

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	var b strings.Builder
	b.Grow(width)
	for i := 0; i < width-len(values); i++ {
		b.WriteByte(' ')
	}

	span := hi - lo
	for _, v := range values {
		idx := 0
		if span > 0 {
			idx = int((v - lo) / span * float64(len(sparkRunes)-1))
			if idx < 0 {
				idx = 0
			}
			if idx >= len(sparkRunes) {
				idx = len(sparkRunes) - 1
			}
		}
		b.WriteRune(sparkRunes[idx])
	}

	return b.String()
}
