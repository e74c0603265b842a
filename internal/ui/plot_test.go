package ui

import "testing"

func TestSparkline_Empty(t *testing.T) {
	if got := Sparkline(nil, 10); got != "" {
		t.Errorf("Sparkline(nil)=%q, want empty", got)
	}
	if got := Sparkline([]float64{1, 2}, 0); got != "" {
		t.Errorf("Sparkline(width=0)=%q, want empty", got)
	}
}

func TestSparkline_MinMaxMapping(t *testing.T) {
	got := Sparkline([]float64{0, 7}, 2)
	if got != "▁█" {
		t.Errorf("got %q, want min to map lowest and max highest", got)
	}
}

func TestSparkline_FlatLine(t *testing.T) {
	got := Sparkline([]float64{5, 5, 5}, 3)
	if got != "▁▁▁" {
		t.Errorf("got %q, want lowest rune for a flat series", got)
	}
}

func TestSparkline_RightPinned(t *testing.T) {
	got := Sparkline([]float64{1, 2}, 5)
	if got != "   ▁█" {
		t.Errorf("got %q, want the newest sample on the right edge", got)
	}
}

func TestSparkline_TruncatesToTrailing(t *testing.T) {
	// The older spike values must not influence the visible scale.
	got := Sparkline([]float64{100, 100, 0, 7}, 2)
	if got != "▁█" {
		t.Errorf("got %q, want only the trailing values plotted", got)
	}
}
