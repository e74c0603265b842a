package ingest

import (
	"testing"
	"time"

	"github.com/feedwatch/feedwatch/internal/series"
)

func TestBridge_EmptyUntilFirstPublish(t *testing.T) {
	b := NewBridge()

	if _, _, ok := b.Latest(); ok {
		t.Error("Latest should report not-ok before any publish")
	}
}

func TestBridge_LatestWins(t *testing.T) {
	b := NewBridge()

	b.Publish(Delta{Accepted: 1, Total: 1})
	b.Publish(Delta{Accepted: 2, Total: 3})
	b.Publish(Delta{Accepted: 4, Total: 7})

	d, seq, ok := b.Latest()
	if !ok {
		t.Fatal("expected a delta")
	}
	if d.Accepted != 4 || d.Total != 7 {
		t.Errorf("delta=%+v, want the last published", d)
	}
	if seq != 3 {
		t.Errorf("seq=%d, want 3", seq)
	}
}

func TestBridge_PublishNeverBlocks(t *testing.T) {
	b := NewBridge()

	// Nobody consumes the notify channel; a flood of publishes must not
	// block the ingestion side.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			b.Publish(Delta{Accepted: i})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Publish blocked on an unconsumed notify channel")
	}

	d, _, _ := b.Latest()
	if d.Accepted != 999 {
		t.Errorf("accepted=%d, want 999", d.Accepted)
	}
}

func TestBridge_NotifyCoalesces(t *testing.T) {
	b := NewBridge()

	b.Publish(Delta{Accepted: 1})
	b.Publish(Delta{Accepted: 2})

	// Two publishes, at most one pending wakeup.
	select {
	case <-b.Notify():
	default:
		t.Fatal("expected a pending wakeup")
	}
	select {
	case <-b.Notify():
		t.Fatal("wakeups must coalesce to one")
	default:
	}
}

func TestBridge_DeltaPayload(t *testing.T) {
	b := NewBridge()

	want := Delta{
		Accepted:    2,
		Rejected:    1,
		Total:       5,
		Latest:      series.Sample{Time: 2.0, Value: 3.0},
		HasLatest:   true,
		RollingMean: 2.5,
		HasMean:     true,
		PolledAt:    time.Now(),
	}
	b.Publish(want)

	got, _, _ := b.Latest()
	if got != want {
		t.Errorf("delta=%+v, want %+v", got, want)
	}
}
