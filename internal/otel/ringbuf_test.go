package otel

import (
	"sync"
	"testing"
)

func TestRingPushAndLast(t *testing.T) {
	r := NewRingBuffer(8)
	for i := 0; i < 5; i++ {
		r.Push(Event{Kind: KindFetchStart, Count: i})
	}

	if r.Len() != 5 {
		t.Fatalf("expected 5 events, got %d", r.Len())
	}
	last := r.Last(2)
	if len(last) != 2 || last[0].Count != 3 || last[1].Count != 4 {
		t.Errorf("Last(2) = %+v", last)
	}
}

func TestRingWrapAround(t *testing.T) {
	r := NewRingBuffer(4)
	for i := 0; i < 10; i++ {
		r.Push(Event{Kind: KindFetchStart, Count: i})
	}

	snap := r.Snapshot()
	if len(snap) != 4 {
		t.Fatalf("expected 4 events, got %d", len(snap))
	}
	for i, e := range snap {
		if e.Count != i+6 {
			t.Errorf("snap[%d].Count = %d, want %d", i, e.Count, i+6)
		}
	}
}

func TestRingEdgeCases(t *testing.T) {
	r := NewRingBuffer(0)
	if r.Cap() != DefaultRingSize {
		t.Errorf("expected default capacity, got %d", r.Cap())
	}
	if r.Last(3) != nil || r.Snapshot() != nil {
		t.Error("empty ring should return nil")
	}

	r.Push(Event{Kind: KindPick})
	if r.Last(0) != nil {
		t.Error("Last(0) should be nil")
	}
	if got := r.Last(10); len(got) != 1 {
		t.Errorf("Last(10) on 1 event returned %d", len(got))
	}
}

func TestRingCopiesExtra(t *testing.T) {
	r := NewRingBuffer(2)
	extra := map[string]any{"status": 502}
	r.Push(Event{Kind: KindFetchError, Extra: extra})
	extra["status"] = 200

	if got := r.Last(1)[0].Extra["status"]; got != 502 {
		t.Errorf("ring should hold a copy of Extra, got %v", got)
	}
}

func TestRingStats(t *testing.T) {
	r := NewRingBuffer(16)
	r.Push(Event{Kind: KindFetchStart})
	r.Push(Event{Kind: KindFetchComplete})
	r.Push(Event{Kind: KindFetchStart})
	r.Push(Event{Kind: KindFetchError})

	stats := r.Stats()
	if stats[KindFetchStart] != 2 || stats[KindFetchComplete] != 1 || stats[KindFetchError] != 1 {
		t.Errorf("unexpected stats %v", stats)
	}
}

func TestRingConcurrentPush(t *testing.T) {
	r := NewRingBuffer(64)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				r.Push(Event{Kind: KindFetchStart})
			}
		}()
	}
	wg.Wait()

	if r.Len() != 64 {
		t.Errorf("expected full ring, got %d", r.Len())
	}
}
