package otel

import "sync"

// DefaultRingSize is used when NewRingBuffer gets a non-positive size.
const DefaultRingSize = 512

// RingBuffer keeps the last N events. Safe for concurrent use.
type RingBuffer struct {
	mu     sync.Mutex
	events []Event
	next   int
	full   bool
}

// NewRingBuffer creates a ring holding up to size events.
func NewRingBuffer(size int) *RingBuffer {
	if size <= 0 {
		size = DefaultRingSize
	}
	return &RingBuffer{events: make([]Event, size)}
}

// Push stores e, evicting the oldest event when full.
// Extra is copied so callers may reuse their map.
func (r *RingBuffer) Push(e Event) {
	if e.Extra != nil {
		extra := make(map[string]any, len(e.Extra))
		for k, v := range e.Extra {
			extra[k] = v
		}
		e.Extra = extra
	}

	r.mu.Lock()
	r.events[r.next] = e
	r.next++
	if r.next == len(r.events) {
		r.next = 0
		r.full = true
	}
	r.mu.Unlock()
}

// Len returns the number of stored events.
func (r *RingBuffer) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lenLocked()
}

func (r *RingBuffer) lenLocked() int {
	if r.full {
		return len(r.events)
	}
	return r.next
}

// Cap returns the capacity.
func (r *RingBuffer) Cap() int { return len(r.events) }

// Last returns up to n most recent events, oldest first.
func (r *RingBuffer) Last(n int) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := r.lenLocked()
	if n <= 0 || count == 0 {
		return nil
	}
	if n > count {
		n = count
	}

	out := make([]Event, n)
	size := len(r.events)
	start := (r.next - n + size) % size
	for i := 0; i < n; i++ {
		out[i] = r.events[(start+i)%size]
	}
	return out
}

// Snapshot returns every stored event, oldest first.
func (r *RingBuffer) Snapshot() []Event {
	return r.Last(r.Cap())
}

// Stats counts stored events by kind.
func (r *RingBuffer) Stats() map[EventKind]int {
	stats := make(map[EventKind]int)
	for _, e := range r.Snapshot() {
		stats[e.Kind]++
	}
	return stats
}
