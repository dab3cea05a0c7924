package event

import "sync"

// DefaultHistorySize is the ring capacity used when none is configured.
const DefaultHistorySize = 512

// History keeps the most recent events in a fixed-size ring. It implements
// Sink, so it can sit next to the console sink in a fan-out and answer
// "what just happened" queries (replay summaries, tests) without unbounded
// growth.
type History struct {
	// mu guards the ring state below.
	mu sync.Mutex
	// ring is the fixed backing store.
	ring []Event
	// next is the index the next event is written to.
	next int
	// full reports whether the ring has wrapped at least once.
	full bool
}

// NewHistory returns an empty ring holding up to size events. A non-positive
// size falls back to DefaultHistorySize.
func NewHistory(size int) *History {
	if size <= 0 {
		size = DefaultHistorySize
	}

	return &History{
		ring: make([]Event, size),
	}
}

// Emit records the event, overwriting the oldest one once the ring is full.
func (h *History) Emit(e Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.ring[h.next] = e
	h.next++

	if h.next == len(h.ring) {
		h.next = 0
		h.full = true
	}
}

// Len reports how many events are currently retained.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.full {
		return len(h.ring)
	}

	return h.next
}

// Snapshot returns the retained events from oldest to newest.
func (h *History) Snapshot() []Event {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.full {
		out := make([]Event, h.next)
		copy(out, h.ring[:h.next])

		return out
	}

	out := make([]Event, 0, len(h.ring))
	out = append(out, h.ring[h.next:]...)
	out = append(out, h.ring[:h.next]...)

	return out
}

// CountByKind tallies the retained events per kind.
func (h *History) CountByKind() map[Kind]int {
	counts := make(map[Kind]int)

	for _, e := range h.Snapshot() {
		counts[e.Kind]++
	}

	return counts
}
