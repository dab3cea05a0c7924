package event

import "sync"

// Sink consumes event records. Implementations must be safe for concurrent
// use: the monitor, the dispatcher and every display worker emit into the
// same sink.
type Sink interface {
	Emit(e Event)
}

// Multi fans every event out to all wrapped sinks, in order.
func Multi(sinks ...Sink) Sink {
	return multiSink(sinks)
}

type multiSink []Sink

// Emit forwards the event to each wrapped sink.
func (m multiSink) Emit(e Event) {
	for _, s := range m {
		s.Emit(e)
	}
}

// Discard is a sink that drops everything. It stands in when no sink is wired.
var Discard Sink = discardSink{}

type discardSink struct{}

func (discardSink) Emit(Event) {}

// Memory is an unbounded in-memory sink used by tests to capture and inspect
// the event stream.
type Memory struct {
	// mu guards events.
	mu sync.Mutex
	// events holds everything emitted, in order.
	events []Event
}

// NewMemory returns an empty capture sink.
func NewMemory() *Memory {
	return &Memory{}
}

// Emit stores the event.
func (m *Memory) Emit(e Event) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.events = append(m.events, e)
}

// Events returns a copy of everything captured so far, in emission order.
func (m *Memory) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Event, len(m.events))
	copy(out, m.events)

	return out
}

// ByKind returns captured events of one kind, in emission order.
func (m *Memory) ByKind(k Kind) []Event {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []Event

	for _, e := range m.events {
		if e.Kind == k {
			out = append(out, e)
		}
	}

	return out
}

// Len reports how many events were captured.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.events)
}
