package event

import "time"

// Kind classifies an event record.
type Kind int

// Every observable occurrence in the scheduler maps to exactly one kind.
const (
	// AlarmInserted records a successful admission into the registry.
	AlarmInserted Kind = iota
	// AlarmChanged records a change request applied to a pending alarm.
	AlarmChanged
	// AlarmReassigned records an alarm moving between groups.
	AlarmReassigned
	// AlarmMessageChanged records an applied change that altered the message text.
	AlarmMessageChanged
	// AlarmExpired records the monitor removing a due alarm.
	AlarmExpired
	// AlarmRendered records a display worker printing one alarm.
	AlarmRendered
	// WorkerStarted records the dispatcher activating a display worker.
	WorkerStarted
	// WorkerExiting records a display worker terminating.
	WorkerExiting
	// ChangeRejected records a change request naming no pending alarm.
	ChangeRejected
	// SlotsExhausted records a request rejected because no display slot was free.
	SlotsExhausted
)

// String returns the stable lower-case name of the kind, used in summaries and logs.
func (k Kind) String() string {
	switch k {
	case AlarmInserted:
		return "inserted"
	case AlarmChanged:
		return "changed"
	case AlarmReassigned:
		return "reassigned"
	case AlarmMessageChanged:
		return "message-changed"
	case AlarmExpired:
		return "expired"
	case AlarmRendered:
		return "rendered"
	case WorkerStarted:
		return "worker-started"
	case WorkerExiting:
		return "worker-exiting"
	case ChangeRejected:
		return "change-rejected"
	case SlotsExhausted:
		return "slots-exhausted"
	default:
		return "unknown"
	}
}

// Kinds lists all kinds in declaration order, for stable summary output.
func Kinds() []Kind {
	return []Kind{
		AlarmInserted,
		AlarmChanged,
		AlarmReassigned,
		AlarmMessageChanged,
		AlarmExpired,
		AlarmRendered,
		WorkerStarted,
		WorkerExiting,
		ChangeRejected,
		SlotsExhausted,
	}
}

// Event is one record of something the scheduler did. Fields beyond Kind,
// Actor and Time are populated per kind; unused ones stay at their zero value.
type Event struct {
	// Kind classifies the occurrence.
	Kind Kind
	// Actor names who produced the event: "main", "monitor", "dispatcher"
	// or a worker identity such as "worker-3".
	Actor string
	// Time is when the event was produced, on the scheduler's clock.
	Time time.Time
	// AlarmID is the alarm the event is about, when there is one.
	AlarmID int64
	// Group is the alarm's group (the new group for reassignments, the
	// requested group for rejections).
	Group int64
	// OldGroup is the previous group of a reassigned alarm.
	OldGroup int64
	// WorkerID identifies the display worker for lifecycle and render events.
	WorkerID int64
	// Remaining is the time left until the deadline (renders and insertions).
	Remaining time.Duration
	// Message is the alarm message text carried by the event.
	Message string
}
