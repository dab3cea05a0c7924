package alarm

import (
	"time"
	"unicode/utf8"
)

// MaxMessageBytes is the longest message the scheduler stores per alarm.
// Longer messages are silently truncated at admission.
const MaxMessageBytes = 128

// Alarm is a single scheduled notification tracked by the registry.
type Alarm struct {
	// ID uniquely identifies the alarm among all pending alarms.
	ID int64
	// Group tags the alarm for display fan-out; one worker serves one group slot.
	Group int64
	// Seconds is the delay requested at submission, kept for display and logs.
	Seconds int64
	// Deadline is the absolute expiry time (submission time plus Seconds).
	Deadline time.Time
	// Message is the text rendered for this alarm, at most MaxMessageBytes long.
	Message string
}

// New builds an alarm from a submission, computing the deadline from now
// and truncating the message to the storage bound.
func New(id, group, seconds int64, message string, now time.Time) *Alarm {
	return &Alarm{
		ID:       id,
		Group:    group,
		Seconds:  seconds,
		Deadline: now.Add(time.Duration(seconds) * time.Second),
		Message:  TruncateMessage(message),
	}
}

// Remaining returns the time left until the deadline, floored at zero.
func (a *Alarm) Remaining(now time.Time) time.Duration {
	d := a.Deadline.Sub(now)
	if d < 0 {
		return 0
	}

	return d
}

// Due reports whether the alarm's deadline has been reached.
func (a *Alarm) Due(now time.Time) bool {
	return !a.Deadline.After(now)
}

// ChangeRequest is a staged modification of a pending alarm. It is created at
// admission and consumed exactly once by the monitor, which either applies it
// to the matching alarm or rejects it when no such alarm is pending.
type ChangeRequest struct {
	// AlarmID identifies the pending alarm to modify.
	AlarmID int64
	// Group is the new group assignment.
	Group int64
	// Seconds is the new delay requested at submission.
	Seconds int64
	// Deadline is the new absolute expiry time (submission time plus Seconds).
	Deadline time.Time
	// Message is the new text, at most MaxMessageBytes long.
	Message string
}

// NewChange builds a change request the same way New builds an alarm: the
// deadline is recomputed from the submission time, the message is truncated.
func NewChange(id, group, seconds int64, message string, now time.Time) *ChangeRequest {
	return &ChangeRequest{
		AlarmID:  id,
		Group:    group,
		Seconds:  seconds,
		Deadline: now.Add(time.Duration(seconds) * time.Second),
		Message:  TruncateMessage(message),
	}
}

// TruncateMessage cuts a message down to MaxMessageBytes. The cut never splits
// a multi-byte rune, so the result is always valid UTF-8 when the input is.
func TruncateMessage(s string) string {
	if len(s) <= MaxMessageBytes {
		return s
	}

	cut := MaxMessageBytes
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}

	return s[:cut]
}
