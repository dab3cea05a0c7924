// Package scheduler implements the alarm scheduling engine.
//
// One monitor goroutine owns expiry and change reconciliation; a bounded
// table of display slots fans rendering out to per-slot worker goroutines,
// each serving one group until it has no alarms left. Admission (SubmitStart,
// SubmitChange) runs on the caller's goroutine and talks to the monitor
// through the registry, the change queue and a coalescing wake-up signal.
//
// All time flows through an injected clockwork.Clock, and everything the
// engine does is reported as events into the configured sink.
package scheduler
