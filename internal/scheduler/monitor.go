package scheduler

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/oshokin/alarm-scheduler/internal/domain/alarm"
	"github.com/oshokin/alarm-scheduler/internal/event"
	"github.com/oshokin/alarm-scheduler/internal/logger"
)

// runMonitor is the single long-lived reconciler. Expiry and change
// application both happen here, so they are serialized by construction.
func (s *Scheduler) runMonitor(ctx context.Context) {
	ctx = logger.WithName(ctx, actorMonitor)

	if s.mode == ModePoll {
		s.runPolling(ctx)
		return
	}

	s.runEventDriven(ctx)
}

// runEventDriven sleeps until the earliest deadline or an admission wake-up,
// whichever comes first, and reconciles on every wake. With no pending
// deadline it blocks on the wake channel alone. A wake-up that arrives
// mid-pass sits in the buffered channel and is consumed by the next select,
// so no signal is ever lost.
func (s *Scheduler) runEventDriven(ctx context.Context) {
	logger.DebugKV(ctx, "Monitor running", "mode", ModeEvent)

	for {
		s.reconcile(ctx)

		var (
			timer   clockwork.Timer
			timerCh <-chan time.Time
		)

		if next, ok := s.registry.NextDeadline(); ok {
			wait := next.Sub(s.clock.Now())
			if wait < 0 {
				wait = 0
			}

			timer = s.clock.NewTimer(wait)
			timerCh = timer.Chan()
		}

		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}

			logger.Debug(ctx, "Monitor stopping")

			return
		case <-timerCh:
		case <-s.wake:
			if timer != nil {
				timer.Stop()
			}
		}
	}
}

// runPolling sweeps the registry on a fixed ticker. Admission wake-ups are
// not needed in this mode; the next tick picks up whatever arrived.
func (s *Scheduler) runPolling(ctx context.Context) {
	logger.DebugKV(ctx, "Monitor running", "mode", ModePoll, "interval", s.pollInterval.String())

	ticker := s.clock.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Debug(ctx, "Monitor stopping")
			return
		case <-ticker.Chan():
			s.reconcile(ctx)
		}
	}
}

// reconcile runs one monitor pass: first remove every due alarm in deadline
// order, then consume the staged change requests. A change naming an alarm
// that expired earlier in the same pass is rejected like any other unknown
// id: the alarm was due before the change was processed.
func (s *Scheduler) reconcile(ctx context.Context) {
	now := s.clock.Now()

	for _, a := range s.registry.RemoveExpired(now) {
		left := s.slots.release(a.ID)
		s.stats.expired.Inc()
		s.emit(event.Event{
			Kind:    event.AlarmExpired,
			Actor:   actorMonitor,
			AlarmID: a.ID,
			Group:   a.Group,
			Message: a.Message,
		})
		logger.DebugKV(ctx, "Alarm expired", "alarm_id", a.ID, "group", a.Group, "slot_load_left", left)
	}

	for _, cr := range s.changes.Drain() {
		s.applyChange(ctx, cr)
	}
}

// applyChange applies one staged request to the registry and the slot table.
// Unknown ids produce a ChangeRejected event; a group move that finds no free
// slot in the target group rejects the whole change and leaves the alarm
// untouched.
func (s *Scheduler) applyChange(ctx context.Context, cr *alarm.ChangeRequest) {
	cur, ok := s.registry.FindByID(cr.AlarmID)
	if !ok {
		s.stats.invalidChanges.Inc()
		s.emit(event.Event{
			Kind:    event.ChangeRejected,
			Actor:   actorMonitor,
			AlarmID: cr.AlarmID,
			Group:   cr.Group,
			Message: cr.Message,
		})
		logger.WarnKV(ctx, "Change rejected, no such alarm", "alarm_id", cr.AlarmID)

		return
	}

	var (
		asn   assignment
		moved = cr.Group != cur.Group
	)

	if moved {
		var err error

		asn, err = s.slots.move(cr.AlarmID, cr.Group)
		if err != nil {
			s.stats.exhausted.Inc()
			s.emit(event.Event{
				Kind:    event.SlotsExhausted,
				Actor:   actorMonitor,
				AlarmID: cr.AlarmID,
				Group:   cr.Group,
				Message: cr.Message,
			})
			logger.WarnKV(ctx, "Change rejected, no display slot in target group",
				"alarm_id", cr.AlarmID, "group", cr.Group)

			return
		}
	}

	// The monitor is the only goroutine that removes alarms, so the alarm
	// found above cannot vanish before the update.
	if !s.registry.Apply(cr.AlarmID, func(a *alarm.Alarm) {
		a.Group = cr.Group
		a.Seconds = cr.Seconds
		a.Deadline = cr.Deadline
		a.Message = cr.Message
	}) {
		logger.Panicf(ctx, "pending alarm %d vanished during change", cr.AlarmID)
	}

	s.stats.changed.Inc()

	now := s.clock.Now()
	remaining := cr.Deadline.Sub(now)

	if remaining < 0 {
		remaining = 0
	}

	s.emit(event.Event{
		Kind:      event.AlarmChanged,
		Actor:     actorMonitor,
		AlarmID:   cr.AlarmID,
		Group:     cr.Group,
		Remaining: remaining,
		Message:   cr.Message,
	})

	if moved {
		s.emit(event.Event{
			Kind:     event.AlarmReassigned,
			Actor:    actorMonitor,
			AlarmID:  cr.AlarmID,
			Group:    cr.Group,
			OldGroup: cur.Group,
		})
	}

	if cr.Message != cur.Message {
		s.emit(event.Event{
			Kind:    event.AlarmMessageChanged,
			Actor:   actorMonitor,
			AlarmID: cr.AlarmID,
			Message: cr.Message,
		})
	}

	logger.DebugKV(ctx, "Change applied",
		"alarm_id", cr.AlarmID, "group", cr.Group, "deadline", cr.Deadline)

	if moved && asn.activated {
		s.startWorker(ctx, asn, cr.Message)
	}
}
