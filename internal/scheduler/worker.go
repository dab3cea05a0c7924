package scheduler

import (
	"context"
	"fmt"
	"runtime"

	"github.com/oshokin/alarm-scheduler/internal/event"
	"github.com/oshokin/alarm-scheduler/internal/logger"
)

// runWorker is the display loop for one slot: every display interval it
// renders all pending alarms of its group, and it terminates once the group
// is empty or the engine shuts down. Exactly one WorkerExiting event marks
// the termination.
func (s *Scheduler) runWorker(ctx context.Context, slotIdx int, workerID, group int64) {
	actor := fmt.Sprintf("worker-%d", workerID)
	ctx = logger.WithName(ctx, actor)

	logger.DebugKV(ctx, "Display worker started", "group", group, "slot", slotIdx)

	for {
		alarms := s.registry.GroupSnapshot(group)
		if len(alarms) == 0 {
			if s.slots.tryDeactivate(slotIdx, workerID) {
				s.emit(event.Event{Kind: event.WorkerExiting, Actor: actor, Group: group, WorkerID: workerID})
				logger.DebugKV(ctx, "Display worker exiting, group empty", "group", group)

				return
			}

			// An alarm was assigned to this slot after the scan; its registry
			// insert is in flight. Yield so the submitter can finish, then
			// scan again.
			runtime.Gosched()

			continue
		}

		now := s.clock.Now()

		for i := range alarms {
			a := &alarms[i]
			s.stats.rendered.Inc()
			s.emit(event.Event{
				Kind:      event.AlarmRendered,
				Actor:     actor,
				AlarmID:   a.ID,
				Group:     a.Group,
				WorkerID:  workerID,
				Remaining: a.Remaining(now),
				Message:   a.Message,
			})
		}

		select {
		case <-s.stop:
			s.emit(event.Event{Kind: event.WorkerExiting, Actor: actor, Group: group, WorkerID: workerID})
			logger.DebugKV(ctx, "Display worker exiting, scheduler stopped", "group", group)

			return
		case <-s.clock.After(s.displayInterval):
		}
	}
}
