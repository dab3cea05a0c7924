package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/alarm-scheduler/internal/event"
)

// eventIndex returns the position of the first event matching the predicate,
// or -1.
func eventIndex(events []event.Event, match func(event.Event) bool) int {
	for i, e := range events {
		if match(e) {
			return i
		}
	}

	return -1
}

// TestScenarioStaggeredGroupLifecycle runs three alarms of one group with
// staggered deadlines end to end: both slot workers spin up, every alarm is
// rendered before it expires, expiries arrive in deadline order, and both
// workers terminate once the group has drained.
func TestScenarioStaggeredGroupLifecycle(t *testing.T) {
	t.Parallel()

	s, fc, sink := newTestEngine(t, Options{Mode: ModeEvent})
	ctx := context.Background()

	require.NoError(t, s.SubmitStart(ctx, 1, 4, 4, "first out"))
	require.NoError(t, s.SubmitStart(ctx, 2, 4, 8, "second out"))
	require.NoError(t, s.SubmitStart(ctx, 3, 4, 12, "third out"))

	// Slot capacity is two, so three alarms of one group occupy two slots.
	require.Len(t, sink.ByKind(event.WorkerStarted), 2)

	advanceUntil(t, fc, time.Second, func() bool {
		return len(sink.ByKind(event.AlarmExpired)) == 3
	})
	require.Equal(t, []int64{1, 2, 3}, expiredIDs(sink))

	advanceUntil(t, fc, time.Second, func() bool {
		return len(sink.ByKind(event.WorkerExiting)) == 2
	})
	require.Equal(t, 0, s.Pending())

	// Every alarm was on display before it went off.
	all := sink.Events()
	for _, id := range []int64{1, 2, 3} {
		rendered := eventIndex(all, func(e event.Event) bool {
			return e.Kind == event.AlarmRendered && e.AlarmID == id
		})
		expired := eventIndex(all, func(e event.Event) bool {
			return e.Kind == event.AlarmExpired && e.AlarmID == id
		})

		require.GreaterOrEqual(t, rendered, 0)
		require.Less(t, rendered, expired)
	}
}

// TestScenarioRenderAfterExpiryShowsSurvivor pairs a short and a long alarm
// in one group: once the short one goes off, the shared worker keeps running
// and its next render pass shows only the survivor.
func TestScenarioRenderAfterExpiryShowsSurvivor(t *testing.T) {
	t.Parallel()

	s, fc, sink := newTestEngine(t, Options{Mode: ModeEvent})
	ctx := context.Background()

	require.NoError(t, s.SubmitStart(ctx, 1, 5, 2, "A"))
	require.NoError(t, s.SubmitStart(ctx, 2, 5, 100, "B"))

	// Two alarms fit one slot, so the group shares a single worker.
	require.Len(t, sink.ByKind(event.WorkerStarted), 1)

	advanceUntil(t, fc, time.Second, func() bool {
		return len(sink.ByKind(event.AlarmExpired)) == 1
	})

	expired := sink.ByKind(event.AlarmExpired)[0]
	require.Equal(t, int64(1), expired.AlarmID)
	require.Equal(t, "A", expired.Message)
	require.Equal(t, 1, s.Pending())

	// The next display pass happens after the expiry.
	expiredIdx := eventIndex(sink.Events(), func(e event.Event) bool {
		return e.Kind == event.AlarmExpired
	})

	advanceUntil(t, fc, time.Second, func() bool {
		all := sink.Events()
		for i := expiredIdx + 1; i < len(all); i++ {
			if all[i].Kind == event.AlarmRendered {
				return true
			}
		}

		return false
	})

	// Everything on display from then on is the surviving alarm.
	all := sink.Events()
	for i := expiredIdx + 1; i < len(all); i++ {
		if all[i].Kind == event.AlarmRendered {
			require.Equal(t, int64(2), all[i].AlarmID)
			require.Equal(t, "B", all[i].Message)
		}
	}

	// The group still has an alarm, so its worker must not have exited.
	require.Empty(t, sink.ByKind(event.WorkerExiting))
}

// TestScenarioChangeRedirectsDisplay changes a pending alarm's group and
// deadline mid-flight: display moves to a fresh worker in the new group, the
// alarm expires there under its new message and shortened deadline, and both
// workers wind down.
func TestScenarioChangeRedirectsDisplay(t *testing.T) {
	t.Parallel()

	s, fc, sink := newTestEngine(t, Options{Mode: ModeEvent})
	ctx := context.Background()

	require.NoError(t, s.SubmitStart(ctx, 1, 1, 30, "original"))
	require.Len(t, sink.ByKind(event.WorkerStarted), 1)

	require.NoError(t, s.SubmitChange(ctx, 1, 2, 8, "updated"))

	// The new group's worker is the last thing an applied move produces, so
	// waiting for it covers the whole emission sequence.
	advanceUntil(t, fc, time.Second, func() bool {
		return len(sink.ByKind(event.WorkerStarted)) == 2
	})

	// The fresh worker's start event carries the alarm as the change left it.
	redirected := sink.ByKind(event.WorkerStarted)[1]
	require.Equal(t, int64(1), redirected.AlarmID)
	require.Equal(t, int64(2), redirected.Group)
	require.Equal(t, "updated", redirected.Message)

	require.Len(t, sink.ByKind(event.AlarmReassigned), 1)

	moved := sink.ByKind(event.AlarmReassigned)[0]
	require.Equal(t, int64(1), moved.OldGroup)
	require.Equal(t, int64(2), moved.Group)
	require.Len(t, sink.ByKind(event.AlarmMessageChanged), 1)

	advanceUntil(t, fc, time.Second, func() bool {
		return len(sink.ByKind(event.AlarmExpired)) == 1
	})

	expired := sink.ByKind(event.AlarmExpired)[0]
	require.Equal(t, int64(2), expired.Group)
	require.Equal(t, "updated", expired.Message)

	// The shortened deadline took effect: well before the original thirty
	// seconds.
	elapsed := expired.Time.Sub(testEpoch)
	require.GreaterOrEqual(t, elapsed, 8*time.Second)
	require.Less(t, elapsed, 30*time.Second)

	advanceUntil(t, fc, time.Second, func() bool {
		return len(sink.ByKind(event.WorkerExiting)) == 2
	})

	gone := map[int64]bool{}
	for _, e := range sink.ByKind(event.WorkerExiting) {
		gone[e.Group] = true
	}

	require.True(t, gone[1] && gone[2])

	// Display order: the old group showed the original text, then the
	// reassignment, then the new group's rendering, then expiry.
	all := sink.Events()
	oldRender := eventIndex(all, func(e event.Event) bool {
		return e.Kind == event.AlarmRendered && e.Group == 1 && e.Message == "original"
	})
	reassigned := eventIndex(all, func(e event.Event) bool {
		return e.Kind == event.AlarmReassigned
	})
	newRender := eventIndex(all, func(e event.Event) bool {
		return e.Kind == event.AlarmRendered && e.Group == 2 && e.Message == "updated"
	})
	expiredAt := eventIndex(all, func(e event.Event) bool {
		return e.Kind == event.AlarmExpired
	})

	require.GreaterOrEqual(t, oldRender, 0)
	require.Less(t, oldRender, reassigned)
	require.Less(t, reassigned, newRender)
	require.Less(t, newRender, expiredAt)
}
