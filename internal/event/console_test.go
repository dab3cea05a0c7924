package event

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestFormatLine checks the rendered line for the kinds with distinct shapes.
func TestFormatLine(t *testing.T) {
	t.Parallel()

	at := time.Date(2024, 5, 1, 12, 30, 45, 0, time.UTC)

	cases := map[string]struct {
		event Event
		want  string
	}{
		"inserted": {
			event: Event{
				Kind: AlarmInserted, Actor: "main", Time: at,
				AlarmID: 3, Group: 2, Remaining: 10 * time.Second, Message: "hello",
			},
			want: `alarm(3) inserted by main at 12:30:45: group(2) due in 10s "hello"`,
		},
		"reassigned": {
			event: Event{
				Kind: AlarmReassigned, Actor: "monitor", Time: at,
				AlarmID: 3, Group: 7, OldGroup: 2,
			},
			want: "alarm(3) reassigned by monitor at 12:30:45: group(2) -> group(7)",
		},
		"expired": {
			event: Event{
				Kind: AlarmExpired, Actor: "monitor", Time: at,
				AlarmID: 3, Group: 7, Message: "hello",
			},
			want: `alarm(3) expired, removed by monitor at 12:30:45: group(7) "hello"`,
		},
		"worker started": {
			event: Event{
				Kind: WorkerStarted, Actor: "dispatcher", Time: at,
				AlarmID: 3, Group: 2, WorkerID: 6, Message: "hello",
			},
			want: `display worker 6 created by dispatcher at 12:30:45 for alarm(3): group(2) "hello"`,
		},
		"worker exiting": {
			event: Event{
				Kind: WorkerExiting, Actor: "worker-4", Time: at,
				Group: 7, WorkerID: 4,
			},
			want: "no more alarms in group(7): display worker 4 exiting at 12:30:45",
		},
		"change rejected": {
			event: Event{
				Kind: ChangeRejected, Actor: "monitor", Time: at,
				AlarmID: 9, Group: 5, Message: "redirect",
			},
			want: `invalid change request by monitor at 12:30:45: no pending alarm(9) for group(5) "redirect"`,
		},
		"slots exhausted": {
			event: Event{
				Kind: SlotsExhausted, Actor: "main", Time: at,
				AlarmID: 9, Group: 5, Message: "overflow",
			},
			want: `display slots exhausted by main at 12:30:45: alarm(9) group(5) "overflow" rejected`,
		},
	}

	for name, tc := range cases {
		tc := tc

		t.Run(name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, FormatLine(tc.event))
		})
	}
}

// TestConsoleEmit verifies the sink writes one line per event without color
// escapes when colorization is off.
func TestConsoleEmit(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	sink := NewConsole(&buf, false)
	at := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

	sink.Emit(Event{Kind: AlarmInserted, Actor: "main", Time: at, AlarmID: 1, Group: 1, Remaining: time.Second, Message: "a"})
	sink.Emit(Event{Kind: AlarmExpired, Actor: "monitor", Time: at, AlarmID: 1, Group: 1, Message: "a"})

	out := buf.String()
	require.Contains(t, out, "alarm(1) inserted by main")
	require.Contains(t, out, "alarm(1) expired, removed by monitor")
	require.NotContains(t, out, "\x1b[")
	require.Equal(t, 2, bytes.Count(buf.Bytes(), []byte("\n")))
}
