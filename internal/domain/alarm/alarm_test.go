package alarm

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestNewComputesDeadline verifies that New derives the deadline from the
// submission time and keeps the requested delay.
func TestNewComputesDeadline(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	a := New(7, 2, 90, "water the plants", now)

	require.Equal(t, int64(7), a.ID)
	require.Equal(t, int64(2), a.Group)
	require.Equal(t, int64(90), a.Seconds)
	require.Equal(t, now.Add(90*time.Second), a.Deadline)
	require.Equal(t, "water the plants", a.Message)
}

// TestRemainingAndDue covers deadline math around the expiry boundary.
func TestRemainingAndDue(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	a := New(1, 1, 10, "tick", now)

	require.Equal(t, 10*time.Second, a.Remaining(now))
	require.False(t, a.Due(now))

	require.Equal(t, 4*time.Second, a.Remaining(now.Add(6*time.Second)))

	// At the deadline the alarm is due and nothing remains.
	require.True(t, a.Due(now.Add(10*time.Second)))
	require.Equal(t, time.Duration(0), a.Remaining(now.Add(10*time.Second)))

	// Past the deadline remaining time never goes negative.
	require.Equal(t, time.Duration(0), a.Remaining(now.Add(time.Minute)))
	require.True(t, a.Due(now.Add(time.Minute)))
}

// TestTruncateMessage verifies the byte bound and that multi-byte runes are
// never split in half.
func TestTruncateMessage(t *testing.T) {
	t.Parallel()

	short := "fits"
	require.Equal(t, short, TruncateMessage(short))

	exact := strings.Repeat("x", MaxMessageBytes)
	require.Equal(t, exact, TruncateMessage(exact))

	long := strings.Repeat("y", MaxMessageBytes+40)
	got := TruncateMessage(long)
	require.Len(t, got, MaxMessageBytes)

	// "é" is two bytes; 127 ASCII bytes followed by it must cut before the
	// rune, not through it.
	mixed := strings.Repeat("a", MaxMessageBytes-1) + "é"
	got = TruncateMessage(mixed)
	require.Equal(t, strings.Repeat("a", MaxMessageBytes-1), got)
	require.True(t, len(got) <= MaxMessageBytes)
}

// TestNewChangeMirrorsNew ensures change requests follow the same deadline and
// truncation rules as fresh alarms.
func TestNewChangeMirrorsNew(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	long := strings.Repeat("z", MaxMessageBytes*2)

	cr := NewChange(3, 9, 15, long, now)
	require.Equal(t, int64(3), cr.AlarmID)
	require.Equal(t, int64(9), cr.Group)
	require.Equal(t, int64(15), cr.Seconds)
	require.Equal(t, now.Add(15*time.Second), cr.Deadline)
	require.Len(t, cr.Message, MaxMessageBytes)
}
