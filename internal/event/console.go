package event

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
)

// timeLayout is how event timestamps are rendered on the console.
const timeLayout = "15:04:05"

// Console renders each event as one line on a writer, colored by kind when
// colorization is enabled. Writes are serialized so concurrent emitters never
// interleave partial lines.
type Console struct {
	// mu serializes writes to out.
	mu sync.Mutex
	// out receives the rendered lines.
	out io.Writer
	// colorize enables per-kind line colors.
	colorize bool
}

// NewConsole returns a console sink writing to out.
func NewConsole(out io.Writer, colorize bool) *Console {
	return &Console{
		out:      out,
		colorize: colorize,
	}
}

// Emit renders and writes one event line.
func (c *Console) Emit(e Event) {
	line := FormatLine(e)

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.colorize {
		_, _ = fmt.Fprintln(c.out, line)
		return
	}

	_, _ = kindColor(e.Kind).Fprintln(c.out, line)
}

// kindColor picks the line color for a kind.
func kindColor(k Kind) *color.Color {
	switch k {
	case AlarmInserted:
		return color.New(color.FgGreen)
	case AlarmChanged, AlarmReassigned, AlarmMessageChanged:
		return color.New(color.FgCyan)
	case AlarmExpired:
		return color.New(color.FgRed)
	case WorkerStarted, WorkerExiting:
		return color.New(color.FgMagenta)
	case ChangeRejected, SlotsExhausted:
		return color.New(color.FgYellow)
	case AlarmRendered:
		return color.New(color.FgWhite)
	default:
		return color.New(color.FgWhite)
	}
}

// FormatLine renders an event as the single console line the scheduler is
// observed through. Every line carries the actor and the event time.
func FormatLine(e Event) string {
	ts := e.Time.Format(timeLayout)

	switch e.Kind {
	case AlarmInserted:
		return fmt.Sprintf("alarm(%d) inserted by %s at %s: group(%d) due in %s %q",
			e.AlarmID, e.Actor, ts, e.Group, e.Remaining, e.Message)
	case AlarmChanged:
		return fmt.Sprintf("alarm(%d) changed by %s at %s: group(%d) due in %s %q",
			e.AlarmID, e.Actor, ts, e.Group, e.Remaining, e.Message)
	case AlarmReassigned:
		return fmt.Sprintf("alarm(%d) reassigned by %s at %s: group(%d) -> group(%d)",
			e.AlarmID, e.Actor, ts, e.OldGroup, e.Group)
	case AlarmMessageChanged:
		return fmt.Sprintf("alarm(%d) message changed by %s at %s: %q",
			e.AlarmID, e.Actor, ts, e.Message)
	case AlarmExpired:
		return fmt.Sprintf("alarm(%d) expired, removed by %s at %s: group(%d) %q",
			e.AlarmID, e.Actor, ts, e.Group, e.Message)
	case AlarmRendered:
		return fmt.Sprintf("alarm(%d) rendered by %s at %s: group(%d) due in %s %q",
			e.AlarmID, e.Actor, ts, e.Group, e.Remaining, e.Message)
	case WorkerStarted:
		return fmt.Sprintf("display worker %d created by %s at %s for alarm(%d): group(%d) %q",
			e.WorkerID, e.Actor, ts, e.AlarmID, e.Group, e.Message)
	case WorkerExiting:
		return fmt.Sprintf("no more alarms in group(%d): display worker %d exiting at %s",
			e.Group, e.WorkerID, ts)
	case ChangeRejected:
		return fmt.Sprintf("invalid change request by %s at %s: no pending alarm(%d) for group(%d) %q",
			e.Actor, ts, e.AlarmID, e.Group, e.Message)
	case SlotsExhausted:
		return fmt.Sprintf("display slots exhausted by %s at %s: alarm(%d) group(%d) %q rejected",
			e.Actor, ts, e.AlarmID, e.Group, e.Message)
	default:
		return fmt.Sprintf("unknown event by %s at %s: alarm(%d)", e.Actor, ts, e.AlarmID)
	}
}
