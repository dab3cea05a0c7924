package replay

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	"github.com/oshokin/alarm-scheduler/internal/config"
	"github.com/oshokin/alarm-scheduler/internal/event"
	"github.com/oshokin/alarm-scheduler/internal/logger"
	"github.com/oshokin/alarm-scheduler/internal/parser"
	"github.com/oshokin/alarm-scheduler/internal/scheduler"
)

// DefaultLinger is how long a replay keeps running after its last script
// line unless overridden.
const DefaultLinger = 2 * time.Second

// Options controls a scripted alarm session.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// ScriptPath specifies the request script to replay.
	ScriptPath string
	// Linger is how long the session stays alive after the script ends, so
	// pending alarms get a chance to expire.
	Linger time.Duration
	// Output receives the event stream and the summary. Defaults to stdout.
	Output io.Writer
	// Clock drives sleeps and the engine. Defaults to the wall clock.
	Clock clockwork.Clock
}

// submitter is the slice of the engine the script feeder needs.
type submitter interface {
	SubmitStart(ctx context.Context, id, group, seconds int64, message string) error
	SubmitChange(ctx context.Context, id, group, seconds int64, message string) error
}

// Run replays the script against a fresh engine and prints a session summary
// once every line has been fed and the linger window has passed.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "alarm-replay")

	settings, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	level, ok := logger.ParseLogLevel(settings.LogLevel)
	if ok {
		logger.SetLevel(level)
	}

	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	clk := opts.Clock
	if clk == nil {
		clk = clockwork.NewRealClock()
	}

	script, err := os.Open(filepath.Clean(opts.ScriptPath))
	if err != nil {
		return fmt.Errorf("open script: %w", err)
	}
	defer script.Close()

	// Replay output stays uncolored so runs can be diffed.
	history := event.NewHistory(settings.HistorySize)
	sink := event.Multi(event.NewConsole(out, false), history)

	eng := scheduler.New(scheduler.Options{
		Mode:            settings.MonitorMode,
		PollInterval:    settings.PollInterval,
		DisplayInterval: settings.DisplayInterval,
		DisplaySlots:    settings.DisplaySlots,
		SlotCapacity:    settings.SlotCapacity,
	}, clk, sink)

	logger.InfoKV(ctx, "Replaying alarm script",
		"script", opts.ScriptPath,
		"monitor_mode", settings.MonitorMode,
	)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(runCtx)

	g.Go(func() error {
		return eng.Run(gctx)
	})

	g.Go(func() error {
		defer cancel()

		return feed(gctx, script, eng, clk, opts.Linger)
	})

	if err = g.Wait(); err != nil {
		return fmt.Errorf("replay session: %w", err)
	}

	writeSummary(out, history, eng.Stats())
	logger.Info(ctx, "Replay finished")

	return nil
}

// feed submits script lines in order. Malformed or rejected lines are logged
// and skipped so one bad request never aborts a whole replay.
func feed(ctx context.Context, r io.Reader, eng submitter, clk clockwork.Clock, linger time.Duration) error {
	scanner := bufio.NewScanner(r)
	lineNo := 0

	for scanner.Scan() {
		lineNo++

		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if pause, ok := parseSleep(line); ok {
			select {
			case <-clk.After(pause):
			case <-ctx.Done():
				return nil
			}

			continue
		}

		cmd, err := parser.Parse(line)
		if err != nil {
			logger.WarnKV(ctx, "Skipping bad script line", "line", lineNo, "error", err)

			continue
		}

		switch cmd := cmd.(type) {
		case parser.Start:
			err = eng.SubmitStart(ctx, cmd.AlarmID, cmd.Group, cmd.Seconds, cmd.Message)
		case parser.Change:
			err = eng.SubmitChange(ctx, cmd.AlarmID, cmd.Group, cmd.Seconds, cmd.Message)
		}

		if err != nil {
			logger.WarnKV(ctx, "Request rejected", "line", lineNo, "error", err)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read script: %w", err)
	}

	if linger > 0 {
		select {
		case <-clk.After(linger):
		case <-ctx.Done():
		}
	}

	return nil
}

// parseSleep recognizes the "sleep" script directive. The argument is either
// a duration ("sleep 500ms") or a bare number of seconds ("sleep 3").
func parseSleep(line string) (time.Duration, bool) {
	fields := strings.Fields(line)
	if len(fields) != 2 || fields[0] != "sleep" {
		return 0, false
	}

	if d, err := time.ParseDuration(fields[1]); err == nil && d >= 0 {
		return d, true
	}

	if n, err := strconv.Atoi(fields[1]); err == nil && n >= 0 {
		return time.Duration(n) * time.Second, true
	}

	return 0, false
}

// writeSummary prints engine counters and the per-kind event breakdown.
func writeSummary(out io.Writer, history *event.History, stats scheduler.Stats) {
	fmt.Fprintf(out, "\nreplay summary: started=%d changed=%d expired=%d rendered=%d rejected=%d exhausted=%d\n",
		stats.Started, stats.Changed, stats.Expired, stats.Rendered, stats.InvalidChanges, stats.Exhausted)

	counts := history.CountByKind()
	for _, kind := range event.Kinds() {
		if counts[kind] == 0 {
			continue
		}

		fmt.Fprintf(out, "  %-15s %d\n", kind, counts[kind])
	}
}
