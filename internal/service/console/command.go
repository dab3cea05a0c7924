package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/oshokin/alarm-scheduler/internal/config"
	ui "github.com/oshokin/alarm-scheduler/internal/console"
	"github.com/oshokin/alarm-scheduler/internal/event"
	"github.com/oshokin/alarm-scheduler/internal/logger"
	"github.com/oshokin/alarm-scheduler/internal/scheduler"
	"github.com/oshokin/alarm-scheduler/internal/service/common"
)

// Options controls the interactive alarm console.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// MonitorMode provides an optional monitor mode override ("event" or "poll").
	MonitorMode string
	// Verbose lifts the engine log level to debug.
	Verbose bool
	// NoColor disables colored event output.
	NoColor bool
}

// errUnknownLogLevel is returned when the configured log level does not parse.
var errUnknownLogLevel = errors.New("unknown log level")

// Run wires the scheduling engine to an interactive prompt on the current
// terminal and blocks until the input ends or the context is canceled.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "alarm-console")

	settings, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	// CLI override takes precedence over the configured monitor mode.
	if opts.MonitorMode != "" {
		settings.MonitorMode = opts.MonitorMode
	}

	if err = config.Validate(settings); err != nil {
		return err
	}

	level, ok := logger.ParseLogLevel(settings.LogLevel)
	if !ok {
		return fmt.Errorf("%w: %q", errUnknownLogLevel, settings.LogLevel)
	}

	if opts.Verbose {
		level = zapcore.DebugLevel
	}

	logger.SetLevel(level)

	actor, err := common.DetectActor()
	if err != nil {
		return fmt.Errorf("detect actor: %w", err)
	}

	// Every event goes to the terminal and into the history ring feeding the
	// closing summary.
	history := event.NewHistory(settings.HistorySize)
	sink := event.Multi(event.NewConsole(os.Stdout, !opts.NoColor), history)

	eng := scheduler.New(scheduler.Options{
		Mode:            settings.MonitorMode,
		PollInterval:    settings.PollInterval,
		DisplayInterval: settings.DisplayInterval,
		DisplaySlots:    settings.DisplaySlots,
		SlotCapacity:    settings.SlotCapacity,
	}, clockwork.NewRealClock(), sink)

	repl := ui.New(os.Stdin, os.Stdout, os.Stderr, eng)

	logger.InfoKV(ctx, "Alarm console ready",
		"actor", actor,
		"monitor_mode", settings.MonitorMode,
		"display_slots", settings.DisplaySlots,
		"slot_capacity", settings.SlotCapacity,
	)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(runCtx)

	// Engine internals stay off the shared terminal unless verbosity is
	// requested.
	engineCtx := gctx
	if !opts.Verbose {
		engineCtx = logger.ToContext(gctx,
			logger.FromContext(gctx).WithOptions(logger.WithLevel(zapcore.WarnLevel)))
	}

	g.Go(func() error {
		return eng.Run(engineCtx)
	})

	// The prompt ending on EOF takes the engine down with it.
	g.Go(func() error {
		defer cancel()

		return repl.Run(gctx)
	})

	if err = g.Wait(); err != nil {
		return fmt.Errorf("console session: %w", err)
	}

	printSummary(os.Stdout, history, eng.Stats())
	logger.Info(ctx, "Alarm console stopped")

	return nil
}

// printSummary writes the session wrap-up: engine counters first, then the
// event breakdown by kind.
func printSummary(out io.Writer, history *event.History, stats scheduler.Stats) {
	fmt.Fprintf(out, "\nsession summary: started=%d changed=%d expired=%d rendered=%d rejected=%d exhausted=%d\n",
		stats.Started, stats.Changed, stats.Expired, stats.Rendered, stats.InvalidChanges, stats.Exhausted)

	counts := history.CountByKind()
	for _, kind := range event.Kinds() {
		if counts[kind] == 0 {
			continue
		}

		fmt.Fprintf(out, "  %-15s %d\n", kind, counts[kind])
	}
}
