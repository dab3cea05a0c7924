package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/atomic"

	"github.com/oshokin/alarm-scheduler/internal/domain/alarm"
	"github.com/oshokin/alarm-scheduler/internal/event"
	"github.com/oshokin/alarm-scheduler/internal/logger"
	"github.com/oshokin/alarm-scheduler/internal/registry"
)

// Monitor wake-up disciplines.
const (
	// ModeEvent arms a timer for the earliest deadline and reacts to admission
	// signals; the monitor sleeps exactly as long as it can afford to.
	ModeEvent = "event"
	// ModePoll sweeps the registry on a fixed ticker.
	ModePoll = "poll"
)

// Engine defaults, applied by New when an option is zero.
const (
	// DefaultPollInterval is the sweep period in polling mode.
	DefaultPollInterval = time.Second
	// DefaultDisplayInterval is how often a display worker renders its group.
	DefaultDisplayInterval = 5 * time.Second
	// DefaultDisplaySlots is the size of the display slot table.
	DefaultDisplaySlots = 10
	// DefaultSlotCapacity is how many alarms one display slot carries.
	DefaultSlotCapacity = 2
)

// Event actors for the fixed engine roles. Workers use "worker-<n>".
const (
	actorMain       = "main"
	actorMonitor    = "monitor"
	actorDispatcher = "dispatcher"
)

var (
	// ErrDuplicateAlarmID rejects a start request whose id is already pending.
	ErrDuplicateAlarmID = errors.New("alarm id already pending")
	// ErrPoolExhausted rejects a request when no display slot can take the alarm.
	ErrPoolExhausted = errors.New("no display slot available")
)

// Options configures a Scheduler. Zero values fall back to the defaults above.
type Options struct {
	// Mode selects the monitor discipline, ModeEvent or ModePoll.
	Mode string
	// PollInterval is the sweep period when Mode is ModePoll.
	PollInterval time.Duration
	// DisplayInterval is the display workers' render period.
	DisplayInterval time.Duration
	// DisplaySlots bounds how many display workers may be live at once.
	DisplaySlots int
	// SlotCapacity is how many alarms one slot carries before the next
	// same-group slot is opened.
	SlotCapacity int
}

// normalize fills unset options with defaults.
func (o *Options) normalize() {
	if o.Mode != ModePoll {
		o.Mode = ModeEvent
	}

	if o.PollInterval <= 0 {
		o.PollInterval = DefaultPollInterval
	}

	if o.DisplayInterval <= 0 {
		o.DisplayInterval = DefaultDisplayInterval
	}

	if o.DisplaySlots <= 0 {
		o.DisplaySlots = DefaultDisplaySlots
	}

	if o.SlotCapacity <= 0 {
		o.SlotCapacity = DefaultSlotCapacity
	}
}

// Scheduler is the alarm scheduling engine: it admits start and change
// requests, runs the single monitor goroutine that expires alarms and applies
// changes, and fans display out to per-slot worker goroutines.
type Scheduler struct {
	// mode is the monitor discipline, ModeEvent or ModePoll.
	mode string
	// pollInterval is the sweep period in polling mode.
	pollInterval time.Duration
	// displayInterval is the workers' render period.
	displayInterval time.Duration
	// clock is the injected time source; tests use a fake.
	clock clockwork.Clock
	// sink receives every event record the engine produces.
	sink event.Sink
	// registry holds pending alarms, ordered by deadline.
	registry *registry.Registry
	// changes stages change requests for the monitor.
	changes *registry.ChangeQueue
	// slots is the bounded display slot table.
	slots *slotTable
	// wake is the monitor's coalescing wake-up signal: capacity one, so
	// signals sent while the monitor is mid-pass are retained, never stacked.
	wake chan struct{}
	// stop tells display workers to terminate; closed once by Run on the way out.
	stop chan struct{}
	// wg tracks live display workers.
	wg sync.WaitGroup
	// stats counts engine activity.
	stats engineStats
}

// engineStats are the engine's activity counters.
type engineStats struct {
	started        atomic.Int64
	changed        atomic.Int64
	expired        atomic.Int64
	rendered       atomic.Int64
	invalidChanges atomic.Int64
	exhausted      atomic.Int64
}

// Stats is a point-in-time copy of the engine counters.
type Stats struct {
	// Started counts admitted alarms.
	Started int64
	// Changed counts applied change requests.
	Changed int64
	// Expired counts alarms removed at their deadline.
	Expired int64
	// Rendered counts individual alarm render lines.
	Rendered int64
	// InvalidChanges counts change requests naming no pending alarm.
	InvalidChanges int64
	// Exhausted counts requests rejected for lack of a display slot.
	Exhausted int64
}

// New builds a scheduler. A nil clock means the real clock; a nil sink
// discards events.
func New(opts Options, clk clockwork.Clock, sink event.Sink) *Scheduler {
	opts.normalize()

	if clk == nil {
		clk = clockwork.NewRealClock()
	}

	if sink == nil {
		sink = event.Discard
	}

	return &Scheduler{
		mode:            opts.Mode,
		pollInterval:    opts.PollInterval,
		displayInterval: opts.DisplayInterval,
		clock:           clk,
		sink:            sink,
		registry:        registry.New(),
		changes:         registry.NewChangeQueue(),
		slots:           newSlotTable(opts.DisplaySlots, opts.SlotCapacity),
		wake:            make(chan struct{}, 1),
		stop:            make(chan struct{}),
	}
}

// Run executes the monitor until ctx is canceled, then stops the display
// workers and waits for them. It must be called exactly once.
func (s *Scheduler) Run(ctx context.Context) error {
	logger.InfoKV(ctx, "Scheduler started",
		"mode", s.mode,
		"display_slots", s.slots.size(),
		"slot_capacity", s.slots.capacity,
		"display_interval", s.displayInterval.String(),
	)

	s.runMonitor(ctx)

	close(s.stop)
	s.wg.Wait()

	st := s.Stats()
	logger.InfoKV(ctx, "Scheduler stopped",
		"started", st.Started,
		"changed", st.Changed,
		"expired", st.Expired,
		"rendered", st.Rendered,
	)

	return nil
}

// SubmitStart admits a new alarm: it reserves display capacity, inserts the
// alarm into the registry and wakes the monitor. The request is rejected
// whole on a duplicate id or when no display slot is free; in the latter case
// a SlotsExhausted event is also emitted.
func (s *Scheduler) SubmitStart(ctx context.Context, id, group, seconds int64, message string) error {
	a := alarm.New(id, group, seconds, message, s.clock.Now())

	asn, err := s.slots.assign(id, group)
	if err != nil {
		if errors.Is(err, ErrPoolExhausted) {
			s.stats.exhausted.Inc()
			s.emit(event.Event{
				Kind:    event.SlotsExhausted,
				Actor:   actorMain,
				AlarmID: id,
				Group:   group,
				Message: a.Message,
			})
			logger.WarnKV(ctx, "Alarm rejected, no display slot available", "alarm_id", id, "group", group)
		}

		return fmt.Errorf("admit alarm %d: %w", id, err)
	}

	if err := s.registry.Insert(a); err != nil {
		s.slots.release(id)

		return fmt.Errorf("insert alarm %d: %w", id, err)
	}

	s.stats.started.Inc()
	s.emit(event.Event{
		Kind:      event.AlarmInserted,
		Actor:     actorMain,
		AlarmID:   id,
		Group:     group,
		Remaining: a.Remaining(s.clock.Now()),
		Message:   a.Message,
	})
	logger.DebugKV(ctx, "Alarm inserted", "alarm_id", id, "group", group, "deadline", a.Deadline)

	if asn.activated {
		s.startWorker(ctx, asn, a.Message)
	}

	s.wakeMonitor()

	return nil
}

// SubmitChange stages a modification of a pending alarm and wakes the
// monitor, which applies or rejects it on its next pass.
func (s *Scheduler) SubmitChange(ctx context.Context, id, group, seconds int64, message string) error {
	cr := alarm.NewChange(id, group, seconds, message, s.clock.Now())

	s.changes.Push(cr)
	logger.DebugKV(ctx, "Change staged", "alarm_id", id, "group", group, "deadline", cr.Deadline)
	s.wakeMonitor()

	return nil
}

// Pending reports how many alarms are currently in the registry.
func (s *Scheduler) Pending() int {
	return s.registry.Len()
}

// Stats returns a copy of the engine counters.
func (s *Scheduler) Stats() Stats {
	return Stats{
		Started:        s.stats.started.Load(),
		Changed:        s.stats.changed.Load(),
		Expired:        s.stats.expired.Load(),
		Rendered:       s.stats.rendered.Load(),
		InvalidChanges: s.stats.invalidChanges.Load(),
		Exhausted:      s.stats.exhausted.Load(),
	}
}

// wakeMonitor delivers a coalescing wake-up signal: if one is already
// pending, the new one folds into it.
func (s *Scheduler) wakeMonitor() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// emit stamps the event with the engine clock when the caller left Time unset
// and hands it to the sink.
func (s *Scheduler) emit(e event.Event) {
	if e.Time.IsZero() {
		e.Time = s.clock.Now()
	}

	s.sink.Emit(e)
}

// startWorker emits the lifecycle event and launches the display worker for a
// freshly activated slot. The event names the alarm that claimed the slot,
// message included. The worker outlives the submitting request, so it detaches
// from the request context and terminates via the stop channel.
func (s *Scheduler) startWorker(ctx context.Context, asn assignment, message string) {
	s.emit(event.Event{
		Kind:     event.WorkerStarted,
		Actor:    actorDispatcher,
		AlarmID:  asn.alarmID,
		Group:    asn.group,
		WorkerID: asn.worker,
		Message:  message,
	})

	wctx := context.WithoutCancel(ctx)

	s.wg.Add(1)

	go func() {
		defer s.wg.Done()
		s.runWorker(wctx, asn.slot, asn.worker, asn.group)
	}()
}
