// Package runtime assembles the synchronization engine: session lanes,
// event propagation, supervised workers and the idle reaper. It orchestrates
// the system without containing document semantics.
package runtime

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"board-lab/conflict"
	"board-lab/contract"
	"board-lab/domain/event"
	"board-lab/moderation"
	"board-lab/observability"
	"board-lab/runtime/workers"

	"github.com/google/uuid"
)

const (
	// lowCapacityThreshold is the remaining-slot count below which a
	// channel sample is logged as a warning.
	lowCapacityThreshold = 16
	// latencyWarnThreshold flags broadcasts that took suspiciously long
	// from append acknowledgment to fanout.
	latencyWarnThreshold = time.Second
)

// Options tunes the engine. Zero values fall back to development defaults;
// production values come from the environment.
type Options struct {
	LaneCount int
	Buffer    int
	// ParallelSessions lifts the one-active-session-per-document rule.
	ParallelSessions     bool
	SinkTimeout          time.Duration
	SuppressEcho         bool
	ConflictWindow       time.Duration
	ConflictDepth        int
	IdleGrace            time.Duration
	ReapInterval         time.Duration
	MetricInterval       time.Duration
	LatencyThreshold     time.Duration
	LowCapacityThreshold int
	CensoredWords        []string
	CensoredChar         rune
}

func (o Options) withDefaults() Options {
	if o.LaneCount <= 0 {
		o.LaneCount = 4
	}
	if o.Buffer <= 0 {
		o.Buffer = 1024
	}
	if o.SinkTimeout <= 0 {
		o.SinkTimeout = 5 * time.Second
	}
	if o.ConflictWindow <= 0 {
		o.ConflictWindow = conflict.DefaultWindow
	}
	if o.ConflictDepth <= 0 {
		o.ConflictDepth = conflict.DefaultDepth
	}
	if o.IdleGrace <= 0 {
		o.IdleGrace = 2 * time.Minute
	}
	if o.ReapInterval <= 0 {
		o.ReapInterval = 30 * time.Second
	}
	if o.MetricInterval <= 0 {
		o.MetricInterval = 10 * time.Second
	}
	if o.LatencyThreshold <= 0 {
		o.LatencyThreshold = latencyWarnThreshold
	}
	if o.LowCapacityThreshold <= 0 {
		o.LowCapacityThreshold = lowCapacityThreshold
	}
	if o.CensoredChar == 0 {
		o.CensoredChar = '*'
	}
	return o
}

type Engine struct {
	log        *slog.Logger
	opts       Options
	sessions   contract.ISessionStore
	updates    contract.IUpdateStore
	conflicts  contract.IConflictStore
	registry   contract.IRegistry
	authz      contract.Authorizer
	detector   *conflict.Detector
	resolver   *conflict.Resolver
	stats      *observability.StatsManager
	supervisor contract.ISupervisor
	lanes      *Lanes

	// seqs caches the last durably assigned sequence per session. Entries
	// are only touched from inside that session's lane; the mutex covers
	// cross-session map access, not sequencing.
	seqMu sync.Mutex
	seqs  map[uuid.UUID]uint64

	rawEvents       chan event.DomainEvent
	domainEvents    chan event.DomainEvent
	telemetryEvents chan event.Event

	mu             sync.Mutex
	permanentSinks []contract.EventSink
}

var _ contract.IEngine = (*Engine)(nil)

func NewEngine(log *slog.Logger, opts Options,
	sessions contract.ISessionStore, updates contract.IUpdateStore, conflicts contract.IConflictStore,
	registry contract.IRegistry, authz contract.Authorizer, matcher contract.EntityMatcher,
	stats *observability.StatsManager) *Engine {
	opts = opts.withDefaults()

	e := &Engine{
		log:             log,
		opts:            opts,
		sessions:        sessions,
		updates:         updates,
		conflicts:       conflicts,
		registry:        registry,
		authz:           authz,
		stats:           stats,
		lanes:           NewLanes(opts.LaneCount, opts.Buffer),
		seqs:            make(map[uuid.UUID]uint64),
		rawEvents:       make(chan event.DomainEvent, opts.Buffer),
		domainEvents:    make(chan event.DomainEvent, opts.Buffer),
		telemetryEvents: make(chan event.Event, opts.Buffer),
	}
	e.detector = conflict.NewDetector(updates, conflicts, matcher, opts.ConflictWindow, opts.ConflictDepth, log)
	e.resolver = conflict.NewResolver(updates, conflicts, log)
	e.supervisor = workers.NewSupervisor(log, e.telemetryEvents)
	return e
}

// Add registers sinks that receive every broadcast event regardless of
// session, such as the annotation index and the timeline projection.
func (e *Engine) Add(sinks ...contract.EventSink) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.permanentSinks = append(e.permanentSinks, sinks...)
}

// Start prepares the moderation automaton, wires the worker pipeline and
// runs the supervisor. It blocks until Stop is called or ctx is canceled.
func (e *Engine) Start(ctx context.Context) error {
	moderationWorker, err := e.prepareModeration()
	if err != nil {
		return err
	}

	fanout := workers.NewEventFanout(e.log, e.registry, e.stats,
		e.domainEvents, e.telemetryEvents, e.opts.SinkTimeout, e.opts.SuppressEcho)
	fanout.Add(e.snapshotSinks())

	e.supervisor.Add(e.lanes.Workers(e.log)...)
	e.supervisor.Add(moderationWorker)
	e.supervisor.Add(fanout)
	e.supervisor.Add(workers.NewReaperWorker(e, e.opts.ReapInterval, e.log))
	e.supervisor.Add(workers.NewHealthMonitoringWorker(e.log, e.telemetryEvents, e.opts.MetricInterval))
	e.supervisor.Add(workers.NewChannelCapacityWorker(e.log, e.telemetryEvents, e.opts.MetricInterval,
		workers.NamedChannel{Name: "raw_events", Ch: e.rawEvents},
		workers.NamedChannel{Name: "domain_events", Ch: e.domainEvents},
		workers.NamedChannel{Name: "telemetry_events", Ch: e.telemetryEvents}))
	e.supervisor.Add(workers.NewTelemetryWorker(e.log, e.telemetryEvents, e.telemetryHandlers()))

	e.log.Info("Starting engine and all supervised workers",
		"lanes", e.opts.LaneCount,
		"buffer", e.opts.Buffer,
		"idle_grace", e.opts.IdleGrace,
		"suppress_echo", e.opts.SuppressEcho)
	e.supervisor.Run(ctx)
	return nil
}

// Stop cancels the supervision context. Workers drain their channels and
// exit; in-flight lane submitters get their context errors.
func (e *Engine) Stop() {
	e.log.Info("Requesting engine shutdown")
	e.supervisor.Stop()
}

// prepareModeration builds the Aho-Corasick automaton from the configured
// dictionary. An empty dictionary disables masking rather than failing.
func (e *Engine) prepareModeration() (contract.Worker, error) {
	if len(e.opts.CensoredWords) == 0 {
		e.log.Info("Moderation disabled, no censored words configured")
		return workers.NewModerationWorker(nil, e.rawEvents, e.domainEvents, e.telemetryEvents, e.log), nil
	}

	moderator, err := moderation.NewModerator(e.opts.CensoredWords, e.opts.CensoredChar, e.log)
	if err != nil {
		return nil, err
	}
	e.log.Info("Moderation enabled", "words", len(e.opts.CensoredWords))
	return workers.NewModerationWorker(&moderator, e.rawEvents, e.domainEvents, e.telemetryEvents, e.log), nil
}

func (e *Engine) telemetryHandlers() []event.Handler {
	counter := event.NewCounter()
	return []event.Handler{
		event.NewUpdateRecordedHandler(e.log, counter),
		event.NewCensoredHandler(e.log),
		event.NewChannelCapacityHandler(e.log, e.opts.LowCapacityThreshold),
		event.NewHealthHandler(e.log),
		event.NewLatencyHandler(e.log, e.opts.LatencyThreshold),
		event.NewWorkerRestartedAfterPanicHandler(e.log, counter),
	}
}

func (e *Engine) snapshotSinks() []contract.EventSink {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]contract.EventSink(nil), e.permanentSinks...)
}

// emit hands a domain event to the pipeline. Delivery is at-least-once, so
// a full buffer applies backpressure to the producer instead of dropping.
func (e *Engine) emit(ctx context.Context, evt event.DomainEvent) {
	select {
	case e.rawEvents <- evt:
	case <-ctx.Done():
		e.log.Warn("Event lost, caller gone before the pipeline accepted it",
			"kind", evt.Kind(),
			"session_id", evt.Session())
	}
}

// telemetry is best effort: observability never blocks the write path.
func (e *Engine) telemetry(t event.Type, payload any) {
	select {
	case e.telemetryEvents <- event.Event{Type: t, CreatedAt: time.Now().UTC(), Payload: payload}:
	default:
		e.log.Debug("Observability telemetry event lost")
	}
}
