package workers

import (
	"context"
	"log/slog"
	"time"

	"board-lab/contract"
	"board-lab/domain/event"
	"board-lab/observability"
)

// EventFanout broadcasts domain events to the session's connected sinks
// plus the permanent sinks (annotation index, timeline projection).
//
// Delivery is at-least-once and ordered per session: events arrive here in
// the order the lanes produced them and every sink is served sequentially.
// A slow sink is bounded by the per-delivery timeout, never by the caller.
//
// EventFanout is not a message broker: no durability, no retries. Catch-up
// after a missed delivery goes through the update log.
type EventFanout struct {
	log            *slog.Logger
	registry       contract.IRegistry
	stats          *observability.StatsManager
	domainEvents   <-chan event.DomainEvent
	telemetry      chan<- event.Event
	sinkTimeout    time.Duration
	suppressEcho   bool
	permanentSinks []contract.EventSink
}

var _ contract.Worker = (*EventFanout)(nil)

func NewEventFanout(log *slog.Logger, registry contract.IRegistry, stats *observability.StatsManager,
	domainEvents <-chan event.DomainEvent, telemetry chan<- event.Event,
	sinkTimeout time.Duration, suppressEcho bool) *EventFanout {
	return &EventFanout{
		log:          log,
		registry:     registry,
		stats:        stats,
		domainEvents: domainEvents,
		telemetry:    telemetry,
		sinkTimeout:  sinkTimeout,
		suppressEcho: suppressEcho,
	}
}

func (w *EventFanout) Add(sinks []contract.EventSink) *EventFanout {
	w.permanentSinks = append(w.permanentSinks, sinks...)
	return w
}

func (w *EventFanout) Run(ctx context.Context) error {
	for {
		select {
		case evt := <-w.domainEvents:
			w.fanout(ctx, evt)
		case <-ctx.Done():
			w.log.Debug("Context done, stopping event fanout")
			return nil
		}
	}
}

// fanout delivers one event to every addressed sink. For update broadcasts
// the author's own sink is skipped when echo suppression is on: the author
// already holds the acknowledged update.
func (w *EventFanout) fanout(ctx context.Context, evt event.DomainEvent) {
	sessionID := evt.Session()

	var except []string
	applied, isUpdate := evt.(event.UpdateApplied)
	if isUpdate && w.suppressEcho {
		except = append(except, applied.Update.AuthorID)
	}

	sinks := append(w.snapshotPermanent(), w.registry.GetSinksForSession(sessionID, except...)...)
	for _, sink := range sinks {
		w.deliver(ctx, sink, evt)
	}

	if isUpdate {
		w.reportLatency(applied)
	}
	// session-ended is the last broadcast a session's sinks receive
	if _, ended := evt.(event.SessionEnded); ended {
		w.registry.DropSession(sessionID)
	}
}

func (w *EventFanout) deliver(ctx context.Context, sink contract.EventSink, evt event.DomainEvent) {
	deliveryCtx, cancel := context.WithTimeout(ctx, w.sinkTimeout)
	defer cancel()

	if err := sink.Consume(deliveryCtx, evt); err != nil {
		w.log.Warn("Sink delivery failed",
			"kind", evt.Kind(),
			"session_id", evt.Session(),
			"error", err)
		return
	}
	w.stats.IncrEventsDelivered()
}

func (w *EventFanout) reportLatency(applied event.UpdateApplied) {
	select {
	case w.telemetry <- event.Event{
		Type:      event.BroadcastLatencyType,
		CreatedAt: time.Now().UTC(),
		Payload: event.BroadcastLatency{
			SessionID:   applied.SessionID,
			Sequence:    applied.Update.Sequence,
			SubmittedAt: applied.Update.SubmittedAt,
		},
	}:
	default:
		w.log.Debug("Observability telemetry event lost")
	}
}

func (w *EventFanout) snapshotPermanent() []contract.EventSink {
	return append([]contract.EventSink(nil), w.permanentSinks...)
}
