package workers

import (
	"context"
	"log/slog"

	"board-lab/contract"
	"board-lab/domain/event"
)

// TelemetryWorker drains the technical event channel and dispatches each
// event to every registered handler. Handlers are synchronous and cheap;
// anything expensive belongs in its own worker.
type TelemetryWorker struct {
	log           *slog.Logger
	telemetryChan <-chan event.Event
	handlers      []event.Handler
}

var _ contract.Worker = (*TelemetryWorker)(nil)

func NewTelemetryWorker(log *slog.Logger, telemetryChan <-chan event.Event,
	handlers []event.Handler) *TelemetryWorker {
	return &TelemetryWorker{
		log:           log,
		telemetryChan: telemetryChan,
		handlers:      handlers,
	}
}

func (w *TelemetryWorker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping telemetry dispatch")
			return nil
		case evt := <-w.telemetryChan:
			w.handle(evt)
		}
	}
}

func (w *TelemetryWorker) handle(evt event.Event) {
	for _, h := range w.handlers {
		h.Handle(evt)
	}
}
