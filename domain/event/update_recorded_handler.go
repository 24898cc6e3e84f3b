package event

import (
	"log/slog"
	"sync"

	"board-lab/errors"
)

// UpdateRecordedHandler handles events when an update is durably recorded.
// It is triggered each time the write lane acknowledges an append.
// Useful for updating observability metrics, logging, or telemetry.
type UpdateRecordedHandler struct {
	log     *slog.Logger
	mu      sync.Mutex
	counter *Counter
}

func NewUpdateRecordedHandler(log *slog.Logger, counter *Counter) *UpdateRecordedHandler {
	return &UpdateRecordedHandler{log: log, counter: counter}
}

func (h *UpdateRecordedHandler) Handle(event Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	switch event.Type {
	case UpdateRecordedType:
		if _, ok := event.Payload.(UpdateRecorded); !ok {
			h.log.Error(errors.ErrInvalidPayload.Error())
			return
		}
		h.counter.Increment(UpdateRecordedType)
	}
}
