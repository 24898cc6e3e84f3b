package event

import (
	"fmt"
	"log/slog"

	"board-lab/errors"
)

// HealthHandler logs periodic resource samples of the engine process.
type HealthHandler struct {
	log *slog.Logger
}

func NewHealthHandler(log *slog.Logger) *HealthHandler {
	return &HealthHandler{log: log}
}

func (h HealthHandler) Handle(event Event) {
	switch event.Type {
	case HealthSampleType:
		payload, ok := event.Payload.(HealthSample)
		if !ok {
			h.log.Error(errors.ErrInvalidPayload.Error())
			return
		}
		h.log.Debug(fmt.Sprintf(" [ENGINE] | PID %d | STATUS %s | CPU %.2f%% | RAM %d bytes",
			payload.PID, payload.Status, payload.Cpu, payload.Ram))
	}
}
