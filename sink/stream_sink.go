package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"board-lab/contract"
	"board-lab/domain/event"

	"github.com/google/uuid"
)

// Frame is the wire envelope pushed to a connected participant. Body holds
// the JSON encoding of the broadcast event itself.
type Frame struct {
	Type      string          `json:"type"`
	SessionID uuid.UUID       `json:"sessionId"`
	Body      json.RawMessage `json:"body"`
	SentAt    time.Time       `json:"sentAt"`
}

// StreamSink serializes broadcast events for one participant and pushes
// them over whatever transport the participant connected with. The fanout
// bounds delivery time, so Send inherits its deadline from ctx.
type StreamSink struct {
	participantID string
	transport     contract.Transport
	log           *slog.Logger
}

func NewStreamSink(participantID string, transport contract.Transport, log *slog.Logger) StreamSink {
	return StreamSink{participantID: participantID, transport: transport, log: log}
}

func (s StreamSink) Consume(ctx context.Context, e event.DomainEvent) error {
	frame, err := encodeFrame(e)
	if err != nil {
		return fmt.Errorf("encoding %s frame: %w", e.Kind(), err)
	}
	return s.transport.Send(ctx, s.participantID, frame)
}

func encodeFrame(e event.DomainEvent) ([]byte, error) {
	body, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Frame{
		Type:      e.Kind(),
		SessionID: e.Session(),
		Body:      body,
		SentAt:    time.Now().UTC(),
	})
}
