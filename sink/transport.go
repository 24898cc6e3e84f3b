package sink

import (
	"context"
	"sync"

	"board-lab/contract"
	"board-lab/errors"
)

// ChannelTransport delivers frames over in-process buffered channels, one
// stream per participant. Embedded frontends and the scenario suites read
// from Stream; network transports satisfy the same interface out of tree.
// A send into a full stream blocks until the fanout's delivery deadline
// cancels it, so a stalled reader slows only its own broadcasts.
type ChannelTransport struct {
	mu      sync.Mutex
	buffer  int
	streams map[string]chan []byte
}

var _ contract.Transport = (*ChannelTransport)(nil)

func NewChannelTransport(buffer int) *ChannelTransport {
	if buffer <= 0 {
		buffer = 64
	}
	return &ChannelTransport{
		buffer:  buffer,
		streams: make(map[string]chan []byte),
	}
}

func (t *ChannelTransport) Send(ctx context.Context, participantID string, message []byte) error {
	select {
	case t.stream(participantID) <- message:
		return nil
	case <-ctx.Done():
		return errors.Wrap(errors.KindInternal, ctx.Err(),
			"participant %s did not drain their stream in time", participantID)
	}
}

// Stream returns the participant's frame channel, creating it on first
// use so consumers may start reading before the first broadcast.
func (t *ChannelTransport) Stream(participantID string) <-chan []byte {
	return t.stream(participantID)
}

// Drop closes and forgets the participant's stream. A later Send starts a
// fresh one, which keeps rejoin cheap.
func (t *ChannelTransport) Drop(participantID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if stream, ok := t.streams[participantID]; ok {
		close(stream)
		delete(t.streams, participantID)
	}
}

func (t *ChannelTransport) stream(participantID string) chan []byte {
	t.mu.Lock()
	defer t.mu.Unlock()
	stream, ok := t.streams[participantID]
	if !ok {
		stream = make(chan []byte, t.buffer)
		t.streams[participantID] = stream
	}
	return stream
}
