package event

import (
	"sync"
	"time"
)

// Type tags telemetry events flowing on the internal observability channel.
type Type string

// Event is the envelope for telemetry events. Payload holds one of the
// technical event structs keyed by Type.
type Event struct {
	Type      Type
	CreatedAt time.Time
	Payload   any
}

// Counter accumulates per-type event counts for handlers and the debug
// endpoint.
type Counter struct {
	mu     sync.Mutex
	counts map[Type]uint64
}

func NewCounter() *Counter {
	return &Counter{counts: make(map[Type]uint64)}
}

func (c *Counter) Increment(t Type) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[t]++
}

func (c *Counter) Get(t Type) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[t]
}

// Snapshot copies the counters for reporting.
func (c *Counter) Snapshot() map[Type]uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[Type]uint64, len(c.counts))
	for t, n := range c.counts {
		out[t] = n
	}
	return out
}
