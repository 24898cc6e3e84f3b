package event

import (
	"time"

	"board-lab/domain"

	"github.com/google/uuid"
)

const (
	RestartedAfterPanicType Type = "WORKER_RESTARTED_AFTER_PANIC"
	ChannelCapacityType     Type = "CHANNEL_CAPACITY"
	HealthSampleType        Type = "HEALTH_SAMPLE"
	UpdateRecordedType      Type = "UPDATE_RECORDED"
	CensorshipHitType       Type = "CENSORSHIP_HIT"
	BroadcastLatencyType    Type = "BROADCAST_LATENCY"
)

type WorkerRestartedAfterPanic struct {
	WorkerName string
}

type ChannelCapacity struct {
	ChannelName string
	Capacity    int
	Length      int
}

// HealthSample reports the engine process's own resource usage.
type HealthSample struct {
	PID    domain.PID
	Status domain.PidStatus
	Cpu    float64
	Ram    uint64
}

type UpdateRecorded struct {
	SessionID uuid.UUID
	Sequence  uint64
}

// Censored reports a masked annotation word. The stored payload stays
// untouched; masking applies to the broadcast copy only.
type Censored struct {
	SessionID uuid.UUID
	Word      string
}

// BroadcastLatency measures submission-to-fanout lead time per update.
type BroadcastLatency struct {
	SessionID   uuid.UUID
	Sequence    uint64
	SubmittedAt time.Time
}
