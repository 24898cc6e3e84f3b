package observability

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// EngineStats aggregates the live counters exposed on the debug endpoint.
type EngineStats struct {
	// Write path
	AppendThroughput float64 `json:"append_throughput"` // updates/s over the last tick
	UpdatesRecorded  uint64  `json:"updates_recorded"`
	AppendBytesRate  float64 `json:"append_bytes_rate"` // MB/s of payload appended

	// Sessions
	SessionsCreated uint64 `json:"sessions_created"`
	SessionsEnded   uint64 `json:"sessions_ended"`
	SessionsReaped  uint64 `json:"sessions_reaped"`

	// Conflicts
	ConflictsDetected uint64 `json:"conflicts_detected"`
	ConflictsResolved uint64 `json:"conflicts_resolved"`

	// Delivery
	EventsDelivered uint64 `json:"events_delivered"`
	PresenceWrites  uint64 `json:"presence_writes"`

	// Go runtime
	AllocMemMb uint64 `json:"alloc_mem_mb"`
	NumGC      uint32 `json:"num_gc"`
}

// StatsManager keeps real-time engine telemetry. Hot-path increments are
// atomic; the snapshot is refreshed on a one-second tick.
type StatsManager struct {
	log         *slog.Logger
	mu          sync.RWMutex
	latestStats EngineStats

	updatesRecorded   uint64
	appendBytes       uint64
	sessionsCreated   uint64
	sessionsEnded     uint64
	sessionsReaped    uint64
	conflictsDetected uint64
	conflictsResolved uint64
	eventsDelivered   uint64
	presenceWrites    uint64

	updatesAtLastCheck uint64
	lastCheck          time.Time
}

func NewStatsManager(log *slog.Logger) *StatsManager {
	return &StatsManager{
		log:       log,
		lastCheck: time.Now(),
	}
}

func (sm *StatsManager) IncrUpdatesRecorded(payloadBytes uint64) {
	atomic.AddUint64(&sm.updatesRecorded, 1)
	atomic.AddUint64(&sm.appendBytes, payloadBytes)
}

func (sm *StatsManager) IncrSessionsCreated() {
	atomic.AddUint64(&sm.sessionsCreated, 1)
}

func (sm *StatsManager) IncrSessionsEnded() {
	atomic.AddUint64(&sm.sessionsEnded, 1)
}

func (sm *StatsManager) IncrSessionsReaped() {
	atomic.AddUint64(&sm.sessionsReaped, 1)
}

func (sm *StatsManager) IncrConflictsDetected() {
	atomic.AddUint64(&sm.conflictsDetected, 1)
}

func (sm *StatsManager) IncrConflictsResolved() {
	atomic.AddUint64(&sm.conflictsResolved, 1)
}

func (sm *StatsManager) IncrEventsDelivered() {
	atomic.AddUint64(&sm.eventsDelivered, 1)
}

func (sm *StatsManager) IncrPresenceWrites() {
	atomic.AddUint64(&sm.presenceWrites, 1)
}

// Listen refreshes the published snapshot once per second until the
// context is cancelled.
func (sm *StatsManager) Listen(ctx context.Context) {
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			sm.log.Info("Stats manager stopped")
			return
		case <-ticker.C:
			sm.updateStats()
		}
	}
}

func (sm *StatsManager) updateStats() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	now := time.Now()
	duration := now.Sub(sm.lastCheck).Seconds()

	recorded := atomic.LoadUint64(&sm.updatesRecorded)
	if duration > 0 {
		bytes := atomic.SwapUint64(&sm.appendBytes, 0)
		sm.latestStats.AppendBytesRate = (float64(bytes) / 1024 / 1024) / duration
		sm.latestStats.AppendThroughput = float64(recorded-sm.updatesAtLastCheck) / duration
	}
	sm.updatesAtLastCheck = recorded
	sm.lastCheck = now

	sm.latestStats.UpdatesRecorded = recorded
	sm.latestStats.SessionsCreated = atomic.LoadUint64(&sm.sessionsCreated)
	sm.latestStats.SessionsEnded = atomic.LoadUint64(&sm.sessionsEnded)
	sm.latestStats.SessionsReaped = atomic.LoadUint64(&sm.sessionsReaped)
	sm.latestStats.ConflictsDetected = atomic.LoadUint64(&sm.conflictsDetected)
	sm.latestStats.ConflictsResolved = atomic.LoadUint64(&sm.conflictsResolved)
	sm.latestStats.EventsDelivered = atomic.LoadUint64(&sm.eventsDelivered)
	sm.latestStats.PresenceWrites = atomic.LoadUint64(&sm.presenceWrites)

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	sm.latestStats.AllocMemMb = m.Alloc / 1024 / 1024
	sm.latestStats.NumGC = m.NumGC

	sm.log.Debug("stats refreshed",
		"append_throughput", sm.latestStats.AppendThroughput,
		"updates_recorded", sm.latestStats.UpdatesRecorded,
		"events_delivered", sm.latestStats.EventsDelivered,
		"mem_mb", sm.latestStats.AllocMemMb,
	)
}

func (sm *StatsManager) GetLatest() EngineStats {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.latestStats
}
