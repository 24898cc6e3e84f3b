package sink

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"board-lab/domain"
	"board-lab/domain/event"
	"board-lab/storage"
)

// SearchSink feeds annotation updates into the full-text index. It acts as
// a buffer that aggregates updates and commits them in batches: the flush
// is triggered either by reaching a size threshold (maxPending) or a
// time-based deadline (flushInterval), so a quiet session still becomes
// searchable without waiting for a full batch.
type SearchSink struct {
	mu            sync.Mutex
	timer         *time.Timer
	index         *storage.AnnotationIndex
	log           *slog.Logger
	pending       []domain.Update
	maxPending    int
	flushInterval time.Duration
}

func NewSearchSink(index *storage.AnnotationIndex, log *slog.Logger, maxPending int, flushInterval time.Duration) *SearchSink {
	return &SearchSink{
		index:         index,
		log:           log,
		maxPending:    maxPending,
		flushInterval: flushInterval,
	}
}

// Consume implements the EventSink interface. Only annotation updates are
// indexed; every other broadcast passes through untouched.
func (s *SearchSink) Consume(_ context.Context, e event.DomainEvent) error {
	applied, ok := e.(event.UpdateApplied)
	if !ok || applied.Update.Type != domain.UpdateAnnotation {
		return nil
	}

	s.mu.Lock()
	s.pending = append(s.pending, applied.Update)

	// First update of a new batch: arm a deadline so low-throughput
	// sessions are not stuck waiting for the size threshold.
	if len(s.pending) == 1 && s.timer == nil {
		s.timer = time.AfterFunc(s.flushInterval, func() {
			if err := s.Flush(); err != nil {
				s.log.Error("Deadline flush failed", "error", err)
			}
		})
	}

	isFull := len(s.pending) >= s.maxPending
	s.mu.Unlock()

	if isFull {
		return s.Flush()
	}
	return nil
}

// Flush commits everything buffered so far. It swaps the buffer out under
// the lock and indexes outside it, so consumers keep filling the next
// batch while the commit runs. Safe to call on shutdown with an empty
// buffer.
func (s *SearchSink) Flush() error {
	s.mu.Lock()

	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if len(s.pending) == 0 {
		s.mu.Unlock()
		return nil
	}

	batch := s.pending
	s.pending = make([]domain.Update, 0, s.maxPending)
	s.mu.Unlock()

	for _, u := range batch {
		s.index.Index(u)
	}
	if err := s.index.Flush(); err != nil {
		return err
	}
	s.log.Debug("Annotation batch indexed", "count", len(batch))
	return nil
}
