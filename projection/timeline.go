// Package projection builds local read models from observed events.
// Handles ordering, deduplication, and projections.
// Does not emit events or interact with the engine directly.
package projection

import (
	"context"
	"fmt"
	"sync"
	"time"

	"board-lab/domain/event"

	"github.com/google/uuid"
)

// DefaultLimit bounds how many entries a single session keeps.
const DefaultLimit = 1000

// Entry is one item on a session's activity timeline.
type Entry struct {
	Kind     string
	Actor    string
	Sequence uint64
	Detail   string
	At       time.Time
}

// Timeline folds broadcast events into a per-session activity log.
// The fanout appends while readers page through history, so every
// access goes through the lock.
type Timeline struct {
	mu      sync.RWMutex
	limit   int
	entries map[uuid.UUID][]Entry
	seen    map[uuid.UUID]map[uuid.UUID]struct{}
}

func NewTimeline(limit int) *Timeline {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Timeline{
		limit:   limit,
		entries: make(map[uuid.UUID][]Entry),
		seen:    make(map[uuid.UUID]map[uuid.UUID]struct{}),
	}
}

// Consume implements the EventSink interface.
// Updates are deduplicated by ID because the pipeline delivers
// at-least-once; everything else is appended as observed.
func (t *Timeline) Consume(_ context.Context, e event.DomainEvent) error {
	entry, ok := fromEvent(e)
	if !ok {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	sessionID := e.Session()
	if applied, isUpdate := e.(event.UpdateApplied); isUpdate {
		if t.alreadySeen(sessionID, applied.Update.ID) {
			return nil
		}
	}

	list := append(t.entries[sessionID], entry)
	if len(list) > t.limit {
		list = list[len(list)-t.limit:]
	}
	t.entries[sessionID] = list

	// No further updates arrive once the session ended, the
	// dedup set is dead weight from here on.
	if _, ended := e.(event.SessionEnded); ended {
		delete(t.seen, sessionID)
	}
	return nil
}

// Entries returns a copy of the session's timeline, oldest first.
func (t *Timeline) Entries(sessionID uuid.UUID) []Entry {
	t.mu.RLock()
	defer t.mu.RUnlock()

	list := t.entries[sessionID]
	out := make([]Entry, len(list))
	copy(out, list)
	return out
}

// Len reports how many entries a session currently holds.
func (t *Timeline) Len(sessionID uuid.UUID) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries[sessionID])
}

func (t *Timeline) alreadySeen(sessionID, updateID uuid.UUID) bool {
	set, ok := t.seen[sessionID]
	if !ok {
		set = make(map[uuid.UUID]struct{})
		t.seen[sessionID] = set
	}
	if _, dup := set[updateID]; dup {
		return true
	}
	set[updateID] = struct{}{}
	return false
}

func fromEvent(e event.DomainEvent) (Entry, bool) {
	switch evt := e.(type) {
	case event.ParticipantJoined:
		return Entry{
			Kind:   evt.Kind(),
			Actor:  evt.UserID,
			Detail: fmt.Sprintf("%s joined as %s", evt.DisplayName, evt.Role),
			At:     evt.At,
		}, true
	case event.ParticipantLeft:
		return Entry{
			Kind:  evt.Kind(),
			Actor: evt.UserID,
			At:    evt.At,
		}, true
	case event.UpdateApplied:
		return Entry{
			Kind:     evt.Kind(),
			Actor:    evt.Update.AuthorID,
			Sequence: evt.Update.Sequence,
			Detail:   string(evt.Update.Type),
			At:       evt.Update.SubmittedAt,
		}, true
	case event.ConflictDetected:
		return Entry{
			Kind:   evt.Kind(),
			Detail: fmt.Sprintf("%d updates implicated", len(evt.Conflict.UpdateIDs)),
			At:     evt.Conflict.DetectedAt,
		}, true
	case event.ConflictResolved:
		entry := Entry{
			Kind:   evt.Kind(),
			Actor:  evt.Conflict.ResolvedBy,
			Detail: string(evt.Conflict.Status),
		}
		if evt.Conflict.ResolvedAt != nil {
			entry.At = *evt.Conflict.ResolvedAt
		}
		return entry, true
	case event.SessionEnded:
		return Entry{
			Kind:  evt.Kind(),
			Actor: evt.EndedBy,
			At:    evt.At,
		}, true
	case event.PermissionsChanged:
		return Entry{
			Kind:   evt.Kind(),
			Actor:  evt.ChangedBy,
			Detail: fmt.Sprintf("%s is now %s", evt.UserID, evt.Role),
			At:     evt.At,
		}, true
	}
	return Entry{}, false
}
