package runtime

import (
	"sort"
	"sync"

	"board-lab/contract"
	"board-lab/domain"

	"github.com/google/uuid"
)

// Registry tracks which participants are reachable right now and where
// their cursors sit. Everything here is ephemeral: a restart loses
// connections and presence, never sessions or updates.
type Registry struct {
	mu       sync.RWMutex
	sinks    map[uuid.UUID]map[string]contract.EventSink
	presence map[uuid.UUID]map[string]domain.Presence
}

var _ contract.IRegistry = (*Registry)(nil)

func NewRegistry() *Registry {
	return &Registry{
		sinks:    make(map[uuid.UUID]map[string]contract.EventSink),
		presence: make(map[uuid.UUID]map[string]domain.Presence),
	}
}

// GetSinksForSession retrieves the active delivery channels of a session,
// skipping the participants listed in except. The exclusion is how the
// broadcaster suppresses echo back to an update's own author.
// Returns nil if the session has no connected participants.
func (r *Registry) GetSinksForSession(sessionID uuid.UUID, except ...string) []contract.EventSink {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members, ok := r.sinks[sessionID]
	if !ok {
		return nil
	}

	excluded := make(map[string]struct{}, len(except))
	for _, id := range except {
		excluded[id] = struct{}{}
	}

	var activeSinks []contract.EventSink
	for participantID, sink := range members {
		if _, skip := excluded[participantID]; skip {
			continue
		}
		activeSinks = append(activeSinks, sink)
	}
	return activeSinks
}

// Subscribe registers a participant's active connection within a session.
// A re-join replaces the previous sink, which is exactly the transport
// handle swap a reconnect needs.
func (r *Registry) Subscribe(participantID string, sessionID uuid.UUID, sink contract.EventSink) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sinks[sessionID]; !ok {
		r.sinks[sessionID] = make(map[string]contract.EventSink)
	}
	r.sinks[sessionID][participantID] = sink
}

// Unsubscribe drops a participant's connection and presence. Empty session
// entries are removed entirely to prevent the maps growing forever.
func (r *Registry) Unsubscribe(participantID string, sessionID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if members, ok := r.sinks[sessionID]; ok {
		delete(members, participantID)
		if len(members) == 0 {
			delete(r.sinks, sessionID)
		}
	}
	if cursors, ok := r.presence[sessionID]; ok {
		delete(cursors, participantID)
		if len(cursors) == 0 {
			delete(r.presence, sessionID)
		}
	}
}

// SetCursor records the latest cursor position of a connected participant.
// Writes from participants without a live connection are dropped: presence
// is best effort and last write wins.
func (r *Registry) SetCursor(sessionID uuid.UUID, participantID string, cursor domain.Cursor) {
	r.mu.Lock()
	defer r.mu.Unlock()

	members, ok := r.sinks[sessionID]
	if !ok {
		return
	}
	if _, connected := members[participantID]; !connected {
		return
	}

	if _, ok := r.presence[sessionID]; !ok {
		r.presence[sessionID] = make(map[string]domain.Presence)
	}
	c := cursor
	r.presence[sessionID][participantID] = domain.Presence{
		UserID:   participantID,
		LastSeen: cursor.UpdatedAt,
		Cursor:   &c,
	}
}

// Presence returns the cursor snapshots of a session ordered by user id.
func (r *Registry) Presence(sessionID uuid.UUID) []domain.Presence {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cursors, ok := r.presence[sessionID]
	if !ok {
		return nil
	}
	out := make([]domain.Presence, 0, len(cursors))
	for _, p := range cursors {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out
}

// DropSession forgets every connection and cursor of an ended session.
func (r *Registry) DropSession(sessionID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sinks, sessionID)
	delete(r.presence, sessionID)
}
