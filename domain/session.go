// Package domain contains core concepts of the collaboration engine.
// This file defines Session records and their lifecycle rules.
// No runtime, network, or storage logic should be added here.
package domain

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// Session is a bounded collaborative context tied to one shared document.
// Under the default policy at most one active Session exists per document.
// An ended Session is terminal; collaborators open a new one instead of
// reactivating it.
type Session struct {
	ID           uuid.UUID
	DocumentID   string
	Participants map[string]Participant // keyed by user id
	StartedAt    time.Time
	LastActivity time.Time
	IsActive     bool
	Version      uint64
}

func NewSession(documentID string, owner Participant, now time.Time) *Session {
	return &Session{
		ID:           uuid.New(),
		DocumentID:   documentID,
		Participants: map[string]Participant{owner.UserID: owner},
		StartedAt:    now,
		LastActivity: now,
		IsActive:     true,
	}
}

// Admit adds a participant to the roster. Re-admitting a known user id
// refreshes LastSeen and keeps the original role and join time, so a
// reconnect never errors and never escalates privileges.
func (s *Session) Admit(p Participant) {
	if s.Participants == nil {
		s.Participants = make(map[string]Participant)
	}
	if existing, ok := s.Participants[p.UserID]; ok {
		existing.LastSeen = p.LastSeen
		if p.DisplayName != "" {
			existing.DisplayName = p.DisplayName
		}
		s.Participants[p.UserID] = existing
		return
	}
	s.Participants[p.UserID] = p
}

// Evict removes a user from the roster and reports whether the roster is
// now empty. An empty roster starts the idle-grace countdown, it never
// ends the session on the spot.
func (s *Session) Evict(userID string) bool {
	delete(s.Participants, userID)
	return len(s.Participants) == 0
}

func (s *Session) Participant(userID string) (Participant, bool) {
	p, ok := s.Participants[userID]
	return p, ok
}

// SetRole changes a roster member's role and reports whether the user was
// present. Role changes never touch JoinedAt or LastSeen.
func (s *Session) SetRole(userID string, role Role) bool {
	p, ok := s.Participants[userID]
	if !ok {
		return false
	}
	p.Role = role
	s.Participants[userID] = p
	return true
}

// Owners counts roster members holding the owner role. A session must
// always keep at least one.
func (s *Session) Owners() int {
	return lo.CountBy(lo.Values(s.Participants), func(p Participant) bool {
		return p.Role == RoleOwner
	})
}

// Touch refreshes the activity clock. A join touches the session so that
// a reap sweep racing with it always loses on the version check.
func (s *Session) Touch(now time.Time) {
	s.LastActivity = now
}

// Reapable reports whether the session sat with an empty roster past the
// grace threshold and may be ended by the sweep.
func (s *Session) Reapable(now time.Time, grace time.Duration) bool {
	return s.IsActive && len(s.Participants) == 0 && now.Sub(s.LastActivity) >= grace
}

// End marks the session terminal.
func (s *Session) End(now time.Time) {
	s.IsActive = false
	s.LastActivity = now
}

// Roster returns participants ordered by join time, user id breaking ties,
// so listings stay stable across calls.
func (s *Session) Roster() []Participant {
	roster := lo.Values(s.Participants)
	sort.Slice(roster, func(i, j int) bool {
		if roster[i].JoinedAt.Equal(roster[j].JoinedAt) {
			return roster[i].UserID < roster[j].UserID
		}
		return roster[i].JoinedAt.Before(roster[j].JoinedAt)
	})
	return roster
}

// Clone returns a deep copy, so optimistic-write retries never mutate a
// record another goroutine is still reading.
func (s *Session) Clone() *Session {
	cp := *s
	cp.Participants = make(map[string]Participant, len(s.Participants))
	for id, p := range s.Participants {
		cp.Participants[id] = p
	}
	return &cp
}
