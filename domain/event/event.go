package event

import (
	"time"

	"board-lab/domain"

	"github.com/google/uuid"
)

// DomainEvent is anything the engine broadcasts to session participants.
// Kind is the stable wire name carried to transports.
type DomainEvent interface {
	Session() uuid.UUID
	Kind() string
}

const (
	KindParticipantJoined  = "participant-joined"
	KindParticipantLeft    = "participant-left"
	KindUpdateApplied      = "update-applied"
	KindConflictDetected   = "conflict-detected"
	KindConflictResolved   = "conflict-resolved"
	KindSessionEnded       = "session-ended"
	KindPermissionsChanged = "permissions-changed"
)

type ParticipantJoined struct {
	SessionID   uuid.UUID
	UserID      string
	DisplayName string
	Role        domain.Role
	At          time.Time
}

func (e ParticipantJoined) Session() uuid.UUID { return e.SessionID }
func (e ParticipantJoined) Kind() string       { return KindParticipantJoined }

type ParticipantLeft struct {
	SessionID uuid.UUID
	UserID    string
	At        time.Time
}

func (e ParticipantLeft) Session() uuid.UUID { return e.SessionID }
func (e ParticipantLeft) Kind() string       { return KindParticipantLeft }

// UpdateApplied announces a recorded Update. Sequence ordering within a
// session is the delivery contract; duplicate ids are safe no-ops on the
// consumer side.
type UpdateApplied struct {
	SessionID uuid.UUID
	Update    domain.Update
}

func (e UpdateApplied) Session() uuid.UUID { return e.SessionID }
func (e UpdateApplied) Kind() string       { return KindUpdateApplied }
func (e UpdateApplied) Sequence() uint64   { return e.Update.Sequence }

type ConflictDetected struct {
	SessionID uuid.UUID
	Conflict  domain.Conflict
}

func (e ConflictDetected) Session() uuid.UUID { return e.SessionID }
func (e ConflictDetected) Kind() string       { return KindConflictDetected }

type ConflictResolved struct {
	SessionID uuid.UUID
	Conflict  domain.Conflict
	// Applied lists the updates the resolution marked applied; empty for
	// reject outcomes.
	Applied []domain.Update
}

func (e ConflictResolved) Session() uuid.UUID { return e.SessionID }
func (e ConflictResolved) Kind() string       { return KindConflictResolved }

type SessionEnded struct {
	SessionID uuid.UUID
	EndedBy   string
	At        time.Time
}

func (e SessionEnded) Session() uuid.UUID { return e.SessionID }
func (e SessionEnded) Kind() string       { return KindSessionEnded }

type PermissionsChanged struct {
	SessionID uuid.UUID
	UserID    string
	Role      domain.Role
	ChangedBy string
	At        time.Time
}

func (e PermissionsChanged) Session() uuid.UUID { return e.SessionID }
func (e PermissionsChanged) Kind() string       { return KindPermissionsChanged }
