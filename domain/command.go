package domain

import (
	"github.com/google/uuid"
)

// Command is any session-scoped request routed through that session's
// serial processing lane.
type Command interface {
	Session() uuid.UUID
}

type CreateSessionCommand struct {
	DocumentID string `validate:"required,max=256"`
	OwnerID    string `validate:"required,max=128"`
	OwnerName  string `validate:"required,max=128"`
}

type JoinSessionCommand struct {
	SessionID   uuid.UUID `validate:"required"`
	UserID      string    `validate:"required,max=128"`
	DisplayName string    `validate:"required,max=128"`
	Role        Role      `validate:"required,max=16"`
}

func (c JoinSessionCommand) Session() uuid.UUID { return c.SessionID }

type LeaveSessionCommand struct {
	SessionID uuid.UUID `validate:"required"`
	UserID    string    `validate:"required,max=128"`
}

func (c LeaveSessionCommand) Session() uuid.UUID { return c.SessionID }

type AppendUpdateCommand struct {
	SessionID uuid.UUID  `validate:"required"`
	AuthorID  string     `validate:"required,max=128"`
	Type      UpdateType `validate:"required,max=32"`
	Payload   []byte     `validate:"required,max=65536"`
}

func (c AppendUpdateCommand) Session() uuid.UUID { return c.SessionID }

// MoveCursorCommand bypasses the lane: presence is ephemeral and not
// ordering-sensitive.
type MoveCursorCommand struct {
	SessionID uuid.UUID `validate:"required"`
	UserID    string    `validate:"required,max=128"`
	X         float64
	Y         float64
}

func (c MoveCursorCommand) Session() uuid.UUID { return c.SessionID }

type ResolveConflictCommand struct {
	SessionID  uuid.UUID  `validate:"required"`
	ConflictID uuid.UUID  `validate:"required"`
	Resolution Resolution `validate:"required,max=16"`
	ResolvedBy string     `validate:"required,max=128"`
	// MergedPayload is mandatory for merge resolutions and ignored
	// otherwise; the engine never computes merges itself.
	MergedPayload []byte `validate:"max=65536"`
}

func (c ResolveConflictCommand) Session() uuid.UUID { return c.SessionID }

type EndSessionCommand struct {
	SessionID uuid.UUID `validate:"required"`
	ActorID   string    `validate:"required,max=128"`
}

func (c EndSessionCommand) Session() uuid.UUID { return c.SessionID }

type UpdatePermissionsCommand struct {
	SessionID uuid.UUID `validate:"required"`
	ActorID   string    `validate:"required,max=128"`
	TargetID  string    `validate:"required,max=128"`
	Role      Role      `validate:"required,max=16"`
}

func (c UpdatePermissionsCommand) Session() uuid.UUID { return c.SessionID }
