//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"

	"board-lab/domain"
	"board-lab/domain/event"

	"github.com/google/uuid"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

type WorkerName string

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// EventSink is one participant's delivery endpoint. Delivery is
// at-least-once; consumers treat duplicate update ids as no-ops.
type EventSink interface {
	Consume(ctx context.Context, e event.DomainEvent) error
}

// IRegistry tracks delivery endpoints and ephemeral presence per session.
// Presence writes bypass the session lane entirely.
type IRegistry interface {
	GetSinksForSession(sessionID uuid.UUID, except ...string) []EventSink
	Subscribe(participantID string, sessionID uuid.UUID, sink EventSink)
	Unsubscribe(participantID string, sessionID uuid.UUID)
	SetCursor(sessionID uuid.UUID, participantID string, cursor domain.Cursor)
	Presence(sessionID uuid.UUID) []domain.Presence
	DropSession(sessionID uuid.UUID)
}

// ISessionStore is the durable gateway for Session records. Save uses
// optimistic concurrency: it fails with a version-mismatch error when the
// stored record moved on.
type ISessionStore interface {
	Create(ctx context.Context, s *domain.Session) error
	Get(ctx context.Context, id uuid.UUID) (*domain.Session, error)
	Save(ctx context.Context, s *domain.Session) error
	ActiveByDocument(ctx context.Context, documentID string) ([]*domain.Session, error)
	ListActive(ctx context.Context) ([]*domain.Session, error)
}

// IUpdateStore is the durable append-only log. Append is acknowledged only
// after the write is committed.
type IUpdateStore interface {
	Append(ctx context.Context, u *domain.Update) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Update, error)
	Since(ctx context.Context, sessionID uuid.UUID, after uint64, limit int) ([]domain.Update, error)
	Recent(ctx context.Context, sessionID uuid.UUID, limit int) ([]domain.Update, error)
	Save(ctx context.Context, u *domain.Update) error
	LastSequence(ctx context.Context, sessionID uuid.UUID) (uint64, error)
}

type IConflictStore interface {
	Create(ctx context.Context, c *domain.Conflict) error
	Get(ctx context.Context, id uuid.UUID) (*domain.Conflict, error)
	Save(ctx context.Context, c *domain.Conflict) error
	BySession(ctx context.Context, sessionID uuid.UUID) ([]domain.Conflict, error)
	PendingBySession(ctx context.Context, sessionID uuid.UUID) ([]domain.Conflict, error)
}

// Authorizer is the single capability check consulted before privileged
// operations (ending a session, resolving a conflict, changing roles).
type Authorizer interface {
	IsAuthorized(ctx context.Context, userID string, sessionID uuid.UUID, required domain.Role) bool
}

// EntityMatcher decides whether two updates target the same logical
// entity. It is supplied by the document layer; the engine knows nothing
// about layout semantics.
type EntityMatcher interface {
	SameEntity(a, b domain.Update) bool
}

type EntityMatcherFunc func(a, b domain.Update) bool

func (f EntityMatcherFunc) SameEntity(a, b domain.Update) bool { return f(a, b) }

// Transport pushes serialized engine events to one connected participant.
// Reconnect and backoff are the transport's problem; catch-up reads go
// through UpdatesSince.
type Transport interface {
	Send(ctx context.Context, participantID string, message []byte) error
}

// IEngine is the full operation surface of the synchronization engine.
type IEngine interface {
	CreateSession(ctx context.Context, cmd domain.CreateSessionCommand) (*domain.Session, error)
	GetSession(ctx context.Context, id uuid.UUID) (*domain.Session, error)
	ListActiveSessions(ctx context.Context, documentID string) ([]*domain.Session, error)
	EndSession(ctx context.Context, cmd domain.EndSessionCommand) error
	Join(ctx context.Context, cmd domain.JoinSessionCommand, sink EventSink) (*domain.Session, error)
	Leave(ctx context.Context, cmd domain.LeaveSessionCommand) error
	MoveCursor(cmd domain.MoveCursorCommand) error
	Presence(sessionID uuid.UUID) []domain.Presence
	AppendUpdate(ctx context.Context, cmd domain.AppendUpdateCommand) (*domain.Update, error)
	UpdatesSince(ctx context.Context, sessionID uuid.UUID, after uint64, limit int) ([]domain.Update, error)
	MarkApplied(ctx context.Context, updateID uuid.UUID) error
	PendingConflicts(ctx context.Context, sessionID uuid.UUID) ([]domain.Conflict, error)
	Resolve(ctx context.Context, cmd domain.ResolveConflictCommand) (*domain.Conflict, error)
	UpdatePermissions(ctx context.Context, cmd domain.UpdatePermissionsCommand) error
	Start(ctx context.Context) error
	Stop()
}
