package services

import (
	"context"
	"log/slog"

	"board-lab/auth"
	"board-lab/contract"
	"board-lab/domain"
	"board-lab/errors"
	"board-lab/storage"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// JoinResult pairs the admitted session with a capability token the
// participant presents on reconnect.
type JoinResult struct {
	Session *domain.Session
	Token   string
}

type ISessionService interface {
	CreateSession(ctx context.Context, cmd domain.CreateSessionCommand) (*domain.Session, error)
	Session(ctx context.Context, sessionID uuid.UUID) (*domain.Session, error)
	Sessions(ctx context.Context, documentID string) ([]*domain.Session, error)
	EndSession(ctx context.Context, cmd domain.EndSessionCommand) error
	Join(ctx context.Context, cmd domain.JoinSessionCommand, sink contract.EventSink) (*JoinResult, error)
	Rejoin(ctx context.Context, token string, sink contract.EventSink) (*JoinResult, error)
	Leave(ctx context.Context, cmd domain.LeaveSessionCommand) error
	MoveCursor(cmd domain.MoveCursorCommand) error
	Presence(sessionID uuid.UUID) []domain.Presence
	AppendUpdate(ctx context.Context, cmd domain.AppendUpdateCommand) (*domain.Update, error)
	UpdatesSince(ctx context.Context, sessionID uuid.UUID, after uint64, limit int) ([]domain.Update, error)
	MarkApplied(ctx context.Context, updateID uuid.UUID) error
	PendingConflicts(ctx context.Context, sessionID uuid.UUID) ([]domain.Conflict, error)
	Resolve(ctx context.Context, cmd domain.ResolveConflictCommand) (*domain.Conflict, error)
	UpdatePermissions(ctx context.Context, cmd domain.UpdatePermissionsCommand) error
	SearchAnnotations(ctx context.Context, sessionID uuid.UUID, terms string, offset int) ([]storage.AnnotationHit, uint64, error)
}

// SessionService fronts the engine for transports and tools. It owns
// command shape validation and capability tokens; everything semantic
// (roles, liveness, sequencing) stays inside the engine.
type SessionService struct {
	engine   contract.IEngine
	issuer   auth.Issuer
	index    *storage.AnnotationIndex
	validate *validator.Validate
	log      *slog.Logger
}

func NewSessionService(engine contract.IEngine, issuer auth.Issuer, index *storage.AnnotationIndex, log *slog.Logger) *SessionService {
	return &SessionService{
		engine:   engine,
		issuer:   issuer,
		index:    index,
		validate: validator.New(),
		log:      log,
	}
}

func (s *SessionService) CreateSession(ctx context.Context, cmd domain.CreateSessionCommand) (*domain.Session, error) {
	if err := s.checked(cmd); err != nil {
		return nil, err
	}
	return s.engine.CreateSession(ctx, cmd)
}

func (s *SessionService) Session(ctx context.Context, sessionID uuid.UUID) (*domain.Session, error) {
	return s.engine.GetSession(ctx, sessionID)
}

func (s *SessionService) Sessions(ctx context.Context, documentID string) ([]*domain.Session, error) {
	return s.engine.ListActiveSessions(ctx, documentID)
}

func (s *SessionService) EndSession(ctx context.Context, cmd domain.EndSessionCommand) error {
	if err := s.checked(cmd); err != nil {
		return err
	}
	return s.engine.EndSession(ctx, cmd)
}

// Join admits the participant and issues a capability token bound to the
// role the roster actually holds, which on a re-join may differ from the
// role the command asked for.
func (s *SessionService) Join(ctx context.Context, cmd domain.JoinSessionCommand, sink contract.EventSink) (*JoinResult, error) {
	if err := s.checked(cmd); err != nil {
		return nil, err
	}

	session, err := s.engine.Join(ctx, cmd, sink)
	if err != nil {
		return nil, err
	}

	member, ok := session.Participant(cmd.UserID)
	if !ok {
		return nil, errors.New(errors.KindInternal, "participant %s missing from roster right after joining", cmd.UserID)
	}

	token, err := s.issuer.Issue(session.ID, cmd.UserID, member.Role)
	if err != nil {
		return nil, err
	}
	return &JoinResult{Session: session, Token: token}, nil
}

// Rejoin restores roster membership from a capability token. The display
// name comes from the roster when the participant is still listed, so a
// reconnect looks identical to the peers.
func (s *SessionService) Rejoin(ctx context.Context, token string, sink contract.EventSink) (*JoinResult, error) {
	claims, err := s.issuer.Verify(token)
	if err != nil {
		return nil, err
	}
	sessionID, err := claims.SessionUUID()
	if err != nil {
		return nil, err
	}

	displayName := claims.UserID
	if session, getErr := s.engine.GetSession(ctx, sessionID); getErr == nil {
		if member, ok := session.Participant(claims.UserID); ok {
			displayName = member.DisplayName
		}
	}

	s.log.Debug("Capability token accepted", "session_id", sessionID, "user_id", claims.UserID)
	return s.Join(ctx, domain.JoinSessionCommand{
		SessionID:   sessionID,
		UserID:      claims.UserID,
		DisplayName: displayName,
		Role:        domain.Role(claims.Role),
	}, sink)
}

func (s *SessionService) Leave(ctx context.Context, cmd domain.LeaveSessionCommand) error {
	if err := s.checked(cmd); err != nil {
		return err
	}
	return s.engine.Leave(ctx, cmd)
}

func (s *SessionService) MoveCursor(cmd domain.MoveCursorCommand) error {
	if err := s.checked(cmd); err != nil {
		return err
	}
	return s.engine.MoveCursor(cmd)
}

func (s *SessionService) Presence(sessionID uuid.UUID) []domain.Presence {
	return s.engine.Presence(sessionID)
}

func (s *SessionService) AppendUpdate(ctx context.Context, cmd domain.AppendUpdateCommand) (*domain.Update, error) {
	if err := s.checked(cmd); err != nil {
		return nil, err
	}
	return s.engine.AppendUpdate(ctx, cmd)
}

func (s *SessionService) UpdatesSince(ctx context.Context, sessionID uuid.UUID, after uint64, limit int) ([]domain.Update, error) {
	return s.engine.UpdatesSince(ctx, sessionID, after, limit)
}

func (s *SessionService) MarkApplied(ctx context.Context, updateID uuid.UUID) error {
	return s.engine.MarkApplied(ctx, updateID)
}

func (s *SessionService) PendingConflicts(ctx context.Context, sessionID uuid.UUID) ([]domain.Conflict, error) {
	return s.engine.PendingConflicts(ctx, sessionID)
}

func (s *SessionService) Resolve(ctx context.Context, cmd domain.ResolveConflictCommand) (*domain.Conflict, error) {
	if err := s.checked(cmd); err != nil {
		return nil, err
	}
	return s.engine.Resolve(ctx, cmd)
}

func (s *SessionService) UpdatePermissions(ctx context.Context, cmd domain.UpdatePermissionsCommand) error {
	if err := s.checked(cmd); err != nil {
		return err
	}
	return s.engine.UpdatePermissions(ctx, cmd)
}

// SearchAnnotations queries the full-text index. Results trail the log
// slightly: the search sink batches its flushes.
func (s *SessionService) SearchAnnotations(ctx context.Context, sessionID uuid.UUID, terms string, offset int) ([]storage.AnnotationHit, uint64, error) {
	if terms == "" {
		return nil, 0, errors.New(errors.KindValidation, "search terms must not be empty")
	}
	if offset < 0 {
		offset = 0
	}
	return s.index.Search(ctx, sessionID, terms, offset)
}

func (s *SessionService) checked(cmd any) error {
	if err := s.validate.Struct(cmd); err != nil {
		return errors.Wrap(errors.KindValidation, err, "command rejected")
	}
	return nil
}
