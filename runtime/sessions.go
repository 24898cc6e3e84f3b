package runtime

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"board-lab/contract"
	"board-lab/domain"
	"board-lab/domain/event"
	"board-lab/errors"
)

// reaperActor names the sweep in session-ended events so audits can tell
// explicit ends from idle reaps.
const reaperActor = "system:idle-reap"

// errSweepSuperseded aborts a reap whose candidate got touched between the
// listing and the lane turn. Joins win that race.
var errSweepSuperseded = fmt.Errorf("sweep superseded by session activity")

// documentLaneKey derives a stable lane key from the document id, so two
// concurrent createSession calls for the same document serialize.
func documentLaneKey(documentID string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(documentID))
}

// CreateSession opens a new collaborative session for a document and admits
// the owner as first roster member. Unless ParallelSessions is set, at most
// one active session may exist per document. The record is durable before
// the call returns.
func (e *Engine) CreateSession(ctx context.Context, cmd domain.CreateSessionCommand) (*domain.Session, error) {
	var created *domain.Session
	err := e.lanes.Submit(ctx, documentLaneKey(cmd.DocumentID), func(ctx context.Context) error {
		if !e.opts.ParallelSessions {
			active, err := e.sessions.ActiveByDocument(ctx, cmd.DocumentID)
			if err != nil {
				return err
			}
			if len(active) > 0 {
				return errors.New(errors.KindAlreadyActive,
					"document %q already has active session %s", cmd.DocumentID, active[0].ID)
			}
		}

		now := time.Now().UTC()
		owner := domain.NewParticipant(cmd.OwnerID, cmd.OwnerName, domain.RoleOwner, now)
		session := domain.NewSession(cmd.DocumentID, owner, now)
		if err := e.sessions.Create(ctx, session); err != nil {
			return err
		}

		e.stats.IncrSessionsCreated()
		e.emit(ctx, event.ParticipantJoined{
			SessionID:   session.ID,
			UserID:      owner.UserID,
			DisplayName: owner.DisplayName,
			Role:        owner.Role,
			At:          now,
		})
		e.log.Info("Session created",
			"session_id", session.ID,
			"document_id", cmd.DocumentID,
			"owner", cmd.OwnerID)
		created = session.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (e *Engine) GetSession(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	return e.sessions.Get(ctx, id)
}

// ListActiveSessions returns active sessions for one document, or all
// active sessions when documentID is empty.
func (e *Engine) ListActiveSessions(ctx context.Context, documentID string) ([]*domain.Session, error) {
	if documentID == "" {
		return e.sessions.ListActive(ctx)
	}
	return e.sessions.ActiveByDocument(ctx, documentID)
}

// EndSession terminates a session explicitly. Only roster owners may end
// one; an ended session never reactivates.
func (e *Engine) EndSession(ctx context.Context, cmd domain.EndSessionCommand) error {
	if _, err := e.sessions.Get(ctx, cmd.SessionID); err != nil {
		return err
	}
	if !e.authz.IsAuthorized(ctx, cmd.ActorID, cmd.SessionID, domain.RoleOwner) {
		return errors.New(errors.KindUnauthorized,
			"user %q lacks owner capability in session %s", cmd.ActorID, cmd.SessionID)
	}

	return e.lanes.Submit(ctx, cmd.SessionID, func(ctx context.Context) error {
		session, err := mutateSession(ctx, e.sessions, cmd.SessionID, func(s *domain.Session) error {
			if !s.IsActive {
				return errors.New(errors.KindNotFound, "session %s already ended", cmd.SessionID)
			}
			s.End(time.Now().UTC())
			return nil
		})
		if err != nil {
			return err
		}
		e.finishSession(ctx, session, cmd.ActorID, false)
		e.log.Info("Session ended", "session_id", cmd.SessionID, "actor", cmd.ActorID)
		return nil
	})
}

// Join admits a participant and registers their delivery sink. Re-joining
// refreshes lastSeen and swaps the sink without erroring; the original role
// and join time are kept.
func (e *Engine) Join(ctx context.Context, cmd domain.JoinSessionCommand, sink contract.EventSink) (*domain.Session, error) {
	if !cmd.Role.Known() {
		return nil, errors.New(errors.KindValidation, "unknown role %q", cmd.Role)
	}

	var joined *domain.Session
	err := e.lanes.Submit(ctx, cmd.SessionID, func(ctx context.Context) error {
		session, err := mutateSession(ctx, e.sessions, cmd.SessionID, func(s *domain.Session) error {
			if !s.IsActive {
				return errors.New(errors.KindNotFound, "session %s has ended", cmd.SessionID)
			}
			now := time.Now().UTC()
			s.Admit(domain.NewParticipant(cmd.UserID, cmd.DisplayName, cmd.Role, now))
			s.Touch(now)
			return nil
		})
		if err != nil {
			return err
		}

		if sink != nil {
			e.registry.Subscribe(cmd.UserID, cmd.SessionID, sink)
		}
		// Admit keeps the original role on re-join; broadcast what the
		// roster actually holds, not what the command asked for.
		effective, _ := session.Participant(cmd.UserID)
		e.emit(ctx, event.ParticipantJoined{
			SessionID:   session.ID,
			UserID:      effective.UserID,
			DisplayName: effective.DisplayName,
			Role:        effective.Role,
			At:          effective.LastSeen,
		})
		joined = session
		return nil
	})
	if err != nil {
		return nil, err
	}
	return joined, nil
}

// Leave evicts a participant. An emptied roster starts the idle-grace
// countdown; it never ends the session on the spot.
func (e *Engine) Leave(ctx context.Context, cmd domain.LeaveSessionCommand) error {
	return e.lanes.Submit(ctx, cmd.SessionID, func(ctx context.Context) error {
		var emptied bool
		session, err := mutateSession(ctx, e.sessions, cmd.SessionID, func(s *domain.Session) error {
			if !s.IsActive {
				return errors.New(errors.KindNotFound, "session %s has ended", cmd.SessionID)
			}
			if _, ok := s.Participant(cmd.UserID); !ok {
				return errors.New(errors.KindNotFound,
					"user %q is not in the roster of session %s", cmd.UserID, cmd.SessionID)
			}
			emptied = s.Evict(cmd.UserID)
			s.Touch(time.Now().UTC())
			return nil
		})
		if err != nil {
			return err
		}

		e.registry.Unsubscribe(cmd.UserID, cmd.SessionID)
		e.emit(ctx, event.ParticipantLeft{
			SessionID: session.ID,
			UserID:    cmd.UserID,
			At:        session.LastActivity,
		})
		if emptied {
			e.log.Info("Roster empty, idle grace countdown started",
				"session_id", session.ID,
				"grace", e.opts.IdleGrace)
		}
		return nil
	})
}

// UpdatePermissions changes a roster member's role. Owner capability is
// required and a session always keeps at least one owner.
func (e *Engine) UpdatePermissions(ctx context.Context, cmd domain.UpdatePermissionsCommand) error {
	if !cmd.Role.Known() {
		return errors.New(errors.KindValidation, "unknown role %q", cmd.Role)
	}
	if _, err := e.sessions.Get(ctx, cmd.SessionID); err != nil {
		return err
	}
	if !e.authz.IsAuthorized(ctx, cmd.ActorID, cmd.SessionID, domain.RoleOwner) {
		return errors.New(errors.KindUnauthorized,
			"user %q lacks owner capability in session %s", cmd.ActorID, cmd.SessionID)
	}

	return e.lanes.Submit(ctx, cmd.SessionID, func(ctx context.Context) error {
		session, err := mutateSession(ctx, e.sessions, cmd.SessionID, func(s *domain.Session) error {
			if !s.IsActive {
				return errors.New(errors.KindNotFound, "session %s has ended", cmd.SessionID)
			}
			target, ok := s.Participant(cmd.TargetID)
			if !ok {
				return errors.New(errors.KindNotFound,
					"user %q is not in the roster of session %s", cmd.TargetID, cmd.SessionID)
			}
			if target.Role == domain.RoleOwner && cmd.Role != domain.RoleOwner && s.Owners() == 1 {
				return errors.New(errors.KindValidation,
					"cannot demote the last owner of session %s", cmd.SessionID)
			}
			s.SetRole(cmd.TargetID, cmd.Role)
			s.Touch(time.Now().UTC())
			return nil
		})
		if err != nil {
			return err
		}

		e.emit(ctx, event.PermissionsChanged{
			SessionID: session.ID,
			UserID:    cmd.TargetID,
			Role:      cmd.Role,
			ChangedBy: cmd.ActorID,
			At:        session.LastActivity,
		})
		e.log.Info("Permissions changed",
			"session_id", cmd.SessionID,
			"target", cmd.TargetID,
			"role", cmd.Role,
			"actor", cmd.ActorID)
		return nil
	})
}

// MoveCursor records an ephemeral cursor position. It is last-write-wins,
// memory only, and never routed through the session lane.
func (e *Engine) MoveCursor(cmd domain.MoveCursorCommand) error {
	e.registry.SetCursor(cmd.SessionID, cmd.UserID, domain.Cursor{
		X:         cmd.X,
		Y:         cmd.Y,
		UpdatedAt: time.Now().UTC(),
	})
	e.stats.IncrPresenceWrites()
	return nil
}

// Presence merges the durable roster with live cursor state. Roster order
// is join time, so listings stay stable while cursors churn.
func (e *Engine) Presence(sessionID uuid.UUID) []domain.Presence {
	live := e.registry.Presence(sessionID)
	session, err := e.sessions.Get(context.Background(), sessionID)
	if err != nil {
		return live
	}

	cursors := make(map[string]domain.Presence, len(live))
	for _, p := range live {
		cursors[p.UserID] = p
	}

	roster := session.Roster()
	merged := make([]domain.Presence, 0, len(roster))
	for _, member := range roster {
		p := domain.Presence{
			UserID:      member.UserID,
			DisplayName: member.DisplayName,
			Role:        member.Role,
			LastSeen:    member.LastSeen,
		}
		if connected, ok := cursors[member.UserID]; ok {
			p.Cursor = connected.Cursor
			if connected.LastSeen.After(p.LastSeen) {
				p.LastSeen = connected.LastSeen
			}
		}
		merged = append(merged, p)
	}
	return merged
}

// SweepIdle ends sessions whose roster sat empty past the grace threshold.
// Each candidate is re-checked inside its own lane under a version-checked
// write, so a concurrent join always supersedes the reap.
func (e *Engine) SweepIdle(ctx context.Context) (int, error) {
	active, err := e.sessions.ListActive(ctx)
	if err != nil {
		return 0, err
	}

	now := time.Now().UTC()
	reaped := 0
	for _, candidate := range active {
		if !candidate.Reapable(now, e.opts.IdleGrace) {
			continue
		}
		id := candidate.ID
		err := e.lanes.Submit(ctx, id, func(ctx context.Context) error {
			session, err := mutateSession(ctx, e.sessions, id, func(s *domain.Session) error {
				if !s.Reapable(time.Now().UTC(), e.opts.IdleGrace) {
					return errSweepSuperseded
				}
				s.End(time.Now().UTC())
				return nil
			})
			if err != nil {
				return err
			}
			e.finishSession(ctx, session, reaperActor, true)
			return nil
		})
		switch {
		case err == nil:
			reaped++
			e.log.Info("Idle session reaped", "session_id", id)
		case errors.Is(err, errSweepSuperseded):
			// a join won the race
		default:
			e.log.Warn("Reap attempt failed", "session_id", id, "error", err)
		}
	}
	return reaped, nil
}

// finishSession emits the terminal event and clears per-session engine
// state. The registry entry is dropped by the fanout after it delivers
// session-ended, so connected sinks receive the final broadcast.
func (e *Engine) finishSession(ctx context.Context, s *domain.Session, endedBy string, reaped bool) {
	e.forgetSequence(s.ID)
	if reaped {
		e.stats.IncrSessionsReaped()
	} else {
		e.stats.IncrSessionsEnded()
	}
	e.emit(ctx, event.SessionEnded{
		SessionID: s.ID,
		EndedBy:   endedBy,
		At:        s.LastActivity,
	})
}
