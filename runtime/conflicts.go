package runtime

import (
	"context"
	"time"

	"github.com/google/uuid"

	"board-lab/conflict"
	"board-lab/domain"
	"board-lab/domain/event"
	"board-lab/errors"
)

// PendingConflicts lists unresolved conflicts for a session, oldest first.
func (e *Engine) PendingConflicts(ctx context.Context, sessionID uuid.UUID) ([]domain.Conflict, error) {
	if _, err := e.sessions.Get(ctx, sessionID); err != nil {
		return nil, err
	}
	return e.conflicts.PendingBySession(ctx, sessionID)
}

// Resolve settles a conflict with the caller's chosen policy. Editor
// capability is required; the call blocks until the terminal state is
// durable. Re-resolving returns the stored outcome without broadcasting.
func (e *Engine) Resolve(ctx context.Context, cmd domain.ResolveConflictCommand) (*domain.Conflict, error) {
	session, err := e.sessions.Get(ctx, cmd.SessionID)
	if err != nil {
		return nil, err
	}
	if !session.IsActive {
		return nil, errors.New(errors.KindNotFound, "session %s has ended", cmd.SessionID)
	}
	if !e.authz.IsAuthorized(ctx, cmd.ResolvedBy, cmd.SessionID, domain.RoleEditor) {
		return nil, errors.New(errors.KindUnauthorized,
			"user %q lacks editor capability in session %s", cmd.ResolvedBy, cmd.SessionID)
	}

	var outcome *conflict.Outcome
	err = e.lanes.Submit(ctx, cmd.SessionID, func(ctx context.Context) error {
		assign := func(ctx context.Context, u *domain.Update) error {
			seq, err := e.nextSequence(ctx, cmd.SessionID)
			if err != nil {
				return err
			}
			u.Sequence = seq
			if err := e.updates.Append(ctx, u); err != nil {
				return err
			}
			e.commitSequence(cmd.SessionID, seq)
			return nil
		}

		out, err := e.resolver.Resolve(ctx, cmd, assign)
		if err != nil {
			return err
		}
		outcome = out
		if out.Replayed {
			return nil
		}

		now := time.Now().UTC()
		if _, err := mutateSession(ctx, e.sessions, cmd.SessionID, func(s *domain.Session) error {
			s.Touch(now)
			return nil
		}); err != nil {
			e.log.Warn("Activity refresh failed after resolution",
				"session_id", cmd.SessionID, "error", err)
		}

		// A merge appends a brand-new update, broadcast it in sequence
		// order before the resolution outcome.
		if cmd.Resolution == domain.ResolutionMerge {
			for _, applied := range out.Applied {
				e.emit(ctx, event.UpdateApplied{SessionID: cmd.SessionID, Update: applied})
				e.telemetry(event.UpdateRecordedType, event.UpdateRecorded{
					SessionID: cmd.SessionID,
					Sequence:  applied.Sequence,
				})
				e.stats.IncrUpdatesRecorded(uint64(len(applied.Payload)))
			}
		}
		e.stats.IncrConflictsResolved()
		e.emit(ctx, event.ConflictResolved{
			SessionID: cmd.SessionID,
			Conflict:  *out.Conflict,
			Applied:   out.Applied,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return outcome.Conflict, nil
}
