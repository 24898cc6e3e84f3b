package runtime

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"board-lab/domain"
	"board-lab/domain/event"
	"board-lab/errors"
)

// errAlreadyApplied short-circuits MarkApplied without a wasted write.
var errAlreadyApplied = fmt.Errorf("update already applied")

// AppendUpdate records a proposed mutation on the session's append-only
// log. The call blocks until the write is durably committed; the assigned
// sequence is monotonic and gapless within the session. Conflict inspection
// runs after persistence and never fails an acknowledged append.
func (e *Engine) AppendUpdate(ctx context.Context, cmd domain.AppendUpdateCommand) (*domain.Update, error) {
	if !cmd.Type.Known() {
		return nil, errors.New(errors.KindValidation, "unknown update type %q", cmd.Type)
	}
	if _, err := e.sessions.Get(ctx, cmd.SessionID); err != nil {
		return nil, err
	}
	if !e.authz.IsAuthorized(ctx, cmd.AuthorID, cmd.SessionID, domain.RoleEditor) {
		return nil, errors.New(errors.KindUnauthorized,
			"user %q lacks editor capability in session %s", cmd.AuthorID, cmd.SessionID)
	}

	var recorded *domain.Update
	err := e.lanes.Submit(ctx, cmd.SessionID, func(ctx context.Context) error {
		session, err := e.sessions.Get(ctx, cmd.SessionID)
		if err != nil {
			return err
		}
		if !session.IsActive {
			return errors.New(errors.KindNotFound, "session %s has ended", cmd.SessionID)
		}

		now := time.Now().UTC()
		update := domain.NewUpdate(cmd.SessionID, cmd.AuthorID, cmd.Type, cmd.Payload, now)
		seq, err := e.nextSequence(ctx, cmd.SessionID)
		if err != nil {
			return err
		}
		update.Sequence = seq
		if err := e.updates.Append(ctx, &update); err != nil {
			return err
		}
		e.commitSequence(cmd.SessionID, seq)

		session.Touch(now)
		if err := e.sessions.Save(ctx, session); err != nil {
			// the update is durable; the activity refresh is advisory
			e.log.Warn("Activity refresh failed after append",
				"session_id", cmd.SessionID, "error", err)
		}

		if detected, err := e.detector.Inspect(ctx, update); err != nil {
			e.log.Error("Conflict inspection failed, update stays recorded",
				"session_id", cmd.SessionID,
				"sequence", seq,
				"error", err)
		} else if detected != nil {
			e.stats.IncrConflictsDetected()
			e.emit(ctx, event.ConflictDetected{SessionID: cmd.SessionID, Conflict: *detected})
		}

		e.emit(ctx, event.UpdateApplied{SessionID: cmd.SessionID, Update: update})
		e.telemetry(event.UpdateRecordedType, event.UpdateRecorded{SessionID: cmd.SessionID, Sequence: seq})
		e.stats.IncrUpdatesRecorded(uint64(len(cmd.Payload)))
		recorded = &update
		return nil
	})
	if err != nil {
		return nil, err
	}
	return recorded, nil
}

// UpdatesSince is the catch-up read: updates with sequence strictly greater
// than after, ascending, capped at limit. It reads outside the lane and
// serves ended sessions, history outlives the roster.
func (e *Engine) UpdatesSince(ctx context.Context, sessionID uuid.UUID, after uint64, limit int) ([]domain.Update, error) {
	if _, err := e.sessions.Get(ctx, sessionID); err != nil {
		return nil, err
	}
	return e.updates.Since(ctx, sessionID, after, limit)
}

// MarkApplied stamps an update as applied to the shared document. Calling
// it twice is a no-op.
func (e *Engine) MarkApplied(ctx context.Context, updateID uuid.UUID) error {
	_, err := mutateUpdate(ctx, e.updates, updateID, func(u *domain.Update) error {
		if u.Applied() {
			return errAlreadyApplied
		}
		now := time.Now().UTC()
		u.AppliedAt = &now
		return nil
	})
	if errors.Is(err, errAlreadyApplied) {
		return nil
	}
	return err
}

// nextSequence returns the next gapless sequence for a session. The cache
// is committed only after the durable append succeeds, so a failed write
// leaves no hole: the next caller re-reads the last persisted sequence.
// Callers must hold the session's lane.
func (e *Engine) nextSequence(ctx context.Context, sessionID uuid.UUID) (uint64, error) {
	e.seqMu.Lock()
	last, ok := e.seqs[sessionID]
	e.seqMu.Unlock()
	if !ok {
		var err error
		last, err = e.updates.LastSequence(ctx, sessionID)
		if err != nil {
			return 0, err
		}
	}
	return last + 1, nil
}

func (e *Engine) commitSequence(sessionID uuid.UUID, seq uint64) {
	e.seqMu.Lock()
	e.seqs[sessionID] = seq
	e.seqMu.Unlock()
}

func (e *Engine) forgetSequence(sessionID uuid.UUID) {
	e.seqMu.Lock()
	delete(e.seqs, sessionID)
	e.seqMu.Unlock()
}
