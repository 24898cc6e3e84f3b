package conflict

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"board-lab/contract"
	"board-lab/domain"
	"board-lab/errors"
)

// applyAttempts bounds the optimistic retries when stamping appliedAt.
const applyAttempts = 3

// AssignFunc persists an update with the session's next sequence number.
// The engine supplies it from inside the session lane so merged payloads
// take their place in the ordered log like any other append.
type AssignFunc func(ctx context.Context, u *domain.Update) error

// Outcome reports what a resolution did.
type Outcome struct {
	Conflict *domain.Conflict
	// Applied lists the updates that gained appliedAt: the winner under
	// accept, the freshly appended merged update under merge, none under
	// reject.
	Applied []domain.Update
	// Replayed marks a duplicate request against an already resolved
	// conflict. The terminal state is returned untouched and nothing is
	// broadcast again.
	Replayed bool
}

// Resolver applies a moderator's chosen policy to a pending conflict.
type Resolver struct {
	updates   contract.IUpdateStore
	conflicts contract.IConflictStore
	log       *slog.Logger
}

func NewResolver(updates contract.IUpdateStore, conflicts contract.IConflictStore, log *slog.Logger) *Resolver {
	return &Resolver{updates: updates, conflicts: conflicts, log: log}
}

// Resolve settles a conflict. Resolution is terminal: a second request for
// the same conflict returns the stored outcome instead of failing, so
// duplicate client retries stay benign.
func (r *Resolver) Resolve(ctx context.Context, cmd domain.ResolveConflictCommand, assign AssignFunc) (*Outcome, error) {
	resolution := cmd.Resolution
	if !resolution.Known() {
		return nil, errors.New(errors.KindValidation, "unknown resolution %q", cmd.Resolution)
	}
	if resolution == domain.ResolutionMerge && len(cmd.MergedPayload) == 0 {
		return nil, errors.New(errors.KindValidation, "merge resolution requires the merged payload, the engine never computes merges")
	}

	c, err := r.conflicts.Get(ctx, cmd.ConflictID)
	if err != nil {
		return nil, err
	}
	if c.SessionID != cmd.SessionID {
		return nil, errors.New(errors.KindNotFound, "conflict %s does not belong to session %s", cmd.ConflictID, cmd.SessionID)
	}
	if c.Resolved() {
		r.log.Debug("Duplicate resolution request",
			"conflict_id", c.ID,
			"status", c.Status,
			"resolved_by", c.ResolvedBy)
		return &Outcome{Conflict: c, Replayed: true}, nil
	}

	now := time.Now().UTC()
	var applied []domain.Update

	switch resolution {
	case domain.ResolutionAccept:
		winner, err := r.latestImplicated(ctx, c)
		if err != nil {
			return nil, err
		}
		winner, err = r.saveApplied(ctx, winner.ID, now)
		if err != nil {
			return nil, err
		}
		applied = append(applied, *winner)

	case domain.ResolutionReject:
		// All implicated updates are discarded, none reach the document.

	case domain.ResolutionMerge:
		latest, err := r.latestImplicated(ctx, c)
		if err != nil {
			return nil, err
		}
		merged := domain.NewUpdate(c.SessionID, cmd.ResolvedBy, latest.Type, cmd.MergedPayload, now)
		merged.AppliedAt = &now
		if err := assign(ctx, &merged); err != nil {
			return nil, err
		}
		applied = append(applied, merged)
	}

	c.Resolve(resolution, cmd.ResolvedBy, now)
	if err := r.conflicts.Save(ctx, c); err != nil {
		return nil, err
	}

	r.log.Info("Conflict resolved",
		"session_id", c.SessionID,
		"conflict_id", c.ID,
		"status", c.Status,
		"resolved_by", cmd.ResolvedBy,
		"applied", len(applied))
	return &Outcome{Conflict: c, Applied: applied}, nil
}

// saveApplied stamps appliedAt under the store's version check, re-reading
// on mismatch. A consumer racing MarkApplied on the same update is fine:
// an already applied winner is returned as is.
func (r *Resolver) saveApplied(ctx context.Context, id uuid.UUID, at time.Time) (*domain.Update, error) {
	for attempt := 0; attempt < applyAttempts; attempt++ {
		u, err := r.updates.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if u.Applied() {
			return u, nil
		}
		u.AppliedAt = &at
		if err := r.updates.Save(ctx, u); err != nil {
			if errors.Is(err, errors.ErrVersionMismatch) {
				continue
			}
			return nil, err
		}
		return u, nil
	}
	return nil, errors.Wrap(errors.KindStorageConflict, errors.ErrVersionMismatch,
		"update %s kept changing under concurrent writers", id)
}

// latestImplicated returns the implicated update with the highest sequence,
// the one accept crowns and merge inherits its type from.
func (r *Resolver) latestImplicated(ctx context.Context, c *domain.Conflict) (*domain.Update, error) {
	var latest *domain.Update
	for _, id := range c.UpdateIDs {
		u, err := r.updates.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if latest == nil || u.Sequence > latest.Sequence {
			latest = u
		}
	}
	if latest == nil {
		return nil, errors.New(errors.KindInternal, "conflict %s implicates no updates", c.ID)
	}
	return latest, nil
}
