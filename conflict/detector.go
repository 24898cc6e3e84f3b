package conflict

import (
	"context"
	"log/slog"
	"time"

	"board-lab/contract"
	"board-lab/domain"

	"github.com/google/uuid"
)

const (
	DefaultWindow = 10 * time.Second
	DefaultDepth  = 64
)

// Detector scans the recent window of a session after each append and
// groups divergent concurrent edits into a single multi-way conflict.
type Detector struct {
	updates   contract.IUpdateStore
	conflicts contract.IConflictStore
	matcher   contract.EntityMatcher
	window    time.Duration
	depth     int
	log       *slog.Logger
}

func NewDetector(updates contract.IUpdateStore, conflicts contract.IConflictStore,
	matcher contract.EntityMatcher, window time.Duration, depth int, log *slog.Logger) *Detector {
	if window <= 0 {
		window = DefaultWindow
	}
	if depth <= 0 {
		depth = DefaultDepth
	}
	return &Detector{
		updates:   updates,
		conflicts: conflicts,
		matcher:   matcher,
		window:    window,
		depth:     depth,
		log:       log,
	}
}

// Inspect examines the window behind a freshly appended update.
// It returns the pending conflict the update now belongs to, amended or
// newly created, or nil when the window is clean. Updates already settled
// by an earlier resolution never rejoin a fight.
func (d *Detector) Inspect(ctx context.Context, appended domain.Update) (*domain.Conflict, error) {
	recent, err := d.updates.Recent(ctx, appended.SessionID, d.depth)
	if err != nil {
		return nil, err
	}
	if len(recent) == 0 {
		return nil, nil
	}

	history, err := d.conflicts.BySession(ctx, appended.SessionID)
	if err != nil {
		return nil, err
	}
	pendingByUpdate := make(map[uuid.UUID]*domain.Conflict)
	settled := make(map[uuid.UUID]struct{})
	for i := range history {
		c := &history[i]
		for _, id := range c.UpdateIDs {
			if c.Resolved() {
				settled[id] = struct{}{}
			} else {
				pendingByUpdate[id] = c
			}
		}
	}

	rivals := d.rivalsOf(appended, recent, settled)
	if len(rivals) == 0 {
		return nil, nil
	}

	// A rival already implicated in a pending conflict means this entity is
	// contested in the current window: amend that record instead of opening
	// a second one for the same fight.
	for _, rival := range rivals {
		existing, ok := pendingByUpdate[rival.ID]
		if !ok {
			continue
		}
		existing.Implicate(appended)
		for _, r := range rivals {
			existing.Implicate(r)
		}
		if err := d.conflicts.Save(ctx, existing); err != nil {
			return nil, err
		}
		d.log.Info("Conflict amended",
			"session_id", appended.SessionID,
			"conflict_id", existing.ID,
			"updates", len(existing.UpdateIDs),
			"participants", len(existing.ParticipantIDs))
		return existing, nil
	}

	detected := domain.NewConflict(appended.SessionID, append(rivals, appended), time.Now().UTC())
	if err := d.conflicts.Create(ctx, &detected); err != nil {
		return nil, err
	}
	d.log.Info("Conflict detected",
		"session_id", appended.SessionID,
		"conflict_id", detected.ID,
		"updates", len(detected.UpdateIDs),
		"participants", len(detected.ParticipantIDs))
	return &detected, nil
}

// rivalsOf filters the scanned records down to concurrent divergent edits
// of the appended update's entity by other authors.
func (d *Detector) rivalsOf(appended domain.Update, recent []domain.Update, settled map[uuid.UUID]struct{}) []domain.Update {
	cutoff := appended.SubmittedAt.Add(-d.window)

	var rivals []domain.Update
	for _, u := range recent {
		if u.ID == appended.ID || u.AuthorID == appended.AuthorID {
			continue
		}
		if u.Applied() || u.SubmittedAt.Before(cutoff) {
			continue
		}
		if _, done := settled[u.ID]; done {
			continue
		}
		if !d.matcher.SameEntity(u, appended) {
			continue
		}
		if !appended.DivergesFrom(u) {
			continue
		}
		rivals = append(rivals, u)
	}
	return rivals
}
