package runtime

import (
	"context"
	"time"

	"github.com/google/uuid"

	"board-lab/contract"
	"board-lab/domain"
	"board-lab/errors"
)

const (
	// casAttempts bounds the optimistic retry loop on version conflicts.
	casAttempts = 3
	casBackoff  = 25 * time.Millisecond
)

// mutateSession applies fn to a fresh copy of the session and saves it,
// retrying on version mismatch. fn returning an error aborts the loop.
func mutateSession(ctx context.Context, store contract.ISessionStore, id uuid.UUID, fn func(s *domain.Session) error) (*domain.Session, error) {
	for attempt := 0; attempt < casAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(casBackoff):
			case <-ctx.Done():
				return nil, errors.Wrap(errors.KindInternal, ctx.Err(), "session mutation cancelled")
			}
		}

		session, err := store.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := fn(session); err != nil {
			return nil, err
		}
		if err := store.Save(ctx, session); err != nil {
			if errors.Is(err, errors.ErrVersionMismatch) {
				continue
			}
			return nil, err
		}
		return session, nil
	}
	return nil, errors.Wrap(errors.KindStorageConflict, errors.ErrVersionMismatch, "session kept changing under concurrent writers")
}

// mutateUpdate is the update-store twin of mutateSession.
func mutateUpdate(ctx context.Context, store contract.IUpdateStore, id uuid.UUID, fn func(u *domain.Update) error) (*domain.Update, error) {
	for attempt := 0; attempt < casAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(casBackoff):
			case <-ctx.Done():
				return nil, errors.Wrap(errors.KindInternal, ctx.Err(), "update mutation cancelled")
			}
		}

		update, err := store.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := fn(update); err != nil {
			return nil, err
		}
		if err := store.Save(ctx, update); err != nil {
			if errors.Is(err, errors.ErrVersionMismatch) {
				continue
			}
			return nil, err
		}
		return update, nil
	}
	return nil, errors.Wrap(errors.KindStorageConflict, errors.ErrVersionMismatch, "update kept changing under concurrent writers")
}
