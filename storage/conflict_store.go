package storage

import (
	"context"
	"encoding/json"
	"log/slog"

	"board-lab/contract"
	"board-lab/domain"
	"board-lab/errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

// ConflictStore persists Conflict records. A secondary key ordered by
// detection time keeps per-session listings chronological without a sort.
type ConflictStore struct {
	db  *badger.DB
	log *slog.Logger
}

var _ contract.IConflictStore = (*ConflictStore)(nil)

func NewConflictStore(db *badger.DB, log *slog.Logger) *ConflictStore {
	return &ConflictStore{db: db, log: log}
}

func (c *ConflictStore) Create(ctx context.Context, conflict *domain.Conflict) error {
	conflict.Version = 1
	data, err := json.Marshal(fromConflict(conflict))
	if err != nil {
		return err
	}
	err = c.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(conflictKey(conflict.ID), data); err != nil {
			return err
		}
		indexKey := conflictSessionKey(conflict.SessionID, conflict.DetectedAt.UnixNano(), conflict.ID)
		return txn.Set(indexKey, []byte(conflict.ID.String()))
	})
	return wrapStorageErr(err, "create conflict %s", conflict.ID)
}

func (c *ConflictStore) Get(ctx context.Context, id uuid.UUID) (*domain.Conflict, error) {
	var record diskConflict
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(conflictKey(id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &record)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, errors.New(errors.KindNotFound, "conflict %s not found", id)
	}
	if err != nil {
		return nil, wrapStorageErr(err, "get conflict %s", id)
	}
	return toConflict(record)
}

// Save rewrites the record with a compare-and-set on Version, same scheme
// as the session store. Resolution races between two moderators collapse
// into one winner; the loser re-reads and sees the terminal state.
func (c *ConflictStore) Save(ctx context.Context, conflict *domain.Conflict) error {
	next := conflict.Clone()
	next.Version = conflict.Version + 1
	data, err := json.Marshal(fromConflict(next))
	if err != nil {
		return err
	}
	err = c.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(conflictKey(conflict.ID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return errors.New(errors.KindNotFound, "conflict %s not found", conflict.ID)
		}
		if err != nil {
			return err
		}
		var stored diskConflict
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &stored)
		}); err != nil {
			return err
		}
		if stored.Version != conflict.Version {
			return errors.ErrVersionMismatch
		}
		return txn.Set(conflictKey(conflict.ID), data)
	})
	if err != nil {
		if errors.Is(err, badger.ErrConflict) {
			return errors.ErrVersionMismatch
		}
		return wrapStorageErr(err, "save conflict %s", conflict.ID)
	}
	conflict.Version = next.Version
	return nil
}

// BySession returns a session's conflicts ordered by detection time.
func (c *ConflictStore) BySession(ctx context.Context, sessionID uuid.UUID) ([]domain.Conflict, error) {
	return c.scanSession(sessionID, false)
}

// PendingBySession returns only unresolved conflicts, used by the window
// scan to amend an open multi-way conflict instead of opening a twin.
func (c *ConflictStore) PendingBySession(ctx context.Context, sessionID uuid.UUID) ([]domain.Conflict, error) {
	return c.scanSession(sessionID, true)
}

func (c *ConflictStore) scanSession(sessionID uuid.UUID, pendingOnly bool) ([]domain.Conflict, error) {
	var conflicts []domain.Conflict
	err := c.db.View(func(txn *badger.Txn) error {
		prefix := conflictSessionScanPrefix(sessionID)
		options := badger.DefaultIteratorOptions
		options.PrefetchValues = true
		it := txn.NewIterator(options)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var rawID []byte
			if err := it.Item().Value(func(val []byte) error {
				rawID = append([]byte(nil), val...)
				return nil
			}); err != nil {
				return err
			}
			id, err := uuid.Parse(string(rawID))
			if err != nil {
				return err
			}
			item, err := txn.Get(conflictKey(id))
			if errors.Is(err, badger.ErrKeyNotFound) {
				c.log.Warn("dangling conflict index entry", "conflict_id", id)
				continue
			}
			if err != nil {
				return err
			}
			var record diskConflict
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &record)
			}); err != nil {
				return err
			}
			if pendingOnly && domain.ConflictStatus(record.Status) != domain.ConflictPending {
				continue
			}
			conflict, err := toConflict(record)
			if err != nil {
				return err
			}
			conflicts = append(conflicts, *conflict)
		}
		return nil
	})
	if err != nil {
		return nil, wrapStorageErr(err, "scan conflicts for session %s", sessionID)
	}
	return conflicts, nil
}
