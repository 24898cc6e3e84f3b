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

// UpdateStore is the append-only log backing. Keys embed the session id
// and a zero-padded sequence so a prefix scan walks a session's history
// in order with no sorting step:
//  1. "update:{session}:{sequence_padded}" keeps catch-up reads a single
//     forward iteration.
//  2. "update_id:{uuid}" maps an update id back to its primary key for
//     markApplied and conflict resolution lookups.
type UpdateStore struct {
	db  *badger.DB
	log *slog.Logger
}

var _ contract.IUpdateStore = (*UpdateStore)(nil)

func NewUpdateStore(db *badger.DB, log *slog.Logger) *UpdateStore {
	return &UpdateStore{db: db, log: log}
}

// Append durably stores the update at its assigned sequence. The call
// returns only after the commit; the write lane treats that as the
// acknowledgment gate.
func (u *UpdateStore) Append(ctx context.Context, update *domain.Update) error {
	update.Version = 1
	data, err := json.Marshal(fromUpdate(update))
	if err != nil {
		return err
	}
	primary := updateKey(update.SessionID, update.Sequence)
	err = u.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(primary); err == nil {
			return errors.New(errors.KindInternal, "sequence %d already taken in session %s", update.Sequence, update.SessionID)
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		if err := txn.Set(primary, data); err != nil {
			return err
		}
		return txn.Set(updateIDKey(update.ID), primary)
	})
	return wrapStorageErr(err, "append update %s", update.ID)
}

func (u *UpdateStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Update, error) {
	var record diskUpdate
	err := u.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(updateIDKey(id))
		if err != nil {
			return err
		}
		var primary []byte
		if err := item.Value(func(val []byte) error {
			primary = append([]byte(nil), val...)
			return nil
		}); err != nil {
			return err
		}
		item, err = txn.Get(primary)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &record)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, errors.New(errors.KindNotFound, "update %s not found", id)
	}
	if err != nil {
		return nil, wrapStorageErr(err, "get update %s", id)
	}
	update, err := toUpdate(record)
	if err != nil {
		return nil, err
	}
	return &update, nil
}

// Since returns updates with sequence strictly greater than after, in
// ascending order. A non-positive limit means no cap. Thanks to the
// padded sequence in the key, no sort is needed.
func (u *UpdateStore) Since(ctx context.Context, sessionID uuid.UUID, after uint64, limit int) ([]domain.Update, error) {
	var updates []domain.Update
	err := u.db.View(func(txn *badger.Txn) error {
		prefix := updateScanPrefix(sessionID)
		options := badger.DefaultIteratorOptions
		options.PrefetchValues = true
		if limit > 0 {
			options.PrefetchSize = limit
		}
		it := txn.NewIterator(options)
		defer it.Close()

		seekKey := updateKey(sessionID, after+1)
		for it.Seek(seekKey); it.ValidForPrefix(prefix); it.Next() {
			if limit > 0 && len(updates) == limit {
				break
			}
			var record diskUpdate
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &record)
			}); err != nil {
				return err
			}
			update, err := toUpdate(record)
			if err != nil {
				return err
			}
			updates = append(updates, update)
		}
		return nil
	})
	if err != nil {
		return nil, wrapStorageErr(err, "read updates since %d for session %s", after, sessionID)
	}
	return updates, nil
}

// Recent walks the log backwards and returns up to limit updates, newest
// first. The conflict window scan is the only caller.
func (u *UpdateStore) Recent(ctx context.Context, sessionID uuid.UUID, limit int) ([]domain.Update, error) {
	var updates []domain.Update
	err := u.db.View(func(txn *badger.Txn) error {
		prefix := updateScanPrefix(sessionID)
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		// Seek past the highest possible sequence, then iterate backwards.
		seekKey := append(append([]byte(nil), prefix...), []byte("999999999999")...)
		for it.Seek(seekKey); it.ValidForPrefix(prefix); it.Next() {
			if limit > 0 && len(updates) == limit {
				break
			}
			var record diskUpdate
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &record)
			}); err != nil {
				return err
			}
			update, err := toUpdate(record)
			if err != nil {
				return err
			}
			updates = append(updates, update)
		}
		return nil
	})
	if err != nil {
		return nil, wrapStorageErr(err, "read recent updates for session %s", sessionID)
	}
	return updates, nil
}

// Save rewrites an update in place with a compare-and-set on Version.
// Only appliedAt ever changes after append; payload and sequence are
// immutable.
func (u *UpdateStore) Save(ctx context.Context, update *domain.Update) error {
	next := *update
	next.Version = update.Version + 1
	data, err := json.Marshal(fromUpdate(&next))
	if err != nil {
		return err
	}
	primary := updateKey(update.SessionID, update.Sequence)
	err = u.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(primary)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return errors.New(errors.KindNotFound, "update %s not found", update.ID)
		}
		if err != nil {
			return err
		}
		var stored diskUpdate
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &stored)
		}); err != nil {
			return err
		}
		if stored.Version != update.Version {
			return errors.ErrVersionMismatch
		}
		return txn.Set(primary, data)
	})
	if err != nil {
		if errors.Is(err, badger.ErrConflict) {
			return errors.ErrVersionMismatch
		}
		return wrapStorageErr(err, "save update %s", update.ID)
	}
	update.Version = next.Version
	return nil
}

// LastSequence reads the newest key under the session prefix. Zero means
// an empty log.
func (u *UpdateStore) LastSequence(ctx context.Context, sessionID uuid.UUID) (uint64, error) {
	var last uint64
	err := u.db.View(func(txn *badger.Txn) error {
		prefix := updateScanPrefix(sessionID)
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		options.PrefetchValues = true
		it := txn.NewIterator(options)
		defer it.Close()

		seekKey := append(append([]byte(nil), prefix...), []byte("999999999999")...)
		it.Seek(seekKey)
		if !it.ValidForPrefix(prefix) {
			return nil
		}
		var record diskUpdate
		if err := it.Item().Value(func(val []byte) error {
			return json.Unmarshal(val, &record)
		}); err != nil {
			return err
		}
		last = record.Sequence
		return nil
	})
	if err != nil {
		return 0, wrapStorageErr(err, "read last sequence for session %s", sessionID)
	}
	return last, nil
}
