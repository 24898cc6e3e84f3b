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

// SessionStore persists Session records in BadgerDB with optimistic
// versioning. Save re-reads the stored record inside the write
// transaction and refuses to overwrite a newer version, so a reap sweep
// racing a join always loses.
type SessionStore struct {
	db  *badger.DB
	log *slog.Logger
}

var _ contract.ISessionStore = (*SessionStore)(nil)

func NewSessionStore(db *badger.DB, log *slog.Logger) *SessionStore {
	return &SessionStore{db: db, log: log}
}

// Create persists a brand-new session and its document index entry in one
// transaction. The record is acknowledged only after the commit.
func (s *SessionStore) Create(ctx context.Context, session *domain.Session) error {
	session.Version = 1
	data, err := json.Marshal(fromSession(session))
	if err != nil {
		return err
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(sessionKey(session.ID)); err == nil {
			return errors.New(errors.KindInternal, "session %s already stored", session.ID)
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		if err := txn.Set(sessionKey(session.ID), data); err != nil {
			return err
		}
		return txn.Set(docIndexKey(session.DocumentID, session.ID), []byte(session.ID.String()))
	})
	return wrapStorageErr(err, "create session %s", session.ID)
}

func (s *SessionStore) Get(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	var record diskSession
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(sessionKey(id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &record)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, errors.New(errors.KindNotFound, "session %s not found", id)
	}
	if err != nil {
		return nil, wrapStorageErr(err, "get session %s", id)
	}
	return toSession(record)
}

// Save writes the record back with a compare-and-set on Version. On
// success the in-memory Version is bumped; on mismatch it returns
// ErrVersionMismatch for the caller's bounded retry. Ending a session
// removes its document index entry in the same transaction.
func (s *SessionStore) Save(ctx context.Context, session *domain.Session) error {
	next := *session
	next.Version = session.Version + 1
	data, err := json.Marshal(fromSession(&next))
	if err != nil {
		return err
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(sessionKey(session.ID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return errors.New(errors.KindNotFound, "session %s not found", session.ID)
		}
		if err != nil {
			return err
		}
		var stored diskSession
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &stored)
		}); err != nil {
			return err
		}
		if stored.Version != session.Version {
			return errors.ErrVersionMismatch
		}
		if err := txn.Set(sessionKey(session.ID), data); err != nil {
			return err
		}
		if !next.IsActive {
			return txn.Delete(docIndexKey(session.DocumentID, session.ID))
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, badger.ErrConflict) {
			// Two transactions raced on the same key; same remedy as a
			// version mismatch.
			return errors.ErrVersionMismatch
		}
		return wrapStorageErr(err, "save session %s", session.ID)
	}
	session.Version = next.Version
	return nil
}

// ActiveByDocument resolves the document index and loads each referenced
// session, filtering out any that ended between index write and read.
func (s *SessionStore) ActiveByDocument(ctx context.Context, documentID string) ([]*domain.Session, error) {
	var sessions []*domain.Session
	err := s.db.View(func(txn *badger.Txn) error {
		prefix := docIndexScanPrefix(documentID)
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
			item, err := txn.Get(sessionKey(id))
			if errors.Is(err, badger.ErrKeyNotFound) {
				s.log.Warn("dangling document index entry", "session_id", id)
				continue
			}
			if err != nil {
				return err
			}
			var record diskSession
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &record)
			}); err != nil {
				return err
			}
			if !record.IsActive {
				continue
			}
			session, err := toSession(record)
			if err != nil {
				return err
			}
			sessions = append(sessions, session)
		}
		return nil
	})
	if err != nil {
		return nil, wrapStorageErr(err, "list active sessions for document %s", documentID)
	}
	return sessions, nil
}

// ListActive scans every session record. The reap sweep is the only
// caller, so a full prefix scan is acceptable.
func (s *SessionStore) ListActive(ctx context.Context) ([]*domain.Session, error) {
	var sessions []*domain.Session
	err := s.db.View(func(txn *badger.Txn) error {
		prefix := []byte(sessionPrefix)
		options := badger.DefaultIteratorOptions
		options.PrefetchValues = true
		it := txn.NewIterator(options)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var record diskSession
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &record)
			}); err != nil {
				return err
			}
			if !record.IsActive {
				continue
			}
			session, err := toSession(record)
			if err != nil {
				return err
			}
			sessions = append(sessions, session)
		}
		return nil
	})
	if err != nil {
		return nil, wrapStorageErr(err, "list active sessions")
	}
	return sessions, nil
}

// wrapStorageErr tags unexpected persistence failures as unavailable
// storage while letting typed errors and retry markers pass through.
func wrapStorageErr(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, errors.ErrVersionMismatch) {
		return err
	}
	var typed *errors.Error
	if errors.As(err, &typed) {
		return err
	}
	return errors.Wrap(errors.KindStorageUnavailable, err, format, args...)
}
