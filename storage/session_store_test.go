package storage

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"board-lab/domain"
	"board-lab/errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func Test_SessionStore_Create_And_Get_RoundTrip(t *testing.T) {
	req := require.New(t)
	store := NewSessionStore(openTestDB(t), slog.Default())
	ctx := context.Background()

	now := time.Now().UTC()
	owner := domain.NewParticipant("u1", "Alice", domain.RoleOwner, now)
	session := domain.NewSession("doc-1", owner, now)

	req.NoError(store.Create(ctx, session))
	req.Equal(uint64(1), session.Version)

	fetched, err := store.Get(ctx, session.ID)
	req.NoError(err)
	req.Equal(session.ID, fetched.ID)
	req.Equal("doc-1", fetched.DocumentID)
	req.Equal(session.Participants, fetched.Participants)
	req.Equal(now, fetched.StartedAt)
	req.True(fetched.IsActive)
	req.Equal(uint64(1), fetched.Version)
}

func Test_SessionStore_Get_Unknown_ReturnsNotFound(t *testing.T) {
	req := require.New(t)
	store := NewSessionStore(openTestDB(t), slog.Default())

	_, err := store.Get(context.Background(), uuid.New())

	req.Error(err)
	req.True(errors.IsNotFound(err))
}

func Test_SessionStore_Save_BumpsVersion(t *testing.T) {
	req := require.New(t)
	store := NewSessionStore(openTestDB(t), slog.Default())
	ctx := context.Background()

	now := time.Now().UTC()
	session := domain.NewSession("doc-1", domain.NewParticipant("u1", "Alice", domain.RoleOwner, now), now)
	req.NoError(store.Create(ctx, session))

	session.Admit(domain.NewParticipant("u2", "Bob", domain.RoleEditor, now.Add(time.Second)))
	req.NoError(store.Save(ctx, session))
	req.Equal(uint64(2), session.Version)

	fetched, err := store.Get(ctx, session.ID)
	req.NoError(err)
	req.Len(fetched.Participants, 2)
	req.Equal(uint64(2), fetched.Version)
}

func Test_SessionStore_Save_StaleVersion_Mismatch(t *testing.T) {
	req := require.New(t)
	store := NewSessionStore(openTestDB(t), slog.Default())
	ctx := context.Background()

	now := time.Now().UTC()
	session := domain.NewSession("doc-1", domain.NewParticipant("u1", "Alice", domain.RoleOwner, now), now)
	req.NoError(store.Create(ctx, session))

	stale, err := store.Get(ctx, session.ID)
	req.NoError(err)

	// First writer wins
	session.Touch(now.Add(time.Second))
	req.NoError(store.Save(ctx, session))

	// Second writer carries the old version and must be rejected
	stale.Touch(now.Add(2 * time.Second))
	err = store.Save(ctx, stale)
	req.ErrorIs(err, errors.ErrVersionMismatch)
}

func Test_SessionStore_ActiveByDocument_FiltersEnded(t *testing.T) {
	req := require.New(t)
	store := NewSessionStore(openTestDB(t), slog.Default())
	ctx := context.Background()

	now := time.Now().UTC()
	active := domain.NewSession("doc-1", domain.NewParticipant("u1", "Alice", domain.RoleOwner, now), now)
	req.NoError(store.Create(ctx, active))

	ended := domain.NewSession("doc-1", domain.NewParticipant("u2", "Bob", domain.RoleOwner, now), now)
	req.NoError(store.Create(ctx, ended))
	ended.End(now.Add(time.Minute))
	req.NoError(store.Save(ctx, ended))

	other := domain.NewSession("doc-2", domain.NewParticipant("u3", "Carol", domain.RoleOwner, now), now)
	req.NoError(store.Create(ctx, other))

	sessions, err := store.ActiveByDocument(ctx, "doc-1")
	req.NoError(err)
	req.Len(sessions, 1)
	req.Equal(active.ID, sessions[0].ID)
}

func Test_SessionStore_ListActive_SkipsEnded(t *testing.T) {
	req := require.New(t)
	store := NewSessionStore(openTestDB(t), slog.Default())
	ctx := context.Background()

	now := time.Now().UTC()
	first := domain.NewSession("doc-1", domain.NewParticipant("u1", "Alice", domain.RoleOwner, now), now)
	req.NoError(store.Create(ctx, first))

	second := domain.NewSession("doc-2", domain.NewParticipant("u2", "Bob", domain.RoleOwner, now), now)
	req.NoError(store.Create(ctx, second))
	second.End(now)
	req.NoError(store.Save(ctx, second))

	sessions, err := store.ListActive(ctx)
	req.NoError(err)
	req.Len(sessions, 1)
	req.Equal(first.ID, sessions[0].ID)
}
