package runtime_test

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"

	"board-lab/auth"
	"board-lab/conflict"
	"board-lab/contract"
	"board-lab/domain"
	"board-lab/domain/event"
	"board-lab/errors"
	"board-lab/observability"
	"board-lab/runtime"
	"board-lab/storage"
)

// recordingSink captures every delivered event, in order.
type recordingSink struct {
	mu     sync.Mutex
	events []event.DomainEvent
}

func (s *recordingSink) Consume(ctx context.Context, e event.DomainEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return nil
}

func (s *recordingSink) snapshot() []event.DomainEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]event.DomainEvent(nil), s.events...)
}

func (s *recordingSink) applied() []event.UpdateApplied {
	var out []event.UpdateApplied
	for _, e := range s.snapshot() {
		if a, ok := e.(event.UpdateApplied); ok {
			out = append(out, a)
		}
	}
	return out
}

type engineFixture struct {
	engine *runtime.Engine
}

func startEngine(t *testing.T, opts runtime.Options) *engineFixture {
	t.Helper()
	log := logs.GetLoggerFromLevel(slog.LevelError)

	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	sessions := storage.NewSessionStore(db, log)
	updates := storage.NewUpdateStore(db, log)
	conflicts := storage.NewConflictStore(db, log)
	registry := runtime.NewRegistry()
	authz := auth.NewRosterAuthorizer(sessions, log)
	stats := observability.NewStatsManager(log)

	engine := runtime.NewEngine(log, opts, sessions, updates, conflicts,
		registry, authz, conflict.PayloadEntityMatcher(), stats)

	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = engine.Start(ctx) }()
	t.Cleanup(cancel)

	return &engineFixture{engine: engine}
}

func (f *engineFixture) createSession(t *testing.T, documentID, ownerID, ownerName string) *domain.Session {
	t.Helper()
	session, err := f.engine.CreateSession(context.Background(), domain.CreateSessionCommand{
		DocumentID: documentID,
		OwnerID:    ownerID,
		OwnerName:  ownerName,
	})
	require.NoError(t, err)
	return session
}

func (f *engineFixture) join(t *testing.T, sessionID uuid.UUID, userID string, role domain.Role, sink *recordingSink) *domain.Session {
	t.Helper()
	// a typed nil must not reach the engine as a non-nil interface
	var delivery contract.EventSink
	if sink != nil {
		delivery = sink
	}
	session, err := f.engine.Join(context.Background(), domain.JoinSessionCommand{
		SessionID:   sessionID,
		UserID:      userID,
		DisplayName: userID,
		Role:        role,
	}, delivery)
	require.NoError(t, err)
	return session
}

func (f *engineFixture) append(t *testing.T, sessionID uuid.UUID, author string, kind domain.UpdateType, payload string) *domain.Update {
	t.Helper()
	update, err := f.engine.AppendUpdate(context.Background(), domain.AppendUpdateCommand{
		SessionID: sessionID,
		AuthorID:  author,
		Type:      kind,
		Payload:   []byte(payload),
	})
	require.NoError(t, err)
	return update
}

func TestEngine_ScenarioA_CreateAndListSessions(t *testing.T) {
	req := require.New(t)
	f := startEngine(t, runtime.Options{})
	ctx := context.Background()

	created := f.createSession(t, "doc-1", "u1", "Alice")

	listed, err := f.engine.ListActiveSessions(ctx, "doc-1")
	req.NoError(err)
	req.Len(listed, 1)
	req.Equal(created.ID, listed[0].ID)

	owner, ok := listed[0].Participant("u1")
	req.True(ok)
	req.Equal(domain.RoleOwner, owner.Role)
	req.Equal("Alice", owner.DisplayName)

	// One active session per document
	_, err = f.engine.CreateSession(ctx, domain.CreateSessionCommand{
		DocumentID: "doc-1", OwnerID: "u9", OwnerName: "Niner",
	})
	req.Error(err)
	req.True(errors.IsAlreadyActive(err))

	// Another document is free to start
	other := f.createSession(t, "doc-2", "u2", "Bob")
	req.NotEqual(created.ID, other.ID)
}

func TestEngine_ParallelSessionsPolicy_AllowsSecondSessionPerDocument(t *testing.T) {
	req := require.New(t)
	f := startEngine(t, runtime.Options{ParallelSessions: true})
	ctx := context.Background()

	first := f.createSession(t, "doc-1", "u1", "Alice")
	second := f.createSession(t, "doc-1", "u2", "Bob")
	req.NotEqual(first.ID, second.ID)

	listed, err := f.engine.ListActiveSessions(ctx, "doc-1")
	req.NoError(err)
	req.Len(listed, 2)
}

func TestEngine_ScenarioC_GaplessSequencesAndCatchUp(t *testing.T) {
	req := require.New(t)
	f := startEngine(t, runtime.Options{})
	ctx := context.Background()

	session := f.createSession(t, "doc-1", "u1", "Alice")
	for i := 1; i <= 10; i++ {
		u := f.append(t, session.ID, "u1", domain.UpdatePositionalMove,
			fmt.Sprintf(`{"entityId":"unit-%d","x":%d}`, i, i))
		req.Equal(uint64(i), u.Sequence)
	}

	caught, err := f.engine.UpdatesSince(ctx, session.ID, 5, 100)
	req.NoError(err)
	req.Len(caught, 5)
	for i, u := range caught {
		req.Equal(uint64(6+i), u.Sequence)
	}

	limited, err := f.engine.UpdatesSince(ctx, session.ID, 0, 3)
	req.NoError(err)
	req.Len(limited, 3)
	req.Equal(uint64(1), limited[0].Sequence)

	// Round-trip: payload comes back exactly as appended
	full, err := f.engine.UpdatesSince(ctx, session.ID, 0, 100)
	req.NoError(err)
	req.Len(full, 10)
	req.Equal(`{"entityId":"unit-1","x":1}`, string(full[0].Payload))
}

func TestEngine_ScenarioB_ConflictDetectedAndAccepted(t *testing.T) {
	req := require.New(t)
	f := startEngine(t, runtime.Options{})
	ctx := context.Background()

	session := f.createSession(t, "doc-1", "u1", "Alice")
	f.join(t, session.ID, "u2", domain.RoleEditor, nil)

	first := f.append(t, session.ID, "u1", domain.UpdatePositionalMove,
		`{"entityId":"player-7","x":10,"y":20}`)
	second := f.append(t, session.ID, "u2", domain.UpdatePositionalMove,
		`{"entityId":"player-7","x":30,"y":5}`)

	pending, err := f.engine.PendingConflicts(ctx, session.ID)
	req.NoError(err)
	req.Len(pending, 1)
	req.True(pending[0].Implicates(first.ID))
	req.True(pending[0].Implicates(second.ID))

	resolved, err := f.engine.Resolve(ctx, domain.ResolveConflictCommand{
		SessionID:  session.ID,
		ConflictID: pending[0].ID,
		Resolution: domain.ResolutionAccept,
		ResolvedBy: "u1",
	})
	req.NoError(err)
	req.Equal(domain.ConflictAccepted, resolved.Status)
	req.Equal("u1", resolved.ResolvedBy)

	// Accept crowns the later sequence only
	all, err := f.engine.UpdatesSince(ctx, session.ID, 0, 100)
	req.NoError(err)
	req.Len(all, 2)
	req.False(all[0].Applied())
	req.True(all[1].Applied())

	// Re-resolving replays the terminal state, even with another policy
	replayed, err := f.engine.Resolve(ctx, domain.ResolveConflictCommand{
		SessionID:  session.ID,
		ConflictID: pending[0].ID,
		Resolution: domain.ResolutionReject,
		ResolvedBy: "u2",
	})
	req.NoError(err)
	req.Equal(domain.ConflictAccepted, replayed.Status)
	req.Equal("u1", replayed.ResolvedBy)

	none, err := f.engine.PendingConflicts(ctx, session.ID)
	req.NoError(err)
	req.Empty(none)
}

func TestEngine_MergeAppendsResolverPayload(t *testing.T) {
	req := require.New(t)
	f := startEngine(t, runtime.Options{})
	ctx := context.Background()

	session := f.createSession(t, "doc-1", "u1", "Alice")
	f.join(t, session.ID, "u2", domain.RoleEditor, nil)

	f.append(t, session.ID, "u1", domain.UpdatePositionalMove, `{"entityId":"player-7","x":1}`)
	f.append(t, session.ID, "u2", domain.UpdatePositionalMove, `{"entityId":"player-7","x":2}`)

	pending, err := f.engine.PendingConflicts(ctx, session.ID)
	req.NoError(err)
	req.Len(pending, 1)

	merged := `{"entityId":"player-7","x":1.5}`
	resolved, err := f.engine.Resolve(ctx, domain.ResolveConflictCommand{
		SessionID:     session.ID,
		ConflictID:    pending[0].ID,
		Resolution:    domain.ResolutionMerge,
		ResolvedBy:    "u1",
		MergedPayload: []byte(merged),
	})
	req.NoError(err)
	req.Equal(domain.ConflictMerged, resolved.Status)

	all, err := f.engine.UpdatesSince(ctx, session.ID, 0, 100)
	req.NoError(err)
	req.Len(all, 3)
	req.Equal(uint64(3), all[2].Sequence)
	req.Equal(merged, string(all[2].Payload))
	req.Equal("u1", all[2].AuthorID)
	req.True(all[2].Applied())
	req.False(all[0].Applied())
	req.False(all[1].Applied())
}

func TestEngine_MarkAppliedIsIdempotent(t *testing.T) {
	req := require.New(t)
	f := startEngine(t, runtime.Options{})
	ctx := context.Background()

	session := f.createSession(t, "doc-1", "u1", "Alice")
	update := f.append(t, session.ID, "u1", domain.UpdatePositionalMove, `{"entityId":"p1","x":3}`)
	req.False(update.Applied())

	req.NoError(f.engine.MarkApplied(ctx, update.ID))

	stored, err := f.engine.UpdatesSince(ctx, session.ID, 0, 100)
	req.NoError(err)
	req.Len(stored, 1)
	req.True(stored[0].Applied())
	stamp := *stored[0].AppliedAt

	// Acknowledging twice neither errors nor moves the stamp
	req.NoError(f.engine.MarkApplied(ctx, update.ID))
	again, err := f.engine.UpdatesSince(ctx, session.ID, 0, 100)
	req.NoError(err)
	req.True(stamp.Equal(*again[0].AppliedAt))

	req.True(errors.IsNotFound(f.engine.MarkApplied(ctx, uuid.New())))
}

func TestEngine_AuthorizationGates(t *testing.T) {
	req := require.New(t)
	f := startEngine(t, runtime.Options{})
	ctx := context.Background()

	session := f.createSession(t, "doc-1", "u1", "Alice")
	f.join(t, session.ID, "viewer", domain.RoleViewer, nil)
	f.join(t, session.ID, "editor", domain.RoleEditor, nil)

	// Viewers read, never write
	_, err := f.engine.AppendUpdate(ctx, domain.AppendUpdateCommand{
		SessionID: session.ID, AuthorID: "viewer",
		Type: domain.UpdatePositionalMove, Payload: []byte(`{"entityId":"a"}`),
	})
	req.True(errors.IsUnauthorized(err))

	// Strangers get nothing
	_, err = f.engine.AppendUpdate(ctx, domain.AppendUpdateCommand{
		SessionID: session.ID, AuthorID: "stranger",
		Type: domain.UpdatePositionalMove, Payload: []byte(`{"entityId":"a"}`),
	})
	req.True(errors.IsUnauthorized(err))

	// Editors cannot end a session
	err = f.engine.EndSession(ctx, domain.EndSessionCommand{SessionID: session.ID, ActorID: "editor"})
	req.True(errors.IsUnauthorized(err))

	// Editors cannot change roles either
	err = f.engine.UpdatePermissions(ctx, domain.UpdatePermissionsCommand{
		SessionID: session.ID, ActorID: "editor", TargetID: "viewer", Role: domain.RoleEditor,
	})
	req.True(errors.IsUnauthorized(err))

	// A missing session is NotFound, not Unauthorized
	err = f.engine.EndSession(ctx, domain.EndSessionCommand{SessionID: uuid.New(), ActorID: "u1"})
	req.True(errors.IsNotFound(err))
}

func TestEngine_EndSessionIsTerminal(t *testing.T) {
	req := require.New(t)
	f := startEngine(t, runtime.Options{})
	ctx := context.Background()

	session := f.createSession(t, "doc-1", "u1", "Alice")
	f.append(t, session.ID, "u1", domain.UpdateStructuralChange, `{"op":"add-zone"}`)

	req.NoError(f.engine.EndSession(ctx, domain.EndSessionCommand{
		SessionID: session.ID, ActorID: "u1",
	}))

	// Ended is terminal: joins and appends fail
	_, err := f.engine.Join(ctx, domain.JoinSessionCommand{
		SessionID: session.ID, UserID: "u2", DisplayName: "Bob", Role: domain.RoleEditor,
	}, nil)
	req.True(errors.IsNotFound(err))

	_, err = f.engine.AppendUpdate(ctx, domain.AppendUpdateCommand{
		SessionID: session.ID, AuthorID: "u1",
		Type: domain.UpdatePositionalMove, Payload: []byte(`{"entityId":"a"}`),
	})
	req.True(errors.IsNotFound(err))

	// Ending twice is NotFound as well
	err = f.engine.EndSession(ctx, domain.EndSessionCommand{SessionID: session.ID, ActorID: "u1"})
	req.True(errors.IsNotFound(err))

	// History outlives the session
	history, err := f.engine.UpdatesSince(ctx, session.ID, 0, 100)
	req.NoError(err)
	req.Len(history, 1)

	// The document is free for a fresh session
	fresh := f.createSession(t, "doc-1", "u1", "Alice")
	req.NotEqual(session.ID, fresh.ID)
}

func TestEngine_RejoinKeepsRoleAndNeverErrors(t *testing.T) {
	req := require.New(t)
	f := startEngine(t, runtime.Options{})

	session := f.createSession(t, "doc-1", "u1", "Alice")
	f.join(t, session.ID, "u2", domain.RoleEditor, nil)

	// Re-join asking for more privileges: the original role sticks
	rejoined := f.join(t, session.ID, "u2", domain.RoleOwner, &recordingSink{})
	member, ok := rejoined.Participant("u2")
	req.True(ok)
	req.Equal(domain.RoleEditor, member.Role)
}

func TestEngine_UpdatePermissions(t *testing.T) {
	req := require.New(t)
	f := startEngine(t, runtime.Options{})
	ctx := context.Background()

	session := f.createSession(t, "doc-1", "u1", "Alice")
	f.join(t, session.ID, "u2", domain.RoleViewer, nil)

	// Viewer promoted to editor can append
	req.NoError(f.engine.UpdatePermissions(ctx, domain.UpdatePermissionsCommand{
		SessionID: session.ID, ActorID: "u1", TargetID: "u2", Role: domain.RoleEditor,
	}))
	f.append(t, session.ID, "u2", domain.UpdatePositionalMove, `{"entityId":"b"}`)

	// The last owner cannot be demoted
	err := f.engine.UpdatePermissions(ctx, domain.UpdatePermissionsCommand{
		SessionID: session.ID, ActorID: "u1", TargetID: "u1", Role: domain.RoleEditor,
	})
	req.True(errors.IsValidation(err))

	// With a second owner the demotion goes through
	req.NoError(f.engine.UpdatePermissions(ctx, domain.UpdatePermissionsCommand{
		SessionID: session.ID, ActorID: "u1", TargetID: "u2", Role: domain.RoleOwner,
	}))
	req.NoError(f.engine.UpdatePermissions(ctx, domain.UpdatePermissionsCommand{
		SessionID: session.ID, ActorID: "u1", TargetID: "u1", Role: domain.RoleEditor,
	}))

	// Unknown target
	err = f.engine.UpdatePermissions(ctx, domain.UpdatePermissionsCommand{
		SessionID: session.ID, ActorID: "u2", TargetID: "ghost", Role: domain.RoleViewer,
	})
	req.True(errors.IsNotFound(err))
}

func TestEngine_BroadcastReachesPeersNotAuthor(t *testing.T) {
	req := require.New(t)
	f := startEngine(t, runtime.Options{SuppressEcho: true})

	session := f.createSession(t, "doc-1", "u1", "Alice")
	aliceSink := &recordingSink{}
	bobSink := &recordingSink{}
	f.join(t, session.ID, "u1", domain.RoleOwner, aliceSink)
	f.join(t, session.ID, "u2", domain.RoleEditor, bobSink)

	update := f.append(t, session.ID, "u1", domain.UpdatePositionalMove,
		`{"entityId":"player-7","x":10}`)

	req.Eventually(func() bool {
		for _, a := range bobSink.applied() {
			if a.Update.ID == update.ID {
				return true
			}
		}
		return false
	}, 2*time.Second, 10*time.Millisecond, "peer never received the broadcast")

	// The author does not hear their own update back
	for _, a := range aliceSink.applied() {
		req.NotEqual(update.ID, a.Update.ID)
	}
}

func TestEngine_AnnotationMaskingOnBroadcastOnly(t *testing.T) {
	req := require.New(t)
	f := startEngine(t, runtime.Options{
		SuppressEcho:  true,
		CensoredWords: []string{"badger"},
	})
	ctx := context.Background()

	session := f.createSession(t, "doc-1", "u1", "Alice")
	aliceSink := &recordingSink{}
	f.join(t, session.ID, "u1", domain.RoleOwner, aliceSink)
	f.join(t, session.ID, "u2", domain.RoleEditor, nil)

	update := f.append(t, session.ID, "u2", domain.UpdateAnnotation,
		`{"entityId":"zone-4","text":"the badger breaks left"}`)

	var delivered event.UpdateApplied
	req.Eventually(func() bool {
		for _, a := range aliceSink.applied() {
			if a.Update.ID == update.ID {
				delivered = a
				return true
			}
		}
		return false
	}, 2*time.Second, 10*time.Millisecond)

	text, ok := domain.AnnotationText(delivered.Update.Payload)
	req.True(ok)
	req.Equal("the ****** breaks left", text)

	// The durable record keeps the original words
	stored, err := f.engine.UpdatesSince(ctx, session.ID, 0, 100)
	req.NoError(err)
	req.Len(stored, 1)
	originalText, _ := domain.AnnotationText(stored[0].Payload)
	req.Equal("the badger breaks left", originalText)
}

func TestEngine_SweepIdleReapsOnlyExpired(t *testing.T) {
	req := require.New(t)
	f := startEngine(t, runtime.Options{
		IdleGrace:    50 * time.Millisecond,
		ReapInterval: time.Hour, // sweep manually, the ticker stays silent
	})
	ctx := context.Background()

	abandoned := f.createSession(t, "doc-1", "u1", "Alice")
	busy := f.createSession(t, "doc-2", "u2", "Bob")

	req.NoError(f.engine.Leave(ctx, domain.LeaveSessionCommand{
		SessionID: abandoned.ID, UserID: "u1",
	}))

	time.Sleep(80 * time.Millisecond)

	reaped, err := f.engine.SweepIdle(ctx)
	req.NoError(err)
	req.Equal(1, reaped)

	gone, err := f.engine.GetSession(ctx, abandoned.ID)
	req.NoError(err)
	req.False(gone.IsActive)

	alive, err := f.engine.GetSession(ctx, busy.ID)
	req.NoError(err)
	req.True(alive.IsActive)
}

func TestEngine_ScenarioD_JoinWithinGraceKeepsSessionAlive(t *testing.T) {
	req := require.New(t)
	f := startEngine(t, runtime.Options{
		IdleGrace:    150 * time.Millisecond,
		ReapInterval: 20 * time.Millisecond,
	})
	ctx := context.Background()

	session := f.createSession(t, "doc-1", "u1", "Alice")
	f.append(t, session.ID, "u1", domain.UpdateStructuralChange, `{"op":"add-zone"}`)
	f.append(t, session.ID, "u1", domain.UpdatePositionalMove, `{"entityId":"p1","x":4}`)

	// The sole participant walks away: the countdown starts, nothing ends
	req.NoError(f.engine.Leave(ctx, domain.LeaveSessionCommand{
		SessionID: session.ID, UserID: "u1",
	}))
	still, err := f.engine.GetSession(ctx, session.ID)
	req.NoError(err)
	req.True(still.IsActive)

	// A different participant joins inside the grace window
	time.Sleep(50 * time.Millisecond)
	f.join(t, session.ID, "u3", domain.RoleEditor, nil)

	// Well past the original grace deadline the session is still alive
	time.Sleep(200 * time.Millisecond)
	alive, err := f.engine.GetSession(ctx, session.ID)
	req.NoError(err)
	req.True(alive.IsActive)

	// And the newcomer can catch up on the full prior history
	history, err := f.engine.UpdatesSince(ctx, session.ID, 0, 100)
	req.NoError(err)
	req.Len(history, 2)
	req.Equal(uint64(1), history[0].Sequence)
	req.Equal(uint64(2), history[1].Sequence)
}

func TestEngine_PresenceMergesRosterAndCursors(t *testing.T) {
	req := require.New(t)
	f := startEngine(t, runtime.Options{})

	session := f.createSession(t, "doc-1", "u1", "Alice")
	f.join(t, session.ID, "u2", domain.RoleEditor, &recordingSink{})

	req.NoError(f.engine.MoveCursor(domain.MoveCursorCommand{
		SessionID: session.ID, UserID: "u2", X: 12.5, Y: 7.25,
	}))

	presence := f.engine.Presence(session.ID)
	req.Len(presence, 2)

	// Roster order: the owner joined first
	req.Equal("u1", presence[0].UserID)
	req.Nil(presence[0].Cursor, "no live connection, no cursor")

	req.Equal("u2", presence[1].UserID)
	req.Equal(domain.RoleEditor, presence[1].Role)
	req.NotNil(presence[1].Cursor)
	req.Equal(12.5, presence[1].Cursor.X)
	req.Equal(7.25, presence[1].Cursor.Y)
}

func TestEngine_ConcurrentAppendsStayGapless(t *testing.T) {
	req := require.New(t)
	f := startEngine(t, runtime.Options{})
	ctx := context.Background()

	session := f.createSession(t, "doc-1", "u1", "Alice")
	f.join(t, session.ID, "u2", domain.RoleEditor, nil)

	const perAuthor = 25
	var wg sync.WaitGroup
	for _, author := range []string{"u1", "u2"} {
		wg.Add(1)
		go func(author string) {
			defer wg.Done()
			for i := 0; i < perAuthor; i++ {
				_, err := f.engine.AppendUpdate(ctx, domain.AppendUpdateCommand{
					SessionID: session.ID,
					AuthorID:  author,
					Type:      domain.UpdatePositionalMove,
					Payload:   []byte(fmt.Sprintf(`{"entityId":"%s-%d"}`, author, i)),
				})
				require.NoError(t, err)
			}
		}(author)
	}
	wg.Wait()

	all, err := f.engine.UpdatesSince(ctx, session.ID, 0, 1000)
	req.NoError(err)
	req.Len(all, 2*perAuthor)
	for i, u := range all {
		req.Equal(uint64(i+1), u.Sequence, "sequences must be gapless and ordered")
	}
}
