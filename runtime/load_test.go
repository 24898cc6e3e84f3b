package runtime_test

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"board-lab/conflict"
	"board-lab/domain"
	"board-lab/mocks"
	"board-lab/observability"
	"board-lab/runtime"
)

func TestEngine_LoadTest(t *testing.T) {
	req := require.New(t)

	// 1. Setup minimaliste (on mock les stores pour ne pas être bridé par le disque/Badger)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ctrl := gomock.NewController(t)
	mockSessions := mocks.NewMockISessionStore(ctrl)
	mockUpdates := mocks.NewMockIUpdateStore(ctrl)
	mockConflicts := mocks.NewMockIConflictStore(ctrl)
	mockAuthz := mocks.NewMockAuthorizer(ctrl)

	mockSessions.EXPECT().Get(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, id uuid.UUID) (*domain.Session, error) {
			now := time.Now().UTC()
			return &domain.Session{
				ID:           id,
				DocumentID:   "load-doc",
				Participants: map[string]domain.Participant{},
				StartedAt:    now,
				LastActivity: now,
				IsActive:     true,
				Version:      1,
			}, nil
		}).AnyTimes()
	mockSessions.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockSessions.EXPECT().ListActive(gomock.Any()).Return(nil, nil).AnyTimes()

	var seqMu sync.Mutex
	committed := make(map[uuid.UUID][]uint64)
	mockUpdates.EXPECT().Append(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, u *domain.Update) error {
			time.Sleep(500 * time.Microsecond) // latence de commit simulée
			seqMu.Lock()
			committed[u.SessionID] = append(committed[u.SessionID], u.Sequence)
			seqMu.Unlock()
			return nil
		}).AnyTimes()
	mockUpdates.EXPECT().LastSequence(gomock.Any(), gomock.Any()).Return(uint64(0), nil).AnyTimes()
	mockUpdates.EXPECT().Recent(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()

	mockAuthz.EXPECT().IsAuthorized(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(true).AnyTimes()

	log := slog.New(slog.DiscardHandler) // On désactive les logs pour la perf

	engine := runtime.NewEngine(log, runtime.Options{
		LaneCount:      8,
		Buffer:         5000,
		SinkTimeout:    100 * time.Millisecond,
		MetricInterval: 50 * time.Millisecond,
		ReapInterval:   time.Hour,
	}, mockSessions, mockUpdates, mockConflicts, runtime.NewRegistry(),
		mockAuthz, conflict.PayloadEntityMatcher(), observability.NewStatsManager(log))

	go func() {
		if err := engine.Start(ctx); err != nil {
			fmt.Printf("Engine failed to start: %v\n", err)
		}
	}()
	time.Sleep(100 * time.Millisecond) // Laisse le temps aux workers de démarrer

	// 2. Variables de mesure
	var successCount atomic.Uint64
	var failureCount atomic.Uint64

	numSessions := 8
	sessionIDs := make([]uuid.UUID, numSessions)
	for i := range sessionIDs {
		sessionIDs[i] = uuid.New()
	}

	numClients := 100
	updatesPerClient := 100

	expected := make(map[uuid.UUID]int)
	for i := 0; i < numClients; i++ {
		expected[sessionIDs[i%numSessions]] += updatesPerClient
	}

	start := time.Now()
	var wg sync.WaitGroup

	// 3. Simulation du trafic
	for i := 0; i < numClients; i++ {
		wg.Add(1)
		go func(clientID int) {
			defer wg.Done()
			sessionID := sessionIDs[clientID%numSessions]
			for j := 0; j < updatesPerClient; j++ {
				cmd := domain.AppendUpdateCommand{
					SessionID: sessionID,
					AuthorID:  fmt.Sprintf("user-%d", clientID),
					Type:      domain.UpdatePositionalMove,
					Payload:   []byte(fmt.Sprintf(`{"entityId":"unit-%d","x":%d}`, clientID, j)),
				}

				if _, err := engine.AppendUpdate(ctx, cmd); err != nil {
					failureCount.Add(1)
				} else {
					successCount.Add(1)
				}
			}
		}(i)
	}

	wg.Wait()
	duration := time.Since(start)

	// 4. Résultats
	fmt.Printf("\n--- RÉSULTATS DU STRESS TEST ---\n")
	fmt.Printf("Durée totale      : %v\n", duration)
	fmt.Printf("Updates commitées : %d\n", successCount.Load())
	fmt.Printf("Updates rejetées  : %d (Backpressure)\n", failureCount.Load())
	fmt.Printf("Débit (TPS)       : %.2f updates/sec\n", float64(successCount.Load())/duration.Seconds())
	fmt.Printf("--------------------------------\n")

	req.Zero(failureCount.Load())
	req.Equal(uint64(numClients*updatesPerClient), successCount.Load())

	// Chaque session doit sortir de la charge sans trou ni désordre
	seqMu.Lock()
	defer seqMu.Unlock()
	for _, id := range sessionIDs {
		seqs := committed[id]
		req.Len(seqs, expected[id])
		for i, seq := range seqs {
			req.Equal(uint64(i+1), seq, "lane must commit sequences in order")
		}
	}
}
