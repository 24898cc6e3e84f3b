package sink_test

import (
	"testing"
	"time"

	"board-lab/domain"
	"board-lab/domain/event"
	"board-lab/sink"
	"board-lab/storage"

	"github.com/google/uuid"
	"github.com/mama165/sdk-go/database"
	"github.com/stretchr/testify/require"
)

func annotationApplied(sessionID uuid.UUID, author, text string, sequence uint64) event.UpdateApplied {
	u := domain.NewUpdate(sessionID, author, domain.UpdateAnnotation,
		[]byte(`{"text":"`+text+`"}`), time.Now().UTC())
	u.Sequence = sequence
	return event.UpdateApplied{SessionID: sessionID, Update: u}
}

func TestSearchSink_FlushBySizeThreshold(t *testing.T) {
	req := require.New(t)
	ctx, log, badgerDB, blugeWriter, err := database.SetupBenchmark(database.DefaultPath)
	req.NoError(err)
	defer database.CleanupDB(badgerDB, blugeWriter)

	index := storage.NewAnnotationIndex(blugeWriter, log, 10)
	s := sink.NewSearchSink(index, log, 2, 10*time.Second)
	sessionID := uuid.New()

	req.NoError(s.Consume(ctx, annotationApplied(sessionID, "u1", "mark the left corridor", 1)))
	req.NoError(s.Consume(ctx, annotationApplied(sessionID, "u2", "corridor covered", 2)))
	time.Sleep(50 * time.Millisecond)

	hits, total, err := index.Search(ctx, sessionID, "corridor", 0)
	req.NoError(err)
	req.Equal(uint64(2), total)
	req.Len(hits, 2)
}

func TestSearchSink_FlushByDeadline(t *testing.T) {
	req := require.New(t)
	ctx, log, badgerDB, blugeWriter, err := database.SetupBenchmark(database.DefaultPath)
	req.NoError(err)
	defer database.CleanupDB(badgerDB, blugeWriter)

	index := storage.NewAnnotationIndex(blugeWriter, log, 10)
	s := sink.NewSearchSink(index, log, 100, 50*time.Millisecond)
	sessionID := uuid.New()

	req.NoError(s.Consume(ctx, annotationApplied(sessionID, "u1", "watch the weak side", 1)))

	req.Eventually(func() bool {
		_, total, searchErr := index.Search(ctx, sessionID, "weak", 0)
		return searchErr == nil && total == 1
	}, 2*time.Second, 25*time.Millisecond)
}

func TestSearchSink_IgnoresEverythingButAnnotations(t *testing.T) {
	req := require.New(t)
	ctx, log, badgerDB, blugeWriter, err := database.SetupBenchmark(database.DefaultPath)
	req.NoError(err)
	defer database.CleanupDB(badgerDB, blugeWriter)

	index := storage.NewAnnotationIndex(blugeWriter, log, 10)
	s := sink.NewSearchSink(index, log, 1, 10*time.Second)
	sessionID := uuid.New()

	move := domain.NewUpdate(sessionID, "u1", domain.UpdatePositionalMove,
		[]byte(`{"entityId":"p1","text":"corridor"}`), time.Now().UTC())
	move.Sequence = 1

	req.NoError(s.Consume(ctx, event.UpdateApplied{SessionID: sessionID, Update: move}))
	req.NoError(s.Consume(ctx, event.ParticipantLeft{SessionID: sessionID, UserID: "u1", At: time.Now().UTC()}))
	req.NoError(s.Flush())
	time.Sleep(50 * time.Millisecond)

	_, total, err := index.Search(ctx, sessionID, "corridor", 0)
	req.NoError(err)
	req.Zero(total)
}
