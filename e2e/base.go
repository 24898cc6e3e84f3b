package e2e

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/suite"

	"board-lab/auth"
	"board-lab/conflict"
	"board-lab/internal"
	"board-lab/observability"
	"board-lab/projection"
	"board-lab/runtime"
	"board-lab/services"
	"board-lab/sink"
	"board-lab/storage"
)

// BaseEngineSuite boots a complete engine against throwaway storage and
// exposes the same facade an embedding host would hold: the session service,
// an in-process transport for live streams, and the read-model sinks.
type BaseEngineSuite struct {
	suite.Suite
	Config Config

	Service   services.ISessionService
	Transport *sink.ChannelTransport
	Timeline  *projection.Timeline
	Search    *sink.SearchSink

	log    *slog.Logger
	engine *runtime.Engine
	db     *badger.DB
	writer *bluge.Writer
	cancel context.CancelFunc
}

// SetupSuite loads the environment configuration and starts the full engine
func (s *BaseEngineSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)

	s.log = logs.GetLoggerFromLevel(slog.LevelWarn)

	s.db, err = badger.Open(badger.DefaultOptions(s.T().TempDir()).
		WithLoggingLevel(badger.ERROR))
	s.Require().NoError(err)
	s.writer, err = bluge.OpenWriter(bluge.DefaultConfig(s.T().TempDir()))
	s.Require().NoError(err)

	sessions := storage.NewSessionStore(s.db, s.log)
	updates := storage.NewUpdateStore(s.db, s.log)
	conflicts := storage.NewConflictStore(s.db, s.log)
	index := storage.NewAnnotationIndex(s.writer, s.log, 10)

	s.engine = runtime.NewEngine(s.log, runtime.Options{
		SinkTimeout:   2 * time.Second,
		SuppressEcho:  true,
		CensoredWords: internal.WordList(s.Config.CensoredWords),
	}, sessions, updates, conflicts, runtime.NewRegistry(),
		auth.NewRosterAuthorizer(sessions, s.log),
		conflict.PayloadEntityMatcher(),
		observability.NewStatsManager(s.log))

	s.Timeline = projection.NewTimeline(0)
	s.Search = sink.NewSearchSink(index, s.log, 4, 200*time.Millisecond)
	s.engine.Add(s.Timeline, s.Search)

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	go func() { _ = s.engine.Start(ctx) }()

	s.Service = services.NewSessionService(s.engine,
		auth.NewIssuer("e2e-secret", time.Hour), index, s.log)
	s.Transport = sink.NewChannelTransport(256)
}

func (s *BaseEngineSuite) TearDownSuite() {
	s.engine.Stop()
	s.cancel()
	s.Require().NoError(s.Search.Flush())
	s.Require().NoError(s.writer.Close())
	s.Require().NoError(s.db.Close())
}

// WithService runs one scenario step against the session facade with a
// colorized header in the logs and a bounded context.
func (s *BaseEngineSuite) WithService(name string, fn func(ctx context.Context, svc services.ISessionService)) {
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	s.T().Log(header)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	fn(ctx, s.Service)
}

// StreamFor builds a live delivery sink for one participant on the suite
// transport. Pass it to Join to receive broadcasts on Transport.Stream.
func (s *BaseEngineSuite) StreamFor(userID string) sink.StreamSink {
	return sink.NewStreamSink(userID, s.Transport, s.log)
}

// NextFrame blocks for the next broadcast frame on a participant stream.
// The wait is bounded by E2E_SETTLE.
func (s *BaseEngineSuite) NextFrame(stream <-chan []byte) sink.Frame {
	select {
	case raw, ok := <-stream:
		s.Require().True(ok, "Participant stream closed while a frame was expected")
		var frame sink.Frame
		s.Require().NoError(json.Unmarshal(raw, &frame))
		s.Dump("FRAME "+frame.Type, frame)
		return frame
	case <-time.After(s.Config.Settle):
		s.FailNow("No frame arrived within the settle window")
		return sink.Frame{}
	}
}

// CollectFrames blocks until exactly want frames arrived on the stream.
func (s *BaseEngineSuite) CollectFrames(stream <-chan []byte, want int) []sink.Frame {
	frames := make([]sink.Frame, 0, want)
	deadline := time.After(s.Config.Settle)
	for len(frames) < want {
		select {
		case raw, ok := <-stream:
			s.Require().True(ok, "Participant stream closed while frames were expected")
			var frame sink.Frame
			s.Require().NoError(json.Unmarshal(raw, &frame))
			s.Dump("FRAME "+frame.Type, frame)
			frames = append(frames, frame)
		case <-deadline:
			s.FailNowf("Broadcast stream stalled",
				"collected %d of %d frames within %s", len(frames), want, s.Config.Settle)
		}
	}
	return frames
}

// Dump logs v as indented JSON when E2E_DEBUG_JSON is enabled
func (s *BaseEngineSuite) Dump(label string, v any) {
	if !s.Config.DebugJSON {
		return
	}
	body, err := json.MarshalIndent(v, "", "  ")
	s.Require().NoError(err)
	s.T().Logf("%s:\n%s", label, body)
}
