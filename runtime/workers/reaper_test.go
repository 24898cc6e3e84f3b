package workers

import (
	"context"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type countingSweeper struct {
	sweeps atomic.Int64
}

func (s *countingSweeper) SweepIdle(ctx context.Context) (int, error) {
	s.sweeps.Add(1)
	return 0, nil
}

func TestReaperWorker_SweepsOnInterval(t *testing.T) {
	req := require.New(t)
	sweeper := &countingSweeper{}
	w := NewReaperWorker(sweeper, 10*time.Millisecond, slog.Default())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = w.Run(ctx)
		close(done)
	}()

	req.Eventually(func() bool { return sweeper.sweeps.Load() >= 3 },
		time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		req.Fail("worker did not stop on context cancel")
	}
}
