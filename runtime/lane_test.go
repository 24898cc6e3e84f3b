package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"board-lab/contract"
	"board-lab/errors"
)

func startLanes(lanes *Lanes) context.CancelFunc {
	ctx, cancel := context.WithCancel(context.Background())
	for _, w := range lanes.Workers(slog.Default()) {
		go func(w contract.Worker) { _ = w.Run(ctx) }(w)
	}
	return cancel
}

func TestLanes_SerializesWorkPerKey(t *testing.T) {
	req := require.New(t)
	lanes := NewLanes(4, 64)
	cancel := startLanes(lanes)
	defer cancel()

	key := uuid.New()
	counter := 0 // not atomic on purpose: serialization is the guarantee under test

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = lanes.Submit(context.Background(), key, func(ctx context.Context) error {
					counter++
					return nil
				})
			}
		}()
	}
	wg.Wait()

	req.Equal(800, counter)
}

func TestLanes_SubmitReturnsTaskError(t *testing.T) {
	req := require.New(t)
	lanes := NewLanes(2, 8)
	cancel := startLanes(lanes)
	defer cancel()

	boom := fmt.Errorf("boom")
	err := lanes.Submit(context.Background(), uuid.New(), func(ctx context.Context) error {
		return boom
	})
	req.ErrorIs(err, boom)
}

func TestLanes_PanicUnblocksCallerAndLaneSurvives(t *testing.T) {
	req := require.New(t)
	lanes := NewLanes(1, 8)
	cancel := startLanes(lanes)
	defer cancel()

	key := uuid.New()
	err := lanes.Submit(context.Background(), key, func(ctx context.Context) error {
		panic("kaboom")
	})
	req.ErrorIs(err, errors.ErrWorkerPanic)

	// The lane keeps serving after the panic
	req.NoError(lanes.Submit(context.Background(), key, func(ctx context.Context) error {
		return nil
	}))
}

func TestLanes_AbandonedCallerNeverRuns(t *testing.T) {
	req := require.New(t)
	lanes := NewLanes(1, 8)
	key := uuid.New()

	gone, cancelGone := context.WithCancel(context.Background())
	cancelGone()

	ran := false
	err := lanes.Submit(gone, key, func(ctx context.Context) error {
		ran = true
		return nil
	})
	req.ErrorIs(err, context.Canceled)

	// Start the consumer afterwards: if the task was enqueued before the
	// caller gave up, the worker must still skip it.
	cancel := startLanes(lanes)
	defer cancel()

	req.NoError(lanes.Submit(context.Background(), key, func(ctx context.Context) error {
		return nil
	}))
	req.False(ran, "work for a gone caller must never execute")
}

func TestLanes_SameKeyAlwaysSameQueue(t *testing.T) {
	req := require.New(t)
	lanes := NewLanes(8, 1)
	key := uuid.New()

	first := lanes.queueFor(key)
	for i := 0; i < 10; i++ {
		req.Equal(first, lanes.queueFor(key))
	}
}
