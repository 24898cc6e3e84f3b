package workers

import (
	"context"
	"log/slog"
	"time"

	"board-lab/contract"
)

// Sweeper ends sessions whose roster sat empty past the grace threshold.
// The engine implements it; the worker only owns the cadence.
type Sweeper interface {
	SweepIdle(ctx context.Context) (int, error)
}

// ReaperWorker runs the idle-reap sweep on a fixed interval. A sweep that
// fails is retried on the next tick; the worker itself never dies over a
// storage hiccup.
type ReaperWorker struct {
	sweeper  Sweeper
	interval time.Duration
	log      *slog.Logger
}

var _ contract.Worker = (*ReaperWorker)(nil)

func NewReaperWorker(sweeper Sweeper, interval time.Duration, log *slog.Logger) *ReaperWorker {
	return &ReaperWorker{sweeper: sweeper, interval: interval, log: log}
}

func (w *ReaperWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Stopping worker")
			return nil
		case <-ticker.C:
			reaped, err := w.sweeper.SweepIdle(ctx)
			if err != nil {
				w.log.Warn("Idle sweep failed", "error", err)
				continue
			}
			if reaped > 0 {
				w.log.Info("Idle sweep finished", "reaped", reaped)
			}
		}
	}
}
