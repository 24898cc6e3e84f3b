package runtime

import (
	"context"
	"hash/fnv"
	"log/slog"

	"board-lab/contract"
	"board-lab/errors"

	"github.com/google/uuid"
)

// task is one unit of session-scoped work waiting on a lane.
type task struct {
	ctx  context.Context
	run  func(ctx context.Context) error
	done chan error
}

// Lanes route session work onto a fixed set of serial queues. Every piece
// of work for one session lands on the same queue, and each queue has a
// single consumer, so mutations of a session are totally ordered without
// fine-grained locking. Presence writes never come through here.
type Lanes struct {
	queues []chan task
}

func NewLanes(count, buffer int) *Lanes {
	if count <= 0 {
		count = 1
	}
	queues := make([]chan task, count)
	for i := range queues {
		queues[i] = make(chan task, buffer)
	}
	return &Lanes{queues: queues}
}

// queueFor pins a key to its lane.
func (l *Lanes) queueFor(key uuid.UUID) chan task {
	h := fnv.New32a()
	_, _ = h.Write(key[:])
	return l.queues[int(h.Sum32())%len(l.queues)]
}

// Submit schedules fn on the key's lane and blocks until it ran or the
// caller gave up. Abandoning after enqueue does not unschedule the work:
// an acknowledged write cannot be retracted, only superseded.
func (l *Lanes) Submit(ctx context.Context, key uuid.UUID, fn func(ctx context.Context) error) error {
	t := task{ctx: ctx, run: fn, done: make(chan error, 1)}
	select {
	case l.queueFor(key) <- t:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-t.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Workers builds one supervised consumer per queue.
func (l *Lanes) Workers(log *slog.Logger) []contract.Worker {
	out := make([]contract.Worker, 0, len(l.queues))
	for _, q := range l.queues {
		out = append(out, &LaneWorker{queue: q, log: log})
	}
	return out
}

// Ensure *LaneWorker implements the contract.Worker interface at compile time.
var _ contract.Worker = (*LaneWorker)(nil)

// LaneWorker drains a single queue. One consumer per queue is the whole
// serialization guarantee; never run two workers on the same queue.
type LaneWorker struct {
	queue chan task
	log   *slog.Logger
}

func (w *LaneWorker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Stopping worker")
			return ctx.Err()
		case t, ok := <-w.queue:
			if !ok {
				w.log.Debug("Channel is closed")
				return nil
			}
			if t.ctx.Err() != nil {
				// The caller is already gone, skip the work entirely
				// rather than mutating on behalf of nobody.
				t.done <- t.ctx.Err()
				continue
			}
			t.done <- w.protect(t)
		}
	}
}

// protect converts a panicking task into an error so the waiting caller
// unblocks and the lane keeps serving its other sessions.
func (w *LaneWorker) protect(t task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			w.log.Error("Task panicked on lane", "panic", r)
			err = errors.ErrWorkerPanic
		}
	}()
	return t.run(t.ctx)
}
