package app

import (
	"context"
	"time"

	"github.com/bft-labs/meshscreen/internal/ports"
)

// Task is a unit of cooperative work. RunOnce returns how long to wait
// before it should run again, or zero to wait until woken.
type Task interface {
	RunOnce() time.Duration
	Enabled() bool
}

// Runner drives a Task from a single goroutine. It doubles as the waker
// producers use to cut a wait short.
type Runner struct {
	logger ports.Logger
	wake   chan struct{}
}

// NewRunner creates a Runner.
func NewRunner(logger ports.Logger) *Runner {
	return &Runner{
		logger: logger,
		wake:   make(chan struct{}, 1),
	}
}

// Wake makes a waiting Run call check its task again. It never blocks and
// wakes arriving together are merged.
func (r *Runner) Wake() {
	select {
	case r.wake <- struct{}{}:
	default:
	}
}

// Run calls task.RunOnce while the task is enabled, sleeping for the
// interval it returns. A disabled task is left alone until Wake is called.
// Run returns when ctx is canceled.
func (r *Runner) Run(ctx context.Context, task Task) error {
	r.logger.Debug("runner started")
	for {
		var wait <-chan time.Time
		if task.Enabled() {
			if interval := task.RunOnce(); interval > 0 && task.Enabled() {
				wait = time.After(interval)
			}
		}

		select {
		case <-ctx.Done():
			r.logger.Debug("runner stopped")
			return ctx.Err()
		case <-r.wake:
		case <-wait:
		}
	}
}
