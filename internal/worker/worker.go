// Package worker runs independent units of work on a bounded pool and joins
// their results.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/kudos/pkg/logger"
	"github.com/okian/kudos/pkg/metrics"
)

// Task is one unit of work producing a T.
type Task[T any] func(ctx context.Context) (T, error)

// Pool bounds how many tasks run at once.
type Pool struct {
	name    string
	size    int
	logger  logger.Logger
	metrics *metrics.Manager
}

// NewPool creates a pool running at most size tasks concurrently. A size
// below one selects runtime.NumCPU().
func NewPool(size int, opts ...Option) *Pool {
	if size < 1 {
		size = runtime.NumCPU()
	}
	p := &Pool{
		name: "worker",
		size: size,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = logger.Get().Named(p.name)
	}
	if p.metrics == nil {
		p.metrics = metrics.Default()
	}
	p.metrics.UpdateWorkerCount(size)
	return p
}

// Size returns the concurrency bound.
func (p *Pool) Size() int { return p.size }

// Name returns the pool name.
func (p *Pool) Name() string { return p.name }

// Run executes tasks on p and returns their results in task order. Run
// returns once every started task has finished. The first error cancels the
// context handed to the remaining tasks and is returned.
func Run[T any](ctx context.Context, p *Pool, tasks []Task[T]) ([]T, error) {
	results := make([]T, len(tasks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.size)

	for i, task := range tasks {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			p.metrics.AddWorkerActive(1)
			defer p.metrics.AddWorkerActive(-1)

			start := time.Now()
			out, err := task(gctx)
			if err != nil {
				p.metrics.RecordErrorByComponent(p.name, "task_error")
				p.logger.Error(gctx, "task failed", logger.Int("task", i), logger.Error(err))
				return fmt.Errorf("task %d: %w", i, err)
			}
			results[i] = out
			p.logger.Debug(gctx, "task done", logger.Int("task", i), logger.Duration("took", time.Since(start)))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
