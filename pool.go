package zne

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/theapemachine/errnie"
)

/*
BatchPool fans a batch of circuits out to a bounded set of workers,
wrapping any sequential Executor into a BatchExecutor. Each batch is
self-contained: workers are started for the batch and torn down with
it, and no state is shared between batches.

The first executor failure cancels the remaining work and is returned
to the caller; partial results are discarded rather than substituted.
*/
type BatchPool struct {
	exec    Executor
	workers int
	config  *Config
	metrics *RunMetrics
}

type circuitJob struct {
	index   int
	circuit *Circuit
}

// NewBatchPool wraps exec with a pool of at most workers concurrent
// executions. A nil config uses package defaults.
func NewBatchPool(exec Executor, workers int, config *Config) *BatchPool {
	if workers < 1 {
		workers = 1
	}
	if config == nil {
		config = NewConfig()
	}
	return &BatchPool{
		exec:    exec,
		workers: workers,
		config:  config,
		metrics: newRunMetrics(),
	}
}

// Run executes a single circuit, so a BatchPool is itself an Executor.
func (p *BatchPool) Run(ctx context.Context, c *Circuit) (float64, error) {
	return p.exec.Run(ctx, c)
}

// RunBatch executes every circuit, preserving input order in the
// returned values.
func (p *BatchPool) RunBatch(ctx context.Context, circuits []*Circuit) ([]float64, error) {
	if len(circuits) == 0 {
		return nil, nil
	}

	runID := uuid.NewString()
	errnie.Info("batch %s - executing %d circuits with %d workers", runID, len(circuits), p.workers)

	var cancel context.CancelFunc
	if timeout := p.schedulingTimeout(); timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, timeout)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}
	defer cancel()

	jobs := make(chan circuitJob)
	values := make([]float64, len(circuits))

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)

	fail := func(err error) {
		errOnce.Do(func() {
			firstErr = err
			cancel()
		})
	}

	workers := p.workers
	if workers > len(circuits) {
		workers = len(circuits)
	}

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				start := time.Now()
				value, err := p.exec.Run(ctx, job.circuit)
				p.metrics.recordExecution(start, err == nil)
				if err != nil {
					log.Printf("batch %s circuit %d failed: %v", runID, job.index, err)
					fail(fmt.Errorf("circuit %d: %w", job.index, err))
					return
				}
				values[job.index] = value
			}
		}()
	}

	// Feed jobs until done or a worker failed.
dispatch:
	for i, c := range circuits {
		select {
		case jobs <- circuitJob{index: i, circuit: c}:
		case <-ctx.Done():
			break dispatch
		}
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("batch %s: %w", runID, err)
	}

	errnie.Info("batch %s - done in %v", runID, p.metrics.Snapshot().TotalRunTime)
	return values, nil
}

// schedulingTimeout returns the per-batch deadline from config, zero
// meaning no deadline beyond the caller's context.
func (p *BatchPool) schedulingTimeout() time.Duration {
	if p.config != nil && p.config.SchedulingTimeout > 0 {
		return p.config.SchedulingTimeout
	}
	return 0
}

// Metrics exposes execution accounting accumulated across batches run
// through this pool.
func (p *BatchPool) Metrics() MetricsSnapshot {
	return p.metrics.Snapshot()
}
