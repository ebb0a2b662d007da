// Package workpool schedules pipeline executions on a bounded worker pool.
//
// The queue has a fixed depth; submissions are rejected once it fills, which
// is the only backpressure the upload surface offers. Each running job holds
// a cancellation token so shutdown aborts in-flight work.
package workpool

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"subgen/internal/logging"
)

// ErrQueueFull is returned when the pending queue has no room left.
var ErrQueueFull = errors.New("job queue full")

// ErrNotRunning is returned for submissions before Start or after Close.
var ErrNotRunning = errors.New("worker pool not running")

// Processor executes one job to a terminal state.
type Processor interface {
	Process(ctx context.Context, jobID string) error
}

// Pool owns the pending-job queue and its workers.
type Pool struct {
	processor Processor
	logger    *slog.Logger
	workers   int
	queue     chan string

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	active  map[string]context.CancelFunc
	wg      sync.WaitGroup
}

// New creates a pool with the given worker count and queue depth.
func New(processor Processor, workers, queueSize int, logger *slog.Logger) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = 1
	}
	return &Pool{
		processor: processor,
		logger:    logging.NewComponentLogger(logger, "workpool"),
		workers:   workers,
		queue:     make(chan string, queueSize),
		active:    make(map[string]context.CancelFunc),
	}
}

// Start launches the workers. The pool stops accepting work when ctx is
// canceled or Close is called.
func (p *Pool) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return errors.New("worker pool already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.running = true

	p.wg.Add(p.workers)
	for i := 0; i < p.workers; i++ {
		go p.runWorker(runCtx)
	}
	return nil
}

// Submit enqueues a job for processing. Returns ErrQueueFull when saturated
// so the caller can reject the submission instead of queueing unboundedly.
func (p *Pool) Submit(jobID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.running {
		return ErrNotRunning
	}

	// Non-blocking send under the lock so Close cannot close the channel
	// between the running check and the enqueue.
	select {
	case p.queue <- jobID:
		return nil
	default:
		return ErrQueueFull
	}
}

// Cancel aborts a queued or in-flight job's context. Queued jobs are still
// picked up by a worker but fail fast on the dead context.
func (p *Pool) Cancel(jobID string) {
	p.mu.Lock()
	cancel := p.active[jobID]
	p.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Close stops accepting submissions, cancels in-flight work, and waits for
// the workers to drain.
func (p *Pool) Close() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	cancel := p.cancel
	p.cancel = nil
	p.mu.Unlock()

	cancel()
	close(p.queue)
	p.wg.Wait()
}

// Workers returns the worker count.
func (p *Pool) Workers() int { return p.workers }

// QueueSize returns the queue capacity.
func (p *Pool) QueueSize() int { return cap(p.queue) }

// Depth returns the number of jobs currently waiting.
func (p *Pool) Depth() int { return len(p.queue) }

func (p *Pool) runWorker(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case jobID, ok := <-p.queue:
			if !ok {
				return
			}
			p.process(ctx, jobID)
		}
	}
}

func (p *Pool) process(ctx context.Context, jobID string) {
	jobCtx, cancel := context.WithCancel(ctx)
	p.mu.Lock()
	p.active[jobID] = cancel
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		delete(p.active, jobID)
		p.mu.Unlock()
		cancel()
	}()

	if err := p.processor.Process(jobCtx, jobID); err != nil && !errors.Is(err, context.Canceled) {
		p.logger.Debug("job processing returned error",
			logging.String(logging.FieldJobID, jobID),
			logging.Error(err),
		)
	}
}
