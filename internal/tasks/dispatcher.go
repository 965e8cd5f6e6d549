package tasks

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"
)

// ErrJobPanicked marks a job whose handler panicked.
var ErrJobPanicked = errors.New("dispatcher: job panicked")

// ErrShutdownTimeout is returned by [Dispatcher.Close] when workers outlive the deadline.
var ErrShutdownTimeout = errors.New("dispatcher: workers did not finish before the deadline")

// Handler processes one job.
type Handler[T any] func(ctx context.Context, job T) error

// DispatcherOpts configures a [Dispatcher].
type DispatcherOpts struct {
	Workers   int     // Concurrent workers (default: 2, max: 10)
	QueueSize int     // Buffered jobs before Enqueue drops (default: 64)
	RateLimit float64 // Jobs started per second across all workers (default: 2)
}

// Stats counts what a [Dispatcher] has done with its jobs.
type Stats struct {
	Processed int64
	Failed    int64
	Dropped   int64
}

// Dispatcher runs jobs in the background on a fixed worker pool behind a bounded queue.
//
// Enqueue never blocks: when the queue is full the job is dropped and counted.
// Job starts are paced by a shared rate limiter.
type Dispatcher[T any] struct {
	handler Handler[T]
	logger  *log.Logger
	limiter *rate.Limiter
	jobs    chan T

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.RWMutex
	closed bool

	processed atomic.Int64
	failed    atomic.Int64
	dropped   atomic.Int64
}

// NewDispatcher starts opts.Workers workers that pass each job to handler.
func NewDispatcher[T any](handler Handler[T], opts DispatcherOpts, logger *log.Logger) *Dispatcher[T] {
	if opts.Workers <= 0 {
		opts.Workers = 2
	}
	if opts.Workers > 10 {
		opts.Workers = 10
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 64
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 2.0
	}

	ctx, cancel := context.WithCancel(context.Background())
	d := &Dispatcher[T]{
		handler: handler,
		logger:  logger,
		limiter: rate.NewLimiter(rate.Limit(opts.RateLimit), 1),
		jobs:    make(chan T, opts.QueueSize),
		ctx:     ctx,
		cancel:  cancel,
	}

	for i := 0; i < opts.Workers; i++ {
		d.wg.Add(1)
		go d.worker(i)
	}
	return d
}

// Enqueue queues job and reports whether it was accepted.
// It returns false without blocking when the queue is full or the dispatcher is closed.
func (d *Dispatcher[T]) Enqueue(job T) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.dropped.Add(1)
		return false
	}

	select {
	case d.jobs <- job:
		return true
	default:
		d.dropped.Add(1)
		return false
	}
}

// Close stops intake and waits for queued jobs to drain.
// When ctx ends first, in-flight handlers are cancelled and [ErrShutdownTimeout] is returned.
func (d *Dispatcher[T]) Close(ctx context.Context) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	close(d.jobs)
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.cancel()
		return nil
	case <-ctx.Done():
		d.cancel()
		<-done
		return ErrShutdownTimeout
	}
}

// Stats returns a snapshot of the job counters.
func (d *Dispatcher[T]) Stats() Stats {
	return Stats{
		Processed: d.processed.Load(),
		Failed:    d.failed.Load(),
		Dropped:   d.dropped.Load(),
	}
}

func (d *Dispatcher[T]) worker(id int) {
	defer d.wg.Done()

	for job := range d.jobs {
		if err := d.limiter.Wait(d.ctx); err != nil {
			d.failed.Add(1)
			continue
		}

		if err := d.run(id, job); err != nil {
			d.failed.Add(1)
			d.logger.Error("job failed", "worker", id, "error", err)
			continue
		}
		d.processed.Add(1)
	}
}

// run calls the handler, turning a panic into an error so one bad job cannot stop the worker.
func (d *Dispatcher[T]) run(id int, job T) (err error) {
	defer func() {
		if v := recover(); v != nil {
			d.logger.Error("job panicked", "worker", id, "panic", v, "stack", string(debug.Stack()))
			err = fmt.Errorf("%w: %v", ErrJobPanicked, v)
		}
	}()
	return d.handler(d.ctx, job)
}
