package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/roach88/logkeep/internal/metrics"
	"github.com/roach88/logkeep/internal/record"
)

// Appender is the store operation the worker runs for each task.
// Implemented by *store.Store.
type Appender interface {
	Append(ctx context.Context, rec record.Record, capacity int) error
}

// Result is the outcome of one write task. A nil Err means the record
// was committed.
type Result struct {
	TaskID string
	Err    error
}

// OK reports whether the write succeeded.
func (r Result) OK() bool {
	return r.Err == nil
}

// Handler receives the Result of a task on the worker goroutine.
// Handlers should return quickly: the next write waits for them.
type Handler func(Result)

// Task is one queued write.
type Task struct {
	ID     string
	Record record.Record
	Done   Handler
}

// Worker is the single goroutine that executes write tasks in FIFO order.
//
// Thread-safety model:
//   - Submit(): safe from any goroutine
//   - Start(), Shutdown(), Stop(): safe from any goroutine, effective once
//   - the Appender is only ever called from the worker goroutine
type Worker struct {
	store    Appender
	capacity int
	queue    *taskQueue
	ids      IDGenerator
	logger   *slog.Logger
	metrics  *metrics.Metrics

	failLog    *rate.Limiter // throttles write failure warnings
	suppressed int           // failure warnings skipped since the last one logged

	startOnce sync.Once
	started   atomic.Bool
	discard   atomic.Bool
	dropped   atomic.Int64
	done      chan struct{}
}

// Option configures a Worker.
type Option func(*Worker)

// WithLogger sets the logger for worker diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(w *Worker) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithMetrics enables Prometheus instrumentation.
func WithMetrics(m *metrics.Metrics) Option {
	return func(w *Worker) {
		w.metrics = m
	}
}

// DefaultFailureLogRate is the default number of write failure warnings
// logged per second.
const DefaultFailureLogRate = 10

// WithFailureLogRate limits write failure warnings to n per second.
// Failures beyond the limit are counted and reported with the next
// warning that is logged.
func WithFailureLogRate(n int) Option {
	return func(w *Worker) {
		if n > 0 {
			w.failLog = rate.NewLimiter(rate.Limit(n), n)
		}
	}
}

// WithIDGenerator overrides the task id generator (default UUIDv7Generator).
func WithIDGenerator(g IDGenerator) Option {
	return func(w *Worker) {
		if g != nil {
			w.ids = g
		}
	}
}

// New creates a worker that appends to store, keeping at most capacity
// rows. The worker does not run until Start is called.
func New(store Appender, capacity int, opts ...Option) *Worker {
	w := &Worker{
		store:    store,
		capacity: capacity,
		queue:    newTaskQueue(),
		ids:      UUIDv7Generator{},
		logger:   slog.Default(),
		failLog:  rate.NewLimiter(rate.Limit(DefaultFailureLogRate), DefaultFailureLogRate),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start launches the worker goroutine. Calls after the first are no-ops.
func (w *Worker) Start() {
	w.startOnce.Do(func() {
		w.started.Store(true)
		go w.run()
	})
}

// Submit enqueues rec for writing and returns immediately.
// done may be nil. Returns false, without calling done, once the worker
// has been shut down.
func (w *Worker) Submit(rec record.Record, done Handler) bool {
	t := Task{ID: w.ids.Generate(), Record: rec, Done: done}
	if !w.queue.Enqueue(t) {
		return false
	}
	w.metrics.SetQueueDepth(w.queue.Len())
	return true
}

// Pending returns the number of tasks waiting to start.
func (w *Worker) Pending() int {
	return w.queue.Len()
}

// Done is closed when the worker goroutine has exited.
func (w *Worker) Done() <-chan struct{} {
	return w.done
}

// Dropped returns how many tasks were discarded without running.
func (w *Worker) Dropped() int {
	return int(w.dropped.Load())
}

// Shutdown stops accepting tasks and waits for the backlog to drain
// until ctx is done. When ctx ends first, tasks that have not started
// are dropped without calling their handlers, and Shutdown waits only
// for the task already in its transaction.
//
// Returns true if every submitted task ran.
func (w *Worker) Shutdown(ctx context.Context) bool {
	w.queue.Close()

	if !w.started.Load() {
		w.dropAll()
		return w.dropped.Load() == 0
	}

	select {
	case <-w.done:
	case <-ctx.Done():
		w.discard.Store(true)
		<-w.done
	}
	return w.dropped.Load() == 0
}

// Stop stops accepting tasks and returns without waiting. Queued tasks
// are dropped; a task already running finishes on its own.
func (w *Worker) Stop() {
	w.discard.Store(true)
	w.queue.Close()
	if !w.started.Load() {
		w.dropAll()
	}
}

// run is the worker loop. It exits when the queue is closed and empty,
// or as soon as discard is set.
func (w *Worker) run() {
	defer close(w.done)
	w.logger.Debug("log worker started", "capacity", w.capacity)

	for {
		t, ok := w.queue.Dequeue()
		if !ok {
			w.logger.Debug("log worker stopped")
			return
		}
		if w.discard.Load() {
			w.drop(1 + w.queue.Drain())
			return
		}
		w.execute(t)
	}
}

func (w *Worker) execute(t Task) {
	start := time.Now()
	err := w.store.Append(context.Background(), t.Record, w.capacity)
	elapsed := time.Since(start)

	outcome := metrics.OutcomeSuccess
	if err != nil {
		outcome = metrics.OutcomeFailure
		w.warnFailure(t, err)
	} else {
		w.logger.Debug("log written", "task", t.ID, "duration", elapsed)
	}
	w.metrics.Observe(outcome, elapsed.Seconds())
	w.metrics.SetQueueDepth(w.queue.Len())

	w.complete(t, Result{TaskID: t.ID, Err: err})
}

func (w *Worker) warnFailure(t Task, err error) {
	if !w.failLog.Allow() {
		w.suppressed++
		return
	}
	w.logger.Warn("log write failed", "task", t.ID, "error", err, "suppressed", w.suppressed)
	w.suppressed = 0
}

// complete calls the task's handler. A panicking handler is logged and
// does not take the worker down.
func (w *Worker) complete(t Task, r Result) {
	if t.Done == nil {
		return
	}
	defer func() {
		if p := recover(); p != nil {
			w.logger.Error("log completion handler panicked",
				"task", t.ID,
				"panic", fmt.Sprint(p),
			)
		}
	}()
	t.Done(r)
}

func (w *Worker) dropAll() {
	w.drop(w.queue.Drain())
}

func (w *Worker) drop(n int) {
	if n == 0 {
		return
	}
	w.dropped.Add(int64(n))
	w.metrics.Dropped(n)
	w.metrics.SetQueueDepth(0)
	w.logger.Debug("log tasks dropped at shutdown", "count", n)
}
