package logkeep

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/roach88/logkeep/internal/clock"
	"github.com/roach88/logkeep/internal/metrics"
	"github.com/roach88/logkeep/internal/record"
	"github.com/roach88/logkeep/internal/store"
	"github.com/roach88/logkeep/internal/worker"
)

// Sink accepts log calls. *Logger implements it; adapters such as
// slogadapter.Handler forward into it.
type Sink interface {
	Log(severity Severity, tag, message string) error
}

var _ Sink = (*Logger)(nil)

type state int32

const (
	stateUninitialized state = iota
	stateInitialized
	stateTerminated
)

// Logger is the public entry point: it filters log calls, builds
// records, and queues them for the background writer.
//
// Thread-safety model:
//   - Log and the level helpers: safe from any goroutine, never block
//   - Initialize, Delete, Terminate*: safe from any goroutine
//   - the store's write path is used only by the worker goroutine
type Logger struct {
	cfg    config
	dbPath string
	logger *slog.Logger

	mu      sync.Mutex // guards lifecycle transitions
	state   atomic.Int32
	store   *store.Store
	worker  *worker.Worker
	metrics *metrics.Metrics
}

// New builds a Logger. It validates the configuration, creates the
// directory and resolves the database path, but does not open the
// database; call Initialize for that.
func New(opts ...Option) (*Logger, error) {
	cfg := config{
		name:        DefaultName,
		capacity:    DefaultCapacity,
		minSeverity: DefaultMinSeverity,
		clock:       clock.System{},
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.capacity < 0 {
		return nil, fmt.Errorf("logkeep: %w", ErrInvalidCapacity)
	}
	if cfg.directory == "" {
		dir, err := DefaultDirectory()
		if err != nil {
			return nil, filesystemError("new", err)
		}
		cfg.directory = dir
	}
	if err := os.MkdirAll(cfg.directory, 0o755); err != nil {
		return nil, filesystemError("new", err)
	}

	dbPath, err := resolvePath(cfg.directory, cfg.name)
	if err != nil {
		return nil, filesystemError("new", err)
	}

	l := &Logger{
		cfg:    cfg,
		dbPath: dbPath,
		logger: diagnosticLogger(cfg),
	}
	l.logger.Debug("backing database file will be created", "path", dbPath)
	return l, nil
}

// DefaultDirectory is the directory used when WithDirectory is not given:
// logkeep under the user cache directory.
func DefaultDirectory() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cacheDir, "logkeep"), nil
}

func diagnosticLogger(cfg config) *slog.Logger {
	if !cfg.debug {
		return slog.New(slog.DiscardHandler)
	}
	base := cfg.logger
	if base == nil {
		base = slog.Default()
	}
	return base.With("component", "logkeep", "store", cfg.name)
}

// resolvePath returns the canonical path of name inside dir.
func resolvePath(dir, name string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("could not resolve the canonical path of %s: %w", dir, err)
	}
	canonical, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("could not resolve the canonical path of %s: %w", abs, err)
	}
	return filepath.Join(canonical, name), nil
}

// Initialize opens the database and starts the writer. Calls after the
// first successful one are no-ops. Returns a state error after
// termination.
func (l *Logger) Initialize() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch state(l.state.Load()) {
	case stateInitialized:
		return nil
	case stateTerminated:
		return stateError("initialize", ErrTerminated)
	}

	workerOpts := []worker.Option{worker.WithLogger(l.logger)}
	if l.cfg.registerer != nil {
		m, err := metrics.New(l.cfg.registerer, l.dbPath)
		if err != nil {
			return fmt.Errorf("logkeep: initialize: %w", err)
		}
		l.metrics = m
		workerOpts = append(workerOpts, worker.WithMetrics(m))
	}

	storeOpts := []store.Option{store.WithLogger(l.logger)}
	if l.cfg.destructiveMigration {
		storeOpts = append(storeOpts, store.WithDestructiveMigration())
	}
	st, err := store.Open(l.dbPath, storeOpts...)
	if err != nil {
		return filesystemError("initialize", err)
	}

	w := worker.New(st, l.cfg.capacity, workerOpts...)
	w.Start()

	l.store = st
	l.worker = w
	l.state.Store(int32(stateInitialized))
	l.logger.Debug("logger initialized", "path", l.dbPath, "capacity", l.cfg.capacity)
	return nil
}

func (l *Logger) checkInitialized(op string) error {
	switch state(l.state.Load()) {
	case stateInitialized:
		return nil
	case stateTerminated:
		return stateError(op, ErrTerminated)
	default:
		return stateError(op, ErrNotInitialized)
	}
}

// Log queues a record for writing and returns immediately.
//
// Calls with severity below the minimum, or with an empty message, are
// dropped without error and without a completion call. Write failures
// are reported to the completion handler, never returned here.
func (l *Logger) Log(severity Severity, tag, message string) error {
	if err := l.checkInitialized("log"); err != nil {
		return err
	}
	if severity < l.cfg.minSeverity || message == "" {
		return nil
	}

	rec := record.New(severity, tag, message, l.cfg.clock.NowMillis())
	if !l.worker.Submit(rec, l.complete) {
		return stateError("log", ErrTerminated)
	}
	return nil
}

// complete runs on the worker goroutine.
func (l *Logger) complete(r worker.Result) {
	if l.cfg.onComplete == nil {
		return
	}
	res := Result{TaskID: r.TaskID}
	if r.Err != nil {
		res.Err = writeFailure("log", r.Err)
	}
	l.cfg.onComplete(res)
}

// Verbose logs message at VERBOSE.
func (l *Logger) Verbose(tag, message string) error { return l.Log(SeverityVerbose, tag, message) }

// Debug logs message at DEBUG.
func (l *Logger) Debug(tag, message string) error { return l.Log(SeverityDebug, tag, message) }

// Info logs message at INFO.
func (l *Logger) Info(tag, message string) error { return l.Log(SeverityInfo, tag, message) }

// Warn logs message at WARN.
func (l *Logger) Warn(tag, message string) error { return l.Log(SeverityWarn, tag, message) }

// Error logs message at ERROR.
func (l *Logger) Error(tag, message string) error { return l.Log(SeverityError, tag, message) }

// Assert logs message at ASSERT.
func (l *Logger) Assert(tag, message string) error { return l.Log(SeverityAssert, tag, message) }

// Delete removes every stored record, synchronously, on the calling
// goroutine. It is not ordered with writes still queued: a record logged
// before Delete may be written after it.
func (l *Logger) Delete(ctx context.Context) error {
	// held so termination cannot close the store mid-clear
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.checkInitialized("delete"); err != nil {
		return err
	}
	if err := l.store.Clear(ctx); err != nil {
		return writeFailure("delete", err)
	}
	return nil
}

// TerminateGraceful stops accepting writes, waits up to timeout for the
// queued ones, then closes the database. Writes still queued when the
// timeout expires are dropped without a completion call; a write already
// in its transaction is allowed to finish.
//
// Returns true if every queued write ran. A timeout is not an error.
func (l *Logger) TerminateGraceful(timeout time.Duration) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return l.Shutdown(ctx)
}

// Shutdown is TerminateGraceful bounded by ctx instead of a timeout.
func (l *Logger) Shutdown(ctx context.Context) (bool, error) {
	if err := l.beginTerminate("terminate"); err != nil {
		return false, err
	}

	drained := l.worker.Shutdown(ctx)
	if !drained {
		l.logger.Warn("terminated before all writes completed", "dropped", l.worker.Dropped())
	}
	if err := l.store.Close(); err != nil {
		return drained, fmt.Errorf("logkeep: terminate: %w", err)
	}
	l.logger.Debug("logger terminated", "drained", drained)
	return drained, nil
}

// TerminateImmediate stops the writer without waiting and closes the
// database. Queued writes are lost without a completion call, and the
// write in flight, if any, may fail. Prefer TerminateGraceful; this is
// for callers that cannot block.
func (l *Logger) TerminateImmediate() error {
	if err := l.beginTerminate("terminate"); err != nil {
		return err
	}

	l.worker.Stop()
	if err := l.store.Close(); err != nil {
		return fmt.Errorf("logkeep: terminate: %w", err)
	}
	l.logger.Debug("logger terminated immediately")
	return nil
}

// beginTerminate moves Initialized to Terminated.
func (l *Logger) beginTerminate(op string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.checkInitialized(op); err != nil {
		return err
	}
	l.state.Store(int32(stateTerminated))
	return nil
}

// Path returns the canonical path of the database file.
func (l *Logger) Path() (string, error) {
	if err := l.checkInitialized("path"); err != nil {
		return "", err
	}
	p, err := resolvePath(l.cfg.directory, l.cfg.name)
	if err != nil {
		return "", filesystemError("path", err)
	}
	return p, nil
}

// Name returns the database file name.
func (l *Logger) Name() string {
	return l.cfg.name
}

// Capacity returns the maximum number of retained records.
func (l *Logger) Capacity() int {
	return l.cfg.capacity
}

// MinSeverity returns the severity threshold.
func (l *Logger) MinSeverity() Severity {
	return l.cfg.minSeverity
}
