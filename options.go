package logkeep

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/roach88/logkeep/internal/clock"
)

// Defaults applied by New.
const (
	DefaultName        = "log.db"
	DefaultCapacity    = 500
	DefaultMinSeverity = SeverityInfo
)

// Result is the outcome of one accepted Log call. A nil Err means the
// record was committed; otherwise Err is a write failure (*Error with
// KindWriteFailure).
type Result struct {
	TaskID string
	Err    error
}

// OK reports whether the write succeeded.
func (r Result) OK() bool {
	return r.Err == nil
}

// CompletionHandler receives the Result of each accepted write, once, on
// the worker goroutine.
type CompletionHandler func(Result)

// Callbacks builds a CompletionHandler from a success/failure pair.
// Either may be nil.
func Callbacks(onSuccess func(), onFailure func(error)) CompletionHandler {
	return func(r Result) {
		if r.OK() {
			if onSuccess != nil {
				onSuccess()
			}
			return
		}
		if onFailure != nil {
			onFailure(r.Err)
		}
	}
}

type config struct {
	directory            string
	name                 string
	capacity             int
	minSeverity          Severity
	debug                bool
	destructiveMigration bool
	onComplete           CompletionHandler
	logger               *slog.Logger
	registerer           prometheus.Registerer
	clock                clock.Clock
}

// Option configures a Logger. Options are applied once by New; the
// resulting configuration never changes.
type Option func(*config)

// WithDirectory sets the directory holding the database file.
// Defaults to "logkeep" under the user cache directory.
func WithDirectory(dir string) Option {
	return func(c *config) {
		c.directory = dir
	}
}

// WithName sets the database file name. Default is DefaultName.
func WithName(name string) Option {
	return func(c *config) {
		c.name = name
	}
}

// WithCapacity sets the maximum number of retained records.
// Default is DefaultCapacity. 0 keeps nothing but still runs every write.
func WithCapacity(n int) Option {
	return func(c *config) {
		c.capacity = n
	}
}

// WithMinSeverity drops calls below s. Default is DefaultMinSeverity.
func WithMinSeverity(s Severity) Option {
	return func(c *config) {
		c.minSeverity = s
	}
}

// WithDebug enables the library's own diagnostic logging (never stored).
func WithDebug(debug bool) Option {
	return func(c *config) {
		c.debug = debug
	}
}

// WithCompletion sets the handler called after every accepted write.
func WithCompletion(h CompletionHandler) Option {
	return func(c *config) {
		c.onComplete = h
	}
}

// WithCallbacks is WithCompletion(Callbacks(onSuccess, onFailure)).
func WithCallbacks(onSuccess func(), onFailure func(error)) Option {
	return WithCompletion(Callbacks(onSuccess, onFailure))
}

// WithSlog sets the logger used for diagnostics when debug is enabled.
// Defaults to slog.Default().
func WithSlog(l *slog.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// WithRegisterer exports write metrics to r.
func WithRegisterer(r prometheus.Registerer) Option {
	return func(c *config) {
		c.registerer = r
	}
}

// WithClock overrides the timestamp source (epoch milliseconds).
func WithClock(now func() int64) Option {
	return func(c *config) {
		if now != nil {
			c.clock = clock.Func(now)
		}
	}
}

// WithDestructiveMigration lets schema upgrades drop and recreate the
// log table. Without it, upgrades alter the table in place.
func WithDestructiveMigration() Option {
	return func(c *config) {
		c.destructiveMigration = true
	}
}
