// Package logkeep records application log events into a size-bounded
// SQLite database, off the calling goroutine.
//
// A Logger filters each call by severity, stamps it, and hands it to a
// single background worker that appends it in one transaction together
// with evicting everything beyond the newest Capacity rows. The outcome of
// every accepted write is reported once to the completion handler.
//
// Lifecycle:
//
//	l, err := logkeep.New(
//	    logkeep.WithDirectory(dir),
//	    logkeep.WithCapacity(1000),
//	    logkeep.WithCallbacks(nil, func(err error) { ... }),
//	)
//	if err != nil { ... }
//	if err := l.Initialize(); err != nil { ... }
//	l.Info("app", "started")
//	...
//	drained, err := l.TerminateGraceful(5 * time.Second)
//
// # Shutdown
//
// TerminateGraceful waits for queued writes up to a timeout and reports
// whether all of them ran. TerminateImmediate returns without waiting;
// queued writes are lost. Loss is never silent: dropped writes make
// TerminateGraceful return false, failed writes reach the handler.
//
// # Known limitation
//
// Delete runs on the caller's goroutine and is not ordered with writes
// still in the queue. A write queued before Delete may land after it.
package logkeep
