// Package clock supplies producer-side timestamps for log records.
package clock

import "time"

// Clock returns the current wall-clock time in epoch milliseconds.
//
// Implemented by System (production) and testutil.ManualClock (tests).
// Implementations must be safe for concurrent use, since every producer
// goroutine stamps its own records.
type Clock interface {
	NowMillis() int64
}

// System reads time.Now.
type System struct{}

// NowMillis implements Clock.
func (System) NowMillis() int64 {
	return time.Now().UnixMilli()
}

// Func adapts a plain function to Clock.
type Func func() int64

// NowMillis implements Clock.
func (f Func) NowMillis() int64 {
	return f()
}
