package testutil

import "sync"

// ManualClock is a thread-safe clock for tests that only moves when told to.
//
// It implements clock.Clock. Every NowMillis call advances the clock by
// Step (default 1) after reading, so records stamped in sequence get
// distinct, increasing timestamps.
type ManualClock struct {
	mu   sync.Mutex
	now  int64
	step int64
}

// NewManualClock creates a clock whose first reading is start.
func NewManualClock(start int64) *ManualClock {
	return &ManualClock{now: start, step: 1}
}

// NowMillis returns the current reading, then advances by the step.
func (c *ManualClock) NowMillis() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	v := c.now
	c.now += c.step
	return v
}

// Current returns the next reading without advancing.
func (c *ManualClock) Current() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// SetStep changes the auto-advance step. A step of 0 freezes the clock.
func (c *ManualClock) SetStep(step int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.step = step
}

// Set moves the clock to an absolute reading.
func (c *ManualClock) Set(now int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}
