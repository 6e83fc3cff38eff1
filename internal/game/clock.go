package game

import (
	"sync"
	"time"
)

// Clock supplies frame timing. Tick returns the time since the previous Tick
// (or since Reset) and the total time since Reset.
type Clock interface {
	Tick() (delta, elapsed time.Duration)
	Reset()
}

// SystemClock reads the wall clock.
type SystemClock struct {
	now   func() time.Time
	start time.Time
	last  time.Time
}

// NewSystemClock creates a clock starting now.
func NewSystemClock() *SystemClock {
	c := &SystemClock{now: time.Now}
	c.Reset()
	return c
}

func (c *SystemClock) Tick() (delta, elapsed time.Duration) {
	now := c.now()
	delta = now.Sub(c.last)
	c.last = now
	return delta, now.Sub(c.start)
}

func (c *SystemClock) Reset() {
	c.start = c.now()
	c.last = c.start
}

// ManualClock advances only when told to. Each Tick moves time forward by
// Step plus whatever was queued with Advance. Safe for concurrent use.
type ManualClock struct {
	mu      sync.Mutex
	step    time.Duration
	pending time.Duration
	elapsed time.Duration
	resets  int
}

// NewManualClock creates a clock that advances by step on every Tick.
func NewManualClock(step time.Duration) *ManualClock {
	return &ManualClock{step: step}
}

// Advance queues d to be reported by the next Tick.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.pending += d
	c.mu.Unlock()
}

func (c *ManualClock) Tick() (delta, elapsed time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delta = c.step + c.pending
	c.pending = 0
	c.elapsed += delta
	return delta, c.elapsed
}

func (c *ManualClock) Reset() {
	c.mu.Lock()
	c.pending = 0
	c.elapsed = 0
	c.resets++
	c.mu.Unlock()
}

// Elapsed returns the time since the last Reset.
func (c *ManualClock) Elapsed() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.elapsed
}

// Resets returns how often Reset was called.
func (c *ManualClock) Resets() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resets
}
