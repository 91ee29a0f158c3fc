package clock

import (
	"sync"
	"time"
)

// Clock abstracts the time source so stored timestamps are deterministic in tests.
type Clock interface {
	Now() time.Time
}

// Real returns a Clock backed by the standard time package, truncated to
// microseconds to match Postgres timestamp precision.
func Real() Clock { return realClock{} }

type realClock struct{}

func (realClock) Now() time.Time { return time.Now().UTC().Truncate(time.Microsecond) }

// Fake returns a FakeClock initialized to the given time. Time stands
// still until Advance is called.
func Fake(initial time.Time) *FakeClock {
	return &FakeClock{current: initial}
}

// FakeClock is a deterministic Clock for testing. It is safe for concurrent use.
type FakeClock struct {
	mu      sync.Mutex
	current time.Time
	step    time.Duration
}

// Now returns the current fake time and then moves it forward by the
// configured auto-step, if any.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.current
	c.current = c.current.Add(c.step)
	return now
}

// Advance moves the clock forward by d.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = c.current.Add(d)
}

// AutoStep makes every Now call advance the clock by d afterwards.
func (c *FakeClock) AutoStep(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.step = d
}
