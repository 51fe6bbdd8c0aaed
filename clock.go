package heartfall

import "time"

// Clock is a monotonic time source. Readings are durations since an
// arbitrary fixed origin and are unaffected by wall-clock adjustments.
type Clock interface {
	Now() time.Duration
}

// MonotonicClock reads Go's monotonic clock relative to its creation.
type MonotonicClock struct {
	origin time.Time
}

// NewMonotonicClock returns a clock whose origin is the current instant.
func NewMonotonicClock() *MonotonicClock {
	return &MonotonicClock{origin: time.Now()}
}

// Now returns the time elapsed since the clock was created.
func (c *MonotonicClock) Now() time.Duration {
	return time.Since(c.origin)
}

// ManualClock is a Clock advanced explicitly by the caller. Useful for
// deterministic playback and tests.
type ManualClock struct {
	now time.Duration
}

// Now returns the current manual time.
func (c *ManualClock) Now() time.Duration {
	return c.now
}

// Set moves the clock to t.
func (c *ManualClock) Set(t time.Duration) {
	c.now = t
}

// Advance moves the clock forward by d.
func (c *ManualClock) Advance(d time.Duration) {
	c.now += d
}
