package clock

import (
	"errors"
	"time"
)

// DefaultQuantum is the fixed frame interval: 1/60 s rounded to the nanosecond.
const DefaultQuantum = 16_666_667 * time.Nanosecond

// ErrClockSkew is the panic value raised when the clock reports a time before the start timestamp.
var ErrClockSkew = errors.New("clock: current time is before the start timestamp")

// Clock tracks a fixed start timestamp and derives animation time and frame deadlines from it.
// The start timestamp is captured once in NewClock and never reset.
type Clock struct {
	now     func() time.Time
	start   time.Time
	quantum time.Duration
}

// NewClock creates a Clock and captures its start timestamp.
// Options are applied before the start timestamp is read, so WithNow affects it.
//
// Parameters:
//   - options: functional options for clock configuration
//
// Returns:
//   - *Clock: the clock, started
func NewClock(options ...ClockBuilderOption) *Clock {
	c := &Clock{
		now:     time.Now,
		quantum: DefaultQuantum,
	}
	for _, opt := range options {
		opt(c)
	}
	c.start = c.now()
	return c
}

// Now returns the clock's current time.
func (c *Clock) Now() time.Time {
	return c.now()
}

// Quantum returns the fixed interval between frame deadlines.
func (c *Clock) Quantum() time.Duration {
	return c.quantum
}

// Elapsed returns the time since the start timestamp.
// A current time before the start timestamp is a broken precondition and panics with ErrClockSkew.
//
// Returns:
//   - time.Duration: now - start
func (c *Clock) Elapsed() time.Duration {
	d := c.now().Sub(c.start)
	if d < 0 {
		panic(ErrClockSkew)
	}
	return d
}

// ElapsedSeconds returns Elapsed as fractional seconds, the value fed to the background shader's time uniform.
//
// Returns:
//   - float32: seconds since start
func (c *Clock) ElapsedSeconds() float32 {
	return float32(c.Elapsed().Seconds())
}

// NextDeadline returns the next frame deadline, one quantum after the current time.
// The deadline is recomputed from now on every call rather than accumulated, so it is never
// earlier than the time it was computed from.
//
// Returns:
//   - time.Time: now + quantum
func (c *Clock) NextDeadline() time.Time {
	return c.now().Add(c.quantum)
}

// Until returns how long to wait for deadline, clamped at zero when the deadline has passed.
//
// Parameters:
//   - deadline: the frame deadline
//
// Returns:
//   - time.Duration: deadline - now, or 0 if that is negative
func (c *Clock) Until(deadline time.Time) time.Duration {
	if d := deadline.Sub(c.now()); d > 0 {
		return d
	}
	return 0
}

// Reached reports whether deadline is at or before the current time.
func (c *Clock) Reached(deadline time.Time) bool {
	return !c.now().Before(deadline)
}
