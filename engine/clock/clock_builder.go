package clock

import "time"

// ClockBuilderOption is a functional option for configuring a Clock.
type ClockBuilderOption func(c *Clock)

// WithNow replaces the time source. Tests use it to drive the clock deterministically.
//
// Parameters:
//   - now: the function returning the current time
//
// Returns:
//   - ClockBuilderOption: option function to apply
func WithNow(now func() time.Time) ClockBuilderOption {
	return func(c *Clock) {
		if now != nil {
			c.now = now
		}
	}
}

// WithQuantum sets the interval between frame deadlines.
// Negative values are clamped to zero so a deadline is never earlier than the time it is computed from.
//
// Parameters:
//   - q: the frame interval
//
// Returns:
//   - ClockBuilderOption: option function to apply
func WithQuantum(q time.Duration) ClockBuilderOption {
	return func(c *Clock) {
		if q < 0 {
			q = 0
		}
		c.quantum = q
	}
}
