package event

import (
	"fmt"
	"slices"
)

// Event is one item reported by a window wait.
type Event int

const (
	// Close means the user asked to close the window.
	Close Event = iota
	// Tick means the wait deadline was reached.
	Tick
	// Other is any other window or input event. The frame loop ignores it.
	Other
)

func (e Event) String() string {
	switch e {
	case Close:
		return "close"
	case Tick:
		return "tick"
	case Other:
		return "other"
	default:
		return fmt.Sprintf("Event(%d)", int(e))
	}
}

// Collect finishes a batch of callback events: a close request observed through the window state is
// reported once, and a reached deadline adds a trailing tick.
//
// Parameters:
//   - events: the events raised by platform callbacks during the wait
//   - closeRequested: whether the window reports a pending close
//   - deadlineReached: whether the wait deadline has passed
//
// Returns:
//   - []Event: the batch handed to the frame loop
func Collect(events []Event, closeRequested, deadlineReached bool) []Event {
	if closeRequested && !slices.Contains(events, Close) {
		events = append(events, Close)
	}
	if deadlineReached {
		events = append(events, Tick)
	}
	return events
}
