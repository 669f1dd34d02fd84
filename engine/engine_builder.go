package engine

import (
	"github.com/Carmen-Shannon/oxy-frames/engine/profiler"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithProfiler replaces the default profiler.
//
// Parameters:
//   - p: the profiler ticked once per rendered frame
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiler(p *profiler.Profiler) EngineBuilderOption {
	return func(e *engine) {
		e.profiler = p
	}
}

// WithClock sets the clock that supplies frame deadlines.
//
// Parameters:
//   - c: the clock, usually the same *clock.Clock the frame pipeline reads animation time from
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithClock(c Clock) EngineBuilderOption {
	return func(e *engine) {
		e.clock = c
	}
}

// WithEventSource sets where the loop waits for window events, normally the window.Window.
//
// Parameters:
//   - src: the event source
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithEventSource(src EventSource) EngineBuilderOption {
	return func(e *engine) {
		e.events = src
	}
}

// WithPipeline sets the frame renderer invoked at every deadline.
//
// Parameters:
//   - r: the frame renderer, normally a frame.Pipeline
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithPipeline(r FrameRenderer) EngineBuilderOption {
	return func(e *engine) {
		e.renderer = r
	}
}

// WithSkipFailedFrames selects the failure policy for frame render errors.
// By default a failed frame terminates the loop and Run returns the error. When skip is true the
// error is logged and the loop keeps running.
//
// Parameters:
//   - skip: true to log and continue after a failed frame
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithSkipFailedFrames(skip bool) EngineBuilderOption {
	return func(e *engine) {
		e.skipFailedFrames = skip
	}
}
