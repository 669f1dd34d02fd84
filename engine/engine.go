package engine

import (
	"errors"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/oxy-frames/engine/clock"
	"github.com/Carmen-Shannon/oxy-frames/engine/event"
	"github.com/Carmen-Shannon/oxy-frames/engine/profiler"
)

// ErrNotConfigured is returned by Run when no event source or frame renderer was provided.
var ErrNotConfigured = errors.New("engine: event source and frame renderer are required")

// ErrTerminated is returned by Run on an engine that already stopped.
var ErrTerminated = errors.New("engine: already terminated")

// State is the scheduler's lifecycle state.
type State int

const (
	// StateRunning renders a frame at every deadline.
	StateRunning State = iota
	// StateTerminated renders nothing more. It is final.
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateTerminated:
		return "terminated"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// EventSource blocks until window events are available or a deadline passes.
// window.Window implements it.
type EventSource interface {
	// WaitEventsUntil returns the events that arrived before deadline. It returns immediately when
	// the deadline has already passed.
	WaitEventsUntil(deadline time.Time) []event.Event
}

// FrameRenderer renders and presents one frame. frame.Pipeline implements it.
type FrameRenderer interface {
	RenderFrame() error
}

// Clock supplies the current time and frame deadlines. *clock.Clock implements it.
type Clock interface {
	Now() time.Time
	Quantum() time.Duration
	NextDeadline() time.Time
	Reached(deadline time.Time) bool
}

// engine implements the Engine interface.
// The loop runs on the goroutine that calls Run. State, Frames and Quit may be called from any goroutine.
type engine struct {
	clock    Clock
	events   EventSource
	renderer FrameRenderer

	state  atomic.Int32
	frames atomic.Uint64
	quit   atomic.Bool

	profiler         *profiler.Profiler
	profilingEnabled bool

	skipFailedFrames bool
}

// Engine is the frame scheduler. It renders a frame, waits until the next deadline, and repeats until
// the window asks to close.
type Engine interface {
	// Run renders the first frame and then one frame per deadline until a close event arrives.
	// It blocks for the whole life of the loop.
	//
	// Returns:
	//   - error: nil after a close, the render error when a frame fails and failed frames are not skipped
	Run() error

	// State returns the current lifecycle state. Safe to call from other goroutines.
	State() State

	// Frames returns the number of frames rendered successfully. Safe to call from other goroutines.
	Frames() uint64

	// Quit asks the loop to terminate at its next wait, as if the window had been closed.
	// Safe to call multiple times and from other goroutines.
	Quit()

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()
}

// NewEngine creates a new Engine in StateRunning.
// The clock defaults to a fresh clock.NewClock with the 60 Hz quantum.
//
// Parameters:
//   - options: functional options for engine configuration (event source, renderer, profiling, etc.)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		profiler: profiler.NewProfiler(),
	}
	e.state.Store(int32(StateRunning))

	for _, opt := range options {
		opt(e)
	}

	if e.clock == nil {
		e.clock = clock.NewClock()
	}

	return e
}

func (e *engine) Run() error {
	if e.events == nil || e.renderer == nil {
		return ErrNotConfigured
	}
	if e.State() == StateTerminated {
		return ErrTerminated
	}

	log.Printf("[Scheduler] running, frame quantum %v", e.clock.Quantum())

	// The first frame is rendered on entry, before any wait.
	if err := e.renderFrame(time.Time{}); err != nil {
		return err
	}

	for {
		deadline := e.clock.NextDeadline()
		if !e.wait(deadline) {
			e.terminate()
			return nil
		}
		if err := e.renderFrame(deadline); err != nil {
			return err
		}
	}
}

// wait blocks until deadline or a close request. Events other than close and tick are consumed and
// the wait resumes with the same deadline.
//
// Parameters:
//   - deadline: the time the next frame is due
//
// Returns:
//   - bool: true when the next frame should render, false when the loop must terminate
func (e *engine) wait(deadline time.Time) bool {
	for {
		if e.quit.Load() {
			return false
		}

		tick := false
		for _, ev := range e.events.WaitEventsUntil(deadline) {
			switch ev {
			case event.Close:
				return false
			case event.Tick:
				tick = true
			}
		}

		if e.quit.Load() {
			return false
		}
		if tick || e.clock.Reached(deadline) {
			return true
		}
	}
}

// renderFrame renders one frame and applies the failure policy.
//
// Parameters:
//   - deadline: the deadline the frame was scheduled for, zero for the first frame
//
// Returns:
//   - error: the wrapped render error when it is fatal, otherwise nil
func (e *engine) renderFrame(deadline time.Time) error {
	err := e.renderer.RenderFrame()
	if err != nil {
		if !e.skipFailedFrames {
			e.terminate()
			return fmt.Errorf("frame %d: %w", e.frames.Load()+1, err)
		}
		log.Printf("[Scheduler] frame %d failed, skipping: %v", e.frames.Load()+1, err)
		return nil
	}

	e.frames.Add(1)
	if e.profilingEnabled && e.profiler != nil {
		// A frame is late when it finished after the following deadline would have been due.
		late := !deadline.IsZero() && e.clock.Now().After(deadline.Add(e.clock.Quantum()))
		e.profiler.Tick(late)
	}
	return nil
}

func (e *engine) terminate() {
	if !e.state.CompareAndSwap(int32(StateRunning), int32(StateTerminated)) {
		return
	}
	log.Printf("[Scheduler] terminated after %d frames", e.frames.Load())
}

func (e *engine) State() State {
	return State(e.state.Load())
}

func (e *engine) Frames() uint64 {
	return e.frames.Load()
}

func (e *engine) Quit() {
	e.quit.Store(true)
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}
