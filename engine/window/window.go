package window

import (
	"fmt"
	"time"

	"github.com/Carmen-Shannon/oxy-frames/engine/event"
	"github.com/cogentcore/webgpu/wgpu"
)

// Window is the windowing collaborator of the frame loop: a fixed-size window bound to a GPU
// surface, and the event source the scheduler blocks on between frames.
type Window interface {
	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor suitable for creating a WebGPU surface.
	// The descriptor is platform-appropriate (Windows HWND, X11 Xlib, Wayland, macOS Metal, etc.)
	// and is created by the wgpuglfw bridge from the underlying GLFW window.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform-specific surface descriptor, or nil if window is not initialized
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// WaitEventsUntil blocks until at least one window event arrives or the deadline passes.
	// A deadline already in the past polls without blocking.
	//
	// Parameters:
	//   - deadline: the time the next frame is due
	//
	// Returns:
	//   - []event.Event: event.Close if a close was requested, event.Other for every other event,
	//     event.Tick when the deadline was reached; empty if woken early with nothing to report
	WaitEventsUntil(deadline time.Time) []event.Event

	// IsRunning returns true until a close has been requested.
	IsRunning() bool

	// Close destroys the window and releases platform resources.
	//
	// Returns:
	//   - error: error if the window was never initialized
	Close() error

	// Title returns the title shown in the title bar.
	Title() string

	// Width returns the framebuffer width in pixels.
	Width() int

	// Height returns the framebuffer height in pixels.
	Height() int
}

// engineWindow is the implementation of the Window interface.
type engineWindow struct {
	// title is the window title displayed in the title bar.
	title string

	// width is the current framebuffer width in pixels.
	width int

	// height is the current framebuffer height in pixels.
	height int

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	// pending collects events raised by platform callbacks during a wait.
	pending []event.Event
}

var _ Window = &engineWindow{}

// NewWindow creates and shows a window with the specified options.
// Applies default values first (title "test", 320x234), then each option in order.
// Panics if the platform window cannot be created.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the visible window
func NewWindow(options ...WindowBuilderOption) Window {
	w := &engineWindow{
		title:  DefaultTitle,
		width:  DefaultWidth,
		height: DefaultHeight,
	}
	for _, opt := range options {
		opt(w)
	}
	if err := newPlatformWindow(w); err != nil {
		panic(fmt.Sprintf("failed to create platform window: %v", err))
	}
	return w
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) WaitEventsUntil(deadline time.Time) []event.Event {
	w.pending = nil
	platformWaitEvents(w, time.Until(deadline))

	events := w.pending
	w.pending = nil
	return event.Collect(events, !platformIsRunningCheck(w), !time.Now().Before(deadline))
}

func (w *engineWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *engineWindow) Title() string {
	return w.title
}

func (w *engineWindow) Width() int {
	return w.width
}

func (w *engineWindow) Height() int {
	return w.height
}

// push records an event raised by a platform callback.
func (w *engineWindow) push(e event.Event) {
	w.pending = append(w.pending, e)
}
