package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-frames/engine/clock"
	"github.com/Carmen-Shannon/oxy-frames/engine/event"
	"github.com/Carmen-Shannon/oxy-frames/engine/profiler"
)

// fakeClock is a hand-stepped Clock.
type fakeClock struct {
	now     time.Time
	quantum time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(100, 0), quantum: clock.DefaultQuantum}
}

func (c *fakeClock) Now() time.Time                  { return c.now }
func (c *fakeClock) Quantum() time.Duration          { return c.quantum }
func (c *fakeClock) NextDeadline() time.Time         { return c.now.Add(c.quantum) }
func (c *fakeClock) Reached(deadline time.Time) bool { return !c.now.Before(deadline) }

// scriptedSource replays event batches. A batch containing EventTick moves the clock to the deadline.
// Once the script runs out it reports a close.
type scriptedSource struct {
	clock     *fakeClock
	script    [][]event.Event
	deadlines []time.Time
	nows      []time.Time
}

func (s *scriptedSource) WaitEventsUntil(deadline time.Time) []event.Event {
	s.deadlines = append(s.deadlines, deadline)
	s.nows = append(s.nows, s.clock.now)
	if len(s.script) == 0 {
		return []event.Event{event.Close}
	}
	batch := s.script[0]
	s.script = s.script[1:]
	for _, ev := range batch {
		if ev == event.Tick {
			s.clock.now = deadline
		}
	}
	return batch
}

type countingRenderer struct {
	calls  int
	failOn map[int]error
	onCall func(n int)
}

func (r *countingRenderer) RenderFrame() error {
	r.calls++
	if r.onCall != nil {
		r.onCall(r.calls)
	}
	return r.failOn[r.calls]
}

var (
	tickBatch  = []event.Event{event.Tick}
	otherBatch = []event.Event{event.Other}
	closeBatch = []event.Event{event.Close}
)

func TestRunEventSequences(t *testing.T) {
	tests := []struct {
		name       string
		script     [][]event.Event
		wantFrames uint64
		wantWaits  int
	}{
		{name: "close during first wait", script: [][]event.Event{closeBatch}, wantFrames: 1, wantWaits: 1},
		{name: "two ticks then close", script: [][]event.Event{tickBatch, tickBatch, closeBatch}, wantFrames: 3, wantWaits: 3},
		{name: "other events are ignored", script: [][]event.Event{otherBatch, otherBatch, tickBatch, closeBatch}, wantFrames: 2, wantWaits: 4},
		{name: "close wins over tick in one batch", script: [][]event.Event{{event.Tick, event.Close}}, wantFrames: 1, wantWaits: 1},
		{name: "close after other in one batch", script: [][]event.Event{{event.Other, event.Close}}, wantFrames: 1, wantWaits: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newFakeClock()
			src := &scriptedSource{clock: c, script: tt.script}
			r := &countingRenderer{}
			e := NewEngine(WithClock(c), WithEventSource(src), WithPipeline(r))

			if err := e.Run(); err != nil {
				t.Fatalf("Run: %v", err)
			}
			if e.State() != StateTerminated {
				t.Fatalf("state = %v, want terminated", e.State())
			}
			if e.Frames() != tt.wantFrames || uint64(r.calls) != tt.wantFrames {
				t.Fatalf("frames = %d (calls %d), want %d", e.Frames(), r.calls, tt.wantFrames)
			}
			if len(src.deadlines) != tt.wantWaits {
				t.Fatalf("waits = %d, want %d", len(src.deadlines), tt.wantWaits)
			}
		})
	}
}

func TestOtherEventsKeepTheDeadline(t *testing.T) {
	c := newFakeClock()
	src := &scriptedSource{clock: c, script: [][]event.Event{otherBatch, otherBatch, tickBatch, closeBatch}}
	e := NewEngine(WithClock(c), WithEventSource(src), WithPipeline(&countingRenderer{}))
	if err := e.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !src.deadlines[0].Equal(src.deadlines[1]) || !src.deadlines[1].Equal(src.deadlines[2]) {
		t.Fatalf("deadline changed while waiting: %v", src.deadlines[:3])
	}
	// After the tick the deadline is recomputed from the new now.
	if want := src.deadlines[2].Add(c.quantum); !src.deadlines[3].Equal(want) {
		t.Fatalf("next deadline = %v, want %v", src.deadlines[3], want)
	}
}

func TestDeadlineNeverBeforeNow(t *testing.T) {
	for _, q := range []time.Duration{0, time.Nanosecond, clock.DefaultQuantum, time.Second} {
		c := newFakeClock()
		c.quantum = q
		src := &scriptedSource{clock: c, script: [][]event.Event{tickBatch, tickBatch, tickBatch, closeBatch}}
		e := NewEngine(WithClock(c), WithEventSource(src), WithPipeline(&countingRenderer{}))
		if err := e.Run(); err != nil {
			t.Fatalf("quantum %v: Run: %v", q, err)
		}
		for i, d := range src.deadlines {
			if d.Before(src.nows[i]) {
				t.Fatalf("quantum %v: deadline %v before now %v", q, d, src.nows[i])
			}
		}
	}
}

func TestDeadlineReachedWithoutTickEvent(t *testing.T) {
	c := newFakeClock()
	waits := 0
	src := eventSourceFunc(func(deadline time.Time) []event.Event {
		waits++
		if waits > 2 {
			return closeBatch
		}
		// The platform woke up late with nothing to report.
		c.now = deadline.Add(time.Millisecond)
		return nil
	})
	r := &countingRenderer{}
	e := NewEngine(WithClock(c), WithEventSource(src), WithPipeline(r))
	if err := e.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if r.calls != 3 {
		t.Fatalf("calls = %d, want 3", r.calls)
	}
}

type eventSourceFunc func(deadline time.Time) []event.Event

func (f eventSourceFunc) WaitEventsUntil(deadline time.Time) []event.Event { return f(deadline) }

func TestRenderFailureIsFatalByDefault(t *testing.T) {
	boom := errors.New("draw failed")
	c := newFakeClock()
	src := &scriptedSource{clock: c, script: [][]event.Event{tickBatch, tickBatch, tickBatch}}
	r := &countingRenderer{failOn: map[int]error{2: boom}}
	e := NewEngine(WithClock(c), WithEventSource(src), WithPipeline(r))

	err := e.Run()
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped render error, got %v", err)
	}
	if e.State() != StateTerminated {
		t.Fatalf("state = %v, want terminated", e.State())
	}
	if r.calls != 2 || e.Frames() != 1 {
		t.Fatalf("calls = %d frames = %d, want 2 and 1", r.calls, e.Frames())
	}
	if err := e.Run(); !errors.Is(err, ErrTerminated) {
		t.Fatalf("second Run: expected ErrTerminated, got %v", err)
	}
}

func TestSkipFailedFrames(t *testing.T) {
	c := newFakeClock()
	src := &scriptedSource{clock: c, script: [][]event.Event{tickBatch, tickBatch, closeBatch}}
	r := &countingRenderer{failOn: map[int]error{2: errors.New("draw failed")}}
	e := NewEngine(WithClock(c), WithEventSource(src), WithPipeline(r), WithSkipFailedFrames(true))

	if err := e.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if r.calls != 3 || e.Frames() != 2 {
		t.Fatalf("calls = %d frames = %d, want 3 and 2", r.calls, e.Frames())
	}
}

func TestQuitStopsBeforeWaiting(t *testing.T) {
	c := newFakeClock()
	src := &scriptedSource{clock: c, script: [][]event.Event{tickBatch, tickBatch}}
	r := &countingRenderer{}
	e := NewEngine(WithClock(c), WithEventSource(src), WithPipeline(r))
	r.onCall = func(int) { e.Quit() }

	if err := e.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if r.calls != 1 || len(src.deadlines) != 0 {
		t.Fatalf("calls = %d waits = %d, want 1 and 0", r.calls, len(src.deadlines))
	}
}

func TestRunRequiresCollaborators(t *testing.T) {
	if err := NewEngine().Run(); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
	if got := NewEngine().State(); got != StateRunning {
		t.Fatalf("initial state = %v, want running", got)
	}
}

func TestProfilerCountsFrames(t *testing.T) {
	c := newFakeClock()
	late := eventSourceFunc(func(deadline time.Time) []event.Event {
		// Frame work overran by more than a whole quantum.
		c.now = deadline.Add(c.quantum + time.Millisecond)
		return tickBatch
	})
	waits := 0
	src := eventSourceFunc(func(deadline time.Time) []event.Event {
		waits++
		switch waits {
		case 1:
			c.now = deadline
			return tickBatch
		case 2:
			return late(deadline)
		default:
			return closeBatch
		}
	})
	p := profiler.NewProfiler(profiler.WithNow(c.Now))
	e := NewEngine(WithClock(c), WithEventSource(src), WithPipeline(&countingRenderer{}),
		WithProfiling(true), WithProfiler(p))
	if err := e.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if p.Frames() != 3 || p.LateFrames() != 1 {
		t.Fatalf("profiler frames = %d late = %d, want 3 and 1", p.Frames(), p.LateFrames())
	}
}

func TestStateObservedFromAnotherGoroutine(t *testing.T) {
	c := newFakeClock()
	src := eventSourceFunc(func(deadline time.Time) []event.Event {
		c.now = deadline
		return tickBatch
	})
	r := &countingRenderer{}
	e := NewEngine(WithClock(c), WithEventSource(src), WithPipeline(r))

	done := make(chan error, 1)
	go func() { done <- e.Run() }()

	for e.Frames() < 5 {
		if e.State() != StateRunning {
			t.Fatalf("state = %v before quit", e.State())
		}
		time.Sleep(time.Millisecond)
	}
	e.Quit()

	if err := <-done; err != nil {
		t.Fatalf("Run: %v", err)
	}
	if e.State() != StateTerminated {
		t.Fatalf("state = %v, want terminated", e.State())
	}
	if uint64(r.calls) != e.Frames() {
		t.Fatalf("calls = %d frames = %d", r.calls, e.Frames())
	}
}
