package frame

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-frames/common"
	"github.com/Carmen-Shannon/oxy-frames/engine/renderer/pipeline"
)

// PassKind identifies one of the fixed draw slots of a frame.
type PassKind int

const (
	// PassBackground draws the animated stripes.
	PassBackground PassKind = iota
	// PassTriangle draws the rotating triangle.
	PassTriangle
	// PassForeground draws the textured quad.
	PassForeground
)

func (k PassKind) String() string {
	switch k {
	case PassBackground:
		return "background"
	case PassTriangle:
		return "triangle"
	case PassForeground:
		return "foreground"
	default:
		return fmt.Sprintf("PassKind(%d)", int(k))
	}
}

// UniformNames lists the uniforms the pipeline sends for a pass of this kind.
func (k PassKind) UniformNames() []string {
	switch k {
	case PassBackground:
		return []string{UniformHeight, UniformTime}
	case PassTriangle:
		return []string{UniformMatrix}
	case PassForeground:
		return []string{UniformTexture}
	default:
		return nil
	}
}

// Pass configures one draw slot.
type Pass struct {
	Kind        PassKind
	PipelineKey string
	MeshKey     string
	Blend       pipeline.BlendMode
	// Texture is the texture key sampled by a foreground pass.
	Texture string
}

// framePipeline is the implementation of the Pipeline interface.
type framePipeline struct {
	surface Surface
	clock   Clock
	clear   common.Color

	// slots hold the configured passes in draw order, nil when the slot is unused.
	slots [3]*Pass
}

// Pipeline renders frames.
type Pipeline interface {
	// RenderFrame acquires a target, clears it, draws the configured passes in order
	// (background, triangle, foreground) and presents. The target is released on every
	// error path.
	//
	// Returns:
	//   - error: the first failure, wrapped with the step it happened in
	RenderFrame() error

	// ClearColor returns the color every frame starts from.
	ClearColor() common.Color

	// Passes returns the configured passes in draw order.
	Passes() []Pass
}

var _ Pipeline = &framePipeline{}

// NewPipeline creates a frame pipeline drawing into surface with animation time from clock.
// With no pass options every frame is only the clear color.
//
// Parameters:
//   - surface: where frames are drawn
//   - clock: the animation time source
//   - opts: a variadic list of PipelineBuilderOption functions
//
// Returns:
//   - Pipeline: the configured frame pipeline
func NewPipeline(surface Surface, clock Clock, opts ...PipelineBuilderOption) Pipeline {
	p := &framePipeline{
		surface: surface,
		clock:   clock,
		clear:   common.Color{A: 1},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *framePipeline) ClearColor() common.Color {
	return p.clear
}

func (p *framePipeline) Passes() []Pass {
	var passes []Pass
	for _, s := range p.slots {
		if s != nil {
			passes = append(passes, *s)
		}
	}
	return passes
}

func (p *framePipeline) RenderFrame() error {
	target, err := p.surface.BeginFrame()
	if err != nil {
		return fmt.Errorf("frame: begin frame: %w", err)
	}
	defer target.Release()

	target.Clear(p.clear)

	_, height := target.Size()
	elapsed := p.clock.ElapsedSeconds()

	for _, pass := range p.slots {
		if pass == nil {
			continue
		}
		dc := DrawCall{
			PipelineKey: pass.PipelineKey,
			MeshKey:     pass.MeshKey,
			Blend:       pass.Blend,
			Uniforms:    pass.uniforms(height, elapsed),
		}
		if err := target.Draw(dc); err != nil {
			return fmt.Errorf("frame: %s pass: %w", pass.Kind, err)
		}
	}

	if err := target.Present(); err != nil {
		return fmt.Errorf("frame: present: %w", err)
	}
	return nil
}

// uniforms builds the UniformSet of a pass for the current frame.
func (pass *Pass) uniforms(height uint32, elapsed float32) UniformSet {
	switch pass.Kind {
	case PassBackground:
		return UniformSet{
			UniformHeight: height,
			UniformTime:   elapsed,
		}
	case PassTriangle:
		return UniformSet{
			UniformMatrix: common.RotationZ(elapsed),
		}
	case PassForeground:
		return UniformSet{
			UniformTexture: Sampled{Texture: pass.Texture, MagFilter: FilterNearest},
		}
	default:
		return UniformSet{}
	}
}
