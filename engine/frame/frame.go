// Package frame produces one presented frame at a time: it clears a frame target, computes the
// per-frame uniform values, issues the configured draw passes in a fixed order and presents.
// The GPU renderer and the CPU SoftwareSurface both implement the Surface it draws into.
package frame

import (
	"errors"

	"github.com/Carmen-Shannon/oxy-frames/common"
	"github.com/Carmen-Shannon/oxy-frames/engine/renderer/pipeline"
)

// Uniform names shared by the WGSL programs and the UniformSets built each frame.
const (
	UniformHeight  = "height"
	UniformTime    = "time"
	UniformMatrix  = "matrix"
	UniformTexture = "tex"
)

var (
	// ErrTargetFinalized is returned when a target is drawn to or presented after it was
	// presented or released.
	ErrTargetFinalized = errors.New("frame: target already finalized")

	// ErrUnknownPipeline is returned by a target asked to draw with an unregistered pipeline key.
	ErrUnknownPipeline = errors.New("frame: unknown pipeline")

	// ErrUnknownMesh is returned by a target asked to draw an unregistered mesh key.
	ErrUnknownMesh = errors.New("frame: unknown mesh")

	// ErrUnknownTexture is returned when a Sampled uniform names an unregistered texture.
	ErrUnknownTexture = errors.New("frame: unknown texture")
)

// Filter selects the texture magnification policy.
type Filter int

const (
	// FilterNearest returns the closest texel with no interpolation.
	FilterNearest Filter = iota
	// FilterLinear interpolates between neighboring texels.
	FilterLinear
)

// Sampled is the value of a texture uniform: which texture to bind and how to filter it.
type Sampled struct {
	Texture   string
	MagFilter Filter
}

// UniformSet maps uniform names to values for one draw. Supported value types are
// uint32, float32, f32.Mat4 and Sampled.
type UniformSet map[string]any

// DrawCall is one pass: a registered pipeline drawing a registered mesh with the given uniforms.
type DrawCall struct {
	PipelineKey string
	MeshKey     string
	Blend       pipeline.BlendMode
	Uniforms    UniformSet
}

// Target is the frame being rendered. It must be finalized exactly once, by Present or Release.
type Target interface {
	// Size returns the target's dimensions in pixels.
	Size() (width, height uint32)

	// Clear sets the color every pixel starts the frame with.
	Clear(c common.Color)

	// Draw records one pass against the target.
	//
	// Parameters:
	//   - dc: the pipeline, mesh, blend mode and uniform values of the pass
	//
	// Returns:
	//   - error: ErrTargetFinalized after Present/Release, or a lookup/GPU error
	Draw(dc DrawCall) error

	// Present finalizes the target and makes the frame visible.
	Present() error

	// Release finalizes the target without presenting it. It is a no-op on a finalized target.
	Release()
}

// Surface hands out one Target per frame.
type Surface interface {
	BeginFrame() (Target, error)
}

// Clock is the time source the pipeline reads animation time from.
type Clock interface {
	ElapsedSeconds() float32
}
