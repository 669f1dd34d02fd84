package frame

import (
	"github.com/Carmen-Shannon/oxy-frames/common"
	"github.com/Carmen-Shannon/oxy-frames/engine/renderer/pipeline"
)

// PipelineBuilderOption is a functional option used to configure a frame Pipeline during construction.
type PipelineBuilderOption func(*framePipeline)

// WithClearColor sets the color every frame is cleared to.
//
// Parameters:
//   - c: the clear color
//
// Returns:
//   - PipelineBuilderOption: a function that sets the clear color
func WithClearColor(c common.Color) PipelineBuilderOption {
	return func(p *framePipeline) {
		p.clear = c
	}
}

// WithBackgroundPass draws the stripe background over meshKey with the given pipeline.
// The pass writes opaquely.
//
// Parameters:
//   - pipelineKey: the registered background pipeline
//   - meshKey: the registered mesh, usually the full-screen quad
//
// Returns:
//   - PipelineBuilderOption: a function that configures the background slot
func WithBackgroundPass(pipelineKey, meshKey string) PipelineBuilderOption {
	return func(p *framePipeline) {
		p.slots[PassBackground] = &Pass{
			Kind:        PassBackground,
			PipelineKey: pipelineKey,
			MeshKey:     meshKey,
			Blend:       pipeline.BlendOpaque,
		}
	}
}

// WithTrianglePass draws meshKey rotated about Z by the elapsed seconds, opaquely.
func WithTrianglePass(pipelineKey, meshKey string) PipelineBuilderOption {
	return func(p *framePipeline) {
		p.slots[PassTriangle] = &Pass{
			Kind:        PassTriangle,
			PipelineKey: pipelineKey,
			MeshKey:     meshKey,
			Blend:       pipeline.BlendOpaque,
		}
	}
}

// WithForegroundPass draws meshKey textured with textureKey, sampled nearest-neighbor and
// composited source-over onto whatever the earlier passes produced.
//
// Parameters:
//   - pipelineKey: the registered foreground pipeline
//   - meshKey: the registered mesh
//   - textureKey: the registered texture bound to the "tex" uniform
//
// Returns:
//   - PipelineBuilderOption: a function that configures the foreground slot
func WithForegroundPass(pipelineKey, meshKey, textureKey string) PipelineBuilderOption {
	return func(p *framePipeline) {
		p.slots[PassForeground] = &Pass{
			Kind:        PassForeground,
			PipelineKey: pipelineKey,
			MeshKey:     meshKey,
			Blend:       pipeline.BlendAlpha,
			Texture:     textureKey,
		}
	}
}

// WithPassBlend overrides the blend mode of an already configured slot. Options apply in
// order, so it must follow the option that configured the slot.
//
// Parameters:
//   - kind: the slot to change
//   - mode: the new blend mode
//
// Returns:
//   - PipelineBuilderOption: a function that sets the blend mode of the slot
func WithPassBlend(kind PassKind, mode pipeline.BlendMode) PipelineBuilderOption {
	return func(p *framePipeline) {
		if kind < 0 || int(kind) >= len(p.slots) || p.slots[kind] == nil {
			return
		}
		p.slots[kind].Blend = mode
	}
}
