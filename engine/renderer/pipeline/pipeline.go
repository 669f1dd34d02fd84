package pipeline

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-frames/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// BlendMode selects how a pass's fragments combine with the color already in the target.
type BlendMode int

const (
	// BlendOpaque overwrites the destination with the fragment color.
	BlendOpaque BlendMode = iota

	// BlendAlpha composites the fragment over the destination (source-over):
	// rgb = src*a + dst*(1-a), alpha = a + dst.a*(1-a).
	BlendAlpha
)

// ErrUnknownBlendMode is returned by ParseBlendMode for names other than "opaque" and "alpha".
var ErrUnknownBlendMode = errors.New("pipeline: unknown blend mode")

// ParseBlendMode converts a configuration name into a BlendMode.
//
// Parameters:
//   - name: "opaque" or "alpha"
//
// Returns:
//   - BlendMode: the parsed mode
//   - error: ErrUnknownBlendMode for any other name
func ParseBlendMode(name string) (BlendMode, error) {
	switch name {
	case "opaque":
		return BlendOpaque, nil
	case "alpha":
		return BlendAlpha, nil
	default:
		return BlendOpaque, fmt.Errorf("%w: %q", ErrUnknownBlendMode, name)
	}
}

func (m BlendMode) String() string {
	switch m {
	case BlendOpaque:
		return "opaque"
	case BlendAlpha:
		return "alpha"
	default:
		return fmt.Sprintf("BlendMode(%d)", int(m))
	}
}

// BlendState returns the wgpu blend state for the mode. Opaque returns nil, which
// disables blending on the color target.
func (m BlendMode) BlendState() *wgpu.BlendState {
	if m != BlendAlpha {
		return nil
	}
	return &wgpu.BlendState{
		Color: wgpu.BlendComponent{
			SrcFactor: wgpu.BlendFactorSrcAlpha,
			DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
			Operation: wgpu.BlendOperationAdd,
		},
		Alpha: wgpu.BlendComponent{
			SrcFactor: wgpu.BlendFactorOne,
			DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
			Operation: wgpu.BlendOperationAdd,
		},
	}
}

// pipeline is the implementation of the Pipeline interface.
type pipeline struct {
	// pipelineKey is the unique identifier for this pipeline, used for caching and lookups
	pipelineKey string

	vertexShader, fragmentShader shader.Shader

	// renderPipeline is set by the renderer once the GPU object exists
	renderPipeline *wgpu.RenderPipeline

	blend     BlendMode
	cullMode  wgpu.CullMode
	topology  wgpu.PrimitiveTopology
	frontFace wgpu.FrontFace
	writeMask wgpu.ColorWriteMask
}

// Pipeline is a render program: a vertex and fragment shader pair together with the fixed
// function state (blend mode, topology, culling) the renderer builds a wgpu.RenderPipeline from.
type Pipeline interface {
	// PipelineKey returns the unique key associated with this pipeline, used for caching and lookups.
	//
	// Returns:
	//   - string: the unique key for this pipeline
	PipelineKey() string

	// Shader retrieves the shader for the given stage, nil if not set.
	//
	// Parameters:
	//   - shaderType: the stage of the shader to retrieve
	//
	// Returns:
	//   - shader.Shader: the shader for that stage
	Shader(shaderType shader.ShaderType) shader.Shader

	// RenderPipeline returns the GPU pipeline, nil until the renderer registers this pipeline.
	RenderPipeline() *wgpu.RenderPipeline

	// Blend returns the blend mode of the color target.
	Blend() BlendMode

	// BlendState returns the wgpu blend state derived from Blend, nil when opaque.
	BlendState() *wgpu.BlendState

	// CullMode returns the cull mode configured for this pipeline.
	CullMode() wgpu.CullMode

	// Topology returns the primitive topology configured for this pipeline.
	Topology() wgpu.PrimitiveTopology

	// FrontFace returns the front face winding order configured for this pipeline.
	FrontFace() wgpu.FrontFace

	// WriteMask returns the color write mask configured for this pipeline.
	WriteMask() wgpu.ColorWriteMask

	// UniformNames lists every uniform the vertex and fragment shaders declare, vertex first.
	//
	// Returns:
	//   - []string: uniform struct member names and sampled texture names
	UniformNames() []string

	// SetRenderPipeline sets the render pipeline
	//
	// Parameters:
	//   - p: the WebGPU render pipeline to set
	SetRenderPipeline(p *wgpu.RenderPipeline)
}

var _ Pipeline = &pipeline{}

// NewPipeline creates a Pipeline. Defaults: opaque, triangle list, no culling, CCW front face,
// all color channels written.
//
// Parameters:
//   - pipelineKey: the unique key for this pipeline
//   - opts: a variadic list of PipelineBuilderOption functions to configure the pipeline
//
// Returns:
//   - Pipeline: a new Pipeline instance with the specified configuration
func NewPipeline(pipelineKey string, opts ...PipelineBuilderOption) Pipeline {
	p := &pipeline{
		pipelineKey: pipelineKey,
		blend:       BlendOpaque,
		cullMode:    wgpu.CullModeNone,
		topology:    wgpu.PrimitiveTopologyTriangleList,
		frontFace:   wgpu.FrontFaceCCW,
		writeMask:   wgpu.ColorWriteMaskAll,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *pipeline) PipelineKey() string {
	return p.pipelineKey
}

func (p *pipeline) RenderPipeline() *wgpu.RenderPipeline {
	return p.renderPipeline
}

func (p *pipeline) Blend() BlendMode {
	return p.blend
}

func (p *pipeline) BlendState() *wgpu.BlendState {
	return p.blend.BlendState()
}

func (p *pipeline) CullMode() wgpu.CullMode {
	return p.cullMode
}

func (p *pipeline) Topology() wgpu.PrimitiveTopology {
	return p.topology
}

func (p *pipeline) FrontFace() wgpu.FrontFace {
	return p.frontFace
}

func (p *pipeline) WriteMask() wgpu.ColorWriteMask {
	return p.writeMask
}

func (p *pipeline) Shader(shaderType shader.ShaderType) shader.Shader {
	switch shaderType {
	case shader.ShaderTypeVertex:
		return p.vertexShader
	case shader.ShaderTypeFragment:
		return p.fragmentShader
	default:
		return nil
	}
}

func (p *pipeline) UniformNames() []string {
	var names []string
	for _, s := range []shader.Shader{p.vertexShader, p.fragmentShader} {
		if s != nil {
			names = append(names, s.UniformNames()...)
		}
	}
	return names
}

func (p *pipeline) SetRenderPipeline(rp *wgpu.RenderPipeline) {
	p.renderPipeline = rp
}
