package shader

import (
	"errors"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// ShaderType identifies the pipeline stage a shader module is compiled for.
type ShaderType int

const (
	// ShaderTypeVertex is the vertex shader type, used for vertex processing in render pipelines.
	ShaderTypeVertex ShaderType = iota

	// ShaderTypeFragment is the fragment shader type, used for fragment processing in pair with a vertex shader.
	ShaderTypeFragment
)

// ErrNoEntryPoint is returned when the source has no entry point for the requested stage.
var ErrNoEntryPoint = errors.New("shader: no entry point for shader type")

// SamplerSuffix is appended to a texture variable name to find the sampler paired with it,
// e.g. "tex" is sampled through "tex_sampler".
const SamplerSuffix = "_sampler"

// shader is the implementation of the Shader interface.
type shader struct {
	key           string
	source        string
	shaderType    ShaderType
	entryPoint    string
	bindings      []Binding
	vertexLayouts []wgpu.VertexBufferLayout
	module        *wgpu.ShaderModuleDescriptor
}

// Shader is a parsed WGSL module. It exposes the entry point, vertex buffer layouts and the
// resource bindings the renderer needs to build pipelines and to place uniform values.
type Shader interface {
	// Key retrieves the unique identifier for this shader, used for caching and lookups.
	Key() string

	// Source retrieves the WGSL shader source code.
	Source() string

	// ShaderType returns the stage the shader was parsed for.
	ShaderType() ShaderType

	// EntryPoint returns the entry point name for this shader.
	//
	// Returns:
	//   - string: the entry point name (e.g. "vs_main")
	EntryPoint() string

	// VertexLayouts retrieves the vertex buffer layouts, one per vertex input struct.
	// Fragment shaders return nil.
	VertexLayouts() []wgpu.VertexBufferLayout

	// Bindings returns every declared resource sorted by group and binding.
	Bindings() []Binding

	// Binding looks up a declared resource by variable name.
	//
	// Parameters:
	//   - name: the WGSL variable name
	//
	// Returns:
	//   - Binding: the resource
	//   - bool: false if no resource has that name
	Binding(name string) (Binding, bool)

	// BindGroupLayoutDescriptors retrieves the layout descriptors for every group, keyed by
	// group index. The renderer merges vertex and fragment descriptors into pipeline layouts.
	BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor

	// UniformNames lists the names a draw may supply values for: every member of a uniform
	// struct plus every sampled texture variable.
	UniformNames() []string

	// Module returns the wgpu.ShaderModuleDescriptor built from the source.
	Module() *wgpu.ShaderModuleDescriptor
}

var _ Shader = &shader{}

// NewShader parses WGSL source for the given stage.
//
// Parameters:
//   - key: a unique identifier for the shader, used for caching and lookups
//   - shaderType: the stage the source is compiled for
//   - source: the WGSL source code
//
// Returns:
//   - Shader: the parsed shader
//   - error: ErrNoEntryPoint if the source has no entry point for shaderType
func NewShader(key string, shaderType ShaderType, source string) (Shader, error) {
	s := &shader{
		key:        key,
		source:     source,
		shaderType: shaderType,
	}
	s.entryPoint = parseEntryPoint(source, shaderType)
	if s.entryPoint == "" {
		return nil, fmt.Errorf("%w: %s", ErrNoEntryPoint, key)
	}

	visibility := wgpu.ShaderStageFragment
	if shaderType == ShaderTypeVertex {
		visibility = wgpu.ShaderStageVertex
		s.vertexLayouts = parseVertexLayouts(source)
	}
	s.bindings = parseBindings(source, visibility)
	s.module = &wgpu.ShaderModuleDescriptor{
		Label: key,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: source,
		},
	}
	return s, nil
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) ShaderType() ShaderType {
	return s.shaderType
}

func (s *shader) EntryPoint() string {
	return s.entryPoint
}

func (s *shader) VertexLayouts() []wgpu.VertexBufferLayout {
	return s.vertexLayouts
}

func (s *shader) Bindings() []Binding {
	return s.bindings
}

func (s *shader) Binding(name string) (Binding, bool) {
	for _, b := range s.bindings {
		if b.Name == name {
			return b, true
		}
	}
	return Binding{}, false
}

func (s *shader) BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor {
	return bindGroupLayoutDescriptors(s.bindings)
}

func (s *shader) UniformNames() []string {
	var names []string
	for _, b := range s.bindings {
		switch {
		case b.IsUniform():
			for _, m := range b.Members {
				if m.Name == "padding" {
					continue
				}
				names = append(names, m.Name)
			}
		case b.IsTexture():
			names = append(names, b.Name)
		}
	}
	return names
}

func (s *shader) Module() *wgpu.ShaderModuleDescriptor {
	return s.module
}
