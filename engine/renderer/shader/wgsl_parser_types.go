package shader

import "github.com/cogentcore/webgpu/wgpu"

// vertexFormatInfo holds the wgpu vertex format and its byte size for offset calculation
type vertexFormatInfo struct {
	format wgpu.VertexFormat
	size   uint64
}

// wgslTypeLayout holds the byte size and alignment for a WGSL type under WGSL layout rules.
type wgslTypeLayout struct {
	size  uint64
	align uint64
}

// parsedField represents a single field extracted from a WGSL struct during parsing
type parsedField struct {
	name      string
	typeName  string
	location  int
	isBuiltin bool
}

// parsedStruct represents a WGSL struct block extracted during parsing
type parsedStruct struct {
	name   string
	fields []parsedField
}

// Member is one field of a uniform struct with its byte placement in the uniform buffer.
type Member struct {
	// Name is the WGSL field name; it doubles as the uniform name the frame pipeline sends.
	Name string
	// TypeName is the WGSL type of the field, e.g. "u32" or "mat4x4<f32>".
	TypeName string
	// Offset is the byte offset of the field inside the struct.
	Offset uint64
	// Size is the byte size of the field.
	Size uint64
}

// Binding describes one @group/@binding resource declared by a shader.
type Binding struct {
	// Group is the bind group index from @group(N).
	Group int
	// Binding is the binding index from @binding(M).
	Binding int
	// Name is the WGSL variable name.
	Name string
	// TypeName is the WGSL type of the variable.
	TypeName string
	// Entry is the layout entry the renderer uses to build the bind group layout.
	Entry wgpu.BindGroupLayoutEntry
	// Members lists the fields of a uniform struct binding, nil for textures and samplers.
	Members []Member
	// Size is the byte size of a buffer binding, 0 for textures and samplers.
	Size uint64
}

// IsUniform reports whether the binding is a uniform buffer.
func (b Binding) IsUniform() bool {
	return b.Entry.Buffer.Type == wgpu.BufferBindingTypeUniform
}

// IsTexture reports whether the binding is a sampled texture.
func (b Binding) IsTexture() bool {
	return b.Entry.Texture.SampleType != wgpu.TextureSampleTypeUndefined
}

// IsSampler reports whether the binding is a sampler.
func (b Binding) IsSampler() bool {
	return b.Entry.Sampler.Type != wgpu.SamplerBindingTypeUndefined
}

// Member returns the uniform struct member with the given name.
func (b Binding) Member(name string) (Member, bool) {
	for _, m := range b.Members {
		if m.Name == name {
			return m, true
		}
	}
	return Member{}, false
}
