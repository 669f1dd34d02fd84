package renderer

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/Carmen-Shannon/oxy-frames/common"
	"github.com/Carmen-Shannon/oxy-frames/engine/frame"
	"github.com/Carmen-Shannon/oxy-frames/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-frames/engine/renderer/shader"
	"golang.org/x/image/math/f32"
)

var (
	// ErrUnknownUniform is returned when a uniform name is not declared by the pipeline's shaders.
	ErrUnknownUniform = errors.New("renderer: unknown uniform")

	// ErrMissingUniform is returned by ValidateUniforms when a declared uniform is never supplied.
	ErrMissingUniform = errors.New("renderer: uniform not supplied")

	// ErrUniformType is returned when a uniform value does not fit the WGSL member it targets.
	ErrUniformType = errors.New("renderer: uniform type mismatch")

	// ErrBlendMismatch is returned when a draw asks for a blend mode its pipeline was not built with.
	ErrBlendMismatch = errors.New("renderer: blend mode does not match pipeline")
)

// uniformWrite is one encoded uniform member destined for a group's buffer.
type uniformWrite struct {
	group   int
	binding int
	offset  uint64
	data    []byte
}

// sampledUse binds a texture and its companion sampler for one draw.
type sampledUse struct {
	group          int
	textureBinding int
	samplerBinding int
	value          frame.Sampled
}

// pipelineBindings returns the resources declared by both stages of p, deduplicated and ordered
// by group then binding.
func pipelineBindings(p pipeline.Pipeline) []shader.Binding {
	type slot struct{ group, binding int }
	seen := make(map[slot]bool)
	var out []shader.Binding
	for _, t := range []shader.ShaderType{shader.ShaderTypeVertex, shader.ShaderTypeFragment} {
		s := p.Shader(t)
		if s == nil {
			continue
		}
		for _, b := range s.Bindings() {
			k := slot{b.Group, b.Binding}
			if seen[k] {
				continue
			}
			seen[k] = true
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Group != out[j].Group {
			return out[i].Group < out[j].Group
		}
		return out[i].Binding < out[j].Binding
	})
	return out
}

// planUniforms resolves every entry of set against bindings.
//
// Parameters:
//   - bindings: the pipeline's declared resources
//   - set: the uniform values of one draw
//
// Returns:
//   - []uniformWrite: encoded buffer member writes, ordered by name
//   - []sampledUse: texture bindings to bind for the draw
//   - error: ErrUnknownUniform or ErrUniformType on the first bad entry
func planUniforms(bindings []shader.Binding, set frame.UniformSet) ([]uniformWrite, []sampledUse, error) {
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)

	var writes []uniformWrite
	var sampled []sampledUse
	for _, name := range names {
		value := set[name]
		if s, ok := value.(frame.Sampled); ok {
			use, err := planSampled(bindings, name, s)
			if err != nil {
				return nil, nil, err
			}
			sampled = append(sampled, use)
			continue
		}

		w, err := planMember(bindings, name, value)
		if err != nil {
			return nil, nil, err
		}
		writes = append(writes, w)
	}
	return writes, sampled, nil
}

func planSampled(bindings []shader.Binding, name string, s frame.Sampled) (sampledUse, error) {
	for _, b := range bindings {
		if !b.IsTexture() || b.Name != name {
			continue
		}
		use := sampledUse{group: b.Group, textureBinding: b.Binding, samplerBinding: -1, value: s}
		for _, sb := range bindings {
			if sb.IsSampler() && sb.Group == b.Group && sb.Name == name+shader.SamplerSuffix {
				use.samplerBinding = sb.Binding
			}
		}
		if use.samplerBinding < 0 {
			return sampledUse{}, fmt.Errorf("%w: texture %q has no %q sampler", ErrUnknownUniform, name, name+shader.SamplerSuffix)
		}
		return use, nil
	}
	for _, b := range bindings {
		if _, ok := b.Member(name); ok && b.IsUniform() {
			return sampledUse{}, fmt.Errorf("%w: %q is a buffer member, got a texture", ErrUniformType, name)
		}
	}
	return sampledUse{}, fmt.Errorf("%w: %q", ErrUnknownUniform, name)
}

func planMember(bindings []shader.Binding, name string, value any) (uniformWrite, error) {
	for _, b := range bindings {
		if !b.IsUniform() {
			if b.IsTexture() && b.Name == name {
				return uniformWrite{}, fmt.Errorf("%w: %q is a texture, got %T", ErrUniformType, name, value)
			}
			continue
		}
		m, ok := b.Member(name)
		if !ok {
			continue
		}
		data, err := encodeUniform(m, value)
		if err != nil {
			return uniformWrite{}, err
		}
		return uniformWrite{group: b.Group, binding: b.Binding, offset: m.Offset, data: data}, nil
	}
	return uniformWrite{}, fmt.Errorf("%w: %q", ErrUnknownUniform, name)
}

// encodeUniform packs value into the little-endian bytes of the WGSL member m.
//
// Parameters:
//   - m: the struct member the value is written to
//   - value: a uint32, int32, float32, f32.Vec2, f32.Vec4, common.Color, f32.Mat4 or [16]float32
//
// Returns:
//   - []byte: exactly m.Size bytes
//   - error: ErrUniformType if the value's type or size does not fit m
func encodeUniform(m shader.Member, value any) ([]byte, error) {
	var floats []float32
	var word []byte
	switch v := value.(type) {
	case uint32:
		word = binary.LittleEndian.AppendUint32(nil, v)
	case int32:
		word = binary.LittleEndian.AppendUint32(nil, uint32(v))
	case float32:
		floats = []float32{v}
	case f32.Vec2:
		floats = v[:]
	case f32.Vec4:
		floats = v[:]
	case common.Color:
		floats = []float32{v.R, v.G, v.B, v.A}
	case f32.Mat4:
		// WGSL matrices are column-major.
		cm := common.ColumnMajor(v)
		floats = cm[:]
	case [16]float32:
		floats = v[:]
	default:
		return nil, fmt.Errorf("%w: %q cannot hold %T", ErrUniformType, m.Name, value)
	}

	if word == nil {
		word = make([]byte, 0, 4*len(floats))
		for _, f := range floats {
			word = binary.LittleEndian.AppendUint32(word, math.Float32bits(f))
		}
	}
	if uint64(len(word)) != m.Size {
		return nil, fmt.Errorf("%w: %q is %s (%d bytes), got %T (%d bytes)", ErrUniformType, m.Name, m.TypeName, m.Size, value, len(word))
	}
	return word, nil
}

// validateUniformNames checks that supplied covers declared exactly.
//
// Parameters:
//   - pipelineKey: the pipeline named in errors
//   - declared: the uniforms the pipeline's shaders declare
//   - supplied: the uniforms the frame pipeline will send
//
// Returns:
//   - error: ErrUnknownUniform or ErrMissingUniform, nil if the sets agree
func validateUniformNames(pipelineKey string, declared, supplied []string) error {
	want := make(map[string]bool, len(declared))
	for _, n := range declared {
		want[n] = true
	}
	got := make(map[string]bool, len(supplied))
	for _, n := range supplied {
		if !want[n] {
			return fmt.Errorf("%w: pipeline %q has no uniform %q", ErrUnknownUniform, pipelineKey, n)
		}
		got[n] = true
	}
	for _, n := range declared {
		if !got[n] {
			return fmt.Errorf("%w: pipeline %q needs %q", ErrMissingUniform, pipelineKey, n)
		}
	}
	return nil
}
