package renderer

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-frames/assets"
	"github.com/Carmen-Shannon/oxy-frames/common"
	"github.com/Carmen-Shannon/oxy-frames/engine/frame"
	"github.com/Carmen-Shannon/oxy-frames/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-frames/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"golang.org/x/image/math/f32"
)

func mustPipeline(t *testing.T, key, vertex, fragment string, blend pipeline.BlendMode) pipeline.Pipeline {
	t.Helper()
	vs, err := shader.NewShader(key+"-vert", shader.ShaderTypeVertex, assets.MustShader(vertex))
	if err != nil {
		t.Fatalf("vertex shader: %v", err)
	}
	fs, err := shader.NewShader(key+"-frag", shader.ShaderTypeFragment, assets.MustShader(fragment))
	if err != nil {
		t.Fatalf("fragment shader: %v", err)
	}
	return pipeline.NewPipeline(key,
		pipeline.WithVertexShader(vs),
		pipeline.WithFragmentShader(fs),
		pipeline.WithBlend(blend),
	)
}

func TestEncodeUniform(t *testing.T) {
	u32 := shader.Member{Name: "height", TypeName: "u32", Size: 4}
	f := shader.Member{Name: "time", TypeName: "f32", Size: 4}
	mat := shader.Member{Name: "matrix", TypeName: "mat4x4<f32>", Size: 64}
	v4 := shader.Member{Name: "color", TypeName: "vec4<f32>", Size: 16}

	tests := []struct {
		name    string
		member  shader.Member
		value   any
		check   func(t *testing.T, b []byte)
		wantErr bool
	}{
		{
			name:   "u32",
			member: u32,
			value:  uint32(234),
			check: func(t *testing.T, b []byte) {
				if got := binary.LittleEndian.Uint32(b); got != 234 {
					t.Errorf("got %d, want 234", got)
				}
			},
		},
		{
			name:   "f32",
			member: f,
			value:  float32(1.5),
			check: func(t *testing.T, b []byte) {
				if got := math.Float32frombits(binary.LittleEndian.Uint32(b)); got != 1.5 {
					t.Errorf("got %v, want 1.5", got)
				}
			},
		},
		{
			name:   "mat4 is written column-major",
			member: mat,
			value:  f32.Mat4{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16},
			check: func(t *testing.T, b []byte) {
				// Second float in memory is row 1, column 0.
				if got := math.Float32frombits(binary.LittleEndian.Uint32(b[4:])); got != 5 {
					t.Errorf("element [1] = %v, want 5", got)
				}
			},
		},
		{
			name:   "color fills a vec4",
			member: v4,
			value:  common.Color{R: 0.25, G: 0.5, B: 0.75, A: 1},
			check: func(t *testing.T, b []byte) {
				if got := math.Float32frombits(binary.LittleEndian.Uint32(b[12:])); got != 1 {
					t.Errorf("alpha = %v, want 1", got)
				}
			},
		},
		{name: "size mismatch", member: mat, value: float32(1), wantErr: true},
		{name: "unsupported type", member: f, value: 1.5, wantErr: true},
		{name: "string", member: u32, value: "234", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := encodeUniform(tt.member, tt.value)
			if tt.wantErr {
				if !errors.Is(err, ErrUniformType) {
					t.Fatalf("expected ErrUniformType, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("encodeUniform: %v", err)
			}
			if uint64(len(b)) != tt.member.Size {
				t.Fatalf("len = %d, want %d", len(b), tt.member.Size)
			}
			tt.check(t, b)
		})
	}
}

func TestPlanUniformsBackground(t *testing.T) {
	p := mustPipeline(t, "background", assets.ShaderQuadVertex, assets.ShaderBackgroundFrag, pipeline.BlendOpaque)
	writes, sampled, err := planUniforms(pipelineBindings(p), frame.UniformSet{
		frame.UniformHeight: uint32(234),
		frame.UniformTime:   float32(2),
	})
	if err != nil {
		t.Fatalf("planUniforms: %v", err)
	}
	if len(sampled) != 0 {
		t.Fatalf("expected no textures, got %d", len(sampled))
	}
	if len(writes) != 2 {
		t.Fatalf("expected 2 writes, got %d", len(writes))
	}
	// Writes are ordered by name: height then time.
	if writes[0].offset != 0 || writes[1].offset != 4 {
		t.Fatalf("offsets = %d, %d, want 0, 4", writes[0].offset, writes[1].offset)
	}
	if writes[0].group != 0 || writes[0].binding != 0 {
		t.Fatalf("height slot = group %d binding %d", writes[0].group, writes[0].binding)
	}
}

func TestPlanUniformsForeground(t *testing.T) {
	p := mustPipeline(t, "foreground", assets.ShaderQuadVertex, assets.ShaderForegroundFrag, pipeline.BlendAlpha)
	writes, sampled, err := planUniforms(pipelineBindings(p), frame.UniformSet{
		frame.UniformTexture: frame.Sampled{Texture: "demo", MagFilter: frame.FilterNearest},
	})
	if err != nil {
		t.Fatalf("planUniforms: %v", err)
	}
	if len(writes) != 0 {
		t.Fatalf("expected no buffer writes, got %d", len(writes))
	}
	if len(sampled) != 1 {
		t.Fatalf("expected 1 texture use, got %d", len(sampled))
	}
	use := sampled[0]
	if use.textureBinding != 0 || use.samplerBinding != 1 || use.value.Texture != "demo" {
		t.Fatalf("texture use = %+v", use)
	}
}

func TestPlanUniformsErrors(t *testing.T) {
	bg := mustPipeline(t, "background", assets.ShaderQuadVertex, assets.ShaderBackgroundFrag, pipeline.BlendOpaque)
	fg := mustPipeline(t, "foreground", assets.ShaderQuadVertex, assets.ShaderForegroundFrag, pipeline.BlendAlpha)

	tests := []struct {
		name string
		p    pipeline.Pipeline
		set  frame.UniformSet
		want error
	}{
		{name: "undeclared name", p: bg, set: frame.UniformSet{"speed": float32(1)}, want: ErrUnknownUniform},
		{name: "wrong scalar type", p: bg, set: frame.UniformSet{frame.UniformHeight: float64(234)}, want: ErrUniformType},
		{name: "texture value for buffer member", p: bg, set: frame.UniformSet{frame.UniformTime: frame.Sampled{Texture: "demo"}}, want: ErrUniformType},
		{name: "scalar for texture", p: fg, set: frame.UniformSet{frame.UniformTexture: float32(1)}, want: ErrUniformType},
		{name: "texture not declared", p: bg, set: frame.UniformSet{frame.UniformTexture: frame.Sampled{Texture: "demo"}}, want: ErrUnknownUniform},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := planUniforms(pipelineBindings(tt.p), tt.set)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestValidateUniformNames(t *testing.T) {
	declared := []string{"height", "time"}
	tests := []struct {
		name     string
		supplied []string
		want     error
	}{
		{name: "exact", supplied: []string{"time", "height"}},
		{name: "missing", supplied: []string{"height"}, want: ErrMissingUniform},
		{name: "extra", supplied: []string{"height", "time", "matrix"}, want: ErrUnknownUniform},
		{name: "empty", supplied: nil, want: ErrMissingUniform},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateUniformNames("background", declared, tt.supplied)
			if tt.want == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestPassUniformsMatchShaders(t *testing.T) {
	tests := []struct {
		kind     frame.PassKind
		vertex   string
		fragment string
	}{
		{frame.PassBackground, assets.ShaderQuadVertex, assets.ShaderBackgroundFrag},
		{frame.PassTriangle, assets.ShaderTriangleVertex, assets.ShaderTriangleFragment},
		{frame.PassForeground, assets.ShaderQuadVertex, assets.ShaderForegroundFrag},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			p := mustPipeline(t, tt.kind.String(), tt.vertex, tt.fragment, pipeline.BlendOpaque)
			if err := validateUniformNames(p.PipelineKey(), p.UniformNames(), tt.kind.UniformNames()); err != nil {
				t.Fatalf("pass uniforms do not match shaders: %v", err)
			}
		})
	}
}

func TestMergeBindGroupLayouts(t *testing.T) {
	vertex := map[int]wgpu.BindGroupLayoutDescriptor{
		0: {Entries: []wgpu.BindGroupLayoutEntry{
			{Binding: 0, Visibility: wgpu.ShaderStageVertex},
		}},
	}
	fragment := map[int]wgpu.BindGroupLayoutDescriptor{
		0: {Entries: []wgpu.BindGroupLayoutEntry{
			{Binding: 1, Visibility: wgpu.ShaderStageFragment},
			{Binding: 0, Visibility: wgpu.ShaderStageFragment},
		}},
		1: {Entries: []wgpu.BindGroupLayoutEntry{
			{Binding: 0, Visibility: wgpu.ShaderStageFragment},
		}},
	}

	merged := mergeBindGroupLayouts(vertex, fragment)
	if len(merged) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(merged))
	}
	g0 := merged[0].Entries
	if len(g0) != 2 || g0[0].Binding != 0 || g0[1].Binding != 1 {
		t.Fatalf("group 0 entries = %+v", g0)
	}
	if g0[0].Visibility != wgpu.ShaderStageVertex|wgpu.ShaderStageFragment {
		t.Fatalf("binding 0 visibility = %v, want vertex|fragment", g0[0].Visibility)
	}
	if g0[1].Visibility != wgpu.ShaderStageFragment {
		t.Fatalf("binding 1 visibility = %v, want fragment", g0[1].Visibility)
	}
	if len(merged[1].Entries) != 1 {
		t.Fatalf("group 1 entries = %+v", merged[1].Entries)
	}
}
