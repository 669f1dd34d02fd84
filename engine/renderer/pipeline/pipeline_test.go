package pipeline

import (
	"errors"
	"slices"
	"testing"

	"github.com/Carmen-Shannon/oxy-frames/assets"
	"github.com/Carmen-Shannon/oxy-frames/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

func TestParseBlendMode(t *testing.T) {
	tests := []struct {
		name    string
		want    BlendMode
		wantErr bool
	}{
		{name: "opaque", want: BlendOpaque},
		{name: "alpha", want: BlendAlpha},
		{name: "additive", wantErr: true},
		{name: "", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseBlendMode(tt.name)
		if tt.wantErr {
			if !errors.Is(err, ErrUnknownBlendMode) {
				t.Errorf("ParseBlendMode(%q): expected ErrUnknownBlendMode, got %v", tt.name, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseBlendMode(%q) = %v, %v", tt.name, got, err)
		}
		if got.String() != tt.name {
			t.Errorf("String() = %q, want %q", got.String(), tt.name)
		}
	}
}

func TestBlendState(t *testing.T) {
	if BlendOpaque.BlendState() != nil {
		t.Fatal("opaque must disable blending")
	}
	bs := BlendAlpha.BlendState()
	if bs == nil {
		t.Fatal("alpha must enable blending")
	}
	if bs.Color.SrcFactor != wgpu.BlendFactorSrcAlpha || bs.Color.DstFactor != wgpu.BlendFactorOneMinusSrcAlpha {
		t.Fatalf("color component = %+v", bs.Color)
	}
	if bs.Alpha.SrcFactor != wgpu.BlendFactorOne || bs.Alpha.DstFactor != wgpu.BlendFactorOneMinusSrcAlpha {
		t.Fatalf("alpha component = %+v", bs.Alpha)
	}
}

func TestPipelineUniformNames(t *testing.T) {
	vs, err := shader.NewShader("quad-vert", shader.ShaderTypeVertex, assets.MustShader(assets.ShaderQuadVertex))
	if err != nil {
		t.Fatal(err)
	}
	fs, err := shader.NewShader("background-frag", shader.ShaderTypeFragment, assets.MustShader(assets.ShaderBackgroundFrag))
	if err != nil {
		t.Fatal(err)
	}

	p := NewPipeline("background", WithVertexShader(vs), WithFragmentShader(fs))
	if p.Blend() != BlendOpaque || p.BlendState() != nil {
		t.Fatal("default blend should be opaque")
	}
	if p.Topology() != wgpu.PrimitiveTopologyTriangleList {
		t.Fatalf("topology = %v", p.Topology())
	}
	if got := p.UniformNames(); !slices.Equal(got, []string{"height", "time"}) {
		t.Fatalf("uniform names = %v", got)
	}
	if p.Shader(shader.ShaderTypeVertex) != vs {
		t.Fatal("vertex shader not kept")
	}
}
