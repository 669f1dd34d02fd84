package demo

import (
	"slices"
	"testing"

	"github.com/Carmen-Shannon/oxy-frames/common"
	"github.com/Carmen-Shannon/oxy-frames/engine/frame"
	"github.com/Carmen-Shannon/oxy-frames/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-frames/engine/stage"
)

type fixedClock float32

func (c fixedClock) ElapsedSeconds() float32 { return float32(c) }

func mustStage(t *testing.T, name string) stage.Stage {
	t.Helper()
	st, err := stage.Load(name)
	if err != nil {
		t.Fatalf("stage.Load(%q): %v", name, err)
	}
	return st
}

func TestPlanPasses(t *testing.T) {
	tests := []struct {
		stage  string
		kinds  []frame.PassKind
		blends []pipeline.BlendMode
		meshes []string
	}{
		{stage: "clearcolor"},
		{
			stage:  "triangle",
			kinds:  []frame.PassKind{frame.PassTriangle},
			blends: []pipeline.BlendMode{pipeline.BlendOpaque},
			meshes: []string{MeshTriangle},
		},
		{
			stage:  "texquad",
			kinds:  []frame.PassKind{frame.PassBackground, frame.PassForeground},
			blends: []pipeline.BlendMode{pipeline.BlendOpaque, pipeline.BlendAlpha},
			meshes: []string{MeshQuad, MeshQuad},
		},
	}
	for _, tt := range tests {
		t.Run(tt.stage, func(t *testing.T) {
			plan, err := planPasses(mustStage(t, tt.stage))
			if err != nil {
				t.Fatalf("planPasses: %v", err)
			}
			var kinds []frame.PassKind
			var blends []pipeline.BlendMode
			var meshes []string
			for _, s := range plan {
				kinds = append(kinds, s.kind)
				blends = append(blends, s.blend)
				meshes = append(meshes, s.mesh)
			}
			if !slices.Equal(kinds, tt.kinds) || !slices.Equal(blends, tt.blends) || !slices.Equal(meshes, tt.meshes) {
				t.Fatalf("plan = %v %v %v, want %v %v %v", kinds, blends, meshes, tt.kinds, tt.blends, tt.meshes)
			}
		})
	}
}

func TestPipelinesDeclarePassUniforms(t *testing.T) {
	for _, name := range []string{"triangle", "texquad"} {
		plan, err := planPasses(mustStage(t, name))
		if err != nil {
			t.Fatal(err)
		}
		for _, pp := range plan {
			p, err := buildPipeline(pp)
			if err != nil {
				t.Fatalf("%s: %v", pp.kind, err)
			}
			if p.Blend() != pp.blend {
				t.Errorf("%s: blend = %v, want %v", pp.kind, p.Blend(), pp.blend)
			}
			if got, want := p.UniformNames(), pp.kind.UniformNames(); !slices.Equal(got, want) {
				t.Errorf("%s: shader uniforms %v, pass sends %v", pp.kind, got, want)
			}
		}
	}
}

// renderStage renders one frame of the stage on the CPU surface with the same options Run uses.
func renderStage(t *testing.T, name string, elapsed float32) frame.Image {
	t.Helper()
	st := mustStage(t, name)
	plan, err := planPasses(st)
	if err != nil {
		t.Fatal(err)
	}

	s := frame.NewSoftwareSurface(st.Width, st.Height)
	quad := common.QuadFan()
	s.RegisterMesh(MeshQuad, quad, common.FanIndices(len(quad)))
	tri := common.Triangle()
	s.RegisterMesh(MeshTriangle, tri, common.FanIndices(len(tri)))
	s.RegisterTexture(TextureDemo, common.DemoTexture())

	p := frame.NewPipeline(s, fixedClock(elapsed), frameOptions(st, plan)...)
	if err := p.RenderFrame(); err != nil {
		t.Fatalf("RenderFrame: %v", err)
	}
	return s.Presented()[0]
}

func TestClearColorStage(t *testing.T) {
	img := renderStage(t, "clearcolor", 0)
	if img.Width != 320 || img.Height != 234 {
		t.Fatalf("size = %dx%d, want 320x234", img.Width, img.Height)
	}
	want := common.Color{R: 0.8, G: 0, B: 0.1, A: 1}
	for i, px := range img.Pix {
		if px != want {
			t.Fatalf("pixel %d = %+v, want %+v", i, px, want)
		}
	}
}

func TestTriangleStage(t *testing.T) {
	img := renderStage(t, "triangle", 0)
	if got := img.At(160, 117); got != (common.Color{R: 1, A: 1}) {
		t.Fatalf("center = %+v, want red", got)
	}
	if got := img.At(0, 0); got != (common.Color{B: 1, A: 1}) {
		t.Fatalf("corner = %+v, want the blue clear color", got)
	}
}

func TestTexQuadStage(t *testing.T) {
	img := renderStage(t, "texquad", 0)

	// top-left texel is transparent, so the stripe background shows through
	want := frame.BackgroundColor(0.5, 0.5, 234, 0)
	if got := img.At(0, 0); !got.ApproxEqual(want, 1e-5) {
		t.Fatalf("top-left = %+v, want %+v", got, want)
	}
	if got := img.At(319, 233); !got.ApproxEqual(common.Color{B: 1, A: 1}, 1e-5) {
		t.Fatalf("bottom-right = %+v, want opaque blue", got)
	}

	// The background pass is opaque, so a transparent stripe replaces the gray clear color
	// instead of letting it show through.
	found := false
	for y := 0; y < 100 && !found; y++ {
		if frame.StripeClass(0.5/234, (float32(y)+0.5)/234, 0) != frame.StripeOdd {
			continue
		}
		found = true
		if got := img.At(0, y); !got.ApproxEqual(common.Color{}, 1e-5) {
			t.Fatalf("odd stripe at row %d = %+v, want transparent black", y, got)
		}
	}
	if !found {
		t.Fatal("no odd stripe in the transparent texel")
	}
}
