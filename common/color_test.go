package common

import "testing"

func TestBlendSourceOverTransparentKeepsDestination(t *testing.T) {
	dsts := []Color{
		{0.25, 0.25, 0.25, 1},
		{0.2, 0.2, 0.2, 1},
		{0, 0, 0, 0},
		{0.9, 0.1, 0.4, 0.5},
	}
	src := Color{1, 0, 0, 0}
	for _, dst := range dsts {
		if got := BlendSourceOver(src, dst); got != dst {
			t.Fatalf("alpha=0 over %v: expected destination unchanged, got %v", dst, got)
		}
	}
}

func TestBlendSourceOverOpaqueReplacesDestination(t *testing.T) {
	src := Color{1, 0, 0, 1}
	for _, dst := range []Color{{0.25, 0.25, 0.25, 1}, {0, 0, 0, 0}, {0.3, 0.6, 0.9, 0.2}} {
		if got := BlendSourceOver(src, dst); got != src {
			t.Fatalf("alpha=1 over %v: expected %v, got %v", dst, src, got)
		}
	}
}

func TestBlendSourceOverPartial(t *testing.T) {
	src := Color{0, 1, 0, 0.5}
	dst := Color{1, 0, 0, 1}
	got := BlendSourceOver(src, dst)
	want := Color{0.5, 0.5, 0, 1}
	if !got.ApproxEqual(want, 1e-6) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestColorFromPixel(t *testing.T) {
	got := ColorFromPixel(TexturePixel{255, 0, 255, 0})
	if got != (Color{1, 0, 1, 0}) {
		t.Fatalf("unexpected color %v", got)
	}
}
