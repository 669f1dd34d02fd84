package common

import "testing"

func TestNewTextureStoresRowsBottomToTop(t *testing.T) {
	tex := DemoTexture()

	bottom := tex.Row(0)
	if bottom[0] != (TexturePixel{0, 255, 0, 155}) || bottom[1] != (TexturePixel{0, 0, 255, 255}) {
		t.Fatalf("row 0 should be the last row given, got %v", bottom)
	}
	top := tex.Row(1)
	if top[0] != (TexturePixel{0, 0, 0, 0}) || top[1] != (TexturePixel{255, 0, 0, 55}) {
		t.Fatalf("row 1 should be the first row given, got %v", top)
	}

	want := []byte{
		0, 255, 0, 155, 0, 0, 255, 255,
		0, 0, 0, 0, 255, 0, 0, 55,
	}
	got := tex.Pixels()
	if len(got) != len(want) {
		t.Fatalf("expected %d bytes, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("byte %d: expected %d, got %d", i, want[i], got[i])
		}
	}
}

func TestTextureSampleNearest(t *testing.T) {
	tex := DemoTexture()
	tests := []struct {
		u, v float32
		want TexturePixel
	}{
		{0.1, 0.9, TexturePixel{0, 0, 0, 0}},
		{0.9, 0.9, TexturePixel{255, 0, 0, 55}},
		{0.1, 0.1, TexturePixel{0, 255, 0, 155}},
		{0.9, 0.1, TexturePixel{0, 0, 255, 255}},
		{0.49, 0.51, TexturePixel{0, 0, 0, 0}},
		{-3, 7, TexturePixel{0, 0, 0, 0}},
		{1, 0, TexturePixel{0, 0, 255, 255}},
	}
	for _, tt := range tests {
		if got := tex.Sample(tt.u, tt.v); got != tt.want {
			t.Errorf("Sample(%v, %v): expected %v, got %v", tt.u, tt.v, tt.want, got)
		}
	}
}

func TestNewTextureRejectsBadSizes(t *testing.T) {
	if _, err := NewTexture(0, 2, nil); err == nil {
		t.Fatal("expected error for zero width")
	}
	if _, err := NewTexture(2, 2, make([]TexturePixel, 3)); err == nil {
		t.Fatal("expected error for short pixel slice")
	}
}

func TestTextureStagingData(t *testing.T) {
	sd := DemoTexture().StagingData()
	if sd.Width != 2 || sd.Height != 2 || len(sd.Pixels) != 16 {
		t.Fatalf("unexpected staging data %dx%d (%d bytes)", sd.Width, sd.Height, len(sd.Pixels))
	}
}
