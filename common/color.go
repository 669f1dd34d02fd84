package common

import "math"

// BlendSourceOver composites src over dst using standard alpha blending:
//
//	rgb = src.rgb*src.a + dst.rgb*(1-src.a)
//	a   = src.a + dst.a*(1-src.a)
//
// This matches the blend state the pipeline package builds for BlendAlpha.
//
// Parameters:
//   - src: the incoming fragment color
//   - dst: the color already in the target
//
// Returns:
//   - Color: the composited color
func BlendSourceOver(src, dst Color) Color {
	inv := 1 - src.A
	return Color{
		R: src.R*src.A + dst.R*inv,
		G: src.G*src.A + dst.G*inv,
		B: src.B*src.A + dst.B*inv,
		A: src.A + dst.A*inv,
	}
}

// ApproxEqual reports whether every channel of c and other differs by at most eps.
func (c Color) ApproxEqual(other Color, eps float32) bool {
	return absDiff(c.R, other.R) <= eps &&
		absDiff(c.G, other.G) <= eps &&
		absDiff(c.B, other.B) <= eps &&
		absDiff(c.A, other.A) <= eps
}

func absDiff(a, b float32) float32 {
	return float32(math.Abs(float64(a - b)))
}
