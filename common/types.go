// package common contains common types that are used throughout the harness. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// TextureStagingData holds RGBA pixel data for a texture binding pending GPU upload.
type TextureStagingData struct {
	// Pixels is the byte slice representing the actual pixel data for the texture. It should be in RGBA format, with 4 bytes per pixel.
	Pixels []byte
	// Width is the width of the texture in pixels.
	Width uint32
	// Height is the height of the texture in pixels.
	Height uint32
}

// SamplerStagingData holds the configuration for a sampler binding pending GPU creation.
type SamplerStagingData struct {
	// AddressModeU, AddressModeV, AddressModeW specify the addressing mode for texture coordinates outside the [0, 1] range in each dimension (U, V, W).
	AddressModeU, AddressModeV, AddressModeW wgpu.AddressMode
	// MagFilter and MinFilter specify the filtering mode for magnification and minification.
	MagFilter, MinFilter wgpu.FilterMode
	// MipmapFilter specifies the filtering mode for mipmap level selection.
	MipmapFilter wgpu.MipmapFilterMode
	// LodMinClamp and LodMaxClamp specify the minimum and maximum level of detail (LOD) for mipmapping.
	LodMinClamp, LodMaxClamp float32
	// MaxAnisotropy specifies the maximum anisotropy level for anisotropic filtering.
	MaxAnisotropy uint16
}

// Float is the set of precisions a Vertex can be declared with.
type Float interface {
	~float32 | ~float64
}

// Vertex is a single 2D vertex with a texture coordinate.
// Field order and types match the WGSL vertex input struct (@location(0) position, @location(1) tex_coords).
type Vertex[T Float] struct {
	Position  [2]T
	TexCoords [2]T
}

// VertexF32 is the single-precision vertex used by every mesh in the harness.
type VertexF32 = Vertex[float32]

// NewVertex creates a Vertex from a position and a texture coordinate.
//
// Parameters:
//   - x, y: the position in normalized device coordinates
//   - u, v: the texture coordinate
//
// Returns:
//   - Vertex[T]: the vertex
func NewVertex[T Float](x, y, u, v T) Vertex[T] {
	return Vertex[T]{
		Position:  [2]T{x, y},
		TexCoords: [2]T{u, v},
	}
}

// TexturePixel is one RGBA8 texel.
type TexturePixel struct {
	R, G, B, A uint8
}

// Color is a linear RGBA color with components in [0, 1].
type Color struct {
	R, G, B, A float32
}

// WGPU converts the color to a wgpu.Color for render pass clear values.
func (c Color) WGPU() wgpu.Color {
	return wgpu.Color{R: float64(c.R), G: float64(c.G), B: float64(c.B), A: float64(c.A)}
}

// ColorFromPixel converts an RGBA8 texel to a Color by dividing each channel by 255.
func ColorFromPixel(p TexturePixel) Color {
	return Color{
		R: float32(p.R) / 255,
		G: float32(p.G) / 255,
		B: float32(p.B) / 255,
		A: float32(p.A) / 255,
	}
}
