package common

import (
	"fmt"
	"math"
)

// Texture is a small immutable RGBA8 pixel grid.
// Rows are stored bottom-to-top: row 0 is the row sampled at v = 0. Callers hand pixels to
// NewTexture in conventional top-to-bottom image order and the constructor reverses them.
type Texture struct {
	width  uint32
	height uint32
	rows   [][]TexturePixel
}

// NewTexture creates a Texture from pixels listed row by row, top row first.
//
// Parameters:
//   - width: the texture width in texels
//   - height: the texture height in texels
//   - topToBottom: width*height texels in top-to-bottom, left-to-right order
//
// Returns:
//   - *Texture: the texture with rows stored bottom-to-top
//   - error: if the dimensions are zero or do not match the pixel count
func NewTexture(width, height uint32, topToBottom []TexturePixel) (*Texture, error) {
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("texture dimensions must be non-zero, got %dx%d", width, height)
	}
	if uint64(len(topToBottom)) != uint64(width)*uint64(height) {
		return nil, fmt.Errorf("texture %dx%d needs %d pixels, got %d", width, height, width*height, len(topToBottom))
	}

	rows := make([][]TexturePixel, height)
	for r := uint32(0); r < height; r++ {
		src := topToBottom[r*width : (r+1)*width]
		row := make([]TexturePixel, width)
		copy(row, src)
		rows[height-1-r] = row
	}

	return &Texture{width: width, height: height, rows: rows}, nil
}

// DemoTexture returns the 2x2 texture composited by the textured-quad stage.
// Top row: transparent black, red at alpha 55. Bottom row: green at alpha 155, opaque blue.
func DemoTexture() *Texture {
	t, err := NewTexture(2, 2, []TexturePixel{
		{0, 0, 0, 0}, {255, 0, 0, 55},
		{0, 255, 0, 155}, {0, 0, 255, 255},
	})
	if err != nil {
		panic(err)
	}
	return t
}

// Width returns the texture width in texels.
func (t *Texture) Width() uint32 {
	return t.width
}

// Height returns the texture height in texels.
func (t *Texture) Height() uint32 {
	return t.height
}

// Row returns a copy of the stored row at index r, where row 0 is the bottom row.
func (t *Texture) Row(r int) []TexturePixel {
	out := make([]TexturePixel, len(t.rows[r]))
	copy(out, t.rows[r])
	return out
}

// Pixels returns the texel bytes in stored (bottom-to-top) order, 4 bytes per texel.
//
// Returns:
//   - []byte: RGBA8 bytes ready for GPU upload
func (t *Texture) Pixels() []byte {
	out := make([]byte, 0, t.width*t.height*4)
	for _, row := range t.rows {
		for _, p := range row {
			out = append(out, p.R, p.G, p.B, p.A)
		}
	}
	return out
}

// StagingData returns the texture as TextureStagingData for Renderer upload.
func (t *Texture) StagingData() TextureStagingData {
	return TextureStagingData{
		Pixels: t.Pixels(),
		Width:  t.width,
		Height: t.height,
	}
}

// Sample returns the texel nearest to (u, v) with clamp-to-edge addressing.
// v = 0 addresses the bottom row.
//
// Parameters:
//   - u: horizontal texture coordinate
//   - v: vertical texture coordinate
//
// Returns:
//   - TexturePixel: the nearest texel
func (t *Texture) Sample(u, v float32) TexturePixel {
	col := clampIndex(u, t.width)
	row := clampIndex(v, t.height)
	return t.rows[row][col]
}

func clampIndex(coord float32, size uint32) int {
	i := int(math.Floor(float64(coord) * float64(size)))
	if i < 0 {
		return 0
	}
	if i >= int(size) {
		return int(size) - 1
	}
	return i
}
