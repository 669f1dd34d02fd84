package common

// QuadFan returns the full-viewport quad as a four-vertex triangle fan.
// Texture coordinates place (0, 0) at the bottom-left corner.
//
// Returns:
//   - []VertexF32: the quad vertices in fan order
func QuadFan() []VertexF32 {
	return []VertexF32{
		NewVertex[float32](1.0, 1.0, 1.0, 1.0),
		NewVertex[float32](-1.0, 1.0, 0.0, 1.0),
		NewVertex[float32](-1.0, -1.0, 0.0, 0.0),
		NewVertex[float32](1.0, -1.0, 1.0, 0.0),
	}
}

// Triangle returns the single triangle drawn by the rotating-triangle stage.
//
// Returns:
//   - []VertexF32: the three triangle vertices
func Triangle() []VertexF32 {
	return []VertexF32{
		NewVertex[float32](-0.5, -0.5, 0.0, 0.0),
		NewVertex[float32](0.0, 0.5, 0.5, 1.0),
		NewVertex[float32](0.5, -0.25, 1.0, 0.0),
	}
}

// FanIndices converts a triangle fan of n vertices into triangle list indices.
// WebGPU has no fan topology, so every mesh is drawn as an indexed triangle list.
// Returns nil when n < 3.
//
// Parameters:
//   - n: the number of vertices in the fan
//
// Returns:
//   - []uint32: 3*(n-2) indices (0, i, i+1) for i in [1, n-2]
func FanIndices(n int) []uint32 {
	if n < 3 {
		return nil
	}
	indices := make([]uint32, 0, 3*(n-2))
	for i := 1; i < n-1; i++ {
		indices = append(indices, 0, uint32(i), uint32(i+1))
	}
	return indices
}
