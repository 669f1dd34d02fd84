package common

import (
	"math"
	"unsafe"

	"golang.org/x/image/math/f32"
)

// Identity returns the 4x4 identity matrix.
//
// Returns:
//   - f32.Mat4: the identity matrix
func Identity() f32.Mat4 {
	return f32.Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// RotationZ builds a row-major rotation matrix about the Z axis.
// A positive angle rotates counter-clockwise in NDC space.
//
// Parameters:
//   - angle: rotation in radians
//
// Returns:
//   - f32.Mat4: the rotation matrix in row-major order (f32.Mat4 convention)
func RotationZ(angle float32) f32.Mat4 {
	s := float32(math.Sin(float64(angle)))
	c := float32(math.Cos(float64(angle)))
	return f32.Mat4{
		c, -s, 0, 0,
		s, c, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// MulVec4 multiplies a row-major matrix by a column vector.
//
// Parameters:
//   - m: the row-major matrix
//   - v: the column vector
//
// Returns:
//   - f32.Vec4: m * v
func MulVec4(m f32.Mat4, v f32.Vec4) f32.Vec4 {
	var out f32.Vec4
	for r := 0; r < 4; r++ {
		out[r] = m[4*r+0]*v[0] + m[4*r+1]*v[1] + m[4*r+2]*v[2] + m[4*r+3]*v[3]
	}
	return out
}

// ColumnMajor transposes a row-major f32.Mat4 into the column-major layout expected by
// WGSL mat4x4<f32> uniforms.
//
// Parameters:
//   - m: the row-major matrix
//
// Returns:
//   - [16]float32: the same matrix stored column by column
func ColumnMajor(m f32.Mat4) [16]float32 {
	var out [16]float32
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			out[4*c+r] = m[4*r+c]
		}
	}
	return out
}

// SliceToBytes converts any slice to a byte slice for GPU buffer uploads.
// Uses unsafe pointer operations to create a view into the source slice.
// WARNING: The returned slice shares memory with the input - do not modify.
//
// Parameters:
//   - data: source slice of any type
//
// Returns:
//   - []byte: byte slice view of the input data, or nil if input is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	size := unsafe.Sizeof(zero)
	totalBytes := int(size) * len(data)
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), totalBytes)
}

