package shader

import (
	"strconv"
	"strings"
)

// wgslPrimitiveLayoutMap maps WGSL scalar, vector and matrix type names to their byte size
// and alignment for the host-shareable address spaces.
//
// Reference: https://www.w3.org/TR/WGSL/#alignment-and-size
var wgslPrimitiveLayoutMap = map[string]wgslTypeLayout{
	"f32":  {4, 4},
	"i32":  {4, 4},
	"u32":  {4, 4},
	"bool": {4, 4},

	"vec2<f32>": {8, 8},
	"vec2f":     {8, 8},
	"vec3<f32>": {12, 16},
	"vec3f":     {12, 16},
	"vec4<f32>": {16, 16},
	"vec4f":     {16, 16},

	"vec2<u32>": {8, 8},
	"vec2u":     {8, 8},
	"vec4<u32>": {16, 16},
	"vec4u":     {16, 16},

	"mat2x2<f32>": {16, 8},
	"mat3x3<f32>": {48, 16},
	"mat4x4<f32>": {64, 16},
	"mat4x4f":     {64, 16},
}

// roundUpAlign rounds value up to the next multiple of alignment.
// Alignment must be a power of two.
func roundUpAlign(alignment, value uint64) uint64 {
	if alignment == 0 {
		return value
	}
	return (value + alignment - 1) &^ (alignment - 1)
}

// resolveTypeLayout resolves a WGSL type name to its size and alignment using primitives
// and previously computed struct layouts. Fixed-size arrays (array<T, N>) are supported,
// runtime-sized arrays resolve to a single element stride.
//
// Parameters:
//   - typeName: the WGSL type name, e.g. "f32", "BackgroundUniforms", "array<vec4<f32>, 4>"
//   - knownTypes: struct layouts resolved so far
//
// Returns:
//   - wgslTypeLayout: the resolved layout
//   - bool: false if the type is unknown
func resolveTypeLayout(typeName string, knownTypes map[string]wgslTypeLayout) (wgslTypeLayout, bool) {
	if layout, ok := wgslPrimitiveLayoutMap[typeName]; ok {
		return layout, true
	}
	if layout, ok := knownTypes[typeName]; ok {
		return layout, true
	}

	if !strings.HasPrefix(typeName, "array<") || !strings.HasSuffix(typeName, ">") {
		return wgslTypeLayout{}, false
	}
	parts := splitAtTopLevelCommas(typeName[len("array<") : len(typeName)-1])
	elem, ok := resolveTypeLayout(strings.TrimSpace(parts[0]), knownTypes)
	if !ok {
		return wgslTypeLayout{}, false
	}
	stride := roundUpAlign(elem.align, elem.size)
	if len(parts) == 1 {
		return wgslTypeLayout{stride, elem.align}, true
	}
	count, err := strconv.ParseUint(strings.TrimSpace(parts[1]), 10, 64)
	if err != nil {
		return wgslTypeLayout{}, false
	}
	return wgslTypeLayout{count * stride, elem.align}, true
}

// computeStructLayout places each field at the next offset aligned to the field type and
// rounds the total size up to the struct alignment (the largest field alignment).
func computeStructLayout(ps parsedStruct, knownTypes map[string]wgslTypeLayout) (wgslTypeLayout, bool) {
	var offset, maxAlign uint64
	for _, f := range ps.fields {
		layout, ok := resolveTypeLayout(f.typeName, knownTypes)
		if !ok {
			return wgslTypeLayout{}, false
		}
		offset = roundUpAlign(layout.align, offset) + layout.size
		maxAlign = max(maxAlign, layout.align)
	}
	if maxAlign == 0 {
		return wgslTypeLayout{}, false
	}
	return wgslTypeLayout{roundUpAlign(maxAlign, offset), maxAlign}, true
}

// computeStructSizes resolves the layout of every struct, repeating passes so structs may
// reference structs declared later in the source. Structs that never resolve are omitted.
func computeStructSizes(structs []parsedStruct) map[string]wgslTypeLayout {
	known := make(map[string]wgslTypeLayout, len(structs))
	for {
		progress := false
		for _, ps := range structs {
			if _, done := known[ps.name]; done {
				continue
			}
			if layout, ok := computeStructLayout(ps, known); ok {
				known[ps.name] = layout
				progress = true
			}
		}
		if !progress {
			return known
		}
	}
}

// structMembers returns the placement of each field of a resolved struct. Fields after the
// first unresolvable type are dropped.
func structMembers(ps parsedStruct, knownTypes map[string]wgslTypeLayout) []Member {
	members := make([]Member, 0, len(ps.fields))
	var offset uint64
	for _, f := range ps.fields {
		layout, ok := resolveTypeLayout(f.typeName, knownTypes)
		if !ok {
			break
		}
		offset = roundUpAlign(layout.align, offset)
		members = append(members, Member{
			Name:     f.name,
			TypeName: f.typeName,
			Offset:   offset,
			Size:     layout.size,
		})
		offset += layout.size
	}
	return members
}
