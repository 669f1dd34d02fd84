// Package assets embeds the harness's static inputs: the WGSL shader sources and the stage table.
// Nothing is read from disk at runtime.
package assets

import (
	"embed"
	"fmt"
)

//go:embed shaders/*.wgsl stages.yaml
var files embed.FS

// Shader names of the embedded WGSL sources.
const (
	ShaderQuadVertex       = "quad-vert.wgsl"
	ShaderBackgroundFrag   = "background-frag.wgsl"
	ShaderForegroundFrag   = "foreground-frag.wgsl"
	ShaderTriangleVertex   = "triangle-vert.wgsl"
	ShaderTriangleFragment = "triangle-frag.wgsl"
)

// Shader returns the source of an embedded WGSL shader.
//
// Parameters:
//   - name: the file name under shaders/ (one of the Shader* constants)
//
// Returns:
//   - string: the WGSL source
//   - error: if no shader with that name is embedded
func Shader(name string) (string, error) {
	data, err := files.ReadFile("shaders/" + name)
	if err != nil {
		return "", fmt.Errorf("assets: shader %q: %w", name, err)
	}
	return string(data), nil
}

// MustShader is like Shader but panics when the shader is missing.
// Shader sources are part of the binary, so a miss is a build defect.
func MustShader(name string) string {
	src, err := Shader(name)
	if err != nil {
		panic(err)
	}
	return src
}

// Stages returns the raw YAML stage table.
func Stages() []byte {
	data, err := files.ReadFile("stages.yaml")
	if err != nil {
		panic(fmt.Sprintf("assets: stages.yaml missing from embed: %v", err))
	}
	return data
}
