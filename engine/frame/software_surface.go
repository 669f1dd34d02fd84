package frame

import (
	"fmt"
	"math"

	"github.com/Carmen-Shannon/oxy-frames/common"
	"github.com/Carmen-Shannon/oxy-frames/engine/renderer/pipeline"
	"golang.org/x/image/math/f32"
)

// FragmentInput is what a SoftwareProgram's fragment stage sees for one pixel.
type FragmentInput struct {
	// Position is the pixel center in framebuffer coordinates, origin top-left.
	Position f32.Vec2
	// TexCoords is the interpolated texture coordinate.
	TexCoords f32.Vec2
	// Uniforms are the values of the current draw.
	Uniforms UniformSet
	// Sample looks up the Sampled uniform with the given name and samples it at uv.
	Sample func(name string, uv f32.Vec2) (common.Color, error)
}

// SoftwareProgram is the CPU counterpart of a vertex and fragment shader pair.
type SoftwareProgram struct {
	// Vertex returns the clip-space position of a vertex.
	Vertex func(v common.VertexF32, u UniformSet) f32.Vec4
	// Fragment returns the color of one covered pixel.
	Fragment func(in FragmentInput) (common.Color, error)
}

// Image is a presented software frame, row 0 at the top.
type Image struct {
	Width, Height int
	Pix           []common.Color
}

// At returns the pixel at (x, y), origin top-left.
func (img Image) At(x, y int) common.Color {
	return img.Pix[y*img.Width+x]
}

type softwareMesh struct {
	vertices []common.VertexF32
	indices  []uint32
}

// SoftwareSurface rasterizes frames on the CPU. It draws the same meshes, blend modes and
// uniform values the GPU renderer does, so frame output can be inspected without a device.
type SoftwareSurface struct {
	width, height int
	programs      map[string]SoftwareProgram
	meshes        map[string]softwareMesh
	textures      map[string]*common.Texture

	presented []Image
	released  int
}

var _ Surface = &SoftwareSurface{}

// NewSoftwareSurface creates a CPU surface of the given size with the background, triangle and
// foreground programs registered under their pass names.
//
// Parameters:
//   - width, height: the frame size in pixels
//
// Returns:
//   - *SoftwareSurface: the surface
func NewSoftwareSurface(width, height int) *SoftwareSurface {
	s := &SoftwareSurface{
		width:    width,
		height:   height,
		programs: make(map[string]SoftwareProgram),
		meshes:   make(map[string]softwareMesh),
		textures: make(map[string]*common.Texture),
	}
	s.RegisterProgram(PassBackground.String(), BackgroundProgram())
	s.RegisterProgram(PassTriangle.String(), TriangleProgram())
	s.RegisterProgram(PassForeground.String(), ForegroundProgram())
	return s
}

// RegisterProgram adds or replaces the program drawn for a pipeline key.
func (s *SoftwareSurface) RegisterProgram(key string, prog SoftwareProgram) {
	s.programs[key] = prog
}

// RegisterMesh adds or replaces an indexed triangle list.
func (s *SoftwareSurface) RegisterMesh(key string, vertices []common.VertexF32, indices []uint32) {
	s.meshes[key] = softwareMesh{vertices: vertices, indices: indices}
}

// RegisterTexture adds or replaces a texture that Sampled uniforms can name.
func (s *SoftwareSurface) RegisterTexture(key string, tex *common.Texture) {
	s.textures[key] = tex
}

// Presented returns every presented frame in order.
func (s *SoftwareSurface) Presented() []Image {
	return s.presented
}

// Released returns how many targets were finalized without being presented.
func (s *SoftwareSurface) Released() int {
	return s.released
}

// BeginFrame returns a new target. The pixel buffer starts transparent black until cleared.
func (s *SoftwareSurface) BeginFrame() (Target, error) {
	return &softwareTarget{
		surface: s,
		img: Image{
			Width:  s.width,
			Height: s.height,
			Pix:    make([]common.Color, s.width*s.height),
		},
	}, nil
}

// softwareTarget is the Target handed out by SoftwareSurface.
type softwareTarget struct {
	surface   *SoftwareSurface
	img       Image
	finalized bool
}

func (t *softwareTarget) Size() (uint32, uint32) {
	return uint32(t.img.Width), uint32(t.img.Height)
}

func (t *softwareTarget) Clear(c common.Color) {
	if t.finalized {
		return
	}
	for i := range t.img.Pix {
		t.img.Pix[i] = c
	}
}

func (t *softwareTarget) Present() error {
	if t.finalized {
		return ErrTargetFinalized
	}
	t.finalized = true
	t.surface.presented = append(t.surface.presented, t.img)
	return nil
}

func (t *softwareTarget) Release() {
	if t.finalized {
		return
	}
	t.finalized = true
	t.surface.released++
}

func (t *softwareTarget) Draw(dc DrawCall) error {
	if t.finalized {
		return ErrTargetFinalized
	}
	prog, ok := t.surface.programs[dc.PipelineKey]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownPipeline, dc.PipelineKey)
	}
	mesh, ok := t.surface.meshes[dc.MeshKey]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownMesh, dc.MeshKey)
	}

	screen := make([]f32.Vec2, len(mesh.vertices))
	for i, v := range mesh.vertices {
		clip := prog.Vertex(v, dc.Uniforms)
		w := clip[3]
		if w == 0 {
			w = 1
		}
		screen[i] = f32.Vec2{
			(clip[0]/w + 1) / 2 * float32(t.img.Width),
			(1 - clip[1]/w) / 2 * float32(t.img.Height),
		}
	}

	sample := func(name string, uv f32.Vec2) (common.Color, error) {
		return t.surface.sample(dc.Uniforms, name, uv)
	}

	// Each pixel is shaded at most once per draw so edges shared by two triangles are not
	// blended twice.
	covered := make([]bool, len(t.img.Pix))
	for i := 0; i+2 < len(mesh.indices); i += 3 {
		a, b, c := mesh.indices[i], mesh.indices[i+1], mesh.indices[i+2]
		if int(max(a, b, c)) >= len(mesh.vertices) {
			return fmt.Errorf("frame: mesh %q index out of range", dc.MeshKey)
		}
		tri := [3]int{int(a), int(b), int(c)}
		err := t.rasterize(screen, mesh.vertices, tri, covered, func(x, y int, uv f32.Vec2) error {
			src, err := prog.Fragment(FragmentInput{
				Position:  f32.Vec2{float32(x) + 0.5, float32(y) + 0.5},
				TexCoords: uv,
				Uniforms:  dc.Uniforms,
				Sample:    sample,
			})
			if err != nil {
				return err
			}
			idx := y*t.img.Width + x
			if dc.Blend == pipeline.BlendAlpha {
				t.img.Pix[idx] = common.BlendSourceOver(src, t.img.Pix[idx])
			} else {
				t.img.Pix[idx] = src
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("frame: draw %q: %w", dc.PipelineKey, err)
		}
	}
	return nil
}

// rasterize visits every uncovered pixel whose center lies inside the triangle, interpolating
// texture coordinates with barycentric weights.
func (t *softwareTarget) rasterize(screen []f32.Vec2, verts []common.VertexF32, tri [3]int, covered []bool, shade func(x, y int, uv f32.Vec2) error) error {
	p0, p1, p2 := screen[tri[0]], screen[tri[1]], screen[tri[2]]
	area := edge(p0, p1, p2)
	if area == 0 {
		return nil
	}

	minX := clampPixel(math.Floor(float64(min(p0[0], p1[0], p2[0]))), t.img.Width)
	maxX := clampPixel(math.Ceil(float64(max(p0[0], p1[0], p2[0]))), t.img.Width)
	minY := clampPixel(math.Floor(float64(min(p0[1], p1[1], p2[1]))), t.img.Height)
	maxY := clampPixel(math.Ceil(float64(max(p0[1], p1[1], p2[1]))), t.img.Height)

	t0, t1, t2 := verts[tri[0]].TexCoords, verts[tri[1]].TexCoords, verts[tri[2]].TexCoords
	for y := minY; y < maxY; y++ {
		for x := minX; x < maxX; x++ {
			idx := y*t.img.Width + x
			if covered[idx] {
				continue
			}
			p := f32.Vec2{float32(x) + 0.5, float32(y) + 0.5}
			w0 := edge(p1, p2, p) / area
			w1 := edge(p2, p0, p) / area
			w2 := edge(p0, p1, p) / area
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}
			covered[idx] = true
			uv := f32.Vec2{
				w0*t0[0] + w1*t1[0] + w2*t2[0],
				w0*t0[1] + w1*t1[1] + w2*t2[1],
			}
			if err := shade(x, y, uv); err != nil {
				return err
			}
		}
	}
	return nil
}

// edge is twice the signed area of the triangle (a, b, p).
func edge(a, b, p f32.Vec2) float32 {
	return (b[0]-a[0])*(p[1]-a[1]) - (b[1]-a[1])*(p[0]-a[0])
}

func clampPixel(v float64, size int) int {
	return int(max(0, min(v, float64(size))))
}

// sample resolves a Sampled uniform and samples its texture.
func (s *SoftwareSurface) sample(u UniformSet, name string, uv f32.Vec2) (common.Color, error) {
	sampled, ok := u[name].(Sampled)
	if !ok {
		return common.Color{}, fmt.Errorf("frame: uniform %q is not a texture", name)
	}
	tex, ok := s.textures[sampled.Texture]
	if !ok {
		return common.Color{}, fmt.Errorf("%w: %q", ErrUnknownTexture, sampled.Texture)
	}
	return common.ColorFromPixel(tex.Sample(uv[0], uv[1])), nil
}

// BackgroundProgram is the CPU version of quad-vert.wgsl with background-frag.wgsl.
func BackgroundProgram() SoftwareProgram {
	return SoftwareProgram{
		Vertex: passThrough,
		Fragment: func(in FragmentInput) (common.Color, error) {
			height, ok := in.Uniforms[UniformHeight].(uint32)
			if !ok {
				return common.Color{}, fmt.Errorf("frame: uniform %q missing", UniformHeight)
			}
			time, ok := in.Uniforms[UniformTime].(float32)
			if !ok {
				return common.Color{}, fmt.Errorf("frame: uniform %q missing", UniformTime)
			}
			return BackgroundColor(in.Position[0], in.Position[1], height, time), nil
		},
	}
}

// TriangleProgram is the CPU version of triangle-vert.wgsl with triangle-frag.wgsl.
func TriangleProgram() SoftwareProgram {
	return SoftwareProgram{
		Vertex: func(v common.VertexF32, u UniformSet) f32.Vec4 {
			m, ok := u[UniformMatrix].(f32.Mat4)
			if !ok {
				m = common.Identity()
			}
			return common.MulVec4(m, f32.Vec4{v.Position[0], v.Position[1], 0, 1})
		},
		Fragment: func(FragmentInput) (common.Color, error) {
			return common.Color{R: 1, A: 1}, nil
		},
	}
}

// ForegroundProgram is the CPU version of quad-vert.wgsl with foreground-frag.wgsl.
func ForegroundProgram() SoftwareProgram {
	return SoftwareProgram{
		Vertex: passThrough,
		Fragment: func(in FragmentInput) (common.Color, error) {
			return in.Sample(UniformTexture, in.TexCoords)
		},
	}
}

func passThrough(v common.VertexF32, _ UniformSet) f32.Vec4 {
	return f32.Vec4{v.Position[0], v.Position[1], 0, 1}
}
