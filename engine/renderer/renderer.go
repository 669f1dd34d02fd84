package renderer

import (
	"fmt"
	"log"
	"sync"

	"github.com/Carmen-Shannon/oxy-frames/common"
	"github.com/Carmen-Shannon/oxy-frames/engine/frame"
	"github.com/Carmen-Shannon/oxy-frames/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-frames/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-frames/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-frames/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

// registeredPipeline is a pipeline plus the GPU objects created for it at registration.
type registeredPipeline struct {
	pipeline    pipeline.Pipeline
	bindings    []shader.Binding
	layouts     map[int]*wgpu.BindGroupLayout
	descriptors map[int]wgpu.BindGroupLayoutDescriptor
	// groups holds one provider per bind group: its uniform buffers and, for groups without
	// textures, the bind group itself.
	groups     map[int]bind_group_provider.BindGroupProvider
	maxGroup   int
	hasTexture map[int]bool
}

// sampledKey identifies a bind group built for one texture and filter in a pipeline group.
type sampledKey struct {
	pipelineKey string
	group       int
	texture     string
	filter      frame.Filter
}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	window window.Window

	pipelineCache map[string]*registeredPipeline
	meshCache     map[string]bind_group_provider.BindGroupProvider
	textureCache  map[string]bind_group_provider.BindGroupProvider
	sampledCache  map[sampledKey]bind_group_provider.BindGroupProvider

	backend RendererBackend

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
	pendingMSAA          *MSAASampleCount
}

// Renderer draws frames into the window surface on the GPU.
//
// A Renderer owns the registered pipelines, meshes and textures. Each call to BeginFrame returns a
// frame.Target whose Draw calls look those resources up by key, so the Renderer is a frame.Surface.
type Renderer interface {
	frame.Surface

	// Pipeline retrieves the registered Pipeline associated with the given key.
	// If the Pipeline does not exist, this will return nil.
	//
	// Parameters:
	//   - key: the unique identifier for the Pipeline to retrieve
	//
	// Returns:
	//   - pipeline.Pipeline: the Pipeline associated with the key, or nil if not found
	Pipeline(key string) pipeline.Pipeline

	// RegisterPipelines creates the GPU render pipeline, bind group layouts and uniform buffers of
	// each pipeline, then caches them by PipelineKey. Already registered keys are skipped.
	//
	// Parameters:
	//   - pipelines: the Pipelines to register
	//
	// Returns:
	//   - error: an error if pipeline creation fails
	RegisterPipelines(pipelines ...pipeline.Pipeline) error

	// InitMesh uploads an indexed triangle list under key.
	//
	// Parameters:
	//   - key: the mesh key draw calls refer to
	//   - vertices: the vertex data
	//   - indices: triangle list indices into vertices
	//
	// Returns:
	//   - error: an error if the mesh is empty, an index is out of range or buffer creation fails
	InitMesh(key string, vertices []common.VertexF32, indices []uint32) error

	// InitTexture uploads a texture under key.
	//
	// Parameters:
	//   - key: the texture key Sampled uniforms refer to
	//   - tex: the texture, rows stored bottom-to-top
	//
	// Returns:
	//   - error: an error if texture creation fails
	InitTexture(key string, tex *common.Texture) error

	// ValidateUniforms checks that names are exactly the uniforms the pipeline's shaders declare.
	//
	// Parameters:
	//   - pipelineKey: the registered pipeline to check
	//   - names: the uniform names the frame pipeline sends to it
	//
	// Returns:
	//   - error: frame.ErrUnknownPipeline, ErrUnknownUniform or ErrMissingUniform
	ValidateUniforms(pipelineKey string, names ...string) error

	// Resize configures the underlying backend to handle a new surface size.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	Resize(width, height int)

	// SetPresentMode sets the surface present mode which controls how frames are delivered to the display.
	// A call to Resize is required after changing this for the new mode to take effect.
	//
	// Parameters:
	//   - mode: the PresentMode to use (VSync or Uncapped)
	SetPresentMode(mode PresentMode)

	// Release frees every mesh, texture and bind group the renderer created.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a new Renderer drawing into the window's surface.
// It panics if no adapter or device is available.
//
// Parameters:
//   - window: the window whose surface is drawn to
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: a new instance of Renderer with the surface configured to the window's size
func NewRenderer(window window.Window, options ...RendererBuilderOption) Renderer {
	r := &renderer{
		mu:            &sync.Mutex{},
		window:        window,
		pipelineCache: make(map[string]*registeredPipeline),
		meshCache:     make(map[string]bind_group_provider.BindGroupProvider),
		textureCache:  make(map[string]bind_group_provider.BindGroupProvider),
		sampledCache:  make(map[sampledKey]bind_group_provider.BindGroupProvider),
	}

	// Apply options first so config flags (e.g. forceFallbackAdapter) are
	// available before the backend requests a GPU adapter.
	for _, opt := range options {
		opt(r)
	}

	msaa := MSAAOff
	if r.pendingMSAA != nil {
		msaa = *r.pendingMSAA
	}

	r.backend = newWGPURendererBackend(window.SurfaceDescriptor(), r.forceFallbackAdapter, msaa)

	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}

	r.backend.ConfigureSurface(window.Width(), window.Height())
	log.Printf("[Renderer] surface configured at %dx%d (msaa %d)", window.Width(), window.Height(), msaa)
	return r
}

func (r *renderer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.backend.ConfigureSurface(width, height)
	log.Printf("[Renderer] surface resized to %dx%d", width, height)
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}

func (r *renderer) Pipeline(key string) pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rp, ok := r.pipelineCache[key]; ok {
		return rp.pipeline
	}
	return nil
}

func (r *renderer) RegisterPipelines(pipelines ...pipeline.Pipeline) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range pipelines {
		key := p.PipelineKey()
		if _, exists := r.pipelineCache[key]; exists {
			continue
		}

		layouts, descriptors, err := r.backend.RegisterRenderPipeline(p)
		if err != nil {
			return fmt.Errorf("pipeline %q: %w", key, err)
		}

		rp := &registeredPipeline{
			pipeline:    p,
			bindings:    pipelineBindings(p),
			layouts:     layouts,
			descriptors: descriptors,
			groups:      make(map[int]bind_group_provider.BindGroupProvider, len(descriptors)),
			maxGroup:    -1,
			hasTexture:  make(map[int]bool),
		}
		for _, b := range rp.bindings {
			if b.IsTexture() {
				rp.hasTexture[b.Group] = true
			}
		}

		for g, desc := range descriptors {
			rp.maxGroup = max(rp.maxGroup, g)
			provider := bind_group_provider.NewBindGroupProvider(fmt.Sprintf("%s group %d", key, g))
			if err := r.backend.InitBuffers(provider, desc); err != nil {
				return fmt.Errorf("pipeline %q group %d: %w", key, g, err)
			}
			// Groups holding a texture get their bind group per texture at draw time.
			if !rp.hasTexture[g] {
				if err := r.backend.InitBindGroup(provider, layouts[g], desc, provider, nil); err != nil {
					return fmt.Errorf("pipeline %q group %d: %w", key, g, err)
				}
			}
			rp.groups[g] = provider
		}

		r.pipelineCache[key] = rp
		log.Printf("[Renderer] registered pipeline %q (%s, %d bind groups)", key, p.Blend(), len(descriptors))
	}
	return nil
}

func (r *renderer) InitMesh(key string, vertices []common.VertexF32, indices []uint32) error {
	if len(vertices) == 0 || len(indices) == 0 {
		return fmt.Errorf("mesh %q is empty", key)
	}
	if len(indices)%3 != 0 {
		return fmt.Errorf("mesh %q has %d indices, not a triangle list", key, len(indices))
	}
	for _, i := range indices {
		if int(i) >= len(vertices) {
			return fmt.Errorf("mesh %q index %d out of range for %d vertices", key, i, len(vertices))
		}
	}

	provider := bind_group_provider.NewBindGroupProvider(key)
	if err := r.backend.InitMeshBuffers(provider, common.SliceToBytes(vertices), common.SliceToBytes(indices), len(indices)); err != nil {
		return fmt.Errorf("mesh %q: %w", key, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if old, ok := r.meshCache[key]; ok {
		old.Release()
	}
	r.meshCache[key] = provider
	return nil
}

func (r *renderer) InitTexture(key string, tex *common.Texture) error {
	provider := bind_group_provider.NewBindGroupProvider(key)
	if err := r.backend.InitTextureView(provider, 0, tex.StagingData()); err != nil {
		return fmt.Errorf("texture %q: %w", key, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if old, ok := r.textureCache[key]; ok {
		old.Release()
		// Bind groups built from the old view are stale.
		for k, bg := range r.sampledCache {
			if k.texture == key {
				bg.Release()
				delete(r.sampledCache, k)
			}
		}
	}
	r.textureCache[key] = provider
	return nil
}

func (r *renderer) ValidateUniforms(pipelineKey string, names ...string) error {
	r.mu.Lock()
	rp, ok := r.pipelineCache[pipelineKey]
	r.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %q", frame.ErrUnknownPipeline, pipelineKey)
	}
	return validateUniformNames(pipelineKey, rp.pipeline.UniformNames(), names)
}

func (r *renderer) BeginFrame() (frame.Target, error) {
	// The framebuffer may have changed size since the last frame.
	w, h := r.window.Width(), r.window.Height()
	if sw, sh := r.backend.SurfaceSize(); w > 0 && h > 0 && (uint32(w) != sw || uint32(h) != sh) {
		r.Resize(w, h)
	}

	f, err := r.backend.AcquireFrame()
	if err != nil {
		return nil, fmt.Errorf("acquire surface texture: %w", err)
	}
	return &gpuTarget{renderer: r, frame: f}, nil
}

func (r *renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.meshCache {
		p.Release()
	}
	for _, p := range r.textureCache {
		p.Release()
	}
	for _, p := range r.sampledCache {
		p.Release()
	}
	for _, rp := range r.pipelineCache {
		for _, g := range rp.groups {
			g.Release()
		}
	}
	clear(r.meshCache)
	clear(r.textureCache)
	clear(r.sampledCache)
}

// prepareDraw resolves a draw call into the GPU objects the backend binds.
//
// Parameters:
//   - dc: the draw call
//
// Returns:
//   - *registeredPipeline: the pipeline to draw with
//   - bind_group_provider.BindGroupProvider: the mesh
//   - []*wgpu.BindGroup: one bind group per group index
//   - error: a lookup, uniform or bind group creation error
func (r *renderer) prepareDraw(dc frame.DrawCall) (*registeredPipeline, bind_group_provider.BindGroupProvider, []*wgpu.BindGroup, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rp, ok := r.pipelineCache[dc.PipelineKey]
	if !ok {
		return nil, nil, nil, fmt.Errorf("%w: %q", frame.ErrUnknownPipeline, dc.PipelineKey)
	}
	if rp.pipeline.Blend() != dc.Blend {
		return nil, nil, nil, fmt.Errorf("%w: %q is %s, draw wants %s", ErrBlendMismatch, dc.PipelineKey, rp.pipeline.Blend(), dc.Blend)
	}
	mesh, ok := r.meshCache[dc.MeshKey]
	if !ok {
		return nil, nil, nil, fmt.Errorf("%w: %q", frame.ErrUnknownMesh, dc.MeshKey)
	}

	writes, sampled, err := planUniforms(rp.bindings, dc.Uniforms)
	if err != nil {
		return nil, nil, nil, err
	}

	bindGroups := make([]*wgpu.BindGroup, rp.maxGroup+1)
	for g, provider := range rp.groups {
		if !rp.hasTexture[g] {
			bindGroups[g] = provider.BindGroup()
		}
	}
	for _, use := range sampled {
		bg, err := r.sampledBindGroup(rp, use)
		if err != nil {
			return nil, nil, nil, err
		}
		bindGroups[use.group] = bg
	}
	for g, bg := range bindGroups {
		if bg == nil {
			return nil, nil, nil, fmt.Errorf("%w: pipeline %q group %d has no texture bound", ErrMissingUniform, dc.PipelineKey, g)
		}
	}

	bufferWrites := make([]bind_group_provider.BufferWrite, 0, len(writes))
	for _, w := range writes {
		bufferWrites = append(bufferWrites, bind_group_provider.BufferWrite{
			Provider: rp.groups[w.group],
			Binding:  w.binding,
			Offset:   w.offset,
			Data:     w.data,
		})
	}
	r.backend.WriteBuffers(bufferWrites)

	return rp, mesh, bindGroups, nil
}

// sampledBindGroup returns the cached bind group for a texture use, creating it on first use.
// Caller holds r.mu.
func (r *renderer) sampledBindGroup(rp *registeredPipeline, use sampledUse) (*wgpu.BindGroup, error) {
	key := sampledKey{
		pipelineKey: rp.pipeline.PipelineKey(),
		group:       use.group,
		texture:     use.value.Texture,
		filter:      use.value.MagFilter,
	}
	if provider, ok := r.sampledCache[key]; ok {
		return provider.BindGroup(), nil
	}

	tex, ok := r.textureCache[use.value.Texture]
	if !ok {
		return nil, fmt.Errorf("%w: %q", frame.ErrUnknownTexture, use.value.Texture)
	}

	provider := bind_group_provider.NewBindGroupProvider(fmt.Sprintf("%s %s", key.pipelineKey, key.texture))
	filter := wgpu.FilterModeNearest
	if use.value.MagFilter == frame.FilterLinear {
		filter = wgpu.FilterModeLinear
	}
	if err := r.backend.InitSampler(provider, use.samplerBinding, common.SamplerStagingData{
		MagFilter: filter,
		MinFilter: filter,
	}); err != nil {
		return nil, err
	}

	views := map[uint32]*wgpu.TextureView{uint32(use.textureBinding): tex.TextureView(0)}
	err := r.backend.InitBindGroup(provider, rp.layouts[use.group], rp.descriptors[use.group], rp.groups[use.group], views)
	if err != nil {
		provider.Release()
		return nil, err
	}

	r.sampledCache[key] = provider
	return provider.BindGroup(), nil
}
