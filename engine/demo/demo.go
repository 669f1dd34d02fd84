// Package demo wires a stage from the embedded stage table into a running window: it creates the
// window, renderer, shaders, meshes and texture the stage needs, then hands the frame pipeline to
// the scheduler.
package demo

import (
	"fmt"
	"log"

	"github.com/Carmen-Shannon/oxy-frames/assets"
	"github.com/Carmen-Shannon/oxy-frames/common"
	"github.com/Carmen-Shannon/oxy-frames/engine"
	"github.com/Carmen-Shannon/oxy-frames/engine/clock"
	"github.com/Carmen-Shannon/oxy-frames/engine/frame"
	"github.com/Carmen-Shannon/oxy-frames/engine/profiler"
	"github.com/Carmen-Shannon/oxy-frames/engine/renderer"
	"github.com/Carmen-Shannon/oxy-frames/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-frames/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-frames/engine/stage"
	"github.com/Carmen-Shannon/oxy-frames/engine/window"
)

// Mesh and texture keys registered with the renderer.
const (
	MeshQuad     = "quad"
	MeshTriangle = "triangle"
	TextureDemo  = "demo"
)

// plannedPass is everything needed to build and register one pass.
type plannedPass struct {
	kind     frame.PassKind
	vertex   string
	fragment string
	mesh     string
	blend    pipeline.BlendMode
}

// planPasses maps the stage's configured passes to shaders, meshes and blend modes, in draw order.
//
// Parameters:
//   - st: the loaded stage
//
// Returns:
//   - []plannedPass: one entry per configured pass, background then triangle then foreground
//   - error: if a blend name is unknown
func planPasses(st stage.Stage) ([]plannedPass, error) {
	order := []struct {
		kind     stage.PassKind
		pass     frame.PassKind
		vertex   string
		fragment string
		mesh     string
	}{
		{stage.PassBackground, frame.PassBackground, assets.ShaderQuadVertex, assets.ShaderBackgroundFrag, MeshQuad},
		{stage.PassTriangle, frame.PassTriangle, assets.ShaderTriangleVertex, assets.ShaderTriangleFragment, MeshTriangle},
		{stage.PassForeground, frame.PassForeground, assets.ShaderQuadVertex, assets.ShaderForegroundFrag, MeshQuad},
	}

	var plan []plannedPass
	for _, o := range order {
		p, ok := st.Pass(o.kind)
		if !ok {
			continue
		}
		blend, err := pipeline.ParseBlendMode(string(p.Blend))
		if err != nil {
			return nil, fmt.Errorf("stage %s pass %s: %w", st.Name, o.kind, err)
		}
		plan = append(plan, plannedPass{
			kind:     o.pass,
			vertex:   o.vertex,
			fragment: o.fragment,
			mesh:     o.mesh,
			blend:    blend,
		})
	}
	return plan, nil
}

// buildPipeline parses the pass's shaders and returns an unregistered pipeline keyed by the pass kind.
func buildPipeline(pp plannedPass) (pipeline.Pipeline, error) {
	key := pp.kind.String()
	vs, err := shader.NewShader(key+"-vert", shader.ShaderTypeVertex, assets.MustShader(pp.vertex))
	if err != nil {
		return nil, fmt.Errorf("%s vertex shader: %w", key, err)
	}
	fs, err := shader.NewShader(key+"-frag", shader.ShaderTypeFragment, assets.MustShader(pp.fragment))
	if err != nil {
		return nil, fmt.Errorf("%s fragment shader: %w", key, err)
	}
	return pipeline.NewPipeline(key,
		pipeline.WithVertexShader(vs),
		pipeline.WithFragmentShader(fs),
		pipeline.WithBlend(pp.blend),
	), nil
}

// frameOptions returns the frame pipeline options for the planned passes.
func frameOptions(st stage.Stage, plan []plannedPass) []frame.PipelineBuilderOption {
	opts := []frame.PipelineBuilderOption{frame.WithClearColor(st.Clear())}
	for _, pp := range plan {
		key := pp.kind.String()
		switch pp.kind {
		case frame.PassBackground:
			opts = append(opts, frame.WithBackgroundPass(key, pp.mesh))
		case frame.PassTriangle:
			opts = append(opts, frame.WithTrianglePass(key, pp.mesh))
		case frame.PassForeground:
			opts = append(opts, frame.WithForegroundPass(key, pp.mesh, TextureDemo))
		}
		opts = append(opts, frame.WithPassBlend(pp.kind, pp.blend))
	}
	return opts
}

// Run opens the named stage's window and renders it until the window is closed.
// It must be called from the main goroutine.
//
// Parameters:
//   - name: the stage name in the embedded stage table
//   - options: functional options for the run
//
// Returns:
//   - error: a setup error, or the frame error that stopped the scheduler
func Run(name string, options ...DemoBuilderOption) error {
	cfg := &config{}
	for _, opt := range options {
		opt(cfg)
	}

	st, err := stage.Load(name)
	if err != nil {
		return err
	}
	plan, err := planPasses(st)
	if err != nil {
		return err
	}

	w := window.NewWindow(
		window.WithTitle(st.Title),
		window.WithWidth(st.Width),
		window.WithHeight(st.Height),
	)
	defer w.Close()

	r := renderer.NewRenderer(w, cfg.rendererOptions()...)
	defer r.Release()

	pipelines := make([]pipeline.Pipeline, 0, len(plan))
	for _, pp := range plan {
		p, err := buildPipeline(pp)
		if err != nil {
			return err
		}
		pipelines = append(pipelines, p)
	}
	if err := r.RegisterPipelines(pipelines...); err != nil {
		return err
	}

	if err := initAssets(r, plan); err != nil {
		return err
	}

	clk := clock.NewClock(clock.WithQuantum(st.Quantum.Duration()))
	fp := frame.NewPipeline(r, clk, frameOptions(st, plan)...)
	for _, pass := range fp.Passes() {
		if err := r.ValidateUniforms(pass.PipelineKey, pass.Kind.UniformNames()...); err != nil {
			return err
		}
	}

	log.Printf("[Frame] stage %q: %d passes, clear %v", st.Name, len(plan), st.ClearColor)

	eng := engine.NewEngine(
		engine.WithClock(clk),
		engine.WithEventSource(w),
		engine.WithPipeline(fp),
		engine.WithProfiling(cfg.profiling),
		engine.WithProfiler(profiler.NewProfiler(profiler.WithNow(clk.Now))),
		engine.WithSkipFailedFrames(cfg.skipFailedFrames),
	)
	return eng.Run()
}

// initAssets uploads the meshes and texture the planned passes draw.
func initAssets(r renderer.Renderer, plan []plannedPass) error {
	meshes := map[string]bool{}
	texture := false
	for _, pp := range plan {
		meshes[pp.mesh] = true
		if pp.kind == frame.PassForeground {
			texture = true
		}
	}

	if meshes[MeshQuad] {
		quad := common.QuadFan()
		if err := r.InitMesh(MeshQuad, quad, common.FanIndices(len(quad))); err != nil {
			return err
		}
	}
	if meshes[MeshTriangle] {
		tri := common.Triangle()
		if err := r.InitMesh(MeshTriangle, tri, common.FanIndices(len(tri))); err != nil {
			return err
		}
	}
	if texture {
		if err := r.InitTexture(TextureDemo, common.DemoTexture()); err != nil {
			return err
		}
	}
	return nil
}
