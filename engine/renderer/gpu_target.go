package renderer

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-frames/common"
	"github.com/Carmen-Shannon/oxy-frames/engine/frame"
	"github.com/cogentcore/webgpu/wgpu"
)

// gpuTarget is the frame.Target for one swapchain texture. All draws of a frame are recorded in a
// single render pass; the pending clear color becomes the pass's load operation.
type gpuTarget struct {
	renderer *renderer
	frame    *wgpuFrame
	pass     *wgpu.RenderPassEncoder

	clear     *wgpu.Color
	finalized bool
}

var _ frame.Target = &gpuTarget{}

func (t *gpuTarget) Size() (uint32, uint32) {
	return t.renderer.backend.SurfaceSize()
}

func (t *gpuTarget) Clear(c common.Color) {
	if t.finalized {
		return
	}
	// A clear after draws discards them, so the running pass is closed and the next one clears.
	t.endPass()
	wc := c.WGPU()
	t.clear = &wc
}

func (t *gpuTarget) Draw(dc frame.DrawCall) error {
	if t.finalized {
		return frame.ErrTargetFinalized
	}

	rp, mesh, bindGroups, err := t.renderer.prepareDraw(dc)
	if err != nil {
		return err
	}

	t.beginPass()
	t.renderer.backend.Draw(t.pass, rp.pipeline, mesh, bindGroups)
	return nil
}

func (t *gpuTarget) Present() error {
	if t.finalized {
		return frame.ErrTargetFinalized
	}
	t.finalized = true

	// A frame with no draws still needs a pass to apply its clear.
	t.beginPass()
	t.endPass()
	if err := t.renderer.backend.SubmitFrame(t.frame); err != nil {
		return fmt.Errorf("submit frame: %w", err)
	}
	return nil
}

func (t *gpuTarget) Release() {
	if t.finalized {
		return
	}
	t.finalized = true
	t.endPass()
	t.renderer.backend.DiscardFrame(t.frame)
}

func (t *gpuTarget) beginPass() {
	if t.pass != nil {
		return
	}
	t.pass = t.renderer.backend.BeginPass(t.frame, t.clear)
	t.clear = nil
}

func (t *gpuTarget) endPass() {
	if t.pass == nil {
		return
	}
	t.pass.End()
	t.pass = nil
}
