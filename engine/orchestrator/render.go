package orchestrator

import (
	"github.com/oxyengine/charanim/common"
	"github.com/oxyengine/charanim/engine/asset"
	"github.com/oxyengine/charanim/engine/instance"
	"github.com/oxyengine/charanim/engine/light"
	"github.com/oxyengine/charanim/engine/renderer/bind_group_provider"
)

// modelRenderResources are the GPU handles a model's instances are drawn
// with: a mesh provider plus the render pipeline key to draw it under.
// Registered once per model (when its asset is loaded), independent of how
// many instances reference it.
type modelRenderResources struct {
	meshProvider    bind_group_provider.BindGroupProvider
	pipelineKey     string
	pickPipelineKey string
	hasMorph        bool
}

// RegisterModel attaches the GPU resources a model's instances are drawn
// with (§4.9 step 11: "animated models using the skinning pipeline [...],
// then non-animated models"). The caller is responsible for having already
// uploaded mesh buffers and registered the named pipelines on the renderer.
func (o *Orchestrator) RegisterModel(m asset.Model, provider bind_group_provider.BindGroupProvider, pipelineKey, pickPipelineKey string, hasMorph bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.modelResources == nil {
		o.modelResources = make(map[asset.Model]modelRenderResources)
	}
	o.modelResources[m] = modelRenderResources{
		meshProvider:    provider,
		pipelineKey:     pipelineKey,
		pickPipelineKey: pickPipelineKey,
		hasMorph:        hasMorph,
	}
}

// Render implements §4.9 steps 11-14: issues one instanced draw call per
// registered model whose instances survive frustum culling, in map iteration
// order, discards any pending mouse pick (see resolvePickLocked), and invokes
// the debug-draw and UI hooks. It draws no level geometry and does not draw
// animated models before static ones. A nil renderer (headless mode) makes
// this a no-op.
func (o *Orchestrator) Render(debugDraw func(), drawUI func()) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.r == nil {
		return nil
	}

	if err := o.r.BeginFrame(); err != nil {
		return err
	}

	if o.lightProvider != nil {
		o.r.WriteBuffers([]bind_group_provider.BufferWrite{{
			Provider: o.lightProvider,
			Binding:  o.lightBinding,
			Data:     light.MarshalLightBuffer(o.lights, o.ambient),
		}})
	}
	if o.tileProvider != nil {
		tileCountX, _ := light.TileCounts(o.surfaceWidth, o.surfaceHeight)
		tu := light.GPUTileUniforms{TileCountX: tileCountX, MaxLightsPerTile: light.MaxLightsPerTile}
		o.r.WriteBuffers([]bind_group_provider.BufferWrite{{
			Provider: o.tileProvider,
			Binding:  o.tileBinding,
			Data:     tu.Marshal(),
		}})
	}

	frustum := common.ExtractFrustumFromMatrix(o.cam.ViewProjectionMatrix()[:])
	for m, insts := range o.groupByModel() {
		res, ok := o.modelResources[m]
		if !ok || len(insts) == 0 {
			continue
		}
		visible := o.cullByFrustum(frustum, insts)
		if len(visible) == 0 {
			continue
		}
		if err := o.r.DrawCall(res.pipelineKey, res.meshProvider, uint32(len(visible)), nil); err != nil {
			o.r.EndFrame()
			return err
		}
	}

	if o.pendingPickPixel != nil {
		o.resolvePickLocked()
		o.pendingPickPixel = nil
	}

	if debugDraw != nil {
		debugDraw()
	}
	if drawUI != nil {
		drawUI()
	}

	o.r.EndFrame()
	o.r.Present()
	return nil
}

// cullByFrustum filters insts to those whose cached root-bone bounding
// sphere (§4.9 step 7) intersects the view frustum. An instance with no
// cached sphere yet (its first frame, before any animation dispatch has
// run) is kept rather than culled, since there is nothing to test against.
func (o *Orchestrator) cullByFrustum(frustum common.Frustum, insts []instance.Instance) []instance.Instance {
	visible := insts[:0:0]
	for _, inst := range insts {
		sphere, ok := o.lastRootSphere[inst.ID()]
		if !ok || frustum.ContainsSphere(sphere.Center, sphere.Radius) {
			visible = append(visible, inst)
		}
	}
	return visible
}

// resolvePickLocked is the §4.9 step 12 hook. It reads back no pixel and
// does not change the selection; Render clears the pending pixel right after
// calling it, and no accessor exposes that pixel. The selection changes only
// when the host calls ResolvePick.
func (o *Orchestrator) resolvePickLocked() {
	// No synchronous pixel-readback primitive is exposed by the renderer
	// facade; hosts that wire mouse picking call ResolvePick once their own
	// readback completes.
}

// ResolvePick is called by the host once it has read back the pick pixel
// and decoded it to an instance id (0 for no hit).
func (o *Orchestrator) ResolvePick(instanceID uint64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.selectedInstance = instanceID
}
