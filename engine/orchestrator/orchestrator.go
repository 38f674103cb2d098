// Package orchestrator implements the per-frame driver of §4.9: it owns the
// instance registry, the per-model animation pipelines, the level's static
// collision geometry and navigation graph, and the behavior registry, and
// advances all of them in the order §4.9 specifies. It supersedes the
// teacher's Scene, which drove a single GPU-resident Animator list; here
// transform and animation state live on Instance (engine/instance) and the
// orchestrator is the place that reads and writes it every frame.
package orchestrator

import (
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"

	"github.com/oxyengine/charanim/engine/animation"
	"github.com/oxyengine/charanim/engine/asset"
	"github.com/oxyengine/charanim/engine/behavior"
	"github.com/oxyengine/charanim/engine/camera"
	"github.com/oxyengine/charanim/engine/collision"
	"github.com/oxyengine/charanim/engine/instance"
	"github.com/oxyengine/charanim/engine/light"
	"github.com/oxyengine/charanim/engine/nav"
	"github.com/oxyengine/charanim/engine/renderer"
	"github.com/oxyengine/charanim/engine/renderer/bind_group_provider"
	"github.com/oxyengine/charanim/engine/spatial"
)

// Config bundles the tunables §6 loads from the scene configuration file
// and that govern a run of the orchestrator.
type Config struct {
	Collision          collision.LevelConfig
	WorldBounds        spatial.Box
	CollisionEnabled   bool
	InteractionEnabled bool
	IKEnabled          bool
	IKIterations       int
	NavigationEnabled  bool
	NarrowPhaseEnabled bool
	OctreeThreshold    int
	OctreeMaxDepth     int
}

// Level is the static, shared-read-only geometry and navigation graph of
// the currently active level (§3 Level).
type Level struct {
	Name       string
	Bounds     spatial.Box
	Geometry   *spatial.Octree[spatial.Triangle]
	Walkable   []spatial.Triangle
	NavGraph   *nav.Graph
}

// handle adapts an instance.Instance to collision.InstanceHandle without
// either package importing the other.
type handle struct {
	inst instance.Instance
}

func (h handle) ID() uint64            { return h.inst.ID() }
func (h handle) BoundingBox() spatial.Box { return toBox(h.inst.BoundingBox()) }

func toBox(b asset.AABB) spatial.Box { return spatial.Box{Min: b.Min, Max: b.Max} }
func toAABB(b spatial.Box) asset.AABB { return asset.AABB{Min: b.Min, Max: b.Max} }

// Orchestrator is the per-frame driver described in §4.9. The zero value is
// not usable; construct one with New.
type Orchestrator struct {
	mu sync.Mutex

	instances instance.Registry
	behaviors *behavior.Registry
	pipelines map[asset.Model]animation.Pipeline

	cfg   Config
	level *Level

	cam camera.Camera
	r   renderer.Renderer

	selectedInstance uint64
	pendingPickPixel *[2]int32
	dirty            bool

	// lastMatrices caches each instance's most recently composed bone
	// matrices for Render's debug-draw step (§4.9 step 13).
	lastMatrices map[uint64][]animation.BoneMatrix

	// lastRootSphere caches each instance's root-bone bounding sphere from
	// the most recent animation dispatch, in world space. Render uses it for
	// frustum culling so a frame's draw calls skip instances the camera
	// can't see without waiting on a fresh Stage 3 dispatch.
	lastRootSphere map[uint64]animation.BoundingSphere

	modelResources map[asset.Model]modelRenderResources

	lights        []light.Light
	ambient       [3]float32
	lightProvider bind_group_provider.BindGroupProvider
	lightBinding  int

	// tileProvider/tileBinding, when set, receive the Forward+ tile uniform
	// buffer every render. surfaceWidth/surfaceHeight track the current
	// render target size (kept in sync by SetSurfaceSize) so the tile grid
	// dimensions follow window resizes without Render needing its own
	// surface-size plumbing.
	tileProvider  bind_group_provider.BindGroupProvider
	tileBinding   int
	surfaceWidth  int
	surfaceHeight int

	// animPool runs each model's animation-pipeline dispatch concurrently
	// (§4.9 step 4: Stage 1/Stage 2 are independent per model). Workers are
	// reused across frames; a per-frame sync.WaitGroup provides the barrier,
	// since the pool's own idle-wait is unsuited to frame-rate workloads.
	animPool worker.DynamicWorkerPool
}

// New creates an Orchestrator bound to an instance registry, behavior
// registry, camera and renderer facade. The renderer may be nil for
// headless (simulation-only, e.g. test) use; rendering steps become no-ops.
func New(instances instance.Registry, behaviors *behavior.Registry, cam camera.Camera, r renderer.Renderer, cfg Config) *Orchestrator {
	return &Orchestrator{
		instances: instances,
		animPool:  worker.NewDynamicWorkerPool(4, 256, time.Second),
		behaviors: behaviors,
		pipelines: make(map[asset.Model]animation.Pipeline),
		cfg:       cfg,
		cam:       cam,
		r:         r,
	}
}

// SetLights registers the scene's light list and ambient term, and the
// GPU buffer they are marshaled into every render (§4.9 step 11 draws lit
// geometry against this buffer). provider/binding identify where
// light.MarshalLightBuffer's bytes land; pass a nil provider to disable
// the light-buffer write (e.g. headless simulation-only use).
func (o *Orchestrator) SetLights(lights []light.Light, ambient [3]float32, provider bind_group_provider.BindGroupProvider, binding int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.lights = lights
	o.ambient = ambient
	o.lightProvider = provider
	o.lightBinding = binding
}

// SetTileUniformsProvider registers the GPU buffer the per-frame Forward+
// tile uniforms (§4.9 step 11 lit-geometry draw) are written into. Pass a
// nil provider to disable the write, e.g. for a renderer that doesn't use
// tiled light culling.
func (o *Orchestrator) SetTileUniformsProvider(provider bind_group_provider.BindGroupProvider, binding int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.tileProvider = provider
	o.tileBinding = binding
}

// SetSurfaceSize records the current render target size so Render can
// recompute the Forward+ tile grid dimensions. Called by the host on window
// creation and every resize (mirrors Renderer.CheckForResize's role for the
// swapchain itself).
func (o *Orchestrator) SetSurfaceSize(width, height int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.surfaceWidth = width
	o.surfaceHeight = height
}

// SetLevel swaps the active level's collision geometry and navigation
// graph. Existing instance navigation state referencing the old level's
// triangle indices is left for the caller to clear (§9 "regenerate level").
func (o *Orchestrator) SetLevel(l *Level) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.level = l
}

// pipelineFor returns (creating if necessary) the animation Pipeline for m.
func (o *Orchestrator) pipelineFor(m asset.Model) animation.Pipeline {
	p, ok := o.pipelines[m]
	if !ok {
		p = animation.NewPipeline(o.r)
		o.pipelines[m] = p
	}
	return p
}

// Dirty reports whether any mutation has occurred since the config was last
// loaded or saved (§7 "a dirty-state flag follows every mutation that
// diverges from the last loaded/saved config").
func (o *Orchestrator) Dirty() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.dirty
}

// ClearDirty resets the dirty flag, called after a successful save/load.
func (o *Orchestrator) ClearDirty() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.dirty = false
}

func (o *Orchestrator) markDirty() { o.dirty = true }

// RequestPick stores a pending pick pixel, in framebuffer coordinates, for
// the next frame (§4.9 step 12). Render discards it without a readback;
// SelectedInstance changes only through ResolvePick.
func (o *Orchestrator) RequestPick(x, y int32) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.pendingPickPixel = &[2]int32{x, y}
}

// SelectedInstance returns the instance id resolved by the last mouse pick,
// or 0 (the null instance) if none is selected.
func (o *Orchestrator) SelectedInstance() uint64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.selectedInstance
}
