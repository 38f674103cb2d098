package animation

import (
	"sync"

	"github.com/oxyengine/charanim/engine/asset"
	"github.com/oxyengine/charanim/engine/renderer"
	"github.com/oxyengine/charanim/engine/renderer/bind_group_provider"
)

// Pipeline dispatches the three animation compute stages (§4.2) for one
// model's instances and tracks the instance capacity its GPU buffers are
// sized for, signaling a GPU bind-group rebuild whenever that capacity
// grows, the same way the instance buffers of a GPU-resident animator do.
type Pipeline interface {
	// Grow raises the recorded capacity to at least newMax instances and
	// marks the pipeline for a bind-group rebuild; a request at or below
	// the current capacity changes nothing.
	Grow(newMax uint32)
	NeedsRebuild() bool
	ClearNeedsRebuild() bool

	SetComputeBindGroupProvider(bind_group_provider.BindGroupProvider)

	// Dispatch runs Stage 1 (transform sampling), Stage 2 (matrix
	// composition) and Stage 3 (bounding spheres) in sequence for the
	// given model and per-instance inputs, returning the composed bone
	// matrices and bounding spheres for every instance.
	//
	// Ending and re-beginning the compute frame between stages forces each
	// stage's GPU writes to complete before the next stage's bind groups are
	// read. After Stage 3's dispatch, Dispatch also waits on the renderer
	// facade's HostReadBarrier before returning, since the bounding spheres
	// it hands back feed the collision narrow phase's host-side read.
	Dispatch(m asset.Model, inputs []PerInstanceInput) ([][]BoneMatrix, [][]BoundingSphere, error)
}

const (
	pipelineKeyTransform         = "transform"
	pipelineKeyTransformHeadMove = "transformHeadMove"
	pipelineKeyMatrixMult        = "matrixMult"
	pipelineKeyBoundingSpheres   = "boundingSpheres"
)

type pipelineImpl struct {
	mu sync.Mutex

	r Renderer

	maxInstances uint32
	needsRebuild bool

	computeProvider bind_group_provider.BindGroupProvider
}

// Renderer is the subset of the GPU Runtime Facade (§4.1) this pipeline
// needs; satisfied by engine/renderer.Renderer.
type Renderer interface {
	BeginComputeFrame() error
	EndComputeFrame()
	DispatchCompute(pipelineKey string, provider bind_group_provider.BindGroupProvider, workGroupCount [3]uint32)
	WriteBuffers(writes []bind_group_provider.BufferWrite)
	HostReadBarrier()
}

var _ Renderer = (renderer.Renderer)(nil)
var _ Pipeline = &pipelineImpl{}

// NewPipeline creates a Pipeline bound to the given renderer facade.
func NewPipeline(r Renderer) Pipeline {
	return &pipelineImpl{r: r}
}

func (p *pipelineImpl) Grow(newMax uint32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if newMax <= p.maxInstances {
		return
	}
	p.maxInstances = newMax
	p.needsRebuild = true
}

func (p *pipelineImpl) NeedsRebuild() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.needsRebuild
}

func (p *pipelineImpl) ClearNeedsRebuild() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	was := p.needsRebuild
	p.needsRebuild = false
	return was
}

func (p *pipelineImpl) SetComputeBindGroupProvider(provider bind_group_provider.BindGroupProvider) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.computeProvider = provider
}

func workGroups(boneCount int32, instanceCount int) [3]uint32 {
	const warp = 32
	y := (uint32(instanceCount) + warp - 1) / warp
	if y == 0 {
		y = 1
	}
	return [3]uint32{uint32(boneCount), y, 1}
}

func (p *pipelineImpl) Dispatch(m asset.Model, inputs []PerInstanceInput) ([][]BoneMatrix, [][]BoundingSphere, error) {
	p.mu.Lock()
	if uint32(len(inputs)) > p.maxInstances {
		p.mu.Unlock()
		p.Grow(uint32(len(inputs)))
		p.mu.Lock()
	}
	provider := p.computeProvider
	p.mu.Unlock()

	trs := make([][]BoneTRS, len(inputs))
	key := pipelineKeyTransform
	for i, in := range inputs {
		if in.HeadLRClip >= 0 || in.HeadUDClip >= 0 {
			key = pipelineKeyTransformHeadMove
		}
		trs[i] = SampleTRS(m, in)
	}

	if err := p.r.BeginComputeFrame(); err != nil {
		return nil, nil, err
	}
	p.r.WriteBuffers([]bind_group_provider.BufferWrite{{Provider: provider, Binding: 0, Data: MarshalPerInstance(inputs)}})
	p.r.DispatchCompute(key, provider, workGroups(m.BoneCount(), len(inputs)))
	p.r.EndComputeFrame()

	matrices := make([][]BoneMatrix, len(inputs))
	for i := range inputs {
		matrices[i] = ComposeBoneMatrices(m, trs[i])
	}
	if err := p.r.BeginComputeFrame(); err != nil {
		return nil, nil, err
	}
	p.r.DispatchCompute(pipelineKeyMatrixMult, provider, workGroups(m.BoneCount(), len(inputs)))
	p.r.EndComputeFrame()

	spheres := make([][]BoundingSphere, len(inputs))
	for i := range inputs {
		spheres[i] = ComputeBoundingSpheres(m, matrices[i])
	}
	if err := p.r.BeginComputeFrame(); err != nil {
		return nil, nil, err
	}
	p.r.DispatchCompute(pipelineKeyBoundingSpheres, provider, workGroups(m.BoneCount(), len(inputs)))
	p.r.EndComputeFrame()
	p.r.HostReadBarrier()

	return matrices, spheres, nil
}
