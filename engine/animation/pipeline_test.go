package animation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxyengine/charanim/engine/renderer/bind_group_provider"
)

type fakeRenderer struct {
	beginCount      int
	endCount        int
	dispatchKeys    []string
	hostBarrierHits int
}

func (f *fakeRenderer) BeginComputeFrame() error { f.beginCount++; return nil }
func (f *fakeRenderer) EndComputeFrame()         { f.endCount++ }
func (f *fakeRenderer) DispatchCompute(pipelineKey string, _ bind_group_provider.BindGroupProvider, _ [3]uint32) {
	f.dispatchKeys = append(f.dispatchKeys, pipelineKey)
}
func (f *fakeRenderer) WriteBuffers(_ []bind_group_provider.BufferWrite) {}
func (f *fakeRenderer) HostReadBarrier()                                { f.hostBarrierHits++ }

func TestPipelineDispatchRunsThreeStagesAndWaitsOnHostReadBarrier(t *testing.T) {
	fr := &fakeRenderer{}
	p := NewPipeline(fr)
	m := oneBoneTwoClipModel()

	matrices, spheres, err := p.Dispatch(m, []PerInstanceInput{{ClipA: 0, ClipB: 1, Blend: 0, HeadLRClip: -1, HeadUDClip: -1}})

	require.NoError(t, err)
	require.Len(t, matrices, 1)
	require.Len(t, spheres, 1)

	assert.Equal(t, 3, fr.beginCount, "Stage 1/2/3 each open their own compute frame")
	assert.Equal(t, 3, fr.endCount)
	assert.Equal(t, []string{pipelineKeyTransform, pipelineKeyMatrixMult, pipelineKeyBoundingSpheres}, fr.dispatchKeys)
	assert.Equal(t, 1, fr.hostBarrierHits, "the bounding spheres Dispatch returns must be readback-safe")
}

func TestPipelineDispatchSelectsHeadMoveTransformWhenHeadClipIsSet(t *testing.T) {
	fr := &fakeRenderer{}
	p := NewPipeline(fr)
	m := oneBoneTwoClipModel()

	_, _, err := p.Dispatch(m, []PerInstanceInput{{ClipA: 0, ClipB: 1, HeadLRClip: 0, HeadUDClip: -1}})

	require.NoError(t, err)
	require.NotEmpty(t, fr.dispatchKeys)
	assert.Equal(t, pipelineKeyTransformHeadMove, fr.dispatchKeys[0])
}

func TestPipelineGrowMarksNeedsRebuildOnlyWhenIncreasing(t *testing.T) {
	p := NewPipeline(&fakeRenderer{})
	p.Grow(4)
	assert.True(t, p.ClearNeedsRebuild())
	assert.False(t, p.NeedsRebuild())

	p.Grow(2) // shrinking request is a no-op
	assert.False(t, p.NeedsRebuild())
}
