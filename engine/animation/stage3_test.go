package animation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxyengine/charanim/engine/asset"
)

func TestComputeBoundingSpheresCenterUsesParentMidpoint(t *testing.T) {
	matrices := []BoneMatrix{
		{M: identityMat4()},                                  // root at origin
		{M: translatedMat4([3]float32{4, 0, 0})},             // child, 4 units along X
	}
	m := asset.NewModel(asset.WithSkeleton([]int32{-1, 0}, []asset.Bone{{ParentIndex: -1}, {ParentIndex: 0}}))

	out := ComputeBoundingSpheres(m, matrices)

	require.Len(t, out, 2)
	// root has no parent: center stays at its own translation.
	assert.Equal(t, [3]float32{0, 0, 0}, out[0].Center)
	// child's center moves to the bone/parent midpoint, not the bone's own joint.
	assert.Equal(t, [3]float32{2, 0, 0}, out[1].Center)
	assert.InDelta(t, 4, out[1].Radius, 1e-4)
}

func TestComputeBoundingSpheresAppliesPerBoneOffsetAndRadiusScale(t *testing.T) {
	matrices := []BoneMatrix{
		{M: identityMat4()},
		{M: translatedMat4([3]float32{2, 0, 0})},
	}
	m := asset.NewModel(
		asset.WithSkeleton([]int32{-1, 0}, []asset.Bone{{ParentIndex: -1}, {ParentIndex: 0}}),
		asset.WithSettings(asset.Settings{
			BoneSphereAdjust: []asset.BoundingSphereAdjust{
				{Offset: [3]float32{0, 0, 0}, RadiusScale: 1},
				{Offset: [3]float32{0, 1, 0}, RadiusScale: 0.5},
			},
		}),
	)

	out := ComputeBoundingSpheres(m, matrices)

	assert.Equal(t, [3]float32{1, 1, 0}, out[1].Center)
	assert.InDelta(t, 1, out[1].Radius, 1e-4) // distance 2 * radiusScale 0.5
}

func translatedMat4(t [3]float32) [16]float32 {
	m := identityMat4()
	m[12], m[13], m[14] = t[0], t[1], t[2]
	return m
}
