package animation

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxyengine/charanim/engine/asset"
)

func identityMat4() [16]float32 { return [16]float32(mgl32.Ident4()) }

// twoBoneChainModel builds a root bone and a single child offset +1 on X,
// both with identity bind offsets, so Stage 2's world matrices can be
// checked directly against the accumulated local translations.
func twoBoneChainModel() asset.Model {
	clip := []asset.BoneChannel{
		constantChannel([3]float32{2, 0, 0}, [4]float32{0, 0, 0, 1}, [3]float32{1, 1, 1}),
		constantChannel([3]float32{1, 0, 0}, [4]float32{0, 0, 0, 1}, [3]float32{1, 1, 1}),
	}
	return asset.NewModel(
		asset.WithSkeleton(
			[]int32{-1, 0},
			[]asset.Bone{
				{ParentIndex: -1, BindOffset: identityMat4()},
				{ParentIndex: 0, BindOffset: identityMat4()},
			},
		),
		asset.WithClips(1, 1, [][]asset.BoneChannel{clip}),
	)
}

func TestComposeBoneMatricesRootIsLocalMatrix(t *testing.T) {
	m := twoBoneChainModel()
	trs := SampleTRS(m, PerInstanceInput{ClipA: 0, ClipB: 0, HeadLRClip: -1, HeadUDClip: -1})
	out := ComposeBoneMatrices(m, trs)

	require.Len(t, out, 2)
	assert.InDelta(t, 2, out[0].M[12], 1e-4)
	assert.InDelta(t, 0, out[0].M[13], 1e-4)
	assert.InDelta(t, 0, out[0].M[14], 1e-4)
}

func TestComposeBoneMatricesChildAccumulatesParentTranslation(t *testing.T) {
	m := twoBoneChainModel()
	trs := SampleTRS(m, PerInstanceInput{ClipA: 0, ClipB: 0, HeadLRClip: -1, HeadUDClip: -1})
	out := ComposeBoneMatrices(m, trs)

	// child's local translation (1,0,0) composed onto the root's world
	// translation (2,0,0) must land at (3,0,0), exploiting boneParent[1]=0 < 1.
	assert.InDelta(t, 3, out[1].M[12], 1e-4)
	assert.InDelta(t, 0, out[1].M[13], 1e-4)
	assert.InDelta(t, 0, out[1].M[14], 1e-4)
}
