package animation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxyengine/charanim/engine/asset"
)

// constantChannel fills every lookup row with the same sample, so any
// playhead time within range produces the same value — isolating clip-blend
// and head-move math from the interpolation-sampling machinery.
func constantChannel(translation [3]float32, rotation [4]float32, scale [3]float32) asset.BoneChannel {
	var c asset.BoneChannel
	for i := range c.Translation {
		c.Translation[i] = asset.LookupRow{InverseTime: 1, Value: [4]float32{translation[0], translation[1], translation[2], 0}}
		c.Rotation[i] = asset.LookupRow{InverseTime: 1, Value: rotation}
		c.Scale[i] = asset.LookupRow{InverseTime: 1, Value: [4]float32{scale[0], scale[1], scale[2], 0}}
	}
	return c
}

func oneBoneTwoClipModel() asset.Model {
	clipA := []asset.BoneChannel{constantChannel([3]float32{1, 0, 0}, [4]float32{0, 0, 0, 1}, [3]float32{1, 1, 1})}
	clipB := []asset.BoneChannel{constantChannel([3]float32{3, 0, 0}, [4]float32{0, 0, 0, 1}, [3]float32{1, 1, 1})}
	return asset.NewModel(
		asset.WithSkeleton([]int32{-1}, []asset.Bone{{ParentIndex: -1}}),
		asset.WithClips(2, 1, [][]asset.BoneChannel{clipA, clipB}),
	)
}

func TestSampleTRSBlendsTranslationBetweenClips(t *testing.T) {
	m := oneBoneTwoClipModel()
	out := SampleTRS(m, PerInstanceInput{ClipA: 0, ClipB: 1, Blend: 0.25, HeadLRClip: -1, HeadUDClip: -1})

	require.Len(t, out, 1)
	assert.InDelta(t, 1.5, out[0].Translation[0], 1e-4) // lerp(1, 3, 0.25)
}

func TestSampleTRSBlendZeroIsAllClipA(t *testing.T) {
	m := oneBoneTwoClipModel()
	out := SampleTRS(m, PerInstanceInput{ClipA: 0, ClipB: 1, Blend: 0, HeadLRClip: -1, HeadUDClip: -1})
	assert.InDelta(t, 1, out[0].Translation[0], 1e-4)
}

func TestSampleTRSBlendOneIsAllClipB(t *testing.T) {
	m := oneBoneTwoClipModel()
	out := SampleTRS(m, PerInstanceInput{ClipA: 0, ClipB: 1, Blend: 1, HeadLRClip: -1, HeadUDClip: -1})
	assert.InDelta(t, 3, out[0].Translation[0], 1e-4)
}

func TestSampleTRSHeadMoveAppliesAfterClipBlend(t *testing.T) {
	// A 90-degree head-turn clip around Y, stacked on top of identity clips.
	headClip := []asset.BoneChannel{constantChannel([3]float32{0, 0, 0}, [4]float32{0, 0.7071068, 0, 0.7071068}, [3]float32{1, 1, 1})}
	identity := []asset.BoneChannel{constantChannel([3]float32{0, 0, 0}, [4]float32{0, 0, 0, 1}, [3]float32{1, 1, 1})}
	m := asset.NewModel(
		asset.WithSkeleton([]int32{-1}, []asset.Bone{{ParentIndex: -1}}),
		asset.WithClips(2, 1, [][]asset.BoneChannel{identity, headClip}),
	)

	withHead := SampleTRS(m, PerInstanceInput{ClipA: 0, ClipB: 0, Blend: 0, HeadLRClip: 1, HeadUDClip: -1, HeadLRTime: 1})
	withoutHead := SampleTRS(m, PerInstanceInput{ClipA: 0, ClipB: 0, Blend: 0, HeadLRClip: -1, HeadUDClip: -1})

	assert.NotEqual(t, withoutHead[0].Rotation, withHead[0].Rotation, "head-move clip should perturb the base rotation")
}

func TestSampleTRSNoHeadMoveWhenBothClipsDisabled(t *testing.T) {
	m := oneBoneTwoClipModel()
	out := SampleTRS(m, PerInstanceInput{ClipA: 0, ClipB: 1, Blend: 0, HeadLRClip: -1, HeadUDClip: -1})
	assert.Equal(t, [4]float32{0, 0, 0, 1}, out[0].Rotation)
}
