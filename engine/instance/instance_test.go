package instance

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oxyengine/charanim/engine/asset"
)

func TestNewInstanceDefaults(t *testing.T) {
	r := NewRegistry()
	inst := r.Add(asset.NewModel())

	assert.Equal(t, [3]float32{1, 1, 1}, inst.Scale())
	assert.Equal(t, int32(-1), inst.Physics().CurrentGroundTriangle)
	assert.Equal(t, int32(-1), inst.Navigation().PathTargetInstance)
	assert.True(t, inst.Enabled())
}

func TestInstanceSettersRoundTrip(t *testing.T) {
	r := NewRegistry()
	inst := r.Add(asset.NewModel())

	inst.SetWorldPosition([3]float32{1, 2, 3})
	inst.SetWorldRotation([3]float32{0, 90, 0})
	inst.SetScale([3]float32{2, 2, 2})
	inst.SetAnimation(AnimationState{FirstClip: 1, BlendFactor: 0.5})
	inst.SetFaceAnim(FaceHappy, 0.75)
	inst.SetHeadLook(HeadLookState{LeftRight: 0.5})
	inst.SetMovement(MovementState{State: MoveWalk, ForwardSpeed: 2})
	inst.SetNodeTreeName("patrol")
	inst.SetEnabled(false)

	assert.Equal(t, [3]float32{1, 2, 3}, inst.WorldPosition())
	assert.Equal(t, [3]float32{0, 90, 0}, inst.WorldRotation())
	assert.Equal(t, [3]float32{2, 2, 2}, inst.Scale())
	assert.Equal(t, AnimationState{FirstClip: 1, BlendFactor: 0.5}, inst.Animation())
	face, weight := inst.FaceAnim()
	assert.Equal(t, FaceHappy, face)
	assert.Equal(t, float32(0.75), weight)
	assert.Equal(t, float32(0.5), inst.HeadLook().LeftRight)
	assert.Equal(t, MoveWalk, inst.Movement().State)
	assert.Equal(t, "patrol", inst.NodeTreeName())
	assert.False(t, inst.Enabled())
}
