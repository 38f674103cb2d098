package nav

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxyengine/charanim/engine/spatial"
)

// doubleQuadStrip builds two adjacent quads (triangles 0-1, 2-3) that form a
// four-node strip graph: 1-0-3-2 is the only path between triangles 1 and 2.
func doubleQuadStrip(t *testing.T) *Graph {
	t.Helper()
	tris := append(quad(0), quad(1)...)
	tris[2].Index, tris[3].Index = 2, 3
	return BuildGraph(tris)
}

func TestFollowerTickPlansAndTrimsEndpoints(t *testing.T) {
	g := doubleQuadStrip(t)
	state := FollowState{Enabled: true, PathTargetInstance: 9}

	result := g.Tick(state, 1, 2, [3]float32{0, 0, 0}, 0, 10, 1)

	require.True(t, result.HasWaypoint)
	assert.Equal(t, []int32{1, 0, 3, 2}, result.State.PathToTarget)
	assert.Equal(t, int32(1), result.State.PathStartTri)
	assert.Equal(t, int32(2), result.State.PathTargetTri)

	wantCenter, ok := g.TriangleCenter(0)
	require.True(t, ok)
	assert.Equal(t, wantCenter, result.Waypoint)
}

func TestFollowerTickReplansWhenStartTriangleChanges(t *testing.T) {
	g := doubleQuadStrip(t)
	state := FollowState{Enabled: true}

	first := g.Tick(state, 1, 2, [3]float32{0, 0, 0}, 0, 10, 1)
	require.Equal(t, []int32{1, 0, 3, 2}, first.State.PathToTarget)

	second := g.Tick(first.State, 0, 2, [3]float32{0, 0, 0}, 0, 10, 1)
	assert.Equal(t, []int32{0, 3, 2}, second.State.PathToTarget)
	assert.Equal(t, int32(0), second.State.PathStartTri)
}

func TestFollowerTickHasNoWaypointWhenTrimmedPathIsEmpty(t *testing.T) {
	g := BuildGraph(quad(0))
	state := FollowState{Enabled: true}

	result := g.Tick(state, 0, 1, [3]float32{0, 0, 0}, 0, 10, 1)

	assert.Equal(t, []int32{0, 1}, result.State.PathToTarget)
	assert.False(t, result.HasWaypoint)
	assert.Equal(t, float32(0), result.TurnTowardRads)
}

func TestFollowerTickDisablesStateWhenUnreachable(t *testing.T) {
	tris := append(quad(0), quad(100)...)
	tris[2].Index, tris[3].Index = 2, 3
	g := BuildGraph(tris)
	state := FollowState{Enabled: true}

	result := g.Tick(state, 0, 2, [3]float32{0, 0, 0}, 0, 10, 1)

	assert.True(t, result.Disabled)
	assert.False(t, result.State.Enabled)
	assert.Equal(t, int32(-1), result.State.PathTargetInstance)
}

func TestFollowerTickDisabledStateIsNoop(t *testing.T) {
	g := doubleQuadStrip(t)
	state := FollowState{Enabled: false}

	result := g.Tick(state, 1, 2, [3]float32{0, 0, 0}, 0, 10, 1)

	assert.Equal(t, state, result.State)
	assert.False(t, result.HasWaypoint)
	assert.False(t, result.Disabled)
}

func TestFollowerTickClampsTurnToTurnRate(t *testing.T) {
	g := doubleQuadStrip(t)
	state := FollowState{Enabled: true}

	// Triangle 0's center is well off the +Z axis from the origin, so the
	// raw heading delta is much larger than a slow turn rate allows.
	const turnRate = float32(0.1) // rad/s
	const dt = float32(1)
	result := g.Tick(state, 1, 2, [3]float32{0, 0, 0}, 0, turnRate, dt)

	require.True(t, result.HasWaypoint)
	assert.InDelta(t, turnRate*dt, result.TurnTowardRads, 1e-5)
}

func TestFollowerTickSteersWithinUnclampedRange(t *testing.T) {
	g := doubleQuadStrip(t)
	state := FollowState{Enabled: true}

	result := g.Tick(state, 1, 2, [3]float32{0, 0, 0}, 0, 100, 1)

	waypoint := result.Waypoint
	wantYaw := float32(math.Atan2(float64(waypoint[0]), float64(waypoint[2])))
	assert.InDelta(t, wantYaw, result.TurnTowardRads, 1e-4)
}
