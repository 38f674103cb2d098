package collision

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxyengine/charanim/engine/spatial"
)

func flatCfg() LevelConfig {
	return LevelConfig{MaxSlopeAngleDegrees: 45, MaxStairStepHeight: 0.3, GravityEnabled: true, FootClearance: 0.05}
}

func groundQuad() *spatial.Octree[spatial.Triangle] {
	up := [3]float32{0, 1, 0}
	c := [4][3]float32{{-10, 0, -10}, {10, 0, -10}, {10, 0, 10}, {-10, 0, 10}}
	tris := []spatial.Triangle{
		spatial.NewTriangle(0, c[0], c[1], c[2], up),
		spatial.NewTriangle(1, c[0], c[2], c[3], up),
	}
	bounds := spatial.Box{Min: [3]float32{-10, -10, -10}, Max: [3]float32{10, 10, 10}}
	return spatial.NewTriangleOctree(bounds, 8, 6, 0.01, tris)
}

func TestClassifyWalkableFlatTriangle(t *testing.T) {
	tri := spatial.NewTriangle(0, [3]float32{0, 0, 0}, [3]float32{1, 0, 0}, [3]float32{1, 0, 1}, [3]float32{0, 1, 0})
	assert.Equal(t, ClassWalkable, Classify(flatCfg(), tri, 0))
}

func TestClassifyWallSteepTriangle(t *testing.T) {
	// A vertical triangle (normal pointing sideways) standing well above
	// the instance's feet, outside the stair-step window.
	tri := spatial.NewTriangle(0, [3]float32{0, 0, 0}, [3]float32{0, 5, 0}, [3]float32{1, 5, 0}, [3]float32{0, 0, 1})
	assert.Equal(t, ClassWall, Classify(flatCfg(), tri, 0))
}

func TestClassifyStairSmallVerticalStep(t *testing.T) {
	// A short, steep riser near the feet's height window qualifies as a
	// climbable stair rather than a wall.
	tri := spatial.NewTriangle(0, [3]float32{0, 0, 0}, [3]float32{0, 0.2, 0}, [3]float32{1, 0.2, 0}, [3]float32{0, 0, 1})
	assert.Equal(t, ClassStair, Classify(flatCfg(), tri, 0))
}

func TestQueryGroundSnapsOntoFlatFloor(t *testing.T) {
	tree := groundQuad()
	// footY sits just above the floor so the expanded feet box (footY -
	// clearance) still overlaps the floor's inflated triangle AABBs.
	footY := float32(0.02)
	box := spatial.Box{Min: [3]float32{-0.5, footY, -0.5}, Max: [3]float32{0.5, footY + 1, 0.5}}

	result := QueryGround(flatCfg(), tree, box, footY, 1.0/60, false)
	require.True(t, result.OnGround)
	assert.InDelta(t, 0, result.GroundY, 1e-3)
	assert.GreaterOrEqual(t, result.GroundTriangle, int32(0))
}

func TestQueryGroundFallsWhenAirborne(t *testing.T) {
	tree := New()
	box := spatial.Box{Min: [3]float32{-0.5, 99, -0.5}, Max: [3]float32{0.5, 100, 0.5}}

	result := QueryGround(flatCfg(), tree, box, 99, 1.0/60, false)
	assert.False(t, result.OnGround)
	assert.Less(t, result.GroundY, float32(99))
	assert.Equal(t, int32(-1), result.GroundTriangle)
}

// New builds an empty octree covering a region with nothing in it, standing
// in for "no level geometry nearby" without depending on spatial's own
// constructor name colliding with this package's identifiers.
func New() *spatial.Octree[spatial.Triangle] {
	return spatial.New[spatial.Triangle](spatial.Box{Min: [3]float32{-200, -200, -200}, Max: [3]float32{200, 200, 200}}, 8, 6)
}
