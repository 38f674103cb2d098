package collision

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxyengine/charanim/engine/behavior"
	"github.com/oxyengine/charanim/engine/spatial"
)

type fakeHandle struct {
	id  uint64
	box spatial.Box
}

func (f fakeHandle) ID() uint64              { return f.id }
func (f fakeHandle) BoundingBox() spatial.Box { return f.box }

func unitBoxAt(id uint64, center [3]float32) fakeHandle {
	return fakeHandle{id: id, box: spatial.Box{
		Min: [3]float32{center[0] - 0.5, center[1] - 0.5, center[2] - 0.5},
		Max: [3]float32{center[0] + 0.5, center[1] + 0.5, center[2] + 0.5},
	}}
}

func noAnimation(uint64) ([]BoneSphere, bool) { return nil, false }
func noNavTarget(uint64, uint64) bool         { return false }

func TestResolveEmitsSymmetricCollisionEventsForEachBroadPair(t *testing.T) {
	a, b := unitBoxAt(1, [3]float32{0, 0, 0}), unitBoxAt(2, [3]float32{0.2, 0, 0})
	pairs := []spatial.Pair[InstanceHandle]{{A: a, B: b}}

	result := Resolve(pairs, false, noAnimation, noNavTarget)

	require.Len(t, result.Events, 2)
	assert.Equal(t, behavior.Event{InstanceID: 1, OtherID: 2, Kind: behavior.EventInstanceToInstanceCollision}, result.Events[0])
	assert.Equal(t, behavior.Event{InstanceID: 2, OtherID: 1, Kind: behavior.EventInstanceToInstanceCollision}, result.Events[1])
}

func TestResolveEmitsNavTargetReachedWhenLookupSaysSo(t *testing.T) {
	a, b := unitBoxAt(1, [3]float32{0, 0, 0}), unitBoxAt(2, [3]float32{0, 0, 0})
	pairs := []spatial.Pair[InstanceHandle]{{A: a, B: b}}

	navTarget := func(x, y uint64) bool { return x == 1 && y == 2 }
	result := Resolve(pairs, false, noAnimation, navTarget)

	var sawNavTarget bool
	for _, ev := range result.Events {
		if ev.Kind == behavior.EventNavTargetReached {
			sawNavTarget = true
			assert.Equal(t, uint64(1), ev.InstanceID)
			assert.Equal(t, uint64(2), ev.OtherID)
		}
	}
	assert.True(t, sawNavTarget)
}

func TestResolveNarrowPhaseDropsNonIntersectingAnimatedPairs(t *testing.T) {
	a, b := unitBoxAt(1, [3]float32{0, 0, 0}), unitBoxAt(2, [3]float32{0, 0, 0})
	pairs := []spatial.Pair[InstanceHandle]{{A: a, B: b}}

	far := func(id uint64) ([]BoneSphere, bool) {
		switch id {
		case 1:
			return []BoneSphere{{Center: [3]float32{0, 0, 0}, Radius: 0.1}}, true
		case 2:
			return []BoneSphere{{Center: [3]float32{100, 0, 0}, Radius: 0.1}}, true
		}
		return nil, false
	}

	result := Resolve(pairs, true, far, noNavTarget)
	assert.Empty(t, result.Events)
}

func TestResolveNarrowPhaseKeepsIntersectingAnimatedPairs(t *testing.T) {
	a, b := unitBoxAt(1, [3]float32{0, 0, 0}), unitBoxAt(2, [3]float32{0, 0, 0})
	pairs := []spatial.Pair[InstanceHandle]{{A: a, B: b}}

	close := func(id uint64) ([]BoneSphere, bool) {
		switch id {
		case 1:
			return []BoneSphere{{Center: [3]float32{0, 0, 0}, Radius: 1}}, true
		case 2:
			return []BoneSphere{{Center: [3]float32{0.5, 0, 0}, Radius: 1}}, true
		}
		return nil, false
	}

	result := Resolve(pairs, true, close, noNavTarget)
	assert.Len(t, result.Events, 2)
}

// TestResolveNarrowPhaseIsSubsetOfBroadPhase encodes §8's narrow-phase
// subset invariant directly: for any mix of intersecting and
// non-intersecting animated pairs, the narrow-phase-filtered collision
// events can never exceed what the broad phase proposed.
func TestResolveNarrowPhaseIsSubsetOfBroadPhase(t *testing.T) {
	pairs := []spatial.Pair[InstanceHandle]{
		{A: unitBoxAt(1, [3]float32{0, 0, 0}), B: unitBoxAt(2, [3]float32{0, 0, 0})},
		{A: unitBoxAt(3, [3]float32{0, 0, 0}), B: unitBoxAt(4, [3]float32{0, 0, 0})},
	}

	spheres := map[uint64]BoneSphere{
		1: {Center: [3]float32{0, 0, 0}, Radius: 1},
		2: {Center: [3]float32{0.5, 0, 0}, Radius: 1}, // intersects 1
		3: {Center: [3]float32{0, 0, 0}, Radius: 0.1},
		4: {Center: [3]float32{50, 0, 0}, Radius: 0.1}, // far from 3
	}
	lookup := func(id uint64) ([]BoneSphere, bool) {
		s, ok := spheres[id]
		if !ok {
			return nil, false
		}
		return []BoneSphere{s}, true
	}

	broad := Resolve(pairs, false, noAnimation, noNavTarget)
	narrow := Resolve(pairs, true, lookup, noNavTarget)

	assert.LessOrEqual(t, len(narrow.Events), len(broad.Events))
}

func TestWorldBorderCheckFlagsOutOfBoundsInstance(t *testing.T) {
	bounds := spatial.Box{Min: [3]float32{-10, -10, -10}, Max: [3]float32{10, 10, 10}}
	box := spatial.Box{Min: [3]float32{9, 0, 0}, Max: [3]float32{11, 1, 1}}

	ev := WorldBorderCheck(7, box, bounds)
	require.NotNil(t, ev)
	assert.Equal(t, behavior.EventInstanceToEdgeCollision, ev.Kind)
	assert.Equal(t, uint64(7), ev.InstanceID)
}

func TestWorldBorderCheckIgnoresInBoundsInstance(t *testing.T) {
	bounds := spatial.Box{Min: [3]float32{-10, -10, -10}, Max: [3]float32{10, 10, 10}}
	box := spatial.Box{Min: [3]float32{-1, -1, -1}, Max: [3]float32{1, 1, 1}}

	assert.Nil(t, WorldBorderCheck(7, box, bounds))
}

func TestLevelCollisionEventOnlyFiresWhileOnGround(t *testing.T) {
	assert.Nil(t, LevelCollisionEvent(1, GroundQueryResult{WallHit: true, OnGround: false}))

	ev := LevelCollisionEvent(1, GroundQueryResult{WallHit: true, OnGround: true})
	require.NotNil(t, ev)
	assert.Equal(t, behavior.EventInstanceToLevelCollision, ev.Kind)
}
