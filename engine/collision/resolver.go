package collision

import (
	"github.com/oxyengine/charanim/engine/behavior"
	"github.com/oxyengine/charanim/engine/spatial"
)

// InstanceHandle is the minimal view of an instance the resolver needs.
// The orchestrator converts asset.AABB to spatial.Box before calling in.
type InstanceHandle interface {
	ID() uint64
	BoundingBox() spatial.Box
}

// BoneSphere is one bone's bounding sphere, used by the narrow phase.
type BoneSphere struct {
	Center [3]float32
	Radius float32
}

// AnimatedLookup resolves, for a given instance id, whether it has a
// skeleton (bones) and its current per-bone bounding spheres (§4.2 Stage
// 3). Static instances (no bones) are always treated as static-pair
// candidates per §4.5.
type AnimatedLookup func(instanceID uint64) (spheres []BoneSphere, animated bool)

// NavTargetLookup reports whether instance a is currently navigating
// toward instance b (or vice versa), used to fire navTargetReached.
type NavTargetLookup func(a, b uint64) bool

// ResolveResult is the output of one frame's instance-to-instance
// resolution (§4.5).
type ResolveResult struct {
	Events []behavior.Event
}

func sphereIntersect(a, b BoneSphere) bool {
	if a.Radius == 0 || b.Radius == 0 {
		return false
	}
	dx, dy, dz := a.Center[0]-b.Center[0], a.Center[1]-b.Center[1], a.Center[2]-b.Center[2]
	distSq := dx*dx + dy*dy + dz*dz
	r := a.Radius + b.Radius
	return distSq <= r*r
}

// narrowPhase returns true if any pair of nonzero-radius spheres between
// the two instances intersect (§4.5 narrow phase).
func narrowPhase(a, b []BoneSphere) bool {
	for _, sa := range a {
		for _, sb := range b {
			if sphereIntersect(sa, sb) {
				return true
			}
		}
	}
	return false
}

// Resolve implements §4.5: broad phase via octree.FindAllIntersections,
// narrow-phase filtering (optional) for animated-pair candidates, and
// event emission for every surviving pair plus any nav-target-reached
// interaction.
func Resolve(broadPairs []spatial.Pair[InstanceHandle], narrowPhaseEnabled bool, animated AnimatedLookup, navTarget NavTargetLookup) ResolveResult {
	var events []behavior.Event

	for _, pair := range broadPairs {
		aID, bID := pair.A.ID(), pair.B.ID()

		spheresA, animatedA := animated(aID)
		spheresB, animatedB := animated(bID)

		survives := true
		if narrowPhaseEnabled && animatedA && animatedB {
			survives = narrowPhase(spheresA, spheresB)
		}
		if !survives {
			continue
		}

		events = append(events,
			behavior.Event{InstanceID: aID, OtherID: bID, Kind: behavior.EventInstanceToInstanceCollision},
			behavior.Event{InstanceID: bID, OtherID: aID, Kind: behavior.EventInstanceToInstanceCollision},
		)

		if navTarget(aID, bID) {
			events = append(events, behavior.Event{InstanceID: aID, OtherID: bID, Kind: behavior.EventNavTargetReached})
		}
		if navTarget(bID, aID) {
			events = append(events, behavior.Event{InstanceID: bID, OtherID: aID, Kind: behavior.EventNavTargetReached})
		}
	}

	return ResolveResult{Events: events}
}

// WorldBorderCheck tests whether an instance's AABB has left the
// configured world bounds, emitting instanceToEdgeCollision (§4.5 "world-
// border test").
func WorldBorderCheck(instanceID uint64, box spatial.Box, worldBounds spatial.Box) *behavior.Event {
	if box.Min[0] < worldBounds.Min[0] || box.Max[0] > worldBounds.Max[0] ||
		box.Min[1] < worldBounds.Min[1] || box.Max[1] > worldBounds.Max[1] ||
		box.Min[2] < worldBounds.Min[2] || box.Max[2] > worldBounds.Max[2] {
		return &behavior.Event{InstanceID: instanceID, Kind: behavior.EventInstanceToEdgeCollision}
	}
	return nil
}

// LevelCollisionEvent builds the §4.4 step-6 event: emitted only while the
// instance is on-ground, to prevent spurious airborne wall events.
func LevelCollisionEvent(instanceID uint64, result GroundQueryResult) *behavior.Event {
	if result.WallHit && result.OnGround {
		return &behavior.Event{InstanceID: instanceID, Kind: behavior.EventInstanceToLevelCollision}
	}
	return nil
}
