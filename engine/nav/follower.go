package nav

import "math"

// FollowState is the subset of an instance's navigation state the follower
// reads and mutates (mirrors engine/instance.NavigationState without
// importing that package, keeping nav free of an instance dependency).
type FollowState struct {
	Enabled            bool
	PathTargetInstance int32
	PathStartTri       int32
	PathTargetTri      int32
	PathToTarget       []int32
}

// FollowResult is the follower's per-tick output (§4.7 "per-instance
// follower").
type FollowResult struct {
	State          FollowState
	Waypoint       [3]float32
	HasWaypoint    bool
	TurnTowardRads float32 // signed yaw delta to apply this tick, clamped to turnRate*dt
	Disabled       bool
}

// Tick implements the §4.7 per-instance follower: replans when either
// endpoint's ground triangle changed since the last plan, trims the first
// and last triangles from a successful plan, and steers toward the first
// remaining triangle's center at the configured turn rate.
func (gr *Graph) Tick(state FollowState, currentGroundTri, targetGroundTri int32, instancePos [3]float32, instanceYaw float32, turnRateRadPerSec, deltaTime float32) FollowResult {
	if !state.Enabled {
		return FollowResult{State: state}
	}

	needsReplan := len(state.PathToTarget) == 0 ||
		state.PathStartTri != currentGroundTri ||
		state.PathTargetTri != targetGroundTri

	if needsReplan {
		if currentGroundTri < 0 || targetGroundTri < 0 {
			return FollowResult{State: state}
		}
		plan := gr.FindPath(currentGroundTri, targetGroundTri)
		if len(plan) == 0 {
			return FollowResult{State: FollowState{Enabled: false, PathTargetInstance: -1}, Disabled: true}
		}
		state.PathToTarget = plan
		state.PathStartTri = currentGroundTri
		state.PathTargetTri = targetGroundTri
	}

	trimmed := trimEndpoints(state.PathToTarget)
	if len(trimmed) == 0 {
		return FollowResult{State: state}
	}

	waypoint, ok := gr.TriangleCenter(trimmed[0])
	if !ok {
		return FollowResult{State: state}
	}

	dx, dz := waypoint[0]-instancePos[0], waypoint[2]-instancePos[2]
	targetYaw := float32(math.Atan2(float64(dx), float64(dz)))
	delta := angleDelta(instanceYaw, targetYaw)
	maxStep := turnRateRadPerSec * deltaTime
	if delta > maxStep {
		delta = maxStep
	} else if delta < -maxStep {
		delta = -maxStep
	}

	return FollowResult{State: state, Waypoint: waypoint, HasWaypoint: true, TurnTowardRads: delta}
}

func trimEndpoints(path []int32) []int32 {
	if len(path) <= 2 {
		return nil
	}
	return path[1 : len(path)-1]
}

func angleDelta(from, to float32) float32 {
	d := to - from
	for d > math.Pi {
		d -= 2 * math.Pi
	}
	for d < -math.Pi {
		d += 2 * math.Pi
	}
	return d
}
