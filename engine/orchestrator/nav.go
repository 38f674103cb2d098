package orchestrator

import (
	"math"

	"github.com/oxyengine/charanim/engine/nav"
)

// tickNavigation implements §4.9 step 9: for every instance with navigation
// enabled, advance its path-follow state one tick and apply the resulting
// facing turn.
func (o *Orchestrator) tickNavigation(deltaTime float32) {
	const turnRateRadPerSec = 3.0

	for _, inst := range o.instances.All() {
		if !inst.Enabled() {
			continue
		}
		nvState := inst.Navigation()
		if !nvState.Enabled {
			continue
		}

		targetTri := int32(-1)
		if nvState.PathTargetInstance >= 0 {
			target := o.instances.GetByID(uint64(nvState.PathTargetInstance))
			targetTri = target.Physics().CurrentGroundTriangle
		}

		yawRad := float32(float64(inst.WorldRotation()[1]) * math.Pi / 180)

		result := o.level.NavGraph.Tick(
			nav.FollowState{
				Enabled:            nvState.Enabled,
				PathTargetInstance: nvState.PathTargetInstance,
				PathStartTri:       nvState.PathStartTri,
				PathTargetTri:      nvState.PathTargetTri,
				PathToTarget:       nvState.PathToTarget,
			},
			inst.Physics().CurrentGroundTriangle,
			targetTri,
			inst.WorldPosition(),
			yawRad,
			turnRateRadPerSec,
			deltaTime,
		)

		nvState.Enabled = result.State.Enabled
		nvState.PathStartTri = result.State.PathStartTri
		nvState.PathTargetTri = result.State.PathTargetTri
		nvState.PathToTarget = result.State.PathToTarget
		inst.SetNavigation(nvState)

		if result.Disabled {
			continue
		}
		r := inst.WorldRotation()
		r[1] += float32(float64(result.TurnTowardRads) * 180 / math.Pi)
		inst.SetWorldRotation(r)
	}
}
