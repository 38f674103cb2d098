package orchestrator

import (
	"math"
	"math/rand"
	"sync"

	"github.com/Carmen-Shannon/automation/tools/worker"

	"github.com/oxyengine/charanim/engine/animation"
	"github.com/oxyengine/charanim/engine/asset"
	"github.com/oxyengine/charanim/engine/behavior"
	"github.com/oxyengine/charanim/engine/collision"
	"github.com/oxyengine/charanim/engine/ik"
	"github.com/oxyengine/charanim/engine/instance"
	"github.com/oxyengine/charanim/engine/spatial"
	"github.com/oxyengine/charanim/mathx"
)

// Update advances the simulation one frame: §4.9 steps 1-10 (camera, the
// animation pipeline, IK, ground/collision, navigation and behavior). Steps
// 11-14 (drawing) are Render's responsibility.
func (o *Orchestrator) Update(deltaTime float32) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.cam != nil {
		o.cam.Update() // step 2: camera reads its controller's accumulated input
	}

	o.applyMovement(deltaTime) // forward motion driven by moveState, ahead of the animation dispatch

	byModel := o.groupByModel()
	matricesByInstance := make(map[uint64][]animation.BoneMatrix)
	spheresByInstance := make(map[uint64][]animation.BoundingSphere)

	// Each model's Stage 1/Stage 2 dispatch is independent of every other
	// model's, so it is submitted to the animation worker pool and awaited
	// with a per-frame WaitGroup barrier (step 4).
	var wg sync.WaitGroup
	var mu sync.Mutex
	var dispatchErr error
	taskID := 0
	for m, insts := range byModel {
		if len(insts) == 0 {
			continue
		}
		// Resolved here, on the Update goroutine, so concurrent tasks never
		// race on the o.pipelines map; each task only touches its own entry.
		pipeline := o.pipelineFor(m)
		mCap, instsCap := m, insts
		wg.Add(1)
		id := taskID
		taskID++
		o.animPool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()

				inputs := make([]animation.PerInstanceInput, len(instsCap))
				for i, inst := range instsCap {
					inputs[i] = perInstanceInputFor(inst)
				}

				pipeline.Grow(uint32(len(instsCap)))
				matrices, spheres, err := pipeline.Dispatch(mCap, inputs) // Stage 1 + Stage 2 (+ Stage 3, reused in step 7)
				if err != nil {
					mu.Lock()
					if dispatchErr == nil {
						dispatchErr = err
					}
					mu.Unlock()
					return nil, err
				}

				mu.Lock()
				for i, inst := range instsCap {
					if o.cfg.IKEnabled {
						matrices[i] = o.resolveFootIK(mCap, inst, matrices[i]) // step 5
					}
					matricesByInstance[inst.ID()] = matrices[i]
					spheresByInstance[inst.ID()] = spheres[i]
				}
				mu.Unlock()
				return nil, nil
			},
		})
	}
	wg.Wait()
	if dispatchErr != nil {
		return dispatchErr
	}

	var events []behavior.Event
	if o.level != nil {
		events = append(events, o.updateGroundAndBroadPhase(deltaTime, spheresByInstance)...) // steps 6-8
	}

	if o.cfg.NavigationEnabled && o.level != nil && o.level.NavGraph != nil {
		o.tickNavigation(deltaTime) // step 9
	}

	for _, ev := range events {
		o.behaviors.PostEvent(ev)
	}
	o.behaviors.Tick(o.instanceIsLive, o.routeBehaviorAction) // step 10

	o.lastMatrices = matricesByInstance

	rootSpheres := make(map[uint64]animation.BoundingSphere, len(spheresByInstance))
	for id, spheres := range spheresByInstance {
		if len(spheres) > 0 {
			rootSpheres[id] = spheres[0]
		}
	}
	o.lastRootSphere = rootSpheres
	return nil
}

// applyMovement integrates each enabled instance's position by its current
// forward speed along its facing direction, the motion §4.9 describes as
// "driven by moveState from the behavior tree" ahead of the ground query.
func (o *Orchestrator) applyMovement(deltaTime float32) {
	for _, inst := range o.instances.All() {
		if !inst.Enabled() {
			continue
		}
		mv := inst.Movement()
		if mv.ForwardSpeed == 0 {
			continue
		}
		yaw := inst.WorldRotation()[1]
		rad := float64(yaw) * math.Pi / 180
		dir := [3]float32{float32(math.Sin(rad)), 0, float32(math.Cos(rad))}
		delta := mathx.Vec3Scale(dir, mv.ForwardSpeed*deltaTime)
		inst.SetWorldPosition(mathx.Vec3Add(inst.WorldPosition(), delta))
	}
}

func (o *Orchestrator) groupByModel() map[asset.Model][]instance.Instance {
	out := make(map[asset.Model][]instance.Instance)
	for _, inst := range o.instances.All() {
		if !inst.Enabled() {
			continue
		}
		m := inst.Model()
		out[m] = append(out[m], inst)
	}
	return out
}

// perInstanceInputFor converts an Instance's animation state into the
// Stage 1 input vector (§4.9 step 3 "build per-instance animation data").
func perInstanceInputFor(inst instance.Instance) animation.PerInstanceInput {
	a := inst.Animation()
	head := inst.HeadLook()
	hl := inst.Model().Settings().HeadMove

	in := animation.PerInstanceInput{
		ClipA:      a.FirstClip,
		ClipB:      a.SecondClip,
		TA:         a.FirstPlayhead,
		TB:         a.SecondPlayhead,
		Blend:      a.BlendFactor,
		HeadLRClip: -1,
		HeadUDClip: -1,
		HeadLRTime: head.LeftRight,
		HeadUDTime: head.UpDown,
	}
	if head.LeftRight > 0 {
		in.HeadLRClip = hl.Right
	} else if head.LeftRight < 0 {
		in.HeadLRClip = hl.Left
	}
	if head.UpDown > 0 {
		in.HeadUDClip = hl.Up
	} else if head.UpDown < 0 {
		in.HeadUDClip = hl.Down
	}
	return in
}

// resolveFootIK implements §4.9 step 5 and §4.6: for every foot chain
// authored on the model, pull the chain's joint positions out of the
// composed world matrices, solve FABRIK toward the instance's ground
// contact, and recompose only the affected bones. This runs purely on the
// CPU (not re-dispatched through the compute pipeline) since it corrects a
// handful of joints per instance rather than the whole skeleton.
func (o *Orchestrator) resolveFootIK(m asset.Model, inst instance.Instance, matrices []animation.BoneMatrix) []animation.BoneMatrix {
	chains := m.Settings().FootIKChains
	if len(chains) == 0 {
		return matrices
	}
	out := append([]animation.BoneMatrix(nil), matrices...)
	for _, chain := range chains {
		if len(chain.Joints) == 0 {
			continue
		}
		joints := make([][3]float32, len(chain.Joints))
		for i, b := range chain.Joints {
			joints[i] = translationOf(out[b])
		}
		fkChain := ik.NewChain(joints)

		target := joints[0]
		target[1] = inst.BoundingBox().Min[1] // drop the effector to the cached ground height
		solved := ik.Solve(fkChain, target, o.cfg.IKIterations, 1e-3)

		for i, b := range chain.Joints {
			out[b].M[12] = solved.Joints[i][0]
			out[b].M[13] = solved.Joints[i][1]
			out[b].M[14] = solved.Joints[i][2]
		}
	}
	return out
}

func translationOf(m animation.BoneMatrix) [3]float32 {
	return [3]float32{m.M[12], m.M[13], m.M[14]}
}

// updateGroundAndBroadPhase implements §4.9 steps 6-8: per-instance ground
// queries and physics state, octree insertion, broad-phase collision
// resolution and border checks. Returns the behavior events raised this
// frame.
func (o *Orchestrator) updateGroundAndBroadPhase(deltaTime float32, spheres map[uint64][]animation.BoundingSphere) []behavior.Event {
	var events []behavior.Event
	var handles []spatial.Item[handle]

	for _, inst := range o.instances.All() {
		if !inst.Enabled() {
			continue
		}
		box := toBox(inst.BoundingBox())
		footY := inst.WorldPosition()[1]
		wasOnGround := inst.Physics().OnGround

		result := collision.QueryGround(o.cfg.Collision, o.level.Geometry, box, footY, deltaTime, wasOnGround)

		pos := inst.WorldPosition()
		pos[1] = result.GroundY
		inst.SetWorldPosition(pos)

		phys := inst.Physics()
		phys.OnGround = result.OnGround
		phys.CurrentGroundTriangle = result.GroundTriangle
		inst.SetPhysics(phys)

		newBox := toBox(inst.BoundingBox())
		newBox.Min[1], newBox.Max[1] = pos[1]+(newBox.Min[1]-box.Min[1]), pos[1]+(newBox.Max[1]-box.Max[1])
		inst.SetBoundingBox(toAABB(newBox))

		if ev := collision.WorldBorderCheck(inst.ID(), newBox, o.cfg.WorldBounds); ev != nil {
			events = append(events, *ev)
		}
		if ev := collision.LevelCollisionEvent(inst.ID(), result); ev != nil {
			events = append(events, *ev)
		}

		handles = append(handles, spatial.Item[handle]{Payload: handle{inst: inst}, Box: newBox})
	}

	if !o.cfg.CollisionEnabled {
		return events
	}

	tree := spatial.New[handle](o.level.Bounds, o.cfg.OctreeThreshold, o.cfg.OctreeMaxDepth)
	for _, h := range handles {
		tree.Insert(h.Payload, h.Box)
	}
	pairs := tree.FindAllIntersections()

	result := collision.Resolve(pairs, o.cfg.NarrowPhaseEnabled,
		func(id uint64) ([]collision.BoneSphere, bool) {
			s, ok := spheres[id]
			if !ok {
				return nil, false
			}
			out := make([]collision.BoneSphere, len(s))
			for i, sp := range s {
				out[i] = collision.BoneSphere{Center: sp.Center, Radius: sp.Radius}
			}
			return out, true
		},
		func(a, b uint64) bool {
			ai, bi := o.instances.GetByID(a), o.instances.GetByID(b)
			return ai.Navigation().PathTargetInstance == int32(b) || bi.Navigation().PathTargetInstance == int32(a)
		},
	)
	events = append(events, result.Events...)
	return events
}

func (o *Orchestrator) instanceIsLive(instanceID uint64) bool {
	inst := o.instances.GetByID(instanceID)
	return inst.IndexPosition() > 0
}

// routeBehaviorAction is the behavior.ActionCallback: it applies one node's
// output to the target instance's state (§4.8 "routes to §3/Instance
// mutations").
func (o *Orchestrator) routeBehaviorAction(instanceID uint64, nodeType behavior.NodeType, kind behavior.UpdateKind, value float32, flag bool) {
	inst := o.instances.GetByID(instanceID)
	if inst.IndexPosition() <= 0 {
		return
	}
	o.markDirty()

	switch kind {
	case behavior.UpdateMoveState:
		mv := inst.Movement()
		mv.State = instance.MoveState(int(value))
		inst.SetMovement(mv)
	case behavior.UpdateMoveDirection:
		mv := inst.Movement()
		mv.Direction = instance.MoveDirection(uint8(value))
		inst.SetMovement(mv)
	case behavior.UpdateRotationAbsolute:
		r := inst.WorldRotation()
		r[1] = value
		inst.SetWorldRotation(r)
	case behavior.UpdateRotationRelative:
		r := inst.WorldRotation()
		r[1] += value
		inst.SetWorldRotation(r)
	case behavior.UpdatePosition:
		// A position node drives vertical displacement (e.g. a jump arc);
		// planar motion is driven by forwardSpeed/moveState instead (§4.9
		// step "forward motion is driven by moveState").
		p := inst.WorldPosition()
		if flag {
			p[1] += value
		} else {
			p[1] = value
		}
		inst.SetWorldPosition(p)
	case behavior.UpdateForwardSpeed:
		mv := inst.Movement()
		mv.ForwardSpeed = value
		inst.SetMovement(mv)
	case behavior.UpdateFaceAnimSelect:
		_, w := inst.FaceAnim()
		inst.SetFaceAnim(instance.FaceAnim(int(value)), w)
	case behavior.UpdateFaceAnimWeight:
		f, _ := inst.FaceAnim()
		inst.SetFaceAnim(f, value)
	case behavior.UpdateHeadLook:
		h := inst.HeadLook()
		if flag {
			h.UpDown = value
		} else {
			h.LeftRight = value
		}
		inst.SetHeadLook(h)
	case behavior.UpdateRandomNavigation:
		o.assignRandomNavTarget(inst)
	}
}

// assignRandomNavTarget implements the randomNavigation node output (§4.8):
// pick a random instance among models flagged as navigation targets, assign
// it, and enable navigation.
func (o *Orchestrator) assignRandomNavTarget(inst instance.Instance) {
	var candidates []instance.Instance
	for _, other := range o.instances.All() {
		if other.ID() == inst.ID() || !other.Enabled() {
			continue
		}
		if other.Model().Settings().IsNavigationTarget {
			candidates = append(candidates, other)
		}
	}
	if len(candidates) == 0 {
		return
	}
	chosen := candidates[rand.Intn(len(candidates))]
	nv := inst.Navigation()
	nv.Enabled = true
	nv.PathTargetInstance = int32(chosen.ID())
	inst.SetNavigation(nv)
}
