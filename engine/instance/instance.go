// Package instance implements the per-entity runtime record (§3 Instance)
// and the registry that maintains its index-position lifecycle invariant
// (§8 property 1): a global list plus a per-model list, both kept in sync
// on every structural change, with a sentinel null instance at index 0.
package instance

import (
	"sync/atomic"

	"github.com/oxyengine/charanim/engine/asset"
)

// MoveState enumerates the instance's current movement animation state.
type MoveState int

const (
	MoveIdle MoveState = iota
	MoveWalk
	MoveRun
	MoveJump
	MoveHop
	MovePick
	MovePunch
	MoveRoll
	MoveKick
	MoveInteract
	MoveWave
)

// MoveDirection is a bitset over the four planar movement directions.
type MoveDirection uint8

const (
	DirForward MoveDirection = 1 << iota
	DirBack
	DirLeft
	DirRight
)

// FaceAnim enumerates the facial-expression morph target selection.
type FaceAnim int

const (
	FaceNone FaceAnim = iota
	FaceAngry
	FaceWorried
	FaceSurprised
	FaceHappy
)

// AnimationState is the per-instance clip-blend state consumed by Animation
// Stage 1 (§4.2).
type AnimationState struct {
	FirstClip, SecondClip         int32
	FirstPlayhead, SecondPlayhead float32
	BlendFactor                   float32
	SpeedFactor                   float32
}

// HeadLookState is the per-instance head-move additive input to Stage 1.
type HeadLookState struct {
	LeftRight float32 // [-1, +1]
	UpDown    float32 // [-1, +1]
}

// MovementState is the instance's locomotion state machine snapshot.
type MovementState struct {
	State        MoveState
	NextState    MoveState
	Direction    MoveDirection
	ForwardSpeed float32
}

// PhysicsState is the instance's per-frame ground/collision bookkeeping
// (§4.4/§4.5).
type PhysicsState struct {
	OnGround                bool
	CurrentGroundTriangle   int32 // -1 when airborne or off any triangle
	CollidingTriangles      []int32
	NeighborGroundTriangles []int32
}

// NavigationState is the instance's path-following state (§4.7).
type NavigationState struct {
	Enabled          bool
	PathTargetInstance int32 // -1 when unset
	PathStartTri     int32
	PathTargetTri    int32
	PathToTarget     []int32
}

// Instance is a single scene entity bound to a Model (§3). Unlike the
// sample-and-derive approach of a GPU-resident animator, transform and
// animation state live directly on the Instance; the animation pipeline
// reads them once per frame to fill its perInstance input vector.
type Instance interface {
	ID() uint64
	Enabled() bool
	SetEnabled(bool)

	Model() asset.Model
	SetModel(asset.Model)

	WorldPosition() [3]float32
	SetWorldPosition([3]float32)
	WorldRotation() [3]float32 // Euler degrees
	SetWorldRotation([3]float32)
	Scale() [3]float32
	SetScale([3]float32)

	Animation() AnimationState
	SetAnimation(AnimationState)

	FaceAnim() (FaceAnim, float32)
	SetFaceAnim(FaceAnim, float32)

	HeadLook() HeadLookState
	SetHeadLook(HeadLookState)

	Movement() MovementState
	SetMovement(MovementState)

	Physics() PhysicsState
	SetPhysics(PhysicsState)

	Navigation() NavigationState
	SetNavigation(NavigationState)

	NodeTreeName() string
	SetNodeTreeName(string)

	BoundingBox() asset.AABB
	SetBoundingBox(asset.AABB)

	// IndexPosition returns the instance's current index into the
	// registry's global list, or -1 if detached.
	IndexPosition() int
	// PerModelIndexPosition returns the instance's current index into
	// its model's per-model list, or -1 if detached.
	PerModelIndexPosition() int
}

type instance struct {
	id      uint64
	enabled atomic.Bool
	mdl     asset.Model

	worldPosition [3]float32
	worldRotation [3]float32
	scale         [3]float32

	anim      AnimationState
	face      FaceAnim
	faceW     float32
	headLook  HeadLookState
	movement  MovementState
	physics   PhysicsState
	nav       NavigationState
	nodeTree  string
	boundingBox asset.AABB

	indexPosition        int
	perModelIndexPosition int
}

var _ Instance = &instance{}

func newInstance() *instance {
	return &instance{
		scale:                 [3]float32{1, 1, 1},
		indexPosition:         -1,
		perModelIndexPosition: -1,
		physics:               PhysicsState{CurrentGroundTriangle: -1},
		nav:                   NavigationState{PathTargetInstance: -1},
	}
}

func (i *instance) ID() uint64        { return i.id }
func (i *instance) Enabled() bool     { return i.enabled.Load() }
func (i *instance) SetEnabled(v bool) { i.enabled.Store(v) }

func (i *instance) Model() asset.Model     { return i.mdl }
func (i *instance) SetModel(m asset.Model) { i.mdl = m }

func (i *instance) WorldPosition() [3]float32     { return i.worldPosition }
func (i *instance) SetWorldPosition(p [3]float32) { i.worldPosition = p }
func (i *instance) WorldRotation() [3]float32     { return i.worldRotation }
func (i *instance) SetWorldRotation(r [3]float32) { i.worldRotation = r }
func (i *instance) Scale() [3]float32             { return i.scale }
func (i *instance) SetScale(s [3]float32)         { i.scale = s }

func (i *instance) Animation() AnimationState     { return i.anim }
func (i *instance) SetAnimation(a AnimationState) { i.anim = a }

func (i *instance) FaceAnim() (FaceAnim, float32) { return i.face, i.faceW }
func (i *instance) SetFaceAnim(f FaceAnim, w float32) {
	i.face = f
	i.faceW = w
}

func (i *instance) HeadLook() HeadLookState     { return i.headLook }
func (i *instance) SetHeadLook(h HeadLookState) { i.headLook = h }

func (i *instance) Movement() MovementState     { return i.movement }
func (i *instance) SetMovement(m MovementState) { i.movement = m }

func (i *instance) Physics() PhysicsState     { return i.physics }
func (i *instance) SetPhysics(p PhysicsState) { i.physics = p }

func (i *instance) Navigation() NavigationState     { return i.nav }
func (i *instance) SetNavigation(n NavigationState) { i.nav = n }

func (i *instance) NodeTreeName() string     { return i.nodeTree }
func (i *instance) SetNodeTreeName(s string) { i.nodeTree = s }

func (i *instance) BoundingBox() asset.AABB     { return i.boundingBox }
func (i *instance) SetBoundingBox(b asset.AABB) { i.boundingBox = b }

func (i *instance) IndexPosition() int        { return i.indexPosition }
func (i *instance) PerModelIndexPosition() int { return i.perModelIndexPosition }
