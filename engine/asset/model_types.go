package asset

// LookupRowCount is the fixed number of rows in every animLookup sequence and
// every per-clip AABB lookup. The layout is frozen per the animation curve
// format: row 0 carries the inverse-time scale factor used to map a clip
// phase into [0, LookupRowCount) before interpolating between adjacent rows.
const LookupRowCount = 1024

// LookupRow is one sample of an animation curve. InverseTime is the
// inverse-time scale factor stored for this row (used to convert a playhead
// time into a fractional row index); Value holds up to 4 components — xyz
// for translation/scale rows, xyzw for rotation (quaternion) rows.
type LookupRow struct {
	InverseTime float32
	Value       [4]float32
}

// IdentityTranslationRow, IdentityRotationRow, IdentityScaleRow are the rows
// substituted for empty animation channels (§3 "empty channels are stored as
// identity transforms").
var (
	IdentityTranslationRow = LookupRow{InverseTime: 1, Value: [4]float32{0, 0, 0, 0}}
	IdentityRotationRow    = LookupRow{InverseTime: 1, Value: [4]float32{0, 0, 0, 1}}
	IdentityScaleRow       = LookupRow{InverseTime: 1, Value: [4]float32{1, 1, 1, 0}}
)

// BoneChannel is the fixed-resolution animation curve for a single (clip,
// bone) pair: three independent 1024-row sequences for translation,
// rotation, and scale.
type BoneChannel struct {
	Translation [LookupRowCount]LookupRow
	Rotation    [LookupRowCount]LookupRow
	Scale       [LookupRowCount]LookupRow
}

// identityBoneChannel returns a channel filled with identity rows, used when
// a clip has no animation data for a given bone.
func identityBoneChannel() BoneChannel {
	var c BoneChannel
	for i := range c.Translation {
		c.Translation[i] = IdentityTranslationRow
		c.Rotation[i] = IdentityRotationRow
		c.Scale[i] = IdentityScaleRow
	}
	return c
}

// AABB is an axis-aligned bounding box in model space.
type AABB struct {
	Min [3]float32
	Max [3]float32
}

// Union returns the smallest AABB containing both a and b.
func (a AABB) Union(b AABB) AABB {
	out := a
	for i := 0; i < 3; i++ {
		if b.Min[i] < out.Min[i] {
			out.Min[i] = b.Min[i]
		}
		if b.Max[i] > out.Max[i] {
			out.Max[i] = b.Max[i]
		}
	}
	return out
}

// Intersects reports whether two AABBs overlap on all three axes.
func (a AABB) Intersects(b AABB) bool {
	return a.Min[0] <= b.Max[0] && a.Max[0] >= b.Min[0] &&
		a.Min[1] <= b.Max[1] && a.Max[1] >= b.Min[1] &&
		a.Min[2] <= b.Max[2] && a.Max[2] >= b.Min[2]
}

// Center returns the midpoint of the box.
func (a AABB) Center() [3]float32 {
	return [3]float32{
		(a.Min[0] + a.Max[0]) / 2,
		(a.Min[1] + a.Max[1]) / 2,
		(a.Min[2] + a.Max[2]) / 2,
	}
}

// Inflate grows the box by eps on every axis, used by the triangle octree to
// avoid degenerate (zero-thickness) planes being dropped by strict queries.
func (a AABB) Inflate(eps float32) AABB {
	return AABB{
		Min: [3]float32{a.Min[0] - eps, a.Min[1] - eps, a.Min[2] - eps},
		Max: [3]float32{a.Max[0] + eps, a.Max[1] + eps, a.Max[2] + eps},
	}
}

// Bone is one entry of a model's skeleton.
type Bone struct {
	Name              string
	ParentIndex       int32 // -1 for the root bone
	InverseBindOffset [16]float32
	BindOffset        [16]float32 // inverse of InverseBindOffset, precomputed at load
}

// HeadMoveClips maps the four head-look directions to clip ids, or -1 when a
// direction has no associated clip.
type HeadMoveClips struct {
	Left  int32
	Right int32
	Up    int32
	Down  int32
}

// IKChain lists the joint chain for one foot, ordered effector first
// (closest to the ground) toward the IK root (e.g. hip).
type IKChain struct {
	Name   string // "left" / "right"
	Joints []int32
}

// BoundingSphereAdjust is the per-bone adjustment applied in Animation Stage
// 3 (§4.2). A RadiusScale of 0 disables the sphere for that bone.
type BoundingSphereAdjust struct {
	Offset      [3]float32
	RadiusScale float32
}

// Settings bundles the per-model authored data from §3/§6 that is not part
// of the skeleton or animation curves themselves.
type Settings struct {
	HeadMove           HeadMoveClips
	FootIKChains       []IKChain
	BoneSphereAdjust   []BoundingSphereAdjust // indexed by bone
	SwapYZ             bool
	UniformScale       float32
	IsNavigationTarget bool
}

// Mesh is one renderable part of a model.
type Mesh struct {
	Name        string
	VertexData  []byte
	IndexData   []byte
	IndexCount  int
	BoundingBox AABB
}

// MorphTarget is a single named facial-expression target: one delta vector
// per vertex of its owning mesh.
type MorphTarget struct {
	Name   string
	Deltas [][3]float32
}

// DefaultBoundingSphereAdjust returns the (0,0,0,1) adjustment injected by
// the yamlFileVersion "3.0"/"4.0" config migration rules (§6) for bones or
// models that predate the adjustment table.
func DefaultBoundingSphereAdjust() BoundingSphereAdjust {
	return BoundingSphereAdjust{Offset: [3]float32{0, 0, 0}, RadiusScale: 1}
}
