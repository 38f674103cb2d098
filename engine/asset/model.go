package asset

import "fmt"

// model is the implementation of the Model interface.
type model struct {
	name string

	boneParent []int32
	boneOffset []Bone // holds both inverse-bind and precomputed bind offset per bone

	clipCount       int32
	maxClipDuration float32
	animLookup      [][]BoneChannel // [clip][bone]
	aabbLookup      [][LookupRowCount]AABB

	meshes       []Mesh
	morphTargets map[string][]MorphTarget

	settings Settings
}

// Model is the immutable, runtime-shared asset produced by the loader
// (§3/§6): skeleton, fixed-resolution animation curves, per-clip AABB
// lookup, morph targets, and authored settings. A Model is referenced by
// many Instances and must never be mutated after NewModel/Validate.
type Model interface {
	Name() string

	// BoneCount returns the number of bones in the skeleton.
	BoneCount() int32

	// BoneParent returns the parent index of bone i, or -1 for the root.
	BoneParent(i int32) int32

	// Bone returns the bone record (name + offsets) at index i.
	Bone(i int32) Bone

	ClipCount() int32
	MaxClipDuration() float32

	// TranslationRow, RotationRow, ScaleRow return the lookup row at index
	// `row` (0..LookupRowCount) for the given clip and bone.
	TranslationRow(clip, bone int32, row int) LookupRow
	RotationRow(clip, bone int32, row int) LookupRow
	ScaleRow(clip, bone int32, row int) LookupRow

	// AABBAt returns the skeleton-space bounding box for a clip at the
	// given lookup sample (0..LookupRowCount).
	AABBAt(clip int32, sample int) AABB

	Meshes() []Mesh
	MorphTargets(mesh string) []MorphTarget
	Settings() Settings

	// Validate checks the invariants of §3/§8: bone count matches the
	// parent table, each non-root bone's parent index is strictly less
	// than its own (topological order), and there is exactly one root
	// bone (parent == -1). Returns an AssetInvariant error (§7) if not.
	Validate() error
}

var _ Model = &model{}

func (m *model) Name() string          { return m.name }
func (m *model) BoneCount() int32      { return int32(len(m.boneParent)) }
func (m *model) ClipCount() int32      { return m.clipCount }
func (m *model) MaxClipDuration() float32 { return m.maxClipDuration }

func (m *model) BoneParent(i int32) int32 {
	if i < 0 || int(i) >= len(m.boneParent) {
		return -1
	}
	return m.boneParent[i]
}

func (m *model) Bone(i int32) Bone {
	if i < 0 || int(i) >= len(m.boneOffset) {
		return Bone{ParentIndex: -1}
	}
	return m.boneOffset[i]
}

func (m *model) channel(clip, bone int32) *BoneChannel {
	if clip < 0 || int(clip) >= len(m.animLookup) {
		return nil
	}
	perBone := m.animLookup[clip]
	if bone < 0 || int(bone) >= len(perBone) {
		return nil
	}
	return &perBone[bone]
}

func (m *model) TranslationRow(clip, bone int32, row int) LookupRow {
	c := m.channel(clip, bone)
	if c == nil || row < 0 || row >= LookupRowCount {
		return IdentityTranslationRow
	}
	return c.Translation[row]
}

func (m *model) RotationRow(clip, bone int32, row int) LookupRow {
	c := m.channel(clip, bone)
	if c == nil || row < 0 || row >= LookupRowCount {
		return IdentityRotationRow
	}
	return c.Rotation[row]
}

func (m *model) ScaleRow(clip, bone int32, row int) LookupRow {
	c := m.channel(clip, bone)
	if c == nil || row < 0 || row >= LookupRowCount {
		return IdentityScaleRow
	}
	return c.Scale[row]
}

func (m *model) AABBAt(clip int32, sample int) AABB {
	if clip < 0 || int(clip) >= len(m.aabbLookup) || sample < 0 || sample >= LookupRowCount {
		return AABB{}
	}
	return m.aabbLookup[clip][sample]
}

func (m *model) Meshes() []Mesh { return m.meshes }

func (m *model) MorphTargets(mesh string) []MorphTarget {
	return m.morphTargets[mesh]
}

func (m *model) Settings() Settings { return m.settings }

func (m *model) Validate() error {
	if len(m.boneParent) == 0 {
		return nil // static (non-skinned) models carry no skeleton
	}
	if len(m.boneOffset) != len(m.boneParent) {
		return fmt.Errorf("%w: %d bones but %d parent entries", ErrAssetInvariant, len(m.boneOffset), len(m.boneParent))
	}
	roots := 0
	for i, p := range m.boneParent {
		if p == -1 {
			roots++
			continue
		}
		if p < 0 || int(p) >= i {
			return fmt.Errorf("%w: bone %d has parent %d, want parent index < %d", ErrAssetInvariant, i, p, i)
		}
	}
	if roots != 1 {
		return fmt.Errorf("%w: expected exactly one root bone (parent == -1), found %d", ErrAssetInvariant, roots)
	}
	if len(m.animLookup) != int(m.clipCount) {
		return fmt.Errorf("%w: animLookup has %d clips, want %d", ErrAssetInvariant, len(m.animLookup), m.clipCount)
	}
	return nil
}
