package asset

import "errors"

// ErrAssetInvariant is returned (wrapped) when a loaded model violates one
// of the §3 skeleton invariants. Per §7 this is the AssetInvariant error
// kind: the model is rejected at load and reported to the caller.
var ErrAssetInvariant = errors.New("asset: invariant violation")

// ModelBuilderOption configures a Model under construction via NewModel.
type ModelBuilderOption func(*model)

// WithName sets the model's identifier.
func WithName(name string) ModelBuilderOption {
	return func(m *model) { m.name = name }
}

// WithSkeleton sets the bone parent-index table and per-bone offsets.
// boneOffset.BindOffset is expected to already hold the inverse of
// InverseBindOffset (computed by the importer via invert4).
func WithSkeleton(parents []int32, bones []Bone) ModelBuilderOption {
	return func(m *model) {
		m.boneParent = append([]int32(nil), parents...)
		m.boneOffset = append([]Bone(nil), bones...)
	}
}

// WithClips sets the clip count, the per-clip/per-bone animation lookup
// table, and the maximum clip duration in seconds.
func WithClips(clipCount int32, maxDuration float32, lookup [][]BoneChannel) ModelBuilderOption {
	return func(m *model) {
		m.clipCount = clipCount
		m.maxClipDuration = maxDuration
		m.animLookup = lookup
	}
}

// WithAABBLookup sets the per-clip, per-sample skeleton-space bounding box
// table (§3 aabbLookup).
func WithAABBLookup(lookup [][LookupRowCount]AABB) ModelBuilderOption {
	return func(m *model) { m.aabbLookup = lookup }
}

// WithMeshes sets the renderable mesh list.
func WithMeshes(meshes []Mesh) ModelBuilderOption {
	return func(m *model) { m.meshes = meshes }
}

// WithMorphTargets sets the per-mesh morph target table.
func WithMorphTargets(targets map[string][]MorphTarget) ModelBuilderOption {
	return func(m *model) { m.morphTargets = targets }
}

// WithSettings sets the authored per-model settings (§3).
func WithSettings(s Settings) ModelBuilderOption {
	return func(m *model) { m.settings = s }
}

// NewModel constructs a Model from the given options. Callers should call
// Validate() on the result before using it; NewModel itself performs no
// validation so that test fixtures can build partial/invalid models to
// exercise the Validate error paths.
func NewModel(options ...ModelBuilderOption) Model {
	m := &model{
		morphTargets: make(map[string][]MorphTarget),
		settings: Settings{
			HeadMove:     HeadMoveClips{Left: -1, Right: -1, Up: -1, Down: -1},
			UniformScale: 1,
		},
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}
