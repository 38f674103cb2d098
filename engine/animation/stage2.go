package animation

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/oxyengine/charanim/engine/asset"
)

// localMatrix builds a column-major TRS matrix from a BoneTRS triple.
func localMatrix(trs BoneTRS) mgl32.Mat4 {
	translation := mgl32.Translate3D(trs.Translation[0], trs.Translation[1], trs.Translation[2])
	q := mgl32.Quat{W: trs.Rotation[3], V: mgl32.Vec3{trs.Rotation[0], trs.Rotation[1], trs.Rotation[2]}}
	rotation := q.Mat4()
	scale := mgl32.Scale3D(trs.Scale[0], trs.Scale[1], trs.Scale[2])
	return translation.Mul4(rotation).Mul4(scale)
}

// ComposeBoneMatrices implements Animation Stage 2 (§4.2): walks the bone
// hierarchy from root to leaf (guaranteed acyclic and single-pass because
// boneParent[i] < i for every non-root bone, §3/§8 property 5), composing
// each local TRS matrix with its already-composed parent, then right-
// multiplying by the bone's bind offset to produce the final skinning
// matrix.
func ComposeBoneMatrices(m asset.Model, trs []BoneTRS) []BoneMatrix {
	boneCount := len(trs)
	world := make([]mgl32.Mat4, boneCount)
	out := make([]BoneMatrix, boneCount)

	for b := 0; b < boneCount; b++ {
		local := localMatrix(trs[b])
		parent := m.BoneParent(int32(b))
		if parent < 0 {
			world[b] = local
		} else {
			world[b] = world[parent].Mul4(local)
		}

		bone := m.Bone(int32(b))
		offset := mgl32.Mat4(bone.BindOffset)
		skin := world[b].Mul4(offset)
		out[b] = BoneMatrix{M: [16]float32(skin)}
	}
	return out
}
