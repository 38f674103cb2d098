package animation

import (
	"math"

	"github.com/oxyengine/charanim/engine/asset"
)

// ComputeBoundingSpheres implements Animation Stage 3 (§4.2): for each bone,
// the sphere center is the bone matrix's translation adjusted toward the
// bone-parent midpoint (when the parent is valid) plus the per-bone offset,
// and the radius is the distance between the bone and its parent joint
// scaled by the per-bone radiusScale. A radiusScale of 0 disables the
// sphere for that bone.
func ComputeBoundingSpheres(m asset.Model, matrices []BoneMatrix) []BoundingSphere {
	boneCount := len(matrices)
	out := make([]BoundingSphere, boneCount)
	adjust := m.Settings().BoneSphereAdjust

	for b := 0; b < boneCount; b++ {
		center := translationOf(matrices[b])

		var radius float32
		parent := m.BoneParent(int32(b))
		if parent >= 0 {
			parentCenter := translationOf(matrices[parent])
			radius = distance(center, parentCenter)
			center = midpoint(center, parentCenter)
		}

		var offset [3]float32
		scale := float32(1)
		if b < len(adjust) {
			offset = adjust[b].Offset
			scale = adjust[b].RadiusScale
		}

		out[b] = BoundingSphere{
			Center: [3]float32{center[0] + offset[0], center[1] + offset[1], center[2] + offset[2]},
			Radius: radius * scale,
		}
	}
	return out
}

func translationOf(m BoneMatrix) [3]float32 {
	return [3]float32{m.M[12], m.M[13], m.M[14]}
}

func distance(a, b [3]float32) float32 {
	dx, dy, dz := a[0]-b[0], a[1]-b[1], a[2]-b[2]
	return float32(math.Sqrt(float64(dx*dx + dy*dy + dz*dz)))
}

func midpoint(a, b [3]float32) [3]float32 {
	return [3]float32{(a[0] + b[0]) / 2, (a[1] + b[1]) / 2, (a[2] + b[2]) / 2}
}
