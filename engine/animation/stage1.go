package animation

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/oxyengine/charanim/engine/asset"
)

func sampleTranslation(m asset.Model, clip, bone int32, t float32) [3]float32 {
	row0 := m.TranslationRow(clip, bone, 0)
	lo, hi, frac := sampleIndex(row0.InverseTime, t)
	a := m.TranslationRow(clip, bone, lo)
	b := m.TranslationRow(clip, bone, hi)
	v := lerp3([3]float32{a.Value[0], a.Value[1], a.Value[2]}, [3]float32{b.Value[0], b.Value[1], b.Value[2]}, frac)
	return v
}

func sampleScale(m asset.Model, clip, bone int32, t float32) [3]float32 {
	row0 := m.ScaleRow(clip, bone, 0)
	lo, hi, frac := sampleIndex(row0.InverseTime, t)
	a := m.ScaleRow(clip, bone, lo)
	b := m.ScaleRow(clip, bone, hi)
	return lerp3([3]float32{a.Value[0], a.Value[1], a.Value[2]}, [3]float32{b.Value[0], b.Value[1], b.Value[2]}, frac)
}

func sampleRotation(m asset.Model, clip, bone int32, t float32) mgl32.Quat {
	row0 := m.RotationRow(clip, bone, 0)
	lo, hi, frac := sampleIndex(row0.InverseTime, t)
	a := m.RotationRow(clip, bone, lo)
	b := m.RotationRow(clip, bone, hi)
	qa := mgl32.Quat{W: a.Value[3], V: mgl32.Vec3{a.Value[0], a.Value[1], a.Value[2]}}
	qb := mgl32.Quat{W: b.Value[3], V: mgl32.Vec3{b.Value[0], b.Value[1], b.Value[2]}}
	return mgl32.QuatSlerp(qa, qb, frac)
}

// headMoveAdditive returns the additive rotation contributed by the
// head-look clips, or identity when no clip is selected. Following the
// Open Question decision recorded in the design notes, the additive
// rotation is applied after the clip-A/clip-B blend, not before it.
func headMoveAdditive(m asset.Model, bone int32, lrClip, udClip int32, lrTime, udTime float32, maxClipDuration float32) mgl32.Quat {
	out := mgl32.QuatIdent()
	if lrClip >= 0 {
		t := absf(lrTime) * maxClipDuration
		out = out.Mul(sampleRotation(m, lrClip, bone, t))
	}
	if udClip >= 0 {
		t := absf(udTime) * maxClipDuration
		out = out.Mul(sampleRotation(m, udClip, bone, t))
	}
	return out
}

func absf(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

// SampleTRS implements Animation Stage 1 (§4.2) for a single instance: for
// every bone, samples clip A and clip B at their respective playheads,
// blends them by in.Blend, and — when head-move clips are selected —
// additively applies the head-look rotation after the blend.
func SampleTRS(m asset.Model, in PerInstanceInput) []BoneTRS {
	boneCount := m.BoneCount()
	out := make([]BoneTRS, boneCount)
	for b := int32(0); b < boneCount; b++ {
		tA := sampleTranslation(m, in.ClipA, b, in.TA)
		tB := sampleTranslation(m, in.ClipB, b, in.TB)
		translation := lerp3(tA, tB, in.Blend)

		sA := sampleScale(m, in.ClipA, b, in.TA)
		sB := sampleScale(m, in.ClipB, b, in.TB)
		scale := lerp3(sA, sB, in.Blend)

		rA := sampleRotation(m, in.ClipA, b, in.TA)
		rB := sampleRotation(m, in.ClipB, b, in.TB)
		rotation := mgl32.QuatSlerp(rA, rB, in.Blend)

		if in.HeadLRClip >= 0 || in.HeadUDClip >= 0 {
			additive := headMoveAdditive(m, b, in.HeadLRClip, in.HeadUDClip, in.HeadLRTime, in.HeadUDTime, m.MaxClipDuration())
			rotation = rotation.Mul(additive)
		}

		out[b] = BoneTRS{
			Translation: translation,
			Rotation:    [4]float32{rotation.V[0], rotation.V[1], rotation.V[2], rotation.W},
			Scale:       scale,
		}
	}
	return out
}
