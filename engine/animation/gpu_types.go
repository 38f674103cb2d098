package animation

import (
	"encoding/binary"
	"math"
)

// The following variables are inline WGSL struct stubs registered by
// engine/renderer/shader's pre-processor under the AnnotationArg keys
// that select them. Shader source compilation is out of scope; these
// exist only so the @oxy:include annotation has a source string to
// inject for the pipelines this package drives (transform,
// transformHeadMove, matrixMult, boundingSpheres).
var (
	GPUAnimationDataSource         = "struct AnimationData {}\n"
	GPUSkeletalAnimationDataSource = "struct SkeletalAnimationData {}\n"
	GPUAnimationGlobalsSource      = "struct AnimationGlobals {}\n"
	GPUFrustumPlaneSource          = "struct FrustumPlane {}\n"
	GPUGlobalDataSource            = "struct GlobalData {}\n"
	GPUIndirectArgsSource          = "struct IndirectArgs {}\n"
	GPUInstanceDataSource          = "struct InstanceData {}\n"
)

// GPUPerInstanceInput mirrors PerInstanceInput for SSBO upload (§4.2
// "perInstance[i]").
type GPUPerInstanceInput struct {
	ClipA, ClipB               int32
	TA, TB                     float32
	Blend                      float32
	HeadLRClip, HeadUDClip     int32
	HeadLRTime, HeadUDTime     float32
}

// Marshal serializes a GPUPerInstanceInput for SSBO upload (36 bytes,
// padded to 48 for vec4 alignment of the following array element).
func (p *GPUPerInstanceInput) Marshal() []byte {
	buf := make([]byte, 48)
	putI32 := func(off int, v int32) { binary.LittleEndian.PutUint32(buf[off:off+4], uint32(v)) }
	putF32 := func(off int, v float32) { binary.LittleEndian.PutUint32(buf[off:off+4], math.Float32bits(v)) }
	putI32(0, p.ClipA)
	putI32(4, p.ClipB)
	putF32(8, p.TA)
	putF32(12, p.TB)
	putF32(16, p.Blend)
	putI32(20, p.HeadLRClip)
	putI32(24, p.HeadUDClip)
	putF32(28, p.HeadLRTime)
	putF32(32, p.HeadUDTime)
	return buf
}

// MarshalPerInstance flattens a per-dispatch input slice into one SSBO
// upload buffer.
func MarshalPerInstance(inputs []PerInstanceInput) []byte {
	buf := make([]byte, 0, len(inputs)*48)
	for _, in := range inputs {
		g := GPUPerInstanceInput{
			ClipA: in.ClipA, ClipB: in.ClipB,
			TA: in.TA, TB: in.TB, Blend: in.Blend,
			HeadLRClip: in.HeadLRClip, HeadUDClip: in.HeadUDClip,
			HeadLRTime: in.HeadLRTime, HeadUDTime: in.HeadUDTime,
		}
		buf = append(buf, g.Marshal()...)
	}
	return buf
}

// MarshalBoneMatrices flattens a per-instance bone-matrix slice for
// upload into the skinning SSBO.
func MarshalBoneMatrices(matrices [][]BoneMatrix) []byte {
	buf := make([]byte, 0)
	for _, perInstance := range matrices {
		for _, m := range perInstance {
			b := make([]byte, 64)
			for i, f := range m.M {
				binary.LittleEndian.PutUint32(b[i*4:i*4+4], math.Float32bits(f))
			}
			buf = append(buf, b...)
		}
	}
	return buf
}

// MarshalBoundingSpheres flattens a per-instance bounding-sphere slice
// (vec4 per bone per instance, xyz center / w radius).
func MarshalBoundingSpheres(spheres [][]BoundingSphere) []byte {
	buf := make([]byte, 0)
	for _, perInstance := range spheres {
		for _, s := range perInstance {
			b := make([]byte, 16)
			binary.LittleEndian.PutUint32(b[0:4], math.Float32bits(s.Center[0]))
			binary.LittleEndian.PutUint32(b[4:8], math.Float32bits(s.Center[1]))
			binary.LittleEndian.PutUint32(b[8:12], math.Float32bits(s.Center[2]))
			binary.LittleEndian.PutUint32(b[12:16], math.Float32bits(s.Radius))
			buf = append(buf, b...)
		}
	}
	return buf
}
