// Package animation implements the three-stage GPU animation pipeline of
// §4.2: transform sampling, matrix composition, and bounding-sphere
// derivation. Each stage is expressed as a pure Go function operating over
// one instance's inputs and a Model's fixed-resolution lookup tables
// (engine/asset); Pipeline wraps the three stages with GPU dispatch and the
// storage barriers the spec requires between them.
package animation

import "github.com/oxyengine/charanim/engine/asset"

// PerInstanceInput is one instance's contribution to a dispatch of Stage 1
// (§4.2 "perInstance[i]").
type PerInstanceInput struct {
	ClipA, ClipB   int32
	TA, TB         float32 // playhead time within [0, maxClipDuration)
	Blend          float32 // [0,1], clip A -> clip B
	HeadLRClip     int32   // -1 disables head-move
	HeadUDClip     int32
	HeadLRTime     float32 // signed [-1,+1], sign selects left/right clip direction
	HeadUDTime     float32
}

// BoneTRS is the intermediate per-bone translation/rotation/scale triple
// written by Stage 1 and consumed by Stage 2.
type BoneTRS struct {
	Translation [3]float32
	Rotation    [4]float32 // quaternion, xyzw
	Scale       [3]float32
}

// BoneMatrix is a world-space (post skinning-offset) bone matrix, written by
// Stage 2.
type BoneMatrix struct {
	M [16]float32
}

// BoundingSphere is one bone's collision sphere (§4.2 Stage 3): xyz center,
// w radius. A Radius of 0 means the sphere is disabled for this bone.
type BoundingSphere struct {
	Center [3]float32
	Radius float32
}

// sampleIndex converts a playhead time into the two lookup-row indices to
// interpolate between and the fractional weight, using the row's stored
// inverse-time scale factor per the frozen 1024-row curve format (§3/§9).
func sampleIndex(row0InverseTime, t float32) (lo, hi int, frac float32) {
	scaled := t * row0InverseTime
	if scaled < 0 {
		scaled = 0
	}
	max := float32(asset.LookupRowCount - 1)
	if scaled > max {
		scaled = max
	}
	lo = int(scaled)
	hi = lo + 1
	if hi > asset.LookupRowCount-1 {
		hi = asset.LookupRowCount - 1
	}
	frac = scaled - float32(lo)
	return
}

func lerp3(a, b [3]float32, t float32) [3]float32 {
	return [3]float32{
		a[0] + (b[0]-a[0])*t,
		a[1] + (b[1]-a[1])*t,
		a[2] + (b[2]-a[2])*t,
	}
}

func lerp4(a, b [4]float32, t float32) [4]float32 {
	return [4]float32{
		a[0] + (b[0]-a[0])*t,
		a[1] + (b[1]-a[1])*t,
		a[2] + (b[2]-a[2])*t,
		a[3] + (b[3]-a[3])*t,
	}
}
