package ik

import "github.com/go-gl/mathgl/mgl32"

// RotationOnto returns the quaternion that rotates vector from onto vector
// to, both assumed non-zero (§4.6 "compute the local rotation that rotates
// the current bone vector onto the solved bone vector").
func RotationOnto(from, to [3]float32) mgl32.Quat {
	f := mgl32.Vec3(from).Normalize()
	t := mgl32.Vec3(to).Normalize()
	return mgl32.QuatBetweenVectors(f, t)
}

// JointRotations derives, for each non-effector joint in a solved chain,
// the delta rotation between its pre-solve and post-solve bone vector
// (the segment toward its child). Index 0 in the result corresponds to
// chain.Joints[1], the first joint above the effector.
func JointRotations(before, after Chain) []mgl32.Quat {
	out := make([]mgl32.Quat, 0, len(before.Joints)-1)
	for i := 1; i < len(before.Joints); i++ {
		beforeVec := sub(before.Joints[i-1], before.Joints[i])
		afterVec := sub(after.Joints[i-1], after.Joints[i])
		out = append(out, RotationOnto(beforeVec, afterVec))
	}
	return out
}
