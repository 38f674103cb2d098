// Package mathx collects small quaternion and vector helpers used by the
// orchestrator's update step, built on go-gl/mathgl rather than
// hand-rolled trigonometry.
package mathx

import "github.com/go-gl/mathgl/mgl32"

// EulerDegreesToQuat converts an instance's worldRotation (Euler degrees,
// §3) into a quaternion using the engine's Y*X*Z (yaw-pitch-roll) rotation
// order, matching common.BuildModelMatrix's convention.
func EulerDegreesToQuat(degrees [3]float32) mgl32.Quat {
	rx := mgl32.DegToRad(degrees[0])
	ry := mgl32.DegToRad(degrees[1])
	rz := mgl32.DegToRad(degrees[2])
	qy := mgl32.QuatRotate(ry, mgl32.Vec3{0, 1, 0})
	qx := mgl32.QuatRotate(rx, mgl32.Vec3{1, 0, 0})
	qz := mgl32.QuatRotate(rz, mgl32.Vec3{0, 0, 1})
	return qy.Mul(qx).Mul(qz)
}

// Vec3Add, Vec3Sub and Vec3Scale are plain [3]float32 helpers used where a
// full mgl32.Vec3 round-trip would be needless ceremony.
func Vec3Add(a, b [3]float32) [3]float32 {
	return [3]float32{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

func Vec3Sub(a, b [3]float32) [3]float32 {
	return [3]float32{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func Vec3Scale(v [3]float32, s float32) [3]float32 {
	return [3]float32{v[0] * s, v[1] * s, v[2] * s}
}

// Lerp3 linearly interpolates two vec3s.
func Lerp3(a, b [3]float32, t float32) [3]float32 {
	return Vec3Add(a, Vec3Scale(Vec3Sub(b, a), t))
}
