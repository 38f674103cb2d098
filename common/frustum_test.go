package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// axisAlignedFrustum builds a frustum for the box [-half, half]^3, with each
// plane's normal pointing inward (positive half-space is inside), matching
// the orientation ExtractFrustumFromMatrix produces.
func axisAlignedFrustum(half float32) Frustum {
	return Frustum{Planes: [6]Plane{
		{Normal: [3]float32{1, 0, 0}, Distance: half},  // left
		{Normal: [3]float32{-1, 0, 0}, Distance: half}, // right
		{Normal: [3]float32{0, 1, 0}, Distance: half},  // bottom
		{Normal: [3]float32{0, -1, 0}, Distance: half}, // top
		{Normal: [3]float32{0, 0, 1}, Distance: half},  // near
		{Normal: [3]float32{0, 0, -1}, Distance: half}, // far
	}}
}

func TestContainsSphereKeepsSphereFullyInside(t *testing.T) {
	f := axisAlignedFrustum(10)
	assert.True(t, f.ContainsSphere([3]float32{0, 0, 0}, 1))
}

func TestContainsSphereKeepsSphereStraddlingAPlane(t *testing.T) {
	f := axisAlignedFrustum(10)
	// Center just past the right plane (x=10), but its radius brings it back in.
	assert.True(t, f.ContainsSphere([3]float32{11, 0, 0}, 2))
}

func TestContainsSphereRejectsSphereFullyOutside(t *testing.T) {
	f := axisAlignedFrustum(10)
	assert.False(t, f.ContainsSphere([3]float32{100, 0, 0}, 1))
}

func TestContainsSphereRejectsSphereOutsideOnAnySinglePlane(t *testing.T) {
	f := axisAlignedFrustum(10)
	// Inside on every axis except near (z = -10 plane): behind the camera.
	assert.False(t, f.ContainsSphere([3]float32{0, 0, -20}, 1))
}
