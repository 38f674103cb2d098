package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oxyengine/charanim/common"
	"github.com/oxyengine/charanim/engine/animation"
	"github.com/oxyengine/charanim/engine/asset"
	"github.com/oxyengine/charanim/engine/instance"
)

func boxFrustum(half float32) common.Frustum {
	return common.Frustum{Planes: [6]common.Plane{
		{Normal: [3]float32{1, 0, 0}, Distance: half},
		{Normal: [3]float32{-1, 0, 0}, Distance: half},
		{Normal: [3]float32{0, 1, 0}, Distance: half},
		{Normal: [3]float32{0, -1, 0}, Distance: half},
		{Normal: [3]float32{0, 0, 1}, Distance: half},
		{Normal: [3]float32{0, 0, -1}, Distance: half},
	}}
}

func TestCullByFrustumKeepsInstanceWithNoCachedSphereYet(t *testing.T) {
	reg := instance.NewRegistry()
	inst := reg.Add(asset.NewModel())

	o := &Orchestrator{lastRootSphere: map[uint64]animation.BoundingSphere{}}
	visible := o.cullByFrustum(boxFrustum(10), []instance.Instance{inst})

	assert.Equal(t, []instance.Instance{inst}, visible)
}

func TestCullByFrustumDropsInstanceWhoseSphereIsOutside(t *testing.T) {
	reg := instance.NewRegistry()
	inst := reg.Add(asset.NewModel())

	o := &Orchestrator{lastRootSphere: map[uint64]animation.BoundingSphere{
		inst.ID(): {Center: [3]float32{1000, 0, 0}, Radius: 1},
	}}
	visible := o.cullByFrustum(boxFrustum(10), []instance.Instance{inst})

	assert.Empty(t, visible)
}

func TestCullByFrustumKeepsInstanceWhoseSphereIntersects(t *testing.T) {
	reg := instance.NewRegistry()
	inst := reg.Add(asset.NewModel())

	o := &Orchestrator{lastRootSphere: map[uint64]animation.BoundingSphere{
		inst.ID(): {Center: [3]float32{0, 0, 0}, Radius: 1},
	}}
	visible := o.cullByFrustum(boxFrustum(10), []instance.Instance{inst})

	assert.Equal(t, []instance.Instance{inst}, visible)
}

func TestCullByFrustumFiltersMixedVisibility(t *testing.T) {
	reg := instance.NewRegistry()
	near := reg.Add(asset.NewModel())
	far := reg.Add(asset.NewModel())

	o := &Orchestrator{lastRootSphere: map[uint64]animation.BoundingSphere{
		near.ID(): {Center: [3]float32{0, 0, 0}, Radius: 1},
		far.ID():  {Center: [3]float32{500, 0, 0}, Radius: 1},
	}}
	visible := o.cullByFrustum(boxFrustum(10), []instance.Instance{near, far})

	assert.Equal(t, []instance.Instance{near}, visible)
}
