package instance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxyengine/charanim/engine/asset"
)

func TestRegistryAddAssignsStableIDAndIndex(t *testing.T) {
	r := NewRegistry()
	m := asset.NewModel(asset.WithName("hero"))

	a := r.Add(m)
	b := r.Add(m)

	assert.NotZero(t, a.ID())
	assert.NotEqual(t, a.ID(), b.ID())
	assert.Equal(t, 1, a.IndexPosition())
	assert.Equal(t, 2, b.IndexPosition())
	assert.Equal(t, 2, r.Count())
}

func TestRegistryGetOutOfRangeReturnsNullInstance(t *testing.T) {
	r := NewRegistry()
	m := asset.NewModel()
	inst := r.Add(m)

	null := r.Get(0)
	assert.Equal(t, uint64(0), null.ID())
	assert.Equal(t, null, r.Get(-1))
	assert.Equal(t, null, r.Get(99))
	assert.NotEqual(t, null, r.Get(inst.IndexPosition()))
}

func TestRegistryGetByIDUnknownReturnsNullInstance(t *testing.T) {
	r := NewRegistry()
	null := r.GetByID(0)
	assert.Equal(t, uint64(0), null.ID())
	assert.Equal(t, null, r.GetByID(12345))
}

func TestRegistryGetByIDSurvivesIndexCompaction(t *testing.T) {
	r := NewRegistry()
	m := asset.NewModel()
	a := r.Add(m)
	b := r.Add(m)
	c := r.Add(m)

	r.Delete(a) // shifts b and c down by one index position

	assert.Equal(t, 1, b.IndexPosition())
	assert.Equal(t, 2, c.IndexPosition())

	// ids are untouched by the compaction, so GetByID still resolves them.
	require.Equal(t, b, r.GetByID(b.ID()))
	require.Equal(t, c, r.GetByID(c.ID()))
	assert.Equal(t, uint64(0), r.GetByID(a.ID()).ID(), "deleted instance's id must no longer resolve")
}

func TestRegistryDeleteCompactsPerModelList(t *testing.T) {
	r := NewRegistry()
	m := asset.NewModel(asset.WithName("hero"))
	a := r.Add(m)
	b := r.Add(m)

	r.Delete(a)

	list := r.ForModel(m)
	require.Len(t, list, 1)
	assert.Equal(t, b.ID(), list[0].ID())
	assert.Equal(t, 0, b.PerModelIndexPosition())
}

func TestRegistryDeleteOnNullInstanceIsNoop(t *testing.T) {
	r := NewRegistry()
	m := asset.NewModel()
	r.Add(m)

	before := r.Count()
	r.Delete(r.Get(0)) // attempting to delete the sentinel
	assert.Equal(t, before, r.Count())
}

func TestRegistryCloneCopiesStateNotIdentity(t *testing.T) {
	r := NewRegistry()
	m := asset.NewModel()
	src := r.Add(m)
	src.SetWorldPosition([3]float32{1, 2, 3})
	src.SetMovement(MovementState{State: MoveRun, ForwardSpeed: 4})

	clone := r.Clone(src)

	assert.NotEqual(t, src.ID(), clone.ID())
	assert.Equal(t, src.WorldPosition(), clone.WorldPosition())
	assert.Equal(t, src.Movement(), clone.Movement())
	assert.Equal(t, 2, clone.IndexPosition())
}

func TestRegistryRemoveAllClearsEverything(t *testing.T) {
	r := NewRegistry()
	m := asset.NewModel(asset.WithName("hero"))
	a := r.Add(m)
	r.Add(m)

	r.RemoveAll()

	assert.Equal(t, 0, r.Count())
	assert.Empty(t, r.All())
	assert.Empty(t, r.ForModel(m))
	assert.Equal(t, uint64(0), r.GetByID(a.ID()).ID())
}

func TestRegistryAllExcludesNullInstance(t *testing.T) {
	r := NewRegistry()
	m := asset.NewModel()
	r.Add(m)
	r.Add(m)

	all := r.All()
	require.Len(t, all, 2)
	for _, inst := range all {
		assert.NotZero(t, inst.ID())
	}
}
