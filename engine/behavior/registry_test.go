package behavior

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func patrolGraph() *Graph {
	return &Graph{
		Name: "patrol",
		Nodes: map[NodeID]Node{
			0: {ID: 0, Type: NodeInstance},
			1: {ID: 1, Type: NodeAction, Params: map[string]float32{
				"kind": float32(UpdateForwardSpeed), "value": 3,
			}},
		},
		Links: []Link{{FromNode: 0, FromPin: "out", ToNode: 1, ToPin: "in"}},
		Roots: []NodeID{0},
	}
}

func TestRegistryLoadGraphRejectsInvalid(t *testing.T) {
	r := NewRegistry()
	bad := &Graph{Name: "broken", Roots: []NodeID{1}}
	assert.ErrorIs(t, r.LoadGraph(bad), ErrGraphIntegrity)
}

func TestRegistryAddInstanceUnknownGraphFails(t *testing.T) {
	r := NewRegistry()
	assert.False(t, r.AddInstance(1, "nope"))
}

func TestRegistryAddInstanceAttachesClonedState(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.LoadGraph(patrolGraph()))

	assert.True(t, r.AddInstance(1, "patrol"))
	assert.True(t, r.AddInstance(2, "patrol"))
	assert.NotSame(t, r.attached[1], r.attached[2])
}

func TestRegistryTickDropsAttachmentForDeadInstance(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.LoadGraph(patrolGraph()))
	r.AddInstance(1, "patrol")

	r.Tick(func(uint64) bool { return false }, func(uint64, NodeType, UpdateKind, float32, bool) {})

	_, ok := r.attached[1]
	assert.False(t, ok)
}

func TestRegistryTickInvokesActionCallback(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.LoadGraph(patrolGraph()))
	r.AddInstance(1, "patrol")

	var gotKind UpdateKind
	var gotValue float32
	calls := 0
	r.Tick(func(uint64) bool { return true }, func(instanceID uint64, nodeType NodeType, kind UpdateKind, value float32, flag bool) {
		calls++
		gotKind = kind
		gotValue = value
	})

	require.Equal(t, 1, calls)
	assert.Equal(t, UpdateForwardSpeed, gotKind)
	assert.Equal(t, float32(3), gotValue)
}

func TestRegistryRemoveGraphDetachesInstances(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.LoadGraph(patrolGraph()))
	r.AddInstance(1, "patrol")

	r.RemoveGraph("patrol")

	_, ok := r.attached[1]
	assert.False(t, ok)
	assert.False(t, r.AddInstance(2, "patrol"), "graph should no longer be loadable by name")
}

func TestRegistryAddModelBehaviorBulkAssigns(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.LoadGraph(patrolGraph()))

	r.AddModelBehavior("patrol", []uint64{1, 2, 3})

	require.Len(t, r.attached, 3)
}

func reactiveGraph() *Graph {
	return &Graph{
		Name: "reactive",
		Nodes: map[NodeID]Node{
			0: {ID: 0, Type: NodeInstance, Params: map[string]float32{"event": float32(EventNavTargetReached)}},
			1: {ID: 1, Type: NodeAction, Params: map[string]float32{"kind": float32(UpdateForwardSpeed), "value": 5}},
		},
		Links: []Link{{FromNode: 0, FromPin: "out", ToNode: 1, ToPin: "in"}},
		Roots: []NodeID{0},
	}
}

func TestRegistryTickDoesNotFireGatedInstanceNodeWithoutItsEvent(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.LoadGraph(reactiveGraph()))
	r.AddInstance(1, "reactive")

	calls := 0
	r.Tick(func(uint64) bool { return true }, func(uint64, NodeType, UpdateKind, float32, bool) { calls++ })

	assert.Zero(t, calls, "the gated instance node should not fire without its configured event")
}

func TestRegistryTickFiresGatedInstanceNodeOnMatchingEvent(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.LoadGraph(reactiveGraph()))
	r.AddInstance(1, "reactive")

	r.PostEvent(Event{InstanceID: 1, Kind: EventNavTargetReached})

	calls := 0
	r.Tick(func(uint64) bool { return true }, func(uint64, NodeType, UpdateKind, float32, bool) { calls++ })

	assert.Equal(t, 1, calls, "the matching event should satisfy the gated instance node")
}

func TestRegistryPostEventRoutedToPendingOnTick(t *testing.T) {
	r := NewRegistry()
	g := &Graph{
		Name:  "reactive",
		Nodes: map[NodeID]Node{0: {ID: 0, Type: NodeInstance}},
		Roots: []NodeID{0},
	}
	require.NoError(t, r.LoadGraph(g))
	r.AddInstance(1, "reactive")

	r.PostEvent(Event{InstanceID: 1, Kind: EventNavTargetReached})
	r.Tick(func(uint64) bool { return true }, func(uint64, NodeType, UpdateKind, float32, bool) {})

	st := r.attached[1]
	assert.Empty(t, st.pending, "the single queued event should have been consumed by the tick")
}
