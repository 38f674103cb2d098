package behavior

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedCall struct {
	instanceID uint64
	nodeType   NodeType
	kind       UpdateKind
	value      float32
	flag       bool
}

func recordingCallback(calls *[]recordedCall) ActionCallback {
	return func(instanceID uint64, nodeType NodeType, kind UpdateKind, value float32, flag bool) {
		*calls = append(*calls, recordedCall{instanceID, nodeType, kind, value, flag})
	}
}

func TestInstanceStateTickVisitsLinkedChain(t *testing.T) {
	s := &instanceState{
		instanceID: 7,
		graph: &Graph{
			Nodes: map[NodeID]Node{
				0: {ID: 0, Type: NodeInstance},
				1: {ID: 1, Type: NodeAction, Params: map[string]float32{"kind": float32(UpdateMoveState), "value": float32(MoveWalk)}},
			},
			Links: []Link{{FromNode: 0, ToNode: 1}},
			Roots: []NodeID{0},
		},
	}

	var calls []recordedCall
	s.Tick(recordingCallback(&calls))

	require.Len(t, calls, 1)
	assert.Equal(t, UpdateMoveState, calls[0].kind)
	assert.Equal(t, float32(MoveWalk), calls[0].value)
}

func TestInstanceStateTickDoesNotRevisitSameNode(t *testing.T) {
	// Two roots both link into the same action node; it should fire once.
	s := &instanceState{
		instanceID: 1,
		graph: &Graph{
			Nodes: map[NodeID]Node{
				0: {ID: 0, Type: NodeInstance},
				1: {ID: 1, Type: NodeInstance},
				2: {ID: 2, Type: NodeAction, Params: map[string]float32{"kind": float32(UpdateForwardSpeed), "value": 1}},
			},
			Links: []Link{{FromNode: 0, ToNode: 2}, {FromNode: 1, ToNode: 2}},
			Roots: []NodeID{0, 1},
		},
	}

	var calls []recordedCall
	s.Tick(recordingCallback(&calls))
	assert.Len(t, calls, 1)
}

func TestInstanceStateTickConsumesOnePendingEventPerTick(t *testing.T) {
	s := &instanceState{
		instanceID: 1,
		graph: &Graph{
			Nodes: map[NodeID]Node{0: {ID: 0, Type: NodeInstance}},
			Roots: []NodeID{0},
		},
		pending: []Event{
			{InstanceID: 1, Kind: EventNavTargetReached},
			{InstanceID: 1, Kind: EventInteraction},
		},
	}

	s.Tick(func(uint64, NodeType, UpdateKind, float32, bool) {})
	require.Len(t, s.pending, 1)
	assert.Equal(t, EventInteraction, s.pending[0].Kind)
}

func TestHandleFaceAnimNodeEmitsSelectAndWeight(t *testing.T) {
	n := Node{Type: NodeFaceAnim, Params: map[string]float32{"faceAnim": float32(FaceHappy), "weight": 0.8}}
	var calls []recordedCall
	pin, fired := handleFaceAnimNode(n, Event{}, recordingCallback(&calls), 5)

	assert.True(t, fired)
	assert.Equal(t, pinOut, pin)
	require.Len(t, calls, 2)
	assert.Equal(t, UpdateFaceAnimSelect, calls[0].kind)
	assert.Equal(t, UpdateFaceAnimWeight, calls[1].kind)
	assert.Equal(t, float32(0.8), calls[1].value)
}

func TestHandleHeadAnimNodeEmitsLeftRightThenUpDown(t *testing.T) {
	n := Node{Type: NodeHeadAnim, Params: map[string]float32{"leftRight": 0.2, "upDown": -0.4}}
	var calls []recordedCall
	handleHeadAnimNode(n, Event{}, recordingCallback(&calls), 1)

	require.Len(t, calls, 2)
	assert.False(t, calls[0].flag)
	assert.True(t, calls[1].flag)
	assert.Equal(t, float32(-0.4), calls[1].value)
}

func TestHandleRandomNavigationNodeFires(t *testing.T) {
	var calls []recordedCall
	pin, fired := handleRandomNavigationNode(Node{}, Event{}, recordingCallback(&calls), 3)
	assert.True(t, fired)
	assert.Equal(t, pinOut, pin)
	require.Len(t, calls, 1)
	assert.Equal(t, UpdateRandomNavigation, calls[0].kind)
	assert.Equal(t, uint64(3), calls[0].instanceID)
}

func TestHandleInstanceNodeFiresUnconditionallyWithNoTrigger(t *testing.T) {
	_, fired := handleInstanceNode(Node{}, Event{Kind: EventNone}, nil, 1)
	assert.True(t, fired, "a node with no configured event is an unconditional root")
}

func TestHandleInstanceNodeGatesOnConfiguredEvent(t *testing.T) {
	n := Node{Params: map[string]float32{"event": float32(EventNavTargetReached)}}

	_, fired := handleInstanceNode(n, Event{Kind: EventNone}, nil, 1)
	assert.False(t, fired, "no event posted this tick should not satisfy the trigger")

	_, fired = handleInstanceNode(n, Event{Kind: EventInteraction}, nil, 1)
	assert.False(t, fired, "a mismatched event should not satisfy the trigger")

	_, fired = handleInstanceNode(n, Event{Kind: EventNavTargetReached}, nil, 1)
	assert.True(t, fired, "the matching event should satisfy the trigger")
}

func TestHandleInstanceNodeGatesOnOtherID(t *testing.T) {
	n := Node{Params: map[string]float32{
		"event":   float32(EventInstanceToInstanceCollision),
		"otherId": 42,
	}}

	_, fired := handleInstanceNode(n, Event{Kind: EventInstanceToInstanceCollision, OtherID: 7}, nil, 1)
	assert.False(t, fired, "collision with a different instance should not satisfy the trigger")

	_, fired = handleInstanceNode(n, Event{Kind: EventInstanceToInstanceCollision, OtherID: 42}, nil, 1)
	assert.True(t, fired)
}

func TestHandleLogicNodeBranchesOnConfiguredComparison(t *testing.T) {
	n := Node{Params: map[string]float32{"lhs": 1, "rhs": 2, "op": 1}} // ==
	pin, fired := handleLogicNode(n, Event{}, nil, 1)
	assert.True(t, fired)
	assert.Equal(t, pinFalse, pin)

	n.Params["rhs"] = 1
	pin, fired = handleLogicNode(n, Event{}, nil, 1)
	assert.True(t, fired)
	assert.Equal(t, pinTrue, pin)
}

func TestHandleLogicNodePassesThroughWithNoComparison(t *testing.T) {
	pin, fired := handleLogicNode(Node{}, Event{}, nil, 1)
	assert.True(t, fired)
	assert.Equal(t, pinTrue, pin)
}

func TestInstanceStateTickOnlyPropagatesMatchingLogicPin(t *testing.T) {
	s := &instanceState{
		instanceID: 1,
		graph: &Graph{
			Nodes: map[NodeID]Node{
				0: {ID: 0, Type: NodeLogic, Params: map[string]float32{"lhs": 1, "rhs": 2, "op": 1}}, // false
				1: {ID: 1, Type: NodeAction, Params: map[string]float32{"kind": float32(UpdateForwardSpeed), "value": 1}},
				2: {ID: 2, Type: NodeAction, Params: map[string]float32{"kind": float32(UpdateMoveState), "value": float32(MoveWalk)}},
			},
			Links: []Link{
				{FromNode: 0, FromPin: pinTrue, ToNode: 1},
				{FromNode: 0, FromPin: pinFalse, ToNode: 2},
			},
			Roots: []NodeID{0},
		},
	}

	var calls []recordedCall
	s.Tick(recordingCallback(&calls))

	require.Len(t, calls, 1)
	assert.Equal(t, UpdateMoveState, calls[0].kind)
}
