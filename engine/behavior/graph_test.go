package behavior

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGraphValidateOK(t *testing.T) {
	g := &Graph{
		Nodes: map[NodeID]Node{0: {ID: 0, Type: NodeInstance}, 1: {ID: 1, Type: NodeAction}},
		Links: []Link{{FromNode: 0, FromPin: "out", ToNode: 1, ToPin: "in"}},
		Roots: []NodeID{0},
	}
	assert.NoError(t, g.Validate())
}

func TestGraphValidateUnknownRoot(t *testing.T) {
	g := &Graph{
		Nodes: map[NodeID]Node{0: {ID: 0, Type: NodeInstance}},
		Roots: []NodeID{1},
	}
	assert.ErrorIs(t, g.Validate(), ErrGraphIntegrity)
}

func TestGraphValidateDanglingLinkSource(t *testing.T) {
	g := &Graph{
		Nodes: map[NodeID]Node{0: {ID: 0, Type: NodeInstance}},
		Links: []Link{{FromNode: 99, ToNode: 0}},
		Roots: []NodeID{0},
	}
	assert.ErrorIs(t, g.Validate(), ErrGraphIntegrity)
}

func TestGraphValidateDanglingLinkTarget(t *testing.T) {
	g := &Graph{
		Nodes: map[NodeID]Node{0: {ID: 0, Type: NodeInstance}},
		Links: []Link{{FromNode: 0, ToNode: 99}},
		Roots: []NodeID{0},
	}
	assert.ErrorIs(t, g.Validate(), ErrGraphIntegrity)
}
