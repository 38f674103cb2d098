package ik

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewChainDerivesSegmentLengths(t *testing.T) {
	c := NewChain([][3]float32{{0, 0, 0}, {0, 1, 0}, {0, 2, 0}})
	require.Len(t, c.SegmentLength, 2)
	assert.InDelta(t, 1, c.SegmentLength[0], 1e-5)
	assert.InDelta(t, 1, c.SegmentLength[1], 1e-5)
}

func TestSolveReachesTargetWithinEpsilon(t *testing.T) {
	// A two-segment leg bent at the knee, root pinned at the hip.
	chain := NewChain([][3]float32{{0, 0, 0.5}, {0, 0.5, 0.5}, {0, 1, 0}})
	target := [3]float32{0.2, 0, 0.3}

	solved := Solve(chain, target, 10, 1e-3)

	dx := solved.Joints[0][0] - target[0]
	dy := solved.Joints[0][1] - target[1]
	dz := solved.Joints[0][2] - target[2]
	dist := float32(math.Sqrt(float64(dx*dx + dy*dy + dz*dz)))
	assert.LessOrEqual(t, dist, float32(1e-2))
}

func TestSolvePreservesSegmentLengths(t *testing.T) {
	chain := NewChain([][3]float32{{0, 0, 0.5}, {0, 0.5, 0.5}, {0, 1, 0}})
	solved := Solve(chain, [3]float32{0.1, 0, 0.2}, 10, 1e-3)

	for i := 0; i < len(solved.Joints)-1; i++ {
		got := dist(solved.Joints[i], solved.Joints[i+1])
		assert.InDelta(t, chain.SegmentLength[i], got, 1e-3)
	}
}

func TestSolveKeepsRootPinned(t *testing.T) {
	chain := NewChain([][3]float32{{0, 0, 0.5}, {0, 0.5, 0.5}, {0, 1, 0}})
	root := chain.Joints[len(chain.Joints)-1]

	solved := Solve(chain, [3]float32{0.3, 0, 0.1}, 10, 1e-3)
	assert.Equal(t, root, solved.Joints[len(solved.Joints)-1])
}

func TestSolveUnreachableStretchesTowardTarget(t *testing.T) {
	chain := NewChain([][3]float32{{0, 0, 0}, {0, 1, 0}, {0, 2, 0}})
	// Far beyond the chain's total reach (2 units).
	target := [3]float32{0, 100, 0}

	solved := Solve(chain, target, 10, 1e-3)
	for i := 0; i < len(solved.Joints)-1; i++ {
		got := dist(solved.Joints[i], solved.Joints[i+1])
		assert.InDelta(t, chain.SegmentLength[i], got, 1e-3)
	}
	assert.Equal(t, chain.Joints[len(chain.Joints)-1], solved.Joints[len(solved.Joints)-1])
}

func TestSolveShortChainIsNoop(t *testing.T) {
	chain := Chain{Joints: [][3]float32{{1, 2, 3}}}
	solved := Solve(chain, [3]float32{9, 9, 9}, 10, 1e-3)
	assert.Equal(t, chain.Joints, solved.Joints)
}
