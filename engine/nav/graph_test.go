package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxyengine/charanim/engine/spatial"
)

func quad(offsetX float32) []spatial.Triangle {
	up := [3]float32{0, 1, 0}
	c := [4][3]float32{
		{offsetX + 0, 0, 0},
		{offsetX + 1, 0, 0},
		{offsetX + 1, 0, 1},
		{offsetX + 0, 0, 1},
	}
	return []spatial.Triangle{
		spatial.NewTriangle(0, c[0], c[1], c[2], up),
		spatial.NewTriangle(1, c[0], c[2], c[3], up),
	}
}

func TestBuildGraphConnectsSharedEdgeTriangles(t *testing.T) {
	g := BuildGraph(quad(0))

	path := g.FindPath(0, 1)
	require.NotEmpty(t, path)
	assert.Equal(t, []int32{0, 1}, path)
}

func TestBuildGraphTriangleCenter(t *testing.T) {
	g := BuildGraph(quad(0))
	c, ok := g.TriangleCenter(0)
	require.True(t, ok)
	assert.InDelta(t, 2.0/3.0, c[0], 1e-5)

	_, ok = g.TriangleCenter(99)
	assert.False(t, ok)
}

func TestFindPathUnreachableReturnsEmpty(t *testing.T) {
	// Two quads far enough apart that no triangle shares an edge across them.
	tris := append(quad(0), quad(100)...)
	tris[2].Index, tris[3].Index = 2, 3

	g := BuildGraph(tris)
	path := g.FindPath(0, 2)
	assert.Empty(t, path)
}

func TestFindPathUnknownNodeReturnsEmpty(t *testing.T) {
	g := BuildGraph(quad(0))
	assert.Empty(t, g.FindPath(0, 42))
}
