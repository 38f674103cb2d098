package spatial

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func box(minX, minY, minZ, maxX, maxY, maxZ float32) Box {
	return Box{Min: [3]float32{minX, minY, minZ}, Max: [3]float32{maxX, maxY, maxZ}}
}

func TestBoxIntersects(t *testing.T) {
	a := box(0, 0, 0, 1, 1, 1)
	b := box(0.5, 0.5, 0.5, 1.5, 1.5, 1.5)
	c := box(2, 2, 2, 3, 3, 3)

	assert.True(t, a.Intersects(b))
	assert.True(t, b.Intersects(a))
	assert.False(t, a.Intersects(c))
}

func TestOctreeQueryFindsOverlapping(t *testing.T) {
	tree := New[string](box(-10, -10, -10, 10, 10, 10), 4, 4)
	tree.Insert("a", box(0, 0, 0, 1, 1, 1))
	tree.Insert("b", box(5, 5, 5, 6, 6, 6))
	tree.Insert("c", box(-5, -5, -5, -4, -4, -4))

	got := tree.Query(box(-1, -1, -1, 2, 2, 2))
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0])
}

func TestOctreeSplitsPastThreshold(t *testing.T) {
	tree := New[int](box(-10, -10, -10, 10, 10, 10), 3, 4)
	tree.Insert(1, box(-9, -9, -9, -8, -8, -8))
	tree.Insert(2, box(8, 8, 8, 9, 9, 9))
	assert.False(t, tree.split)

	tree.Insert(3, box(-1, -1, -1, 1, 1, 1))
	assert.True(t, tree.split, "third insert should reach the threshold and split the root")

	got := tree.Query(box(-10, -10, -10, 10, 10, 10))
	assert.ElementsMatch(t, []int{1, 2, 3}, got)
}

func TestOctreeStraddlingItemStaysOnParent(t *testing.T) {
	tree := New[int](box(-10, -10, -10, 10, 10, 10), 1, 4)
	// Crosses the root's center plane on every axis, so no single octant
	// fully contains it; it must remain on the splitting node itself.
	tree.Insert(1, box(-1, -1, -1, 1, 1, 1))
	tree.Insert(2, box(-9, -9, -9, -8, -8, -8))

	require.True(t, tree.split)
	require.Len(t, tree.items, 1)
	assert.Equal(t, 1, tree.items[0].Payload)
}

func TestFindAllIntersectionsNoDuplicatesOrSelfPairs(t *testing.T) {
	tree := New[int](box(-10, -10, -10, 10, 10, 10), 2, 4)
	tree.Insert(1, box(0, 0, 0, 2, 2, 2))
	tree.Insert(2, box(1, 1, 1, 3, 3, 3))
	tree.Insert(3, box(-9, -9, -9, -8, -8, -8))

	pairs := tree.FindAllIntersections()
	require.Len(t, pairs, 1)
	assert.ElementsMatch(t, []int{1, 2}, []int{pairs[0].A, pairs[0].B})
}

func TestFindAllIntersectionsAcrossAncestorAndChild(t *testing.T) {
	tree := New[int](box(-10, -10, -10, 10, 10, 10), 1, 4)
	// Straddles the split, stays on the root.
	tree.Insert(1, box(-1, -1, -1, 1, 1, 1))
	// Fully inside one octant, overlapping the straddling root item.
	tree.Insert(2, box(0.5, 0.5, 0.5, 2, 2, 2))

	pairs := tree.FindAllIntersections()
	require.Len(t, pairs, 1)
	assert.ElementsMatch(t, []int{1, 2}, []int{pairs[0].A, pairs[0].B})
}

func TestFindAllIntersectionsEmptyTree(t *testing.T) {
	tree := New[int](box(-1, -1, -1, 1, 1, 1), 4, 4)
	assert.Empty(t, tree.FindAllIntersections())
}
