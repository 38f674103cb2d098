// Package nav implements ground-triangle navigation (§4.7): a walkability
// graph extracted from the level's triangle octree, A* pathfinding over it
// via gonum's graph/path, and a per-instance path follower.
package nav

import (
	"math"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/oxyengine/charanim/engine/spatial"
)

// Graph is the ground-triangle adjacency graph used for pathfinding.
type Graph struct {
	g       *simple.WeightedUndirectedGraph
	centers map[int64][3]float32
}

const edgeTolerance = 1e-3

func sharesEdge(a, b spatial.Triangle) bool {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if closeEnough(a.Vertices[i], b.Vertices[j]) && closeEnough(a.Vertices[(i+1)%3], b.Vertices[(j+2)%3]) {
				return true
			}
			if closeEnough(a.Vertices[i], b.Vertices[(j+2)%3]) && closeEnough(a.Vertices[(i+1)%3], b.Vertices[j]) {
				return true
			}
		}
	}
	return false
}

func closeEnough(a, b [3]float32) bool {
	dx, dy, dz := a[0]-b[0], a[1]-b[1], a[2]-b[2]
	return dx*dx+dy*dy+dz*dz <= edgeTolerance*edgeTolerance
}

func center(t spatial.Triangle) [3]float32 {
	return [3]float32{
		(t.Vertices[0][0] + t.Vertices[1][0] + t.Vertices[2][0]) / 3,
		(t.Vertices[0][1] + t.Vertices[1][1] + t.Vertices[2][1]) / 3,
		(t.Vertices[0][2] + t.Vertices[1][2] + t.Vertices[2][2]) / 3,
	}
}

func centerDist(a, b [3]float32) float64 {
	dx, dy, dz := float64(a[0]-b[0]), float64(a[1]-b[1]), float64(a[2]-b[2])
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// BuildGraph constructs the ground-triangle graph from the set of walkable
// triangles (pre-filtered by the caller via collision.Classify). Two
// triangles are adjacent iff they share an edge within a small tolerance;
// edge weight is the straight-line distance between their centers, and
// node centers are precomputed once.
func BuildGraph(walkable []spatial.Triangle) *Graph {
	g := simple.NewWeightedUndirectedGraph(0, math.Inf(1))
	centers := make(map[int64][3]float32, len(walkable))

	for _, t := range walkable {
		id := int64(t.Index)
		g.AddNode(simple.Node(id))
		centers[id] = center(t)
	}
	for i := 0; i < len(walkable); i++ {
		for j := i + 1; j < len(walkable); j++ {
			if sharesEdge(walkable[i], walkable[j]) {
				a, b := int64(walkable[i].Index), int64(walkable[j].Index)
				w := centerDist(centers[a], centers[b])
				g.SetWeightedEdge(simple.WeightedEdge{F: simple.Node(a), T: simple.Node(b), W: w})
			}
		}
	}
	return &Graph{g: g, centers: centers}
}

// FindPath runs A* (§4.7): g is accumulated edge length between triangle
// centers, h is straight-line distance from a node's center to the goal's
// center, ties broken toward lower g (gonum's AStar already prefers the
// lower-cost path on tie, matching the spec's tiebreaker). Returns the
// sequence of triangle ids from start to goal inclusive, or empty if
// unreachable.
func (gr *Graph) FindPath(startTri, goalTri int32) []int32 {
	start := simple.Node(int64(startTri))
	goal := simple.Node(int64(goalTri))

	if gr.g.Node(start.ID()) == nil || gr.g.Node(goal.ID()) == nil {
		return nil
	}

	goalCenter := gr.centers[goal.ID()]
	heuristic := func(x, y graph.Node) float64 {
		return centerDist(gr.centers[x.ID()], goalCenter)
	}

	shortest := path.AStar(start, goal, gr.g, heuristic)
	nodes, _ := shortest.To(goal.ID())
	if len(nodes) == 0 {
		return nil
	}

	out := make([]int32, len(nodes))
	for i, n := range nodes {
		out[i] = int32(n.ID())
	}
	return out
}

// TriangleCenter returns the precomputed center of a graph node's
// triangle.
func (gr *Graph) TriangleCenter(tri int32) ([3]float32, bool) {
	c, ok := gr.centers[int64(tri)]
	return c, ok
}
