package spatial

import "math"

// Triangle is one level-mesh triangle (§3 Level): world-space vertices,
// precomputed edge vectors and lengths, the world-transformed face normal,
// and a unique index used by engine/collision and engine/nav to refer back
// to it.
type Triangle struct {
	Index       int32
	Vertices    [3][3]float32
	Normal      [3]float32
	Edges       [3][3]float32 // v1-v0, v2-v1, v0-v2
	EdgeLengths [3]float32
	AABB        Box
}

// NewTriangle derives edges, edge lengths and the AABB for a triangle given
// its three world-space vertices and normal; index is the caller-assigned
// unique id.
func NewTriangle(index int32, v0, v1, v2, normal [3]float32) Triangle {
	e0 := sub(v1, v0)
	e1 := sub(v2, v1)
	e2 := sub(v0, v2)
	return Triangle{
		Index:       index,
		Vertices:    [3][3]float32{v0, v1, v2},
		Normal:      normal,
		Edges:       [3][3]float32{e0, e1, e2},
		EdgeLengths: [3]float32{length(e0), length(e1), length(e2)},
		AABB:        triangleBox(v0, v1, v2),
	}
}

func sub(a, b [3]float32) [3]float32 {
	return [3]float32{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func length(v [3]float32) float32 {
	return float32(math.Sqrt(float64(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])))
}

func triangleBox(v0, v1, v2 [3]float32) Box {
	min, max := v0, v0
	for _, v := range [][3]float32{v1, v2} {
		for a := 0; a < 3; a++ {
			if v[a] < min[a] {
				min[a] = v[a]
			}
			if v[a] > max[a] {
				max[a] = v[a]
			}
		}
	}
	return Box{Min: min, Max: max}
}

func (b Box) inflate(eps float32) Box {
	return Box{
		Min: [3]float32{b.Min[0] - eps, b.Min[1] - eps, b.Min[2] - eps},
		Max: [3]float32{b.Max[0] + eps, b.Max[1] + eps, b.Max[2] + eps},
	}
}

// NewTriangleOctree builds a triangle index once per level change (§4.3):
// every triangle's AABB is inflated by eps to avoid degenerate (zero-
// thickness) planes being dropped by strict queries.
func NewTriangleOctree(bounds Box, threshold, maxDepth int, eps float32, triangles []Triangle) *Octree[Triangle] {
	tree := New[Triangle](bounds, threshold, maxDepth)
	for _, t := range triangles {
		tree.Insert(t, t.AABB.inflate(eps))
	}
	return tree
}
