// Package spatial implements the generic Octree of §3/§4.3: a cube node
// that splits into 8 children once it holds at least threshold payload
// items and has not reached maxDepth, re-inserting every item into the
// child it fits in while leaving straddling items on the parent. The
// tile-grid subdivision engine/light uses for Forward+ light culling is the
// screen-space analogue this package generalizes to three dimensions.
package spatial

// Box is an axis-aligned bounding box in world space.
type Box struct {
	Min [3]float32
	Max [3]float32
}

// Intersects reports whether two boxes overlap on all three axes.
func (b Box) Intersects(o Box) bool {
	return b.Min[0] <= o.Max[0] && b.Max[0] >= o.Min[0] &&
		b.Min[1] <= o.Max[1] && b.Max[1] >= o.Min[1] &&
		b.Min[2] <= o.Max[2] && b.Max[2] >= o.Min[2]
}

func (b Box) contains(o Box) bool {
	return o.Min[0] >= b.Min[0] && o.Max[0] <= b.Max[0] &&
		o.Min[1] >= b.Min[1] && o.Max[1] <= b.Max[1] &&
		o.Min[2] >= b.Min[2] && o.Max[2] <= b.Max[2]
}

func (b Box) center() [3]float32 {
	return [3]float32{(b.Min[0] + b.Max[0]) / 2, (b.Min[1] + b.Max[1]) / 2, (b.Min[2] + b.Max[2]) / 2}
}

// octant splits b into its 8 children (standard min/center/max subdivision).
func (b Box) octant(i int) Box {
	c := b.center()
	var min, max [3]float32
	for axis := 0; axis < 3; axis++ {
		bit := (i >> uint(axis)) & 1
		if bit == 0 {
			min[axis], max[axis] = b.Min[axis], c[axis]
		} else {
			min[axis], max[axis] = c[axis], b.Max[axis]
		}
	}
	return Box{Min: min, Max: max}
}

// Item is one payload entry held by an Octree node: the payload value plus
// the AABB callback result captured at insertion time.
type Item[I any] struct {
	Payload I
	Box     Box
}

// Octree is a generic spatial index over payload type I. The caller injects
// the AABB for each payload rather than the tree owning the payload's
// storage (§4.3 "the octree does not own the instances").
type Octree[I any] struct {
	threshold int
	maxDepth  int

	bounds   Box
	depth    int
	items    []Item[I]
	children [8]*Octree[I]
	split    bool
}

// New creates an empty Octree rooted at bounds with the given split
// threshold and maximum depth.
func New[I any](bounds Box, threshold, maxDepth int) *Octree[I] {
	return &Octree[I]{bounds: bounds, threshold: threshold, maxDepth: maxDepth}
}

// Insert adds a payload with the given AABB to the tree, splitting this
// node (and re-inserting its existing items) if the threshold is crossed.
func (o *Octree[I]) Insert(payload I, box Box) {
	if o.split {
		o.insertIntoChildren([]Item[I]{{Payload: payload, Box: box}})
		return
	}
	o.items = append(o.items, Item[I]{Payload: payload, Box: box})
	if len(o.items) >= o.threshold && o.depth < o.maxDepth {
		o.splitNode()
	}
}

func (o *Octree[I]) splitNode() {
	for i := range o.children {
		child := New[I](o.bounds.octant(i), o.threshold, o.maxDepth)
		child.depth = o.depth + 1
		o.children[i] = child
	}
	o.split = true

	existing := o.items
	o.items = o.items[:0]
	o.insertIntoChildren(existing)
}

// insertIntoChildren re-homes each item into the single child whose bounds
// fully contain it; items that straddle more than one child (or none)
// remain on this node.
func (o *Octree[I]) insertIntoChildren(items []Item[I]) {
	for _, it := range items {
		placed := false
		for _, child := range o.children {
			if child.bounds.contains(it.Box) {
				child.Insert(it.Payload, it.Box)
				placed = true
				break
			}
		}
		if !placed {
			o.items = append(o.items, it)
		}
	}
}

// Query returns every payload whose AABB intersects box. Each inserted item
// is stored on exactly one node, so it is reported at most once.
func (o *Octree[I]) Query(box Box) []I {
	seen := make(map[int]struct{})
	var out []I
	o.queryInto(box, &out, seen, nil)
	return out
}

// queryInto is the recursive worker. The seen map and idFn are passed
// through but not used; no deduplication is performed.
func (o *Octree[I]) queryInto(box Box, out *[]I, seen map[int]struct{}, idFn func(I) int) {
	if !o.bounds.Intersects(box) {
		return
	}
	for _, it := range o.items {
		if it.Box.Intersects(box) {
			*out = append(*out, it.Payload)
		}
	}
	if o.split {
		for _, child := range o.children {
			child.queryInto(box, out, seen, idFn)
		}
	}
}

// Pair is one unordered, unique pair of intersecting payloads returned by
// FindAllIntersections.
type Pair[I any] struct {
	A, B I
}

// FindAllIntersections walks the tree once and reports every unordered pair
// of payloads whose AABBs overlap, without self-pairs or duplicate pairs
// (§4.3, §8 property 3). Complexity is proportional to the number of items
// that ever co-occur within a node's subtree.
func (o *Octree[I]) FindAllIntersections() []Pair[I] {
	var out []Pair[I]
	o.collectPairs(nil, &out)
	return out
}

// collectPairs tests every item at this node against every item at this
// node and against every ancestor item passed down in inherited, then
// recurses into children carrying this node's items forward. Because an
// item straddling children lives on exactly one ancestor node, this walk
// visits every true intersecting pair exactly once: ancestor-vs-descendant
// pairs are found when the descendant node is visited, and sibling pairs
// within the same node are found via the local n^2 pass.
func (o *Octree[I]) collectPairs(inherited []Item[I], out *[]Pair[I]) {
	for i := 0; i < len(o.items); i++ {
		for j := i + 1; j < len(o.items); j++ {
			if o.items[i].Box.Intersects(o.items[j].Box) {
				*out = append(*out, Pair[I]{A: o.items[i].Payload, B: o.items[j].Payload})
			}
		}
		for _, anc := range inherited {
			if o.items[i].Box.Intersects(anc.Box) {
				*out = append(*out, Pair[I]{A: anc.Payload, B: o.items[i].Payload})
			}
		}
	}
	if !o.split {
		return
	}
	carried := append(append([]Item[I]{}, inherited...), o.items...)
	for _, child := range o.children {
		child.collectPairs(carried, out)
	}
}
