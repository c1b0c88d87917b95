package geometry

import (
	"math"
	"sort"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

// Surface area heuristic weights: the cost of one traversal step and of one primitive
// intersection test. Only their ratio matters.
const (
	sahTraversalCost    = 1.0
	sahIntersectionCost = 2.0
)

// bvhNode is one entry of the node arena. Leaves reference a single primitive; internal
// nodes reference their two children by arena index.
type bvhNode struct {
	box         core.AABB
	left, right int32
	prim        int32 // primitive index for leaves, -1 for internal nodes
}

func (n *bvhNode) isLeaf() bool {
	return n.prim >= 0
}

// bvhItem is a primitive's box paired with its index, the unit the builder partitions
type bvhItem struct {
	box   core.AABB
	index int
}

// BVH is a bounding volume hierarchy over scene primitives. It is built once and only read
// afterwards, so any number of goroutines may traverse it concurrently.
type BVH struct {
	nodes []bvhNode
	prims []Primitive

	Center core.Vec3 // Center of the root bounding box
	Radius float64   // Radius of the sphere around Center enclosing the root box
}

// BVHStats describes the shape of a built tree
type BVHStats struct {
	Nodes      int
	Leaves     int
	MaxDepth   int
	Primitives int
}

// NewBVH constructs a BVH over prims using the surface area heuristic
func NewBVH(prims []Primitive) *BVH {
	bvh := &BVH{prims: append([]Primitive(nil), prims...)}
	if len(prims) == 0 {
		return bvh
	}

	items := make([]bvhItem, len(prims))
	for i, prim := range prims {
		items[i] = bvhItem{box: prim.BoundingBox(), index: i}
	}

	bvh.nodes = make([]bvhNode, 0, 2*len(prims)-1)
	bvh.build(items)

	root := bvh.nodes[0].box
	bvh.Center = root.Center()
	bvh.Radius = root.Max.Subtract(bvh.Center).Length()
	return bvh
}

// build appends the subtree for items to the arena and returns the index of its root
func (bvh *BVH) build(items []bvhItem) int32 {
	nodeIndex := int32(len(bvh.nodes))

	if len(items) == 1 {
		bvh.nodes = append(bvh.nodes, bvhNode{
			box:   items[0].box,
			left:  -1,
			right: -1,
			prim:  int32(items[0].index),
		})
		return nodeIndex
	}

	box := items[0].box
	for _, item := range items[1:] {
		box = box.Union(item.box)
	}

	axis, split, ok := findSAHSplit(items, box)
	if !ok {
		// Median split on the longest axis
		axis = box.LongestAxis()
		split = len(items) / 2
	}
	sortItemsByAxis(items, axis)

	// Reserve the slot before recursing so children land after their parent
	bvh.nodes = append(bvh.nodes, bvhNode{box: box, prim: -1})
	left := bvh.build(items[:split])
	right := bvh.build(items[split:])
	bvh.nodes[nodeIndex].left = left
	bvh.nodes[nodeIndex].right = right

	return nodeIndex
}

// findSAHSplit evaluates every split point along every axis and returns the globally
// cheapest one, or false when no split improves on the parent. The split index k puts
// items[:k] left and items[k:] right after sorting along the returned axis.
func findSAHSplit(items []bvhItem, parent core.AABB) (int, int, bool) {
	n := len(items)
	parentArea := parent.Area()
	if !(parentArea > 0) || math.IsInf(parentArea, 0) {
		return 0, 0, false
	}

	bestCost := math.Inf(1)
	bestAxis, bestSplit := 0, 0
	var bestLargest core.AABB

	sorted := make([]bvhItem, n)
	leftBoxes := make([]core.AABB, n)
	rightBoxes := make([]core.AABB, n)

	for axis := 0; axis < 3; axis++ {
		copy(sorted, items)
		sortItemsByAxis(sorted, axis)

		leftBoxes[0] = sorted[0].box
		for i := 1; i < n; i++ {
			leftBoxes[i] = leftBoxes[i-1].Union(sorted[i].box)
		}
		rightBoxes[n-1] = sorted[n-1].box
		for i := n - 2; i >= 0; i-- {
			rightBoxes[i] = rightBoxes[i+1].Union(sorted[i].box)
		}

		for k := 1; k < n; k++ {
			leftBox, rightBox := leftBoxes[k-1], rightBoxes[k]
			cost := sahTraversalCost + sahIntersectionCost*
				(leftBox.Area()*float64(k)+rightBox.Area()*float64(n-k))/parentArea

			largest := leftBox
			if largest.Less(rightBox) {
				largest = rightBox
			}

			// Exact ties prefer the split whose bigger child is smaller
			if cost < bestCost || (cost == bestCost && largest.Less(bestLargest)) {
				bestCost = cost
				bestAxis = axis
				bestSplit = k
				bestLargest = largest
			}
		}
	}

	// A split that is no cheaper than testing every item directly does not improve on the
	// parent; identical boxes end up here and fall back to a count-based median
	if math.IsNaN(bestCost) || bestCost >= sahIntersectionCost*float64(n) {
		return 0, 0, false
	}
	return bestAxis, bestSplit, true
}

// sortItemsByAxis sorts items by their bounding box center along the specified axis
func sortItemsByAxis(items []bvhItem, axis int) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].box.Center().Axis(axis) < items[j].box.Center().Axis(axis)
	})
}

// Hit finds the nearest intersection. rec is only overwritten by strictly nearer hits and
// ray.TMax shrinks to the committed distance.
func (bvh *BVH) Hit(ray *core.Ray, rec *HitRecord) bool {
	if len(bvh.nodes) == 0 {
		return false
	}
	if _, ok := bvh.nodes[0].box.Distance(ray); !ok {
		return false
	}
	return bvh.hitNode(0, ray, rec)
}

// HitAny reports whether the ray hits anything within its interval. The caller's ray is
// not modified.
func (bvh *BVH) HitAny(ray core.Ray) bool {
	if len(bvh.nodes) == 0 {
		return false
	}
	scratch := NewHitRecord()
	return bvh.hitAnyNode(0, &ray, &scratch)
}

// hitNode finds the closest hit below the node. Children are visited nearest box first,
// and a child whose entry distance lies beyond the narrowed ray.TMax is skipped.
func (bvh *BVH) hitNode(index int32, ray *core.Ray, rec *HitRecord) bool {
	node := &bvh.nodes[index]
	if node.isLeaf() {
		return bvh.prims[node.prim].Intersect(ray, rec)
	}

	near, far := node.left, node.right
	tNear, okNear := bvh.nodes[near].box.Distance(ray)
	tFar, okFar := bvh.nodes[far].box.Distance(ray)
	if okFar && (!okNear || tFar < tNear) {
		near, far = far, near
		tNear, tFar = tFar, tNear
		okNear, okFar = okFar, okNear
	}

	hit := false
	if okNear {
		hit = bvh.hitNode(near, ray, rec)
	}
	if okFar && tFar <= ray.TMax {
		hit = bvh.hitNode(far, ray, rec) || hit
	}
	return hit
}

// hitAnyNode stops at the first hit in any order
func (bvh *BVH) hitAnyNode(index int32, ray *core.Ray, rec *HitRecord) bool {
	node := &bvh.nodes[index]
	if !node.box.Hit(ray) {
		return false
	}
	if node.isLeaf() {
		return bvh.prims[node.prim].Intersect(ray, rec)
	}
	return bvh.hitAnyNode(node.left, ray, rec) || bvh.hitAnyNode(node.right, ray, rec)
}

// BoundingBox returns the root box, or an empty box for an empty tree
func (bvh *BVH) BoundingBox() core.AABB {
	if len(bvh.nodes) == 0 {
		return core.NewAABB(core.Vec3{}, core.Vec3{})
	}
	return bvh.nodes[0].box
}

// Primitives returns the primitives indexed by the tree
func (bvh *BVH) Primitives() []Primitive {
	return bvh.prims
}

// Stats returns statistics about the tree structure
func (bvh *BVH) Stats() BVHStats {
	stats := BVHStats{Primitives: len(bvh.prims)}
	if len(bvh.nodes) == 0 {
		return stats
	}
	bvh.collectStats(0, 0, &stats)
	return stats
}

func (bvh *BVH) collectStats(index int32, depth int, stats *BVHStats) {
	stats.Nodes++
	stats.MaxDepth = max(stats.MaxDepth, depth)

	node := &bvh.nodes[index]
	if node.isLeaf() {
		stats.Leaves++
		return
	}
	bvh.collectStats(node.left, depth+1, stats)
	bvh.collectStats(node.right, depth+1, stats)
}
