package geometry

import (
	"sort"

	"github.com/nsdigirolamo/nicks-ray-tracer/pkg/core"
)

// BVHNode represents a node in the Bounding Volume Hierarchy.
// A leaf holds a single shape in both Left and Right.
type BVHNode struct {
	Box   core.AABB
	Left  Shape
	Right Shape

	leaf bool
}

// NewBVH constructs a BVH from a slice of shapes, choosing a random split axis
// at every level. Returns nil for an empty slice.
func NewBVH(shapes []Shape, sampler core.Sampler) *BVHNode {
	if len(shapes) == 0 {
		return nil
	}

	// Make a copy of the shapes slice to avoid modifying the original
	shapesCopy := make([]Shape, len(shapes))
	copy(shapesCopy, shapes)

	return buildBVH(shapesCopy, sampler)
}

// buildBVH recursively splits shapes at the median along a random axis
func buildBVH(shapes []Shape, sampler core.Sampler) *BVHNode {
	axis := randomAxis(sampler)

	switch len(shapes) {
	case 1:
		return &BVHNode{
			Box:   shapes[0].BoundingBox(),
			Left:  shapes[0],
			Right: shapes[0],
			leaf:  true,
		}
	case 2:
		left, right := shapes[0], shapes[1]
		if compareBoxes(left, right, axis) != orderLess {
			left, right = right, left
		}
		return newInteriorNode(left, right)
	}

	sort.SliceStable(shapes, func(i, j int) bool {
		return compareBoxes(shapes[i], shapes[j], axis) == orderLess
	})

	mid := len(shapes) / 2
	left := buildBVH(shapes[:mid], sampler)
	right := buildBVH(shapes[mid:], sampler)
	return newInteriorNode(left, right)
}

func newInteriorNode(left, right Shape) *BVHNode {
	return &BVHNode{
		Box:   core.SurroundingBox(left.BoundingBox(), right.BoundingBox()),
		Left:  left,
		Right: right,
	}
}

// randomAxis returns 0, 1 or 2 with equal probability
func randomAxis(sampler core.Sampler) int {
	axis := int(sampler.Get1D() * 3)
	if axis > 2 {
		axis = 2
	}
	return axis
}

type ordering int

const (
	orderLess ordering = iota - 1
	orderEqual
	orderGreater
)

// compareBoxes orders shapes by their bounding box along axis. a sorts first
// when its minimum is smaller; it sorts last when its maximum is larger.
// Overlapping boxes that satisfy neither compare equal, so this is not a
// strict weak ordering.
func compareBoxes(a, b Shape, axis int) ordering {
	boxA := a.BoundingBox()
	boxB := b.BoundingBox()

	if boxA.Min.Axis(axis) < boxB.Min.Axis(axis) {
		return orderLess
	}
	if boxA.Max.Axis(axis) > boxB.Max.Axis(axis) {
		return orderGreater
	}
	return orderEqual
}

// Hit tests if a ray intersects any shape in the BVH and returns the closest hit.
// Both children are tested against the full [tMin, tMax] interval.
func (node *BVHNode) Hit(ray core.Ray, tMin, tMax float64) (*HitRecord, bool) {
	if node == nil || !node.Box.Hit(ray, tMin, tMax) {
		return nil, false
	}

	if node.IsLeaf() {
		return node.Left.Hit(ray, tMin, tMax)
	}

	leftHit, hitLeft := node.Left.Hit(ray, tMin, tMax)
	rightHit, hitRight := node.Right.Hit(ray, tMin, tMax)

	switch {
	case hitLeft && hitRight:
		if rightHit.T < leftHit.T {
			return rightHit, true
		}
		return leftHit, true
	case hitLeft:
		return leftHit, true
	case hitRight:
		return rightHit, true
	default:
		return nil, false
	}
}

// BoundingBox implements the Shape interface
func (node *BVHNode) BoundingBox() core.AABB {
	if node == nil {
		return core.AABB{}
	}
	return node.Box
}

// IsLeaf reports whether the node wraps a single shape
func (node *BVHNode) IsLeaf() bool {
	return node != nil && node.leaf
}

// BVHStats contains statistics about the BVH structure
type BVHStats struct {
	TotalNodes  int
	LeafNodes   int
	MaxDepth    int
	AvgDepth    float64
	TotalShapes int
}

// Stats returns statistics about the BVH structure
func (node *BVHNode) Stats() BVHStats {
	if node == nil {
		return BVHStats{}
	}

	stats := BVHStats{}
	collectStats(node, 0, &stats)

	// Calculate average depth after collecting all data
	if stats.LeafNodes > 0 {
		stats.AvgDepth = stats.AvgDepth / float64(stats.LeafNodes)
	}

	return stats
}

// collectStats recursively collects statistics about the BVH
func collectStats(node *BVHNode, depth int, stats *BVHStats) {
	stats.TotalNodes++

	if depth > stats.MaxDepth {
		stats.MaxDepth = depth
	}

	if node.IsLeaf() {
		stats.LeafNodes++
		stats.TotalShapes++
		stats.AvgDepth += float64(depth)
		return
	}

	for _, child := range []Shape{node.Left, node.Right} {
		if childNode, ok := child.(*BVHNode); ok {
			collectStats(childNode, depth+1, stats)
			continue
		}
		// A primitive stored directly under an interior node
		stats.TotalNodes++
		stats.LeafNodes++
		stats.TotalShapes++
		stats.AvgDepth += float64(depth + 1)
		if depth+1 > stats.MaxDepth {
			stats.MaxDepth = depth + 1
		}
	}
}
