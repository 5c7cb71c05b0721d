package geometry

import (
	"github.com/df07/go-nee-pathtracer/pkg/core"
)

// BVHNode represents a node in the Bounding Volume Hierarchy
type BVHNode struct {
	BoundingBox core.AABB
	Left        *BVHNode
	Right       *BVHNode
	Shapes      []Shape // Shapes for leaf nodes (nil for internal nodes)
}

// BVH represents a Bounding Volume Hierarchy for fast ray-object intersection
type BVH struct {
	Root *BVHNode
}

// NewBVH constructs a BVH from a slice of shapes
func NewBVH(shapes []Shape) *BVH {
	if len(shapes) == 0 {
		return &BVH{Root: nil}
	}

	// Partitioning reorders the slice, so work on a copy
	shapesCopy := make([]Shape, len(shapes))
	copy(shapesCopy, shapes)

	return &BVH{Root: buildBVH(shapesCopy)}
}

// Leaf threshold: if we have this many or fewer shapes, store them in a leaf node
const leafThreshold = 8

// buildBVH recursively builds the BVH by splitting at the midpoint of the
// longest axis of the node bounds
func buildBVH(shapes []Shape) *BVHNode {
	boundingBox := shapes[0].BoundingBox()
	for i := 1; i < len(shapes); i++ {
		boundingBox = boundingBox.Union(shapes[i].BoundingBox())
	}

	if len(shapes) <= leafThreshold {
		return &BVHNode{BoundingBox: boundingBox, Shapes: shapes}
	}

	axis := boundingBox.LongestAxis()
	splitPos := boundingBox.CenterAxis(axis)
	left, right := partitionShapes(shapes, axis, splitPos)

	// All centers on one side of the midpoint: fall back to an even split by count
	if len(left) == 0 || len(right) == 0 {
		mid := len(shapes) / 2
		left, right = shapes[:mid], shapes[mid:]
	}

	return &BVHNode{
		BoundingBox: boundingBox,
		Left:        buildBVH(left),
		Right:       buildBVH(right),
	}
}

// partitionShapes reorders shapes in place so those whose center lies below
// splitPos on the axis come first
func partitionShapes(shapes []Shape, axis int, splitPos float64) ([]Shape, []Shape) {
	i := 0
	for j := range shapes {
		if shapes[j].BoundingBox().CenterAxis(axis) < splitPos {
			shapes[i], shapes[j] = shapes[j], shapes[i]
			i++
		}
	}
	return shapes[:i], shapes[i:]
}

// Hit returns the closest intersection of the ray with any shape in the BVH
func (bvh *BVH) Hit(ray core.Ray, tMin, tMax float64) (*Intersection, bool) {
	if bvh.Root == nil {
		return nil, false
	}
	return bvh.hitNode(bvh.Root, ray, tMin, tMax)
}

// hitNode recursively tests ray intersection with BVH nodes
func (bvh *BVH) hitNode(node *BVHNode, ray core.Ray, tMin, tMax float64) (*Intersection, bool) {
	if !node.BoundingBox.Hit(ray, tMin, tMax) {
		return nil, false
	}

	var closestHit *Intersection
	closestSoFar := tMax

	if node.Shapes != nil {
		for _, shape := range node.Shapes {
			if hit, isHit := shape.Hit(ray, tMin, closestSoFar); isHit {
				closestSoFar = hit.T
				closestHit = hit
			}
		}
		return closestHit, closestHit != nil
	}

	// The right child only needs to beat whatever the left child found
	if hit, isHit := bvh.hitNode(node.Left, ray, tMin, closestSoFar); isHit {
		closestSoFar = hit.T
		closestHit = hit
	}
	if hit, isHit := bvh.hitNode(node.Right, ray, tMin, closestSoFar); isHit {
		closestHit = hit
	}

	return closestHit, closestHit != nil
}

// bvhStats contains statistics about the BVH structure
type bvhStats struct {
	totalNodes  int
	leafNodes   int
	maxDepth    int
	totalShapes int
}

// getStats returns statistics about the BVH structure
func (bvh *BVH) getStats() bvhStats {
	stats := bvhStats{}
	if bvh.Root != nil {
		bvh.collectStats(bvh.Root, 0, &stats)
	}
	return stats
}

// collectStats recursively collects statistics about the BVH
func (bvh *BVH) collectStats(node *BVHNode, depth int, stats *bvhStats) {
	stats.totalNodes++
	stats.maxDepth = max(stats.maxDepth, depth)

	if node.Shapes != nil {
		stats.leafNodes++
		stats.totalShapes += len(node.Shapes)
		return
	}
	bvh.collectStats(node.Left, depth+1, stats)
	bvh.collectStats(node.Right, depth+1, stats)
}
