package geometry

import "github.com/df07/go-nee-pathtracer/pkg/core"

// LinearAggregate is the brute-force reference oracle: it tests every shape
type LinearAggregate struct {
	Shapes []Shape
}

// NewLinearAggregate creates a brute-force aggregate over shapes
func NewLinearAggregate(shapes []Shape) *LinearAggregate {
	shapesCopy := make([]Shape, len(shapes))
	copy(shapesCopy, shapes)
	return &LinearAggregate{Shapes: shapesCopy}
}

// Hit scans every shape and keeps the hit strictly closer than the current best
func (la *LinearAggregate) Hit(ray core.Ray, tMin, tMax float64) (*Intersection, bool) {
	var closestHit *Intersection
	closestSoFar := tMax

	for _, shape := range la.Shapes {
		if hit, isHit := shape.Hit(ray, tMin, closestSoFar); isHit && (closestHit == nil || hit.T < closestSoFar) {
			closestSoFar = hit.T
			closestHit = hit
		}
	}

	return closestHit, closestHit != nil
}
