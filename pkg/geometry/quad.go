package geometry

import (
	"math"

	"github.com/df07/go-nee-pathtracer/pkg/core"
	"github.com/df07/go-nee-pathtracer/pkg/material"
)

// Quad represents a parallelogram defined by a corner and two edge vectors
type Quad struct {
	Corner   core.Vec3         // One corner of the quad
	U        core.Vec3         // First edge vector
	V        core.Vec3         // Second edge vector
	Normal   core.Vec3         // Unit normal (U × V)
	Material material.Material // Material of the quad
	D        float64           // Plane equation constant: n·p = d
	W        core.Vec3         // Cached n/(n·(u×v)) for planar coordinates
	area     float64
}

// NewQuad creates a new quad from a corner point and two edge vectors
func NewQuad(corner, u, v core.Vec3, material material.Material) *Quad {
	cross := u.Cross(v)
	normal := cross.Normalize()

	return &Quad{
		Corner:   corner,
		U:        u,
		V:        v,
		Normal:   normal,
		Material: material,
		D:        normal.Dot(corner),
		W:        cross.Multiply(1.0 / cross.Dot(cross)),
		area:     cross.Length(),
	}
}

// Hit tests if a ray intersects with the quad
func (q *Quad) Hit(ray core.Ray, tMin, tMax float64) (*Intersection, bool) {
	denominator := ray.Direction.Dot(q.Normal)

	// Ray parallel to the plane
	if math.Abs(denominator) < 1e-8 {
		return nil, false
	}

	t := (q.D - ray.Origin.Dot(q.Normal)) / denominator
	if t < tMin || t > tMax {
		return nil, false
	}

	hitPoint := ray.At(t)
	hitVector := hitPoint.Subtract(q.Corner)

	// Planar coordinates of the hit point along U and V
	alpha := q.W.Dot(hitVector.Cross(q.V))
	beta := q.W.Dot(q.U.Cross(hitVector))
	if alpha < 0 || alpha > 1 || beta < 0 || beta > 1 {
		return nil, false
	}

	hit := &Intersection{
		T:         t,
		Point:     hitPoint,
		Material:  q.Material,
		Object:    q,
		Primitive: -1,
	}
	hit.SetFaceNormal(ray, q.Normal)

	return hit, true
}

// BoundingBox returns the bounding box, padded so flat quads stay non-degenerate
func (q *Quad) BoundingBox() core.AABB {
	return core.NewAABBFromPoints(
		q.Corner,
		q.Corner.Add(q.U),
		q.Corner.Add(q.V),
		q.Corner.Add(q.U).Add(q.V),
	).Expand(1e-4)
}

// HasEmission implements Object
func (q *Quad) HasEmission() bool {
	return q.Material != nil && q.Material.HasEmission()
}

// Area returns |U × V|
func (q *Quad) Area() float64 {
	return q.area
}

// Sample picks a uniform point on the quad
func (q *Quad) Sample(sample core.Vec2) SurfaceSample {
	return SurfaceSample{
		Point:    q.Corner.Add(q.U.Multiply(sample.X)).Add(q.V.Multiply(sample.Y)),
		Normal:   q.Normal,
		Emission: emissionOf(q.Material),
		PDF:      1.0 / q.area,
	}
}
