package geometry

import (
	"github.com/df07/go-nee-pathtracer/pkg/core"
	"github.com/df07/go-nee-pathtracer/pkg/material"
)

// Triangle represents a single triangle defined by three vertices
type Triangle struct {
	V0, V1, V2 core.Vec3         // The three vertices
	Material   material.Material // Material of the triangle
	normal     core.Vec3         // Cached normal vector
	area       float64
	index      int // Position inside the owning mesh, -1 when standalone
}

// NewTriangle creates a new triangle from three vertices
func NewTriangle(v0, v1, v2 core.Vec3, material material.Material) *Triangle {
	cross := v1.Subtract(v0).Cross(v2.Subtract(v0))
	return &Triangle{
		V0:       v0,
		V1:       v1,
		V2:       v2,
		Material: material,
		normal:   cross.Normalize(),
		area:     0.5 * cross.Length(),
		index:    -1,
	}
}

// Hit tests if a ray intersects with the triangle using the Möller-Trumbore algorithm
func (t *Triangle) Hit(ray core.Ray, tMin, tMax float64) (*Intersection, bool) {
	const epsilon = 1e-10

	edge1 := t.V1.Subtract(t.V0)
	edge2 := t.V2.Subtract(t.V0)

	h := ray.Direction.Cross(edge2)
	a := edge1.Dot(h)

	// Ray lies in the plane of the triangle
	if a > -epsilon && a < epsilon {
		return nil, false
	}

	f := 1.0 / a
	s := ray.Origin.Subtract(t.V0)
	u := f * s.Dot(h)
	if u < 0.0 || u > 1.0 {
		return nil, false
	}

	q := s.Cross(edge1)
	v := f * ray.Direction.Dot(q)
	if v < 0.0 || u+v > 1.0 {
		return nil, false
	}

	tHit := f * edge2.Dot(q)
	if tHit < tMin || tHit > tMax {
		return nil, false
	}

	hit := &Intersection{
		T:         tHit,
		Point:     ray.At(tHit),
		Material:  t.Material,
		Object:    t,
		Primitive: t.index,
	}
	hit.SetFaceNormal(ray, t.normal)

	return hit, true
}

// BoundingBox returns the axis-aligned bounding box for this triangle
func (t *Triangle) BoundingBox() core.AABB {
	return core.NewAABBFromPoints(t.V0, t.V1, t.V2).Expand(1e-4)
}

// Normal returns the geometric normal (right-handed V0, V1, V2 winding)
func (t *Triangle) Normal() core.Vec3 {
	return t.normal
}

// HasEmission implements Object
func (t *Triangle) HasEmission() bool {
	return t.Material != nil && t.Material.HasEmission()
}

// Area returns the triangle's area
func (t *Triangle) Area() float64 {
	return t.area
}

// Sample picks a uniform point on the triangle
func (t *Triangle) Sample(sample core.Vec2) SurfaceSample {
	b1, b2 := core.SampleTriangle(sample)
	point := t.V0.Multiply(1 - b1 - b2).Add(t.V1.Multiply(b1)).Add(t.V2.Multiply(b2))
	return SurfaceSample{
		Point:    point,
		Normal:   t.normal,
		Emission: emissionOf(t.Material),
		PDF:      1.0 / t.area,
	}
}
