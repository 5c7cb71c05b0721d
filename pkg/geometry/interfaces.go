package geometry

import (
	"github.com/df07/go-nee-pathtracer/pkg/core"
	"github.com/df07/go-nee-pathtracer/pkg/material"
)

// Intersection contains information about a ray-object intersection.
// Material and Object are non-owning references into scene geometry.
type Intersection struct {
	Point     core.Vec3         // Point of intersection
	Normal    core.Vec3         // Unit surface normal, facing the arriving ray
	T         float64           // Parameter t along the ray
	FrontFace bool              // Whether ray hit the front face
	Material  material.Material // Material of the hit object
	Object    Object            // Object that was hit
	Primitive int               // Sub-primitive index for meshes, -1 otherwise
}

// SetFaceNormal sets the normal vector and determines front/back face
func (h *Intersection) SetFaceNormal(ray core.Ray, outwardNormal core.Vec3) {
	h.FrontFace = ray.Direction.Dot(outwardNormal) < 0
	if h.FrontFace {
		h.Normal = outwardNormal
	} else {
		h.Normal = outwardNormal.Negate()
	}
}

// Shape interface for objects that can be hit by rays
type Shape interface {
	Hit(ray core.Ray, tMin, tMax float64) (*Intersection, bool)
	BoundingBox() core.AABB
}

// Object is a scene primitive that can also be sampled as a light source
type Object interface {
	Shape

	// HasEmission reports whether the object's material emits light
	HasEmission() bool

	// Area returns the total surface area
	Area() float64

	// Sample returns a point distributed uniformly over the surface
	Sample(sample core.Vec2) SurfaceSample
}

// SurfaceSample is a point drawn uniformly from an object's surface
type SurfaceSample struct {
	Point    core.Vec3 // Point on the surface
	Normal   core.Vec3 // Outward normal at the point
	Emission core.Vec3 // Emitted radiance of the surface material
	PDF      float64   // Density with respect to the object's area (1/Area)
}

// emissionOf returns a material's emission, zero for nil or non-emitters
func emissionOf(m material.Material) core.Vec3 {
	if m == nil || !m.HasEmission() {
		return core.Vec3{}
	}
	return m.Emission()
}

// Aggregate answers nearest-hit queries over a whole set of shapes
type Aggregate interface {
	Hit(ray core.Ray, tMin, tMax float64) (*Intersection, bool)
}
