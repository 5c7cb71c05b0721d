package geometry

import (
	"math"

	"github.com/df07/go-nee-pathtracer/pkg/core"
	"github.com/df07/go-nee-pathtracer/pkg/material"
)

// Sphere represents a sphere shape
type Sphere struct {
	Center   core.Vec3
	Radius   float64
	Material material.Material
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64, material material.Material) *Sphere {
	return &Sphere{
		Center:   center,
		Radius:   radius,
		Material: material,
	}
}

// Hit tests if a ray intersects with the sphere
func (s *Sphere) Hit(ray core.Ray, tMin, tMax float64) (*Intersection, bool) {
	// Quadratic equation coefficients: at² + 2bt + c = 0
	oc := ray.Origin.Subtract(s.Center)
	a := ray.Direction.Dot(ray.Direction)
	halfB := oc.Dot(ray.Direction)
	c := oc.Dot(oc) - s.Radius*s.Radius

	discriminant := halfB*halfB - a*c
	if discriminant < 0 {
		return nil, false
	}
	sqrtD := math.Sqrt(discriminant)

	// Try the closer root first, then the farther one
	root := (-halfB - sqrtD) / a
	if root < tMin || root > tMax {
		root = (-halfB + sqrtD) / a
		if root < tMin || root > tMax {
			return nil, false
		}
	}

	hit := &Intersection{
		T:         root,
		Point:     ray.At(root),
		Material:  s.Material,
		Object:    s,
		Primitive: -1,
	}
	outwardNormal := hit.Point.Subtract(s.Center).Multiply(1.0 / s.Radius)
	hit.SetFaceNormal(ray, outwardNormal)

	return hit, true
}

// BoundingBox returns the axis-aligned bounding box for this sphere
func (s *Sphere) BoundingBox() core.AABB {
	radius := core.NewVec3(s.Radius, s.Radius, s.Radius)
	return core.NewAABB(
		s.Center.Subtract(radius),
		s.Center.Add(radius),
	)
}

// HasEmission implements Object
func (s *Sphere) HasEmission() bool {
	return s.Material != nil && s.Material.HasEmission()
}

// Area returns 4πr²
func (s *Sphere) Area() float64 {
	return 4 * math.Pi * s.Radius * s.Radius
}

// Sample picks a uniform point on the sphere surface
func (s *Sphere) Sample(sample core.Vec2) SurfaceSample {
	normal := core.SampleOnUnitSphere(sample)
	return SurfaceSample{
		Point:    s.Center.Add(normal.Multiply(s.Radius)),
		Normal:   normal,
		Emission: emissionOf(s.Material),
		PDF:      1.0 / s.Area(),
	}
}
