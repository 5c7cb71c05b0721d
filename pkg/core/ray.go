package core

// Ray represents a ray with an origin and direction.
// Rays produced by the integrator always carry a unit direction, so the
// parameter t of a hit equals the distance travelled.
type Ray struct {
	Origin    Vec3
	Direction Vec3
}

// NewRay creates a new ray
func NewRay(origin, direction Vec3) Ray {
	return Ray{Origin: origin, Direction: direction}
}

// NewSurfaceRay creates a ray leaving a surface point. The direction is
// normalized and the origin is pushed by offset along the normal, on the
// side the ray leaves through, so the ray cannot re-hit its own surface.
func NewSurfaceRay(point, normal, direction Vec3, offset float64) Ray {
	direction = direction.Normalize()
	if direction.Dot(normal) < 0 {
		offset = -offset
	}
	return Ray{Origin: point.Add(normal.Multiply(offset)), Direction: direction}
}

// At returns the point at parameter t along the ray
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Direction.Multiply(t))
}
