package material

import (
	"math"

	"github.com/df07/go-nee-pathtracer/pkg/core"
)

// Lambertian represents a perfectly diffuse material
type Lambertian struct {
	Albedo core.Vec3 // Base color/reflectance
}

// NewLambertian creates a new lambertian material
func NewLambertian(albedo core.Vec3) *Lambertian {
	return &Lambertian{Albedo: albedo}
}

// HasEmission implements Material
func (l *Lambertian) HasEmission() bool {
	return false
}

// Emission implements Material
func (l *Lambertian) Emission() core.Vec3 {
	return core.Vec3{}
}

// Eval returns albedo/π when both directions are above the surface
func (l *Lambertian) Eval(wIn, wOut, normal core.Vec3) core.Vec3 {
	if wIn.Dot(normal) <= 0 || wOut.Dot(normal) <= 0 {
		return core.Vec3{}
	}
	return l.Albedo.Multiply(1.0 / math.Pi)
}

// Sample generates a cosine-weighted direction around the normal
func (l *Lambertian) Sample(wOut, normal core.Vec3, sample core.Vec2) core.Vec3 {
	return core.SampleCosineHemisphere(normal, sample)
}

// PDF returns cos(θ)/π for cosine-weighted hemisphere sampling
func (l *Lambertian) PDF(wIn, wOut, normal core.Vec3) float64 {
	cosTheta := wIn.Dot(normal)
	if cosTheta <= 0 {
		return 0.0
	}
	return cosTheta / math.Pi
}
