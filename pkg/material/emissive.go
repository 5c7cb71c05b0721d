package material

import (
	"github.com/df07/go-nee-pathtracer/pkg/core"
)

// Emissive represents a light-emitting surface. Emission is the same on
// both sides; the light sampler's cosine term makes direct lighting one sided.
// The surface also carries a diffuse albedo so it stays a valid Material
// when something asks it to reflect.
type Emissive struct {
	Emit core.Vec3 // Emitted radiance
	Lambertian
}

// NewEmissive creates a new emissive material with a black diffuse base
func NewEmissive(emission core.Vec3) *Emissive {
	return &Emissive{Emit: emission}
}

// NewDiffuseEmissive creates an emissive material that also reflects diffusely
func NewDiffuseEmissive(emission, albedo core.Vec3) *Emissive {
	return &Emissive{Emit: emission, Lambertian: Lambertian{Albedo: albedo}}
}

// HasEmission implements Material
func (e *Emissive) HasEmission() bool {
	return true
}

// Emission returns the emitted light for this material
func (e *Emissive) Emission() core.Vec3 {
	return e.Emit
}
