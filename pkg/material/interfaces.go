package material

import (
	"github.com/df07/go-nee-pathtracer/pkg/core"
)

// Material is the surface capability consumed by the integrator.
//
// All directions point away from the surface: wOut toward the viewer (the
// reverse of the arriving ray) and wIn toward the light or the next bounce.
// normal is the unit shading normal on the side of the arriving ray.
// Eval and PDF must be defined over the same support that Sample produces.
type Material interface {
	// HasEmission reports whether the surface is a light source
	HasEmission() bool

	// Emission returns emitted radiance (zero for non-emitters)
	Emission() core.Vec3

	// Eval evaluates the BRDF for the pair of directions
	Eval(wIn, wOut, normal core.Vec3) core.Vec3

	// Sample importance-samples an incoming direction wIn given wOut
	Sample(wOut, normal core.Vec3, sample core.Vec2) core.Vec3

	// PDF returns the solid-angle density of Sample producing wIn
	PDF(wIn, wOut, normal core.Vec3) float64
}
