package lights

import "github.com/df07/go-nee-pathtracer/pkg/core"

// LightSample contains information about a sampled point on a light
type LightSample struct {
	Point    core.Vec3 // Point on the light source
	Normal   core.Vec3 // Outward normal at the light sample point
	Emission core.Vec3 // Emitted radiance at the point
	PDF      float64   // Density with respect to area over the whole light set
}

// LightSampler picks points on the scene's emitters for direct lighting
type LightSampler interface {
	// Sample returns a light point, or false when the scene has no emitters
	Sample(sampler core.Sampler) (LightSample, bool)
}
