package integrator

import (
	"github.com/df07/go-nee-pathtracer/pkg/core"
)

// PathInfo records what happened along one traced path
type PathInfo struct {
	Depth     int  // Number of indirect bounces taken after the first hit
	Truncated bool // Path was stopped by the depth safety cap instead of roulette
}

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// Trace estimates the radiance arriving along ray
	Trace(ray core.Ray, sampler core.Sampler) (core.Vec3, PathInfo)
}
