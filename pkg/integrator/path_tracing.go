package integrator

import (
	"math"

	"github.com/df07/go-nee-pathtracer/pkg/core"
	"github.com/df07/go-nee-pathtracer/pkg/geometry"
	"github.com/df07/go-nee-pathtracer/pkg/scene"
)

// PathTracingIntegrator implements unidirectional path tracing with
// next-event estimation: every non-emissive hit samples one light point
// directly, and indirect bounces that land on an emitter are discarded so
// direct light is never counted twice. Paths end by Russian roulette.
//
// The integrator holds no mutable state and may be shared by goroutines,
// each with its own sampler.
type PathTracingIntegrator struct {
	scene *scene.Scene
}

// NewPathTracingIntegrator creates a new path tracing integrator
func NewPathTracingIntegrator(sc *scene.Scene) *PathTracingIntegrator {
	return &PathTracingIntegrator{scene: sc}
}

// Shade returns the radiance arriving along ray
func (pt *PathTracingIntegrator) Shade(ray core.Ray, sampler core.Sampler) core.Vec3 {
	radiance, _ := pt.Trace(ray, sampler)
	return radiance
}

// Trace returns the radiance arriving along ray together with path statistics.
//
// The recursion shade(x) = direct(x) + brdf*cos/pdf/rr * shade(next) is
// unrolled into a loop carrying the product of the bounce weights. The
// depth cap in the scene config only guards against runaway paths.
func (pt *PathTracingIntegrator) Trace(ray core.Ray, sampler core.Sampler) (core.Vec3, PathInfo) {
	var info PathInfo
	config := pt.scene.Config()

	hit, isHit := pt.scene.Intersect(ray)
	if !isHit {
		return core.Vec3{}, info
	}

	// Lights seen directly contribute their emission only
	if hit.Material.HasEmission() {
		return hit.Material.Emission(), info
	}

	radiance := core.Vec3{}
	throughput := core.NewVec3(1, 1, 1)

	for {
		wOut := ray.Direction.Normalize().Negate()

		direct := pt.calculateDirectLighting(hit, wOut, sampler)
		radiance = radiance.Add(throughput.MultiplyVec(direct))

		// Russian roulette
		if sampler.Get1D() >= config.RussianRoulette {
			break
		}

		nextRay, nextHit, weight, ok := pt.continuePath(hit, wOut, sampler)
		if !ok {
			break
		}

		if info.Depth >= config.MaxDepth {
			info.Truncated = true
			break
		}

		throughput = throughput.MultiplyVec(weight).Multiply(1.0 / config.RussianRoulette)
		if !throughput.IsFinite() {
			break
		}

		info.Depth++
		ray = nextRay
		hit = nextHit
	}

	if !radiance.IsFinite() {
		return core.Vec3{}, info
	}
	return radiance, info
}

// calculateDirectLighting samples one point on the scene's lights and
// returns its unoccluded contribution at hit
func (pt *PathTracingIntegrator) calculateDirectLighting(hit *geometry.Intersection, wOut core.Vec3, sampler core.Sampler) core.Vec3 {
	eps := pt.scene.Config().Epsilon

	lightSample, hasLight := pt.scene.SampleLight(sampler)
	if !hasLight || lightSample.PDF <= 0 {
		return core.Vec3{}
	}

	wLight := lightSample.Point.Subtract(hit.Point).Normalize()
	cosSurface := wLight.Dot(hit.Normal)
	cosLight := wLight.Negate().Dot(lightSample.Normal)
	if cosSurface <= 0 || cosLight <= 0 {
		return core.Vec3{}
	}

	// Distance is measured from the offset origin so an unblocked shadow
	// ray reports a hit at the light point itself
	shadowRay := core.NewSurfaceRay(hit.Point, hit.Normal, wLight, eps)
	toLight := lightSample.Point.Subtract(shadowRay.Origin)
	distance := toLight.Length()
	if distance <= eps {
		return core.Vec3{}
	}

	if shadowHit, blocked := pt.scene.Intersect(shadowRay); blocked && shadowHit.T-distance <= -eps {
		return core.Vec3{}
	}

	brdf := hit.Material.Eval(wLight, wOut, hit.Normal)
	geometryTerm := cosSurface * cosLight / (distance * distance) / lightSample.PDF
	return lightSample.Emission.MultiplyVec(brdf).Multiply(geometryTerm)
}

// continuePath samples the next bounce direction. It reports false when the
// sample is degenerate, the ray escapes, or the ray lands on a light.
// weight is brdf*cos/pdf for the bounce, without roulette compensation.
func (pt *PathTracingIntegrator) continuePath(hit *geometry.Intersection, wOut core.Vec3, sampler core.Sampler) (core.Ray, *geometry.Intersection, core.Vec3, bool) {
	eps := pt.scene.Config().Epsilon
	mat := hit.Material

	wIn := mat.Sample(wOut, hit.Normal, sampler.Get2D())
	pdf := mat.PDF(wIn, wOut, hit.Normal)
	if !(pdf > eps) || math.IsInf(pdf, 0) || !wIn.IsFinite() || wIn.IsZero() {
		return core.Ray{}, nil, core.Vec3{}, false
	}

	cosine := wIn.Normalize().Dot(hit.Normal)
	if cosine <= 0 {
		return core.Ray{}, nil, core.Vec3{}, false
	}

	weight := mat.Eval(wIn, wOut, hit.Normal).Multiply(cosine / pdf)
	if weight.IsZero() {
		return core.Ray{}, nil, core.Vec3{}, false
	}

	nextRay := core.NewSurfaceRay(hit.Point, hit.Normal, wIn, eps)
	nextHit, isHit := pt.scene.Intersect(nextRay)
	if !isHit || nextHit.Material.HasEmission() {
		return core.Ray{}, nil, core.Vec3{}, false
	}

	return nextRay, nextHit, weight, true
}
