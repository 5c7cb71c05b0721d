package scene

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-nee-pathtracer/pkg/core"
	"github.com/df07/go-nee-pathtracer/pkg/geometry"
	"github.com/df07/go-nee-pathtracer/pkg/lights"
)

// Accelerator selects the nearest-hit oracle built over the scene
type Accelerator string

const (
	AcceleratorBVH    Accelerator = "bvh"
	AcceleratorLinear Accelerator = "linear"
)

// Config holds the constants the integrator reads from the scene
type Config struct {
	RussianRoulette float64     // Continuation probability in [0, 1]
	Epsilon         float64     // Tolerance for visibility, pdf guards and ray offsets
	MaxDepth        int         // Safety cap on path length, not part of the estimator
	Accelerator     Accelerator // Nearest-hit oracle
}

// DefaultConfig returns the constants used by the built-in scenes
func DefaultConfig() Config {
	return Config{
		RussianRoulette: 0.8,
		Epsilon:         5e-4,
		MaxDepth:        256,
		Accelerator:     AcceleratorBVH,
	}
}

// Validate reports the first invalid field
func (c Config) Validate() error {
	if math.IsNaN(c.RussianRoulette) || c.RussianRoulette < 0 || c.RussianRoulette > 1 {
		return fmt.Errorf("russian roulette probability %v outside [0, 1]", c.RussianRoulette)
	}
	if !(c.Epsilon > 0) {
		return fmt.Errorf("epsilon must be positive, got %v", c.Epsilon)
	}
	if c.MaxDepth <= 0 {
		return fmt.Errorf("max depth must be positive, got %d", c.MaxDepth)
	}
	switch c.Accelerator {
	case AcceleratorBVH, AcceleratorLinear:
	default:
		return fmt.Errorf("unknown accelerator %q", c.Accelerator)
	}
	return nil
}

// SamplingConfig is a scene's recommended image sampling setup
type SamplingConfig struct {
	SamplesPerPixel int // Number of rays per pixel
}

// ErrEmptyScene is returned when a scene is built without geometry
var ErrEmptyScene = errors.New("scene has no objects")

// Scene owns all objects, the oracle built over them and the light sampler.
// It is read-only once New returns and may be shared by any number of goroutines.
type Scene struct {
	Name           string
	CameraConfig   geometry.CameraConfig
	SamplingConfig SamplingConfig

	objects   []geometry.Object
	config    Config
	aggregate geometry.Aggregate
	lights    *lights.AreaLightSampler
}

// New validates config and builds the acceleration structure and light
// sampler eagerly
func New(objects []geometry.Object, config Config) (*Scene, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scene config: %w", err)
	}
	if len(objects) == 0 {
		return nil, ErrEmptyScene
	}

	owned := make([]geometry.Object, len(objects))
	copy(owned, objects)

	shapes := make([]geometry.Shape, len(owned))
	for i, object := range owned {
		if object == nil {
			return nil, fmt.Errorf("object %d is nil", i)
		}
		shapes[i] = object
	}

	var aggregate geometry.Aggregate
	switch config.Accelerator {
	case AcceleratorLinear:
		aggregate = geometry.NewLinearAggregate(shapes)
	default:
		aggregate = geometry.NewBVH(shapes)
	}

	return &Scene{
		objects:   owned,
		config:    config,
		aggregate: aggregate,
		lights:    lights.NewAreaLightSampler(owned),
	}, nil
}

// Config returns the scene constants
func (s *Scene) Config() Config {
	return s.config
}

// Objects returns the scene objects. Callers must not modify the slice.
func (s *Scene) Objects() []geometry.Object {
	return s.objects
}

// Lights returns the scene's light sampler
func (s *Scene) Lights() *lights.AreaLightSampler {
	return s.lights
}

// Intersect returns the nearest hit along ray, if any
func (s *Scene) Intersect(ray core.Ray) (*geometry.Intersection, bool) {
	return s.aggregate.Hit(ray, minHitDistance, math.Inf(1))
}

// SampleLight draws a point on one of the scene's emitters
func (s *Scene) SampleLight(sampler core.Sampler) (lights.LightSample, bool) {
	return s.lights.Sample(sampler)
}

// minHitDistance rejects hits at the ray origin; surface rays are already
// offset by Config.Epsilon along the normal
const minHitDistance = 1e-9
