package scene

import (
	"github.com/df07/go-nee-pathtracer/pkg/core"
	"github.com/df07/go-nee-pathtracer/pkg/geometry"
	"github.com/df07/go-nee-pathtracer/pkg/material"
)

// NewSpheresScene creates glossy and diffuse spheres on a floor, lit by an
// overhead quad light and a small spherical light
func NewSpheresScene(config Config) (*Scene, error) {
	floor := geometry.NewQuad(
		core.NewVec3(-10, 0, -10),
		core.NewVec3(0, 0, 20),
		core.NewVec3(20, 0, 0),
		material.NewLambertian(core.NewVec3(0.6, 0.6, 0.6)),
	)
	backdrop := geometry.NewQuad(
		core.NewVec3(-10, 0, 4),
		core.NewVec3(20, 0, 0),
		core.NewVec3(0, 10, 0),
		material.NewLambertian(core.NewVec3(0.4, 0.45, 0.6)),
	)

	objects := []geometry.Object{
		floor,
		backdrop,
		geometry.NewSphere(core.NewVec3(-1.6, 0.8, 0), 0.8, material.NewLambertian(core.NewVec3(0.7, 0.2, 0.2))),
		geometry.NewSphere(core.NewVec3(0, 0.8, 0.5), 0.8, material.NewGlossy(core.NewVec3(0.9, 0.9, 0.9), 200)),
		geometry.NewSphere(core.NewVec3(1.6, 0.8, 0), 0.8, material.NewGlossy(core.NewVec3(0.8, 0.6, 0.2), 12)),
		geometry.NewQuad(
			core.NewVec3(-1, 4, -1),
			core.NewVec3(2, 0, 0),
			core.NewVec3(0, 0, 2),
			material.NewEmissive(core.NewVec3(6, 6, 6)),
		),
		geometry.NewSphere(core.NewVec3(2.5, 0.3, -1.5), 0.3, material.NewEmissive(core.NewVec3(8, 5, 2))),
	}

	s, err := New(objects, config)
	if err != nil {
		return nil, err
	}
	s.Name = "spheres"
	s.CameraConfig = geometry.CameraConfig{
		Center:      core.NewVec3(0, 1.8, -7),
		LookAt:      core.NewVec3(0, 0.8, 0),
		Up:          core.NewVec3(0, 1, 0),
		Width:       640,
		AspectRatio: 16.0 / 9.0,
		VFov:        35,
	}
	s.SamplingConfig = SamplingConfig{SamplesPerPixel: 32}
	return s, nil
}
