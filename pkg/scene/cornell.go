package scene

import (
	"fmt"

	"github.com/df07/go-nee-pathtracer/pkg/core"
	"github.com/df07/go-nee-pathtracer/pkg/geometry"
	"github.com/df07/go-nee-pathtracer/pkg/material"
)

// Cornell box dimensions, in the units of the measured box
const (
	cornellWidth  = 555.0
	cornellHeight = 548.8
	cornellDepth  = 559.2
)

// cornellEmission is the ceiling light's radiance: a sum of three measured
// spectral peaks folded into RGB
func cornellEmission() core.Vec3 {
	return core.NewVec3(0.747+0.058, 0.747+0.258, 0.747).Multiply(8.0).
		Add(core.NewVec3(0.740+0.287, 0.740+0.160, 0.740).Multiply(15.6)).
		Add(core.NewVec3(0.737+0.642, 0.737+0.159, 0.737).Multiply(18.4))
}

// cornellRoom returns the five walls and the ceiling light
func cornellRoom() []geometry.Object {
	white := material.NewLambertian(core.NewVec3(0.725, 0.71, 0.68))
	red := material.NewLambertian(core.NewVec3(0.63, 0.065, 0.05))
	green := material.NewLambertian(core.NewVec3(0.14, 0.45, 0.091))
	light := material.NewDiffuseEmissive(cornellEmission(), core.NewVec3(0.65, 0.65, 0.65))

	floor := geometry.NewQuad(
		core.NewVec3(0, 0, 0),
		core.NewVec3(cornellWidth, 0, 0),
		core.NewVec3(0, 0, cornellDepth),
		white,
	)
	ceiling := geometry.NewQuad(
		core.NewVec3(0, cornellHeight, 0),
		core.NewVec3(cornellWidth, 0, 0),
		core.NewVec3(0, 0, cornellDepth),
		white,
	)
	backWall := geometry.NewQuad(
		core.NewVec3(0, 0, cornellDepth),
		core.NewVec3(cornellWidth, 0, 0),
		core.NewVec3(0, cornellHeight, 0),
		white,
	)

	// The camera looks down +Z, so +X is on the left of the image
	leftWall := geometry.NewQuad(
		core.NewVec3(cornellWidth, 0, 0),
		core.NewVec3(0, 0, cornellDepth),
		core.NewVec3(0, cornellHeight, 0),
		red,
	)
	rightWall := geometry.NewQuad(
		core.NewVec3(0, 0, 0),
		core.NewVec3(0, 0, cornellDepth),
		core.NewVec3(0, cornellHeight, 0),
		green,
	)

	// Light sits just below the ceiling, facing down
	ceilingLight := geometry.NewQuad(
		core.NewVec3(213, 548.7, 227),
		core.NewVec3(130, 0, 0),
		core.NewVec3(0, 0, 105),
		light,
	)

	return []geometry.Object{floor, ceiling, backWall, leftWall, rightWall, ceilingLight}
}

// NewPrism builds a closed-top prism over a quadrilateral footprint on the
// floor plane as a triangle mesh. footprint lists (x, z) corners in order.
func NewPrism(footprint [4][2]float64, height float64, mat material.Material) (*geometry.TriangleMesh, error) {
	vertices := make([]core.Vec3, 0, 8)
	for _, c := range footprint {
		vertices = append(vertices, core.NewVec3(c[0], 0, c[1]))
	}
	for _, c := range footprint {
		vertices = append(vertices, core.NewVec3(c[0], height, c[1]))
	}

	// Top cap, then the four sides
	faces := []int{4, 5, 6, 4, 6, 7}
	for i := 0; i < 4; i++ {
		j := (i + 1) % 4
		faces = append(faces, i, j, j+4, i, j+4, i+4)
	}
	return geometry.NewTriangleMesh(vertices, faces, mat)
}

// cornellCamera returns the classic viewpoint in front of the open side
func cornellCamera(width int) geometry.CameraConfig {
	return geometry.CameraConfig{
		Center:      core.NewVec3(278, 273, -800),
		LookAt:      core.NewVec3(278, 273, 0),
		Up:          core.NewVec3(0, 1, 0),
		Width:       width,
		AspectRatio: 1.0,
		VFov:        40.0,
	}
}

// NewCornellScene creates the Cornell box with its short and tall blocks
func NewCornellScene(config Config) (*Scene, error) {
	white := material.NewLambertian(core.NewVec3(0.725, 0.71, 0.68))

	shortBlock, err := NewPrism([4][2]float64{{130, 65}, {82, 225}, {240, 272}, {290, 114}}, 165, white)
	if err != nil {
		return nil, fmt.Errorf("short block: %w", err)
	}
	tallBlock, err := NewPrism([4][2]float64{{423, 247}, {265, 296}, {314, 456}, {472, 406}}, 330, white)
	if err != nil {
		return nil, fmt.Errorf("tall block: %w", err)
	}

	objects := append(cornellRoom(), shortBlock, tallBlock)
	s, err := New(objects, config)
	if err != nil {
		return nil, err
	}
	s.Name = "cornell"
	s.CameraConfig = cornellCamera(784)
	s.SamplingConfig = SamplingConfig{SamplesPerPixel: 16}
	return s, nil
}

// NewEmptyCornellScene creates the Cornell box without blocks
func NewEmptyCornellScene(config Config) (*Scene, error) {
	s, err := New(cornellRoom(), config)
	if err != nil {
		return nil, err
	}
	s.Name = "cornell-empty"
	s.CameraConfig = cornellCamera(512)
	s.SamplingConfig = SamplingConfig{SamplesPerPixel: 16}
	return s, nil
}
