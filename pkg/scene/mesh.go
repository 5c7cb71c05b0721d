package scene

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/df07/go-nee-pathtracer/pkg/core"
	"github.com/df07/go-nee-pathtracer/pkg/geometry"
	"github.com/df07/go-nee-pathtracer/pkg/loaders"
	"github.com/df07/go-nee-pathtracer/pkg/material"
)

// meshExtent is the size of the longest side of a model placed in the box
const meshExtent = 330.0

// NewMeshScene loads a PLY model and places it on the floor of the empty
// Cornell box, scaled so its longest side is meshExtent
func NewMeshScene(filename string, config Config) (*Scene, error) {
	data, err := loaders.LoadPLY(filename)
	if err != nil {
		return nil, err
	}

	vertices := fitToBox(data.Vertices)
	mesh, err := geometry.NewTriangleMesh(vertices, data.Faces, material.NewLambertian(core.NewVec3(0.725, 0.71, 0.68)))
	if err != nil {
		return nil, fmt.Errorf("building mesh from %s: %w", filename, err)
	}

	s, err := New(append(cornellRoom(), mesh), config)
	if err != nil {
		return nil, err
	}
	s.Name = strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	s.CameraConfig = cornellCamera(512)
	s.SamplingConfig = SamplingConfig{SamplesPerPixel: 16}
	return s, nil
}

// fitToBox scales and translates vertices so the model stands centered on
// the Cornell box floor
func fitToBox(vertices []core.Vec3) []core.Vec3 {
	if len(vertices) == 0 {
		return nil
	}

	bounds := core.NewAABBFromPoints(vertices...)
	size := bounds.Size()
	longest := max(size.X, size.Y, size.Z)
	scale := 1.0
	if longest > 0 {
		scale = meshExtent / longest
	}

	center := bounds.Center()
	target := core.NewVec3(cornellWidth/2, 0, cornellDepth/2)
	fitted := make([]core.Vec3, len(vertices))
	for i, v := range vertices {
		p := v.Subtract(core.NewVec3(center.X, bounds.Min.Y, center.Z)).Multiply(scale)
		fitted[i] = p.Add(target)
	}
	return fitted
}
