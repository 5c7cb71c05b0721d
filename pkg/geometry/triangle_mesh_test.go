package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-nee-pathtracer/pkg/core"
	"github.com/df07/go-nee-pathtracer/pkg/material"
)

func TestTriangleMesh_Creation(t *testing.T) {
	// A 2x1 rectangle split into a big and a small triangle
	vertices := []core.Vec3{
		core.NewVec3(0, 0, 0),
		core.NewVec3(2, 0, 0),
		core.NewVec3(2, 1, 0),
		core.NewVec3(0, 1, 0),
	}
	faces := []int{
		0, 1, 2,
		0, 2, 3,
	}

	mesh, err := NewTriangleMesh(vertices, faces, material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5)))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if mesh.GetTriangleCount() != 2 {
		t.Errorf("Expected 2 triangles, got %d", mesh.GetTriangleCount())
	}
	if math.Abs(mesh.Area()-2) > 1e-12 {
		t.Errorf("Expected area 2, got %f", mesh.Area())
	}

	hit, isHit := mesh.Hit(core.NewRay(core.NewVec3(0.2, 0.8, 1), core.NewVec3(0, 0, -1)), 0.001, 10)
	if !isHit {
		t.Fatal("Expected hit on mesh")
	}
	if hit.Object != mesh {
		t.Errorf("Expected hit object to be the mesh, got %T", hit.Object)
	}
	if hit.Primitive != 1 {
		t.Errorf("Expected second triangle to be hit, got primitive %d", hit.Primitive)
	}
}

func TestTriangleMesh_InvalidInput(t *testing.T) {
	vertices := []core.Vec3{core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0)}

	tests := []struct {
		name  string
		faces []int
	}{
		{"empty", nil},
		{"not multiple of 3", []int{0, 1}},
		{"index out of range", []int{0, 1, 3}},
		{"negative index", []int{0, -1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewTriangleMesh(vertices, tt.faces, nil); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}
}

func TestTriangleMesh_SampleIsAreaProportional(t *testing.T) {
	// Triangle 0 has area 4, triangle 1 has area 1
	vertices := []core.Vec3{
		core.NewVec3(0, 0, 0), core.NewVec3(4, 0, 0), core.NewVec3(0, 2, 0),
		core.NewVec3(10, 0, 0), core.NewVec3(11, 0, 0), core.NewVec3(10, 2, 0),
	}
	mesh, err := NewTriangleMesh(vertices, []int{0, 1, 2, 3, 4, 5}, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	sampler := core.NewSeededSampler(8)
	const n = 50000
	inFirst := 0
	for i := 0; i < n; i++ {
		s := mesh.Sample(sampler.Get2D())
		if math.Abs(s.PDF-1.0/5.0) > 1e-12 {
			t.Fatalf("Expected pdf 1/5, got %f", s.PDF)
		}
		if s.Point.X < 5 {
			inFirst++
		}
	}

	ratio := float64(inFirst) / n
	if math.Abs(ratio-0.8) > 0.01 {
		t.Errorf("Expected 80%% of samples on the larger triangle, got %.3f", ratio)
	}
}
