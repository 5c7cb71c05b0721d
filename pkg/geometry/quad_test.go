package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-nee-pathtracer/pkg/core"
	"github.com/df07/go-nee-pathtracer/pkg/material"
)

func TestQuad_Hit_BasicIntersection(t *testing.T) {
	// 1x1 quad in the XZ plane at y=0
	quad := NewQuad(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 0, 1), material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5)))

	ray := core.NewRay(core.NewVec3(0.5, 1, 0.5), core.NewVec3(0, -1, 0))
	hit, isHit := quad.Hit(ray, 0.001, 1000.0)
	if !isHit {
		t.Fatal("Expected hit, but got miss")
	}

	if math.Abs(hit.T-1.0) > 1e-9 {
		t.Errorf("Expected t=1, got t=%f", hit.T)
	}
	if hit.Point.Subtract(core.NewVec3(0.5, 0, 0.5)).Length() > 1e-9 {
		t.Errorf("Expected hit point (0.5, 0, 0.5), got %v", hit.Point)
	}
	if hit.Object != quad || hit.Primitive != -1 {
		t.Errorf("Expected hit to reference the quad, got %v (primitive %d)", hit.Object, hit.Primitive)
	}
}

func TestQuad_Hit_OutsideBounds(t *testing.T) {
	quad := NewQuad(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 0, 1), nil)

	tests := []struct {
		name      string
		rayOrigin core.Vec3
		rayDir    core.Vec3
	}{
		{"outside X bounds (negative)", core.NewVec3(-0.5, 1, 0.5), core.NewVec3(0, -1, 0)},
		{"outside X bounds (positive)", core.NewVec3(1.5, 1, 0.5), core.NewVec3(0, -1, 0)},
		{"outside Z bounds", core.NewVec3(0.5, 1, 1.5), core.NewVec3(0, -1, 0)},
		{"parallel to plane", core.NewVec3(0.5, 1, 0.5), core.NewVec3(1, 0, 0)},
		{"pointing away", core.NewVec3(0.5, 1, 0.5), core.NewVec3(0, 1, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, isHit := quad.Hit(core.NewRay(tt.rayOrigin, tt.rayDir), 0.001, 1000.0); isHit {
				t.Error("Expected miss, but got hit")
			}
		})
	}
}

func TestQuad_FaceNormalFacesRay(t *testing.T) {
	quad := NewQuad(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 0, 1), nil)

	// U × V = X × Z = -Y, so a ray from above hits the back face
	hit, isHit := quad.Hit(core.NewRay(core.NewVec3(0.5, 1, 0.5), core.NewVec3(0, -1, 0)), 0.001, 10)
	if !isHit {
		t.Fatal("Expected hit")
	}
	if hit.FrontFace {
		t.Error("Expected back-face hit from above")
	}
	if hit.Normal.Y != 1 {
		t.Errorf("Expected normal flipped toward ray (0,1,0), got %v", hit.Normal)
	}
}

func TestQuad_AreaAndSample(t *testing.T) {
	quad := NewQuad(core.NewVec3(1, 2, 3), core.NewVec3(2, 0, 0), core.NewVec3(0, 3, 0), nil)

	if math.Abs(quad.Area()-6) > 1e-12 {
		t.Errorf("Expected area 6, got %f", quad.Area())
	}

	sampler := core.NewSeededSampler(42)
	for i := 0; i < 500; i++ {
		s := quad.Sample(sampler.Get2D())
		if s.Point.X < 1 || s.Point.X > 3 || s.Point.Y < 2 || s.Point.Y > 5 || s.Point.Z != 3 {
			t.Fatalf("Sample %v outside quad", s.Point)
		}
		if math.Abs(s.PDF-1.0/6.0) > 1e-12 {
			t.Fatalf("Expected pdf 1/6, got %f", s.PDF)
		}
		if s.Normal != quad.Normal {
			t.Fatalf("Expected sample normal %v, got %v", quad.Normal, s.Normal)
		}
	}
}

func TestQuad_HasEmission(t *testing.T) {
	lit := NewQuad(core.Vec3{}, core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0), material.NewEmissive(core.NewVec3(1, 1, 1)))
	dark := NewQuad(core.Vec3{}, core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0), material.NewLambertian(core.NewVec3(1, 1, 1)))
	bare := NewQuad(core.Vec3{}, core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0), nil)

	if !lit.HasEmission() || dark.HasEmission() || bare.HasEmission() {
		t.Errorf("Unexpected emission flags: lit=%v dark=%v bare=%v", lit.HasEmission(), dark.HasEmission(), bare.HasEmission())
	}
}
