package lights

import (
	"math"
	"testing"

	"github.com/df07/go-nee-pathtracer/pkg/core"
	"github.com/df07/go-nee-pathtracer/pkg/geometry"
	"github.com/df07/go-nee-pathtracer/pkg/material"
)

// fixedSampler returns scripted values so the selection can be pinned down
type fixedSampler struct {
	values []float64
	next   int
}

func (f *fixedSampler) Get1D() float64 {
	v := f.values[f.next%len(f.values)]
	f.next++
	return v
}

func (f *fixedSampler) Get2D() core.Vec2 {
	return core.NewVec2(f.Get1D(), f.Get1D())
}

func squareLight(x, size float64, emission core.Vec3) *geometry.Quad {
	return geometry.NewQuad(
		core.NewVec3(x, 10, 0),
		core.NewVec3(0, 0, size),
		core.NewVec3(size, 0, 0),
		material.NewEmissive(emission),
	)
}

func TestAreaLightSampler_NoEmitters(t *testing.T) {
	floor := geometry.NewQuad(core.Vec3{}, core.NewVec3(1, 0, 0), core.NewVec3(0, 0, 1), material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5)))
	ls := NewAreaLightSampler([]geometry.Object{floor})

	if ls.Count() != 0 || ls.TotalArea() != 0 {
		t.Errorf("Expected no emitters, got %d with area %f", ls.Count(), ls.TotalArea())
	}
	if _, ok := ls.Sample(core.NewSeededSampler(1)); ok {
		t.Error("Expected no light sample without emitters")
	}
	if ls.String() != "AreaLightSampler{no lights}" {
		t.Errorf("Unexpected string %q", ls.String())
	}
}

func TestAreaLightSampler_SelectionProportionalToArea(t *testing.T) {
	small := squareLight(0, 1, core.NewVec3(1, 1, 1)) // area 1
	large := squareLight(5, 2, core.NewVec3(2, 2, 2)) // area 4
	floor := geometry.NewQuad(core.Vec3{}, core.NewVec3(1, 0, 0), core.NewVec3(0, 0, 1), material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5)))

	ls := NewAreaLightSampler([]geometry.Object{small, floor, large})
	if ls.Count() != 2 {
		t.Fatalf("Expected 2 emitters, got %d", ls.Count())
	}
	if math.Abs(ls.TotalArea()-5) > 1e-12 {
		t.Fatalf("Expected total area 5, got %f", ls.TotalArea())
	}

	sampler := core.NewSeededSampler(42)
	const n = 100000
	largeCount := 0
	for i := 0; i < n; i++ {
		sample, ok := ls.Sample(sampler)
		if !ok {
			t.Fatal("Expected a light sample")
		}
		if math.Abs(sample.PDF-0.2) > 1e-12 {
			t.Fatalf("Expected pdf 1/A = 0.2, got %f", sample.PDF)
		}
		if sample.Point.X >= 5 {
			largeCount++
			if sample.Emission != core.NewVec3(2, 2, 2) {
				t.Fatalf("Sample on large light carries emission %v", sample.Emission)
			}
		} else if sample.Emission != core.NewVec3(1, 1, 1) {
			t.Fatalf("Sample on small light carries emission %v", sample.Emission)
		}
	}

	// A2/(A1+A2) = 0.8; standard error at n=1e5 is ~0.0013
	ratio := float64(largeCount) / n
	if math.Abs(ratio-0.8) > 0.01 {
		t.Errorf("Expected large light frequency ~0.8, got %.4f", ratio)
	}
}

func TestAreaLightSampler_DeterministicOrder(t *testing.T) {
	first := squareLight(0, 1, core.NewVec3(1, 0, 0))
	second := squareLight(5, 1, core.NewVec3(0, 1, 0))
	ls := NewAreaLightSampler([]geometry.Object{first, second})

	tests := []struct {
		name     string
		u        float64
		expected core.Vec3
	}{
		{"start of range", 0.0, core.NewVec3(1, 0, 0)},
		{"exactly at boundary", 0.5, core.NewVec3(1, 0, 0)},
		{"just past boundary", 0.5001, core.NewVec3(0, 1, 0)},
		{"end of range", 0.9999, core.NewVec3(0, 1, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sample, ok := ls.Sample(&fixedSampler{values: []float64{tt.u, 0.5, 0.5}})
			if !ok {
				t.Fatal("Expected a light sample")
			}
			if sample.Emission != tt.expected {
				t.Errorf("u=%f: expected emitter with emission %v, got %v", tt.u, tt.expected, sample.Emission)
			}
		})
	}
}

func TestAreaLightSampler_SphereAndMeshEmitters(t *testing.T) {
	sphere := geometry.NewSphere(core.NewVec3(0, 5, 0), 1, material.NewEmissive(core.NewVec3(3, 3, 3)))
	ls := NewAreaLightSampler([]geometry.Object{sphere})

	sample, ok := ls.Sample(core.NewSeededSampler(3))
	if !ok {
		t.Fatal("Expected a light sample")
	}
	if math.Abs(sample.PDF-1.0/(4*math.Pi)) > 1e-12 {
		t.Errorf("Expected pdf 1/(4π), got %f", sample.PDF)
	}
	if math.Abs(sample.Point.Subtract(sphere.Center).Length()-1) > 1e-9 {
		t.Errorf("Sample %v not on sphere", sample.Point)
	}
}

func TestAreaLightSampler_SkipsZeroAreaEmitters(t *testing.T) {
	// Collapsed quad: U and V are parallel
	degenerate := geometry.NewQuad(core.NewVec3(0, 10, 0), core.NewVec3(1, 0, 0), core.NewVec3(2, 0, 0), material.NewEmissive(core.NewVec3(9, 9, 9)))
	lit := squareLight(5, 1, core.NewVec3(1, 1, 1))
	ls := NewAreaLightSampler([]geometry.Object{degenerate, lit})

	if ls.Count() != 1 {
		t.Fatalf("Expected the zero-area emitter to be skipped, got %d emitters", ls.Count())
	}

	sample, ok := ls.Sample(&fixedSampler{values: []float64{0, 0.5, 0.5}})
	if !ok {
		t.Fatal("Expected a light sample")
	}
	if sample.Emission != core.NewVec3(1, 1, 1) {
		t.Errorf("u=0 selected emitter with emission %v", sample.Emission)
	}
	if math.Abs(sample.PDF-1) > 1e-12 {
		t.Errorf("Expected pdf 1, got %f", sample.PDF)
	}
}
