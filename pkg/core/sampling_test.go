package core

import (
	"math"
	"testing"
)

func TestSampleCosineHemisphere_StaysInHemisphere(t *testing.T) {
	sampler := NewSeededSampler(42)
	normals := []Vec3{
		NewVec3(0, 1, 0),
		NewVec3(1, 0, 0),
		NewVec3(0, 0, -1),
		NewVec3(1, 1, 1).Normalize(),
	}

	for _, normal := range normals {
		meanCos := 0.0
		const n = 20000
		for i := 0; i < n; i++ {
			dir := SampleCosineHemisphere(normal, sampler.Get2D())
			if math.Abs(dir.Length()-1) > 1e-9 {
				t.Fatalf("Expected unit direction, got length %f", dir.Length())
			}
			cos := dir.Dot(normal)
			if cos < 0 {
				t.Fatalf("Direction %v below hemisphere of %v", dir, normal)
			}
			meanCos += cos
		}
		meanCos /= n

		// E[cos] under cos/π density is 2/3
		if math.Abs(meanCos-2.0/3.0) > 0.01 {
			t.Errorf("Normal %v: expected mean cosine ~0.667, got %f", normal, meanCos)
		}
	}
}

func TestSampleOnUnitSphere_IsBalanced(t *testing.T) {
	sampler := NewSeededSampler(7)
	var sum Vec3
	const n = 20000
	for i := 0; i < n; i++ {
		dir := SampleOnUnitSphere(sampler.Get2D())
		if math.Abs(dir.Length()-1) > 1e-9 {
			t.Fatalf("Expected unit direction, got length %f", dir.Length())
		}
		sum = sum.Add(dir)
	}
	if sum.Multiply(1.0/n).Length() > 0.02 {
		t.Errorf("Expected mean direction near zero, got %v", sum.Multiply(1.0/n))
	}
}

func TestSampleTriangle_InsideTriangle(t *testing.T) {
	sampler := NewSeededSampler(3)
	for i := 0; i < 1000; i++ {
		b1, b2 := SampleTriangle(sampler.Get2D())
		if b1 < 0 || b2 < 0 || b1+b2 > 1+1e-12 {
			t.Fatalf("Barycentric coordinates outside triangle: %f, %f", b1, b2)
		}
	}
}

func TestOrthonormalBasis(t *testing.T) {
	for _, normal := range []Vec3{NewVec3(0, 1, 0), NewVec3(1, 0, 0), NewVec3(0.3, -0.4, 0.866).Normalize()} {
		tangent, bitangent := OrthonormalBasis(normal)
		if math.Abs(tangent.Dot(normal)) > 1e-9 || math.Abs(bitangent.Dot(normal)) > 1e-9 || math.Abs(tangent.Dot(bitangent)) > 1e-9 {
			t.Errorf("Basis for %v is not orthogonal: %v %v", normal, tangent, bitangent)
		}
	}
}
