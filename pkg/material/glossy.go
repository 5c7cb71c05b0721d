package material

import (
	"math"

	"github.com/df07/go-nee-pathtracer/pkg/core"
)

// Glossy is a normalized modified-Phong lobe centered on the mirror
// direction of wOut. Large exponents approach a mirror while keeping a
// finite pdf, which the integrator requires for every sampled direction.
type Glossy struct {
	Albedo   core.Vec3 // Specular color
	Exponent float64   // Lobe sharpness, >= 0
}

// NewGlossy creates a new glossy material
func NewGlossy(albedo core.Vec3, exponent float64) *Glossy {
	if exponent < 0 {
		exponent = 0
	}
	return &Glossy{Albedo: albedo, Exponent: exponent}
}

// HasEmission implements Material
func (g *Glossy) HasEmission() bool {
	return false
}

// Emission implements Material
func (g *Glossy) Emission() core.Vec3 {
	return core.Vec3{}
}

// lobeCos returns the cosine between wIn and the mirror direction of wOut
func lobeCos(wIn, wOut, normal core.Vec3) float64 {
	mirror := wOut.Negate().Reflect(normal)
	return wIn.Dot(mirror)
}

// Eval evaluates albedo*(n+2)/(2π)*cos^n(α) above the surface
func (g *Glossy) Eval(wIn, wOut, normal core.Vec3) core.Vec3 {
	if wIn.Dot(normal) <= 0 || wOut.Dot(normal) <= 0 {
		return core.Vec3{}
	}
	cosAlpha := lobeCos(wIn, wOut, normal)
	if cosAlpha <= 0 {
		return core.Vec3{}
	}
	return g.Albedo.Multiply((g.Exponent + 2) / (2 * math.Pi) * math.Pow(cosAlpha, g.Exponent))
}

// Sample draws a direction from the lobe around the mirror direction.
// Directions that fall below the surface are returned as-is; Eval is zero there.
func (g *Glossy) Sample(wOut, normal core.Vec3, sample core.Vec2) core.Vec3 {
	mirror := wOut.Negate().Reflect(normal).Normalize()

	cosAlpha := math.Pow(sample.X, 1/(g.Exponent+1))
	sinAlpha := math.Sqrt(math.Max(0, 1-cosAlpha*cosAlpha))
	phi := 2 * math.Pi * sample.Y

	tangent, bitangent := core.OrthonormalBasis(mirror)
	return tangent.Multiply(sinAlpha * math.Cos(phi)).
		Add(bitangent.Multiply(sinAlpha * math.Sin(phi))).
		Add(mirror.Multiply(cosAlpha))
}

// PDF returns (n+1)/(2π)*cos^n(α) for directions inside the lobe
func (g *Glossy) PDF(wIn, wOut, normal core.Vec3) float64 {
	cosAlpha := lobeCos(wIn, wOut, normal)
	if cosAlpha <= 0 {
		return 0.0
	}
	return (g.Exponent + 1) / (2 * math.Pi) * math.Pow(cosAlpha, g.Exponent)
}
