package lights

import (
	"fmt"
	"sort"

	"github.com/df07/go-nee-pathtracer/pkg/core"
	"github.com/df07/go-nee-pathtracer/pkg/geometry"
)

// AreaLightSampler selects emissive objects with probability proportional to
// their surface area and then samples a uniform point on the chosen one.
// Every point on every light therefore has the same density 1/A, where A is
// the total emissive area.
type AreaLightSampler struct {
	emitters  []geometry.Object
	cdf       []float64 // Running area sum in scene order
	totalArea float64
}

// NewAreaLightSampler collects the emissive objects among objects, keeping
// their order. Emitters without positive area are left out.
func NewAreaLightSampler(objects []geometry.Object) *AreaLightSampler {
	ls := &AreaLightSampler{}
	for _, object := range objects {
		if !object.HasEmission() {
			continue
		}
		area := object.Area()
		if !(area > 0) {
			continue
		}
		ls.totalArea += area
		ls.emitters = append(ls.emitters, object)
		ls.cdf = append(ls.cdf, ls.totalArea)
	}
	return ls
}

// Sample draws u ~ U(0, A) and picks the first emitter whose running area
// sum reaches u. It returns false when there is no emissive area at all.
func (ls *AreaLightSampler) Sample(sampler core.Sampler) (LightSample, bool) {
	if ls.totalArea <= 0 {
		return LightSample{}, false
	}

	u := sampler.Get1D() * ls.totalArea
	i := sort.SearchFloat64s(ls.cdf, u)
	if i >= len(ls.emitters) {
		i = len(ls.emitters) - 1
	}

	surface := ls.emitters[i].Sample(sampler.Get2D())
	return LightSample{
		Point:    surface.Point,
		Normal:   surface.Normal,
		Emission: surface.Emission,
		PDF:      1.0 / ls.totalArea,
	}, true
}

// TotalArea returns the summed area of all emitters
func (ls *AreaLightSampler) TotalArea() float64 {
	return ls.totalArea
}

// Count returns the number of emissive objects
func (ls *AreaLightSampler) Count() int {
	return len(ls.emitters)
}

// String returns a string representation for debugging
func (ls *AreaLightSampler) String() string {
	if len(ls.emitters) == 0 {
		return "AreaLightSampler{no lights}"
	}

	result := fmt.Sprintf("AreaLightSampler{%d lights, total area %.3f:\n", len(ls.emitters), ls.totalArea)
	prev := 0.0
	for i, emitter := range ls.emitters {
		result += fmt.Sprintf("  [%d] %T: %.1f%%\n", i, emitter, (ls.cdf[i]-prev)/ls.totalArea*100)
		prev = ls.cdf[i]
	}
	result += "}"
	return result
}
