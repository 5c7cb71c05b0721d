package renderer

import (
	"image"

	"github.com/df07/go-nee-pathtracer/pkg/core"
	"github.com/df07/go-nee-pathtracer/pkg/geometry"
	"github.com/df07/go-nee-pathtracer/pkg/integrator"
)

// TileRenderer handles the actual rendering of individual tiles using an integrator
type TileRenderer struct {
	camera          *geometry.Camera
	integrator      integrator.Integrator
	samplesPerPixel int
}

// NewTileRenderer creates a new tile renderer with the given camera and integrator
func NewTileRenderer(camera *geometry.Camera, integratorInst integrator.Integrator, samplesPerPixel int) *TileRenderer {
	return &TileRenderer{
		camera:          camera,
		integrator:      integratorInst,
		samplesPerPixel: samplesPerPixel,
	}
}

// RenderTileBounds renders pixels within the specified bounds. Each pixel
// takes samplesPerPixel jittered samples drawn from sampler.
func (tr *TileRenderer) RenderTileBounds(bounds image.Rectangle, pixelStats [][]PixelStats, sampler core.Sampler) RenderStats {
	stats := RenderStats{
		TotalPixels:     bounds.Dx() * bounds.Dy(),
		SamplesPerPixel: tr.samplesPerPixel,
	}

	for j := bounds.Min.Y; j < bounds.Max.Y; j++ {
		for i := bounds.Min.X; i < bounds.Max.X; i++ {
			ps := &pixelStats[j][i]
			for s := 0; s < tr.samplesPerPixel; s++ {
				ray := tr.camera.GetRay(i, j, sampler.Get2D())
				color, info := tr.integrator.Trace(ray, sampler)
				ps.AddSample(color)

				if info.Truncated {
					stats.TruncatedPaths++
				}
				stats.MaxDepth = max(stats.MaxDepth, info.Depth)
			}
			stats.TotalSamples += tr.samplesPerPixel
		}
	}

	return stats
}
