package renderer

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/df07/go-nee-pathtracer/pkg/core"
	"github.com/df07/go-nee-pathtracer/pkg/geometry"
	"github.com/df07/go-nee-pathtracer/pkg/integrator"
	"github.com/df07/go-nee-pathtracer/pkg/scene"
)

// DefaultLogger implements core.Logger by writing to stdout
type DefaultLogger struct{}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// NewDefaultLogger creates a new default logger
func NewDefaultLogger() core.Logger {
	return &DefaultLogger{}
}

// Config contains configuration for a render
type Config struct {
	Width           int     // Image width in pixels (0 = scene's camera width)
	SamplesPerPixel int     // Samples per pixel (0 = scene's recommendation)
	TileSize        int     // Size of each tile (64x64 recommended)
	NumWorkers      int     // Number of parallel workers (0 = use CPU count)
	Seed            int64   // Base seed; tile streams are derived from it
	Gamma           float64 // Display gamma applied on conversion
}

// DefaultConfig returns sensible default values
func DefaultConfig() Config {
	return Config{
		TileSize:   64,
		NumWorkers: 0, // Auto-detect CPU count
		Seed:       1,
		Gamma:      2.0,
	}
}

// ErrInvalidConfig is returned for render settings that cannot produce an image
var ErrInvalidConfig = errors.New("invalid render config")

// Renderer drives the integrator over every pixel of the scene's camera
type Renderer struct {
	scene      *scene.Scene
	integrator integrator.Integrator
	config     Config
	logger     core.Logger
}

// NewRenderer creates a renderer. A nil logger discards output.
func NewRenderer(sc *scene.Scene, integratorInst integrator.Integrator, config Config, logger core.Logger) *Renderer {
	if logger == nil {
		logger = discardLogger{}
	}
	return &Renderer{
		scene:      sc,
		integrator: integratorInst,
		config:     config,
		logger:     logger,
	}
}

// Render renders the full image with a pool of workers, one tile at a time
// per worker. ctx is checked before each tile starts; a cancelled render
// returns ctx's error once the tiles in flight have finished.
func (r *Renderer) Render(ctx context.Context) (*image.RGBA, RenderStats, error) {
	startTime := time.Now()

	cameraConfig := r.scene.CameraConfig
	if r.config.Width > 0 {
		cameraConfig.Width = r.config.Width
	}
	samplesPerPixel := r.config.SamplesPerPixel
	if samplesPerPixel <= 0 {
		samplesPerPixel = r.scene.SamplingConfig.SamplesPerPixel
	}

	switch {
	case cameraConfig.Width <= 0:
		return nil, RenderStats{}, fmt.Errorf("%w: width %d", ErrInvalidConfig, cameraConfig.Width)
	case samplesPerPixel <= 0:
		return nil, RenderStats{}, fmt.Errorf("%w: %d samples per pixel", ErrInvalidConfig, samplesPerPixel)
	case r.config.TileSize <= 0:
		return nil, RenderStats{}, fmt.Errorf("%w: tile size %d", ErrInvalidConfig, r.config.TileSize)
	case !(r.config.Gamma > 0):
		return nil, RenderStats{}, fmt.Errorf("%w: gamma %v", ErrInvalidConfig, r.config.Gamma)
	}

	camera := geometry.NewCamera(cameraConfig)
	width, height := camera.Width(), camera.Height()

	// Shared pixel statistics array (global image coordinates)
	pixelStats := make([][]PixelStats, height)
	for y := range pixelStats {
		pixelStats[y] = make([]PixelStats, width)
	}

	tiles := NewTileGrid(width, height, r.config.TileSize, r.config.Seed)
	workerPool := NewWorkerPool(NewTileRenderer(camera, r.integrator, samplesPerPixel), len(tiles), r.config.NumWorkers)

	r.logger.Printf("Rendering %q at %dx%d, %d samples/pixel, %d tiles, %d workers...\n",
		r.scene.Name, width, height, samplesPerPixel, len(tiles), workerPool.GetNumWorkers())

	workerPool.Start(ctx)
	for _, tile := range tiles {
		workerPool.SubmitTask(TileTask{Tile: tile, PixelStats: pixelStats})
	}

	stats := RenderStats{SamplesPerPixel: samplesPerPixel}
	var renderErr error
	for i := 0; i < len(tiles); i++ {
		result, ok := workerPool.GetResult()
		if !ok {
			renderErr = fmt.Errorf("worker pool closed unexpectedly")
			break
		}
		if result.Error != nil {
			if renderErr == nil {
				renderErr = result.Error
			}
			continue
		}
		stats.merge(result.Stats)
	}
	workerPool.Stop()

	stats.finalize()
	stats.Duration = time.Since(startTime)

	if renderErr != nil {
		r.logger.Printf("Render cancelled after %v\n", stats.Duration)
		return nil, stats, fmt.Errorf("render %q: %w", r.scene.Name, renderErr)
	}

	if stats.TruncatedPaths > 0 {
		r.logger.Printf("Warning: %d paths hit the depth cap of %d\n",
			stats.TruncatedPaths, r.scene.Config().MaxDepth)
	}
	r.logger.Printf("Render completed in %v (%d samples, max depth %d)\n",
		stats.Duration, stats.TotalSamples, stats.MaxDepth)

	return assembleImage(pixelStats, width, height, r.config.Gamma), stats, nil
}

// discardLogger drops all output
type discardLogger struct{}

func (discardLogger) Printf(format string, args ...interface{}) {}
