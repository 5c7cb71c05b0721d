package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/df07/go-nee-pathtracer/pkg/integrator"
	"github.com/df07/go-nee-pathtracer/pkg/renderer"
	"github.com/df07/go-nee-pathtracer/pkg/scene"
)

// options holds the parsed command line
type options struct {
	sceneName   string
	rr          float64
	maxDepth    int
	accelerator string
	render      renderer.Config
	output      string
}

func parseFlags(args []string) (options, error) {
	sceneDefaults := scene.DefaultConfig()
	renderDefaults := renderer.DefaultConfig()

	fs := flag.NewFlagSet("nee-pathtracer", flag.ContinueOnError)
	var opts options
	fs.StringVar(&opts.sceneName, "scene", "cornell", "Scene to render: "+strings.Join(scene.Names(), ", "))
	fs.Float64Var(&opts.rr, "rr", sceneDefaults.RussianRoulette, "Russian roulette continuation probability in [0, 1]")
	fs.IntVar(&opts.maxDepth, "max-depth", sceneDefaults.MaxDepth, "Safety cap on path length")
	fs.StringVar(&opts.accelerator, "accel", string(sceneDefaults.Accelerator), "Intersection accelerator: bvh or linear")
	fs.IntVar(&opts.render.Width, "width", 0, "Image width in pixels (0 = scene default)")
	fs.IntVar(&opts.render.SamplesPerPixel, "spp", 0, "Samples per pixel (0 = scene default)")
	fs.IntVar(&opts.render.NumWorkers, "workers", renderDefaults.NumWorkers, "Number of parallel workers (0 = CPU count)")
	fs.IntVar(&opts.render.TileSize, "tile", renderDefaults.TileSize, "Tile size in pixels")
	fs.Int64Var(&opts.render.Seed, "seed", renderDefaults.Seed, "Random seed")
	fs.Float64Var(&opts.render.Gamma, "gamma", renderDefaults.Gamma, "Display gamma")
	fs.StringVar(&opts.output, "output", "", "Output PNG path (default output/<scene>/render_<timestamp>.png)")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	return opts, nil
}

// sceneConfig builds the scene constants from the command line
func (o options) sceneConfig() scene.Config {
	config := scene.DefaultConfig()
	config.RussianRoulette = o.rr
	config.MaxDepth = o.maxDepth
	config.Accelerator = scene.Accelerator(o.accelerator)
	return config
}

// createScene builds the named built-in scene
func createScene(name string, config scene.Config) (*scene.Scene, error) {
	if name == "" {
		return nil, fmt.Errorf("no scene given")
	}
	return scene.Create(name, config)
}

// createOutputDir returns the directory renders of a scene are written to
func createOutputDir(sceneName string) string {
	return filepath.Join("output", filepath.Base(sceneName))
}

func savePNG(filename string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}

	if err := png.Encode(file, img); err != nil {
		file.Close()
		return fmt.Errorf("encoding PNG: %w", err)
	}
	return file.Close()
}

func run(ctx context.Context, opts options) error {
	sc, err := createScene(opts.sceneName, opts.sceneConfig())
	if err != nil {
		return err
	}
	log.Printf("Scene %s: %d objects, %s", sc.Name, len(sc.Objects()), sc.Lights())

	pt := integrator.NewPathTracingIntegrator(sc)
	r := renderer.NewRenderer(sc, pt, opts.render, renderer.NewDefaultLogger())

	img, stats, err := r.Render(ctx)
	if err != nil {
		return err
	}
	log.Printf("%.1f samples/pixel, %d truncated paths, average luminance %.3f",
		stats.AverageSamples, stats.TruncatedPaths, renderer.CalculateAverageLuminance(img))

	filename := opts.output
	if filename == "" {
		timestamp := time.Now().Format("20060102_150405")
		filename = filepath.Join(createOutputDir(sc.Name), fmt.Sprintf("render_%s.png", timestamp))
	}
	if err := savePNG(filename, img); err != nil {
		return fmt.Errorf("saving %s: %w", filename, err)
	}

	log.Printf("Render saved as %s", filename)
	return nil
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		os.Exit(2)
	}

	// Interrupt stops the render after the tiles in flight
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, opts); err != nil {
		log.Printf("Error: %v", err)
		os.Exit(1)
	}
}
