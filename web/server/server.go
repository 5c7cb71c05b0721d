package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"log"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/df07/go-nee-pathtracer/pkg/integrator"
	"github.com/df07/go-nee-pathtracer/pkg/renderer"
	"github.com/df07/go-nee-pathtracer/pkg/scene"
)

// Server handles web requests for the path tracer
type Server struct {
	port     int
	renderID atomic.Int64
}

// NewServer creates a new web server
func NewServer(port int) *Server {
	return &Server{port: port}
}

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene           string  `json:"scene"`           // Built-in scene name
	Width           int     `json:"width"`           // Image width
	SamplesPerPixel int     `json:"samplesPerPixel"` // Samples per pixel
	RussianRoulette float64 `json:"russianRoulette"` // Continuation probability
	Accelerator     string  `json:"accelerator"`     // "bvh" or "linear"
	Seed            int64   `json:"seed"`            // Render seed
}

// RenderResult is the final event of a render stream
type RenderResult struct {
	ImageData string `json:"imageData"` // Base64 encoded PNG
	Stats     Stats  `json:"stats"`
	ElapsedMs int64  `json:"elapsedMs"`
}

// Stats represents render statistics
type Stats struct {
	TotalPixels     int     `json:"totalPixels"`
	TotalSamples    int64   `json:"totalSamples"`
	AverageSamples  float64 `json:"averageSamples"`
	SamplesPerPixel int     `json:"samplesPerPixel"`
	TruncatedPaths  int     `json:"truncatedPaths"`
	MaxDepth        int     `json:"maxDepth"`
}

// Handler returns the HTTP routes of the server
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/scene-config", s.handleSceneConfig)
	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists the built-in scenes
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"scenes": scene.Names()})
}

// handleRender renders a scene and streams console output and the final
// image via SSE. Closing the connection cancels the render between tiles.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	req, err := parseRenderRequest(r.URL.Query())
	if err != nil {
		s.sendSSEError(w, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	sceneObj, err := createScene(req.Scene, req.sceneConfig())
	if err != nil {
		s.sendSSEError(w, err.Error())
		return
	}

	renderID := fmt.Sprintf("render-%d", s.renderID.Add(1))
	consoleChan := make(chan ConsoleMessage, 100)
	logger := NewWebLogger(renderID, consoleChan)

	config := renderer.DefaultConfig()
	config.Width = req.Width
	config.SamplesPerPixel = req.SamplesPerPixel
	config.Seed = req.Seed
	rt := renderer.NewRenderer(sceneObj, integrator.NewPathTracingIntegrator(sceneObj), config, logger)

	type outcome struct {
		img   *image.RGBA
		stats renderer.RenderStats
		err   error
	}
	done := make(chan outcome, 1)
	startTime := time.Now()
	go func() {
		img, stats, err := rt.Render(r.Context())
		done <- outcome{img, stats, err}
	}()

	for {
		select {
		case msg := <-consoleChan:
			s.sendConsole(w, msg)
		case result := <-done:
			s.drainConsole(w, consoleChan)
			if result.err != nil {
				if !errors.Is(result.err, context.Canceled) {
					s.sendSSEError(w, fmt.Sprintf("Render error: %v", result.err))
				}
				return
			}

			imageData, err := imageToBase64PNG(result.img)
			if err != nil {
				s.sendSSEError(w, fmt.Sprintf("failed to encode image: %v", err))
				return
			}

			data, err := json.Marshal(RenderResult{
				ImageData: imageData,
				Stats: Stats{
					TotalPixels:     result.stats.TotalPixels,
					TotalSamples:    int64(result.stats.TotalSamples),
					AverageSamples:  result.stats.AverageSamples,
					SamplesPerPixel: result.stats.SamplesPerPixel,
					TruncatedPaths:  result.stats.TruncatedPaths,
					MaxDepth:        result.stats.MaxDepth,
				},
				ElapsedMs: time.Since(startTime).Milliseconds(),
			})
			if err != nil {
				s.sendSSEError(w, err.Error())
				return
			}
			s.sendSSEEvent(w, "complete", string(data))
			return
		}
	}
}

// sendConsole forwards one console message as an SSE event
func (s *Server) sendConsole(w http.ResponseWriter, msg ConsoleMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	s.sendSSEEvent(w, "console", string(data))
}

// drainConsole forwards messages still buffered after the render finished
func (s *Server) drainConsole(w http.ResponseWriter, consoleChan <-chan ConsoleMessage) {
	for {
		select {
		case msg := <-consoleChan:
			s.sendConsole(w, msg)
		default:
			return
		}
	}
}

// createScene builds a built-in scene. Mesh files are only loaded from the CLI.
func createScene(name string, config scene.Config) (*scene.Scene, error) {
	if !slices.Contains(scene.Names(), name) {
		return nil, fmt.Errorf("%w: %q (available: %v)", scene.ErrUnknownScene, name, scene.Names())
	}
	return scene.Create(name, config)
}

// sceneConfig builds scene constants from the request
func (req *RenderRequest) sceneConfig() scene.Config {
	config := scene.DefaultConfig()
	config.RussianRoulette = req.RussianRoulette
	config.Accelerator = scene.Accelerator(req.Accelerator)
	return config
}

// parseRenderRequest parses request parameters
func parseRenderRequest(values url.Values) (*RenderRequest, error) {
	defaults := scene.DefaultConfig()
	req := &RenderRequest{
		Scene:       "cornell",
		Accelerator: string(defaults.Accelerator),
	}
	if name := values.Get("scene"); name != "" {
		req.Scene = name
	}
	if accel := values.Get("accel"); accel != "" {
		switch scene.Accelerator(accel) {
		case scene.AcceleratorBVH, scene.AcceleratorLinear:
			req.Accelerator = accel
		default:
			return nil, fmt.Errorf("invalid accel: %s", accel)
		}
	}

	var err error
	if req.Width, err = parseIntParam(values, "width", 256, 16, 2000); err != nil {
		return nil, err
	}
	if req.SamplesPerPixel, err = parseIntParam(values, "spp", 16, 1, 10000); err != nil {
		return nil, err
	}
	if req.RussianRoulette, err = parseFloatParam(values, "rr", defaults.RussianRoulette, 0, 1); err != nil {
		return nil, err
	}
	seed, err := parseIntParam(values, "seed", 1, 0, 1<<31-1)
	if err != nil {
		return nil, err
	}
	req.Seed = int64(seed)

	// Performance warning
	if req.Width*req.Width > 800*600 && req.SamplesPerPixel > 100 {
		log.Printf("Render warning: Large image with high samples may render slowly")
	}

	return req, nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseFloatParam parses a float parameter from URL query with validation
func parseFloatParam(values url.Values, key string, defaultValue, min, max float64) (float64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %f and %f, got: %f", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// imageToBase64PNG converts an image to base64-encoded PNG
func imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// sendSSEError sends an error via SSE
func (s *Server) sendSSEError(w http.ResponseWriter, message string) error {
	return s.sendSSEEvent(w, "error", message)
}

// sendSSEEvent sends a generic SSE event
func (s *Server) sendSSEEvent(w http.ResponseWriter, event, data string) error {
	if flusher, ok := w.(http.Flusher); ok {
		fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
		flusher.Flush()
		return nil
	}
	return fmt.Errorf("streaming not supported")
}

// handleSceneConfig returns the default configuration for a scene
func (s *Server) handleSceneConfig(w http.ResponseWriter, r *http.Request) {
	sceneName := r.URL.Query().Get("scene")
	if sceneName == "" {
		sceneName = "cornell"
	}

	sceneObj, err := createScene(sceneName, scene.DefaultConfig())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	config := sceneObj.Config()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"scene": sceneName,
		"defaults": map[string]interface{}{
			"width":           sceneObj.CameraConfig.Width,
			"samplesPerPixel": sceneObj.SamplingConfig.SamplesPerPixel,
			"russianRoulette": config.RussianRoulette,
			"maxDepth":        config.MaxDepth,
			"accelerator":     config.Accelerator,
			"lights":          sceneObj.Lights().Count(),
		},
		"limits": map[string]interface{}{
			"width":           map[string]int{"min": 16, "max": 2000},
			"samplesPerPixel": map[string]int{"min": 1, "max": 10000},
			"russianRoulette": map[string]float64{"min": 0, "max": 1},
		},
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
