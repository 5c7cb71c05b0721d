package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestHandleHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	NewServer(0).Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("Unexpected body %s", rec.Body.String())
	}
}

func TestHandleScenes(t *testing.T) {
	rec := httptest.NewRecorder()
	NewServer(0).Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/scenes", nil))

	var body struct {
		Scenes []string `json:"scenes"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if len(body.Scenes) == 0 {
		t.Errorf("Expected scene names, got none")
	}
}

func TestHandleSceneConfig(t *testing.T) {
	handler := NewServer(0).Handler()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/scene-config?scene=cornell", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"russianRoulette":0.8`) {
		t.Errorf("Expected the cornell roulette default in %s", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/scene-config?scene=nonexistent", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for an unknown scene, got %d", rec.Code)
	}
}

func TestParseRenderRequest(t *testing.T) {
	req, err := parseRenderRequest(url.Values{})
	if err != nil {
		t.Fatalf("Unexpected error for defaults: %v", err)
	}
	if req.Scene != "cornell" || req.RussianRoulette != 0.8 || req.Accelerator != "bvh" {
		t.Errorf("Unexpected defaults %+v", req)
	}

	tests := []url.Values{
		{"width": {"8"}},
		{"spp": {"abc"}},
		{"rr": {"1.5"}},
		{"accel": {"bogus"}},
		{"seed": {"-1"}},
	}
	for _, values := range tests {
		if _, err := parseRenderRequest(values); err == nil {
			t.Errorf("Expected an error for %v", values)
		}
	}
}

func TestParseRenderRequestShortNames(t *testing.T) {
	values := url.Values{
		"scene": {"spheres"},
		"width": {"32"},
		"spp":   {"4"},
		"rr":    {"0"},
		"accel": {"linear"},
		"seed":  {"7"},
	}
	req, err := parseRenderRequest(values)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if req.Scene != "spheres" || req.Width != 32 || req.SamplesPerPixel != 4 || req.Seed != 7 {
		t.Errorf("Unexpected request %+v", req)
	}

	config := req.sceneConfig()
	if config.RussianRoulette != 0 || config.Accelerator != "linear" {
		t.Errorf("Expected rr=0 and linear accelerator, got %+v", config)
	}
}

func TestHandleRenderStreamsImage(t *testing.T) {
	rec := httptest.NewRecorder()
	target := "/api/render?scene=cornell-empty&width=16&spp=1"
	NewServer(0).Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	body := rec.Body.String()
	if !strings.Contains(body, "event: console") {
		t.Errorf("Expected console events in stream")
	}

	idx := strings.Index(body, "event: complete\ndata: ")
	if idx < 0 {
		t.Fatalf("Expected a complete event, got %s", body)
	}
	payload := body[idx+len("event: complete\ndata: "):]
	payload = payload[:strings.Index(payload, "\n")]

	var result RenderResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		t.Fatalf("Invalid result JSON: %v", err)
	}
	if result.Stats.TotalPixels != 16*16 || result.Stats.SamplesPerPixel != 1 {
		t.Errorf("Unexpected stats %+v", result.Stats)
	}

	raw, err := base64.StdEncoding.DecodeString(result.ImageData)
	if err != nil {
		t.Fatalf("Invalid base64 image: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("Invalid PNG: %v", err)
	}
	if img.Bounds().Dx() != 16 {
		t.Errorf("Unexpected image width %d", img.Bounds().Dx())
	}
}

func TestHandleRenderUnknownScene(t *testing.T) {
	rec := httptest.NewRecorder()
	NewServer(0).Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/render?scene=nonexistent", nil))

	if !strings.Contains(rec.Body.String(), "event: error") {
		t.Errorf("Expected an error event, got %s", rec.Body.String())
	}
}

func TestHandleRenderRejectsBadAccelerator(t *testing.T) {
	rec := httptest.NewRecorder()
	NewServer(0).Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/render?scene=cornell-empty&accel=bogus", nil))

	if !strings.Contains(rec.Body.String(), "event: error") || strings.Contains(rec.Body.String(), "event: complete") {
		t.Errorf("Expected only an error event, got %s", rec.Body.String())
	}
}

func TestHandlersRefuseMeshFiles(t *testing.T) {
	// A valid PLY on disk must not be reachable through the scene parameter
	path := filepath.Join(t.TempDir(), "tetra.ply")
	ply := "ply\nformat ascii 1.0\nelement vertex 4\nproperty float x\nproperty float y\nproperty float z\n" +
		"element face 4\nproperty list uchar int vertex_indices\nend_header\n" +
		"0 0 0\n1 0 0\n0 1 0\n0 0 1\n3 0 2 1\n3 0 1 3\n3 0 3 2\n3 1 2 3\n"
	if err := os.WriteFile(path, []byte(ply), 0o644); err != nil {
		t.Fatalf("Failed to write mesh: %v", err)
	}

	handler := NewServer(0).Handler()
	for _, name := range []string{path, "/x/y.ply"} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/scene-config?scene="+url.QueryEscape(name), nil))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("scene-config %q: expected 400, got %d", name, rec.Code)
		}
		if strings.Contains(rec.Body.String(), "PLY file") {
			t.Errorf("scene-config %q: error leaks file access: %s", name, rec.Body.String())
		}

		rec = httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/render?width=16&spp=1&scene="+url.QueryEscape(name), nil))
		body := rec.Body.String()
		if !strings.Contains(body, "event: error") || strings.Contains(body, "event: complete") {
			t.Errorf("render %q: expected an error event, got %s", name, body)
		}
	}
}
