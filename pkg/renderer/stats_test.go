package renderer

import (
	"image"
	"math"
	"testing"
	"time"

	"github.com/df07/go-scene-raytracer/pkg/scene"
)

func TestRenderStats_AverageSamples(t *testing.T) {
	tests := []struct {
		name     string
		stats    RenderStats
		expected float64
	}{
		{"empty", RenderStats{}, 0},
		{"single sample", RenderStats{TotalPixels: 10, TotalSamples: 10}, 1},
		{"super-sampled", RenderStats{TotalPixels: 10, TotalSamples: 90}, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.stats.AverageSamples(); math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("Expected %f, got %f", tt.expected, got)
			}
		})
	}
}

func TestRenderStats_Merge(t *testing.T) {
	total := RenderStats{Duration: time.Second}
	total.merge(RenderStats{TotalPixels: 4, TotalSamples: 16, HitPixels: 2, InvalidPixels: 1})
	total.merge(RenderStats{TotalPixels: 6, TotalSamples: 24, HitPixels: 3})

	expected := RenderStats{TotalPixels: 10, TotalSamples: 40, HitPixels: 5, InvalidPixels: 1, Duration: time.Second}
	if total != expected {
		t.Errorf("Expected %+v, got %+v", expected, total)
	}
}

func TestTileRenderer_WritesOnlyItsBounds(t *testing.T) {
	s := redSphereScene(t, scene.DefaultSettings())
	camera, err := NewCamera(createTestCameraConfig(), 20, 20)
	if err != nil {
		t.Fatalf("NewCamera: %v", err)
	}

	buffer := NewPixelBuffer(20, 20)
	for i := range buffer.Pix {
		buffer.Pix[i] = 7
	}

	tr := NewTileRenderer(camera, NewShader(s), 1)
	bounds := image.Rect(5, 5, 15, 15)
	stats := tr.RenderTileBounds(bounds, buffer, nil)

	if stats.TotalPixels != 100 || stats.TotalSamples != 100 {
		t.Errorf("Unexpected stats: %+v", stats)
	}
	if stats.HitPixels == 0 {
		t.Error("Expected the centre of the image to hit the sphere")
	}

	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			r, _, _ := buffer.At(x, y)
			inside := image.Pt(x, y).In(bounds)
			if !inside && r != 7 {
				t.Fatalf("Pixel (%d,%d) outside the tile was overwritten", x, y)
			}
			if inside && r == 7 {
				t.Fatalf("Pixel (%d,%d) inside the tile was not rendered", x, y)
			}
		}
	}
}

func TestWorkerPool_ProcessesAllTasks(t *testing.T) {
	s := redSphereScene(t, scene.DefaultSettings())
	camera, err := NewCamera(createTestCameraConfig(), 40, 40)
	if err != nil {
		t.Fatalf("NewCamera: %v", err)
	}

	tiles := NewTileGrid(40, 40, 10)
	buffer := NewPixelBuffer(40, 40)
	pool := NewWorkerPool(NewTileRenderer(camera, NewShader(s), 1), 3, len(tiles))
	if pool.GetNumWorkers() != 3 {
		t.Errorf("Expected 3 workers, got %d", pool.GetNumWorkers())
	}

	pool.Start()
	for i, tile := range tiles {
		pool.SubmitTask(TileTask{Tile: tile, TaskID: i, Buffer: buffer})
	}

	seen := make(map[int]bool)
	pixels := 0
	for range tiles {
		result, ok := pool.GetResult()
		if !ok {
			t.Fatal("Result queue closed early")
		}
		seen[result.TaskID] = true
		pixels += result.Stats.TotalPixels
	}
	pool.Stop()

	if len(seen) != len(tiles) {
		t.Errorf("Expected %d distinct results, got %d", len(tiles), len(seen))
	}
	if pixels != 40*40 {
		t.Errorf("Expected %d pixels, got %d", 40*40, pixels)
	}
	if _, ok := pool.GetResult(); ok {
		t.Error("Expected result queue to be closed after Stop")
	}
}

func TestTileRenderer_HitPixelsUseCentralSample(t *testing.T) {
	settings := scene.DefaultSettings()
	settings.SuperSampling = 2
	s := redSphereScene(t, settings)

	cameraConfig := createTestCameraConfig()
	cameraConfig.ScreenWidth = 0.5
	camera, err := NewCamera(cameraConfig, 24, 24)
	if err != nil {
		t.Fatalf("NewCamera: %v", err)
	}

	buffer := NewPixelBuffer(24, 24)
	tr := NewTileRenderer(camera, NewShader(s), 2)
	stats := tr.RenderTileBounds(image.Rect(0, 0, 24, 24), buffer, nil)

	// With 2x2 samples the central one is sample (1, 1), at offset (0.75, 0.75)
	expected := 0
	for y := 0; y < 24; y++ {
		for x := 0; x < 24; x++ {
			if _, isHit := s.Raycast(camera.GetRay(x, y, 0.75, 0.75)); isHit {
				expected++
			}
		}
	}
	if expected == 0 {
		t.Fatal("Expected the sphere to cover some pixels")
	}
	if stats.HitPixels != expected {
		t.Errorf("Expected %d hit pixels, got %d", expected, stats.HitPixels)
	}
}
