package renderer

import (
	"fmt"
	"time"

	"github.com/df07/go-scene-raytracer/pkg/core"
	"github.com/df07/go-scene-raytracer/pkg/scene"
)

// RenderConfig contains the image size and parallelism settings for a render
type RenderConfig struct {
	Width      int // Image width in pixels
	Height     int // Image height in pixels
	TileSize   int // Size of each square tile
	NumWorkers int // Number of parallel workers (0 = use CPU count)
}

// DefaultRenderConfig returns sensible default values
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		Width:      500,
		Height:     500,
		TileSize:   32,
		NumWorkers: 0, // Auto-detect CPU count
	}
}

// Raytracer renders an immutable scene through a camera
type Raytracer struct {
	scene  *scene.Scene
	camera *Camera
	config RenderConfig
	logger core.Logger
}

// NewRaytracer creates a raytracer. The camera is built for the configured
// image size; scene construction must be complete before this is called.
func NewRaytracer(s *scene.Scene, cameraConfig scene.CameraConfig, config RenderConfig, logger core.Logger) (*Raytracer, error) {
	if s == nil {
		return nil, fmt.Errorf("scene is nil")
	}
	if config.TileSize <= 0 {
		config.TileSize = DefaultRenderConfig().TileSize
	}
	if logger == nil {
		logger = core.NopLogger{}
	}

	camera, err := NewCamera(cameraConfig, config.Width, config.Height)
	if err != nil {
		return nil, fmt.Errorf("invalid camera: %w", err)
	}

	return &Raytracer{
		scene:  s,
		camera: camera,
		config: config,
		logger: logger,
	}, nil
}

// Camera returns the camera used for primary rays
func (rt *Raytracer) Camera() *Camera {
	return rt.camera
}

// Render traces every pixel of the image in parallel tiles and returns the
// resulting pixel buffer
func (rt *Raytracer) Render() (*PixelBuffer, RenderStats, error) {
	startTime := time.Now()

	buffer := NewPixelBuffer(rt.config.Width, rt.config.Height)
	tiles := NewTileGrid(rt.config.Width, rt.config.Height, rt.config.TileSize)

	tileRenderer := NewTileRenderer(rt.camera, NewShader(rt.scene), rt.scene.Settings().SuperSampling)
	pool := NewWorkerPool(tileRenderer, rt.config.NumWorkers, len(tiles))

	rt.logger.Printf("Rendering %dx%d (%d tiles, %d workers, %d primitives)...\n",
		rt.config.Width, rt.config.Height, len(tiles), pool.GetNumWorkers(), rt.scene.GetPrimitiveCount())

	pool.Start()
	for taskID, tile := range tiles {
		pool.SubmitTask(TileTask{
			Tile:   tile,
			TaskID: taskID,
			Buffer: buffer,
		})
	}

	var stats RenderStats
	for i := 0; i < len(tiles); i++ {
		result, ok := pool.GetResult()
		if !ok {
			return nil, RenderStats{}, fmt.Errorf("worker pool closed unexpectedly")
		}
		stats.merge(result.Stats)
	}
	pool.Stop()

	stats.Duration = time.Since(startTime)

	if stats.InvalidPixels > 0 {
		rt.logger.Printf("Warning: %d pixels produced invalid colors and were marked with the sentinel color\n",
			stats.InvalidPixels)
	}

	return buffer, stats, nil
}
