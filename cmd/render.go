package cmd

import (
	"context"
	"fmt"
	"image"

	"github.com/df07/go-scene-raytracer/pkg/core"
	"github.com/df07/go-scene-raytracer/pkg/loaders"
	"github.com/df07/go-scene-raytracer/pkg/output"
	"github.com/df07/go-scene-raytracer/pkg/renderer"
)

// renderJob is one load, render and save cycle
type renderJob struct {
	scenePath    string
	outputPath   string
	config       renderer.RenderConfig
	resizeWidth  int // 0 keeps the rendered size
	resizeHeight int
}

// run loads the scene file, renders it and saves the image
func (j *renderJob) run(ctx context.Context, saver *output.Saver, logger core.Logger) (renderer.RenderStats, error) {
	logger.Printf("Loading scene %s...\n", j.scenePath)
	loaded, err := loaders.LoadScene(j.scenePath, logger)
	if err != nil {
		return renderer.RenderStats{}, err
	}

	raytracer, err := renderer.NewRaytracer(loaded.Scene, loaded.Camera, j.config, logger)
	if err != nil {
		return renderer.RenderStats{}, fmt.Errorf("%s: %w", j.scenePath, err)
	}

	buffer, stats, err := raytracer.Render()
	if err != nil {
		return renderer.RenderStats{}, err
	}
	logger.Printf("Render completed in %v\n", stats.Duration)
	logger.Printf("Samples per pixel: %.1f, surface pixels: %d/%d\n",
		stats.AverageSamples(), stats.HitPixels, stats.TotalPixels)

	var img image.Image = buffer.Image()
	if j.resizeWidth > 0 {
		img = output.Resize(img, j.resizeWidth, j.resizeHeight)
	}

	if err := saver.Save(ctx, j.outputPath, img); err != nil {
		return stats, err
	}
	return stats, nil
}
