package renderer

import (
	"image"
	"math/rand"

	"github.com/df07/go-scene-raytracer/pkg/core"
)

// InvalidPixelColor is written for pixels whose shading produced NaN or
// infinite values, or failed outright
var InvalidPixelColor = [3]uint8{255, 0, 255}

// TileRenderer renders rectangular regions of the image
type TileRenderer struct {
	camera        *Camera
	shader        *Shader
	superSampling int
}

// NewTileRenderer creates a new tile renderer
func NewTileRenderer(camera *Camera, shader *Shader, superSampling int) *TileRenderer {
	return &TileRenderer{
		camera:        camera,
		shader:        shader,
		superSampling: max(1, superSampling),
	}
}

// RenderTileBounds renders pixels within bounds into buffer. Tiles with
// non-overlapping bounds may be rendered concurrently into the same buffer.
func (tr *TileRenderer) RenderTileBounds(bounds image.Rectangle, buffer *PixelBuffer, random *rand.Rand) RenderStats {
	stats := RenderStats{TotalPixels: bounds.Dx() * bounds.Dy()}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			color, hit, ok := tr.samplePixel(x, y, random)
			stats.TotalSamples += tr.superSampling * tr.superSampling
			if hit {
				stats.HitPixels++
			}

			if !ok {
				stats.InvalidPixels++
				buffer.Set(x, y, InvalidPixelColor[0], InvalidPixelColor[1], InvalidPixelColor[2])
				continue
			}
			r, g, b := core.ToRGB(color)
			buffer.Set(x, y, r, g, b)
		}
	}

	return stats
}

// samplePixel averages an n x n grid of sub-pixel samples. It reports whether
// the central sample (n/2, n/2) hit a surface and whether the result is usable.
// For even n that sample sits just below and right of the pixel centre.
func (tr *TileRenderer) samplePixel(x, y int, random *rand.Rand) (core.Vec3, bool, bool) {
	n := tr.superSampling
	var accum core.Vec3
	centralHit := false

	for sy := 0; sy < n; sy++ {
		for sx := 0; sx < n; sx++ {
			ray := tr.camera.GetRay(x, y, (float64(sx)+0.5)/float64(n), (float64(sy)+0.5)/float64(n))
			hit, isHit := tr.shader.scene.Raycast(ray)
			if sx == n/2 && sy == n/2 {
				centralHit = isHit
			}

			color, err := tr.shader.Shade(ray, hit, isHit, random)
			if err != nil {
				return core.Vec3{}, centralHit, false
			}
			accum = accum.Add(color)
		}
	}

	color := accum.Multiply(1.0 / float64(n*n))
	return color, centralHit, color.IsFinite()
}
