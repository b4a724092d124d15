package renderer

import (
	"math"
	"math/rand"

	"github.com/df07/go-scene-raytracer/pkg/core"
	"github.com/df07/go-scene-raytracer/pkg/geometry"
	"github.com/df07/go-scene-raytracer/pkg/lights"
	"github.com/df07/go-scene-raytracer/pkg/scene"
)

// Shader computes local illumination for intersections in a scene
type Shader struct {
	scene *scene.Scene
}

// NewShader creates a shader for the given scene
func NewShader(s *scene.Scene) *Shader {
	return &Shader{scene: s}
}

// Trace casts ray into the scene and shades whatever it hits
func (sh *Shader) Trace(ray core.Ray, random *rand.Rand) (core.Vec3, error) {
	hit, isHit := sh.scene.Raycast(ray)
	return sh.Shade(ray, hit, isHit, random)
}

// Shade returns the color seen along ray. When isHit is false the background
// color is returned unchanged. The result is not clamped.
//
// Normals are turned to face the viewer before lighting, so planes and
// triangles are lit the same from both sides.
func (sh *Shader) Shade(ray core.Ray, hit core.Intersection, isHit bool, random *rand.Rand) (core.Vec3, error) {
	background := sh.scene.Background()
	if !isHit {
		return background, nil
	}

	mat, err := sh.scene.Material(hit.MaterialIndex)
	if err != nil {
		return core.Vec3{}, err
	}

	color := mat.BaseColor(background)

	normal := hit.Normal
	if normal.Dot(ray.Direction) > 0 {
		normal = normal.Negate()
	}
	view := ray.Direction.Negate()
	shadowRays := sh.scene.Settings().ShadowRays

	for _, light := range sh.scene.Lights() {
		toLight, err := light.Position.Subtract(hit.Point).NormalizeChecked()
		if err != nil {
			// Light sits on the surface; it has no direction to shade with
			continue
		}

		nDotL := normal.Dot(toLight)
		if nDotL <= 0 {
			continue
		}

		intensity := light.Intensity(sh.litFraction(hit.Point, light, shadowRays, random))
		if intensity <= 0 {
			continue
		}
		lightColor := light.Color.Multiply(intensity)

		// Diffuse: Lambert's cosine law
		color = color.Add(mat.Diffuse.MultiplyVec(lightColor).Multiply(nDotL))

		// Specular: Phong reflection of the light direction about the normal
		reflected := toLight.Negate().Reflect(normal)
		if rDotV := reflected.Dot(view); rDotV > 0 {
			highlight := math.Pow(rDotV, mat.Phong) * light.Specular
			color = color.Add(mat.Specular.MultiplyVec(lightColor).Multiply(highlight))
		}
	}

	return color, nil
}

// litFraction returns the fraction of the light's shadow samples visible from point
func (sh *Shader) litFraction(point core.Vec3, light lights.Light, shadowRays int, random *rand.Rand) float64 {
	samples := light.SamplePoints(point, shadowRays, random)

	lit := 0
	for _, sample := range samples {
		direction, err := sample.Subtract(point).NormalizeChecked()
		if err != nil {
			lit++
			continue
		}
		// Step off the surface so it does not shadow itself
		origin := point.Add(direction.Multiply(geometry.Epsilon))
		if !sh.scene.Occluded(origin, sample) {
			lit++
		}
	}

	return float64(lit) / float64(len(samples))
}
