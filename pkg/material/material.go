package material

import (
	"fmt"

	"github.com/df07/go-scene-raytracer/pkg/core"
)

// Material holds the surface appearance parameters shared by every shape that
// references it. Materials are immutable once created.
type Material struct {
	Diffuse      core.Vec3 // Diffuse color
	Specular     core.Vec3 // Specular highlight color
	Reflection   core.Vec3 // Mirror reflection color (reserved for recursive tracing)
	Phong        float64   // Phong specularity exponent
	Transparency float64   // Fraction of the background showing through, in [0,1]
}

// New creates a material, validating the transparency range
func New(diffuse, specular, reflection core.Vec3, phong, transparency float64) (Material, error) {
	if !(transparency >= 0 && transparency <= 1) {
		return Material{}, fmt.Errorf("invalid transparency %g: must be between 0 and 1", transparency)
	}
	if !(phong >= 0) {
		return Material{}, fmt.Errorf("invalid phong exponent %g: must be non-negative", phong)
	}
	return Material{
		Diffuse:      diffuse,
		Specular:     specular,
		Reflection:   reflection,
		Phong:        phong,
		Transparency: transparency,
	}, nil
}

// NewDiffuse creates an opaque material with only a diffuse color
func NewDiffuse(diffuse core.Vec3) Material {
	return Material{Diffuse: diffuse}
}

// BaseColor blends the background with the material's own diffuse and specular
// color according to its transparency. This is the color of the surface before
// any light is applied.
func (m Material) BaseColor(background core.Vec3) core.Vec3 {
	surface := m.Diffuse.Add(m.Specular)
	return background.Multiply(m.Transparency).Add(surface.Multiply(1 - m.Transparency))
}
