package scene

import (
	"fmt"

	"github.com/df07/go-scene-raytracer/pkg/core"
	"github.com/df07/go-scene-raytracer/pkg/lights"
	"github.com/df07/go-scene-raytracer/pkg/material"
)

// Builder accumulates scene elements sequentially. It is not safe for
// concurrent use; call Build once everything has been added.
type Builder struct {
	settings  Settings
	materials []material.Material
	lights    []lights.Light
	shapes    []core.Shape
}

// NewBuilder creates a builder with default settings
func NewBuilder() *Builder {
	return &Builder{settings: DefaultSettings()}
}

// SetSettings replaces the global settings
func (b *Builder) SetSettings(settings Settings) *Builder {
	b.settings = settings
	return b
}

// AddMaterial appends a material and returns its 1-based index
func (b *Builder) AddMaterial(m material.Material) int {
	b.materials = append(b.materials, m)
	return len(b.materials)
}

// AddLight appends a light
func (b *Builder) AddLight(l lights.Light) *Builder {
	b.lights = append(b.lights, l)
	return b
}

// AddShape appends a shape
func (b *Builder) AddShape(shape core.Shape) *Builder {
	b.shapes = append(b.shapes, shape)
	return b
}

// Build validates the accumulated elements and returns an immutable Scene
func (b *Builder) Build() (*Scene, error) {
	if b.settings.ShadowRays < 1 {
		return nil, fmt.Errorf("invalid shadow ray count %d: must be at least 1", b.settings.ShadowRays)
	}
	if b.settings.SuperSampling < 1 {
		return nil, fmt.Errorf("invalid super-sampling level %d: must be at least 1", b.settings.SuperSampling)
	}
	if b.settings.MaxRecursion < 0 {
		return nil, fmt.Errorf("invalid maximum recursion %d: must be non-negative", b.settings.MaxRecursion)
	}

	for i, shape := range b.shapes {
		if idx := shape.Material(); idx < 1 || idx > len(b.materials) {
			return nil, fmt.Errorf("shape %d (%T) references material %d, but %d materials are defined",
				i+1, shape, idx, len(b.materials))
		}
	}

	// Copy so later builder use cannot reach the built scene
	return &Scene{
		settings:  b.settings,
		materials: append([]material.Material(nil), b.materials...),
		lights:    append([]lights.Light(nil), b.lights...),
		shapes:    append([]core.Shape(nil), b.shapes...),
	}, nil
}
