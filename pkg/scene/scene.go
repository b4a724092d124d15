package scene

import (
	"fmt"
	"math"

	"github.com/df07/go-scene-raytracer/pkg/core"
	"github.com/df07/go-scene-raytracer/pkg/lights"
	"github.com/df07/go-scene-raytracer/pkg/material"
)

// Settings contains the global render settings of a scene
type Settings struct {
	Background    core.Vec3 // Color of rays that hit nothing
	ShadowRays    int       // Shadow rays per light axis (N gives N² samples)
	MaxRecursion  int       // Maximum reflection depth (carried, not used by local shading)
	SuperSampling int       // Sub-pixel samples per axis (N gives N² samples)
}

// DefaultSettings returns the settings used when a scene does not specify any
func DefaultSettings() Settings {
	return Settings{
		Background:    core.NewVec3(0, 0, 0),
		ShadowRays:    1,
		MaxRecursion:  10,
		SuperSampling: 1,
	}
}

// Scene contains all the elements needed for rendering. A Scene is only
// produced by Builder.Build and is never modified afterwards, so it can be
// shared by any number of render workers.
type Scene struct {
	settings  Settings
	materials []material.Material
	lights    []lights.Light
	shapes    []core.Shape
}

// Settings returns the scene's global settings
func (s *Scene) Settings() Settings { return s.settings }

// Background returns the background color
func (s *Scene) Background() core.Vec3 { return s.settings.Background }

// Lights returns the scene's lights. The slice must not be modified.
func (s *Scene) Lights() []lights.Light { return s.lights }

// Shapes returns the scene's shapes. The slice must not be modified.
func (s *Scene) Shapes() []core.Shape { return s.shapes }

// MaterialCount returns the number of materials
func (s *Scene) MaterialCount() int { return len(s.materials) }

// Material returns the material with the given 1-based index
func (s *Scene) Material(index int) (material.Material, error) {
	if index < 1 || index > len(s.materials) {
		return material.Material{}, fmt.Errorf("material index %d out of range [1, %d]", index, len(s.materials))
	}
	return s.materials[index-1], nil
}

// Raycast returns the intersection closest to the ray origin among all shapes
func (s *Scene) Raycast(ray core.Ray) (core.Intersection, bool) {
	var closest core.Intersection
	closestDistSq := 0.0
	hitAnything := false

	for _, shape := range s.shapes {
		hit, isHit := shape.Intersect(ray)
		if !isHit {
			continue
		}
		distSq := hit.Point.Subtract(ray.Origin).LengthSquared()
		if math.IsNaN(distSq) || math.IsInf(distSq, 0) {
			continue
		}
		if !hitAnything || distSq < closestDistSq {
			hitAnything = true
			closestDistSq = distSq
			closest = hit
		}
	}

	return closest, hitAnything
}

// Occluded reports whether any shape lies on the segment from origin to target
func (s *Scene) Occluded(origin, target core.Vec3) bool {
	toTarget := target.Subtract(origin)
	distSq := toTarget.LengthSquared()
	direction, err := toTarget.NormalizeChecked()
	if err != nil {
		return false
	}

	ray := core.NewRay(origin, direction)
	for _, shape := range s.shapes {
		if hit, isHit := shape.Intersect(ray); isHit && hit.Point.Subtract(origin).LengthSquared() < distSq {
			return true
		}
	}
	return false
}

// GetPrimitiveCount returns the total number of primitive objects in the scene
func (s *Scene) GetPrimitiveCount() int {
	return len(s.shapes)
}
