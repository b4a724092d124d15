package geometry

import (
	"fmt"
	"math"

	"github.com/df07/go-scene-raytracer/pkg/core"
)

// Triangle represents a single triangle defined by three vertices
type Triangle struct {
	V0, V1, V2    core.Vec3 // The three vertices
	MaterialIndex int
	normal        core.Vec3 // Cached normal vector
}

// NewTriangle creates a new triangle from three vertices.
// Zero-area triangles are rejected.
func NewTriangle(v0, v1, v2 core.Vec3, materialIndex int) (*Triangle, error) {
	normal, err := v1.Subtract(v0).Cross(v2.Subtract(v0)).NormalizeChecked()
	if err != nil {
		return nil, fmt.Errorf("triangle %v %v %v has zero area: %w", v0, v1, v2, err)
	}
	return &Triangle{
		V0:            v0,
		V1:            v1,
		V2:            v2,
		MaterialIndex: materialIndex,
		normal:        normal,
	}, nil
}

// Material returns the 1-based material index
func (t *Triangle) Material() int {
	return t.MaterialIndex
}

// Normal returns the triangle's face normal, normalize((v1-v0)×(v2-v0))
func (t *Triangle) Normal() core.Vec3 {
	return t.normal
}

// Intersect tests if a ray intersects with the triangle using the Möller-Trumbore algorithm
func (t *Triangle) Intersect(ray core.Ray) (core.Intersection, bool) {
	const epsilon = 1e-8

	edge1 := t.V1.Subtract(t.V0)
	edge2 := t.V2.Subtract(t.V0)

	h := ray.Direction.Cross(edge2)
	a := edge1.Dot(h)

	// If determinant is near zero, ray lies in plane of triangle
	if !(math.Abs(a) >= epsilon) {
		return core.Intersection{}, false
	}

	f := 1.0 / a
	s := ray.Origin.Subtract(t.V0)
	u := f * s.Dot(h)
	if !(u >= 0.0 && u <= 1.0) {
		return core.Intersection{}, false
	}

	q := s.Cross(edge1)
	v := f * ray.Direction.Dot(q)
	if !(v >= 0.0 && u+v <= 1.0) {
		return core.Intersection{}, false
	}

	tParam := f * edge2.Dot(q)
	if !(tParam > Epsilon) {
		return core.Intersection{}, false
	}

	return core.Intersection{
		T:             tParam,
		Point:         ray.At(tParam),
		Normal:        t.normal,
		MaterialIndex: t.MaterialIndex,
	}, true
}
