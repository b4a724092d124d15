package geometry

import (
	"fmt"
	"math"

	"github.com/df07/go-scene-raytracer/pkg/core"
)

// Sphere represents a sphere shape
type Sphere struct {
	Center        core.Vec3
	Radius        float64
	MaterialIndex int
}

// NewSphere creates a new sphere. The radius must be positive.
func NewSphere(center core.Vec3, radius float64, materialIndex int) (*Sphere, error) {
	if !(radius > 0) || math.IsInf(radius, 0) {
		return nil, fmt.Errorf("sphere radius %g: %w", radius, core.ErrDegenerate)
	}
	return &Sphere{
		Center:        center,
		Radius:        radius,
		MaterialIndex: materialIndex,
	}, nil
}

// Material returns the 1-based material index
func (s *Sphere) Material() int {
	return s.MaterialIndex
}

// Intersect tests if a ray intersects with the sphere
func (s *Sphere) Intersect(ray core.Ray) (core.Intersection, bool) {
	// Vector from ray origin to sphere center
	oc := ray.Origin.Subtract(s.Center)

	// Quadratic equation coefficients: at² + bt + c = 0
	a := ray.Direction.Dot(ray.Direction)
	halfB := oc.Dot(ray.Direction)
	c := oc.Dot(oc) - s.Radius*s.Radius

	discriminant := halfB*halfB - a*c
	if discriminant < 0 {
		return core.Intersection{}, false
	}

	sqrtD := math.Sqrt(discriminant)

	// Try the closer intersection point first
	root := (-halfB - sqrtD) / a
	if !(root > Epsilon) {
		// Origin inside the sphere (or sphere behind): try the farther root
		root = (-halfB + sqrtD) / a
		if !(root > Epsilon) {
			return core.Intersection{}, false
		}
	}

	point := ray.At(root)
	return core.Intersection{
		T:             root,
		Point:         point,
		Normal:        point.Subtract(s.Center).Multiply(1.0 / s.Radius),
		MaterialIndex: s.MaterialIndex,
	}, true
}
