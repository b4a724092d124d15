package geometry

import (
	"fmt"
	"math"

	"github.com/df07/go-scene-raytracer/pkg/core"
)

// Plane represents the infinite plane of points p with p·Normal = Offset
type Plane struct {
	Normal        core.Vec3 // Unit normal
	Offset        float64
	MaterialIndex int
}

// NewPlane creates a new plane, normalizing the given normal
func NewPlane(normal core.Vec3, offset float64, materialIndex int) (*Plane, error) {
	n, err := normal.NormalizeChecked()
	if err != nil {
		return nil, fmt.Errorf("plane normal %v: %w", normal, err)
	}
	return &Plane{
		Normal:        n,
		Offset:        offset,
		MaterialIndex: materialIndex,
	}, nil
}

// Material returns the 1-based material index
func (p *Plane) Material() int {
	return p.MaterialIndex
}

// Intersect tests if a ray intersects with the plane.
// The returned normal is always the stored normal; it is not flipped toward the ray.
func (p *Plane) Intersect(ray core.Ray) (core.Intersection, bool) {
	denominator := ray.Direction.Dot(p.Normal)

	// Nearly parallel rays are treated as misses to avoid blowing up t
	if math.Abs(denominator) < parallelThreshold {
		return core.Intersection{}, false
	}

	t := (p.Offset - ray.Origin.Dot(p.Normal)) / denominator
	if !(t > Epsilon) {
		return core.Intersection{}, false
	}

	return core.Intersection{
		T:             t,
		Point:         ray.At(t),
		Normal:        p.Normal,
		MaterialIndex: p.MaterialIndex,
	}, true
}
