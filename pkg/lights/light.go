package lights

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/df07/go-scene-raytracer/pkg/core"
)

// Light is a square area light. It is treated as a point at Position for
// shading and as a Width x Width square facing the shaded point for shadows.
type Light struct {
	Position core.Vec3
	Color    core.Vec3
	Specular float64 // Specular intensity weight
	Shadow   float64 // Shadow intensity: how much light a fully occluded point loses
	Width    float64 // Side length of the light square used for soft shadows
}

// New creates a light, validating its weights
func New(position, color core.Vec3, specular, shadow, width float64) (Light, error) {
	if !(shadow >= 0 && shadow <= 1) {
		return Light{}, fmt.Errorf("invalid shadow intensity %g: must be between 0 and 1", shadow)
	}
	if !(width >= 0) || math.IsInf(width, 0) {
		return Light{}, fmt.Errorf("invalid light width %g: must be non-negative", width)
	}
	return Light{
		Position: position,
		Color:    color,
		Specular: specular,
		Shadow:   shadow,
		Width:    width,
	}, nil
}

// Intensity converts the fraction of unoccluded shadow samples into the fraction
// of the light's color that reaches the point
func (l Light) Intensity(litFraction float64) float64 {
	return (1 - l.Shadow) + l.Shadow*litFraction
}

// SamplePoints returns gridSize² points spread over the light square, as seen
// from point. Each point is jittered inside its grid cell using random; a nil
// random places points at cell centres. A gridSize below 2 or a zero width
// yields the light position alone.
func (l Light) SamplePoints(point core.Vec3, gridSize int, random *rand.Rand) []core.Vec3 {
	if gridSize < 2 || l.Width == 0 {
		return []core.Vec3{l.Position}
	}

	toLight, err := l.Position.Subtract(point).NormalizeChecked()
	if err != nil {
		return []core.Vec3{l.Position}
	}
	u, v := perpendicularBasis(toLight)

	// Start at the corner of the square
	corner := l.Position.
		Subtract(u.Multiply(l.Width / 2)).
		Subtract(v.Multiply(l.Width / 2))
	cell := l.Width / float64(gridSize)

	samples := make([]core.Vec3, 0, gridSize*gridSize)
	for i := 0; i < gridSize; i++ {
		for j := 0; j < gridSize; j++ {
			du, dv := 0.5, 0.5
			if random != nil {
				du, dv = random.Float64(), random.Float64()
			}
			samples = append(samples, corner.
				Add(u.Multiply((float64(i)+du)*cell)).
				Add(v.Multiply((float64(j)+dv)*cell)))
		}
	}
	return samples
}

// perpendicularBasis returns two unit vectors orthogonal to the unit vector n and to each other
func perpendicularBasis(n core.Vec3) (core.Vec3, core.Vec3) {
	// Find a vector not parallel to n
	var nt core.Vec3
	if math.Abs(n.X) > 0.1 {
		nt = core.NewVec3(0, 1, 0)
	} else {
		nt = core.NewVec3(1, 0, 0)
	}
	u := nt.Cross(n).Normalize()
	v := n.Cross(u)
	return u, v
}
