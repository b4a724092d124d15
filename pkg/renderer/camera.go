package renderer

import (
	"fmt"

	"github.com/df07/go-scene-raytracer/pkg/core"
	"github.com/df07/go-scene-raytracer/pkg/scene"
)

// Camera generates primary rays through a screen plane in front of the eye
type Camera struct {
	position     core.Vec3
	forward      core.Vec3
	up           core.Vec3
	right        core.Vec3
	screenCenter core.Vec3
	screenWidth  float64
	screenHeight float64
	imageWidth   int
	imageHeight  int
}

// NewCamera derives the camera basis and screen geometry for an image of
// imageWidth x imageHeight pixels
func NewCamera(config scene.CameraConfig, imageWidth, imageHeight int) (*Camera, error) {
	if imageWidth <= 0 || imageHeight <= 0 {
		return nil, fmt.Errorf("invalid image size %dx%d: must be positive", imageWidth, imageHeight)
	}
	if !(config.ScreenDistance > 0) {
		return nil, fmt.Errorf("invalid screen distance %g: must be positive", config.ScreenDistance)
	}
	if !(config.ScreenWidth > 0) {
		return nil, fmt.Errorf("invalid screen width %g: must be positive", config.ScreenWidth)
	}

	forward, err := config.LookAt.Subtract(config.Position).NormalizeChecked()
	if err != nil {
		return nil, fmt.Errorf("camera position and look-at point coincide: %w", err)
	}
	right, err := forward.Cross(config.Up).NormalizeChecked()
	if err != nil {
		return nil, fmt.Errorf("camera up vector %v is parallel to the view direction: %w", config.Up, err)
	}
	// Recompute up so the basis is orthonormal
	up := right.Cross(forward)

	screenHeight := config.ScreenWidth * float64(imageHeight) / float64(imageWidth)

	return &Camera{
		position:     config.Position,
		forward:      forward,
		up:           up,
		right:        right,
		screenCenter: config.Position.Add(forward.Multiply(config.ScreenDistance)),
		screenWidth:  config.ScreenWidth,
		screenHeight: screenHeight,
		imageWidth:   imageWidth,
		imageHeight:  imageHeight,
	}, nil
}

// Basis returns the camera's orthonormal forward, up and right vectors
func (c *Camera) Basis() (forward, up, right core.Vec3) {
	return c.forward, c.up, c.right
}

// Position returns the eye position
func (c *Camera) Position() core.Vec3 {
	return c.position
}

// ScreenHeight returns the world-space height of the screen plane
func (c *Camera) ScreenHeight() float64 {
	return c.screenHeight
}

// ScreenPoint returns the point on the screen plane for pixel (col, row) at
// sub-pixel offset (sx, sy) in [0,1). Row 0 is the top of the image.
// Each point is computed directly from its indices, so there is no drift
// across large images.
func (c *Camera) ScreenPoint(col, row int, sx, sy float64) core.Vec3 {
	u := (float64(col)+sx)/float64(c.imageWidth) - 0.5
	v := 0.5 - (float64(row)+sy)/float64(c.imageHeight)
	return c.screenCenter.
		Add(c.right.Multiply(u * c.screenWidth)).
		Add(c.up.Multiply(v * c.screenHeight))
}

// GetRay generates the primary ray through pixel (col, row) at sub-pixel offset (sx, sy)
func (c *Camera) GetRay(col, row int, sx, sy float64) core.Ray {
	direction := c.ScreenPoint(col, row, sx, sy).Subtract(c.position).Normalize()
	return core.NewRay(c.position, direction)
}

// GetCenterRay generates the ray through the centre of pixel (col, row)
func (c *Camera) GetCenterRay(col, row int) core.Ray {
	return c.GetRay(col, row, 0.5, 0.5)
}
