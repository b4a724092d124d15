package scene

import "github.com/df07/go-scene-raytracer/pkg/core"

// CameraConfig describes a pinhole camera the way scene files do
type CameraConfig struct {
	Position       core.Vec3 // Eye position
	LookAt         core.Vec3 // Point the camera looks at
	Up             core.Vec3 // Up hint, need not be orthogonal to the view direction
	ScreenDistance float64   // Distance from the eye to the screen plane
	ScreenWidth    float64   // World-space width of the screen plane
}
