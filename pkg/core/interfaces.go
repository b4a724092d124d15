package core

// Logger interface for raytracer logging
type Logger interface {
	Printf(format string, args ...interface{})
}

// NopLogger discards everything written to it
type NopLogger struct{}

func (NopLogger) Printf(format string, args ...interface{}) {}

// Intersection describes where a ray struck a surface. It is produced fresh for
// every query and never shared.
type Intersection struct {
	T             float64 // Ray parameter of the hit
	Point         Vec3    // World-space hit position
	Normal        Vec3    // Unit surface normal at Point
	MaterialIndex int     // 1-based index into the scene's materials
}

// Shape is implemented by every surface that can be hit by rays.
// Implementations must be safe for concurrent use.
type Shape interface {
	// Intersect returns the nearest hit along ray in front of its origin.
	// ray.Direction is assumed to be unit length.
	Intersect(ray Ray) (Intersection, bool)
	// Material returns the 1-based material index of the shape
	Material() int
}
