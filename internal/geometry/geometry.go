// Package geometry maps normalized landmark coordinates into the rendered
// scene's world space and describes the sphere's current volume.
package geometry

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/ayusman/neonorb/internal/detector"
)

// DefaultSpan is the world-space width covered by the normalized [0,1] range
// at the camera's focal plane.
const DefaultSpan = 10.0

// ToWorld converts a normalized landmark to world space. Y is inverted since
// image rows grow downward. The tracker's depth is not metric, so the point is
// flattened onto the focal plane (z = 0).
func ToWorld(p detector.Point3D, span float64) mgl64.Vec3 {
	return mgl64.Vec3{
		(p.X - 0.5) * span,
		(0.5 - p.Y) * span,
		0,
	}
}

// Sphere is the rendered object's volume for the current frame.
type Sphere struct {
	Center mgl64.Vec3
	Radius float64
}

// NewSphere returns the sphere at the world origin for the given scale.
// Rotation never moves the center.
func NewSphere(scale, baseRadius float64) Sphere {
	return Sphere{Radius: scale * baseRadius}
}

// Distance returns the distance from p to the sphere's center.
func (s Sphere) Distance(p mgl64.Vec3) float64 {
	return p.Sub(s.Center).Len()
}

// Contains reports whether p lies strictly inside the sphere scaled by margin.
// A point exactly on the surface is outside.
func (s Sphere) Contains(p mgl64.Vec3, margin float64) bool {
	return s.Distance(p) < s.Radius*margin
}
