package gesture

import "github.com/ayusman/neonorb/internal/detector"

// ScaleController maps the control hand's pinch to the sphere's scale.
type ScaleController struct {
	MinDistance float64 // pinch at or below this maps to MinScale
	MaxDistance float64 // pinch at or above this maps to MaxScale
	MinScale    float64
	MaxScale    float64
	Alpha       float64 // smoothing factor applied once per frame
}

// DefaultScaleController returns the tuned pinch mapping.
func DefaultScaleController() ScaleController {
	return ScaleController{
		MinDistance: 0.05,
		MaxDistance: 0.25,
		MinScale:    0.2,
		MaxScale:    2.0,
		Alpha:       0.15,
	}
}

// TargetFor maps a normalized pinch distance to a scale by clamped linear
// interpolation. A zero distance is valid and yields MinScale.
func (c ScaleController) TargetFor(distance float64) float64 {
	switch {
	case distance <= c.MinDistance:
		return c.MinScale
	case distance >= c.MaxDistance:
		return c.MaxScale
	}
	t := (distance - c.MinDistance) / (c.MaxDistance - c.MinDistance)
	return c.MinScale + t*(c.MaxScale-c.MinScale)
}

// Update retargets from the control hand, if any, then moves CurrentScale a
// fraction Alpha of the way toward TargetScale. Without a control hand the
// target holds and smoothing continues toward it.
//
// Smoothing is per call, not per elapsed time, so the visual speed follows
// the tracker's frame rate.
func (c ScaleController) Update(s State, control *detector.HandLandmarks) State {
	if d, ok := control.PinchDistance(); ok {
		s.TargetScale = c.TargetFor(d)
	}
	s.CurrentScale += (s.TargetScale - s.CurrentScale) * c.Alpha
	return s
}
