package gesture

import (
	"github.com/ayusman/neonorb/internal/detector"
	"github.com/ayusman/neonorb/internal/geometry"
)

// TriggerEvent records one accepted color change.
type TriggerEvent struct {
	TimestampMs int64   `json:"timestampMs"`
	Previous    Color   `json:"previous"`
	Color       Color   `json:"color"`
	Scale       float64 `json:"scale"`
	Distance    float64 `json:"distance"` // fingertip to sphere center, world units
}

// TriggerController hit-tests the trigger hand's index fingertip against the
// sphere and recolors it through a debounce gate.
type TriggerController struct {
	Span       float64 // world span for landmark conversion
	BaseRadius float64 // mesh radius at scale 1
	Margin     float64 // hit radius multiplier; 1 means the visual radius
	DebounceMs int64
	Picker     ColorPicker
}

// DefaultTriggerController returns the tuned hit test with the given picker.
func DefaultTriggerController(picker ColorPicker) TriggerController {
	return TriggerController{
		Span:       geometry.DefaultSpan,
		BaseRadius: 2,
		Margin:     1,
		DebounceMs: 500,
		Picker:     picker,
	}
}

// Sphere returns the hit volume for the given scale.
func (c TriggerController) Sphere(scale float64) geometry.Sphere {
	return geometry.NewSphere(scale, c.BaseRadius)
}

// Hit reports whether the fingertip lies strictly inside the sphere and the
// fingertip's world distance to the center.
func (c TriggerController) Hit(sphere geometry.Sphere, tip detector.Point3D) (bool, float64) {
	p := geometry.ToWorld(tip, c.Span)
	return sphere.Contains(p, c.Margin), sphere.Distance(p)
}

// Open reports whether the debounce gate accepts a trigger at nowMs.
// The first trigger of a session always passes; later ones need strictly
// more than DebounceMs since the last. A clock reading behind the last
// trigger never passes.
func (c TriggerController) Open(s State, nowMs int64) bool {
	if nowMs < s.LastTriggerMs {
		return false
	}
	return s.Triggers == 0 || nowMs-s.LastTriggerMs > c.DebounceMs
}

// Update hit-tests the trigger hand and applies a new color when the gate is
// open. It returns the new state, whether the fingertip was inside the
// sphere, and the accepted event if any. A hit inside the debounce window
// leaves the state unchanged.
func (c TriggerController) Update(s State, trigger *detector.HandLandmarks, sphere geometry.Sphere, nowMs int64) (State, bool, *TriggerEvent) {
	if !trigger.Complete() {
		return s, false, nil
	}

	hit, dist := c.Hit(sphere, trigger.Points[detector.IndexTip])
	if !hit || !c.Open(s, nowMs) {
		return s, hit, nil
	}

	ev := &TriggerEvent{
		TimestampMs: nowMs,
		Previous:    s.Color,
		Color:       c.Picker.Pick(),
		Scale:       s.CurrentScale,
		Distance:    dist,
	}

	s.Color = ev.Color
	s.LastTriggerMs = nowMs
	s.Triggers++
	return s, true, ev
}
