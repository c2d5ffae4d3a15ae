// Package gesture turns per-frame hand landmarks into the sphere's scale and
// color. The pinch of the control hand drives the scale; the fingertip of the
// trigger hand recolors the sphere when it enters the sphere's volume.
package gesture

import "github.com/ayusman/neonorb/internal/detector"

// State is the interaction state carried from frame to frame.
type State struct {
	TargetScale   float64
	CurrentScale  float64
	LastTriggerMs int64 // never decreases
	Triggers      int   // accepted color changes since the session started
	Color         Color // changes only through the debounce gate
}

// DefaultState returns the state at session start.
func DefaultState() State {
	return State{
		TargetScale:  1.0,
		CurrentScale: 1.0,
		Color:        InitialHue,
	}
}

// Frame is one tracker callback: 0-2 hands and the clock reading in ms.
type Frame struct {
	Hands       []detector.HandLandmarks `json:"hands"`
	TimestampMs int64                    `json:"timestampMs"`
}

// Snapshot is the read-only view handed to the render and UI layers.
type Snapshot struct {
	Seq         uint64                   `json:"seq"`
	Scale       float64                  `json:"scale"`
	TargetScale float64                  `json:"targetScale"`
	Color       Color                    `json:"color"`
	Status      string                   `json:"status"`
	ControlHand bool                     `json:"controlHand"`
	TriggerHand bool                     `json:"triggerHand"`
	Hit         bool                     `json:"hit"`
	Triggers    int                      `json:"triggers"`
	TimestampMs int64                    `json:"timestampMs"`
	Hands       []detector.HandLandmarks `json:"hands"`
}
