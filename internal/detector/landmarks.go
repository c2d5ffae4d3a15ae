// Package detector provides hand landmark types and the tracker interface
// that delivers them once per processed camera frame.
package detector

import (
	"math"
	"strings"
)

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Handedness labels emitted by the tracker.
const (
	Left  = "Left"
	Right = "Right"
)

// Connections lists the landmark pairs drawn as bones by the skeleton overlay.
var Connections = [][2]int{
	{0, 1}, {1, 2}, {2, 3}, {3, 4},
	{0, 5}, {5, 6}, {6, 7}, {7, 8},
	{0, 9}, {9, 10}, {10, 11}, {11, 12},
	{0, 13}, {13, 14}, {14, 15}, {15, 16},
	{0, 17}, {17, 18}, {18, 19}, {19, 20},
	{0, 5}, {5, 9}, {9, 13}, {13, 17},
}

// Point3D is a landmark in normalized image space. X and Y are in [0,1]
// with Y growing downward; Z is a relative depth estimate.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandLandmarks is one tracked hand in one frame.
type HandLandmarks struct {
	Points     []Point3D `json:"points"`
	Handedness string    `json:"handedness"` // "Left" or "Right"
	Score      float64   `json:"score"`
}

// Distance3D returns the Euclidean distance between two points.
func Distance3D(a, b Point3D) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	dz := a.Z - b.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Complete reports whether all 21 landmarks are present.
func (h *HandLandmarks) Complete() bool {
	return h != nil && len(h.Points) == NumLandmarks
}

// IsLeft reports whether the tracker labeled the hand as left.
func (h *HandLandmarks) IsLeft() bool {
	return h != nil && strings.EqualFold(strings.TrimSpace(h.Handedness), Left)
}

// IsRight reports whether the tracker labeled the hand as right.
func (h *HandLandmarks) IsRight() bool {
	return h != nil && strings.EqualFold(strings.TrimSpace(h.Handedness), Right)
}

// PinchDistance returns the normalized distance between thumb tip and index tip.
// The second result is false when the hand is incomplete.
func (h *HandLandmarks) PinchDistance() (float64, bool) {
	if !h.Complete() {
		return 0, false
	}
	return Distance3D(h.Points[ThumbTip], h.Points[IndexTip]), true
}
