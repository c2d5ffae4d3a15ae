package render

import "github.com/ayusman/neonorb/internal/detector"

// Overlay describes how the viewer draws the hand skeletons.
type Overlay struct {
	Connections [][2]int `json:"connections"`
	Tips        []int    `json:"tips"`
	LeftColor   string   `json:"leftColor"`
	RightColor  string   `json:"rightColor"`
	TipColor    string   `json:"tipColor"`
	LineWidth   int      `json:"lineWidth"`
	PointRadius int      `json:"pointRadius"`
}

// DefaultOverlay returns the skeleton styling: green left hands, cyan right
// hands and red thumb and index tips.
func DefaultOverlay() Overlay {
	return Overlay{
		Connections: detector.Connections,
		Tips:        []int{detector.ThumbTip, detector.IndexTip},
		LeftColor:   "#00ff00",
		RightColor:  "#00ffff",
		TipColor:    "#ff0000",
		LineWidth:   2,
		PointRadius: 3,
	}
}
