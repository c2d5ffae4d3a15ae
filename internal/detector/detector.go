package detector

import "gocv.io/x/gocv"

// Detector defines the interface for hand tracker implementations.
// It stands in for the frame callback: one Detect call per processed frame.
type Detector interface {
	// Detect analyzes a video frame and returns the tracked hands.
	// Returns an empty slice if no hands are detected.
	Detect(frame *gocv.Mat) ([]HandLandmarks, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Starter is implemented by detectors that load a model before the first
// frame. Start blocks until the tracker is ready or has failed.
type Starter interface {
	Start() error
}

// Config holds the hand landmarker options.
type Config struct {
	// MaxHands is the maximum number of hands reported per frame (default: 2).
	MaxHands int

	// MinConfidence is the minimum detection confidence threshold (0.0-1.0).
	MinConfidence float64

	// MinTrackingConf is the minimum tracking confidence threshold (0.0-1.0).
	MinTrackingConf float64

	// Script and Python override the MediaPipe bridge discovery when set.
	Script string
	Python string
}

// DefaultConfig returns the landmarker options used by the live pipeline.
func DefaultConfig() Config {
	return Config{
		MaxHands:        2,
		MinConfidence:   0.5,
		MinTrackingConf: 0.5,
	}
}

// Limit enforces the configured hand cap on a tracker result. Hands scoring
// below MinConfidence are dropped, then at most MaxHands are kept in tracker
// order. Hands with a zero score are kept, since not every tracker reports one.
func (c Config) Limit(hands []HandLandmarks) []HandLandmarks {
	if len(hands) == 0 {
		return hands
	}

	max := c.MaxHands
	if max <= 0 {
		max = DefaultConfig().MaxHands
	}

	out := make([]HandLandmarks, 0, len(hands))
	for _, h := range hands {
		if h.Score > 0 && h.Score < c.MinConfidence {
			continue
		}
		out = append(out, h)
		if len(out) == max {
			break
		}
	}
	return out
}
