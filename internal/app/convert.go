package app

import (
	"encoding/json"
	"fmt"

	"github.com/ayusman/neonorb/internal/capture"
	"github.com/ayusman/neonorb/internal/config"
	"github.com/ayusman/neonorb/internal/detector"
	"github.com/ayusman/neonorb/internal/gesture"
	"github.com/ayusman/neonorb/internal/store"
)

// ParamsFromConfig builds the engine tuning from the configuration.
func ParamsFromConfig(cfg config.Config, picker gesture.ColorPicker) gesture.Params {
	e := cfg.Engine
	return gesture.Params{
		Scale: gesture.ScaleController{
			MinDistance: e.PinchMin,
			MaxDistance: e.PinchMax,
			MinScale:    e.ScaleMin,
			MaxScale:    e.ScaleMax,
			Alpha:       e.Alpha,
		},
		Trigger: gesture.TriggerController{
			Span:       e.Span,
			BaseRadius: e.BaseRadius,
			Margin:     e.HitMargin,
			DebounceMs: e.DebounceMs,
			Picker:     picker,
		},
		SwapHandedness: cfg.Tracker.SwapHandedness,
	}
}

// detectorConfig converts tracker settings to landmarker options.
func detectorConfig(t config.TrackerConfig) detector.Config {
	return detector.Config{
		MaxHands:        t.MaxHands,
		MinConfidence:   t.MinConfidence,
		MinTrackingConf: t.MinTrackingConfidence,
		Script:          t.Script,
		Python:          t.Python,
	}
}

// cameraConfig converts camera settings to capture options.
func cameraConfig(c config.CameraConfig) capture.Config {
	return capture.Config{
		DeviceID: c.DeviceID,
		Width:    c.Width,
		Height:   c.Height,
		FPS:      c.FPS,
	}
}

// frameToStore converts an engine frame to its recorded form.
func frameToStore(sessionID string, seq int64, f gesture.Frame) (store.Frame, error) {
	hands := f.Hands
	if hands == nil {
		hands = []detector.HandLandmarks{}
	}
	data, err := json.Marshal(hands)
	if err != nil {
		return store.Frame{}, fmt.Errorf("encode hands: %w", err)
	}
	return store.Frame{
		SessionID:   sessionID,
		Seq:         seq,
		TimestampMs: f.TimestampMs,
		Hands:       data,
	}, nil
}

// storeFrameToGesture converts a recorded frame back to an engine frame.
func storeFrameToGesture(f store.Frame) (gesture.Frame, error) {
	var hands []detector.HandLandmarks
	if len(f.Hands) > 0 {
		if err := json.Unmarshal(f.Hands, &hands); err != nil {
			return gesture.Frame{}, fmt.Errorf("decode frame %d: %w", f.Seq, err)
		}
	}
	return gesture.Frame{Hands: hands, TimestampMs: f.TimestampMs}, nil
}

// eventToStore converts a trigger event to its recorded form.
func eventToStore(sessionID string, ev gesture.TriggerEvent) *store.TriggerEvent {
	return &store.TriggerEvent{
		SessionID:   sessionID,
		TimestampMs: ev.TimestampMs,
		Previous:    ev.Previous.Hex(),
		Color:       ev.Color.Hex(),
		Scale:       ev.Scale,
		Distance:    ev.Distance,
	}
}
