// Package testdata embeds recorded hand-tracking sessions for tests.
package testdata

import (
	"embed"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"github.com/ayusman/neonorb/internal/gesture"
)

//go:embed sessions/*.json
var sessionsFS embed.FS

// Recordings bundled with the package.
const (
	// PinchAndTouch ramps a right-hand pinch from closed to wide over 60
	// frames at 33ms. From frame 20 on, the left index fingertip rests on
	// the sphere center.
	PinchAndTouch = "pinch_and_touch"
	// LeftTaps is 11 frames 100ms apart with only a left hand, touching
	// the sphere at 0, 100, 300, 700 and 800ms.
	LeftTaps = "left_taps"
)

// LoadRecording loads a recorded session by name
func LoadRecording(name string) ([]gesture.Frame, error) {
	data, err := sessionsFS.ReadFile("sessions/" + name + ".json")
	if err != nil {
		return nil, fmt.Errorf("load recording %s: %w", name, err)
	}

	var frames []gesture.Frame
	if err := json.Unmarshal(data, &frames); err != nil {
		return nil, fmt.Errorf("decode recording %s: %w", name, err)
	}

	return frames, nil
}

// Recordings lists the names of all bundled recordings.
func Recordings() ([]string, error) {
	entries, err := sessionsFS.ReadDir("sessions")
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), path.Ext(entry.Name())))
	}
	return names, nil
}
