// Package config loads neonorb settings from a YAML file layered over defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is returned (wrapped) when a configuration value is out of range.
var ErrInvalid = errors.New("invalid config")

// Config is the complete neonorb configuration.
type Config struct {
	Camera  CameraConfig  `yaml:"camera"`
	Tracker TrackerConfig `yaml:"tracker"`
	Engine  EngineConfig  `yaml:"engine"`
	Render  RenderConfig  `yaml:"render"`
	Server  ServerConfig  `yaml:"server"`
	Store   StoreConfig   `yaml:"store"`
}

// CameraConfig contains capture settings.
type CameraConfig struct {
	DeviceID int `yaml:"device_id"`
	Width    int `yaml:"width"`
	Height   int `yaml:"height"`
	FPS      int `yaml:"fps"` // tracker callbacks per second
}

// TrackerConfig mirrors the hand landmarker options.
type TrackerConfig struct {
	MaxHands              int     `yaml:"max_hands"`
	MinConfidence         float64 `yaml:"min_confidence"`
	MinTrackingConfidence float64 `yaml:"min_tracking_confidence"`
	SwapHandedness        bool    `yaml:"swap_handedness"` // for mirrored camera setups
	Script                string  `yaml:"script,omitempty"` // mediapipe_service.py; searched for when empty
	Python                string  `yaml:"python,omitempty"` // interpreter; a venv or python3 when empty
}

// EngineConfig holds the gesture mapping constants.
type EngineConfig struct {
	Span       float64 `yaml:"span"`        // world units covered by the normalized [0,1] range
	BaseRadius float64 `yaml:"base_radius"` // sphere mesh radius at scale 1
	HitMargin  float64 `yaml:"hit_margin"`
	DebounceMs int64   `yaml:"debounce_ms"`
	PinchMin   float64 `yaml:"pinch_min"`
	PinchMax   float64 `yaml:"pinch_max"`
	ScaleMin   float64 `yaml:"scale_min"`
	ScaleMax   float64 `yaml:"scale_max"`
	Alpha      float64 `yaml:"alpha"` // smoothing factor per tracked frame
}

// RenderConfig contains render loop settings.
type RenderConfig struct {
	FPS int `yaml:"fps"`
}

// ServerConfig contains HTTP settings.
type ServerConfig struct {
	Addr   string `yaml:"addr"`
	WebDir string `yaml:"web_dir"`
}

// StoreConfig contains recording settings.
type StoreConfig struct {
	Path   string `yaml:"path"`
	Record bool   `yaml:"record"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Camera: CameraConfig{
			DeviceID: 0,
			Width:    640,
			Height:   480,
			FPS:      30,
		},
		Tracker: TrackerConfig{
			MaxHands:              2,
			MinConfidence:         0.5,
			MinTrackingConfidence: 0.5,
		},
		Engine: EngineConfig{
			Span:       10,
			BaseRadius: 2,
			HitMargin:  1,
			DebounceMs: 500,
			PinchMin:   0.05,
			PinchMax:   0.25,
			ScaleMin:   0.2,
			ScaleMax:   2.0,
			Alpha:      0.15,
		},
		Render: RenderConfig{
			FPS: 60,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Store: StoreConfig{
			Record: true,
		},
	}
}

// Load reads the YAML file at path over the defaults.
// A missing file is not an error; the defaults are returned.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg, err = Parse(data)
	if err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Marshal encodes the configuration as YAML.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Validate checks that every value is usable.
func (c Config) Validate() error {
	e := c.Engine
	switch {
	case c.Camera.FPS <= 0:
		return fmt.Errorf("%w: camera.fps must be positive", ErrInvalid)
	case c.Tracker.MaxHands < 1 || c.Tracker.MaxHands > 2:
		return fmt.Errorf("%w: tracker.max_hands must be 1 or 2", ErrInvalid)
	case e.Span <= 0:
		return fmt.Errorf("%w: engine.span must be positive", ErrInvalid)
	case e.BaseRadius <= 0:
		return fmt.Errorf("%w: engine.base_radius must be positive", ErrInvalid)
	case e.HitMargin <= 0:
		return fmt.Errorf("%w: engine.hit_margin must be positive", ErrInvalid)
	case e.DebounceMs < 0:
		return fmt.Errorf("%w: engine.debounce_ms must not be negative", ErrInvalid)
	case e.PinchMin < 0 || e.PinchMax <= e.PinchMin:
		return fmt.Errorf("%w: engine.pinch_min must be below engine.pinch_max", ErrInvalid)
	case e.ScaleMin < 0 || e.ScaleMax < e.ScaleMin:
		return fmt.Errorf("%w: engine.scale_min must not exceed engine.scale_max", ErrInvalid)
	case e.Alpha <= 0 || e.Alpha >= 1:
		return fmt.Errorf("%w: engine.alpha must be in (0,1)", ErrInvalid)
	case c.Render.FPS <= 0:
		return fmt.Errorf("%w: render.fps must be positive", ErrInvalid)
	}
	return nil
}

// Debounce returns the trigger debounce window as a duration.
func (e EngineConfig) Debounce() time.Duration {
	return time.Duration(e.DebounceMs) * time.Millisecond
}
