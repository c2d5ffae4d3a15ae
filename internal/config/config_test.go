package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() error = %v", err)
	}

	if cfg.Engine.Span != 10 {
		t.Errorf("Engine.Span = %f, want 10", cfg.Engine.Span)
	}
	if cfg.Engine.Alpha != 0.15 {
		t.Errorf("Engine.Alpha = %f, want 0.15", cfg.Engine.Alpha)
	}
	if got := cfg.Engine.Debounce(); got != 500*time.Millisecond {
		t.Errorf("Engine.Debounce() = %v, want 500ms", got)
	}
	if cfg.Tracker.MaxHands != 2 {
		t.Errorf("Tracker.MaxHands = %d, want 2", cfg.Tracker.MaxHands)
	}
}

func TestLoad(t *testing.T) {
	t.Run("missing file returns defaults", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg != Default() {
			t.Errorf("Load() = %+v, want defaults", cfg)
		}
	})

	t.Run("empty path returns defaults", func(t *testing.T) {
		cfg, err := Load("")
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg != Default() {
			t.Errorf("Load() = %+v, want defaults", cfg)
		}
	})

	t.Run("file overrides only the keys it sets", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "neonorb.yaml")
		data := []byte(`
engine:
  debounce_ms: 250
  alpha: 0.3
tracker:
  swap_handedness: true
server:
  addr: "127.0.0.1:9000"
`)
		if err := os.WriteFile(path, data, 0644); err != nil {
			t.Fatal(err)
		}

		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}

		if cfg.Engine.DebounceMs != 250 {
			t.Errorf("DebounceMs = %d, want 250", cfg.Engine.DebounceMs)
		}
		if cfg.Engine.Alpha != 0.3 {
			t.Errorf("Alpha = %f, want 0.3", cfg.Engine.Alpha)
		}
		if !cfg.Tracker.SwapHandedness {
			t.Error("SwapHandedness = false, want true")
		}
		if cfg.Server.Addr != "127.0.0.1:9000" {
			t.Errorf("Addr = %q, want 127.0.0.1:9000", cfg.Server.Addr)
		}
		// untouched keys keep defaults
		if cfg.Engine.ScaleMax != 2.0 {
			t.Errorf("ScaleMax = %f, want 2.0", cfg.Engine.ScaleMax)
		}
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		os.WriteFile(path, []byte("engine: [1, 2"), 0644)

		if _, err := Load(path); err == nil {
			t.Error("expected parse error")
		}
	})

	t.Run("invalid value", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		os.WriteFile(path, []byte("engine:\n  alpha: 1.5\n"), 0644)

		_, err := Load(path)
		if !errors.Is(err, ErrInvalid) {
			t.Errorf("Load() error = %v, want ErrInvalid", err)
		}
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero camera fps", func(c *Config) { c.Camera.FPS = 0 }},
		{"three hands", func(c *Config) { c.Tracker.MaxHands = 3 }},
		{"zero span", func(c *Config) { c.Engine.Span = 0 }},
		{"negative radius", func(c *Config) { c.Engine.BaseRadius = -1 }},
		{"zero margin", func(c *Config) { c.Engine.HitMargin = 0 }},
		{"negative debounce", func(c *Config) { c.Engine.DebounceMs = -1 }},
		{"inverted pinch range", func(c *Config) { c.Engine.PinchMin, c.Engine.PinchMax = 0.3, 0.1 }},
		{"inverted scale range", func(c *Config) { c.Engine.ScaleMin, c.Engine.ScaleMax = 3, 1 }},
		{"alpha zero", func(c *Config) { c.Engine.Alpha = 0 }},
		{"alpha one", func(c *Config) { c.Engine.Alpha = 1 }},
		{"zero render fps", func(c *Config) { c.Render.FPS = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)

			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("Validate() error = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestParse_MarshalRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Engine.DebounceMs = 750
	cfg.Tracker.SwapHandedness = true

	data, err := cfg.Marshal()
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	got, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got != cfg {
		t.Errorf("Parse(Marshal()) = %+v, want %+v", got, cfg)
	}
}

func TestParse_Partial(t *testing.T) {
	got, err := Parse([]byte("engine:\n  alpha: 0.3\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	want := Default()
	want.Engine.Alpha = 0.3
	if got != want {
		t.Errorf("Parse() = %+v, want %+v", got, want)
	}
}
