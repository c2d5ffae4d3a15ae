package capture

import (
	"errors"
	"testing"
)

func TestNewCamera_Defaults(t *testing.T) {
	tests := []struct {
		name   string
		config Config
		want   Config
	}{
		{"zero config", Config{}, DefaultConfig()},
		{"second device at 15fps", Config{DeviceID: 1, FPS: 15}, Config{DeviceID: 1, Width: DefaultWidth, Height: DefaultHeight, FPS: 15}},
		{"negative values fall back", Config{Width: -1, Height: -1, FPS: -3}, DefaultConfig()},
		{"custom mode", Config{Width: 1280, Height: 720, FPS: 60}, Config{Width: 1280, Height: 720, FPS: 60}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := NewCamera(tt.config).(*cameraImpl)
			if cam.config != tt.want {
				t.Errorf("config = %+v, want %+v", cam.config, tt.want)
			}
			if cam.IsOpen() {
				t.Error("camera should start closed")
			}
		})
	}
}

func TestCamera_SetFPS(t *testing.T) {
	cam := NewCamera(DefaultConfig())

	steps := []struct {
		set  int
		want int
	}{
		{10, 10},
		{1, 1},
		{0, 1},
		{-5, 1},
		{DefaultFPS, DefaultFPS},
	}

	for _, s := range steps {
		cam.SetFPS(s.set)
		if got := cam.FPS(); got != s.want {
			t.Errorf("after SetFPS(%d): FPS() = %d, want %d", s.set, got, s.want)
		}
	}
}

func TestCamera_Closed(t *testing.T) {
	cam := NewCamera(DefaultConfig())

	if _, err := cam.ReadFrame(); !errors.Is(err, ErrCameraNotOpen) {
		t.Errorf("ReadFrame() error = %v, want ErrCameraNotOpen", err)
	}
	if err := cam.Close(); err != nil {
		t.Errorf("Close() on a closed camera = %v", err)
	}
}

func TestCamera_Webcam(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping webcam test in short mode")
	}

	cam := NewCamera(DefaultConfig())
	if err := cam.Open(); err != nil {
		t.Skipf("no webcam: %v", err)
	}
	defer cam.Close()

	if !cam.IsOpen() {
		t.Fatal("IsOpen() = false after Open()")
	}
	if err := cam.Open(); err != nil {
		t.Errorf("second Open() = %v", err)
	}

	mat, err := cam.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame() error = %v", err)
	}
	defer mat.Close()
	if mat.Empty() {
		t.Error("ReadFrame() returned an empty frame")
	}
	if mat.Cols() != DefaultWidth || mat.Rows() != DefaultHeight {
		t.Logf("camera delivered %dx%d instead of %dx%d", mat.Cols(), mat.Rows(), DefaultWidth, DefaultHeight)
	}

	if err := cam.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if cam.IsOpen() {
		t.Error("IsOpen() = true after Close()")
	}
}
