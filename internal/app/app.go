// Package app wires the camera, hand tracker and gesture engine into the live
// neonorb pipeline and records each session.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"

	"github.com/google/uuid"

	"github.com/ayusman/neonorb/internal/capture"
	"github.com/ayusman/neonorb/internal/config"
	"github.com/ayusman/neonorb/internal/detector"
	"github.com/ayusman/neonorb/internal/gesture"
	"github.com/ayusman/neonorb/internal/render"
	"github.com/ayusman/neonorb/internal/store"
)

// Status strings reported outside of a running session.
const (
	StatusStopped = "stopped"
	StatusPaused  = "paused"
)

// Config holds configuration options for the application.
type Config struct {
	Settings config.Config
	Store    *store.Store // nil disables recording

	// Seed fixes the color sequence. Zero draws a fresh seed per session.
	Seed uint64

	// Optional collaborators; nil selects the real implementations.
	Camera   capture.Camera
	Detector detector.Detector
	Clock    Clock
	Preview  *capture.Preview
	Sink     render.Sink
}

// App is the main application that drives the gesture engine from the camera.
type App struct {
	config   Config
	engine   *gesture.Engine
	picker   *gesture.RandomPicker
	camera   capture.Camera
	detector detector.Detector
	preview  *capture.Preview
	clock    Clock

	mu       sync.RWMutex
	enabled  bool
	err      error
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	recorder *Recorder
	seed     uint64
}

// New creates a new App instance with the given configuration.
func New(config Config) *App {
	picker := gesture.NewRandomPicker(config.Seed)

	a := &App{
		config:   config,
		engine:   gesture.NewEngine(ParamsFromConfig(config.Settings, picker)),
		picker:   picker,
		camera:   config.Camera,
		detector: config.Detector,
		preview:  config.Preview,
		clock:    config.Clock,
	}

	if a.camera == nil {
		a.camera = capture.NewCamera(cameraConfig(config.Settings.Camera))
	}
	if a.preview == nil {
		a.preview = capture.NewPreview()
	}

	a.engine.OnTrigger(func(ev gesture.TriggerEvent) {
		slog.Info("sphere recolored",
			"from", ev.Previous.Hex(),
			"to", ev.Color.Hex(),
			"scale", ev.Scale,
			"t_ms", ev.TimestampMs)
	})

	return a
}

// Start opens the camera and tracker, resets the engine and begins a new
// session. Initialization failures are returned and reflected in Status.
func (a *App) Start(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.cancel != nil {
		return nil
	}
	a.err = nil

	if a.detector == nil {
		mp, err := detector.NewMediaPipeDetector(detectorConfig(a.config.Settings.Tracker))
		if err != nil {
			return a.failLocked(fmt.Errorf("start hand tracker: %w", err))
		}
		a.detector = mp
	}
	if s, ok := a.detector.(detector.Starter); ok {
		if err := s.Start(); err != nil {
			return a.failLocked(fmt.Errorf("start hand tracker: %w", err))
		}
	}

	if err := a.camera.Open(); err != nil {
		if cerr := a.detector.Close(); cerr != nil {
			slog.Warn("close hand tracker", "error", cerr)
		}
		return a.failLocked(fmt.Errorf("start camera: %w", err))
	}

	a.seed = a.config.Seed
	if a.seed == 0 {
		a.seed = rand.Uint64()
	}
	a.picker.Reseed(a.seed)
	a.engine.Reset()

	if a.config.Clock == nil {
		a.clock = NewMonotonicClock()
	}

	a.recorder = a.openRecorderLocked()

	ctx, cancel := context.WithCancel(ctx)
	a.cancel = cancel
	a.enabled = true

	rec := a.recorder
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.runPipeline(ctx, rec)
	}()

	if a.config.Sink != nil {
		e := a.config.Settings.Engine
		loop := render.NewLoop(a, a.config.Sink, e.BaseRadius, a.config.Settings.Render.FPS)
		a.wg.Add(1)
		go func() {
			defer a.wg.Done()
			loop.Run(ctx)
		}()
	}

	slog.Info("pipeline started",
		"session", a.sessionIDLocked(),
		"seed", a.seed,
		"fps", a.camera.FPS(),
		"debounce", a.config.Settings.Engine.Debounce(),
	)
	return nil
}

// Stop halts the pipeline and render loop, releases the camera and tracker
// and ends the session.
func (a *App) Stop() {
	a.mu.Lock()
	cancel := a.cancel
	rec := a.recorder
	a.cancel = nil
	a.recorder = nil
	a.enabled = false
	a.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	a.wg.Wait()

	if err := a.camera.Close(); err != nil {
		slog.Warn("close camera", "error", err)
	}
	if a.detector != nil {
		if err := a.detector.Close(); err != nil {
			slog.Warn("close hand tracker", "error", err)
		}
	}
	if rec != nil {
		if err := rec.Close(); err != nil {
			slog.Warn("end session", "session", rec.SessionID(), "error", err)
		}
		frames, triggers := rec.Counts()
		slog.Info("session ended", "session", rec.SessionID(), "frames", frames, "triggers", triggers)
	}

	slog.Info("pipeline stopped")
}

// SetEnabled pauses or resumes frame processing without ending the session.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled returns whether frames are being processed.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// Running reports whether a session is active.
func (a *App) Running() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.cancel != nil
}

// Status returns the user-facing status line.
func (a *App) Status() string {
	a.mu.RLock()
	defer a.mu.RUnlock()

	switch {
	case a.err != nil:
		return "Error: " + a.err.Error()
	case a.cancel == nil:
		return StatusStopped
	case !a.enabled:
		return StatusPaused
	}
	return a.engine.Snapshot().Status
}

// Err returns the last initialization failure, if any.
func (a *App) Err() error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.err
}

// Snapshot returns the engine's latest published view.
func (a *App) Snapshot() gesture.Snapshot {
	return a.engine.Snapshot()
}

// SessionID returns the recording session ID, or "" when not recording.
func (a *App) SessionID() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.sessionIDLocked()
}

// Seed returns the color seed of the current or last session.
func (a *App) Seed() uint64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.seed
}

// Preview returns the latest-frame buffer fed by the pipeline.
func (a *App) Preview() *capture.Preview {
	return a.preview
}

// fail records a tracker failure during a session; Status reports it until
// the next Start.
func (a *App) fail(err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.err = err
	slog.Error("pipeline stopped tracking", "error", err)
}

func (a *App) failLocked(err error) error {
	a.err = err
	slog.Error("pipeline failed to start", "error", err)
	return err
}

func (a *App) sessionIDLocked() string {
	if a.recorder == nil {
		return ""
	}
	return a.recorder.SessionID()
}

// openRecorderLocked creates the session row. Recording failures never stop
// the live pipeline.
func (a *App) openRecorderLocked() *Recorder {
	if a.config.Store == nil || !a.config.Settings.Store.Record {
		return nil
	}

	cfg, err := a.config.Settings.Marshal()
	if err != nil {
		slog.Warn("encode session config", "error", err)
	}

	sess := &store.Session{
		ID:     uuid.New().String(),
		Seed:   a.seed,
		Config: string(cfg),
	}
	if err := a.config.Store.Sessions().Create(sess); err != nil {
		slog.Warn("recording disabled", "error", err)
		return nil
	}
	return NewRecorder(a.config.Store, sess.ID)
}
