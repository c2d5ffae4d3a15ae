// Package render animates the sphere over the engine's published snapshots
// and hands the resulting frames to a display sink.
package render

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/ayusman/neonorb/internal/detector"
	"github.com/ayusman/neonorb/internal/gesture"
)

// Animation constants.
const (
	DefaultFPS = 60

	// per-tick rotation in radians
	RotationStepX = 0.003
	RotationStepY = 0.008

	WireframeColor = "#ffffff"
)

// Frame is everything a renderer needs to draw one picture.
type Frame struct {
	Tick      uint64                   `json:"tick"`
	Seq       uint64                   `json:"seq"`
	Scale     float64                  `json:"scale"`
	Radius    float64                  `json:"radius"`
	Color     string                   `json:"color"`
	Wireframe string                   `json:"wireframe"`
	Opacity   float64                  `json:"opacity"`
	RotationX float64                  `json:"rotationX"`
	RotationY float64                  `json:"rotationY"`
	Status    string                   `json:"status"`
	Hit       bool                     `json:"hit"`
	Hands     []detector.HandLandmarks `json:"hands"`
}

// Source publishes engine snapshots and the status line shown to the user.
// Status differs from the snapshot's own status while tracking is paused,
// stopped or failed.
type Source interface {
	Snapshot() gesture.Snapshot
	Status() string
}

// Sink receives rendered frames. Render must not block for long; it runs on
// the animation ticker.
type Sink interface {
	Render(Frame)
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(Frame)

func (f SinkFunc) Render(fr Frame) { f(fr) }

// Opacity is the translucent body's pulse at t seconds, between 0.48 and 0.5.
func Opacity(t float64) float64 {
	pulse := 0.1*math.Sin(2*t) + 0.9
	return 0.4 + 0.1*pulse
}

// Animator accumulates rotation across ticks.
type Animator struct {
	BaseRadius float64

	tick uint64
	rotX float64
	rotY float64
}

// NewAnimator returns an animator for a sphere of the given unscaled radius.
func NewAnimator(baseRadius float64) *Animator {
	return &Animator{BaseRadius: baseRadius}
}

// Next advances one tick and composes the frame for snap at elapsed time.
func (a *Animator) Next(snap gesture.Snapshot, elapsed time.Duration) Frame {
	a.tick++
	a.rotX += RotationStepX
	a.rotY += RotationStepY

	return Frame{
		Tick:      a.tick,
		Seq:       snap.Seq,
		Scale:     snap.Scale,
		Radius:    a.BaseRadius * snap.Scale,
		Color:     snap.Color.Hex(),
		Wireframe: WireframeColor,
		Opacity:   Opacity(elapsed.Seconds()),
		RotationX: a.rotX,
		RotationY: a.rotY,
		Status:    snap.Status,
		Hit:       snap.Hit,
		Hands:     snap.Hands,
	}
}

// Loop drives an Animator from a ticker.
type Loop struct {
	source   Source
	sink     Sink
	animator *Animator
	interval time.Duration
}

// NewLoop creates a render loop at fps frames per second. fps <= 0 uses DefaultFPS.
func NewLoop(source Source, sink Sink, baseRadius float64, fps int) *Loop {
	if fps <= 0 {
		fps = DefaultFPS
	}
	return &Loop{
		source:   source,
		sink:     sink,
		animator: NewAnimator(baseRadius),
		interval: time.Second / time.Duration(fps),
	}
}

// Interval returns the time between frames.
func (l *Loop) Interval() time.Duration {
	return l.interval
}

// Run renders until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) {
	ticker := time.NewTicker(l.Interval())
	defer ticker.Stop()

	start := time.Now()
	slog.Debug("render loop started", "interval", l.interval)

	for {
		select {
		case <-ctx.Done():
			slog.Debug("render loop stopped", "ticks", l.animator.tick)
			return
		case <-ticker.C:
			l.sink.Render(l.frame(time.Since(start)))
		}
	}
}

// frame composes the next frame. When the source's status overrides the
// tracker's, the last tracked hands are stale and are not drawn.
func (l *Loop) frame(elapsed time.Duration) Frame {
	snap := l.source.Snapshot()
	f := l.animator.Next(snap, elapsed)
	if status := l.source.Status(); status != snap.Status {
		f.Status = status
		f.Hands = nil
	}
	return f
}
