package app

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/ayusman/neonorb/internal/detector"
	"github.com/ayusman/neonorb/internal/gesture"
)

// runPipeline is the tracker loop. Each tick it reads a camera frame, runs
// the hand tracker and feeds the result to the engine. It is the only caller
// of Engine.Process, so frames never overlap. It returns early once the
// tracker has stopped for good.
func (a *App) runPipeline(ctx context.Context, rec *Recorder) {
	fps := a.camera.FPS()
	if fps <= 0 {
		fps = a.config.Settings.Camera.FPS
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !a.IsEnabled() {
				continue
			}
			a.processFrame(rec)
			if a.Err() != nil {
				return
			}
		}
	}
}

// processFrame runs one capture, track and engine step. A failed read or
// detection skips the frame without touching the engine.
func (a *App) processFrame(rec *Recorder) (gesture.Result, bool) {
	frame, err := a.camera.ReadFrame()
	if err != nil {
		slog.Warn("read frame", "error", err)
		return gesture.Result{}, false
	}
	defer frame.Close()

	now := a.clock.NowMs()

	if err := a.preview.Publish(frame); err != nil {
		slog.Debug("preview", "error", err)
	}

	hands, err := a.detector.Detect(frame)
	if errors.Is(err, detector.ErrTrackerStopped) {
		a.fail(err)
		return gesture.Result{}, false
	}
	if err != nil {
		slog.Warn("detect hands", "error", err)
		return gesture.Result{}, false
	}

	f := gesture.Frame{Hands: hands, TimestampMs: now}
	res := a.engine.Process(f)

	if rec != nil {
		if err := rec.Frame(f); err != nil {
			slog.Warn("record frame", "session", rec.SessionID(), "error", err)
		}
		if res.Event != nil {
			if err := rec.Trigger(*res.Event); err != nil {
				slog.Warn("record trigger", "session", rec.SessionID(), "error", err)
			}
		}
	}

	return res, true
}
