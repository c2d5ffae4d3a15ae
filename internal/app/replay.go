package app

import (
	"fmt"
	"log/slog"

	"github.com/ayusman/neonorb/internal/config"
	"github.com/ayusman/neonorb/internal/gesture"
	"github.com/ayusman/neonorb/internal/store"
)

// ReplayResult summarizes a replayed recording.
type ReplayResult struct {
	SessionID string
	Seed      uint64
	Frames    int
	Events    []gesture.TriggerEvent
	Final     gesture.Snapshot
}

// ReplayFrames feeds frames through a fresh engine built from params.
func ReplayFrames(params gesture.Params, frames []gesture.Frame) ReplayResult {
	e := gesture.NewEngine(params)

	var res ReplayResult
	e.OnTrigger(func(ev gesture.TriggerEvent) {
		res.Events = append(res.Events, ev)
	})
	for _, f := range frames {
		e.Process(f)
	}

	res.Frames = len(frames)
	res.Final = e.Snapshot()
	return res
}

// Replay re-runs a recorded session through a fresh engine. The session's
// stored configuration is used when it parses; otherwise fallback applies.
// A zero seed reuses the session's own seed, which reproduces its colors.
func Replay(st *store.Store, sessionID string, seed uint64, fallback config.Config) (ReplayResult, error) {
	sess, err := st.Sessions().GetByID(sessionID)
	if err != nil {
		return ReplayResult{}, fmt.Errorf("replay %s: %w", sessionID, err)
	}

	cfg := fallback
	if sess.Config != "" {
		parsed, err := config.Parse([]byte(sess.Config))
		if err != nil {
			slog.Warn("stored session config unreadable, replaying with current config",
				"session", sessionID, "error", err)
		} else {
			cfg = parsed
		}
	}

	if seed == 0 {
		seed = sess.Seed
	}

	recorded, err := st.Frames().GetBySessionID(sessionID)
	if err != nil {
		return ReplayResult{}, fmt.Errorf("replay %s: %w", sessionID, err)
	}

	frames := make([]gesture.Frame, 0, len(recorded))
	for _, r := range recorded {
		f, err := storeFrameToGesture(r)
		if err != nil {
			return ReplayResult{}, fmt.Errorf("replay %s: %w", sessionID, err)
		}
		frames = append(frames, f)
	}

	res := ReplayFrames(ParamsFromConfig(cfg, gesture.NewRandomPicker(seed)), frames)
	res.SessionID = sessionID
	res.Seed = seed
	return res, nil
}
