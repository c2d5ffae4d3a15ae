package app

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/ayusman/neonorb/internal/config"
	"github.com/ayusman/neonorb/internal/detector"
	"github.com/ayusman/neonorb/internal/gesture"
	"github.com/ayusman/neonorb/internal/store"
)

// touchFrames alternates touching and leaving the sphere every 300ms while
// the right hand holds a wide pinch.
func touchFrames(n int) []gesture.Frame {
	control := detector.PinchAt(detector.Right, 0.25)
	touch := detector.PointingLandmarks(detector.Left, detector.Point3D{X: 0.5, Y: 0.5})

	frames := make([]gesture.Frame, n)
	for i := range frames {
		ts := int64(i * 100)
		hands := []detector.HandLandmarks{control}
		if (ts/300)%2 == 0 {
			hands = append(hands, touch)
		}
		frames[i] = gesture.Frame{Hands: hands, TimestampMs: ts}
	}
	return frames
}

func TestReplayFrames_Deterministic(t *testing.T) {
	frames := touchFrames(60)
	params := func() gesture.Params {
		return ParamsFromConfig(config.Default(), gesture.NewRandomPicker(11))
	}

	a := ReplayFrames(params(), frames)
	b := ReplayFrames(params(), frames)

	if a.Frames != 60 {
		t.Errorf("Frames = %d, want 60", a.Frames)
	}
	if len(a.Events) == 0 {
		t.Fatal("expected color changes")
	}
	if len(a.Events) != len(b.Events) || a.Final.Color != b.Final.Color || a.Final.Scale != b.Final.Scale {
		t.Errorf("replays diverged: %+v vs %+v", a.Final, b.Final)
	}
	for i := 1; i < len(a.Events); i++ {
		if gap := a.Events[i].TimestampMs - a.Events[i-1].TimestampMs; gap <= 500 {
			t.Errorf("events %d and %d only %dms apart", i-1, i, gap)
		}
	}
}

func TestReplay_FromStore(t *testing.T) {
	st := newTestStore(t)
	det := detector.NewMockDetector()
	for _, f := range touchFrames(40) {
		det.Queue(f.Hands)
	}

	a, _ := newTestApp(t, st, det)
	if err := a.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	waitFor(t, "recorded frames", func() bool { return a.Snapshot().Seq >= 40 })
	a.SetEnabled(false)
	time.Sleep(20 * time.Millisecond)
	live := a.Snapshot()
	id := a.SessionID()
	a.Stop()

	res, err := Replay(st, id, 0, config.Default())
	if err != nil {
		t.Fatalf("Replay() error = %v", err)
	}
	if res.Seed != 7 {
		t.Errorf("Seed = %d, want the session seed 7", res.Seed)
	}
	if uint64(res.Frames) != live.Seq {
		t.Errorf("replayed %d frames, live processed %d", res.Frames, live.Seq)
	}
	if res.Final.Color != live.Color || res.Final.Triggers != live.Triggers {
		t.Errorf("replay final = %+v, live = %+v", res.Final, live)
	}

	events, _ := st.Events().GetBySessionID(id)
	if len(events) != len(res.Events) {
		t.Errorf("recorded %d events, replay produced %d", len(events), len(res.Events))
	}
}

func TestReplay_UnreadableStoredConfig(t *testing.T) {
	st := newTestStore(t)
	if err := st.Sessions().Create(&store.Session{ID: "s1", Seed: 3, Config: "engine: ["}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	var frames []store.Frame
	for i, f := range touchFrames(10) {
		sf, err := frameToStore("s1", int64(i), f)
		if err != nil {
			t.Fatalf("frameToStore() error = %v", err)
		}
		frames = append(frames, sf)
	}
	if err := st.Frames().Append(frames); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	var logs bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&logs, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	res, err := Replay(st, "s1", 0, config.Default())
	if err != nil {
		t.Fatalf("Replay() error = %v", err)
	}
	if res.Frames != 10 || len(res.Events) == 0 {
		t.Errorf("replay = %d frames, %d events", res.Frames, len(res.Events))
	}
	out := logs.String()
	if !strings.Contains(out, "level=WARN") || !strings.Contains(out, "session=s1") {
		t.Errorf("expected a warning about the stored config, got %q", out)
	}
}

func TestReplay_NotFound(t *testing.T) {
	st := newTestStore(t)

	_, err := Replay(st, "missing", 0, config.Default())
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Replay() error = %v, want ErrNotFound", err)
	}
}
