package app

import (
	"testing"

	"github.com/ayusman/neonorb/internal/detector"
	"github.com/ayusman/neonorb/internal/gesture"
	"github.com/ayusman/neonorb/internal/store"
)

func TestRecorder_FlushesInBatches(t *testing.T) {
	st := newTestStore(t)
	if err := st.Sessions().Create(&store.Session{ID: "s1"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	rec := NewRecorder(st, "s1")

	hand := detector.PinchAt(detector.Right, 0.1)
	for i := 0; i < FlushEvery+3; i++ {
		if err := rec.Frame(gesture.Frame{Hands: []detector.HandLandmarks{hand}, TimestampMs: int64(i * 33)}); err != nil {
			t.Fatalf("Frame(%d) error = %v", i, err)
		}
	}

	if n, _ := st.Frames().Count("s1"); n != FlushEvery {
		t.Errorf("stored before Close = %d, want %d", n, FlushEvery)
	}

	ev := gesture.TriggerEvent{TimestampMs: 66, Previous: gesture.Magenta, Color: gesture.Cyan, Scale: 1.1, Distance: 0.3}
	if err := rec.Trigger(ev); err != nil {
		t.Fatalf("Trigger() error = %v", err)
	}

	if err := rec.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	frames, triggers := rec.Counts()
	if frames != FlushEvery+3 || triggers != 1 {
		t.Errorf("Counts() = %d, %d", frames, triggers)
	}

	stored, err := st.Frames().GetBySessionID("s1")
	if err != nil {
		t.Fatalf("GetBySessionID() error = %v", err)
	}
	if len(stored) != FlushEvery+3 {
		t.Fatalf("stored %d frames, want %d", len(stored), FlushEvery+3)
	}

	back, err := storeFrameToGesture(stored[1])
	if err != nil {
		t.Fatalf("storeFrameToGesture() error = %v", err)
	}
	if back.TimestampMs != 33 || len(back.Hands) != 1 || !back.Hands[0].Complete() {
		t.Errorf("decoded frame = %+v", back)
	}
	if d, ok := back.Hands[0].PinchDistance(); !ok || d < 0.0999 || d > 0.1001 {
		t.Errorf("PinchDistance() = %f, %v after round trip", d, ok)
	}

	events, _ := st.Events().GetBySessionID("s1")
	if len(events) != 1 || events[0].Color != "#00ffff" || events[0].Previous != "#ff00ff" {
		t.Errorf("events = %+v", events)
	}

	sess, _ := st.Sessions().GetByID("s1")
	if sess.Frames != FlushEvery+3 || sess.Triggers != 1 || sess.EndedAt == nil {
		t.Errorf("session = %+v", sess)
	}
}

func TestRecorder_EmptyFrame(t *testing.T) {
	st := newTestStore(t)
	if err := st.Sessions().Create(&store.Session{ID: "s1"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	rec := NewRecorder(st, "s1")

	if err := rec.Frame(gesture.Frame{TimestampMs: 5}); err != nil {
		t.Fatalf("Frame() error = %v", err)
	}
	if err := rec.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	stored, _ := st.Frames().GetBySessionID("s1")
	if len(stored) != 1 || string(stored[0].Hands) != "[]" {
		t.Errorf("stored = %+v, want one frame with no hands", stored)
	}
}
