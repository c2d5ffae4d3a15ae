package store

import (
	"encoding/json"
	"testing"
	"time"
)

func TestSessionRepository_CreateAndGet(t *testing.T) {
	s := newTestStore(t)
	repo := s.Sessions()

	sess := &Session{ID: "session-1", Seed: 42, Config: "engine:\n  alpha: 0.15\n"}
	if err := repo.Create(sess); err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	if sess.StartedAt.IsZero() {
		t.Error("StartedAt should be set after create")
	}

	got, err := repo.GetByID("session-1")
	if err != nil {
		t.Fatalf("failed to get session: %v", err)
	}
	if got.Seed != 42 || got.Config != sess.Config {
		t.Errorf("GetByID() = %+v, want seed 42 and stored config", got)
	}
	if got.EndedAt != nil {
		t.Error("EndedAt should be nil before End")
	}
}

func TestSessionRepository_End(t *testing.T) {
	s := newTestStore(t)
	repo := s.Sessions()

	if err := repo.Create(&Session{ID: "session-1"}); err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	if err := repo.End("session-1", 120, 3); err != nil {
		t.Fatalf("End() error = %v", err)
	}

	got, err := repo.GetByID("session-1")
	if err != nil {
		t.Fatalf("failed to get session: %v", err)
	}
	if got.EndedAt == nil {
		t.Fatal("EndedAt should be set after End")
	}
	if got.Frames != 120 || got.Triggers != 3 {
		t.Errorf("counters = %d/%d, want 120/3", got.Frames, got.Triggers)
	}

	if err := repo.End("missing", 0, 0); err != ErrNotFound {
		t.Errorf("End(missing) error = %v, want ErrNotFound", err)
	}
}

func TestSessionRepository_List(t *testing.T) {
	s := newTestStore(t)
	repo := s.Sessions()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		sess := &Session{ID: id, StartedAt: base.Add(time.Duration(i) * time.Minute)}
		if err := repo.Create(sess); err != nil {
			t.Fatalf("failed to create session %s: %v", id, err)
		}
	}

	sessions, err := repo.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(sessions) != 3 {
		t.Fatalf("List() returned %d sessions, want 3", len(sessions))
	}
	if sessions[0].ID != "c" || sessions[2].ID != "a" {
		t.Errorf("List() order = %s,%s,%s, want newest first", sessions[0].ID, sessions[1].ID, sessions[2].ID)
	}
}

func TestSessionRepository_List_Empty(t *testing.T) {
	s := newTestStore(t)

	sessions, err := s.Sessions().List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(sessions) != 0 {
		t.Errorf("List() returned %d sessions, want 0", len(sessions))
	}
}

func TestSessionRepository_DeleteCascades(t *testing.T) {
	s := newTestStore(t)

	if err := s.Sessions().Create(&Session{ID: "session-1"}); err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	frames := []Frame{
		{SessionID: "session-1", Seq: 1, TimestampMs: 0, Hands: json.RawMessage(`[]`)},
		{SessionID: "session-1", Seq: 2, TimestampMs: 33, Hands: json.RawMessage(`[]`)},
	}
	if err := s.Frames().Append(frames); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	ev := &TriggerEvent{SessionID: "session-1", TimestampMs: 33, Previous: "#ff00ff", Color: "#00ffff", Scale: 1, Distance: 0.5}
	if err := s.Events().Create(ev); err != nil {
		t.Fatalf("failed to create event: %v", err)
	}

	if err := s.Sessions().Delete("session-1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if _, err := s.Sessions().GetByID("session-1"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound after delete, got: %v", err)
	}
	if n, _ := s.Frames().Count("session-1"); n != 0 {
		t.Errorf("frames left after delete = %d, want 0", n)
	}
	events, err := s.Events().GetBySessionID("session-1")
	if err != nil {
		t.Fatalf("GetBySessionID() error = %v", err)
	}
	if len(events) != 0 {
		t.Errorf("events left after delete = %d, want 0", len(events))
	}
}

func TestSessionRepository_Delete_NotFound(t *testing.T) {
	s := newTestStore(t)

	if err := s.Sessions().Delete("non-existent-id"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound for non-existent session, got: %v", err)
	}
}

func TestSessionRepository_GetByID_NotFound(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Sessions().GetByID("non-existent-id"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got: %v", err)
	}
}
