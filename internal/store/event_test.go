package store

import (
	"errors"
	"fmt"
	"testing"
)

func seedSession(t *testing.T, s *Store) *Session {
	t.Helper()
	sess := testSession()
	if err := s.Sessions().Create(sess); err != nil {
		t.Fatalf("seed session: %v", err)
	}
	return sess
}

func TestEventRepository_CreateAndGet(t *testing.T) {
	s := testStore(t)
	sess := seedSession(t, s)

	ev := &Event{
		SessionID:  sess.ID,
		Label:      "PEACE",
		Confidence: 0.95,
		Stability:  0.86,
		Handedness: "Right",
	}
	if err := s.Events().Create(ev); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if ev.ID == 0 {
		t.Error("Create should fill the assigned ID")
	}

	got, err := s.Events().GetByID(ev.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Label != "PEACE" || got.Handedness != "Right" {
		t.Errorf("event = %+v, want PEACE/Right", got)
	}
	if got.Confidence != 0.95 || got.Stability != 0.86 {
		t.Errorf("confidence/stability = %v/%v, want 0.95/0.86", got.Confidence, got.Stability)
	}
}

func TestEventRepository_ForeignKeyEnforced(t *testing.T) {
	s := testStore(t)

	ev := &Event{SessionID: "nonexistent", Label: "ROCK", Confidence: 0.9}
	if err := s.Events().Create(ev); err == nil {
		t.Error("Create with unknown session should fail the foreign key")
	}
}

func TestEventRepository_ListBySession(t *testing.T) {
	s := testStore(t)
	sess := seedSession(t, s)
	other := seedSession(t, s)

	labels := []string{"ROCK", "PAPER", "SCISSORS"}
	for _, l := range labels {
		if err := s.Events().Create(&Event{SessionID: sess.ID, Label: l, Confidence: 0.9}); err != nil {
			t.Fatalf("Create %s: %v", l, err)
		}
	}
	if err := s.Events().Create(&Event{SessionID: other.ID, Label: "OK", Confidence: 0.9}); err != nil {
		t.Fatalf("Create other: %v", err)
	}

	events, err := s.Events().ListBySession(sess.ID)
	if err != nil {
		t.Fatalf("ListBySession: %v", err)
	}
	if len(events) != len(labels) {
		t.Fatalf("got %d events, want %d", len(events), len(labels))
	}
	for i, want := range labels {
		if events[i].Label != want {
			t.Errorf("event %d label = %q, want %q (insertion order)", i, events[i].Label, want)
		}
	}
}

func TestEventRepository_ListRecent(t *testing.T) {
	s := testStore(t)
	sess := seedSession(t, s)

	for i := 0; i < 5; i++ {
		ev := &Event{SessionID: sess.ID, Label: fmt.Sprintf("L%d", i), Confidence: 0.9}
		if err := s.Events().Create(ev); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	events, err := s.Events().ListRecent(3)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}
	if events[0].Label != "L4" {
		t.Errorf("first event = %q, want newest L4", events[0].Label)
	}
}

func TestEventRepository_CountByLabel(t *testing.T) {
	s := testStore(t)
	sess := seedSession(t, s)

	for _, l := range []string{"ROCK", "ROCK", "PAPER"} {
		if err := s.Events().Create(&Event{SessionID: sess.ID, Label: l, Confidence: 0.9}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	counts, err := s.Events().CountByLabel(sess.ID)
	if err != nil {
		t.Fatalf("CountByLabel: %v", err)
	}
	if counts["ROCK"] != 2 || counts["PAPER"] != 1 {
		t.Errorf("counts = %v, want ROCK:2 PAPER:1", counts)
	}
}

func TestEventRepository_GetMissing(t *testing.T) {
	s := testStore(t)
	if _, err := s.Events().GetByID(12345); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID = %v, want ErrNotFound", err)
	}
}
