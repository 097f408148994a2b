package services

import (
	"strings"
	"testing"
	"time"

	"campusadvisor/internal/models"
)

func TestCreateSessionAnonymous(t *testing.T) {
	r := NewSessionRegistry(nil)

	session := r.Create("")
	if session.StudentID == "" {
		t.Fatalf("expected anonymous student id, got empty")
	}
	if !strings.HasPrefix(session.StudentID, "anonymous_") {
		t.Errorf("expected anonymous_ prefix, got %s", session.StudentID)
	}
	if session.InteractionCount != 0 {
		t.Errorf("expected zero interaction count, got %d", session.InteractionCount)
	}
}

func TestCreateSessionWithStudentID(t *testing.T) {
	r := NewSessionRegistry(nil)

	session := r.Create("student-42")
	if session.StudentID != "student-42" {
		t.Errorf("expected student-42, got %s", session.StudentID)
	}

	got := r.Get(session.SessionID)
	if got == nil {
		t.Fatalf("expected session to be retrievable")
	}
	if got.SessionID != session.SessionID {
		t.Errorf("session id mismatch")
	}
}

func TestGetUnknownSession(t *testing.T) {
	r := NewSessionRegistry(nil)
	if got := r.Get("nope"); got != nil {
		t.Errorf("expected nil for unknown session, got %+v", got)
	}
}

func TestGetRefreshesActivity(t *testing.T) {
	r := NewSessionRegistry(nil)
	session := r.Create("")

	first := r.Get(session.SessionID)
	time.Sleep(5 * time.Millisecond)
	second := r.Get(session.SessionID)

	if !second.LastActivity.After(first.LastActivity) {
		t.Errorf("expected Get to refresh last activity")
	}
}

func TestGetReturnsCopy(t *testing.T) {
	r := NewSessionRegistry(nil)
	session := r.Create("")

	got := r.Get(session.SessionID)
	got.AgentContext["k"] = "v"
	got.CurrentTopic = "mutated"

	fresh := r.Get(session.SessionID)
	if fresh.CurrentTopic == "mutated" {
		t.Errorf("caller mutation leaked into registry")
	}
	if _, ok := fresh.AgentContext["k"]; ok {
		t.Errorf("caller map mutation leaked into registry")
	}
}

func TestUpdateMergesFields(t *testing.T) {
	r := NewSessionRegistry(nil)
	session := r.Create("")

	topic := "academics"
	if !r.Update(session.SessionID, models.SessionUpdate{
		CurrentTopic: &topic,
		AgentContext: map[string]string{"last": "x"},
	}) {
		t.Fatalf("expected update to succeed")
	}

	got := r.Get(session.SessionID)
	if got.CurrentTopic != "academics" {
		t.Errorf("expected topic academics, got %s", got.CurrentTopic)
	}
	if got.AgentContext["last"] != "x" {
		t.Errorf("expected merged agent context")
	}

	// Nil topic leaves the existing value alone
	r.Update(session.SessionID, models.SessionUpdate{AgentContext: map[string]string{"other": "y"}})
	got = r.Get(session.SessionID)
	if got.CurrentTopic != "academics" {
		t.Errorf("nil topic should not clear current topic")
	}
}

func TestSweepZeroTTLEvictsEverything(t *testing.T) {
	r := NewSessionRegistry(nil)
	r.Create("")
	r.Create("student-1")

	time.Sleep(time.Millisecond)
	removed := r.Sweep(0)
	if removed != 2 {
		t.Fatalf("expected sweep(0) to remove 2 sessions, removed %d", removed)
	}
	if r.Count() != 0 {
		t.Errorf("expected empty registry after sweep, got %d", r.Count())
	}
}

func TestSweepKeepsActiveSessions(t *testing.T) {
	r := NewSessionRegistry(nil)
	session := r.Create("")

	removed := r.Sweep(time.Hour)
	if removed != 0 {
		t.Errorf("expected no removals within TTL, removed %d", removed)
	}
	if r.Get(session.SessionID) == nil {
		t.Errorf("expected session to survive sweep")
	}
}
