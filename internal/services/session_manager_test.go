package services

import (
	"testing"
	"time"
)

func newTestSessionManager(t *testing.T, ttl time.Duration) *SessionManager {
	t.Helper()
	memory := NewMemoryBank(t.TempDir(), 100, nil)
	return NewSessionManager(NewSessionRegistry(nil), memory, ttl)
}

func TestCreateSessionWarmsContext(t *testing.T) {
	m := newTestSessionManager(t, time.Hour)

	session := m.CreateSession("student-1")
	if session.SessionID == "" {
		t.Fatalf("expected a session id")
	}
	if m.Memory().Profiles().Get("student-1") == nil {
		t.Errorf("expected a profile to exist after session creation")
	}

	// The warm is read-only: no history record is written
	if got := m.Memory().InteractionCount("student-1"); got != 0 {
		t.Errorf("expected empty interaction history after session creation, got %d", got)
	}
}

func TestCreateSessionKeepsStudentFresh(t *testing.T) {
	m := newTestSessionManager(t, time.Hour)

	m.CreateSession("fresh-student")

	ctx := m.Memory().GetStudentContext("fresh-student")
	if ctx.ContextSummary != "New student interaction" {
		t.Errorf("expected 'New student interaction' for a brand-new student, got %q", ctx.ContextSummary)
	}
	if len(ctx.RecentInteractions) != 0 {
		t.Errorf("expected no interactions after session creation, got %d", len(ctx.RecentInteractions))
	}
}

func TestRecordInteractionUnknownSessionIsNoop(t *testing.T) {
	m := newTestSessionManager(t, time.Hour)

	// Must not panic or create anything
	m.RecordInteraction("no-such-session", "query", "response", "general")

	if count := m.Memory().Profiles().Count(); count != 0 {
		t.Errorf("expected no profiles after dropped interaction, got %d", count)
	}
}

func TestRecordInteractionBumpsSession(t *testing.T) {
	m := newTestSessionManager(t, time.Hour)
	session := m.CreateSession("student-1")

	m.RecordInteraction(session.SessionID, "how do I apply", "see admissions", "admissions")

	got := m.GetSession(session.SessionID)
	if got.InteractionCount != 1 {
		t.Errorf("expected session interaction count 1, got %d", got.InteractionCount)
	}
	if got.CurrentTopic != "admissions" {
		t.Errorf("expected current topic admissions, got %s", got.CurrentTopic)
	}

	recent := m.Memory().RecentInteractions("student-1", 0)
	last := recent[len(recent)-1]
	if last.Metadata["agent_response"] != "see admissions" {
		t.Errorf("expected agent response in metadata, got %v", last.Metadata)
	}
	if last.Metadata["topic"] != "admissions" {
		t.Errorf("expected topic in metadata, got %v", last.Metadata)
	}
}

func TestRecordInteractionTopicFallback(t *testing.T) {
	m := newTestSessionManager(t, time.Hour)
	session := m.CreateSession("student-1")

	m.RecordInteraction(session.SessionID, "hello", "hi", "")

	recent := m.Memory().RecentInteractions("student-1", 0)
	last := recent[len(recent)-1]
	if last.Metadata["topic"] != "general" {
		t.Errorf("expected topic to default to general, got %q", last.Metadata["topic"])
	}
}

func TestCleanupExpiredSessions(t *testing.T) {
	m := newTestSessionManager(t, 0)
	m.CreateSession("")
	m.CreateSession("student-1")

	time.Sleep(time.Millisecond)
	if removed := m.CleanupExpiredSessions(); removed != 2 {
		t.Errorf("expected 2 sessions removed, got %d", removed)
	}

	// Profiles survive session expiry
	if m.Memory().Profiles().Get("student-1") == nil {
		t.Errorf("expected profile to outlive its session")
	}
}
