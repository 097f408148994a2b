package services

import (
	"log"
	"time"

	"campusadvisor/internal/models"
)

// SessionManager ties live sessions to the memory bank. It is the only
// layer that knows both about session state and long-term student
// memory.
type SessionManager struct {
	registry *SessionRegistry
	memory   *MemoryBank
	ttl      time.Duration
}

// NewSessionManager wires the registry and the memory bank together.
func NewSessionManager(registry *SessionRegistry, memory *MemoryBank, ttl time.Duration) *SessionManager {
	return &SessionManager{
		registry: registry,
		memory:   memory,
		ttl:      ttl,
	}
}

// CreateSession starts a session for the (possibly empty) student ID
// and warms the student's long-term context so the first query already
// has a profile to draw on. The warm is read-only; nothing is recorded
// in the interaction history.
func (m *SessionManager) CreateSession(studentID string) *models.Session {
	session := m.registry.Create(studentID)

	studentCtx := m.memory.GetStudentContext(session.StudentID)
	log.Printf("🎓 [SESSION] Warmed context for %s: %s", session.StudentID, studentCtx.ContextSummary)

	return session
}

// GetSession returns the session, refreshing its activity, or nil when
// unknown or expired.
func (m *SessionManager) GetSession(sessionID string) *models.Session {
	return m.registry.Get(sessionID)
}

// RecordInteraction stores an interaction against the session's
// student and bumps the session. An unknown session ID is a no-op; the
// session may simply have expired mid-conversation.
func (m *SessionManager) RecordInteraction(sessionID, query, response, topic string) {
	session := m.registry.Get(sessionID)
	if session == nil {
		log.Printf("⚠️ [SESSION] Interaction for unknown session %s dropped", sessionID)
		return
	}

	m.registry.Touch(sessionID)
	if topic != "" {
		m.registry.Update(sessionID, models.SessionUpdate{CurrentTopic: &topic})
	} else if session.CurrentTopic != "" {
		topic = session.CurrentTopic
	} else {
		topic = "general"
	}

	m.memory.RecordInteraction(session.StudentID, models.InteractionTypeQuery, query,
		map[string]string{
			"session_id":     sessionID,
			"agent_response": response,
			"topic":          topic,
		})
}

// StudentContext returns the long-term context for the session's
// student, or nil when the session is unknown.
func (m *SessionManager) StudentContext(sessionID string) *models.StudentContext {
	session := m.registry.Get(sessionID)
	if session == nil {
		return nil
	}
	return m.memory.GetStudentContext(session.StudentID)
}

// CleanupExpiredSessions sweeps sessions idle longer than the
// configured TTL and returns how many were removed.
func (m *SessionManager) CleanupExpiredSessions() int {
	removed := m.registry.Sweep(m.ttl)
	if removed > 0 {
		log.Printf("🧹 [SESSION] Cleanup removed %d sessions past %s idle", removed, m.ttl)
	}
	return removed
}

// Registry exposes the underlying session registry.
func (m *SessionManager) Registry() *SessionRegistry {
	return m.registry
}

// Memory exposes the underlying memory bank.
func (m *SessionManager) Memory() *MemoryBank {
	return m.memory
}
