package services

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"campusadvisor/internal/models"
)

// SessionRegistry tracks live advisory sessions in memory. Sessions are
// never persisted; a restart drops them all, which is fine because the
// memory bank keeps everything durable about the student.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*models.Session
	metrics  *Metrics
}

// NewSessionRegistry creates an empty registry.
func NewSessionRegistry(metrics *Metrics) *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[string]*models.Session),
		metrics:  metrics,
	}
}

// Create starts a new session. When studentID is empty an anonymous
// identity is derived from the session ID so memory accrues even for
// students who never identify themselves.
func (r *SessionRegistry) Create(studentID string) *models.Session {
	sessionID := uuid.NewString()
	if studentID == "" {
		studentID = "anonymous_" + sessionID[:8]
	}

	now := time.Now().UTC()
	session := &models.Session{
		SessionID:    sessionID,
		StudentID:    studentID,
		CreatedAt:    now,
		LastActivity: now,
		AgentContext: make(map[string]string),
	}

	r.mu.Lock()
	r.sessions[sessionID] = session
	r.mu.Unlock()

	if r.metrics != nil {
		r.metrics.SessionsCreated.Inc()
	}
	log.Printf("🆕 [SESSION] Created session %s for student %s", sessionID, studentID)
	return session.Clone()
}

// Get returns a copy of the session and refreshes its activity
// timestamp, or nil when the session is unknown.
func (r *SessionRegistry) Get(sessionID string) *models.Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[sessionID]
	if !ok {
		return nil
	}
	session.LastActivity = time.Now().UTC()
	return session.Clone()
}

// Update applies the non-nil fields of upd to the session and refreshes
// its activity timestamp. Returns false when the session is unknown.
func (r *SessionRegistry) Update(sessionID string, upd models.SessionUpdate) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[sessionID]
	if !ok {
		return false
	}

	if upd.CurrentTopic != nil {
		session.CurrentTopic = *upd.CurrentTopic
	}
	if upd.InteractionCount != nil {
		session.InteractionCount = *upd.InteractionCount
	}
	for k, v := range upd.AgentContext {
		session.AgentContext[k] = v
	}
	session.LastActivity = time.Now().UTC()
	return true
}

// Touch bumps the session's interaction count and activity timestamp.
// Returns the new count, or -1 when the session is unknown.
func (r *SessionRegistry) Touch(sessionID string) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[sessionID]
	if !ok {
		return -1
	}
	session.InteractionCount++
	session.LastActivity = time.Now().UTC()
	return session.InteractionCount
}

// Count returns the number of live sessions.
func (r *SessionRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Sweep removes every session idle longer than ttl and returns how many
// were removed.
func (r *SessionRegistry) Sweep(ttl time.Duration) int {
	cutoff := time.Now().UTC().Add(-ttl)

	r.mu.Lock()
	removed := 0
	for id, session := range r.sessions {
		if session.LastActivity.Before(cutoff) {
			delete(r.sessions, id)
			removed++
		}
	}
	r.mu.Unlock()

	if removed > 0 {
		if r.metrics != nil {
			r.metrics.SessionsExpired.Add(float64(removed))
		}
		log.Printf("🧹 [SESSION] Swept %d expired sessions", removed)
	}
	return removed
}
