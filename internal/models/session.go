package models

import "time"

// Session is an ephemeral conversation context tied to a student.
// Sessions hold a non-owning reference to the student profile by ID;
// expiring a session never touches the profile.
type Session struct {
	SessionID        string            `json:"session_id"`
	StudentID        string            `json:"student_id"`
	CreatedAt        time.Time         `json:"created_at"`
	LastActivity     time.Time         `json:"last_activity"`
	InteractionCount int64             `json:"interaction_count"`
	CurrentTopic     string            `json:"current_topic,omitempty"`
	AgentContext     map[string]string `json:"agent_context,omitempty"`
}

// Clone returns a copy so registry internals are never exposed to callers.
func (s *Session) Clone() *Session {
	clone := *s
	if s.AgentContext != nil {
		clone.AgentContext = make(map[string]string, len(s.AgentContext))
		for k, v := range s.AgentContext {
			clone.AgentContext[k] = v
		}
	}
	return &clone
}

// SessionUpdate carries a partial update for a session. Nil fields are
// left unchanged; map entries are merged into the agent context.
type SessionUpdate struct {
	CurrentTopic     *string
	InteractionCount *int64
	AgentContext     map[string]string
}
