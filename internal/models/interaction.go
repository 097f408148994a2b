package models

import "time"

// MaxInteractionsPerStudent bounds the per-student interaction history.
// Oldest entries are dropped first.
const MaxInteractionsPerStudent = 100

// InteractionRecord is one entry in a student's long-term interaction
// history, owned by the memory bank.
type InteractionRecord struct {
	Timestamp time.Time         `json:"timestamp"`
	Type      string            `json:"type"`
	Content   string            `json:"content"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// Interaction type constants
const (
	InteractionTypeRouting = "routing"
	InteractionTypeQuery   = "multi_agent_query"
)

// StudentContext is the bundle handed to the orchestrator before a
// specialist call: the profile, the tail of the interaction history,
// and a compact deterministic summary string.
type StudentContext struct {
	Profile            *StudentProfile     `json:"profile"`
	RecentInteractions []InteractionRecord `json:"recent_interactions"`
	ContextSummary     string              `json:"context_summary"`
}
