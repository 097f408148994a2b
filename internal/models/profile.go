package models

import "time"

// History caps for a single student profile. Oldest entries are dropped
// first so the lists always hold the most recent activity.
const (
	MaxQuestionsPerProfile       = 50
	MaxRecommendationsPerProfile = 20
)

// QuestionRecord is one question a student asked, with the specialist
// category it was routed to.
type QuestionRecord struct {
	Question  string    `json:"question"`
	Category  string    `json:"category"`
	Timestamp time.Time `json:"timestamp"`
}

// RecommendationRecord is one recommendation given to a student.
type RecommendationRecord struct {
	Recommendation string    `json:"recommendation"`
	Context        string    `json:"context"`
	Timestamp      time.Time `json:"timestamp"`
}

// StudentProfile is the durable record of one student's interests and
// interaction patterns. Profiles are never deleted; they live for the
// process lifetime and are persisted in the profile snapshot.
type StudentProfile struct {
	StudentID string    `json:"student_id"`
	CreatedAt time.Time `json:"created_at"`
	LastActive time.Time `json:"last_active"`

	// Insertion-deduplicated sets (order preserved)
	Interests      []string `json:"interests"`
	ProgramsViewed []string `json:"programs_viewed"`

	// Capped histories, most recent last
	QuestionsAsked       []QuestionRecord       `json:"questions_asked"`
	RecommendationsGiven []RecommendationRecord `json:"recommendations_given"`

	InteractionCount int64             `json:"interaction_count"`
	Preferences      map[string]string `json:"preferences"`
}

// NewStudentProfile creates a fresh profile for an unseen student ID.
func NewStudentProfile(studentID string) *StudentProfile {
	now := time.Now().UTC()
	return &StudentProfile{
		StudentID:   studentID,
		CreatedAt:   now,
		LastActive:  now,
		Preferences: make(map[string]string),
	}
}

// Touch refreshes the activity timestamp and bumps the interaction counter.
func (p *StudentProfile) Touch() {
	p.LastActive = time.Now().UTC()
	p.InteractionCount++
}

// AddInterest records a student interest, deduplicated by insertion order.
func (p *StudentProfile) AddInterest(interest string) {
	for _, existing := range p.Interests {
		if existing == interest {
			return
		}
	}
	p.Interests = append(p.Interests, interest)
}

// AddProgramView records that the student viewed a program, deduplicated.
func (p *StudentProfile) AddProgramView(program string) {
	for _, existing := range p.ProgramsViewed {
		if existing == program {
			return
		}
	}
	p.ProgramsViewed = append(p.ProgramsViewed, program)
}

// AddQuestion appends a question to the capped history.
func (p *StudentProfile) AddQuestion(question, category string) {
	p.QuestionsAsked = append(p.QuestionsAsked, QuestionRecord{
		Question:  question,
		Category:  category,
		Timestamp: time.Now().UTC(),
	})
	if len(p.QuestionsAsked) > MaxQuestionsPerProfile {
		p.QuestionsAsked = p.QuestionsAsked[len(p.QuestionsAsked)-MaxQuestionsPerProfile:]
	}
}

// AddRecommendation appends a recommendation to the capped history.
func (p *StudentProfile) AddRecommendation(recommendation, context string) {
	p.RecommendationsGiven = append(p.RecommendationsGiven, RecommendationRecord{
		Recommendation: recommendation,
		Context:        context,
		Timestamp:      time.Now().UTC(),
	})
	if len(p.RecommendationsGiven) > MaxRecommendationsPerProfile {
		p.RecommendationsGiven = p.RecommendationsGiven[len(p.RecommendationsGiven)-MaxRecommendationsPerProfile:]
	}
}

// Clone returns a deep copy so callers can never mutate store internals.
func (p *StudentProfile) Clone() *StudentProfile {
	clone := *p
	clone.Interests = append([]string(nil), p.Interests...)
	clone.ProgramsViewed = append([]string(nil), p.ProgramsViewed...)
	clone.QuestionsAsked = append([]QuestionRecord(nil), p.QuestionsAsked...)
	clone.RecommendationsGiven = append([]RecommendationRecord(nil), p.RecommendationsGiven...)
	if p.Preferences != nil {
		clone.Preferences = make(map[string]string, len(p.Preferences))
		for k, v := range p.Preferences {
			clone.Preferences[k] = v
		}
	}
	return &clone
}
