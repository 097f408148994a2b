package services

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"campusadvisor/internal/models"
)

// MemoryBank is the long-term store for student profiles and their
// interaction history. Everything lives in memory; JSON snapshots on
// disk exist only to survive restarts.
type MemoryBank struct {
	profiles *ProfileStore

	mu               sync.RWMutex
	interactions     map[string][]models.InteractionRecord
	interactionsPath string

	counterMu     sync.Mutex
	sinceSnapshot int

	snapshotEvery int
	metrics       *Metrics
}

// NewMemoryBank creates a memory bank rooted at dir, loading any
// existing snapshots. snapshotEvery controls how many recorded
// interactions pass between automatic snapshots.
func NewMemoryBank(dir string, snapshotEvery int, metrics *Metrics) *MemoryBank {
	if snapshotEvery <= 0 {
		snapshotEvery = 10
	}
	b := &MemoryBank{
		profiles:         NewProfileStore(dir, metrics),
		interactions:     make(map[string][]models.InteractionRecord),
		interactionsPath: filepath.Join(dir, "interactions.json"),
		snapshotEvery:    snapshotEvery,
		metrics:          metrics,
	}
	b.loadInteractions()
	return b
}

func (b *MemoryBank) loadInteractions() {
	data, err := os.ReadFile(b.interactionsPath)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("⚠️ [MEMORY] Failed to read interaction snapshot %s: %v", b.interactionsPath, err)
		}
		return
	}

	var interactions map[string][]models.InteractionRecord
	if err := json.Unmarshal(data, &interactions); err != nil {
		log.Printf("⚠️ [MEMORY] Corrupt interaction snapshot %s, starting empty: %v", b.interactionsPath, err)
		return
	}

	b.interactions = interactions
	log.Printf("📚 [MEMORY] Loaded interaction history for %d students from %s", len(interactions), b.interactionsPath)
}

// Profiles exposes the underlying profile store.
func (b *MemoryBank) Profiles() *ProfileStore {
	return b.profiles
}

// RecordInteraction stores a single interaction for the student and
// updates their profile. History is capped per student, dropping the
// oldest records first. Every Nth recorded interaction across all
// students triggers a snapshot.
func (b *MemoryBank) RecordInteraction(studentID, interactionType, content string, metadata map[string]string) {
	record := models.InteractionRecord{
		Timestamp: time.Now().UTC(),
		Type:      interactionType,
		Content:   content,
		Metadata:  metadata,
	}

	b.mu.Lock()
	history := append(b.interactions[studentID], record)
	if len(history) > models.MaxInteractionsPerStudent {
		history = history[len(history)-models.MaxInteractionsPerStudent:]
	}
	b.interactions[studentID] = history
	b.mu.Unlock()

	b.profiles.Mutate(studentID, func(p *models.StudentProfile) {
		p.Touch()
		if interactionType == models.InteractionTypeQuery || interactionType == models.InteractionTypeRouting {
			category := "general"
			if metadata != nil && metadata["topic"] != "" {
				category = metadata["topic"]
			}
			p.AddQuestion(content, category)
		}
	})

	if b.metrics != nil {
		b.metrics.InteractionsStored.Inc()
	}

	b.counterMu.Lock()
	b.sinceSnapshot++
	flush := b.sinceSnapshot >= b.snapshotEvery
	if flush {
		b.sinceSnapshot = 0
	}
	b.counterMu.Unlock()

	if flush {
		b.Flush()
	}
}

// AddInterest records a topic of interest on the student's profile.
func (b *MemoryBank) AddInterest(studentID, interest string) {
	b.profiles.Mutate(studentID, func(p *models.StudentProfile) {
		p.AddInterest(interest)
	})
}

// AddProgramView records that the student looked at a program.
func (b *MemoryBank) AddProgramView(studentID, program string) {
	b.profiles.Mutate(studentID, func(p *models.StudentProfile) {
		p.AddProgramView(program)
	})
}

// AddRecommendation records a recommendation given to the student.
func (b *MemoryBank) AddRecommendation(studentID, recommendation, context string) {
	b.profiles.Mutate(studentID, func(p *models.StudentProfile) {
		p.AddRecommendation(recommendation, context)
	})
}

// RecentInteractions returns up to limit of the student's most recent
// interactions, oldest first.
func (b *MemoryBank) RecentInteractions(studentID string, limit int) []models.InteractionRecord {
	b.mu.RLock()
	defer b.mu.RUnlock()

	history := b.interactions[studentID]
	if limit > 0 && len(history) > limit {
		history = history[len(history)-limit:]
	}
	out := make([]models.InteractionRecord, len(history))
	copy(out, history)
	return out
}

// GetStudentContext assembles the profile, recent interactions and a
// one-line summary for prompt construction. Unknown students get a
// fresh profile so the caller never has to special-case first contact,
// and every fetch counts as student activity.
func (b *MemoryBank) GetStudentContext(studentID string) *models.StudentContext {
	profile := b.profiles.GetOrCreate(studentID)
	recent := b.RecentInteractions(studentID, 10)

	return &models.StudentContext{
		Profile:            profile,
		RecentInteractions: recent,
		ContextSummary:     buildContextSummary(profile, recent),
	}
}

// buildContextSummary condenses the profile into a single line fed into
// specialist prompts.
func buildContextSummary(profile *models.StudentProfile, recent []models.InteractionRecord) string {
	var parts []string

	if len(profile.Interests) > 0 {
		interests := profile.Interests
		if len(interests) > 3 {
			interests = interests[:3]
		}
		parts = append(parts, "Student interests: "+strings.Join(interests, ", "))
	}

	if len(profile.ProgramsViewed) > 0 {
		programs := profile.ProgramsViewed
		if len(programs) > 3 {
			programs = programs[len(programs)-3:]
		}
		parts = append(parts, "Programs viewed: "+strings.Join(programs, ", "))
	}

	if len(recent) > 0 {
		last := recent
		if len(last) > 3 {
			last = last[len(last)-3:]
		}
		topics := make([]string, 0, len(last))
		for _, r := range last {
			topic := "general"
			if r.Metadata != nil && r.Metadata["topic"] != "" {
				topic = r.Metadata["topic"]
			}
			topics = append(topics, topic)
		}
		parts = append(parts, "Recent topics: "+strings.Join(topics, ", "))
	}

	if len(parts) == 0 {
		return "New student interaction"
	}
	return strings.Join(parts, "; ")
}

// InteractionCount returns how many interactions are held for the
// student.
func (b *MemoryBank) InteractionCount(studentID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.interactions[studentID])
}

// Flush snapshots profiles and interaction history to disk. Failures
// are logged, never propagated.
func (b *MemoryBank) Flush() {
	b.profiles.Snapshot()

	b.mu.RLock()
	copies := make(map[string][]models.InteractionRecord, len(b.interactions))
	for id, history := range b.interactions {
		dup := make([]models.InteractionRecord, len(history))
		copy(dup, history)
		copies[id] = dup
	}
	b.mu.RUnlock()

	if err := writeSnapshot(b.interactionsPath, copies); err != nil {
		log.Printf("⚠️ [MEMORY] Interaction snapshot failed: %v", err)
		if b.metrics != nil {
			b.metrics.SnapshotFailures.Inc()
		}
		return
	}
	if b.metrics != nil {
		b.metrics.SnapshotWrites.Inc()
	}
}
