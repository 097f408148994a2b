package services

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"campusadvisor/internal/models"
)

// ProfileStore holds all student profiles in memory and snapshots them
// to a single JSON file. Memory is the source of truth; the snapshot
// file only seeds the store at startup.
type ProfileStore struct {
	mu       sync.RWMutex
	profiles map[string]*models.StudentProfile
	path     string
	metrics  *Metrics
}

// NewProfileStore creates a store snapshotting to dir/profiles.json and
// loads any existing snapshot. A missing or unreadable snapshot is not
// an error; the store starts empty.
func NewProfileStore(dir string, metrics *Metrics) *ProfileStore {
	s := &ProfileStore{
		profiles: make(map[string]*models.StudentProfile),
		path:     filepath.Join(dir, "profiles.json"),
		metrics:  metrics,
	}
	s.load()
	return s
}

func (s *ProfileStore) load() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("⚠️ [MEMORY] Failed to read profile snapshot %s: %v", s.path, err)
		}
		return
	}

	var profiles map[string]*models.StudentProfile
	if err := json.Unmarshal(data, &profiles); err != nil {
		log.Printf("⚠️ [MEMORY] Corrupt profile snapshot %s, starting empty: %v", s.path, err)
		return
	}

	s.profiles = profiles
	log.Printf("📚 [MEMORY] Loaded %d student profiles from %s", len(profiles), s.path)
}

// GetOrCreate returns a deep copy of the profile for the student,
// creating it on first contact, and always bumps its activity counters.
func (s *ProfileStore) GetOrCreate(studentID string) *models.StudentProfile {
	s.mu.Lock()
	defer s.mu.Unlock()

	profile, ok := s.profiles[studentID]
	if !ok {
		profile = models.NewStudentProfile(studentID)
		s.profiles[studentID] = profile
		if s.metrics != nil {
			s.metrics.NewProfiles.Inc()
		}
		log.Printf("🆕 [MEMORY] Created profile for student %s", studentID)
	}
	profile.Touch()
	return profile.Clone()
}

// Get returns a deep copy of the student's profile, or nil when the
// student is unknown.
func (s *ProfileStore) Get(studentID string) *models.StudentProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()

	profile, ok := s.profiles[studentID]
	if !ok {
		return nil
	}
	return profile.Clone()
}

// Mutate runs fn against the student's profile under the store lock,
// creating the profile first if needed.
func (s *ProfileStore) Mutate(studentID string, fn func(*models.StudentProfile)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	profile, ok := s.profiles[studentID]
	if !ok {
		profile = models.NewStudentProfile(studentID)
		s.profiles[studentID] = profile
		if s.metrics != nil {
			s.metrics.NewProfiles.Inc()
		}
	}
	fn(profile)
}

// Count returns the number of profiles currently held.
func (s *ProfileStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.profiles)
}

// StudentIDs returns all known student IDs in sorted order.
func (s *ProfileStore) StudentIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.profiles))
	for id := range s.profiles {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Snapshot writes all profiles to disk atomically. Failures are logged
// and counted, never propagated; the in-memory state stays
// authoritative.
func (s *ProfileStore) Snapshot() {
	s.mu.RLock()
	copies := make(map[string]*models.StudentProfile, len(s.profiles))
	for id, profile := range s.profiles {
		copies[id] = profile.Clone()
	}
	s.mu.RUnlock()

	if err := writeSnapshot(s.path, copies); err != nil {
		log.Printf("⚠️ [MEMORY] Profile snapshot failed: %v", err)
		if s.metrics != nil {
			s.metrics.SnapshotFailures.Inc()
		}
		return
	}
	if s.metrics != nil {
		s.metrics.SnapshotWrites.Inc()
	}
}

// writeSnapshot marshals v and writes it via a temp file rename so a
// crash mid-write never leaves a truncated snapshot behind.
func writeSnapshot(path string, v interface{}) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp snapshot: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}
	return nil
}
