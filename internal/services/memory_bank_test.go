package services

import (
	"fmt"
	"reflect"
	"testing"

	"campusadvisor/internal/models"
)

func TestInteractionHistoryCap(t *testing.T) {
	b := NewMemoryBank(t.TempDir(), 10, nil)

	for i := 0; i < models.MaxInteractionsPerStudent+30; i++ {
		b.RecordInteraction("s1", models.InteractionTypeRouting, fmt.Sprintf("query %d", i), nil)
	}

	if got := b.InteractionCount("s1"); got != models.MaxInteractionsPerStudent {
		t.Fatalf("expected %d interactions, got %d", models.MaxInteractionsPerStudent, got)
	}

	recent := b.RecentInteractions("s1", 0)
	if recent[0].Content != "query 30" {
		t.Errorf("expected oldest retained interaction to be 'query 30', got %q", recent[0].Content)
	}
	last := recent[len(recent)-1].Content
	if last != fmt.Sprintf("query %d", models.MaxInteractionsPerStudent+29) {
		t.Errorf("unexpected newest interaction %q", last)
	}
}

func TestContextSummaryNewStudent(t *testing.T) {
	b := NewMemoryBank(t.TempDir(), 10, nil)

	ctx := b.GetStudentContext("fresh")
	if ctx.ContextSummary != "New student interaction" {
		t.Fatalf("expected 'New student interaction', got %q", ctx.ContextSummary)
	}
	if ctx.Profile == nil {
		t.Fatalf("expected a profile to be created for unknown student")
	}
}

func TestContextSummaryParts(t *testing.T) {
	b := NewMemoryBank(t.TempDir(), 100, nil)

	b.AddInterest("s1", "welding")
	b.AddInterest("s1", "hvac")
	b.AddProgramView("s1", "Welding Technology")
	b.RecordInteraction("s1", models.InteractionTypeQuery, "how do I apply",
		map[string]string{"topic": "admissions"})
	b.RecordInteraction("s1", models.InteractionTypeQuery, "what about cost", nil)

	summary := b.GetStudentContext("s1").ContextSummary
	want := "Student interests: welding, hvac; Programs viewed: Welding Technology; Recent topics: admissions, general"
	if summary != want {
		t.Fatalf("summary mismatch:\n got  %q\n want %q", summary, want)
	}
}

func TestQueryInteractionsFeedProfile(t *testing.T) {
	b := NewMemoryBank(t.TempDir(), 100, nil)

	b.RecordInteraction("s1", models.InteractionTypeQuery, "how do I apply",
		map[string]string{"topic": "admissions"})

	profile := b.Profiles().Get("s1")
	if len(profile.QuestionsAsked) != 1 {
		t.Fatalf("expected 1 question on profile, got %d", len(profile.QuestionsAsked))
	}
	if profile.QuestionsAsked[0].Category != "admissions" {
		t.Errorf("expected category admissions, got %s", profile.QuestionsAsked[0].Category)
	}
	if profile.InteractionCount != 1 {
		t.Errorf("expected interaction count 1, got %d", profile.InteractionCount)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	dir := t.TempDir()
	b := NewMemoryBank(dir, 100, nil)

	b.AddInterest("s1", "nursing")
	b.AddProgramView("s1", "Practical Nursing")
	b.AddRecommendation("s1", "visit campus", "intro")
	b.RecordInteraction("s1", models.InteractionTypeQuery, "how long is the program",
		map[string]string{"topic": "academics"})
	before := b.Profiles().Get("s1")

	b.Flush()

	reloaded := NewMemoryBank(dir, 100, nil)
	after := reloaded.Profiles().Get("s1")
	if after == nil {
		t.Fatalf("expected profile to survive snapshot round trip")
	}
	if !reflect.DeepEqual(before, after) {
		t.Errorf("profile round trip mismatch:\n before %+v\n after  %+v", before, after)
	}

	if got := reloaded.InteractionCount("s1"); got != 1 {
		t.Errorf("expected 1 interaction after reload, got %d", got)
	}
}

func TestAutoSnapshotEveryN(t *testing.T) {
	dir := t.TempDir()
	b := NewMemoryBank(dir, 3, nil)

	b.RecordInteraction("s1", models.InteractionTypeRouting, "q1", nil)
	b.RecordInteraction("s2", models.InteractionTypeRouting, "q2", nil)
	b.RecordInteraction("s1", models.InteractionTypeRouting, "q3", nil)

	// Third interaction across all students triggered a snapshot
	reloaded := NewMemoryBank(dir, 3, nil)
	if got := reloaded.InteractionCount("s1") + reloaded.InteractionCount("s2"); got != 3 {
		t.Errorf("expected 3 interactions persisted by auto snapshot, got %d", got)
	}
}

func TestContextFetchCountsAsActivity(t *testing.T) {
	b := NewMemoryBank(t.TempDir(), 100, nil)

	b.GetStudentContext("s1")
	b.GetStudentContext("s1")

	profile := b.Profiles().Get("s1")
	if profile.InteractionCount != 2 {
		t.Errorf("expected 2 touches from context fetches, got %d", profile.InteractionCount)
	}
	if got := b.InteractionCount("s1"); got != 0 {
		t.Errorf("context fetches must not write history, got %d records", got)
	}
}

func TestMissingSnapshotStartsEmpty(t *testing.T) {
	b := NewMemoryBank(t.TempDir(), 10, nil)

	if count := b.Profiles().Count(); count != 0 {
		t.Errorf("expected empty store, got %d profiles", count)
	}
}
