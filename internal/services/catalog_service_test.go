package services

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTestCatalog(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.txt")
	content := strings.Join([]string{
		"Program: Welding Technology. The welding program takes six quarters. Graduates earn an AAS degree.",
		"Tuition for most programs is charged per credit. Fees vary by program and quarter.",
		"Campus parking is free for registered students.",
	}, "\n\n")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test catalog: %v", err)
	}
	return path
}

func TestCatalogSearchRanksByRelevance(t *testing.T) {
	svc, err := NewCatalogService(writeTestCatalog(t))
	if err != nil {
		t.Fatalf("failed to load catalog: %v", err)
	}

	results := svc.Search("welding", "programs", 5)
	if len(results) == 0 {
		t.Fatalf("expected results for welding")
	}
	if !strings.Contains(strings.ToLower(results[0].Content), "welding") {
		t.Errorf("expected top result to mention welding, got %q", results[0].Content)
	}
	for i := 1; i < len(results); i++ {
		if results[i].RelevanceScore > results[i-1].RelevanceScore {
			t.Errorf("results not sorted by score at %d", i)
		}
	}
}

func TestCatalogSearchNoMatch(t *testing.T) {
	svc, err := NewCatalogService(writeTestCatalog(t))
	if err != nil {
		t.Fatalf("failed to load catalog: %v", err)
	}

	// The test catalog has a "Program:" marker chunk; marker and
	// keyword bonuses alone must not surface it for an unmatched query.
	if results := svc.Search("astrophysics", "catalog", 5); len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
	if results := svc.Search("astrophysics", "programs", 5); len(results) != 0 {
		t.Errorf("expected no results with collection bonuses, got %d", len(results))
	}
}

func TestCatalogSearchUnknownCollectionFallsBack(t *testing.T) {
	svc, err := NewCatalogService(writeTestCatalog(t))
	if err != nil {
		t.Fatalf("failed to load catalog: %v", err)
	}

	results := svc.Search("tuition", "bogus", 5)
	if len(results) == 0 {
		t.Errorf("expected fallback catalog search to find tuition")
	}
}

func TestCatalogMissingFile(t *testing.T) {
	if _, err := NewCatalogService(filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Fatalf("expected error for missing catalog file")
	}
}

func TestCatalogTopKLimit(t *testing.T) {
	svc, err := NewCatalogService(writeTestCatalog(t))
	if err != nil {
		t.Fatalf("failed to load catalog: %v", err)
	}

	results := svc.Search("program", "catalog", 1)
	if len(results) > 1 {
		t.Errorf("expected at most 1 result, got %d", len(results))
	}
}
