package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("SESSION_TTL_HOURS", "")
	t.Setenv("SNAPSHOT_EVERY", "")

	cfg := Load()

	if cfg.Port != "3001" {
		t.Errorf("expected default port 3001, got %s", cfg.Port)
	}
	if cfg.SessionTTLHours != 24 {
		t.Errorf("expected default TTL 24h, got %d", cfg.SessionTTLHours)
	}
	if cfg.SnapshotEvery != 10 {
		t.Errorf("expected default snapshot cadence 10, got %d", cfg.SnapshotEvery)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("SESSION_TTL_HOURS", "48")

	cfg := Load()
	if cfg.Port != "9999" {
		t.Errorf("expected port override, got %s", cfg.Port)
	}
	if cfg.SessionTTLHours != 48 {
		t.Errorf("expected TTL override, got %d", cfg.SessionTTLHours)
	}
}

func TestLoadSpecialists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "specialists.yaml")
	content := `
specialists:
  - name: admissions
    prompt: "You help with applications."
    keywords: [apply, admission]
  - name: academics
    prompt: "You help with programs."
    keywords: [program, course]
complex_keywords: [program, cost]
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write specialists file: %v", err)
	}

	cfg, err := LoadSpecialists(path)
	if err != nil {
		t.Fatalf("failed to load specialists: %v", err)
	}
	if len(cfg.Specialists) != 2 {
		t.Fatalf("expected 2 specialists, got %d", len(cfg.Specialists))
	}
	if cfg.Specialists[0].Name != "admissions" {
		t.Errorf("expected declaration order preserved, got %s first", cfg.Specialists[0].Name)
	}
	if len(cfg.ComplexKeywords) != 2 {
		t.Errorf("expected 2 complex keywords, got %d", len(cfg.ComplexKeywords))
	}
}

func TestLoadSpecialistsMissingFile(t *testing.T) {
	if _, err := LoadSpecialists(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing specialists file")
	}
}
