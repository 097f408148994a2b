package services

import (
	"testing"

	"campusadvisor/internal/config"
	"campusadvisor/internal/models"
)

func TestClassifyPrecedence(t *testing.T) {
	c := NewClassifier()

	// Matches admissions ("apply"), financial_aid ("financial", "aid")
	// and academics ("program"); admissions wins by precedence.
	decision := c.Classify("apply for financial aid program")
	if decision.Specialist != models.SpecialistAdmissions {
		t.Fatalf("expected admissions, got %s", decision.Specialist)
	}
	if decision.Confidence != models.ConfidenceHigh {
		t.Errorf("expected high confidence, got %s", decision.Confidence)
	}
}

func TestClassifyByDomain(t *testing.T) {
	c := NewClassifier()

	cases := []struct {
		query string
		want  string
	}{
		{"what are the enrollment requirements", models.SpecialistAdmissions},
		{"tell me about the welding certificate", models.SpecialistAcademics},
		{"how much is tuition", models.SpecialistFinancialAid},
		{"CAN I GET A SCHOLARSHIP", models.SpecialistFinancialAid},
		{"hello there", models.SpecialistGeneral},
	}

	for _, tc := range cases {
		got := c.Classify(tc.query)
		if got.Specialist != tc.want {
			t.Errorf("Classify(%q) = %s, want %s", tc.query, got.Specialist, tc.want)
		}
	}
}

func TestClassifyEmptyQuery(t *testing.T) {
	c := NewClassifier()

	decision := c.Classify("")
	if decision.Specialist != models.SpecialistGeneral {
		t.Errorf("expected general for empty query, got %s", decision.Specialist)
	}
	if decision.Confidence != models.ConfidenceLow {
		t.Errorf("expected low confidence for empty query, got %s", decision.Confidence)
	}
}

func TestIsComplex(t *testing.T) {
	c := NewClassifier()

	if !c.IsComplex("what does the nursing program cost") {
		t.Errorf("expected program/cost query to be complex")
	}
	if c.IsComplex("hello") {
		t.Errorf("expected greeting not to be complex")
	}
}

func TestClassifierFromConfigPreservesOrder(t *testing.T) {
	cfg := &config.SpecialistsConfig{
		Specialists: []config.SpecialistDef{
			{Name: "housing", Keywords: []string{"dorm", "housing"}},
			{Name: "admissions", Keywords: []string{"apply", "dorm"}},
		},
	}

	c := NewClassifierFromConfig(cfg)
	decision := c.Classify("do you have dorm housing")
	if decision.Specialist != "housing" {
		t.Errorf("expected first-declared specialist to win, got %s", decision.Specialist)
	}
}
