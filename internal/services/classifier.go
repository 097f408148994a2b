package services

import (
	"strings"

	"campusadvisor/internal/config"
	"campusadvisor/internal/models"
)

// Classifier routes a raw student query to a specialist using keyword
// matching. Matching is substring-based on the lowercased query, with
// a fixed precedence when several specialists match.
type Classifier struct {
	// Ordered by routing precedence.
	specialists []specialistKeywords
	complex     []string
}

type specialistKeywords struct {
	name     string
	keywords []string
}

// NewClassifier builds a classifier from the default keyword sets.
func NewClassifier() *Classifier {
	return &Classifier{
		specialists: []specialistKeywords{
			{models.SpecialistAdmissions, []string{
				"admission", "apply", "application", "requirement", "prerequisite",
				"enroll", "registration", "placement", "test", "transcript",
			}},
			{models.SpecialistAcademics, []string{
				"program", "course", "class", "curriculum", "degree", "certificate",
				"major", "study", "academic", "credit", "semester", "quarter",
			}},
			{models.SpecialistFinancialAid, []string{
				"financial", "aid", "scholarship", "grant", "loan", "tuition",
				"cost", "fee", "payment", "fafsa", "money", "afford",
			}},
		},
		complex: []string{"program", "cost", "requirement", "pathway", "career"},
	}
}

// NewClassifierFromConfig builds a classifier from a specialists file,
// preserving the file's declaration order as routing precedence. An
// empty config falls back to the defaults.
func NewClassifierFromConfig(cfg *config.SpecialistsConfig) *Classifier {
	if cfg == nil || len(cfg.Specialists) == 0 {
		return NewClassifier()
	}

	c := &Classifier{complex: cfg.ComplexKeywords}
	for _, def := range cfg.Specialists {
		c.specialists = append(c.specialists, specialistKeywords{
			name:     def.Name,
			keywords: def.Keywords,
		})
	}
	if len(c.complex) == 0 {
		c.complex = []string{"program", "cost", "requirement", "pathway", "career"}
	}
	return c
}

// Classify picks the specialist for the query. The first specialist in
// precedence order with any keyword present wins with high confidence;
// no match falls through to the general advisor with low confidence.
func (c *Classifier) Classify(query string) models.RoutingDecision {
	lowered := strings.ToLower(query)

	for _, spec := range c.specialists {
		for _, kw := range spec.keywords {
			if strings.Contains(lowered, kw) {
				return models.RoutingDecision{
					Specialist: spec.name,
					Confidence: models.ConfidenceHigh,
				}
			}
		}
	}

	return models.RoutingDecision{
		Specialist: models.SpecialistGeneral,
		Confidence: models.ConfidenceLow,
	}
}

// IsComplex reports whether the query touches a planning topic that
// deserves multi-perspective treatment.
func (c *Classifier) IsComplex(query string) bool {
	lowered := strings.ToLower(query)

	for _, kw := range c.complex {
		if strings.Contains(lowered, kw) {
			return true
		}
	}
	return false
}
