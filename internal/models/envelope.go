package models

// Specialist names. These double as routing categories and as the keys
// of the response envelope.
const (
	SpecialistAdmissions   = "admissions"
	SpecialistAcademics    = "academics"
	SpecialistFinancialAid = "financial_aid"
	SpecialistGeneral      = "general"
)

// Auxiliary perspective keys used when a complex query fans out beyond
// the primary specialist.
const (
	PerspectiveAcademics    = "academics_perspective"
	PerspectiveFinancialAid = "financial_perspective"
)

// Routing confidence. Any keyword match yields high confidence; the
// general fallback is always low.
const (
	ConfidenceHigh = "high"
	ConfidenceLow  = "low"
)

// Envelope status discriminant (closed set).
const (
	StatusSuccess = "success"
	StatusError   = "error"
	StatusPartial = "partial"
)

// RoutingDecision is the derived (never persisted) result of classifying
// a query.
type RoutingDecision struct {
	Specialist string `json:"specialist"`
	Confidence string `json:"confidence"`
}

// SpecialistResult is the typed outcome of one specialist invocation.
// Exactly one of Text or Error is set; a failed call never aborts the
// envelope, it is reported inline under its key.
type SpecialistResult struct {
	Text  string `json:"text,omitempty"`
	Error string `json:"error,omitempty"`
}

// OK reports whether the invocation produced text.
func (r SpecialistResult) OK() bool {
	return r.Error == ""
}

// QueryEnvelope is the full response for one advisory query.
type QueryEnvelope struct {
	Status                string                      `json:"status"`
	Query                 string                      `json:"query"`
	PrimarySpecialist     string                      `json:"primary_specialist"`
	Confidence            string                      `json:"confidence"`
	SessionID             string                      `json:"session_id"`
	StudentContextSummary string                      `json:"student_context_summary"`
	Responses             map[string]SpecialistResult `json:"responses"`
}
