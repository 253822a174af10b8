package validation

// ItemError records why a single requirement or question failed validation.
type ItemError struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

// ItemValidation summarizes well-formedness checks over one item class.
type ItemValidation struct {
	Total   int         `json:"total"`
	Valid   int         `json:"valid"`
	Invalid int         `json:"invalid"`
	Rate    float64     `json:"rate"` // percentage in [0,100]
	Errors  []ItemError `json:"errors,omitempty"`
}

// Coverage measures how much of the source policy is traceable to at least
// one requirement. A section counts as covered only when a requirement's
// policy_reference is exactly its section key.
type Coverage struct {
	CoveredSections   int      `json:"covered_sections"`
	TotalSections     int      `json:"total_sections"`
	Rate              float64  `json:"rate"` // percentage in [0,100]
	UncoveredSections []string `json:"uncovered_sections,omitempty"`
}

// GapKind classifies entries in the gap analysis
type GapKind string

const (
	GapMissingRequirements GapKind = "missing_requirements"
	GapMissingQuestions    GapKind = "missing_questions"
	GapUncoveredSection    GapKind = "uncovered_section"
)

// Gap is one traceability hole found by the validator.
type Gap struct {
	Kind      GapKind `json:"kind"`
	Subject   string  `json:"subject"` // category, requirement id, or section key
	Detail    string  `json:"detail"`
	Mandatory bool    `json:"mandatory"` // drives recommendation priority
}

// GapAnalysis groups gaps by kind, each list in detection order.
type GapAnalysis struct {
	MissingRequirements []Gap `json:"missing_requirements,omitempty"`
	MissingQuestions    []Gap `json:"missing_questions,omitempty"`
	UncoveredSections   []Gap `json:"uncovered_sections,omitempty"`
}

// Total returns the number of gaps across all kinds.
func (g GapAnalysis) Total() int {
	return len(g.MissingRequirements) + len(g.MissingQuestions) + len(g.UncoveredSections)
}

// RecPriority orders recommendations for the reader
type RecPriority string

const (
	PriorityHigh   RecPriority = "high"
	PriorityMedium RecPriority = "medium"
	PriorityLow    RecPriority = "low"
)

// Recommendation is one heuristic follow-up derived from a gap.
type Recommendation struct {
	Priority RecPriority `json:"priority"`
	Text     string      `json:"text"`
}

// Report is the validator stage's full output. Derived entirely from the
// prior stages' outputs.
type Report struct {
	OverallScore          float64          `json:"overall_score"`
	RequirementValidation ItemValidation   `json:"requirement_validation"`
	QuestionValidation    ItemValidation   `json:"question_validation"`
	Coverage              Coverage         `json:"coverage"`
	Gaps                  GapAnalysis      `json:"gap_analysis"`
	Recommendations       []Recommendation `json:"recommendations"`
	ConsistencyNotes      []string         `json:"consistency_notes,omitempty"`
}
