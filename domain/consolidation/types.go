package consolidation

import (
	"visareq/domain/question"
	"visareq/domain/requirement"
)

// TraceRow links one question back through the requirements it satisfies to
// the policy section or eligibility rule that originated them.
type TraceRow struct {
	QuestionID      string   `json:"question_id"`
	Section         string   `json:"section"`
	RequirementIDs  []string `json:"requirement_ids,omitempty"`
	PolicyReference string   `json:"policy_reference,omitempty"`
	ResolvesTo      string   `json:"resolves_to,omitempty"` // section key or rule id
}

// Phase is one step group of the implementation guide skeleton.
type Phase struct {
	Name  string   `json:"name"`
	Steps []string `json:"steps"`
}

// Guide is the fixed-shape implementation guide. Templated, never derived
// from LLM output.
type Guide struct {
	Architecture []string `json:"architecture"`
	Phases       []Phase  `json:"phases"`
	DataSchema   []string `json:"data_schema"`
	Endpoints    []string `json:"endpoints"`
}

// Statistics summarizes the consolidated content by category.
type Statistics struct {
	TotalRequirements    int            `json:"total_requirements"`
	RequirementsByKind   map[string]int `json:"requirements_by_kind"`
	ByPriority           map[string]int `json:"requirements_by_priority"`
	TotalQuestions       int            `json:"total_questions"`
	QuestionsBySection   map[string]int `json:"questions_by_section"`
	QuestionsByInputType map[string]int `json:"questions_by_input_type"`
	RequiredQuestions    int            `json:"required_questions"`
	CoveredSections      int            `json:"covered_sections"`
	TotalSections        int            `json:"total_sections"`
	OverallScore         float64        `json:"overall_score"`
}

// Specification is the consolidator stage's single document-shaped output.
// Pure aggregation: requirement groups and questions are carried verbatim.
type Specification struct {
	Version             string              `json:"specification_version"`
	ExecutiveSummary    string              `json:"executive_summary"`
	SystemOverview      string              `json:"system_overview"`
	Requirements        requirement.Set     `json:"requirements"`
	Questions           []question.Question `json:"application_questions"`
	Traceability        []TraceRow          `json:"traceability_matrix"`
	ImplementationGuide Guide               `json:"implementation_guide"`
	Statistics          Statistics          `json:"summary_statistics"`
}
