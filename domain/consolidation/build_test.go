package consolidation

import (
	"strings"
	"testing"

	"visareq/domain/policy"
	"visareq/domain/question"
	"visareq/domain/requirement"
	"visareq/domain/validation"
)

func buildInput() Input {
	return Input{
		Analysis: policy.Analysis{
			Structure: policy.PolicyStructure{VisaType: "Parent Resident Visa", VisaCode: "PRV"},
			Sections: []policy.Section{
				{Key: "V4.1", Title: "Eligibility"},
				{Key: "V4.5", Title: "Sponsorship"},
			},
			Rules: []policy.EligibilityRule{
				{ID: "ER-001", Description: "Sponsor income", Category: policy.CategorySponsor, Mandatory: true, PolicyReference: "V4.5.1"},
			},
		},
		Requirements: requirement.Set{
			Data: []requirement.Requirement{
				{ID: "DR-001", Kind: requirement.KindData, Description: "Sponsor income", Priority: requirement.PriorityMustHave, Required: true, PolicyReference: "V4.5.1"},
				{ID: "DR-002", Kind: requirement.KindData, Description: "Passport", Priority: requirement.PriorityMustHave, Required: true, PolicyReference: "V4.1"},
			},
			Validation: []requirement.Requirement{
				{ID: "VR-001", Kind: requirement.KindValidation, Description: "Validate income", Required: true, PolicyReference: "V4.5.1"},
			},
		},
		Questions: []question.Question{
			{ID: "Q_SPON_001", Section: "Sponsorship", Text: "Sponsor income?", InputType: question.InputCurrency, Required: true, PolicyReference: "V4.5.1"},
			{ID: "Q_APPL_002", Section: "Applicant", Text: "Passport number?", InputType: question.InputText, Required: true, PolicyReference: "V4.1"},
			{ID: "Q_APPL_003", Section: "Applicant", Text: "Untraced?", InputType: question.InputText},
		},
		Report: validation.Report{OverallScore: 88.0},
	}
}

func TestBuildTraceability(t *testing.T) {
	rows := BuildTraceability(buildInput())
	if len(rows) != 3 {
		t.Fatalf("got %d trace rows, want one per question", len(rows))
	}

	// Q_SPON_001 shares V4.5.1 with two requirements and resolves to the rule.
	r0 := rows[0]
	if r0.QuestionID != "Q_SPON_001" {
		t.Fatalf("rows out of order: %+v", r0)
	}
	if len(r0.RequirementIDs) != 2 || r0.RequirementIDs[0] != "DR-001" || r0.RequirementIDs[1] != "VR-001" {
		t.Errorf("Q_SPON_001 requirement links = %v, want [DR-001 VR-001]", r0.RequirementIDs)
	}
	if r0.ResolvesTo != "ER-001" {
		t.Errorf("Q_SPON_001 resolves to %q, want rule ER-001", r0.ResolvesTo)
	}

	// Q_APPL_002 references a section key directly.
	if rows[1].ResolvesTo != "V4.1" {
		t.Errorf("Q_APPL_002 resolves to %q, want section V4.1", rows[1].ResolvesTo)
	}

	// A question with no reference still gets a row, unlinked.
	r2 := rows[2]
	if len(r2.RequirementIDs) != 0 || r2.ResolvesTo != "" {
		t.Errorf("untraced question row should be empty, got %+v", r2)
	}
}

func TestBuildSpecification(t *testing.T) {
	spec := Build(buildInput())

	if spec.Version != SpecVersion {
		t.Errorf("version = %q, want %q", spec.Version, SpecVersion)
	}
	if !strings.Contains(spec.ExecutiveSummary, "Parent Resident Visa") {
		t.Error("executive summary should name the visa type")
	}
	if !strings.Contains(spec.ExecutiveSummary, "88.00") {
		t.Error("executive summary should carry the validation score")
	}
	if len(spec.ImplementationGuide.Phases) == 0 {
		t.Error("implementation guide skeleton missing phases")
	}

	st := spec.Statistics
	if st.TotalRequirements != 3 || st.TotalQuestions != 3 {
		t.Errorf("statistics totals = %d reqs, %d questions; want 3, 3", st.TotalRequirements, st.TotalQuestions)
	}
	if st.RequirementsByKind["data"] != 2 || st.RequirementsByKind["validation"] != 1 {
		t.Errorf("RequirementsByKind = %v", st.RequirementsByKind)
	}
	if st.QuestionsBySection["Applicant"] != 2 {
		t.Errorf("QuestionsBySection = %v", st.QuestionsBySection)
	}
	if st.RequiredQuestions != 2 {
		t.Errorf("RequiredQuestions = %d, want 2", st.RequiredQuestions)
	}
	if st.OverallScore != 88.0 {
		t.Errorf("OverallScore = %v, want 88.0", st.OverallScore)
	}
}
