package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"visareq/domain/policy"
	"visareq/domain/question"
	"visareq/domain/requirement"
)

func testAnalysis() policy.Analysis {
	return policy.Analysis{
		Structure: policy.PolicyStructure{VisaType: "Parent Resident Visa", VisaCode: "PRV"},
		Sections: []policy.Section{
			{Key: "V4.1", Title: "Eligibility"},
			{Key: "V4.5", Title: "Sponsorship"},
			{Key: "V4.25", Title: "Health"},
		},
		Rules: []policy.EligibilityRule{
			{ID: "ER-001", Description: "Applicant must hold a valid passport", Category: policy.CategoryApplicant, Mandatory: true, PolicyReference: "V4.1.1"},
			{ID: "ER-002", Description: "Sponsor must meet income threshold", Category: policy.CategorySponsor, Mandatory: true, PolicyReference: "V4.5.1"},
		},
	}
}

func TestBuildReportFullCoverage(t *testing.T) {
	a := testAnalysis()
	in := Input{
		Analysis: a,
		Requirements: requirement.Set{
			Functional: []requirement.Requirement{
				{ID: "FR-001", Kind: requirement.KindFunctional, Description: "Check eligibility", Priority: requirement.PriorityMustHave, PolicyReference: "V4.1"},
				{ID: "FR-002", Kind: requirement.KindFunctional, Description: "Verify passports", Priority: requirement.PriorityMustHave, PolicyReference: "V4.1.1"},
			},
			Data: []requirement.Requirement{
				{ID: "DR-001", Kind: requirement.KindData, Description: "Sponsor income", Priority: requirement.PriorityMustHave, Required: true, PolicyReference: "V4.5"},
			},
			Business: []requirement.Requirement{
				{ID: "BR-001", Kind: requirement.KindBusiness, Description: "Sponsor threshold scales", PolicyReference: "V4.5.1"},
			},
			Validation: []requirement.Requirement{
				{ID: "VR-001", Kind: requirement.KindValidation, Description: "Validate health certificate", Required: true, PolicyReference: "V4.25"},
			},
		},
		Questions: []question.Question{
			{ID: "Q_APPL_001", Section: "Applicant", Text: "Passport number?", InputType: question.InputText, Required: true, PolicyReference: "V4.5"},
			{ID: "Q_HEAL_002", Section: "Health", Text: "Medical certificate?", InputType: question.InputFile, Required: true, PolicyReference: "V4.25"},
		},
	}

	rep := BuildReport(in, Options{})

	assert.Equal(t, 5, rep.RequirementValidation.Valid)
	assert.Equal(t, 0, rep.RequirementValidation.Invalid)
	assert.Equal(t, 2, rep.QuestionValidation.Valid)
	assert.Equal(t, 3, rep.Coverage.CoveredSections)
	assert.Equal(t, 100.0, rep.Coverage.Rate)
	assert.Empty(t, rep.Gaps.UncoveredSections)
	assert.Empty(t, rep.Gaps.MissingRequirements)
	assert.Equal(t, 100.0, rep.OverallScore)
}

func TestValidateRequirementsFailureModes(t *testing.T) {
	a := testAnalysis()
	ix := a.Index()

	set := requirement.Set{
		Functional: []requirement.Requirement{
			{ID: "FR-001", Kind: requirement.KindFunctional, Description: "", PolicyReference: "V4.1"},             // empty description
			{ID: "BAD-002", Kind: requirement.KindFunctional, Description: "Something", PolicyReference: "V4.1"},   // malformed id
			{ID: "FR-003", Kind: requirement.KindFunctional, Description: "Valid item", PolicyReference: "V4.1"},   // valid
			{ID: "FR-003", Kind: requirement.KindFunctional, Description: "Duplicate", PolicyReference: "V4.1"},    // duplicate id
			{ID: "FR-004", Kind: requirement.KindFunctional, Description: "Dangling", PolicyReference: "V9.99.9"},  // unresolvable
			{ID: "FR-005", Kind: requirement.KindFunctional, Description: "Rule-referenced", PolicyReference: "V4.1.1"}, // resolves via rule
		},
	}

	v := validateRequirements(set, ix)
	assert.Equal(t, 6, v.Total)
	assert.Equal(t, 2, v.Valid)
	assert.Equal(t, 4, v.Invalid)
	require.Len(t, v.Errors, 4)
	assert.Equal(t, "empty description", v.Errors[0].Reason)
}

func TestValidateQuestionsReferenceRules(t *testing.T) {
	a := testAnalysis()
	ix := a.Index()

	qs := []question.Question{
		{ID: "Q_A_001", Text: "Fine, no reference", InputType: question.InputText},
		{ID: "Q_A_002", Text: "Fine, section reference", InputType: question.InputText, PolicyReference: "V4.1"},
		{ID: "Q_A_003", Text: "Fine, rule reference", InputType: question.InputText, PolicyReference: "V4.5.1"},
		{ID: "Q_A_004", Text: "Dangling reference", InputType: question.InputText, PolicyReference: "V9.9"},
		{ID: "Q_A_005", Text: "", InputType: question.InputText}, // empty text
	}

	v := validateQuestions(qs, ix)
	assert.Equal(t, 5, v.Total)
	assert.Equal(t, 3, v.Valid)
	assert.Equal(t, 2, v.Invalid)
}

func TestAnalyzeGapsMissingSponsorRequirements(t *testing.T) {
	a := testAnalysis()
	in := Input{
		Analysis: a,
		Requirements: requirement.Set{
			Functional: []requirement.Requirement{
				// Only the applicant rule is traced; sponsor rules have no requirement.
				{ID: "FR-001", Kind: requirement.KindFunctional, Description: "Check passports", PolicyReference: "V4.1.1"},
			},
		},
	}

	gaps := analyzeGaps(in)
	require.Len(t, gaps.MissingRequirements, 1)
	assert.Equal(t, "sponsor", gaps.MissingRequirements[0].Subject)
	assert.True(t, gaps.MissingRequirements[0].Mandatory)

	recs := recommend(gaps)
	var high int
	for _, r := range recs {
		if r.Priority == PriorityHigh {
			high++
		}
	}
	assert.Equal(t, 1, high, "mandatory gap should produce one high-priority recommendation")
}

func TestAnalyzeGapsMissingQuestions(t *testing.T) {
	a := testAnalysis()
	in := Input{
		Analysis: a,
		Requirements: requirement.Set{
			Data: []requirement.Requirement{
				{ID: "DR-001", Kind: requirement.KindData, Description: "Income evidence", Priority: requirement.PriorityMustHave, Required: true, PolicyReference: "V4.5"},
				{ID: "DR-002", Kind: requirement.KindData, Description: "Optional extra", Priority: requirement.PriorityCouldHave, PolicyReference: "V4.1"},
			},
		},
		Questions: []question.Question{
			// No question carries V4.5, so DR-001 is uncaptured. DR-002 is
			// could-have and not required, so it needs no question.
			{ID: "Q_A_001", Section: "A", Text: "Anything", InputType: question.InputText, PolicyReference: "V4.1"},
		},
	}

	gaps := analyzeGaps(in)
	require.Len(t, gaps.MissingQuestions, 1)
	assert.Equal(t, "DR-001", gaps.MissingQuestions[0].Subject)
}

func TestBuildReportClampOption(t *testing.T) {
	a := testAnalysis()
	in := Input{
		Analysis: a,
		Requirements: requirement.Set{
			Functional: []requirement.Requirement{
				// Valid but rule-referenced: no section coverage.
				{ID: "FR-001", Kind: requirement.KindFunctional, Description: "Check", PolicyReference: "V4.1.1"},
			},
		},
		Questions: []question.Question{
			{ID: "Q_A_001", Section: "A", Text: "Anything", InputType: question.InputText},
		},
	}

	clamped := BuildReport(in, Options{})
	assert.Equal(t, 75.0, clamped.OverallScore)

	raw := BuildReport(in, Options{DisableClamp: true})
	assert.Equal(t, 60.0, raw.OverallScore)
}
