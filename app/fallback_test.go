package app

import (
	"reflect"
	"testing"

	"visareq/domain/policy"
	"visareq/domain/question"
	"visareq/domain/requirement"
	"visareq/ports"
)

func TestFallbackAnalysis(t *testing.T) {
	var fb FallbackProvider
	a := fb.Analysis(ports.AnalyzerInput{PolicyText: "some policy"})

	if err := a.Validate(); err != nil {
		t.Fatalf("fallback analysis failed validation: %v", err)
	}
	if len(a.Sections) < 3 {
		t.Errorf("got %d sections, want at least 3", len(a.Sections))
	}
	if len(a.Rules) < 8 {
		t.Errorf("got %d rules, want at least 8", len(a.Rules))
	}
	if a.Structure.VisaType == "" || a.Structure.VisaCode == "" {
		t.Errorf("structure missing visa type/code: %+v", a.Structure)
	}

	// All three rule categories are represented.
	byCat := a.RulesByCategory()
	for _, cat := range []policy.RuleCategory{policy.CategoryApplicant, policy.CategorySponsor, policy.CategoryDependent} {
		if len(byCat[cat]) == 0 {
			t.Errorf("no rules in category %s", cat)
		}
	}
}

func TestFallbackAnalysisHintBias(t *testing.T) {
	var fb FallbackProvider
	a := fb.Analysis(ports.AnalyzerInput{PolicyText: "p", VisaTypeHint: "Working Holiday Visa"})
	if a.Structure.VisaType != "Working Holiday Visa" {
		t.Errorf("visa type = %q, want the hint", a.Structure.VisaType)
	}
	if a.Structure.VisaCode != "WHV" {
		t.Errorf("visa code = %q, want WHV derived from hint", a.Structure.VisaCode)
	}

	// An explicit code hint wins over derivation.
	a = fb.Analysis(ports.AnalyzerInput{PolicyText: "p", VisaTypeHint: "Skilled Migrant", VisaCodeHint: "SMC"})
	if a.Structure.VisaCode != "SMC" {
		t.Errorf("visa code = %q, want SMC from hint", a.Structure.VisaCode)
	}
}

func TestFallbackRequirements(t *testing.T) {
	var fb FallbackProvider
	a := fb.Analysis(ports.AnalyzerInput{PolicyText: "p"})
	set := fb.Requirements(a)

	if err := set.Validate(); err != nil {
		t.Fatalf("fallback requirements failed validation: %v", err)
	}
	if len(set.Functional) < 4 {
		t.Errorf("got %d functional requirements, want at least 4", len(set.Functional))
	}
	if len(set.Data) < 5 {
		t.Errorf("got %d data requirements, want at least 5", len(set.Data))
	}
	if len(set.Business) < 5 {
		t.Errorf("got %d business requirements, want at least 5", len(set.Business))
	}
	if len(set.Validation) < 6 {
		t.Errorf("got %d validation requirements, want at least 6", len(set.Validation))
	}

	// Every reference resolves against the same run's analysis.
	idx := a.Index()
	for _, r := range set.All() {
		if r.PolicyReference != "" && !idx.Resolves(r.PolicyReference) {
			t.Errorf("%s references %q, which the analysis does not resolve", r.ID, r.PolicyReference)
		}
	}
}

func TestFallbackRequirementsRulelessAnalysis(t *testing.T) {
	// With no usable rule references the pools fall back to section keys.
	var fb FallbackProvider
	a := policy.Analysis{
		Structure: policy.PolicyStructure{VisaType: "X", VisaCode: "X"},
		Sections: []policy.Section{
			{Key: "S1", Title: "One"},
			{Key: "S2", Title: "Two"},
		},
	}
	set := fb.Requirements(a)
	idx := a.Index()
	for _, r := range set.All() {
		if !idx.Resolves(r.PolicyReference) {
			t.Errorf("%s references %q, want a section key", r.ID, r.PolicyReference)
		}
	}
}

func TestFallbackQuestions(t *testing.T) {
	var fb FallbackProvider
	a := fb.Analysis(ports.AnalyzerInput{PolicyText: "p"})
	set := fb.Requirements(a)
	qs := fb.Questions(set)

	if err := question.Validate(qs); err != nil {
		t.Fatalf("fallback questions failed validation: %v", err)
	}
	if len(qs) < 12 {
		t.Errorf("got %d questions, want at least 12", len(qs))
	}
	if sections := question.Sections(qs); len(sections) < 4 {
		t.Errorf("got sections %v, want at least 4", sections)
	}

	// Question references come from the requirement set of the same run.
	known := set.References()
	for _, q := range qs {
		if q.PolicyReference != "" && !known[q.PolicyReference] {
			t.Errorf("%s references %q, not traceable to a requirement", q.ID, q.PolicyReference)
		}
	}

	// Must-have data and required validation requirements all have a
	// matching question so fallback runs never report question gaps.
	asked := make(map[string]bool)
	for _, q := range qs {
		asked[q.PolicyReference] = true
	}
	for _, r := range set.Data {
		if (r.Priority == requirement.PriorityMustHave || r.Required) && !asked[r.PolicyReference] {
			t.Errorf("no question covers must-have data requirement %s (%s)", r.ID, r.PolicyReference)
		}
	}
	for _, r := range set.Validation {
		if r.Required && !asked[r.PolicyReference] {
			t.Errorf("no question covers required validation requirement %s (%s)", r.ID, r.PolicyReference)
		}
	}
}

func TestFallbackDeterminism(t *testing.T) {
	var fb FallbackProvider
	in := ports.AnalyzerInput{PolicyText: "p", VisaTypeHint: "Parent Resident Visa"}

	a1, a2 := fb.Analysis(in), fb.Analysis(in)
	if !reflect.DeepEqual(a1, a2) {
		t.Error("Analysis is not deterministic")
	}
	s1, s2 := fb.Requirements(a1), fb.Requirements(a2)
	if !reflect.DeepEqual(s1, s2) {
		t.Error("Requirements is not deterministic")
	}
	if !reflect.DeepEqual(fb.Questions(s1), fb.Questions(s2)) {
		t.Error("Questions is not deterministic")
	}
}

func TestDeriveVisaCode(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Working Holiday Visa", "WHV"},
		{"Parent Resident Visa", "PRV"},
		{"skilled migrant category", "SMC"},
		{"", "GEN"},
	}
	for _, tt := range tests {
		if got := deriveVisaCode(tt.in); got != tt.want {
			t.Errorf("deriveVisaCode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
