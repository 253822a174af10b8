package app

import (
	"fmt"
	"strings"

	"visareq/domain/policy"
	"visareq/domain/question"
	"visareq/domain/requirement"
	"visareq/ports"
)

// FallbackProvider supplies deterministic, policy-agnostic stage content for
// any stage whose LLM-backed attempt fails or is unusable. Stateless and
// safe to share across concurrent runs. Outputs always satisfy the target
// stage's structural invariants, and tailor themselves to prior outputs
// where available (visa-type hint, extracted rule references) so that
// fallback content stays traceable within the same run.
type FallbackProvider struct{}

// Analysis returns the fallback policy analysis: at least 3 sections and 8
// eligibility rules. A pre-detected visa type biases the structure.
func (FallbackProvider) Analysis(in ports.AnalyzerInput) policy.Analysis {
	visaType := "General Residence Visa"
	visaCode := "GEN"
	if strings.TrimSpace(in.VisaTypeHint) != "" {
		visaType = in.VisaTypeHint
		visaCode = in.VisaCodeHint
		if visaCode == "" {
			visaCode = deriveVisaCode(in.VisaTypeHint)
		}
	}

	return policy.Analysis{
		Structure: policy.PolicyStructure{
			VisaType:   visaType,
			VisaCode:   visaCode,
			Version:    "1.0",
			Objectives: []string{"residence", "settlement", "compliance"},
			KeyRequirements: map[string]string{
				"health":      "Meet health requirements",
				"character":   "Meet character requirements",
				"criteria":    "Meet specific visa criteria",
				"sponsorship": "Hold an eligible sponsor where required",
			},
			Stakeholders: []string{
				"Visa applicants",
				"Immigration New Zealand",
				"Sponsors",
				"Medical practitioners",
			},
		},
		Sections: []policy.Section{
			{Key: "V4.1", Title: "Eligibility and Criteria"},
			{Key: "V4.5", Title: "Sponsorship"},
			{Key: "V4.10", Title: "Financial Requirements"},
			{Key: "V4.25", Title: "Health Requirements"},
			{Key: "V4.30", Title: "Character Requirements"},
			{Key: "V4.35", Title: "Dependent Children"},
		},
		Rules: []policy.EligibilityRule{
			{ID: "ER-001", Description: "Must be outside New Zealand when application lodged", Category: policy.CategoryApplicant, Mandatory: true, PolicyReference: "V4.1.1"},
			{ID: "ER-002", Description: "Must hold a valid travel document", Category: policy.CategoryApplicant, Mandatory: true, PolicyReference: "V4.1.5"},
			{ID: "ER-003", Description: "Must meet health requirements", Category: policy.CategoryApplicant, Mandatory: true, PolicyReference: "V4.25.1"},
			{ID: "ER-004", Description: "Must meet character requirements", Category: policy.CategoryApplicant, Mandatory: true, PolicyReference: "V4.30.1"},
			{ID: "ER-005", Description: "Sponsor must be New Zealand citizen or resident", Category: policy.CategorySponsor, Mandatory: true, PolicyReference: "V4.5.1"},
			{ID: "ER-006", Description: "Sponsor must meet minimum income requirements", Category: policy.CategorySponsor, Mandatory: true, PolicyReference: "V4.10.1"},
			{ID: "ER-007", Description: "Sponsor must provide a sponsorship undertaking", Category: policy.CategorySponsor, Mandatory: true, PolicyReference: "V4.15.1"},
			{ID: "ER-008", Description: "Maximum 2 applicants can be sponsored at once", Category: policy.CategorySponsor, Mandatory: true, PolicyReference: "V4.5.5"},
			{ID: "ER-009", Description: "Dependent children must be under 18 years", Category: policy.CategoryDependent, Mandatory: true, PolicyReference: "V4.35.1"},
			{ID: "ER-010", Description: "Dependent children must be unmarried", Category: policy.CategoryDependent, Mandatory: false, PolicyReference: "V4.35.2"},
		},
		Conditions: []policy.Condition{
			{Kind: policy.ConditionVisa, Description: "No time limit - permanent residence", Mandatory: true, PolicyReference: "V4.50.1"},
			{Kind: policy.ConditionFinancial, Description: "Sponsor income minimum applies per sponsored applicant", Mandatory: true, PolicyReference: "V4.10.1"},
			{Kind: policy.ConditionHealth, Description: "Medical examination by panel physician required", Mandatory: true, PolicyReference: "V4.25.1"},
			{Kind: policy.ConditionHealth, Description: "Chest X-ray required for applicants 11 years and over", Mandatory: true, PolicyReference: "V4.25.5"},
			{Kind: policy.ConditionCharacter, Description: "Police certificates required for all countries lived in 12+ months", Mandatory: true, PolicyReference: "V4.30.1"},
			{Kind: policy.ConditionDecline, Description: "Sponsor does not meet income requirements", Mandatory: true, PolicyReference: "V4.10.5"},
		},
	}
}

// Requirements returns the fallback requirement set: at least 4 functional,
// 5 data, 5 business, and 6 validation requirements. Policy references are
// drawn from the eligibility rules of the analysis actually produced earlier
// in the run, so fallback requirements stay resolvable and traceable.
func (FallbackProvider) Requirements(a policy.Analysis) requirement.Set {
	pools := refPools(a)

	fr := []requirement.Requirement{
		{ID: "FR-001", Kind: requirement.KindFunctional, Description: "System must validate applicant eligibility criteria", Priority: requirement.PriorityMustHave, PolicyReference: pools.pick(policy.CategoryApplicant, 0)},
		{ID: "FR-002", Kind: requirement.KindFunctional, Description: "System must process sponsorship applications", Priority: requirement.PriorityMustHave, PolicyReference: pools.pick(policy.CategorySponsor, 0)},
		{ID: "FR-003", Kind: requirement.KindFunctional, Description: "System must calculate income thresholds by family size", Priority: requirement.PriorityMustHave, PolicyReference: pools.pick(policy.CategorySponsor, 1)},
		{ID: "FR-004", Kind: requirement.KindFunctional, Description: "System must validate medical certificates", Priority: requirement.PriorityShouldHave, PolicyReference: pools.pick(policy.CategoryApplicant, 2)},
	}
	dr := []requirement.Requirement{
		{ID: "DR-001", Kind: requirement.KindData, Description: "Full legal name of the applicant", Priority: requirement.PriorityMustHave, Required: true, PolicyReference: pools.pick(policy.CategoryApplicant, 0)},
		{ID: "DR-002", Kind: requirement.KindData, Description: "Applicant's date of birth", Priority: requirement.PriorityMustHave, Required: true, PolicyReference: pools.pick(policy.CategoryApplicant, 1)},
		{ID: "DR-003", Kind: requirement.KindData, Description: "Valid passport number", Priority: requirement.PriorityMustHave, Required: true, PolicyReference: pools.pick(policy.CategoryApplicant, 2)},
		{ID: "DR-004", Kind: requirement.KindData, Description: "Sponsor's annual income", Priority: requirement.PriorityMustHave, Required: true, PolicyReference: pools.pick(policy.CategorySponsor, 1)},
		{ID: "DR-005", Kind: requirement.KindData, Description: "Medical certificate from approved provider", Priority: requirement.PriorityShouldHave, Required: true, PolicyReference: pools.pick(policy.CategoryApplicant, 3)},
	}
	br := []requirement.Requirement{
		{ID: "BR-001", Kind: requirement.KindBusiness, Description: "Maximum 2 sponsors allowed per application", PolicyReference: pools.pick(policy.CategorySponsor, 3)},
		{ID: "BR-002", Kind: requirement.KindBusiness, Description: "Sponsor income threshold increases per additional applicant", PolicyReference: pools.pick(policy.CategorySponsor, 1)},
		{ID: "BR-003", Kind: requirement.KindBusiness, Description: "Dependent children assessed with the principal applicant", PolicyReference: pools.pick(policy.CategoryDependent, 0)},
		{ID: "BR-004", Kind: requirement.KindBusiness, Description: "Applications lodged offshore unless instructions allow otherwise", PolicyReference: pools.pick(policy.CategoryApplicant, 0)},
		{ID: "BR-005", Kind: requirement.KindBusiness, Description: "Sponsorship undertakings are binding for the sponsorship period", PolicyReference: pools.pick(policy.CategorySponsor, 2)},
	}
	vr := []requirement.Requirement{
		{ID: "VR-001", Kind: requirement.KindValidation, Description: "Validate passport number format and expiry", Required: true, PolicyReference: pools.pick(policy.CategoryApplicant, 1)},
		{ID: "VR-002", Kind: requirement.KindValidation, Description: "Validate date of birth is a valid past date", Required: true, PolicyReference: pools.pick(policy.CategoryApplicant, 0)},
		{ID: "VR-003", Kind: requirement.KindValidation, Description: "Validate sponsor income against the published threshold", Required: true, PolicyReference: pools.pick(policy.CategorySponsor, 1)},
		{ID: "VR-004", Kind: requirement.KindValidation, Description: "Validate medical certificate is no older than 36 months", Required: true, PolicyReference: pools.pick(policy.CategoryApplicant, 2)},
		{ID: "VR-005", Kind: requirement.KindValidation, Description: "Validate police certificates cover all required countries", Required: true, PolicyReference: pools.pick(policy.CategoryApplicant, 3)},
		{ID: "VR-006", Kind: requirement.KindValidation, Description: "Validate dependent children meet age requirements", Required: true, PolicyReference: pools.pick(policy.CategoryDependent, 0)},
	}

	return requirement.Set{Functional: fr, Data: dr, Business: br, Validation: vr}
}

// Questions returns the fallback question list: at least 12 questions
// spanning at least 4 sections. Policy references cycle through the
// must-have data and required validation requirements actually produced
// earlier in the run, keeping every fallback question traceable to a
// requirement.
func (FallbackProvider) Questions(set requirement.Set) []question.Question {
	pool := questionRefPool(set)
	ref := func(i int) string {
		if len(pool) == 0 {
			return ""
		}
		return pool[i%len(pool)]
	}

	return []question.Question{
		{ID: "Q_APPL_001", Section: "Applicant Details", Text: "What is your full legal name?", InputType: question.InputText, Required: true, ValidationRules: []string{"required", "max_length:100"}, HelpText: "As shown in your passport", PolicyReference: ref(0)},
		{ID: "Q_APPL_002", Section: "Applicant Details", Text: "What is your date of birth?", InputType: question.InputDate, Required: true, ValidationRules: []string{"required", "past_date"}, PolicyReference: ref(1)},
		{ID: "Q_APPL_003", Section: "Applicant Details", Text: "What is your passport number?", InputType: question.InputText, Required: true, ValidationRules: []string{"required", "passport_format"}, PolicyReference: ref(2)},
		{ID: "Q_APPL_004", Section: "Applicant Details", Text: "In which country do you currently live?", InputType: question.InputSelect, Required: true, ValidationRules: []string{"required"}, PolicyReference: ref(3)},
		{ID: "Q_SPON_005", Section: "Sponsorship", Text: "What is your sponsor's full name?", InputType: question.InputText, Required: true, ValidationRules: []string{"required"}, PolicyReference: ref(4)},
		{ID: "Q_SPON_006", Section: "Sponsorship", Text: "What is your sponsor's residency status?", InputType: question.InputSelect, Required: true, ValidationRules: []string{"required"}, PolicyReference: ref(5)},
		{ID: "Q_SPON_007", Section: "Sponsorship", Text: "What is your sponsor's annual income (NZD)?", InputType: question.InputCurrency, Required: true, ValidationRules: []string{"required", "min:0"}, HelpText: "Gross income from employment or self-employment", PolicyReference: ref(6)},
		{ID: "Q_DEP_008", Section: "Dependent Children", Text: "How many dependent children are included in this application?", InputType: question.InputNumber, Required: true, ValidationRules: []string{"required", "min:0"}, PolicyReference: ref(7)},
		{ID: "Q_FINA_009", Section: "Financial", Text: "Upload evidence of your sponsor's income", InputType: question.InputFile, Required: true, ValidationRules: []string{"required", "file_type:pdf"}, PolicyReference: ref(8)},
		{ID: "Q_FINA_010", Section: "Financial", Text: "What income sources does your sponsor have?", InputType: question.InputMultiSelect, Required: false, PolicyReference: ref(9)},
		{ID: "Q_HEAL_011", Section: "Health & Character", Text: "Have you lived in any country other than your own for 12 months or more?", InputType: question.InputBoolean, Required: true, ValidationRules: []string{"required"}, PolicyReference: ref(10)},
		{ID: "Q_HEAL_012", Section: "Health & Character", Text: "Upload police certificates for each country you have lived in", InputType: question.InputFile, Required: false, ValidationRules: []string{"file_type:pdf"}, PolicyReference: ref(11),
			Conditional: []question.ConditionalRule{{DependsOn: "Q_HEAL_011", Condition: "equals:true", Effect: question.EffectShow}}},
	}
}

// categoryPools indexes rule references by category with a flat pool for
// categories absent from the analysis.
type categoryPools struct {
	byCategory map[policy.RuleCategory][]string
	flat       []string
}

func refPools(a policy.Analysis) categoryPools {
	p := categoryPools{byCategory: make(map[policy.RuleCategory][]string)}
	for _, r := range a.Rules {
		if r.PolicyReference == "" {
			continue
		}
		p.byCategory[r.Category] = append(p.byCategory[r.Category], r.PolicyReference)
		p.flat = append(p.flat, r.PolicyReference)
	}
	// An analysis with sections but no usable rule references still needs
	// resolvable targets: fall back to the section keys themselves.
	if len(p.flat) == 0 {
		for _, s := range a.Sections {
			p.flat = append(p.flat, s.Key)
		}
	}
	return p
}

// pick returns the i-th reference of a category pool, cycling, falling back
// to the flat pool when the category is absent.
func (p categoryPools) pick(cat policy.RuleCategory, i int) string {
	pool := p.byCategory[cat]
	if len(pool) == 0 {
		pool = p.flat
	}
	if len(pool) == 0 {
		return ""
	}
	return pool[i%len(pool)]
}

// questionRefPool lists references of must-have data and required validation
// requirements, the items the coverage invariant cares about.
func questionRefPool(set requirement.Set) []string {
	var pool []string
	seen := make(map[string]bool)
	add := func(ref string) {
		if ref != "" && !seen[ref] {
			seen[ref] = true
			pool = append(pool, ref)
		}
	}
	for _, r := range set.Data {
		if r.Priority == requirement.PriorityMustHave || r.Required {
			add(r.PolicyReference)
		}
	}
	for _, r := range set.Validation {
		if r.Required {
			add(r.PolicyReference)
		}
	}
	if len(pool) == 0 {
		for _, r := range set.All() {
			add(r.PolicyReference)
		}
	}
	return pool
}

// deriveVisaCode abbreviates a visa-type label, e.g.
// "Working Holiday Visa" -> "WHV".
func deriveVisaCode(visaType string) string {
	var b strings.Builder
	for _, word := range strings.Fields(visaType) {
		r := []rune(word)
		if len(r) > 0 {
			fmt.Fprintf(&b, "%c", r[0])
		}
	}
	code := strings.ToUpper(b.String())
	if code == "" {
		code = "GEN"
	}
	return code
}
