package policy

import (
	"strings"

	"visareq/domain/core"
)

// Section is one numbered section of the source policy document, keyed by
// its section code (e.g. "V4.10").
type Section struct {
	Key     string `json:"key"`
	Title   string `json:"title"`
	Content string `json:"content,omitempty"`
}

// PolicyStructure is the top-level shape of an analyzed policy document.
// Produced once by the policy analyzer and immutable afterward.
type PolicyStructure struct {
	VisaType        string            `json:"visa_type"`
	VisaCode        string            `json:"visa_code"`
	Version         string            `json:"version"`
	Objectives      []string          `json:"objectives"`
	KeyRequirements map[string]string `json:"key_requirements"`
	Stakeholders    []string          `json:"stakeholders"`
}

// RuleCategory groups eligibility rules by who they constrain
type RuleCategory string

const (
	CategoryApplicant RuleCategory = "applicant"
	CategorySponsor   RuleCategory = "sponsor"
	CategoryDependent RuleCategory = "dependent"
)

// KnownCategory reports whether c is one of the three rule categories.
func KnownCategory(c RuleCategory) bool {
	switch c {
	case CategoryApplicant, CategorySponsor, CategoryDependent:
		return true
	}
	return false
}

// EligibilityRule is a single extracted eligibility constraint. Ordering
// within a category is insertion order from the analyzer.
type EligibilityRule struct {
	ID              string       `json:"id"`
	Description     string       `json:"description"`
	Category        RuleCategory `json:"category"`
	Mandatory       bool         `json:"mandatory"`
	PolicyReference string       `json:"policy_reference"`
}

// ConditionKind categorizes extracted visa conditions
type ConditionKind string

const (
	ConditionVisa      ConditionKind = "visa"
	ConditionFinancial ConditionKind = "financial"
	ConditionHealth    ConditionKind = "health"
	ConditionCharacter ConditionKind = "character"
	ConditionDecline   ConditionKind = "decline_reason"
)

// Condition is a constraint or decline reason attached to the visa itself
// rather than to a party's eligibility.
type Condition struct {
	Kind            ConditionKind `json:"kind"`
	Description     string        `json:"description"`
	Mandatory       bool          `json:"mandatory"`
	PolicyReference string        `json:"policy_reference"`
}

// Analysis is the complete output of the policy analyzer stage.
type Analysis struct {
	Structure  PolicyStructure   `json:"policy_structure"`
	Rules      []EligibilityRule `json:"eligibility_rules"`
	Conditions []Condition       `json:"conditions"`
	Sections   []Section         `json:"sections"`
}

// RulesByCategory returns the rules grouped by category, insertion order
// preserved within each group.
func (a Analysis) RulesByCategory() map[RuleCategory][]EligibilityRule {
	out := make(map[RuleCategory][]EligibilityRule)
	for _, r := range a.Rules {
		out[r.Category] = append(out[r.Category], r)
	}
	return out
}

// Categories returns the distinct rule categories present, in first-seen order.
func (a Analysis) Categories() []RuleCategory {
	seen := make(map[RuleCategory]bool)
	var cats []RuleCategory
	for _, r := range a.Rules {
		if !seen[r.Category] {
			seen[r.Category] = true
			cats = append(cats, r.Category)
		}
	}
	return cats
}

// Validate checks the analyzer stage's structural invariants.
func (a Analysis) Validate() error {
	if strings.TrimSpace(a.Structure.VisaType) == "" {
		return core.NewInvariantError("policy_analyzer", "visa_type is empty")
	}
	if len(a.Sections) == 0 {
		return core.NewInvariantError("policy_analyzer", "no sections extracted")
	}
	seenSections := make(map[string]bool, len(a.Sections))
	for _, s := range a.Sections {
		if strings.TrimSpace(s.Key) == "" {
			return core.NewInvariantError("policy_analyzer", "section with empty key")
		}
		if seenSections[s.Key] {
			return core.NewInvariantError("policy_analyzer", "duplicate section key: "+s.Key)
		}
		seenSections[s.Key] = true
	}
	seenRules := make(map[string]bool, len(a.Rules))
	for _, r := range a.Rules {
		if strings.TrimSpace(r.ID) == "" {
			return core.NewInvariantError("policy_analyzer", "eligibility rule with empty id")
		}
		if seenRules[r.ID] {
			return core.NewInvariantError("policy_analyzer", "duplicate rule id: "+r.ID)
		}
		seenRules[r.ID] = true
		if !KnownCategory(r.Category) {
			return core.NewInvariantError("policy_analyzer", "unknown rule category: "+string(r.Category))
		}
	}
	return nil
}

// ReferenceIndex is the set of resolution targets a policy_reference can
// point at: section keys and rule references. Matching is strict, exact
// string equality with no prefix or fuzzy resolution.
type ReferenceIndex struct {
	sections map[string]bool
	rules    map[string]bool
}

// Index builds the reference index for this analysis.
func (a Analysis) Index() ReferenceIndex {
	ix := ReferenceIndex{
		sections: make(map[string]bool, len(a.Sections)),
		rules:    make(map[string]bool, len(a.Rules)),
	}
	for _, s := range a.Sections {
		ix.sections[s.Key] = true
	}
	for _, r := range a.Rules {
		if r.PolicyReference != "" {
			ix.rules[r.PolicyReference] = true
		}
	}
	return ix
}

// Resolves reports whether ref points at a known section or rule.
func (ix ReferenceIndex) Resolves(ref string) bool {
	return ix.sections[ref] || ix.rules[ref]
}

// InSection reports whether ref is exactly a section key. Only section
// matches count toward coverage.
func (ix ReferenceIndex) InSection(ref string) bool {
	return ix.sections[ref]
}
