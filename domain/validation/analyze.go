package validation

import (
	"fmt"

	"visareq/domain/policy"
	"visareq/domain/question"
	"visareq/domain/requirement"
)

// Input carries everything the validator consumes: the analyzer output plus
// the extractor and generator outputs from the same run.
type Input struct {
	Analysis     policy.Analysis
	Requirements requirement.Set
	Questions    []question.Question
}

// Options tunes report construction.
type Options struct {
	// DisableClamp turns off the 75.0 presentation floor (demo-mode policy).
	DisableClamp bool
}

// BuildReport computes the full validation report deterministically from the
// prior stages' outputs. It never calls out; the LLM contributes only
// advisory consistency notes, attached separately by the validator stage.
func BuildReport(in Input, opts Options) Report {
	ix := in.Analysis.Index()

	reqVal := validateRequirements(in.Requirements, ix)
	qVal := validateQuestions(in.Questions, ix)
	cov := measureCoverage(in.Analysis.Sections, in.Requirements, ix)
	gaps := analyzeGaps(in)

	var overall float64
	if opts.DisableClamp {
		overall = OverallScoreUnclamped(reqVal.Rate, qVal.Rate, cov.Rate)
	} else {
		overall = OverallScore(reqVal.Rate, qVal.Rate, cov.Rate)
	}

	return Report{
		OverallScore:          overall,
		RequirementValidation: reqVal,
		QuestionValidation:    qVal,
		Coverage:              cov,
		Gaps:                  gaps,
		Recommendations:       recommend(gaps),
	}
}

// validateRequirements checks each requirement for a non-empty description,
// a well-formed ID, and a resolvable policy reference. Duplicate IDs mark
// the later occurrence invalid.
func validateRequirements(set requirement.Set, ix policy.ReferenceIndex) ItemValidation {
	v := ItemValidation{}
	seen := make(map[string]bool, set.Len())
	for _, r := range set.All() {
		v.Total++
		switch {
		case r.Description == "":
			v.fail(r.ID, "empty description")
		case !requirement.WellFormedID(r.ID, r.Kind):
			v.fail(r.ID, fmt.Sprintf("malformed id for kind %s", r.Kind))
		case seen[r.ID]:
			v.fail(r.ID, "duplicate id")
		case r.PolicyReference == "" || !ix.Resolves(r.PolicyReference):
			v.fail(r.ID, fmt.Sprintf("unresolvable policy reference %q", r.PolicyReference))
		default:
			v.Valid++
		}
		seen[r.ID] = true
	}
	v.finish()
	return v
}

// validateQuestions checks each question for non-empty text, a well-formed
// ID, and a policy reference that is either empty or resolvable.
func validateQuestions(qs []question.Question, ix policy.ReferenceIndex) ItemValidation {
	v := ItemValidation{}
	seen := make(map[string]bool, len(qs))
	for _, q := range qs {
		v.Total++
		switch {
		case q.Text == "":
			v.fail(q.ID, "empty question text")
		case !question.WellFormedID(q.ID):
			v.fail(q.ID, "malformed id")
		case seen[q.ID]:
			v.fail(q.ID, "duplicate id")
		case q.PolicyReference != "" && !ix.Resolves(q.PolicyReference):
			v.fail(q.ID, fmt.Sprintf("unresolvable policy reference %q", q.PolicyReference))
		default:
			v.Valid++
		}
		seen[q.ID] = true
	}
	v.finish()
	return v
}

func (v *ItemValidation) fail(id, reason string) {
	v.Invalid++
	v.Errors = append(v.Errors, ItemError{ID: id, Reason: reason})
}

func (v *ItemValidation) finish() {
	v.Rate = rate(v.Valid, v.Total)
}

// measureCoverage counts sections with at least one requirement whose
// policy reference is exactly the section key.
func measureCoverage(sections []policy.Section, set requirement.Set, ix policy.ReferenceIndex) Coverage {
	refs := set.References()
	cov := Coverage{TotalSections: len(sections)}
	for _, s := range sections {
		if refs[s.Key] {
			cov.CoveredSections++
		} else {
			cov.UncoveredSections = append(cov.UncoveredSections, s.Key)
		}
	}
	cov.Rate = rate(cov.CoveredSections, cov.TotalSections)
	return cov
}

// analyzeGaps lists eligibility-rule categories with no traceable
// requirement, must-have/required data and validation requirements with no
// matching question, and sections no requirement covers.
func analyzeGaps(in Input) GapAnalysis {
	var gaps GapAnalysis

	reqRefs := in.Requirements.References()
	for _, cat := range in.Analysis.Categories() {
		rules := in.Analysis.RulesByCategory()[cat]
		covered := false
		mandatory := false
		for _, rule := range rules {
			if rule.Mandatory {
				mandatory = true
			}
			if rule.PolicyReference != "" && reqRefs[rule.PolicyReference] {
				covered = true
			}
		}
		if !covered {
			gaps.MissingRequirements = append(gaps.MissingRequirements, Gap{
				Kind:      GapMissingRequirements,
				Subject:   string(cat),
				Detail:    fmt.Sprintf("no requirement traces to any %s eligibility rule", cat),
				Mandatory: mandatory,
			})
		}
	}

	qRefs := make(map[string]bool, len(in.Questions))
	for _, q := range in.Questions {
		if q.PolicyReference != "" {
			qRefs[q.PolicyReference] = true
		}
	}
	needsQuestion := func(r requirement.Requirement) bool {
		switch r.Kind {
		case requirement.KindData:
			return r.Priority == requirement.PriorityMustHave || r.Required
		case requirement.KindValidation:
			return r.Required
		}
		return false
	}
	for _, r := range append(append([]requirement.Requirement{}, in.Requirements.Data...), in.Requirements.Validation...) {
		if !needsQuestion(r) {
			continue
		}
		if r.PolicyReference == "" || !qRefs[r.PolicyReference] {
			gaps.MissingQuestions = append(gaps.MissingQuestions, Gap{
				Kind:      GapMissingQuestions,
				Subject:   r.ID,
				Detail:    fmt.Sprintf("no question captures requirement %s (%s)", r.ID, r.Kind),
				Mandatory: r.Priority == requirement.PriorityMustHave || r.Required,
			})
		}
	}

	for _, s := range in.Analysis.Sections {
		if !reqRefs[s.Key] {
			gaps.UncoveredSections = append(gaps.UncoveredSections, Gap{
				Kind:    GapUncoveredSection,
				Subject: s.Key,
				Detail:  fmt.Sprintf("section %s (%s) has no covering requirement", s.Key, s.Title),
			})
		}
	}

	return gaps
}

// recommend emits one entry per gap. Gaps rooted in must-have requirements
// or mandatory eligibility rules are high priority, other item gaps medium,
// coverage-only gaps low.
func recommend(gaps GapAnalysis) []Recommendation {
	var recs []Recommendation
	add := func(g Gap, fallback RecPriority, text string) {
		p := fallback
		if g.Mandatory {
			p = PriorityHigh
		}
		recs = append(recs, Recommendation{Priority: p, Text: text})
	}
	for _, g := range gaps.MissingRequirements {
		add(g, PriorityMedium, fmt.Sprintf("Add requirements covering %s eligibility rules", g.Subject))
	}
	for _, g := range gaps.MissingQuestions {
		add(g, PriorityMedium, fmt.Sprintf("Add an application question capturing requirement %s", g.Subject))
	}
	for _, g := range gaps.UncoveredSections {
		recs = append(recs, Recommendation{
			Priority: PriorityLow,
			Text:     fmt.Sprintf("Add requirements traceable to policy section %s", g.Subject),
		})
	}
	return recs
}
