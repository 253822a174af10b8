package consolidation

import (
	"fmt"
	"strings"

	"visareq/domain/policy"
	"visareq/domain/question"
	"visareq/domain/requirement"
	"visareq/domain/validation"
)

// SpecVersion is stamped on every consolidated specification.
const SpecVersion = "1.0"

// Input is everything produced by the four prior stages.
type Input struct {
	Analysis     policy.Analysis
	Requirements requirement.Set
	Questions    []question.Question
	Report       validation.Report
}

// Build assembles the consolidated specification from prior outputs. The
// executive summary and system overview default to templated text; the live
// consolidator stage may replace them with LLM narrative.
func Build(in Input) Specification {
	return Specification{
		Version:             SpecVersion,
		ExecutiveSummary:    SummaryMarkdown(in),
		SystemOverview:      overview(in),
		Requirements:        in.Requirements,
		Questions:           in.Questions,
		Traceability:        BuildTraceability(in),
		ImplementationGuide: guideSkeleton(),
		Statistics:          buildStatistics(in),
	}
}

// BuildTraceability emits one row per question, linking back through every
// requirement sharing its policy reference to the originating rule or
// section. Questions with no matching requirement still get a row.
func BuildTraceability(in Input) []TraceRow {
	byRef := make(map[string][]string)
	for _, r := range in.Requirements.All() {
		if r.PolicyReference != "" {
			byRef[r.PolicyReference] = append(byRef[r.PolicyReference], r.ID)
		}
	}

	ix := in.Analysis.Index()
	ruleByRef := make(map[string]string, len(in.Analysis.Rules))
	for _, rule := range in.Analysis.Rules {
		if rule.PolicyReference != "" {
			ruleByRef[rule.PolicyReference] = rule.ID
		}
	}

	rows := make([]TraceRow, 0, len(in.Questions))
	for _, q := range in.Questions {
		row := TraceRow{
			QuestionID:      q.ID,
			Section:         q.Section,
			RequirementIDs:  byRef[q.PolicyReference],
			PolicyReference: q.PolicyReference,
		}
		switch {
		case q.PolicyReference == "":
		case ix.InSection(q.PolicyReference):
			row.ResolvesTo = q.PolicyReference
		case ruleByRef[q.PolicyReference] != "":
			row.ResolvesTo = ruleByRef[q.PolicyReference]
		}
		rows = append(rows, row)
	}
	return rows
}

// SummaryMarkdown renders the templated executive summary as markdown.
func SummaryMarkdown(in Input) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s (%s)\n\n", in.Analysis.Structure.VisaType, in.Analysis.Structure.VisaCode)
	fmt.Fprintf(&b, "This specification consolidates **%d requirements** and **%d application questions** ",
		in.Requirements.Len(), len(in.Questions))
	fmt.Fprintf(&b, "derived from %d policy sections and %d eligibility rules.\n\n",
		len(in.Analysis.Sections), len(in.Analysis.Rules))
	fmt.Fprintf(&b, "Validation scored the generated content at **%.2f/100** ", in.Report.OverallScore)
	fmt.Fprintf(&b, "(requirements %.1f%%, questions %.1f%%, coverage %.1f%%).\n",
		in.Report.RequirementValidation.Rate, in.Report.QuestionValidation.Rate, in.Report.Coverage.Rate)
	if n := in.Report.Gaps.Total(); n > 0 {
		fmt.Fprintf(&b, "\nGap analysis identified %d open items; see recommendations.\n", n)
	}
	return b.String()
}

func overview(in Input) string {
	return fmt.Sprintf(
		"Online application system for the %s: applicant-facing form capture (%d questions across %d sections), "+
			"rule-based eligibility checks (%d rules), and case-officer review backed by the traceability matrix.",
		in.Analysis.Structure.VisaType, len(in.Questions), len(question.Sections(in.Questions)), len(in.Analysis.Rules))
}

// guideSkeleton is the fixed implementation-guide shape. Placeholders only.
func guideSkeleton() Guide {
	return Guide{
		Architecture: []string{
			"Web application form layer rendering the generated question set",
			"Rules service evaluating eligibility and validation requirements",
			"Document store for applicant evidence uploads",
			"Case management integration for officer review",
		},
		Phases: []Phase{
			{Name: "Phase 1 - Foundations", Steps: []string{
				"Stand up form rendering from the question set",
				"Implement field-level validation rules",
			}},
			{Name: "Phase 2 - Rules", Steps: []string{
				"Encode eligibility rules as executable checks",
				"Wire conditional question logic",
			}},
			{Name: "Phase 3 - Review", Steps: []string{
				"Build case-officer review views from the traceability matrix",
				"Add audit reporting against the validation report",
			}},
		},
		DataSchema: []string{
			"applicants(id, personal_details, contact_details)",
			"applications(id, applicant_id, visa_code, status, submitted_at)",
			"answers(application_id, question_id, value)",
			"evidence(application_id, requirement_id, document_ref)",
		},
		Endpoints: []string{
			"POST /applications",
			"GET /applications/{id}",
			"PUT /applications/{id}/answers",
			"POST /applications/{id}/submit",
		},
	}
}

func buildStatistics(in Input) Statistics {
	st := Statistics{
		TotalRequirements:    in.Requirements.Len(),
		RequirementsByKind:   make(map[string]int),
		ByPriority:           make(map[string]int),
		TotalQuestions:       len(in.Questions),
		QuestionsBySection:   make(map[string]int),
		QuestionsByInputType: make(map[string]int),
		CoveredSections:      in.Report.Coverage.CoveredSections,
		TotalSections:        in.Report.Coverage.TotalSections,
		OverallScore:         in.Report.OverallScore,
	}
	for _, r := range in.Requirements.All() {
		st.RequirementsByKind[string(r.Kind)]++
		if r.Priority != "" {
			st.ByPriority[string(r.Priority)]++
		}
	}
	for _, q := range in.Questions {
		st.QuestionsBySection[q.Section]++
		st.QuestionsByInputType[string(q.InputType)]++
		if q.Required {
			st.RequiredQuestions++
		}
	}
	return st
}
