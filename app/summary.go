package app

import (
	"fmt"
	"strings"

	"visareq/domain/run"
)

// SummarizeRun renders a plain-text report of one finished run for CLI
// output and logs.
func SummarizeRun(r *run.PipelineRun) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Run %s: %s (%dms)\n", r.RunID, r.Status, r.DurationMs())
	if r.Error != "" {
		fmt.Fprintf(&b, "Error: %s\n", r.Error)
	}

	b.WriteString("\nStages:\n")
	for _, rec := range r.Stages {
		marker := "ok"
		switch {
		case !rec.Success:
			marker = "FAILED"
		case rec.UsedFallback:
			marker = "fallback"
		}
		fmt.Fprintf(&b, "  %-24s %-8s %6dms", rec.Stage, marker, rec.DurationMs)
		if rec.UsedFallback && rec.Error != "" {
			fmt.Fprintf(&b, "  (%s)", rec.Error)
		}
		b.WriteString("\n")
	}

	if r.Analysis != nil {
		fmt.Fprintf(&b, "\nPolicy: %s (%s), %d sections, %d eligibility rules\n",
			r.Analysis.Structure.VisaType, r.Analysis.Structure.VisaCode,
			len(r.Analysis.Sections), len(r.Analysis.Rules))
	}
	if r.Requirements != nil {
		fmt.Fprintf(&b, "Requirements: %d (functional %d, data %d, business %d, validation %d)\n",
			r.Requirements.Len(), len(r.Requirements.Functional), len(r.Requirements.Data),
			len(r.Requirements.Business), len(r.Requirements.Validation))
	}
	if len(r.Questions) > 0 {
		fmt.Fprintf(&b, "Questions: %d\n", len(r.Questions))
	}
	if r.Report != nil {
		fmt.Fprintf(&b, "Validation score: %.2f/100 (requirements %.1f%%, questions %.1f%%, coverage %.1f%%)\n",
			r.Report.OverallScore, r.Report.RequirementValidation.Rate,
			r.Report.QuestionValidation.Rate, r.Report.Coverage.Rate)
		if n := r.Report.Gaps.Total(); n > 0 {
			fmt.Fprintf(&b, "Gaps: %d open items, %d recommendations\n", n, len(r.Report.Recommendations))
		}
	}
	return b.String()
}
