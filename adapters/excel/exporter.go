package excel

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"visareq/domain/run"
	"visareq/internal/errors"
)

// Exporter writes a finished run's outputs to an .xlsx workbook with one
// sheet per artifact: Requirements, Questions, Traceability, Validation.
type Exporter struct{}

func NewExporter() *Exporter {
	return &Exporter{}
}

// Export writes the workbook to path. The run must carry at least the
// extractor output; sheets for missing artifacts are skipped.
func (e *Exporter) Export(r *run.PipelineRun, path string) error {
	if r.Requirements == nil {
		return errors.InvalidInput("run has no requirements to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := e.writeRequirements(f, r); err != nil {
		return errors.ExportFailed(err)
	}
	if len(r.Questions) > 0 {
		if err := e.writeQuestions(f, r); err != nil {
			return errors.ExportFailed(err)
		}
	}
	if r.Specification != nil {
		if err := e.writeTraceability(f, r); err != nil {
			return errors.ExportFailed(err)
		}
	}
	if r.Report != nil {
		if err := e.writeValidation(f, r); err != nil {
			return errors.ExportFailed(err)
		}
	}

	// excelize creates a default "Sheet1"; drop it once real sheets exist.
	f.DeleteSheet("Sheet1")
	if err := f.SaveAs(path); err != nil {
		return errors.ExportFailed(err)
	}
	return nil
}

func (e *Exporter) writeRequirements(f *excelize.File, r *run.PipelineRun) error {
	const sheet = "Requirements"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	headers := []any{"ID", "Kind", "Description", "Priority", "Required", "Policy Reference"}
	if err := writeRow(f, sheet, 1, headers); err != nil {
		return err
	}
	row := 2
	for _, req := range r.Requirements.All() {
		values := []any{req.ID, string(req.Kind), req.Description, string(req.Priority), req.Required, req.PolicyReference}
		if err := writeRow(f, sheet, row, values); err != nil {
			return err
		}
		row++
	}
	return nil
}

func (e *Exporter) writeQuestions(f *excelize.File, r *run.PipelineRun) error {
	const sheet = "Questions"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	headers := []any{"ID", "Section", "Text", "Input Type", "Required", "Validation Rules", "Policy Reference", "Depends On"}
	if err := writeRow(f, sheet, 1, headers); err != nil {
		return err
	}
	row := 2
	for _, q := range r.Questions {
		dependsOn := ""
		if len(q.Conditional) > 0 {
			dependsOn = q.Conditional[0].DependsOn
		}
		values := []any{q.ID, q.Section, q.Text, string(q.InputType), q.Required,
			strings.Join(q.ValidationRules, "; "), q.PolicyReference, dependsOn}
		if err := writeRow(f, sheet, row, values); err != nil {
			return err
		}
		row++
	}
	return nil
}

func (e *Exporter) writeTraceability(f *excelize.File, r *run.PipelineRun) error {
	const sheet = "Traceability"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	headers := []any{"Question ID", "Section", "Requirement IDs", "Policy Reference", "Resolves To"}
	if err := writeRow(f, sheet, 1, headers); err != nil {
		return err
	}
	row := 2
	for _, t := range r.Specification.Traceability {
		values := []any{t.QuestionID, t.Section, strings.Join(t.RequirementIDs, "; "), t.PolicyReference, t.ResolvesTo}
		if err := writeRow(f, sheet, row, values); err != nil {
			return err
		}
		row++
	}
	return nil
}

func (e *Exporter) writeValidation(f *excelize.File, r *run.PipelineRun) error {
	const sheet = "Validation"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	rep := r.Report
	rows := [][]any{
		{"Overall Score", rep.OverallScore},
		{"Requirement Validation Rate", rep.RequirementValidation.Rate},
		{"Question Validation Rate", rep.QuestionValidation.Rate},
		{"Coverage Rate", rep.Coverage.Rate},
		{"Covered Sections", fmt.Sprintf("%d/%d", rep.Coverage.CoveredSections, rep.Coverage.TotalSections)},
		{"Open Gaps", rep.Gaps.Total()},
	}
	for i, values := range rows {
		if err := writeRow(f, sheet, i+1, values); err != nil {
			return err
		}
	}

	row := len(rows) + 2
	if err := writeRow(f, sheet, row, []any{"Priority", "Recommendation"}); err != nil {
		return err
	}
	row++
	for _, rec := range rep.Recommendations {
		if err := writeRow(f, sheet, row, []any{string(rec.Priority), rec.Text}); err != nil {
			return err
		}
		row++
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}
