package app

import (
	"context"

	"visareq/domain/run"
	"visareq/domain/validation"
	"visareq/gateway"
	"visareq/ports"
)

// ValidatorStage builds the validation report. All scoring, coverage, and
// gap numbers are computed deterministically from the prior outputs; the LLM
// contributes only advisory consistency notes. A gateway failure therefore
// costs the notes, not the report.
type ValidatorStage struct {
	client ports.Completer
	opts   validation.Options
}

func NewValidatorStage(client ports.Completer, opts validation.Options) *ValidatorStage {
	return &ValidatorStage{client: client, opts: opts}
}

// validatorResponse is the wire shape the validator prompt asks for.
type validatorResponse struct {
	ConsistencyNotes []string `json:"consistency_notes"`
}

func (s *ValidatorStage) Validate(ctx context.Context, in ports.ValidatorInput) ports.StageResult[validation.Report] {
	buildReport := func(in ports.ValidatorInput) validation.Report {
		return validation.BuildReport(validation.Input{
			Analysis:     in.Analysis,
			Requirements: in.Requirements,
			Questions:    in.Questions,
		}, s.opts)
	}

	spec := stageSpec[ports.ValidatorInput, validation.Report]{
		name:   run.StageValidator,
		prompt: buildValidatorPrompt,
		parse: func(in ports.ValidatorInput, raw string) (validation.Report, error) {
			resp, err := gateway.DecodeJSON[validatorResponse](raw)
			if err != nil {
				return validation.Report{}, err
			}
			report := buildReport(in)
			report.ConsistencyNotes = resp.ConsistencyNotes
			return report, nil
		},
		fallback: buildReport,
	}
	return runStage(ctx, s.client, spec, in)
}
