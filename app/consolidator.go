package app

import (
	"context"
	"strings"

	"visareq/domain/consolidation"
	"visareq/domain/run"
	"visareq/gateway"
	"visareq/ports"
)

// ConsolidatorStage assembles the final specification. Structure, statistics,
// and the traceability matrix are built deterministically; the LLM contributes
// only the narrative sections, which fall back to templated text.
type ConsolidatorStage struct {
	client ports.Completer
}

func NewConsolidatorStage(client ports.Completer) *ConsolidatorStage {
	return &ConsolidatorStage{client: client}
}

// consolidatorResponse is the wire shape the consolidator prompt asks for.
type consolidatorResponse struct {
	ExecutiveSummary string `json:"executive_summary"`
	SystemOverview   string `json:"system_overview"`
}

func (s *ConsolidatorStage) Consolidate(ctx context.Context, in ports.ConsolidatorInput) ports.StageResult[consolidation.Specification] {
	build := func(in ports.ConsolidatorInput) consolidation.Specification {
		return consolidation.Build(consolidation.Input{
			Analysis:     in.Analysis,
			Requirements: in.Requirements,
			Questions:    in.Questions,
			Report:       in.Report,
		})
	}

	spec := stageSpec[ports.ConsolidatorInput, consolidation.Specification]{
		name:   run.StageConsolidator,
		prompt: buildConsolidatorPrompt,
		parse: func(in ports.ConsolidatorInput, raw string) (consolidation.Specification, error) {
			resp, err := gateway.DecodeJSON[consolidatorResponse](raw)
			if err != nil {
				return consolidation.Specification{}, err
			}
			out := build(in)
			if strings.TrimSpace(resp.ExecutiveSummary) != "" {
				out.ExecutiveSummary = resp.ExecutiveSummary
			}
			if strings.TrimSpace(resp.SystemOverview) != "" {
				out.SystemOverview = resp.SystemOverview
			}
			return out, nil
		},
		fallback: build,
	}
	return runStage(ctx, s.client, spec, in)
}
