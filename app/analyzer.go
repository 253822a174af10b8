package app

import (
	"context"
	"strings"

	"visareq/domain/core"
	"visareq/domain/policy"
	"visareq/domain/run"
	"visareq/gateway"
	"visareq/ports"
)

// PolicyAnalyzerStage turns raw policy text into a structured analysis.
type PolicyAnalyzerStage struct {
	client   ports.Completer
	fallback FallbackProvider
}

func NewPolicyAnalyzerStage(client ports.Completer) *PolicyAnalyzerStage {
	return &PolicyAnalyzerStage{client: client}
}

// analyzerResponse is the wire shape the analyzer prompt asks for.
type analyzerResponse struct {
	VisaType        string                   `json:"visa_type"`
	VisaCode        string                   `json:"visa_code"`
	Version         string                   `json:"version"`
	Objectives      []string                 `json:"objectives"`
	KeyRequirements map[string]string        `json:"key_requirements"`
	Stakeholders    []string                 `json:"stakeholders"`
	Sections        []policy.Section         `json:"sections"`
	Rules           []policy.EligibilityRule `json:"eligibility_rules"`
	Conditions      []policy.Condition       `json:"conditions"`
}

func (r analyzerResponse) toAnalysis() policy.Analysis {
	return policy.Analysis{
		Structure: policy.PolicyStructure{
			VisaType:        r.VisaType,
			VisaCode:        r.VisaCode,
			Version:         r.Version,
			Objectives:      r.Objectives,
			KeyRequirements: r.KeyRequirements,
			Stakeholders:    r.Stakeholders,
		},
		Sections:   r.Sections,
		Rules:      r.Rules,
		Conditions: r.Conditions,
	}
}

func (s *PolicyAnalyzerStage) Analyze(ctx context.Context, in ports.AnalyzerInput) ports.StageResult[policy.Analysis] {
	spec := stageSpec[ports.AnalyzerInput, policy.Analysis]{
		name: run.StagePolicyAnalyzer,
		checkInput: func(in ports.AnalyzerInput) error {
			if strings.TrimSpace(in.PolicyText) == "" {
				return core.NewParseError("empty policy text")
			}
			return nil
		},
		prompt: buildAnalyzerPrompt,
		parse: func(_ ports.AnalyzerInput, raw string) (policy.Analysis, error) {
			resp, err := gateway.DecodeJSON[analyzerResponse](raw)
			if err != nil {
				return policy.Analysis{}, err
			}
			return resp.toAnalysis(), nil
		},
		validate: func(_ ports.AnalyzerInput, a policy.Analysis) error {
			return a.Validate()
		},
		fallback: s.fallback.Analysis,
	}
	return runStage(ctx, s.client, spec, in)
}
