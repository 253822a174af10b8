package app

import (
	"context"

	"visareq/domain/policy"
	"visareq/domain/requirement"
	"visareq/domain/run"
	"visareq/gateway"
	"visareq/ports"
)

// RequirementsExtractorStage derives the four requirement lists from an
// analyzed policy.
type RequirementsExtractorStage struct {
	client   ports.Completer
	fallback FallbackProvider
}

func NewRequirementsExtractorStage(client ports.Completer) *RequirementsExtractorStage {
	return &RequirementsExtractorStage{client: client}
}

// extractorPromptInput is the slice of the analysis the prompt embeds.
type extractorPromptInput struct {
	Structure policy.PolicyStructure   `json:"policy_structure"`
	Rules     []policy.EligibilityRule `json:"eligibility_rules"`
	Sections  []policy.Section         `json:"sections"`
}

// extractorResponse is the wire shape the extractor prompt asks for. Kind is
// implied by the list each item arrives in, so it is stamped after decoding.
type extractorResponse struct {
	Functional []requirement.Requirement `json:"functional_requirements"`
	Data       []requirement.Requirement `json:"data_requirements"`
	Business   []requirement.Requirement `json:"business_rules"`
	Validation []requirement.Requirement `json:"validation_requirements"`
}

func (r extractorResponse) toSet() requirement.Set {
	stamp := func(list []requirement.Requirement, kind requirement.Kind) []requirement.Requirement {
		for i := range list {
			list[i].Kind = kind
		}
		return list
	}
	return requirement.Set{
		Functional: stamp(r.Functional, requirement.KindFunctional),
		Data:       stamp(r.Data, requirement.KindData),
		Business:   stamp(r.Business, requirement.KindBusiness),
		Validation: stamp(r.Validation, requirement.KindValidation),
	}
}

func (s *RequirementsExtractorStage) Extract(ctx context.Context, in policy.Analysis) ports.StageResult[requirement.Set] {
	spec := stageSpec[policy.Analysis, requirement.Set]{
		name: run.StageRequirementsExtractor,
		checkInput: func(a policy.Analysis) error {
			return a.Validate()
		},
		prompt: func(a policy.Analysis) string {
			return buildExtractorPrompt(extractorPromptInput{
				Structure: a.Structure,
				Rules:     a.Rules,
				Sections:  a.Sections,
			})
		},
		parse: func(_ policy.Analysis, raw string) (requirement.Set, error) {
			resp, err := gateway.DecodeJSON[extractorResponse](raw)
			if err != nil {
				return requirement.Set{}, err
			}
			return resp.toSet(), nil
		},
		validate: func(_ policy.Analysis, set requirement.Set) error {
			return set.Validate()
		},
		fallback: s.fallback.Requirements,
	}
	return runStage(ctx, s.client, spec, in)
}
