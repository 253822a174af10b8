package app

import (
	"visareq/domain/validation"
	"visareq/ports"
)

// NewLiveProcessors bundles the five LLM-backed stages over one shared
// gateway client.
func NewLiveProcessors(client ports.Completer, opts validation.Options) ports.Processors {
	return ports.Processors{
		Analyzer:     NewPolicyAnalyzerStage(client),
		Extractor:    NewRequirementsExtractorStage(client),
		Generator:    NewQuestionGeneratorStage(client),
		Validator:    NewValidatorStage(client, opts),
		Consolidator: NewConsolidatorStage(client),
	}
}
