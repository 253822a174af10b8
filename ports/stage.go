package ports

import (
	"context"
	"time"

	"visareq/domain/consolidation"
	"visareq/domain/policy"
	"visareq/domain/question"
	"visareq/domain/requirement"
	"visareq/domain/validation"
)

// StageResult is the uniform outcome of one stage processor run.
// Err is non-nil only for the fatal conditions (fallback exhaustion,
// cancellation); recoverable failures surface as UsedFallback=true with the
// reason recorded.
type StageResult[T any] struct {
	Output         T
	UsedFallback   bool
	FallbackReason string
	Duration       time.Duration
	Err            error
}

// AnalyzerInput is the pipeline's external input: extracted plain text plus
// an optional pre-detected visa-type hint. The hint biases fallback content
// but never overrides a self-consistent parsed result.
type AnalyzerInput struct {
	PolicyText   string
	VisaTypeHint string
	VisaCodeHint string
}

// ValidatorInput carries the three prior stages' outputs.
type ValidatorInput struct {
	Analysis     policy.Analysis
	Requirements requirement.Set
	Questions    []question.Question
}

// ConsolidatorInput carries every prior output.
type ConsolidatorInput struct {
	Analysis     policy.Analysis
	Requirements requirement.Set
	Questions    []question.Question
	Report       validation.Report
}

// The five stage processors. Each validates its inputs, makes at most one
// gateway call, and substitutes fallback content on any recoverable failure.
type (
	PolicyAnalyzer interface {
		Analyze(ctx context.Context, in AnalyzerInput) StageResult[policy.Analysis]
	}
	RequirementsExtractor interface {
		Extract(ctx context.Context, in policy.Analysis) StageResult[requirement.Set]
	}
	QuestionGenerator interface {
		Generate(ctx context.Context, in requirement.Set) StageResult[[]question.Question]
	}
	Validator interface {
		Validate(ctx context.Context, in ValidatorInput) StageResult[validation.Report]
	}
	Consolidator interface {
		Consolidate(ctx context.Context, in ConsolidatorInput) StageResult[consolidation.Specification]
	}
)

// Processors bundles one implementation of each stage, selected once at
// orchestrator construction (live or canned).
type Processors struct {
	Analyzer     PolicyAnalyzer
	Extractor    RequirementsExtractor
	Generator    QuestionGenerator
	Validator    Validator
	Consolidator Consolidator
}
