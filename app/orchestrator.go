package app

import (
	"context"
	"fmt"
	"log"

	"visareq/domain/consolidation"
	"visareq/domain/core"
	"visareq/domain/policy"
	"visareq/domain/question"
	"visareq/domain/requirement"
	"visareq/domain/run"
	"visareq/domain/validation"
	"visareq/ports"
)

// Pipeline executes the five stages in fixed order, threading each stage's
// output into the next and recording per-stage outcomes on the run. Runs are
// persisted after every stage so a crashed process leaves an inspectable
// partial record.
type Pipeline struct {
	procs ports.Processors
	repo  ports.RunRepository
}

func NewPipeline(procs ports.Processors, repo ports.RunRepository) *Pipeline {
	return &Pipeline{procs: procs, repo: repo}
}

// Run executes the full pipeline for one policy document. The returned run
// is always non-nil and terminal; the error mirrors run.Error for the two
// fatal conditions (fallback exhaustion, cancellation between stages).
func (p *Pipeline) Run(ctx context.Context, policyText, visaTypeHint string) (*run.PipelineRun, error) {
	r := run.NewPipelineRun(visaTypeHint)
	if err := r.Begin(); err != nil {
		return r, err
	}
	log.Printf("[Pipeline] Run %s started (hint=%q)", r.RunID, visaTypeHint)
	p.persist(ctx, r)

	analysis, err := execStage(ctx, p, r, run.StagePolicyAnalyzer, func(ctx context.Context) ports.StageResult[policy.Analysis] {
		return p.procs.Analyzer.Analyze(ctx, ports.AnalyzerInput{PolicyText: policyText, VisaTypeHint: visaTypeHint})
	})
	if err != nil {
		return p.fail(ctx, r, err)
	}
	r.Analysis = &analysis

	reqs, err := execStage(ctx, p, r, run.StageRequirementsExtractor, func(ctx context.Context) ports.StageResult[requirement.Set] {
		return p.procs.Extractor.Extract(ctx, analysis)
	})
	if err != nil {
		return p.fail(ctx, r, err)
	}
	r.Requirements = &reqs

	questions, err := execStage(ctx, p, r, run.StageQuestionGenerator, func(ctx context.Context) ports.StageResult[[]question.Question] {
		return p.procs.Generator.Generate(ctx, reqs)
	})
	if err != nil {
		return p.fail(ctx, r, err)
	}
	r.Questions = questions

	report, err := execStage(ctx, p, r, run.StageValidator, func(ctx context.Context) ports.StageResult[validation.Report] {
		return p.procs.Validator.Validate(ctx, ports.ValidatorInput{
			Analysis:     analysis,
			Requirements: reqs,
			Questions:    questions,
		})
	})
	if err != nil {
		return p.fail(ctx, r, err)
	}
	r.Report = &report

	spec, err := execStage(ctx, p, r, run.StageConsolidator, func(ctx context.Context) ports.StageResult[consolidation.Specification] {
		return p.procs.Consolidator.Consolidate(ctx, ports.ConsolidatorInput{
			Analysis:     analysis,
			Requirements: reqs,
			Questions:    questions,
			Report:       report,
		})
	})
	if err != nil {
		return p.fail(ctx, r, err)
	}
	r.Specification = &spec

	r.Complete()
	p.persist(ctx, r)
	log.Printf("[Pipeline] Run %s finished: %s (fallback=%v, %dms)",
		r.RunID, r.Status, r.UsedFallback(), r.DurationMs())
	return r, nil
}

// execStage runs one stage with the surrounding bookkeeping: the
// between-stage cancellation check, the stage record, and persistence of the
// in-flight run.
func execStage[T any](ctx context.Context, p *Pipeline, r *run.PipelineRun, name run.StageName, fn func(context.Context) ports.StageResult[T]) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, fmt.Errorf("%w: before stage %s: %v", core.ErrRunCanceled, name, err)
	}

	startedAt := core.Now()
	res := fn(ctx)
	rec := run.StageRecord{
		Stage:        name,
		StartedAt:    startedAt,
		FinishedAt:   core.Now(),
		Success:      res.Err == nil,
		UsedFallback: res.UsedFallback,
		DurationMs:   res.Duration.Milliseconds(),
	}
	if res.Err != nil {
		rec.Error = res.Err.Error()
	} else if res.UsedFallback {
		rec.Error = res.FallbackReason
	}
	r.RecordStage(rec)
	p.persist(ctx, r)

	if res.Err != nil {
		return zero, res.Err
	}
	return res.Output, nil
}

func (p *Pipeline) fail(ctx context.Context, r *run.PipelineRun, err error) (*run.PipelineRun, error) {
	r.Fail(err)
	p.persist(ctx, r)
	log.Printf("[Pipeline] Run %s failed: %v", r.RunID, err)
	return r, err
}

func (p *Pipeline) persist(ctx context.Context, r *run.PipelineRun) {
	if p.repo == nil {
		return
	}
	if err := p.repo.Save(ctx, r); err != nil {
		// Persistence is best-effort during a run; the caller still gets the
		// in-memory record.
		log.Printf("[Pipeline] Failed to persist run %s: %v", r.RunID, err)
	}
}
