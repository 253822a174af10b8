package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"visareq/domain/core"
	"visareq/domain/run"
	"visareq/ports"
)

// stageSpec describes one pipeline stage for the shared runner: how to check
// the incoming payload, build the prompt, parse the raw completion, validate
// the parsed output, and produce fallback content when anything recoverable
// goes wrong.
type stageSpec[I, O any] struct {
	name       run.StageName
	checkInput func(I) error
	prompt     func(I) string
	parse      func(I, string) (O, error)
	validate   func(I, O) error
	fallback   func(I) O
}

// runStage executes the uniform stage lifecycle: input check, a single
// gateway call, parse, structural validation, and fallback substitution on
// any recoverable failure. Fallback output is re-validated; a fallback that
// violates its own stage's invariants is the one fatal condition.
func runStage[I, O any](ctx context.Context, client ports.Completer, spec stageSpec[I, O], in I) ports.StageResult[O] {
	start := time.Now()
	res := ports.StageResult[O]{}

	output, err := attemptStage(ctx, client, spec, in)
	if err == nil {
		res.Output = output
		res.Duration = time.Since(start)
		log.Printf("[%s] Completed in %s", spec.name, res.Duration.Round(time.Millisecond))
		return res
	}

	if ctx.Err() != nil {
		// A canceled context halts the run; fallback content is for provider
		// problems, not caller-initiated shutdown.
		res.Err = fmt.Errorf("%w: stage %s: %v", core.ErrRunCanceled, spec.name, ctx.Err())
		res.Duration = time.Since(start)
		return res
	}
	if !core.IsRecoverable(err) {
		// Unknown error classes get the same treatment as provider failures.
		err = core.NewProviderError(err)
	}
	log.Printf("[%s] Recoverable failure, substituting fallback content: %v", spec.name, err)

	fb := spec.fallback(in)
	if spec.validate != nil {
		if verr := spec.validate(in, fb); verr != nil {
			res.Err = fmt.Errorf("%w: stage %s: %v", core.ErrFallbackExhausted, spec.name, verr)
			res.Duration = time.Since(start)
			return res
		}
	}
	res.Output = fb
	res.UsedFallback = true
	res.FallbackReason = err.Error()
	res.Duration = time.Since(start)
	return res
}

// attemptStage is the LLM-backed path, returning the first error encountered.
func attemptStage[I, O any](ctx context.Context, client ports.Completer, spec stageSpec[I, O], in I) (O, error) {
	var zero O
	if spec.checkInput != nil {
		if err := spec.checkInput(in); err != nil {
			return zero, err
		}
	}
	raw, err := client.Complete(ctx, spec.prompt(in))
	if err != nil {
		return zero, err
	}
	out, err := spec.parse(in, raw)
	if err != nil {
		return zero, err
	}
	if spec.validate != nil {
		if err := spec.validate(in, out); err != nil {
			return zero, err
		}
	}
	return out, nil
}
