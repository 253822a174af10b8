package ports

import (
	"context"

	"visareq/domain/core"
	"visareq/domain/run"
)

// RunRepository persists full pipeline runs keyed by run_id.
type RunRepository interface {
	Save(ctx context.Context, r *run.PipelineRun) error
	Get(ctx context.Context, id core.RunID) (*run.PipelineRun, error)
	List(ctx context.Context, limit int) ([]*run.PipelineRun, error)
}
