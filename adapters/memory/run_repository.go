package memory

import (
	"context"
	"sort"
	"sync"

	"visareq/domain/core"
	"visareq/domain/run"
	"visareq/ports"
)

// RunRepositoryImpl is the in-memory RunRepository used when no DATABASE_URL
// is configured, and by tests. Safe for concurrent use.
type RunRepositoryImpl struct {
	mu   sync.RWMutex
	runs map[core.RunID]*run.PipelineRun
}

// NewRunRepository creates an empty in-memory run repository
func NewRunRepository() ports.RunRepository {
	return &RunRepositoryImpl{runs: make(map[core.RunID]*run.PipelineRun)}
}

func (r *RunRepositoryImpl) Save(_ context.Context, pr *run.PipelineRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *pr
	cp.Stages = append([]run.StageRecord(nil), pr.Stages...)
	r.runs[pr.RunID] = &cp
	return nil
}

func (r *RunRepositoryImpl) Get(_ context.Context, id core.RunID) (*run.PipelineRun, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	pr, ok := r.runs[id]
	if !ok {
		return nil, core.ErrRunNotFound
	}
	cp := *pr
	return &cp, nil
}

func (r *RunRepositoryImpl) List(_ context.Context, limit int) ([]*run.PipelineRun, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*run.PipelineRun, 0, len(r.runs))
	for _, pr := range r.runs {
		cp := *pr
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[j].StartedAt.Before(out[i].StartedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
