package app

import (
	"github.com/montanaflynn/stats"

	"visareq/domain/run"
)

// RunStats summarizes stage timings across a set of finished runs.
type RunStats struct {
	Runs           int     `json:"runs"`
	Succeeded      int     `json:"succeeded"`
	PartiallyOK    int     `json:"partially_succeeded"`
	Failed         int     `json:"failed"`
	FallbackStages int     `json:"fallback_stages"`
	MeanMs         float64 `json:"mean_duration_ms"`
	MedianMs       float64 `json:"median_duration_ms"`
	P90Ms          float64 `json:"p90_duration_ms"`

	ByStage map[run.StageName]StageStats `json:"by_stage"`
}

// StageStats is the timing summary for one stage across runs.
type StageStats struct {
	Executions   int     `json:"executions"`
	Fallbacks    int     `json:"fallbacks"`
	MeanMs       float64 `json:"mean_duration_ms"`
	MedianMs     float64 `json:"median_duration_ms"`
	P90Ms        float64 `json:"p90_duration_ms"`
	FallbackRate float64 `json:"fallback_rate"`
}

// ComputeRunStats aggregates timing and fallback statistics over runs.
// Non-terminal runs are skipped.
func ComputeRunStats(runs []*run.PipelineRun) RunStats {
	out := RunStats{ByStage: make(map[run.StageName]StageStats)}
	var totals []float64
	perStage := make(map[run.StageName][]float64)
	fallbacks := make(map[run.StageName]int)

	for _, r := range runs {
		if !r.Status.Terminal() {
			continue
		}
		out.Runs++
		switch r.Status {
		case run.StatusSucceeded:
			out.Succeeded++
		case run.StatusPartiallySucceeded:
			out.PartiallyOK++
		case run.StatusFailed:
			out.Failed++
		}
		totals = append(totals, float64(r.DurationMs()))
		for _, rec := range r.Stages {
			perStage[rec.Stage] = append(perStage[rec.Stage], float64(rec.DurationMs))
			if rec.UsedFallback {
				fallbacks[rec.Stage]++
				out.FallbackStages++
			}
		}
	}

	out.MeanMs, out.MedianMs, out.P90Ms = timingSummary(totals)
	for name, samples := range perStage {
		st := StageStats{Executions: len(samples), Fallbacks: fallbacks[name]}
		st.MeanMs, st.MedianMs, st.P90Ms = timingSummary(samples)
		if st.Executions > 0 {
			st.FallbackRate = float64(st.Fallbacks) / float64(st.Executions)
		}
		out.ByStage[name] = st
	}
	return out
}

func timingSummary(samples []float64) (mean, median, p90 float64) {
	if len(samples) == 0 {
		return 0, 0, 0
	}
	// stats errors only on empty input, checked above.
	mean, _ = stats.Mean(samples)
	median, _ = stats.Median(samples)
	p90, _ = stats.Percentile(samples, 90)
	return mean, median, p90
}
