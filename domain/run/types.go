package run

import (
	"fmt"

	"visareq/domain/consolidation"
	"visareq/domain/core"
	"visareq/domain/policy"
	"visareq/domain/question"
	"visareq/domain/requirement"
	"visareq/domain/validation"
)

// Status is the pipeline run lifecycle state
type Status string

const (
	StatusPending            Status = "pending"
	StatusRunning            Status = "running"
	StatusSucceeded          Status = "succeeded"
	StatusPartiallySucceeded Status = "partially_succeeded"
	StatusFailed             Status = "failed"
)

// Terminal reports whether s is a final state.
func (s Status) Terminal() bool {
	switch s {
	case StatusSucceeded, StatusPartiallySucceeded, StatusFailed:
		return true
	}
	return false
}

// StageName identifies one of the five ordered pipeline stages
type StageName string

const (
	StagePolicyAnalyzer        StageName = "policy_analyzer"
	StageRequirementsExtractor StageName = "requirements_extractor"
	StageQuestionGenerator     StageName = "question_generator"
	StageValidator             StageName = "validator"
	StageConsolidator          StageName = "consolidator"
)

// StageOrder is the fixed execution order.
var StageOrder = []StageName{
	StagePolicyAnalyzer,
	StageRequirementsExtractor,
	StageQuestionGenerator,
	StageValidator,
	StageConsolidator,
}

// StageRecord captures one stage execution for the run record.
type StageRecord struct {
	Stage        StageName      `json:"stage_name"`
	StartedAt    core.Timestamp `json:"started_at"`
	FinishedAt   core.Timestamp `json:"finished_at"`
	Success      bool           `json:"success"`
	UsedFallback bool           `json:"used_fallback"`
	DurationMs   int64          `json:"duration_ms"`
	Error        string         `json:"error,omitempty"`
}

// PipelineRun is the full record of one pipeline invocation. Created at
// invocation, mutated in place as stages complete, immutable once the
// status is terminal.
type PipelineRun struct {
	RunID        core.RunID     `json:"run_id"`
	Status       Status         `json:"status"`
	VisaTypeHint string         `json:"visa_type_hint,omitempty"`
	StartedAt    core.Timestamp `json:"started_at"`
	FinishedAt   core.Timestamp `json:"finished_at,omitempty"`
	Stages       []StageRecord  `json:"stages"`
	Error        string         `json:"error,omitempty"`

	Analysis      *policy.Analysis             `json:"analysis,omitempty"`
	Requirements  *requirement.Set             `json:"requirements,omitempty"`
	Questions     []question.Question          `json:"application_questions,omitempty"`
	Report        *validation.Report           `json:"validation_report,omitempty"`
	Specification *consolidation.Specification `json:"consolidated_spec,omitempty"`
}

// NewPipelineRun creates a pending run.
func NewPipelineRun(visaTypeHint string) *PipelineRun {
	return &PipelineRun{
		RunID:        core.NewRunID(),
		Status:       StatusPending,
		VisaTypeHint: visaTypeHint,
	}
}

// Begin transitions pending → running.
func (r *PipelineRun) Begin() error {
	if r.Status != StatusPending {
		return fmt.Errorf("cannot begin run in status %q", r.Status)
	}
	r.Status = StatusRunning
	r.StartedAt = core.Now()
	return nil
}

// RecordStage appends a per-stage record. No-op on a terminal run.
func (r *PipelineRun) RecordStage(rec StageRecord) {
	if r.Status.Terminal() {
		return
	}
	r.Stages = append(r.Stages, rec)
}

// Complete derives the terminal status from the stage records: succeeded
// when no stage used fallback, partially_succeeded when at least one did.
func (r *PipelineRun) Complete() {
	if r.Status.Terminal() {
		return
	}
	status := StatusSucceeded
	for _, s := range r.Stages {
		if s.UsedFallback {
			status = StatusPartiallySucceeded
			break
		}
	}
	r.Status = status
	r.FinishedAt = core.Now()
}

// Fail marks the run failed with the fatal error. Only fallback exhaustion
// or cancellation between stages reaches here.
func (r *PipelineRun) Fail(err error) {
	if r.Status.Terminal() {
		return
	}
	r.Status = StatusFailed
	if err != nil {
		r.Error = err.Error()
	}
	r.FinishedAt = core.Now()
}

// UsedFallback reports whether any stage substituted fallback content.
func (r *PipelineRun) UsedFallback() bool {
	for _, s := range r.Stages {
		if s.UsedFallback {
			return true
		}
	}
	return false
}

// StageRecordFor returns the record for a stage, if present.
func (r *PipelineRun) StageRecordFor(name StageName) (StageRecord, bool) {
	for _, s := range r.Stages {
		if s.Stage == name {
			return s, true
		}
	}
	return StageRecord{}, false
}

// DurationMs is the total wall-clock duration once the run finished.
func (r *PipelineRun) DurationMs() int64 {
	if r.FinishedAt.IsZero() || r.StartedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt).Milliseconds()
}
