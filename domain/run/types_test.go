package run

import (
	"testing"

	"visareq/domain/core"
)

func TestRunLifecycleSucceeded(t *testing.T) {
	r := NewPipelineRun("Parent Resident Visa")
	if r.Status != StatusPending {
		t.Fatalf("new run status = %s, want pending", r.Status)
	}
	if r.RunID == "" {
		t.Fatal("new run has empty id")
	}

	if err := r.Begin(); err != nil {
		t.Fatalf("Begin() failed: %v", err)
	}
	if r.Status != StatusRunning {
		t.Fatalf("status after Begin = %s, want running", r.Status)
	}
	if err := r.Begin(); err == nil {
		t.Fatal("second Begin() should fail")
	}

	for _, name := range StageOrder {
		r.RecordStage(StageRecord{Stage: name, Success: true})
	}
	r.Complete()
	if r.Status != StatusSucceeded {
		t.Errorf("status = %s, want succeeded when no stage used fallback", r.Status)
	}
	if r.UsedFallback() {
		t.Error("UsedFallback() = true, want false")
	}
}

func TestRunLifecyclePartiallySucceeded(t *testing.T) {
	r := NewPipelineRun("")
	if err := r.Begin(); err != nil {
		t.Fatal(err)
	}
	r.RecordStage(StageRecord{Stage: StagePolicyAnalyzer, Success: true})
	r.RecordStage(StageRecord{Stage: StageRequirementsExtractor, Success: true, UsedFallback: true})
	r.Complete()

	if r.Status != StatusPartiallySucceeded {
		t.Errorf("status = %s, want partially_succeeded", r.Status)
	}
	if !r.UsedFallback() {
		t.Error("UsedFallback() = false, want true")
	}

	rec, ok := r.StageRecordFor(StageRequirementsExtractor)
	if !ok || !rec.UsedFallback {
		t.Errorf("StageRecordFor(extractor) = %+v, %v", rec, ok)
	}
}

func TestRunFail(t *testing.T) {
	r := NewPipelineRun("")
	if err := r.Begin(); err != nil {
		t.Fatal(err)
	}
	r.Fail(core.ErrRunCanceled)
	if r.Status != StatusFailed {
		t.Fatalf("status = %s, want failed", r.Status)
	}
	if r.Error == "" {
		t.Error("failed run should record the error")
	}

	// Terminal runs are immutable.
	r.RecordStage(StageRecord{Stage: StageValidator})
	if len(r.Stages) != 0 {
		t.Error("RecordStage mutated a terminal run")
	}
	r.Complete()
	if r.Status != StatusFailed {
		t.Error("Complete() overrode a terminal status")
	}
}

func TestStatusTerminal(t *testing.T) {
	for s, want := range map[Status]bool{
		StatusPending:            false,
		StatusRunning:            false,
		StatusSucceeded:          true,
		StatusPartiallySucceeded: true,
		StatusFailed:             true,
	} {
		if got := s.Terminal(); got != want {
			t.Errorf("%s.Terminal() = %v, want %v", s, got, want)
		}
	}
}
