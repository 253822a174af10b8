package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"visareq/domain/core"
	"visareq/domain/run"
)

func TestSaveAndGet(t *testing.T) {
	repo := NewRunRepository()
	ctx := context.Background()

	r := run.NewPipelineRun("Parent Resident Visa")
	if err := r.Begin(); err != nil {
		t.Fatal(err)
	}
	r.RecordStage(run.StageRecord{Stage: run.StagePolicyAnalyzer, Success: true})
	if err := repo.Save(ctx, r); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := repo.Get(ctx, r.RunID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.RunID != r.RunID || got.VisaTypeHint != "Parent Resident Visa" {
		t.Errorf("got %+v", got)
	}
	if len(got.Stages) != 1 {
		t.Errorf("got %d stages, want 1", len(got.Stages))
	}

	// The stored copy is insulated from later mutation of the original.
	r.RecordStage(run.StageRecord{Stage: run.StageValidator, Success: true})
	got, err = repo.Get(ctx, r.RunID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Stages) != 1 {
		t.Error("stored run shares stage slice with the caller")
	}

	// Re-saving overwrites.
	if err := repo.Save(ctx, r); err != nil {
		t.Fatal(err)
	}
	got, _ = repo.Get(ctx, r.RunID)
	if len(got.Stages) != 2 {
		t.Errorf("got %d stages after re-save, want 2", len(got.Stages))
	}
}

func TestGetNotFound(t *testing.T) {
	repo := NewRunRepository()
	_, err := repo.Get(context.Background(), core.NewRunID())
	if !errors.Is(err, core.ErrRunNotFound) {
		t.Errorf("err = %v, want ErrRunNotFound", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	repo := NewRunRepository()
	ctx := context.Background()

	base := time.Now()
	var ids []core.RunID
	for i := 0; i < 3; i++ {
		r := run.NewPipelineRun("")
		r.Status = run.StatusSucceeded
		r.StartedAt = core.NewTimestamp(base.Add(time.Duration(i) * time.Minute))
		if err := repo.Save(ctx, r); err != nil {
			t.Fatal(err)
		}
		ids = append(ids, r.RunID)
	}

	runs, err := repo.List(ctx, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("got %d runs, want 3", len(runs))
	}
	for i, want := range []core.RunID{ids[2], ids[1], ids[0]} {
		if runs[i].RunID != want {
			t.Errorf("runs[%d] = %s, want %s", i, runs[i].RunID, want)
		}
	}

	limited, err := repo.List(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 2 || limited[0].RunID != ids[2] {
		t.Errorf("List(2) = %d runs, first %s", len(limited), limited[0].RunID)
	}
}
