package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"visareq/domain/core"
	"visareq/domain/run"
	"visareq/ports"
)

// RunRepositoryImpl implements RunRepository for PostgreSQL. Runs are stored
// as one JSONB document per run with the queryable columns lifted out.
type RunRepositoryImpl struct {
	db *sqlx.DB
}

// NewRunRepository creates a new PostgreSQL run repository
func NewRunRepository(db *sqlx.DB) ports.RunRepository {
	return &RunRepositoryImpl{db: db}
}

// Connect opens and pings a PostgreSQL connection.
func Connect(databaseURL string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	return db, nil
}

// EnsureSchema creates the pipeline_runs table if it does not exist.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS pipeline_runs (
			run_id       TEXT PRIMARY KEY,
			status       TEXT NOT NULL,
			visa_type    TEXT,
			started_at   TIMESTAMPTZ,
			finished_at  TIMESTAMPTZ,
			payload      JSONB NOT NULL,
			updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	return err
}

// Save upserts the full run document. Called after every stage, so the
// stored record always reflects the latest pipeline progress.
func (r *RunRepositoryImpl) Save(ctx context.Context, pr *run.PipelineRun) error {
	payload, err := json.Marshal(pr)
	if err != nil {
		return fmt.Errorf("marshal run %s: %w", pr.RunID, err)
	}

	visaType := pr.VisaTypeHint
	if pr.Analysis != nil && pr.Analysis.Structure.VisaType != "" {
		visaType = pr.Analysis.Structure.VisaType
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO pipeline_runs (run_id, status, visa_type, started_at, finished_at, payload, updated_at)
		VALUES ($1, $2, $3, NULLIF($4, '0001-01-01T00:00:00Z')::timestamptz, NULLIF($5, '0001-01-01T00:00:00Z')::timestamptz, $6, NOW())
		ON CONFLICT (run_id) DO UPDATE
		SET status = EXCLUDED.status,
		    visa_type = EXCLUDED.visa_type,
		    started_at = EXCLUDED.started_at,
		    finished_at = EXCLUDED.finished_at,
		    payload = EXCLUDED.payload,
		    updated_at = NOW()
	`, pr.RunID.String(), string(pr.Status), visaType,
		pr.StartedAt.String(), pr.FinishedAt.String(), payload)
	return err
}

// Get retrieves one run by id.
func (r *RunRepositoryImpl) Get(ctx context.Context, id core.RunID) (*run.PipelineRun, error) {
	var payload []byte
	err := r.db.GetContext(ctx, &payload, `
		SELECT payload FROM pipeline_runs WHERE run_id = $1
	`, id.String())
	if err == sql.ErrNoRows {
		return nil, core.ErrRunNotFound
	}
	if err != nil {
		return nil, err
	}
	return decodeRun(payload)
}

// List returns the most recent runs, newest first.
func (r *RunRepositoryImpl) List(ctx context.Context, limit int) ([]*run.PipelineRun, error) {
	if limit <= 0 {
		limit = 50
	}
	var payloads [][]byte
	err := r.db.SelectContext(ctx, &payloads, `
		SELECT payload FROM pipeline_runs
		ORDER BY started_at DESC NULLS LAST, updated_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}

	runs := make([]*run.PipelineRun, 0, len(payloads))
	for _, p := range payloads {
		pr, err := decodeRun(p)
		if err != nil {
			return nil, err
		}
		runs = append(runs, pr)
	}
	return runs, nil
}

func decodeRun(payload []byte) (*run.PipelineRun, error) {
	var pr run.PipelineRun
	if err := json.Unmarshal(payload, &pr); err != nil {
		return nil, fmt.Errorf("decode stored run: %w", err)
	}
	return &pr, nil
}
