// Package postgres persists pipeline runs. Persistence is optional and
// the pipeline never depends on it; a missing DATABASE_URL disables this
// adapter entirely.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"aceintel/domain/core"
	"aceintel/domain/merge"
	"aceintel/domain/run"
	"aceintel/ports"
)

const runsSchema = `
CREATE TABLE IF NOT EXISTS reconciliation_runs (
	id          TEXT PRIMARY KEY,
	fingerprint TEXT NOT NULL,
	started_at  TIMESTAMPTZ NOT NULL,
	duration_ms BIGINT NOT NULL,
	status      TEXT NOT NULL,
	summary     JSONB NOT NULL,
	merged      JSONB NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_started_at ON reconciliation_runs (started_at DESC);
`

// runRepository implements the RunRepository interface
type runRepository struct {
	db *sqlx.DB
}

// NewRunRepository creates a run repository and ensures its schema exists
func NewRunRepository(db *sqlx.DB) (ports.RunRepository, error) {
	if _, err := db.Exec(runsSchema); err != nil {
		return nil, fmt.Errorf("failed to ensure runs schema: %w", err)
	}
	return &runRepository{db: db}, nil
}

// Create inserts a completed run
func (r *runRepository) Create(ctx context.Context, result *run.Result) error {
	summaryJSON, err := json.Marshal(result.Summary)
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}
	mergedJSON, err := json.Marshal(result.Merged)
	if err != nil {
		return fmt.Errorf("failed to marshal merged records: %w", err)
	}

	query := `INSERT INTO reconciliation_runs (
		id, fingerprint, started_at, duration_ms, status, summary, merged
	) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err = r.db.ExecContext(ctx, query,
		result.RunID.String(), result.Fingerprint.String(), result.StartedAt.Time(),
		result.Duration.Milliseconds(), string(result.Summary.Status), summaryJSON, mergedJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}
	return nil
}

// GetByID retrieves a run by its ID
func (r *runRepository) GetByID(ctx context.Context, id core.RunID) (*run.Result, error) {
	query := `SELECT id, fingerprint, started_at, duration_ms, summary, merged
		FROM reconciliation_runs WHERE id = $1`
	return r.scanRun(r.db.QueryRowContext(ctx, query, id.String()))
}

// Latest retrieves the most recently started run
func (r *runRepository) Latest(ctx context.Context) (*run.Result, error) {
	query := `SELECT id, fingerprint, started_at, duration_ms, summary, merged
		FROM reconciliation_runs ORDER BY started_at DESC LIMIT 1`
	return r.scanRun(r.db.QueryRowContext(ctx, query))
}

func (r *runRepository) scanRun(row *sql.Row) (*run.Result, error) {
	var (
		id          string
		fingerprint string
		startedAt   time.Time
		durationMs  int64
		summaryJSON []byte
		mergedJSON  []byte
	)

	err := row.Scan(&id, &fingerprint, &startedAt, &durationMs, &summaryJSON, &mergedJSON)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("run not found")
		}
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	result := &run.Result{
		RunID:       core.RunID(id),
		Fingerprint: core.RunFingerprint(fingerprint),
		StartedAt:   core.NewTimestamp(startedAt),
		Duration:    time.Duration(durationMs) * time.Millisecond,
	}
	if err := json.Unmarshal(summaryJSON, &result.Summary); err != nil {
		return nil, fmt.Errorf("failed to unmarshal summary: %w", err)
	}
	if len(mergedJSON) > 0 {
		var merged []merge.MergedRecord
		if err := json.Unmarshal(mergedJSON, &merged); err != nil {
			return nil, fmt.Errorf("failed to unmarshal merged records: %w", err)
		}
		result.Merged = merged
	}
	return result, nil
}
