package postgres

import (
	"context"
	"fmt"

	"volatility-shock-lab/internal/domain"
	"volatility-shock-lab/internal/storage"
)

// RunStore implements storage.AnalysisRunStore using PostgreSQL.
type RunStore struct {
	pool *Pool
}

// NewRunStore creates a new RunStore.
func NewRunStore(pool *Pool) *RunStore {
	return &RunStore{pool: pool}
}

// Compile-time interface check.
var _ storage.AnalysisRunStore = (*RunStore)(nil)

// Insert adds a new run. Returns ErrDuplicateKey if run_id exists.
func (s *RunStore) Insert(ctx context.Context, run *domain.AnalysisRun) error {
	if run == nil || run.RunID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO analysis_runs (
			run_id, started_at, method, detail_level, best_lag, status
		) VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := s.pool.Exec(ctx, query,
		run.RunID, run.StartedAt, run.Method, run.DetailLevel, run.BestLag, run.Status,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert analysis run: %w", err)
	}
	return nil
}

// UpdateStatus sets the status and best lag of an existing run.
// Returns ErrNotFound if run_id does not exist.
func (s *RunStore) UpdateStatus(ctx context.Context, runID, status string, bestLag int) error {
	if runID == "" || status == "" {
		return storage.ErrInvalidInput
	}

	query := `
		UPDATE analysis_runs
		SET status = $2, best_lag = $3
		WHERE run_id = $1
	`

	tag, err := s.pool.Exec(ctx, query, runID, status, bestLag)
	if err != nil {
		return fmt.Errorf("update analysis run status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// GetByID retrieves a run. Returns ErrNotFound if not exists.
func (s *RunStore) GetByID(ctx context.Context, runID string) (*domain.AnalysisRun, error) {
	query := `
		SELECT run_id, started_at, method, detail_level, best_lag, status
		FROM analysis_runs
		WHERE run_id = $1
	`

	var run domain.AnalysisRun
	err := s.pool.QueryRow(ctx, query, runID).Scan(
		&run.RunID, &run.StartedAt, &run.Method, &run.DetailLevel, &run.BestLag, &run.Status,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get analysis run by id: %w", err)
	}
	return &run, nil
}
