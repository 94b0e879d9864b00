package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"volatility-shock-lab/internal/domain"
	"volatility-shock-lab/internal/storage"
)

// RegressionStore implements storage.RegressionStore using PostgreSQL.
type RegressionStore struct {
	pool *Pool
}

// NewRegressionStore creates a new RegressionStore.
func NewRegressionStore(pool *Pool) *RegressionStore {
	return &RegressionStore{pool: pool}
}

// Compile-time interface check.
var _ storage.RegressionStore = (*RegressionStore)(nil)

// Insert adds one record. Returns ErrDuplicateKey if (run_id, lag) exists.
func (s *RegressionStore) Insert(ctx context.Context, rec *domain.RegressionRecord) error {
	if rec == nil || rec.RunID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO regression_results (
			run_id, lag, method,
			intercept, slope, intercept_stderr, slope_stderr, sigma,
			r_squared, sample_size, log_likelihood, aic, bic, dic,
			prior_applied, prior_coef_scale, prior_sigma_rate
		) VALUES (
			$1, $2, $3,
			$4, $5, $6, $7, $8,
			$9, $10, $11, $12, $13, $14,
			$15, $16, $17
		)
	`

	var coefScale, sigmaRate *float64
	if rec.Result.Prior != nil {
		coefScale = &rec.Result.Prior.CoefScale
		sigmaRate = &rec.Result.Prior.SigmaRate
	}

	r := rec.Result
	_, err := s.pool.Exec(ctx, query,
		rec.RunID, rec.Lag, r.Method,
		r.Intercept, r.Slope, r.InterceptStderr, r.SlopeStderr, r.Sigma,
		r.RSquared, r.SampleSize, r.LogLikelihood, r.AIC, r.BIC, r.DIC,
		r.PriorApplied, coefScale, sigmaRate,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert regression result: %w", err)
	}
	return nil
}

// GetByRun retrieves all records for a run, ordered by lag ASC.
func (s *RegressionStore) GetByRun(ctx context.Context, runID string) ([]*domain.RegressionRecord, error) {
	query := `
		SELECT
			run_id, lag, method,
			intercept, slope, intercept_stderr, slope_stderr, sigma,
			r_squared, sample_size, log_likelihood, aic, bic, dic,
			prior_applied, prior_coef_scale, prior_sigma_rate
		FROM regression_results
		WHERE run_id = $1
		ORDER BY lag ASC
	`

	rows, err := s.pool.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("get regression results by run: %w", err)
	}
	defer rows.Close()

	var records []*domain.RegressionRecord
	for rows.Next() {
		rec, err := scanRegressionRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan regression result row: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate regression result rows: %w", err)
	}

	return records, nil
}

// GetByRunAndLag retrieves one record. Returns ErrNotFound if not exists.
func (s *RegressionStore) GetByRunAndLag(ctx context.Context, runID string, lag int) (*domain.RegressionRecord, error) {
	query := `
		SELECT
			run_id, lag, method,
			intercept, slope, intercept_stderr, slope_stderr, sigma,
			r_squared, sample_size, log_likelihood, aic, bic, dic,
			prior_applied, prior_coef_scale, prior_sigma_rate
		FROM regression_results
		WHERE run_id = $1 AND lag = $2
	`

	row := s.pool.QueryRow(ctx, query, runID, lag)
	rec, err := scanRegressionRecord(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get regression result by run and lag: %w", err)
	}
	return rec, nil
}

// scanRegressionRecord scans a single row into a RegressionRecord.
func scanRegressionRecord(row pgx.Row) (*domain.RegressionRecord, error) {
	var rec domain.RegressionRecord
	var coefScale, sigmaRate *float64

	err := row.Scan(
		&rec.RunID, &rec.Lag, &rec.Result.Method,
		&rec.Result.Intercept, &rec.Result.Slope,
		&rec.Result.InterceptStderr, &rec.Result.SlopeStderr, &rec.Result.Sigma,
		&rec.Result.RSquared, &rec.Result.SampleSize,
		&rec.Result.LogLikelihood, &rec.Result.AIC, &rec.Result.BIC, &rec.Result.DIC,
		&rec.Result.PriorApplied, &coefScale, &sigmaRate,
	)
	if err != nil {
		return nil, err
	}

	if coefScale != nil && sigmaRate != nil {
		rec.Result.Prior = &domain.PriorConfig{CoefScale: *coefScale, SigmaRate: *sigmaRate}
	}

	return &rec, nil
}
