package storage

import (
	"context"
	"time"

	"volatility-shock-lab/internal/domain"
)

// DailyPriceStore provides access to raw daily closing prices.
type DailyPriceStore interface {
	// InsertBulk adds daily closes for a symbol. Fails the entire batch with
	// ErrDuplicateKey if any (symbol, date) already exists.
	InsertBulk(ctx context.Context, symbol string, points []domain.PricePoint) error

	// GetBySymbol retrieves the full series for a symbol, ordered by date ASC.
	// Returns ErrNotFound if the symbol has no observations.
	GetBySymbol(ctx context.Context, symbol string) (*domain.PriceSeries, error)

	// GetByDateRange retrieves observations within [start, end] (inclusive).
	GetByDateRange(ctx context.Context, symbol string, start, end time.Time) (*domain.PriceSeries, error)
}

// SeriesStore provides access to derived monthly series (returns, shocks).
type SeriesStore interface {
	// InsertBulk adds rows. Fails entire batch on duplicate
	// (run_id, symbol, kind, date).
	InsertBulk(ctx context.Context, rows []*domain.SeriesRow) error

	// GetBySeries retrieves all rows for one (run, symbol, kind), ordered by
	// date ASC.
	GetBySeries(ctx context.Context, runID, symbol, kind string) ([]*domain.SeriesRow, error)
}

// CoefficientStore provides access to detail coefficients per decomposed
// series per level.
type CoefficientStore interface {
	// InsertBulk adds rows. Fails entire batch on duplicate
	// (run_id, series, level, index).
	InsertBulk(ctx context.Context, rows []*domain.CoefficientRow) error

	// GetByLevel retrieves coefficients for one (run, series, level),
	// ordered by index ASC.
	GetByLevel(ctx context.Context, runID, series string, level int) ([]*domain.CoefficientRow, error)
}

// AnalysisRunStore provides access to pipeline run records.
type AnalysisRunStore interface {
	// Insert adds a new run. Returns ErrDuplicateKey if run_id exists.
	Insert(ctx context.Context, run *domain.AnalysisRun) error

	// UpdateStatus sets the status and best lag of an existing run.
	// Returns ErrNotFound if run_id does not exist.
	UpdateStatus(ctx context.Context, runID, status string, bestLag int) error

	// GetByID retrieves a run. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, runID string) (*domain.AnalysisRun, error)
}

// RegressionStore provides access to per-lag regression outcomes.
type RegressionStore interface {
	// Insert adds one record. Returns ErrDuplicateKey if (run_id, lag) exists.
	Insert(ctx context.Context, rec *domain.RegressionRecord) error

	// GetByRun retrieves all records for a run, ordered by lag ASC.
	GetByRun(ctx context.Context, runID string) ([]*domain.RegressionRecord, error)

	// GetByRunAndLag retrieves one record. Returns ErrNotFound if not exists.
	GetByRunAndLag(ctx context.Context, runID string, lag int) (*domain.RegressionRecord, error)
}
