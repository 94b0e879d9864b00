// Package orchestrator provides end-to-end pipeline orchestration.
// It sequences return aggregation, shock extraction, the lag scan,
// persistence, and reporting.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"volatility-shock-lab/internal/domain"
	"volatility-shock-lab/internal/observability"
	"volatility-shock-lab/internal/regression"
	"volatility-shock-lab/internal/reporting"
	"volatility-shock-lab/internal/returns"
	"volatility-shock-lab/internal/scan"
	"volatility-shock-lab/internal/shocks"
	"volatility-shock-lab/internal/storage"
	"volatility-shock-lab/internal/wavelet"
)

// Series identifiers used for persisted detail coefficients.
const (
	seriesShock      = "shock"
	seriesVolatility = "volatility"
)

// Orchestrator coordinates the full analysis pipeline, from loading
// daily prices through persisting the lag scan results.
type Orchestrator struct {
	// Stores
	priceStore       storage.DailyPriceStore
	seriesStore      storage.SeriesStore
	coefficientStore storage.CoefficientStore
	runStore         storage.AnalysisRunStore
	regressionStore  storage.RegressionStore

	// Config
	config           domain.AnalysisConfig
	equitySymbol     string
	volatilitySymbol string

	// Options
	verbose bool
	now     func() time.Time
}

// Options for creating Orchestrator.
type Options struct {
	// Required stores
	PriceStore       storage.DailyPriceStore
	SeriesStore      storage.SeriesStore
	CoefficientStore storage.CoefficientStore
	RunStore         storage.AnalysisRunStore
	RegressionStore  storage.RegressionStore

	// Analysis config
	Config           domain.AnalysisConfig
	EquitySymbol     string
	VolatilitySymbol string

	// Options
	Verbose bool
	Now     func() time.Time // Injectable clock for deterministic run IDs
}

// New creates a new Orchestrator.
func New(opts Options) *Orchestrator {
	now := opts.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Orchestrator{
		priceStore:       opts.PriceStore,
		seriesStore:      opts.SeriesStore,
		coefficientStore: opts.CoefficientStore,
		runStore:         opts.RunStore,
		regressionStore:  opts.RegressionStore,
		config:           opts.Config,
		equitySymbol:     opts.EquitySymbol,
		volatilitySymbol: opts.VolatilitySymbol,
		verbose:          opts.Verbose,
		now:              now,
	}
}

// RunResult contains results from orchestrator execution.
type RunResult struct {
	RunID   string
	BestLag int
	Scan    *domain.ScanResult
	Report  *reporting.Report
	Errors  []string
}

// Run executes the full pipeline.
// Phases:
//  1. Load daily prices for both symbols
//  2. Aggregate monthly percentage returns
//  3. Extract shocks from equity returns
//  4. Scan lags (decompose, align, regress)
//  5. Persist run, series, coefficients, regressions
func (o *Orchestrator) Run(ctx context.Context) (*RunResult, error) {
	if err := o.config.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	startedAt := o.now()
	runID := fmt.Sprintf("run-%s", startedAt.Format("20060102-150405"))
	result := &RunResult{RunID: runID, BestLag: -1}

	// Phase 1: Load prices
	o.log("Phase 1: Loading daily prices...")
	phaseStart := o.now()
	equityPrices, err := o.priceStore.GetBySymbol(ctx, o.equitySymbol)
	if err != nil {
		o.recordFailure(ctx, "load", runID, startedAt, phaseStart)
		return nil, fmt.Errorf("phase 1 (load %s) failed: %w", o.equitySymbol, err)
	}
	volPrices, err := o.priceStore.GetBySymbol(ctx, o.volatilitySymbol)
	if err != nil {
		o.recordFailure(ctx, "load", runID, startedAt, phaseStart)
		return nil, fmt.Errorf("phase 1 (load %s) failed: %w", o.volatilitySymbol, err)
	}
	o.recordPhase("load", phaseStart)
	o.log("  Loaded %d %s and %d %s observations",
		equityPrices.Len(), o.equitySymbol, volPrices.Len(), o.volatilitySymbol)

	// Phase 2: Monthly returns
	o.log("Phase 2: Aggregating monthly returns...")
	phaseStart = o.now()
	equityReturns, err := returns.Aggregate(equityPrices)
	if err != nil {
		o.recordFailure(ctx, "returns", runID, startedAt, phaseStart)
		return nil, fmt.Errorf("phase 2 (returns %s) failed: %w", o.equitySymbol, err)
	}
	volReturns, err := returns.Aggregate(volPrices)
	if err != nil {
		o.recordFailure(ctx, "returns", runID, startedAt, phaseStart)
		return nil, fmt.Errorf("phase 2 (returns %s) failed: %w", o.volatilitySymbol, err)
	}
	observability.RecordReturnsDropped(o.equitySymbol, equityReturns.Dropped)
	observability.RecordReturnsDropped(o.volatilitySymbol, volReturns.Dropped)
	o.recordPhase("returns", phaseStart)
	o.log("  %d equity months (%d dropped), %d volatility months (%d dropped)",
		len(equityReturns.Points), equityReturns.Dropped, len(volReturns.Points), volReturns.Dropped)

	// Phase 3: Shock extraction
	o.log("Phase 3: Extracting shocks...")
	phaseStart = o.now()
	extractor := shocks.NewARMAExtractor(o.config.OrderBounds)
	shockSeries, err := extractor.Extract(equityReturns)
	if err != nil {
		o.recordFailure(ctx, "shocks", runID, startedAt, phaseStart)
		return nil, fmt.Errorf("phase 3 (shock extraction) failed: %w", err)
	}
	o.recordPhase("shocks", phaseStart)
	o.log("  Selected %s (AIC %.4f)", shockSeries.Order, shockSeries.AIC)

	// Phase 4: Lag scan
	o.log("Phase 4: Scanning lags...")
	phaseStart = o.now()
	regressor, err := o.buildRegressor()
	if err != nil {
		return nil, err
	}
	decomposer := wavelet.NewHaarDecomposer(o.config.MaxLevel)
	scanner := scan.NewScanner(decomposer, regressor, o.config.DetailLevel)

	scanResult, err := scanner.Scan(shockSeries.Values(), volReturns.Values(), o.config.Lags)
	if err != nil {
		o.recordFailure(ctx, "scan", runID, startedAt, phaseStart)
		return nil, fmt.Errorf("phase 4 (lag scan) failed: %w", err)
	}
	failed := scanResult.Failed()
	var bestR2 float64
	if scanResult.Best != nil {
		bestR2 = scanResult.Best.RSquared
	}
	observability.RecordScan(len(o.config.Lags), len(failed), scanResult.BestLag, bestR2)
	o.recordPhase("scan", phaseStart)
	o.log("  Best lag %d (%d of %d lags failed)", scanResult.BestLag, len(failed), len(o.config.Lags))

	result.Scan = scanResult
	result.BestLag = scanResult.BestLag
	for _, lr := range scanResult.Results {
		if lr.Err != "" {
			result.Errors = append(result.Errors, fmt.Sprintf("lag %d: %s", lr.Lag, lr.Err))
		}
	}

	// Phase 5: Persistence
	o.log("Phase 5: Persisting results...")
	phaseStart = o.now()
	run := &domain.AnalysisRun{
		RunID:       runID,
		StartedAt:   startedAt,
		Method:      o.config.Method,
		DetailLevel: o.config.DetailLevel,
		BestLag:     scanResult.BestLag,
		Status:      domain.RunStatusRunning,
	}
	if err := o.persist(ctx, run, equityReturns, volReturns, shockSeries, volReturns.Values(), scanResult, decomposer); err != nil {
		o.recordFailure(ctx, "persist", runID, startedAt, phaseStart)
		return nil, fmt.Errorf("phase 5 (persist) failed: %w", err)
	}
	o.recordPhase("persist", phaseStart)

	// Build the report from the values already in hand
	result.Report = reporting.NewBuilder().WithClock(o.now).Build(&reporting.Input{
		RunID:             runID,
		Method:            o.config.Method,
		DetailLevel:       o.config.DetailLevel,
		EquityPrices:      equityPrices,
		VolatilityPrices:  volPrices,
		EquityReturns:     equityReturns,
		VolatilityReturns: volReturns,
		Shocks:            shockSeries,
		Scan:              scanResult,
	})
	observability.RecordReportGenerated()
	observability.DefaultMetrics.LastSuccessfulRun.Set(float64(o.now().Unix()))

	o.log("Pipeline completed: run %s, best lag %d", runID, result.BestLag)
	return result, nil
}

// buildRegressor selects the fit strategy from the configured method.
func (o *Orchestrator) buildRegressor() (regression.Regressor, error) {
	switch o.config.Method {
	case domain.FitMethodOLS:
		return regression.NewOLSRegressor(), nil
	case domain.FitMethodBayes:
		return regression.NewBayesRegressor(o.config.Prior, o.config.Seed, o.config.Samples, o.config.Burn), nil
	default:
		return nil, fmt.Errorf("unknown fit method %q", o.config.Method)
	}
}

// persist writes the run record, derived series, detail coefficients and
// per-lag regression outcomes. The run row is inserted as running and only
// marked completed once every other write succeeded, so a partial failure
// never leaves a run that looks complete. Duplicate rows from a re-run of
// the same second are surfaced, not swallowed.
func (o *Orchestrator) persist(
	ctx context.Context,
	run *domain.AnalysisRun,
	equityReturns, volReturns *domain.ReturnSeries,
	shockSeries *domain.ShockSeries,
	volValues []float64,
	scanResult *domain.ScanResult,
	decomposer wavelet.Decomposer,
) error {
	if err := o.runStore.Insert(ctx, run); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	var rows []*domain.SeriesRow
	for _, p := range equityReturns.Points {
		rows = append(rows, &domain.SeriesRow{
			RunID: run.RunID, Symbol: equityReturns.Symbol, Kind: domain.SeriesKindReturn,
			Date: p.Date, Value: p.Value,
		})
	}
	for _, p := range volReturns.Points {
		rows = append(rows, &domain.SeriesRow{
			RunID: run.RunID, Symbol: volReturns.Symbol, Kind: domain.SeriesKindReturn,
			Date: p.Date, Value: p.Value,
		})
	}
	for _, p := range shockSeries.Points {
		rows = append(rows, &domain.SeriesRow{
			RunID: run.RunID, Symbol: shockSeries.Symbol, Kind: domain.SeriesKindShock,
			Date: p.Date, Value: p.Value,
		})
	}
	if err := o.seriesStore.InsertBulk(ctx, rows); err != nil {
		return fmt.Errorf("insert series rows: %w", err)
	}

	// Unshifted decompositions of both scan inputs
	if err := o.persistCoefficients(ctx, run.RunID, seriesShock, shockSeries.Values(), decomposer); err != nil {
		return err
	}
	if err := o.persistCoefficients(ctx, run.RunID, seriesVolatility, volValues, decomposer); err != nil {
		return err
	}

	for _, lr := range scanResult.Results {
		if lr.Result == nil {
			continue
		}
		rec := &domain.RegressionRecord{RunID: run.RunID, Lag: lr.Lag, Result: *lr.Result}
		if err := o.regressionStore.Insert(ctx, rec); err != nil {
			return fmt.Errorf("insert regression for lag %d: %w", lr.Lag, err)
		}
	}

	if err := o.runStore.UpdateStatus(ctx, run.RunID, domain.RunStatusCompleted, run.BestLag); err != nil {
		return fmt.Errorf("mark run completed: %w", err)
	}
	return nil
}

// persistCoefficients stores every detail level of one decomposed series.
func (o *Orchestrator) persistCoefficients(ctx context.Context, runID, series string, values []float64, decomposer wavelet.Decomposer) error {
	decomp, err := decomposer.Decompose(values)
	if err != nil {
		return fmt.Errorf("decompose %s: %w", series, err)
	}

	var rows []*domain.CoefficientRow
	for _, level := range decomp.Details {
		for i, v := range level.Coefficients {
			rows = append(rows, &domain.CoefficientRow{
				RunID: runID, Series: series, Level: level.Level, Index: i, Value: v,
			})
		}
	}
	if err := o.coefficientStore.InsertBulk(ctx, rows); err != nil {
		return fmt.Errorf("insert %s coefficients: %w", series, err)
	}
	return nil
}

// recordFailure persists a failed run record so the attempt is visible.
// A run row already inserted by persist is flipped to failed in place.
func (o *Orchestrator) recordFailure(ctx context.Context, phase, runID string, startedAt, phaseStart time.Time) {
	observability.RecordPhase(phase, "failed", o.now().Sub(phaseStart).Seconds())

	err := o.runStore.UpdateStatus(ctx, runID, domain.RunStatusFailed, -1)
	if errors.Is(err, storage.ErrNotFound) {
		run := &domain.AnalysisRun{
			RunID:       runID,
			StartedAt:   startedAt,
			Method:      o.config.Method,
			DetailLevel: o.config.DetailLevel,
			BestLag:     -1,
			Status:      domain.RunStatusFailed,
		}
		err = o.runStore.Insert(ctx, run)
	}
	if err != nil {
		o.log("  could not record failed run %s: %v", runID, err)
	}
}

func (o *Orchestrator) recordPhase(phase string, start time.Time) {
	observability.RecordPhase(phase, "completed", o.now().Sub(start).Seconds())
}

func (o *Orchestrator) log(format string, args ...interface{}) {
	if o.verbose {
		log.Printf("[orchestrator] "+format, args...)
	}
}
