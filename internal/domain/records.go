package domain

import "time"

// Derived-series kinds persisted by the pipeline.
const (
	SeriesKindReturn = "return" // monthly percentage returns
	SeriesKindShock  = "shock"  // ARMA residuals
)

// Run status values.
const (
	RunStatusRunning   = "running" // persistence in progress
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// AnalysisRun records one pipeline execution.
type AnalysisRun struct {
	RunID       string
	StartedAt   time.Time
	Method      string // fit method used for the scan
	DetailLevel int
	BestLag     int // -1 until the scan completes
	Status      string
}

// SeriesRow is one persisted observation of a derived monthly series.
type SeriesRow struct {
	RunID  string
	Symbol string
	Kind   string // SeriesKindReturn or SeriesKindShock
	Date   time.Time
	Value  float64
}

// CoefficientRow is one persisted detail coefficient of a decomposed series.
type CoefficientRow struct {
	RunID  string
	Series string // decomposed series identifier (e.g. "shock", "volatility")
	Level  int
	Index  int // position within the level, from the start of the window
	Value  float64
}

// RegressionRecord is a persisted per-lag regression outcome.
type RegressionRecord struct {
	RunID  string
	Lag    int
	Result RegressionResult
}
