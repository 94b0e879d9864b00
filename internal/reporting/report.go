package reporting

import "time"

// Report represents the analysis report structure.
type Report struct {
	// Metadata
	GeneratedAt time.Time
	RunID       string
	Method      string
	DetailLevel int

	// Data Summary
	DataSummary DataSummary

	// Shock model
	ShockModel ShockModelSection

	// Per-lag regression outcomes (sorted by lag)
	LagRows []LagRow

	// Best lag by R-squared, -1 if the scan produced no fit
	BestLag int
}

// DataSummary describes the input series.
type DataSummary struct {
	EquitySymbol     string
	VolatilitySymbol string

	EquityDailyObs     int
	VolatilityDailyObs int

	EquityMonths     int
	VolatilityMonths int

	EquityDropped     int
	VolatilityDropped int

	DateRangeStart time.Time
	DateRangeEnd   time.Time
}

// ShockModelSection describes the selected residual model.
type ShockModelSection struct {
	Order string // e.g. "ARIMA(1,0,1)"
	AIC   float64
}

// LagRow represents one row in the lag scan table.
type LagRow struct {
	Lag         int
	Intercept   float64
	Slope       float64
	SlopeStderr float64
	RSquared    float64
	SampleSize  int
	Best        bool
	Err         string // non-empty if the lag failed
}
