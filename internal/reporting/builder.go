package reporting

import (
	"time"

	"volatility-shock-lab/internal/domain"
)

// Input carries everything the report needs. Values are passed explicitly
// rather than read back from stores so a report can be built mid-pipeline.
type Input struct {
	RunID  string
	Method string

	DetailLevel int

	EquityPrices     *domain.PriceSeries
	VolatilityPrices *domain.PriceSeries

	EquityReturns     *domain.ReturnSeries
	VolatilityReturns *domain.ReturnSeries

	Shocks *domain.ShockSeries

	Scan *domain.ScanResult
}

// Builder produces reports from pipeline outputs.
type Builder struct {
	now func() time.Time // Injectable clock for deterministic output
}

// NewBuilder creates a new report builder.
func NewBuilder() *Builder {
	return &Builder{
		now: func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.now = now
	return b
}

// Build assembles a complete report.
func (b *Builder) Build(in *Input) *Report {
	r := &Report{
		GeneratedAt: b.now(),
		RunID:       in.RunID,
		Method:      in.Method,
		DetailLevel: in.DetailLevel,
		BestLag:     -1,
	}

	r.DataSummary = buildDataSummary(in)

	if in.Shocks != nil {
		r.ShockModel = ShockModelSection{
			Order: in.Shocks.Order.String(),
			AIC:   in.Shocks.AIC,
		}
	}

	if in.Scan != nil {
		r.BestLag = in.Scan.BestLag
		r.LagRows = buildLagRows(in.Scan)
	}

	return r
}

// buildDataSummary describes the raw and derived input series.
func buildDataSummary(in *Input) DataSummary {
	var s DataSummary

	if in.EquityPrices != nil {
		s.EquitySymbol = in.EquityPrices.Symbol
		s.EquityDailyObs = in.EquityPrices.Len()

		if n := len(in.EquityPrices.Points); n > 0 {
			s.DateRangeStart = in.EquityPrices.Points[0].Date
			s.DateRangeEnd = in.EquityPrices.Points[n-1].Date
		}
	}

	if in.VolatilityPrices != nil {
		s.VolatilitySymbol = in.VolatilityPrices.Symbol
		s.VolatilityDailyObs = in.VolatilityPrices.Len()

		// Widen the date range to cover both series
		if n := len(in.VolatilityPrices.Points); n > 0 {
			first := in.VolatilityPrices.Points[0].Date
			last := in.VolatilityPrices.Points[n-1].Date
			if s.DateRangeStart.IsZero() || first.Before(s.DateRangeStart) {
				s.DateRangeStart = first
			}
			if last.After(s.DateRangeEnd) {
				s.DateRangeEnd = last
			}
		}
	}

	if in.EquityReturns != nil {
		s.EquityMonths = len(in.EquityReturns.Points)
		s.EquityDropped = in.EquityReturns.Dropped
	}
	if in.VolatilityReturns != nil {
		s.VolatilityMonths = len(in.VolatilityReturns.Points)
		s.VolatilityDropped = in.VolatilityReturns.Dropped
	}

	return s
}

// buildLagRows flattens scan results into table rows. Results arrive
// ordered by lag already.
func buildLagRows(scan *domain.ScanResult) []LagRow {
	rows := make([]LagRow, 0, len(scan.Results))
	for _, lr := range scan.Results {
		row := LagRow{Lag: lr.Lag, Err: lr.Err}
		if lr.Result != nil {
			row.Intercept = lr.Result.Intercept
			row.Slope = lr.Result.Slope
			row.SlopeStderr = lr.Result.SlopeStderr
			row.RSquared = lr.Result.RSquared
			row.SampleSize = lr.Result.SampleSize
			row.Best = lr.Lag == scan.BestLag && scan.Best != nil
		}
		rows = append(rows, row)
	}
	return rows
}
