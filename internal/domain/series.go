package domain

import (
	"fmt"
	"time"
)

// PricePoint is a single daily observation of an instrument's closing price.
type PricePoint struct {
	Date  time.Time // observation date (UTC, time component ignored)
	Close float64   // closing price
}

// PriceSeries is an ordered daily price series for one instrument.
// Dates are strictly increasing with no duplicates; the series is treated
// as immutable once constructed.
type PriceSeries struct {
	Symbol string
	Points []PricePoint
}

// NewPriceSeries validates ordering and constructs an immutable price series.
// Returns an error if dates are not strictly increasing.
func NewPriceSeries(symbol string, points []PricePoint) (*PriceSeries, error) {
	for i := 1; i < len(points); i++ {
		if !points[i].Date.After(points[i-1].Date) {
			return nil, fmt.Errorf("price series %s: dates not strictly increasing at index %d (%s >= %s)",
				symbol, i, points[i-1].Date.Format("2006-01-02"), points[i].Date.Format("2006-01-02"))
		}
	}
	cp := make([]PricePoint, len(points))
	copy(cp, points)
	return &PriceSeries{Symbol: symbol, Points: cp}, nil
}

// Len returns the number of observations.
func (p *PriceSeries) Len() int { return len(p.Points) }

// SeriesPoint is a single (period-end date, value) observation in a derived
// monthly series.
type SeriesPoint struct {
	Date  time.Time
	Value float64
}

// ReturnSeries is an ordered monthly percentage-return series derived from a
// PriceSeries. Dropped counts observations removed because the return was
// undefined (zero or missing prior price); they are never interpolated.
type ReturnSeries struct {
	Symbol  string
	Points  []SeriesPoint
	Dropped int
}

// Len returns the number of return observations.
func (r *ReturnSeries) Len() int { return len(r.Points) }

// Values returns the return values in order.
func (r *ReturnSeries) Values() []float64 {
	out := make([]float64, len(r.Points))
	for i, p := range r.Points {
		out[i] = p.Value
	}
	return out
}

// ModelOrder identifies a fitted ARMA specification.
type ModelOrder struct {
	AR   int // autoregressive order p
	Diff int // differencing order d
	MA   int // moving-average order q
}

func (o ModelOrder) String() string {
	return fmt.Sprintf("ARIMA(%d,%d,%d)", o.AR, o.Diff, o.MA)
}

// ShockSeries is the residual (unexplained) component of a ReturnSeries after
// removing the part predictable from its own history. It has exactly the same
// length and date alignment as the ReturnSeries it was derived from.
type ShockSeries struct {
	Symbol string
	Points []SeriesPoint
	Order  ModelOrder // order selected by the information-criterion search
	AIC    float64    // information criterion of the selected fit
}

// Len returns the number of residual observations.
func (s *ShockSeries) Len() int { return len(s.Points) }

// Values returns the residual values in order.
func (s *ShockSeries) Values() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Value
	}
	return out
}
