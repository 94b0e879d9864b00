// Package returns converts daily price series into monthly percentage-return
// series. Aggregation selects the last observation of each calendar month as
// that month's representative close.
package returns

import (
	"errors"
	"fmt"
	"math"
	"time"

	"volatility-shock-lab/internal/domain"
)

// ErrInsufficientData is returned when fewer than two monthly observations
// exist, so no return can be computed.
var ErrInsufficientData = errors.New("insufficient data: need at least 2 monthly observations")

// MonthlyCloses selects the last observation in each calendar month.
// Applying it to an already-monthly series returns the same series unchanged.
func MonthlyCloses(prices *domain.PriceSeries) *domain.PriceSeries {
	var points []domain.PricePoint
	for _, p := range prices.Points {
		if len(points) > 0 && sameMonth(points[len(points)-1].Date, p.Date) {
			points[len(points)-1] = p
			continue
		}
		points = append(points, p)
	}
	return &domain.PriceSeries{Symbol: prices.Symbol, Points: points}
}

// Aggregate converts a daily price series into a monthly percentage-return
// series: return_t = (close_t - close_{t-1}) / close_{t-1} * 100 over
// consecutive monthly closes. Each return carries the period-end date of its
// month. Undefined returns (zero or non-finite prior close) are dropped and
// counted in ReturnSeries.Dropped, never interpolated.
func Aggregate(prices *domain.PriceSeries) (*domain.ReturnSeries, error) {
	monthly := MonthlyCloses(prices)
	if monthly.Len() < 2 {
		return nil, fmt.Errorf("aggregate %s: %w (got %d)", prices.Symbol, ErrInsufficientData, monthly.Len())
	}

	series := &domain.ReturnSeries{Symbol: prices.Symbol}
	for i := 1; i < monthly.Len(); i++ {
		prev := monthly.Points[i-1].Close
		cur := monthly.Points[i]
		if prev == 0 || !isFinite(prev) || !isFinite(cur.Close) {
			series.Dropped++
			continue
		}
		r := (cur.Close - prev) / prev * 100
		if !isFinite(r) {
			series.Dropped++
			continue
		}
		series.Points = append(series.Points, domain.SeriesPoint{Date: cur.Date, Value: r})
	}
	return series, nil
}

func sameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
