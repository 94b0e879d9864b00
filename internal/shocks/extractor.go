package shocks

import (
	"errors"
	"fmt"

	"volatility-shock-lab/internal/domain"
)

// ErrModelFit is returned when the order search fails to converge for every
// candidate order in the configured bounds.
var ErrModelFit = errors.New("model fit: no candidate order converged")

// Extractor fits a time-series model to a return series and yields the
// residual series as shocks. The fitting algorithm is swappable behind this
// interface without touching callers.
type Extractor interface {
	Extract(series *domain.ReturnSeries) (*domain.ShockSeries, error)
}

// ARMAExtractor selects an ARIMA(p,d,q) specification by AIC over the
// configured bounds and extracts full-length residuals. Ties on AIC resolve
// to the lowest-order candidate by fixed iteration order (d, then p, then q,
// ascending), so repeated runs on identical input are exactly reproducible.
type ARMAExtractor struct {
	bounds domain.OrderBounds
}

// NewARMAExtractor creates an extractor with the given order-search bounds.
func NewARMAExtractor(bounds domain.OrderBounds) *ARMAExtractor {
	return &ARMAExtractor{bounds: bounds}
}

// Compile-time interface check.
var _ Extractor = (*ARMAExtractor)(nil)

// Extract runs the order search and returns the residual series of the best
// fit. The residuals have exactly the same length and date alignment as the
// input; under first differencing the initial residual is defined as zero.
// Returns ErrModelFit if no candidate order can be estimated.
func (e *ARMAExtractor) Extract(series *domain.ReturnSeries) (*domain.ShockSeries, error) {
	y := series.Values()
	n := len(y)

	var best *armaFit

	for d := 0; d <= e.bounds.MaxDiff; d++ {
		w := y
		if d == 1 {
			w = diff(y)
		}
		if len(w) < 2 {
			continue
		}
		longResid := longARResiduals(w)

		for p := 0; p <= e.bounds.MaxAR; p++ {
			for q := 0; q <= e.bounds.MaxMA; q++ {
				_, resid, ok := fitARMA(w, longResid, p, q)
				if !ok {
					continue
				}

				sigma2, loglik, aic, bic := gaussianStats(resid, 1+p+q)

				if d == 1 {
					// Restore alignment with the undifferenced input: the
					// first observation has no prior reference, its residual
					// is defined as zero.
					full := make([]float64, n)
					copy(full[1:], resid)
					resid = full
				}

				if best == nil || aic < best.aic {
					best = &armaFit{
						p: p, d: d, q: q,
						residuals: resid,
						sigma2:    sigma2,
						loglik:    loglik,
						aic:       aic,
						bic:       bic,
					}
				}
			}
		}
	}

	if best == nil {
		return nil, fmt.Errorf("extract shocks from %s (%d observations): %w", series.Symbol, n, ErrModelFit)
	}

	shock := &domain.ShockSeries{
		Symbol: series.Symbol,
		Points: make([]domain.SeriesPoint, n),
		Order:  domain.ModelOrder{AR: best.p, Diff: best.d, MA: best.q},
		AIC:    best.aic,
	}
	for i, p := range series.Points {
		shock.Points[i] = domain.SeriesPoint{Date: p.Date, Value: best.residuals[i]}
	}
	return shock, nil
}
