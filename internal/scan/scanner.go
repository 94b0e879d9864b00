// Package scan repeats decomposition, alignment, and regression across a set
// of time lags to identify the lag with the strongest shock-volatility
// association.
package scan

import (
	"fmt"

	"volatility-shock-lab/internal/domain"
	"volatility-shock-lab/internal/regression"
	"volatility-shock-lab/internal/shocks"
	"volatility-shock-lab/internal/wavelet"
)

// Scanner runs the per-lag analysis. Pure orchestration over the decomposer
// and regressor strategies; it holds no mutable state between scans.
type Scanner struct {
	decomposer  wavelet.Decomposer
	regressor   regression.Regressor
	detailLevel int
}

// NewScanner creates a scanner regressing the given detail level.
func NewScanner(decomposer wavelet.Decomposer, regressor regression.Regressor, detailLevel int) *Scanner {
	return &Scanner{
		decomposer:  decomposer,
		regressor:   regressor,
		detailLevel: detailLevel,
	}
}

// Scan shifts the volatility series forward by each lag (pairing shock_t with
// vol_{t+lag} and dropping the non-overlapping tail), decomposes both,
// aligns the configured detail level, and regresses volatility details on
// shock details.
//
// A failure at one lag is recorded against that lag and does not abort the
// scan; if every lag fails, the scan itself fails with shocks.ErrModelFit.
// Best lag is the maximum R-squared, ties broken by the smallest lag.
func (s *Scanner) Scan(shockValues, volValues []float64, lags []int) (*domain.ScanResult, error) {
	result := &domain.ScanResult{BestLag: -1}

	for _, lag := range lags {
		res, err := s.scanLag(shockValues, volValues, lag)
		if err != nil {
			result.Results = append(result.Results, domain.LagResult{Lag: lag, Err: err.Error()})
			continue
		}
		result.Results = append(result.Results, domain.LagResult{Lag: lag, Result: res})

		// Strict improvement only: on an exact R-squared tie the earlier
		// (smaller) lag is kept.
		if result.Best == nil || res.RSquared > result.Best.RSquared {
			result.Best = res
			result.BestLag = lag
		}
	}

	if result.Best == nil {
		return nil, fmt.Errorf("lag scan: all %d lags failed: %w", len(lags), shocks.ErrModelFit)
	}
	return result, nil
}

// scanLag runs one decomposition + alignment + regression at the given lag.
func (s *Scanner) scanLag(shockValues, volValues []float64, lag int) (*domain.RegressionResult, error) {
	if lag < 0 || lag >= len(volValues) {
		return nil, fmt.Errorf("lag %d out of range for volatility series length %d", lag, len(volValues))
	}
	shifted := volValues[lag:]

	n := len(shockValues)
	if len(shifted) < n {
		n = len(shifted)
	}

	shockDecomp, err := s.decomposer.Decompose(shockValues[:n])
	if err != nil {
		return nil, fmt.Errorf("decompose shocks at lag %d: %w", lag, err)
	}
	volDecomp, err := s.decomposer.Decompose(shifted[:n])
	if err != nil {
		return nil, fmt.Errorf("decompose volatility at lag %d: %w", lag, err)
	}

	pair, err := wavelet.Align(shockDecomp, volDecomp, s.detailLevel)
	if err != nil {
		return nil, fmt.Errorf("align at lag %d: %w", lag, err)
	}

	res, err := s.regressor.Fit(pair)
	if err != nil {
		return nil, fmt.Errorf("regress at lag %d: %w", lag, err)
	}
	return res, nil
}
