package regression

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"volatility-shock-lab/internal/domain"
)

// sigma2Floor guards the Gaussian log-likelihood against a perfect fit.
const sigma2Floor = 1e-12

// OLSRegressor is the closed-form frequentist fit. The configured priors are
// no-ops under this strategy: the result carries PriorApplied=false and a nil
// Prior so the degradation is visible to consumers rather than silent.
type OLSRegressor struct{}

// NewOLSRegressor creates the least-squares strategy.
func NewOLSRegressor() *OLSRegressor {
	return &OLSRegressor{}
}

// Compile-time interface check.
var _ Regressor = (*OLSRegressor)(nil)

// Fit computes the least-squares estimates with classical standard errors.
func (o *OLSRegressor) Fit(pair *domain.AlignedPair) (*domain.RegressionResult, error) {
	if err := validatePair(pair); err != nil {
		return nil, fmt.Errorf("ols fit (%d points): %w", pair.Len(), err)
	}

	x, y := pair.X, pair.Y
	n := len(x)
	fn := float64(n)

	alpha, beta := stat.LinearRegression(x, y, nil, false)

	xMean := stat.Mean(x, nil)
	var sxx, rss, tss float64
	yMean := stat.Mean(y, nil)
	for i := 0; i < n; i++ {
		dx := x[i] - xMean
		sxx += dx * dx
		r := y[i] - (alpha + beta*x[i])
		rss += r * r
		dy := y[i] - yMean
		tss += dy * dy
	}

	// Residual scale with the usual n-2 degrees of freedom.
	sigma := math.Sqrt(rss / float64(n-2))
	slopeSE := sigma / math.Sqrt(sxx)
	interceptSE := sigma * math.Sqrt(1/fn+xMean*xMean/sxx)

	r2 := 0.0
	switch {
	case tss > 0:
		r2 = 1 - rss/tss
	case rss <= sigma2Floor:
		r2 = 1 // flat dependent variable fitted exactly
	}

	sigma2 := rss / fn
	if sigma2 < sigma2Floor {
		sigma2 = sigma2Floor
	}
	loglik := -0.5 * fn * (math.Log(2*math.Pi*sigma2) + 1)
	const k = 3 // intercept, slope, sigma
	aic := 2*k - 2*loglik
	bic := k*math.Log(fn) - 2*loglik

	return &domain.RegressionResult{
		Method:          domain.FitMethodOLS,
		Intercept:       alpha,
		Slope:           beta,
		InterceptStderr: interceptSE,
		SlopeStderr:     slopeSE,
		Sigma:           sigma,
		RSquared:        r2,
		SampleSize:      n,
		LogLikelihood:   loglik,
		AIC:             aic,
		BIC:             bic,
		PriorApplied:    false,
	}, nil
}
