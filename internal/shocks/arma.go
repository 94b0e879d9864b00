// Package shocks fits an autoregressive-moving-average model to a monthly
// return series and extracts the residual (unexplained) component as shocks.
//
// Fitting uses the Hannan-Rissanen regression approach: a long autoregression
// provides proxy innovations, then each candidate ARMA(p,q) is estimated by
// least squares on lagged returns and lagged proxy innovations. Pre-sample
// lagged values are taken as zero, which keeps the residual series exactly
// the same length and alignment as the input and makes the whole procedure
// deterministic: no random initialization, no iterative optimizer.
package shocks

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// sigma2Floor guards the Gaussian log-likelihood against a perfect fit
// (zero residual variance).
const sigma2Floor = 1e-12

// armaFit is the outcome of estimating one candidate order.
type armaFit struct {
	p, d, q   int
	residuals []float64 // same length as the undifferenced input
	sigma2    float64
	loglik    float64
	aic       float64
	bic       float64
}

// fitARMA estimates ARMA(p,q) on w by least squares, using longResid as the
// lagged-innovation proxies. w and longResid must have equal length.
// Returns false if the design is degenerate (singular or too short).
func fitARMA(w, longResid []float64, p, q int) (coef []float64, residuals []float64, ok bool) {
	m := len(w)
	k := 1 + p + q
	if m <= k {
		return nil, nil, false
	}

	a := mat.NewDense(m, k, nil)
	b := mat.NewVecDense(m, nil)
	for t := 0; t < m; t++ {
		a.Set(t, 0, 1)
		for i := 1; i <= p; i++ {
			a.Set(t, i, lagged(w, t-i))
		}
		for j := 1; j <= q; j++ {
			a.Set(t, p+j, lagged(longResid, t-j))
		}
		b.SetVec(t, w[t])
	}

	var beta mat.VecDense
	if err := beta.SolveVec(a, b); err != nil {
		return nil, nil, false
	}

	residuals = make([]float64, m)
	var fitted mat.VecDense
	fitted.MulVec(a, &beta)
	for t := 0; t < m; t++ {
		residuals[t] = w[t] - fitted.AtVec(t)
		if math.IsNaN(residuals[t]) || math.IsInf(residuals[t], 0) {
			return nil, nil, false
		}
	}

	coef = make([]float64, k)
	for i := 0; i < k; i++ {
		coef[i] = beta.AtVec(i)
	}
	return coef, residuals, true
}

// longARResiduals computes proxy innovations from a long autoregression of
// order min(10, len(w)/3). Falls back to mean-centering when the regression
// cannot be solved.
func longARResiduals(w []float64) []float64 {
	m := len(w)
	order := m / 3
	if order > 10 {
		order = 10
	}
	if order < 1 {
		return demean(w)
	}

	a := mat.NewDense(m, 1+order, nil)
	b := mat.NewVecDense(m, nil)
	for t := 0; t < m; t++ {
		a.Set(t, 0, 1)
		for i := 1; i <= order; i++ {
			a.Set(t, i, lagged(w, t-i))
		}
		b.SetVec(t, w[t])
	}

	var beta mat.VecDense
	if err := beta.SolveVec(a, b); err != nil {
		return demean(w)
	}

	var fitted mat.VecDense
	fitted.MulVec(a, &beta)
	resid := make([]float64, m)
	for t := 0; t < m; t++ {
		resid[t] = w[t] - fitted.AtVec(t)
		if math.IsNaN(resid[t]) || math.IsInf(resid[t], 0) {
			return demean(w)
		}
	}
	return resid
}

// lagged returns x[t] with zero pre-sample values for t < 0.
func lagged(x []float64, t int) float64 {
	if t < 0 {
		return 0
	}
	return x[t]
}

func demean(x []float64) []float64 {
	var mean float64
	for _, v := range x {
		mean += v
	}
	if len(x) > 0 {
		mean /= float64(len(x))
	}
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = v - mean
	}
	return out
}

func diff(x []float64) []float64 {
	if len(x) < 2 {
		return nil
	}
	out := make([]float64, len(x)-1)
	for i := 1; i < len(x); i++ {
		out[i-1] = x[i] - x[i-1]
	}
	return out
}

// gaussianStats computes the residual variance, conditional Gaussian
// log-likelihood, and information criteria for a fit with nParams estimated
// coefficients (plus the variance itself).
func gaussianStats(residuals []float64, nParams int) (sigma2, loglik, aic, bic float64) {
	m := len(residuals)
	var rss float64
	for _, r := range residuals {
		rss += r * r
	}
	sigma2 = rss / float64(m)
	if sigma2 < sigma2Floor {
		sigma2 = sigma2Floor
	}
	loglik = -0.5 * float64(m) * (math.Log(2*math.Pi*sigma2) + 1)
	k := float64(nParams + 1)
	aic = 2*k - 2*loglik
	bic = k*math.Log(float64(m)) - 2*loglik
	return sigma2, loglik, aic, bic
}
