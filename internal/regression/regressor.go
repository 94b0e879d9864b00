// Package regression fits y_i ~ Normal(b0 + b1*x_i, sigma^2) on an aligned
// coefficient pair. Two interchangeable strategies implement the same
// Regressor contract: a closed-form frequentist least-squares fit and a
// seeded Bayesian sampler. Callers select an implementation without branching
// on fit type downstream.
package regression

import (
	"errors"

	"volatility-shock-lab/internal/domain"
)

// Regression errors.
var (
	// ErrInsufficientSample is returned when fewer than 3 aligned points are
	// supplied.
	ErrInsufficientSample = errors.New("insufficient sample: regression requires at least 3 points")

	// ErrDegenerateInput is returned when the independent variable has zero
	// variance.
	ErrDegenerateInput = errors.New("degenerate input: independent variable has zero variance")
)

// minSample is the smallest aligned-pair length a regression accepts.
const minSample = 3

// Regressor fits a linear Gaussian regression on an aligned pair.
type Regressor interface {
	Fit(pair *domain.AlignedPair) (*domain.RegressionResult, error)
}

// validatePair applies the shared input checks for both strategies.
func validatePair(pair *domain.AlignedPair) error {
	if pair.Len() < minSample {
		return ErrInsufficientSample
	}
	if !hasVariance(pair.X) {
		return ErrDegenerateInput
	}
	return nil
}

func hasVariance(x []float64) bool {
	for i := 1; i < len(x); i++ {
		if x[i] != x[0] {
			return true
		}
	}
	return false
}
