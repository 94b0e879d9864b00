package regression

import (
	"errors"
	"math"
	"testing"

	"volatility-shock-lab/internal/domain"
)

func pairOf(x, y []float64) *domain.AlignedPair {
	return &domain.AlignedPair{Level: 1, X: x, Y: y}
}

func TestOLSFit_ExactLinearRelation(t *testing.T) {
	// y = 2x with no noise: slope 2, intercept 0, R^2 = 1.
	x := []float64{-2, -1, 0, 1, 2, 3, 4}
	y := make([]float64, len(x))
	for i, v := range x {
		y[i] = 2 * v
	}

	res, err := NewOLSRegressor().Fit(pairOf(x, y))
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	if math.Abs(res.Slope-2.0) > 1e-9 {
		t.Errorf("expected slope 2.0, got %f", res.Slope)
	}
	if math.Abs(res.Intercept) > 1e-9 {
		t.Errorf("expected intercept 0.0, got %f", res.Intercept)
	}
	if math.Abs(res.RSquared-1.0) > 1e-9 {
		t.Errorf("expected R^2 1.0, got %f", res.RSquared)
	}
	if res.SampleSize != len(x) {
		t.Errorf("expected sample size %d, got %d", len(x), res.SampleSize)
	}
	if res.Method != domain.FitMethodOLS {
		t.Errorf("expected method %q, got %q", domain.FitMethodOLS, res.Method)
	}
	if res.PriorApplied || res.Prior != nil {
		t.Error("OLS fit must report priors as not applied")
	}
}

func TestOLSFit_NoisyRelation(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	y := []float64{2.1, 3.9, 6.2, 7.8, 10.1, 12.2, 13.8, 16.1}

	res, err := NewOLSRegressor().Fit(pairOf(x, y))
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	if res.Slope < 1.8 || res.Slope > 2.2 {
		t.Errorf("expected slope near 2, got %f", res.Slope)
	}
	if res.RSquared < 0.99 {
		t.Errorf("expected high R^2, got %f", res.RSquared)
	}
	if res.SlopeStderr <= 0 {
		t.Errorf("expected positive slope stderr, got %f", res.SlopeStderr)
	}
	if res.Sigma <= 0 {
		t.Errorf("expected positive residual scale, got %f", res.Sigma)
	}
	if math.IsInf(res.AIC, 0) || math.IsNaN(res.AIC) {
		t.Errorf("AIC not finite: %f", res.AIC)
	}
}

func TestOLSFit_DegenerateInput(t *testing.T) {
	// Constant x must fail typed, not divide by zero.
	x := []float64{3, 3, 3, 3}
	y := []float64{1, 2, 3, 4}

	_, err := NewOLSRegressor().Fit(pairOf(x, y))
	if !errors.Is(err, ErrDegenerateInput) {
		t.Fatalf("expected ErrDegenerateInput, got %v", err)
	}
}

func TestOLSFit_InsufficientSample(t *testing.T) {
	_, err := NewOLSRegressor().Fit(pairOf([]float64{1, 2}, []float64{1, 2}))
	if !errors.Is(err, ErrInsufficientSample) {
		t.Fatalf("expected ErrInsufficientSample, got %v", err)
	}
}

func TestRegressionResult_Predict(t *testing.T) {
	res := &domain.RegressionResult{Intercept: 1.5, Slope: -2}
	if got := res.Predict(3); got != -4.5 {
		t.Errorf("expected prediction -4.5, got %f", got)
	}
}
