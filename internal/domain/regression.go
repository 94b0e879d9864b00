package domain

// Fit method identifiers for RegressionResult.Method.
const (
	FitMethodOLS   = "ols"
	FitMethodBayes = "bayes"
)

// PriorConfig holds the prior parameters for the Bayesian regression fit.
// CoefScale is the standard deviation of the Normal(0, scale) prior on the
// intercept and slope; SigmaRate is the rate of the Exponential prior on the
// noise scale.
type PriorConfig struct {
	CoefScale float64 `json:"coef_scale"`
	SigmaRate float64 `json:"sigma_rate"`
}

// RegressionResult is the shared output contract of every Regressor
// implementation. Under the OLS fit the uncertainty fields are classical
// standard errors; under the Bayesian fit they are posterior standard
// deviations and DIC is populated.
type RegressionResult struct {
	Method string `json:"method"`

	Intercept       float64 `json:"intercept"`
	Slope           float64 `json:"slope"`
	InterceptStderr float64 `json:"intercept_stderr"`
	SlopeStderr     float64 `json:"slope_stderr"`
	Sigma           float64 `json:"sigma"` // residual/error scale estimate

	RSquared      float64 `json:"r_squared"`
	SampleSize    int     `json:"sample_size"`
	LogLikelihood float64 `json:"log_likelihood"`
	AIC           float64 `json:"aic"`
	BIC           float64 `json:"bic"`
	DIC           float64 `json:"dic,omitempty"` // Bayesian fit only

	// PriorApplied reports whether the configured priors influenced the fit.
	// The OLS strategy sets it to false: priors degrade to no-ops there and
	// Prior is left nil rather than echoed.
	PriorApplied bool         `json:"prior_applied"`
	Prior        *PriorConfig `json:"prior,omitempty"`
}

// Predict returns the fitted value at x.
func (r *RegressionResult) Predict(x float64) float64 {
	return r.Intercept + r.Slope*x
}
