package domain

import "fmt"

// OrderBounds bounds the ARMA order search.
type OrderBounds struct {
	MaxAR   int // maximum autoregressive order (inclusive)
	MaxMA   int // maximum moving-average order (inclusive)
	MaxDiff int // maximum differencing order (inclusive, 0 or 1)
}

// AnalysisConfig holds the fixed configuration of one pipeline run.
// The wavelet filter is fixed to Haar and the boundary policy to periodic;
// neither is configurable.
type AnalysisConfig struct {
	MaxLevel    int   // maximum wavelet decomposition level, bounded by series length
	DetailLevel int   // detail level used for alignment and regression
	Lags        []int // lag values to scan, ascending

	OrderBounds OrderBounds
	Prior       PriorConfig
	Method      string // FitMethodOLS or FitMethodBayes

	// Bayesian sampler settings; ignored under the OLS method.
	Seed    int64
	Samples int
	Burn    int
}

// DefaultAnalysisConfig returns the standard configuration: decomposition to
// level 7, regression on level-1 details, lags 0-4, Normal(0,10) coefficient
// priors with an Exponential(1) scale prior, and an ARMA search over
// p,q in 0-5 with optional first differencing.
func DefaultAnalysisConfig() AnalysisConfig {
	return AnalysisConfig{
		MaxLevel:    7,
		DetailLevel: 1,
		Lags:        []int{0, 1, 2, 3, 4},
		OrderBounds: OrderBounds{MaxAR: 5, MaxMA: 5, MaxDiff: 1},
		Prior:       PriorConfig{CoefScale: 10, SigmaRate: 1},
		Method:      FitMethodOLS,
		Seed:        42,
		Samples:     5000,
		Burn:        1000,
	}
}

// Validate checks configuration invariants.
func (c AnalysisConfig) Validate() error {
	if c.MaxLevel < 1 {
		return fmt.Errorf("max level must be >= 1, got %d", c.MaxLevel)
	}
	if c.DetailLevel < 1 || c.DetailLevel > c.MaxLevel {
		return fmt.Errorf("detail level %d outside [1, %d]", c.DetailLevel, c.MaxLevel)
	}
	if len(c.Lags) == 0 {
		return fmt.Errorf("at least one lag is required")
	}
	for i, lag := range c.Lags {
		if lag < 0 {
			return fmt.Errorf("lag must be >= 0, got %d", lag)
		}
		if i > 0 && lag <= c.Lags[i-1] {
			return fmt.Errorf("lags must be strictly ascending, got %v", c.Lags)
		}
	}
	if c.OrderBounds.MaxAR < 0 || c.OrderBounds.MaxMA < 0 {
		return fmt.Errorf("order bounds must be >= 0, got AR=%d MA=%d", c.OrderBounds.MaxAR, c.OrderBounds.MaxMA)
	}
	if c.OrderBounds.MaxDiff < 0 || c.OrderBounds.MaxDiff > 1 {
		return fmt.Errorf("max differencing must be 0 or 1, got %d", c.OrderBounds.MaxDiff)
	}
	switch c.Method {
	case FitMethodOLS, FitMethodBayes:
	default:
		return fmt.Errorf("unknown fit method %q", c.Method)
	}
	if c.Method == FitMethodBayes {
		if c.Prior.CoefScale <= 0 {
			return fmt.Errorf("coefficient prior scale must be > 0, got %g", c.Prior.CoefScale)
		}
		if c.Prior.SigmaRate <= 0 {
			return fmt.Errorf("sigma prior rate must be > 0, got %g", c.Prior.SigmaRate)
		}
		if c.Samples <= 0 || c.Burn < 0 || c.Burn >= c.Samples {
			return fmt.Errorf("invalid sampler settings: samples=%d burn=%d", c.Samples, c.Burn)
		}
	}
	return nil
}
