package domain

// DetailLevel holds the detail coefficients of one decomposition level.
// Level 1 is the finest scale (shortest cycle, bi-monthly on monthly data);
// higher levels are progressively coarser.
type DetailLevel struct {
	Level        int
	Coefficients []float64
}

// DecompositionResult is the output of a multi-level wavelet decomposition:
// per-level detail coefficients plus the final approximation sequence.
// With periodic boundary handling, level k has length ceil(N/2^k) for an
// input of length N.
type DecompositionResult struct {
	InputLength   int
	Details       []DetailLevel
	Approximation []float64
}

// Detail returns the coefficients at the given level, or nil if the
// decomposition did not reach that level.
func (d *DecompositionResult) Detail(level int) []float64 {
	for _, dl := range d.Details {
		if dl.Level == level {
			return dl.Coefficients
		}
	}
	return nil
}

// Levels returns the number of decomposition levels produced.
func (d *DecompositionResult) Levels() int { return len(d.Details) }

// AlignedPair holds two equal-length coefficient sequences truncated to their
// shared minimum length, preserving index correspondence from the start of
// each sequence.
type AlignedPair struct {
	Level int
	X     []float64 // independent variable (shock details)
	Y     []float64 // dependent variable (volatility details)
}

// Len returns the shared length of the pair.
func (a *AlignedPair) Len() int { return len(a.X) }
