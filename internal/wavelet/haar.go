// Package wavelet implements a multi-level discrete Haar wavelet transform
// with periodic boundary handling, plus alignment of detail coefficients from
// two independently decomposed series.
package wavelet

import (
	"errors"
	"fmt"
	"math"

	"volatility-shock-lab/internal/domain"
)

// ErrInvalidLength is returned when the transform is given a sequence of
// length 0 or 1, for which it is undefined.
var ErrInvalidLength = errors.New("invalid length: wavelet transform requires at least 2 values")

// Decomposer produces a multi-level decomposition of a numeric sequence.
// The algorithm is swappable behind this interface without touching callers.
type Decomposer interface {
	Decompose(values []float64) (*domain.DecompositionResult, error)
}

// HaarDecomposer applies the discrete Haar transform level by level:
// detail = (x_i - x_{i+1}) / sqrt2, approximation = (x_i + x_{i+1}) / sqrt2,
// recursing on the approximation until MaxLevel is reached or the sequence
// length drops to 1. Boundary policy is periodic: an odd-length sequence
// wraps circularly, pairing the final element with the first, so level k has
// length ceil(N/2^k) for any input length N.
type HaarDecomposer struct {
	MaxLevel int
}

// NewHaarDecomposer creates a decomposer with the given maximum level.
func NewHaarDecomposer(maxLevel int) *HaarDecomposer {
	return &HaarDecomposer{MaxLevel: maxLevel}
}

// Compile-time interface check.
var _ Decomposer = (*HaarDecomposer)(nil)

// Decompose runs the transform. Returns ErrInvalidLength for inputs of
// length 0 or 1.
func (h *HaarDecomposer) Decompose(values []float64) (*domain.DecompositionResult, error) {
	if len(values) < 2 {
		return nil, fmt.Errorf("decompose length %d: %w", len(values), ErrInvalidLength)
	}

	result := &domain.DecompositionResult{InputLength: len(values)}

	cur := make([]float64, len(values))
	copy(cur, values)

	for level := 1; level <= h.MaxLevel && len(cur) > 1; level++ {
		detail, approx := haarStep(cur)
		result.Details = append(result.Details, domain.DetailLevel{
			Level:        level,
			Coefficients: detail,
		})
		cur = approx
	}
	result.Approximation = cur

	return result, nil
}

// haarStep performs one level of the transform over a circularly-wrapped
// sequence of length n, producing ceil(n/2) coefficient pairs.
func haarStep(values []float64) (detail, approx []float64) {
	n := len(values)
	pairs := (n + 1) / 2
	detail = make([]float64, pairs)
	approx = make([]float64, pairs)

	for i := 0; i < pairs; i++ {
		a := values[2*i]
		b := values[(2*i+1)%n] // wraps to values[0] when n is odd
		detail[i] = (a - b) / math.Sqrt2
		approx[i] = (a + b) / math.Sqrt2
	}
	return detail, approx
}
