package wavelet

import (
	"errors"
	"fmt"

	"volatility-shock-lab/internal/domain"
)

// ErrEmptyAlignment is returned when either detail-level sequence is empty or
// the requested level does not exist in one of the decompositions.
var ErrEmptyAlignment = errors.New("empty alignment: detail level missing or empty")

// Align truncates the detail coefficients of two decompositions at the given
// level to their shared minimum length, taking the first N elements of each.
// Alignment is positional from the start of each sequence, never by
// timestamp; both inputs are assumed to be decompositions of series sampled
// over the same calendar window.
func Align(x, y *domain.DecompositionResult, level int) (*domain.AlignedPair, error) {
	dx := x.Detail(level)
	dy := y.Detail(level)
	if len(dx) == 0 || len(dy) == 0 {
		return nil, fmt.Errorf("align level %d: %w", level, ErrEmptyAlignment)
	}

	n := len(dx)
	if len(dy) < n {
		n = len(dy)
	}

	pair := &domain.AlignedPair{
		Level: level,
		X:     make([]float64, n),
		Y:     make([]float64, n),
	}
	copy(pair.X, dx[:n])
	copy(pair.Y, dy[:n])
	return pair, nil
}
