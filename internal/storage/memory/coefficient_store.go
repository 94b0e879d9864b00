package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"volatility-shock-lab/internal/domain"
	"volatility-shock-lab/internal/storage"
)

// CoefficientStore is an in-memory implementation of storage.CoefficientStore.
type CoefficientStore struct {
	mu   sync.RWMutex
	data map[string]*domain.CoefficientRow // keyed by (run_id, series, level, index)
}

// NewCoefficientStore creates a new in-memory coefficient store.
func NewCoefficientStore() *CoefficientStore {
	return &CoefficientStore{data: make(map[string]*domain.CoefficientRow)}
}

// Compile-time interface check.
var _ storage.CoefficientStore = (*CoefficientStore)(nil)

func coefficientKey(r *domain.CoefficientRow) string {
	return fmt.Sprintf("%s|%s|%d|%d", r.RunID, r.Series, r.Level, r.Index)
}

// InsertBulk adds rows. Fails entire batch on duplicate.
func (s *CoefficientStore) InsertBulk(_ context.Context, rows []*domain.CoefficientRow) error {
	if len(rows) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[string]struct{}, len(rows))
	for _, r := range rows {
		if r == nil || r.RunID == "" || r.Series == "" {
			return storage.ErrInvalidInput
		}
		key := coefficientKey(r)
		if _, exists := s.data[key]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[key]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[key] = struct{}{}
	}

	for _, r := range rows {
		rowCopy := *r
		s.data[coefficientKey(r)] = &rowCopy
	}
	return nil
}

// GetByLevel retrieves coefficients for one (run, series, level), ordered by index ASC.
func (s *CoefficientStore) GetByLevel(_ context.Context, runID, series string, level int) ([]*domain.CoefficientRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.CoefficientRow
	for _, r := range s.data {
		if r.RunID == runID && r.Series == series && r.Level == level {
			rowCopy := *r
			result = append(result, &rowCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool { return result[i].Index < result[j].Index })
	return result, nil
}
