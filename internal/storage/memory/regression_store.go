package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"volatility-shock-lab/internal/domain"
	"volatility-shock-lab/internal/storage"
)

// RegressionStore is an in-memory implementation of storage.RegressionStore.
type RegressionStore struct {
	mu   sync.RWMutex
	data map[string]*domain.RegressionRecord // keyed by (run_id, lag)
}

// NewRegressionStore creates a new in-memory regression store.
func NewRegressionStore() *RegressionStore {
	return &RegressionStore{data: make(map[string]*domain.RegressionRecord)}
}

// Compile-time interface check.
var _ storage.RegressionStore = (*RegressionStore)(nil)

func regressionKey(runID string, lag int) string {
	return fmt.Sprintf("%s|%d", runID, lag)
}

// Insert adds one record. Returns ErrDuplicateKey if (run_id, lag) exists.
func (s *RegressionStore) Insert(_ context.Context, rec *domain.RegressionRecord) error {
	if rec == nil || rec.RunID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := regressionKey(rec.RunID, rec.Lag)
	if _, exists := s.data[key]; exists {
		return storage.ErrDuplicateKey
	}

	recCopy := *rec
	s.data[key] = &recCopy
	return nil
}

// GetByRun retrieves all records for a run, ordered by lag ASC.
func (s *RegressionStore) GetByRun(_ context.Context, runID string) ([]*domain.RegressionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.RegressionRecord
	for _, rec := range s.data {
		if rec.RunID == runID {
			recCopy := *rec
			result = append(result, &recCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool { return result[i].Lag < result[j].Lag })
	return result, nil
}

// GetByRunAndLag retrieves one record. Returns ErrNotFound if not exists.
func (s *RegressionStore) GetByRunAndLag(_ context.Context, runID string, lag int) (*domain.RegressionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, exists := s.data[regressionKey(runID, lag)]
	if !exists {
		return nil, storage.ErrNotFound
	}

	recCopy := *rec
	return &recCopy, nil
}
