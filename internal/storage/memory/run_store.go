package memory

import (
	"context"
	"sync"

	"volatility-shock-lab/internal/domain"
	"volatility-shock-lab/internal/storage"
)

// RunStore is an in-memory implementation of storage.AnalysisRunStore.
type RunStore struct {
	mu   sync.RWMutex
	data map[string]*domain.AnalysisRun // keyed by run_id
}

// NewRunStore creates a new in-memory analysis run store.
func NewRunStore() *RunStore {
	return &RunStore{data: make(map[string]*domain.AnalysisRun)}
}

// Compile-time interface check.
var _ storage.AnalysisRunStore = (*RunStore)(nil)

// Insert adds a new run. Returns ErrDuplicateKey if run_id exists.
func (s *RunStore) Insert(_ context.Context, run *domain.AnalysisRun) error {
	if run == nil || run.RunID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[run.RunID]; exists {
		return storage.ErrDuplicateKey
	}

	runCopy := *run
	s.data[run.RunID] = &runCopy
	return nil
}

// UpdateStatus sets the status and best lag of an existing run.
// Returns ErrNotFound if run_id does not exist.
func (s *RunStore) UpdateStatus(_ context.Context, runID, status string, bestLag int) error {
	if runID == "" || status == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	run, exists := s.data[runID]
	if !exists {
		return storage.ErrNotFound
	}

	run.Status = status
	run.BestLag = bestLag
	return nil
}

// GetByID retrieves a run. Returns ErrNotFound if not exists.
func (s *RunStore) GetByID(_ context.Context, runID string) (*domain.AnalysisRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, exists := s.data[runID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	runCopy := *run
	return &runCopy, nil
}
