package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"volatility-shock-lab/internal/domain"
	"volatility-shock-lab/internal/storage"
)

// SeriesStore is an in-memory implementation of storage.SeriesStore.
type SeriesStore struct {
	mu   sync.RWMutex
	data map[string]*domain.SeriesRow // keyed by (run_id, symbol, kind, date)
}

// NewSeriesStore creates a new in-memory derived-series store.
func NewSeriesStore() *SeriesStore {
	return &SeriesStore{data: make(map[string]*domain.SeriesRow)}
}

// Compile-time interface check.
var _ storage.SeriesStore = (*SeriesStore)(nil)

func seriesKey(r *domain.SeriesRow) string {
	return fmt.Sprintf("%s|%s|%s|%s", r.RunID, r.Symbol, r.Kind, r.Date.Format("2006-01-02"))
}

// InsertBulk adds rows. Fails entire batch on duplicate.
func (s *SeriesStore) InsertBulk(_ context.Context, rows []*domain.SeriesRow) error {
	if len(rows) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[string]struct{}, len(rows))
	for _, r := range rows {
		if r == nil || r.RunID == "" || r.Symbol == "" || r.Kind == "" {
			return storage.ErrInvalidInput
		}
		key := seriesKey(r)
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
		s.data[seriesKey(r)] = &rowCopy
	}
	return nil
}

// GetBySeries retrieves all rows for one (run, symbol, kind), ordered by date ASC.
func (s *SeriesStore) GetBySeries(_ context.Context, runID, symbol, kind string) ([]*domain.SeriesRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.SeriesRow
	for _, r := range s.data {
		if r.RunID == runID && r.Symbol == symbol && r.Kind == kind {
			rowCopy := *r
			result = append(result, &rowCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result, nil
}
