package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"volatility-shock-lab/internal/domain"
	"volatility-shock-lab/internal/storage"
)

// DailyPriceStore is an in-memory implementation of storage.DailyPriceStore.
type DailyPriceStore struct {
	mu   sync.RWMutex
	data map[string]domain.PricePoint // keyed by (symbol, date)
}

// NewDailyPriceStore creates a new in-memory daily price store.
func NewDailyPriceStore() *DailyPriceStore {
	return &DailyPriceStore{data: make(map[string]domain.PricePoint)}
}

// Compile-time interface check.
var _ storage.DailyPriceStore = (*DailyPriceStore)(nil)

func priceKey(symbol string, date time.Time) string {
	return fmt.Sprintf("%s|%s", symbol, date.Format("2006-01-02"))
}

// InsertBulk adds daily closes. Fails entire batch on duplicate (symbol, date).
func (s *DailyPriceStore) InsertBulk(_ context.Context, symbol string, points []domain.PricePoint) error {
	if symbol == "" {
		return storage.ErrInvalidInput
	}
	if len(points) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[string]struct{}, len(points))
	for _, p := range points {
		key := priceKey(symbol, p.Date)
		if _, exists := s.data[key]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[key]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[key] = struct{}{}
	}

	for _, p := range points {
		s.data[priceKey(symbol, p.Date)] = p
	}
	return nil
}

// GetBySymbol retrieves the full series for a symbol, ordered by date ASC.
func (s *DailyPriceStore) GetBySymbol(_ context.Context, symbol string) (*domain.PriceSeries, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	prefix := symbol + "|"
	var points []domain.PricePoint
	for key, p := range s.data {
		if len(key) > len(prefix) && key[:len(prefix)] == prefix {
			points = append(points, p)
		}
	}
	if len(points) == 0 {
		return nil, storage.ErrNotFound
	}

	sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
	return &domain.PriceSeries{Symbol: symbol, Points: points}, nil
}

// GetByDateRange retrieves observations within [start, end] (inclusive).
func (s *DailyPriceStore) GetByDateRange(ctx context.Context, symbol string, start, end time.Time) (*domain.PriceSeries, error) {
	series, err := s.GetBySymbol(ctx, symbol)
	if err != nil {
		return nil, err
	}

	var points []domain.PricePoint
	for _, p := range series.Points {
		if !p.Date.Before(start) && !p.Date.After(end) {
			points = append(points, p)
		}
	}
	return &domain.PriceSeries{Symbol: symbol, Points: points}, nil
}
