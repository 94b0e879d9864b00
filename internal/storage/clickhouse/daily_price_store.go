package clickhouse

import (
	"context"
	"fmt"
	"time"

	"volatility-shock-lab/internal/domain"
	"volatility-shock-lab/internal/storage"
)

// DailyPriceStore implements storage.DailyPriceStore using ClickHouse.
type DailyPriceStore struct {
	conn *Conn
}

// NewDailyPriceStore creates a new DailyPriceStore.
func NewDailyPriceStore(conn *Conn) *DailyPriceStore {
	return &DailyPriceStore{conn: conn}
}

// Compile-time interface check.
var _ storage.DailyPriceStore = (*DailyPriceStore)(nil)

// InsertBulk adds daily closes. Fails entire batch on duplicate (symbol, date).
// MergeTree doesn't enforce uniqueness, so duplicates are checked before insert.
func (s *DailyPriceStore) InsertBulk(ctx context.Context, symbol string, points []domain.PricePoint) error {
	if symbol == "" {
		return storage.ErrInvalidInput
	}
	if len(points) == 0 {
		return nil
	}

	// Check for intra-batch duplicates
	seen := make(map[time.Time]struct{}, len(points))
	for _, p := range points {
		d := p.Date.Truncate(24 * time.Hour)
		if _, exists := seen[d]; exists {
			return storage.ErrDuplicateKey
		}
		seen[d] = struct{}{}
	}

	// Check for duplicates against existing DB rows
	for _, p := range points {
		exists, err := s.exists(ctx, symbol, p.Date)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO daily_prices (symbol, date, close)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, p := range points {
		if err := batch.Append(symbol, p.Date, p.Close); err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetBySymbol retrieves the full series for a symbol, ordered by date ASC.
func (s *DailyPriceStore) GetBySymbol(ctx context.Context, symbol string) (*domain.PriceSeries, error) {
	query := `
		SELECT date, close
		FROM daily_prices
		WHERE symbol = ?
		ORDER BY date ASC
	`

	rows, err := s.conn.Query(ctx, query, symbol)
	if err != nil {
		return nil, fmt.Errorf("query by symbol: %w", err)
	}
	defer rows.Close()

	points, err := scanPricePoints(rows)
	if err != nil {
		return nil, err
	}
	if len(points) == 0 {
		return nil, storage.ErrNotFound
	}

	return &domain.PriceSeries{Symbol: symbol, Points: points}, nil
}

// GetByDateRange retrieves observations within [start, end] (inclusive).
func (s *DailyPriceStore) GetByDateRange(ctx context.Context, symbol string, start, end time.Time) (*domain.PriceSeries, error) {
	query := `
		SELECT date, close
		FROM daily_prices
		WHERE symbol = ? AND date >= ? AND date <= ?
		ORDER BY date ASC
	`

	rows, err := s.conn.Query(ctx, query, symbol, start, end)
	if err != nil {
		return nil, fmt.Errorf("query by date range: %w", err)
	}
	defer rows.Close()

	points, err := scanPricePoints(rows)
	if err != nil {
		return nil, err
	}

	return &domain.PriceSeries{Symbol: symbol, Points: points}, nil
}

// exists checks if an observation with the given key exists.
func (s *DailyPriceStore) exists(ctx context.Context, symbol string, date time.Time) (bool, error) {
	query := `
		SELECT count(*) FROM daily_prices
		WHERE symbol = ? AND date = ?
	`

	var count uint64
	if err := s.conn.QueryRow(ctx, query, symbol, date).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// scanPricePoints scans multiple rows.
func scanPricePoints(rows chRows) ([]domain.PricePoint, error) {
	var points []domain.PricePoint

	for rows.Next() {
		var p domain.PricePoint
		if err := rows.Scan(&p.Date, &p.Close); err != nil {
			return nil, fmt.Errorf("scan daily price row: %w", err)
		}
		p.Date = p.Date.UTC()
		points = append(points, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate daily price rows: %w", err)
	}

	return points, nil
}
