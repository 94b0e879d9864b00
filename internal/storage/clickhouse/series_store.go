package clickhouse

import (
	"context"
	"fmt"

	"volatility-shock-lab/internal/domain"
	"volatility-shock-lab/internal/storage"
)

// SeriesStore implements storage.SeriesStore using ClickHouse.
type SeriesStore struct {
	conn *Conn
}

// NewSeriesStore creates a new SeriesStore.
func NewSeriesStore(conn *Conn) *SeriesStore {
	return &SeriesStore{conn: conn}
}

// Compile-time interface check.
var _ storage.SeriesStore = (*SeriesStore)(nil)

// InsertBulk adds rows. Fails entire batch on duplicate (run_id, symbol, kind, date).
func (s *SeriesStore) InsertBulk(ctx context.Context, rows []*domain.SeriesRow) error {
	if len(rows) == 0 {
		return nil
	}

	// Check for intra-batch duplicates
	type key struct {
		runID  string
		symbol string
		kind   string
		date   string
	}
	seen := make(map[key]struct{}, len(rows))
	for _, r := range rows {
		if r == nil || r.RunID == "" || r.Symbol == "" || r.Kind == "" {
			return storage.ErrInvalidInput
		}
		k := key{r.RunID, r.Symbol, r.Kind, r.Date.Format("2006-01-02")}
		if _, exists := seen[k]; exists {
			return storage.ErrDuplicateKey
		}
		seen[k] = struct{}{}
	}

	// Check for duplicates against existing DB rows
	for _, r := range rows {
		exists, err := s.exists(ctx, r)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO series_points (run_id, symbol, kind, date, value)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, r := range rows {
		if err := batch.Append(r.RunID, r.Symbol, r.Kind, r.Date, r.Value); err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetBySeries retrieves all rows for one (run, symbol, kind), ordered by date ASC.
func (s *SeriesStore) GetBySeries(ctx context.Context, runID, symbol, kind string) ([]*domain.SeriesRow, error) {
	query := `
		SELECT run_id, symbol, kind, date, value
		FROM series_points
		WHERE run_id = ? AND symbol = ? AND kind = ?
		ORDER BY date ASC
	`

	rows, err := s.conn.Query(ctx, query, runID, symbol, kind)
	if err != nil {
		return nil, fmt.Errorf("query by series: %w", err)
	}
	defer rows.Close()

	var result []*domain.SeriesRow
	for rows.Next() {
		var r domain.SeriesRow
		if err := rows.Scan(&r.RunID, &r.Symbol, &r.Kind, &r.Date, &r.Value); err != nil {
			return nil, fmt.Errorf("scan series row: %w", err)
		}
		r.Date = r.Date.UTC()
		result = append(result, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate series rows: %w", err)
	}

	return result, nil
}

// exists checks if a row with the given key exists.
func (s *SeriesStore) exists(ctx context.Context, r *domain.SeriesRow) (bool, error) {
	query := `
		SELECT count(*) FROM series_points
		WHERE run_id = ? AND symbol = ? AND kind = ? AND date = ?
	`

	var count uint64
	if err := s.conn.QueryRow(ctx, query, r.RunID, r.Symbol, r.Kind, r.Date).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}
