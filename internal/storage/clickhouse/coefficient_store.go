package clickhouse

import (
	"context"
	"fmt"

	"volatility-shock-lab/internal/domain"
	"volatility-shock-lab/internal/storage"
)

// CoefficientStore implements storage.CoefficientStore using ClickHouse.
type CoefficientStore struct {
	conn *Conn
}

// NewCoefficientStore creates a new CoefficientStore.
func NewCoefficientStore(conn *Conn) *CoefficientStore {
	return &CoefficientStore{conn: conn}
}

// Compile-time interface check.
var _ storage.CoefficientStore = (*CoefficientStore)(nil)

// InsertBulk adds rows. Fails entire batch on duplicate (run_id, series, level, index).
func (s *CoefficientStore) InsertBulk(ctx context.Context, rows []*domain.CoefficientRow) error {
	if len(rows) == 0 {
		return nil
	}

	// Check for intra-batch duplicates
	type key struct {
		runID  string
		series string
		level  int
		index  int
	}
	seen := make(map[key]struct{}, len(rows))
	for _, r := range rows {
		if r == nil || r.RunID == "" || r.Series == "" {
			return storage.ErrInvalidInput
		}
		k := key{r.RunID, r.Series, r.Level, r.Index}
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
		INSERT INTO detail_coefficients (run_id, series, level, idx, value)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, r := range rows {
		if err := batch.Append(r.RunID, r.Series, uint8(r.Level), uint32(r.Index), r.Value); err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByLevel retrieves coefficients for one (run, series, level), ordered by index ASC.
func (s *CoefficientStore) GetByLevel(ctx context.Context, runID, series string, level int) ([]*domain.CoefficientRow, error) {
	query := `
		SELECT run_id, series, level, idx, value
		FROM detail_coefficients
		WHERE run_id = ? AND series = ? AND level = ?
		ORDER BY idx ASC
	`

	rows, err := s.conn.Query(ctx, query, runID, series, uint8(level))
	if err != nil {
		return nil, fmt.Errorf("query by level: %w", err)
	}
	defer rows.Close()

	var result []*domain.CoefficientRow
	for rows.Next() {
		var r domain.CoefficientRow
		var lvl uint8
		var idx uint32

		if err := rows.Scan(&r.RunID, &r.Series, &lvl, &idx, &r.Value); err != nil {
			return nil, fmt.Errorf("scan coefficient row: %w", err)
		}

		r.Level = int(lvl)
		r.Index = int(idx)
		result = append(result, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate coefficient rows: %w", err)
	}

	return result, nil
}

// exists checks if a row with the given key exists.
func (s *CoefficientStore) exists(ctx context.Context, r *domain.CoefficientRow) (bool, error) {
	query := `
		SELECT count(*) FROM detail_coefficients
		WHERE run_id = ? AND series = ? AND level = ? AND idx = ?
	`

	var count uint64
	if err := s.conn.QueryRow(ctx, query, r.RunID, r.Series, uint8(r.Level), uint32(r.Index)).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// chRows is the subset of driver.Rows used by scanners.
type chRows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}
