// Package ingestion loads daily closing prices from provider CSV exports,
// either local files or HTTP endpoints. Expected layout is a header row
// followed by date,close records (extra columns are ignored), the format
// used by common market-data download endpoints.
package ingestion

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"volatility-shock-lab/internal/domain"
)

// ErrNoObservations is returned when a source yields no parseable rows.
var ErrNoObservations = errors.New("no observations parsed from source")

// dateLayouts tried in order when parsing the date column.
var dateLayouts = []string{"2006-01-02", "2006/01/02", "01/02/2006"}

// LoadResult reports what a load produced. Malformed rows are rejected and
// counted, never silently coerced.
type LoadResult struct {
	Series   *domain.PriceSeries
	Rejected int
}

// ReadCSV parses (date, close) rows from r into a validated PriceSeries.
// Rows are sorted by date before validation, so providers that emit
// newest-first exports are accepted.
func ReadCSV(r io.Reader, symbol string) (*LoadResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	var points []domain.PricePoint
	rejected := 0
	first := true

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv for %s: %w", symbol, err)
		}
		if first {
			first = false
			// Header row: skipped without counting as rejected.
			if _, ok := parseRow(record); !ok {
				continue
			}
		}

		point, ok := parseRow(record)
		if !ok {
			rejected++
			continue
		}
		points = append(points, point)
	}

	if len(points) == 0 {
		return nil, fmt.Errorf("load %s: %w", symbol, ErrNoObservations)
	}

	sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })

	series, err := domain.NewPriceSeries(symbol, points)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", symbol, err)
	}
	return &LoadResult{Series: series, Rejected: rejected}, nil
}

// LoadFile reads a CSV file from disk.
func LoadFile(path, symbol string) (*LoadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadCSV(f, symbol)
}

// Fetch downloads a CSV export from a provider endpoint.
func Fetch(ctx context.Context, client *http.Client, url, symbol string) (*LoadResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", symbol, err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", symbol, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", symbol, resp.StatusCode)
	}
	return ReadCSV(resp.Body, symbol)
}

// parseRow extracts (date, close) from one record.
func parseRow(record []string) (domain.PricePoint, bool) {
	if len(record) < 2 {
		return domain.PricePoint{}, false
	}

	var date time.Time
	parsed := false
	raw := strings.TrimSpace(record[0])
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, raw); err == nil {
			date = d.UTC()
			parsed = true
			break
		}
	}
	if !parsed {
		return domain.PricePoint{}, false
	}

	closePrice, err := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
	if err != nil {
		return domain.PricePoint{}, false
	}

	return domain.PricePoint{Date: date, Close: closePrice}, true
}
