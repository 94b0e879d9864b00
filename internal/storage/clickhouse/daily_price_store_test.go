package clickhouse

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"volatility-shock-lab/internal/domain"
	"volatility-shock-lab/internal/storage"
)

func chDay(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDailyPriceStore_InsertBulkAndGet(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewDailyPriceStore(conn)
	ctx := context.Background()

	points := []domain.PricePoint{
		{Date: chDay(2024, time.January, 2), Close: 4742.83},
		{Date: chDay(2024, time.January, 3), Close: 4704.81},
	}

	require.NoError(t, store.InsertBulk(ctx, "SPX", points))

	series, err := store.GetBySymbol(ctx, "SPX")
	require.NoError(t, err)

	require.Len(t, series.Points, 2)
	assert.Equal(t, "SPX", series.Symbol)
	assert.True(t, series.Points[0].Date.Equal(chDay(2024, time.January, 2)))
	assert.InDelta(t, 4742.83, series.Points[0].Close, 1e-9)
}

func TestDailyPriceStore_DuplicateKey(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewDailyPriceStore(conn)
	ctx := context.Background()

	points := []domain.PricePoint{{Date: chDay(2024, time.January, 2), Close: 4742.83}}

	require.NoError(t, store.InsertBulk(ctx, "SPX", points))

	err := store.InsertBulk(ctx, "SPX", points)
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestDailyPriceStore_IntraBatchDuplicate(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewDailyPriceStore(conn)
	ctx := context.Background()

	points := []domain.PricePoint{
		{Date: chDay(2024, time.January, 2), Close: 4742.83},
		{Date: chDay(2024, time.January, 2), Close: 4750.00},
	}

	err := store.InsertBulk(ctx, "SPX", points)
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestDailyPriceStore_GetByDateRange(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewDailyPriceStore(conn)
	ctx := context.Background()

	points := []domain.PricePoint{
		{Date: chDay(2024, time.January, 2), Close: 4742.83},
		{Date: chDay(2024, time.February, 1), Close: 4906.19},
		{Date: chDay(2024, time.March, 1), Close: 5137.08},
	}

	require.NoError(t, store.InsertBulk(ctx, "SPX", points))

	series, err := store.GetByDateRange(ctx, "SPX", chDay(2024, time.January, 15), chDay(2024, time.February, 15))
	require.NoError(t, err)

	require.Len(t, series.Points, 1)
	assert.True(t, series.Points[0].Date.Equal(chDay(2024, time.February, 1)))
}

func TestDailyPriceStore_NotFound(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewDailyPriceStore(conn)

	_, err := store.GetBySymbol(context.Background(), "NDX")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
