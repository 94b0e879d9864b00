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

func TestSeriesStore_InsertBulkAndGet(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewSeriesStore(conn)
	ctx := context.Background()

	rows := []*domain.SeriesRow{
		{RunID: "r1", Symbol: "SPX", Kind: domain.SeriesKindReturn, Date: chDay(2024, time.February, 29), Value: 5.17},
		{RunID: "r1", Symbol: "SPX", Kind: domain.SeriesKindReturn, Date: chDay(2024, time.January, 31), Value: 1.59},
	}

	require.NoError(t, store.InsertBulk(ctx, rows))

	result, err := store.GetBySeries(ctx, "r1", "SPX", domain.SeriesKindReturn)
	require.NoError(t, err)

	require.Len(t, result, 2)
	// Ordered by date ASC
	assert.True(t, result[0].Date.Equal(chDay(2024, time.January, 31)))
	assert.InDelta(t, 1.59, result[0].Value, 1e-9)
}

func TestSeriesStore_KindsIsolated(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewSeriesStore(conn)
	ctx := context.Background()

	rows := []*domain.SeriesRow{
		{RunID: "r1", Symbol: "SPX", Kind: domain.SeriesKindReturn, Date: chDay(2024, time.January, 31), Value: 1.59},
		{RunID: "r1", Symbol: "SPX", Kind: domain.SeriesKindShock, Date: chDay(2024, time.January, 31), Value: 0.4},
	}

	require.NoError(t, store.InsertBulk(ctx, rows))

	result, err := store.GetBySeries(ctx, "r1", "SPX", domain.SeriesKindShock)
	require.NoError(t, err)

	require.Len(t, result, 1)
	assert.InDelta(t, 0.4, result[0].Value, 1e-9)
}

func TestSeriesStore_DuplicateKey(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewSeriesStore(conn)
	ctx := context.Background()

	rows := []*domain.SeriesRow{
		{RunID: "r1", Symbol: "VIX", Kind: domain.SeriesKindReturn, Date: chDay(2024, time.January, 31), Value: 8.3},
	}

	require.NoError(t, store.InsertBulk(ctx, rows))

	err := store.InsertBulk(ctx, rows)
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestSeriesStore_InvalidInput(t *testing.T) {
	store := NewSeriesStore(nil)

	err := store.InsertBulk(context.Background(), []*domain.SeriesRow{nil})
	assert.ErrorIs(t, err, storage.ErrInvalidInput)
}
