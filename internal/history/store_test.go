package history

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestAppendAndStats(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, Check{
		ID: "a", Language: "se", TextLen: 100, ErrCount: 2, DurationMS: 1.5,
	}))
	require.NoError(t, store.Append(ctx, Check{
		ID: "b", Language: "se", TextLen: 50, ErrCount: 1, DurationMS: 0.5,
	}))

	stats, err := store.GetStats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.TotalChecks)
	assert.EqualValues(t, 3, stats.TotalErrors)
	assert.InDelta(t, 1.0, stats.AvgDurationMS, 0.001)
	assert.False(t, stats.LastCheckAt.IsZero())
}

func TestStatsEmpty(t *testing.T) {
	store := newTestStore(t)

	stats, err := store.GetStats(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 0, stats.TotalChecks)
	assert.True(t, stats.LastCheckAt.IsZero())
}

func TestPrune(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	old := time.Now().Add(-48 * time.Hour)
	require.NoError(t, store.Append(ctx, Check{ID: "old", Language: "se", CreatedAt: old}))
	require.NoError(t, store.Append(ctx, Check{ID: "new", Language: "se"}))

	n, err := store.Prune(ctx, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	stats, err := store.GetStats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.TotalChecks)
}

func TestDuplicateIDRejected(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, Check{ID: "x", Language: "se"}))
	assert.Error(t, store.Append(ctx, Check{ID: "x", Language: "se"}))
}
