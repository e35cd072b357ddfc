package cache

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cbwatch/thundercloud-alerts/internal/models"
	"github.com/cbwatch/thundercloud-alerts/internal/observability"
	"github.com/cbwatch/thundercloud-alerts/internal/repository"
)

func newTestCache(t *testing.T, ttl time.Duration) (*Cache, *clockwork.FakeClock) {
	t.Helper()
	db, err := repository.NewSQLiteDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	clock := clockwork.NewFakeClock()
	metrics := observability.NewMetrics(prometheus.NewRegistry())
	return New(db, ttl, clock, metrics), clock
}

func TestCache_GetSetRoundTrip(t *testing.T) {
	c, _ := newTestCache(t, 5*time.Minute)
	ctx := context.Background()

	ind := models.IndicatorSet{CAPE: 1800, LiftedIndex: -5, Temperature: 29, CloudCover: 65}
	c.Set(ctx, 35.6762, 139.6503, ind)

	// Reads through any coordinate that rounds to the same key.
	got, ok := c.Get(ctx, 35.68, 139.65)
	require.True(t, ok, "expected cache hit")
	assert.Equal(t, ind, got)
}

func TestCache_TTLBoundaries(t *testing.T) {
	c, clock := newTestCache(t, 5*time.Minute)
	ctx := context.Background()

	c.Set(ctx, 1, 1, models.IndicatorSet{CAPE: 100})

	// Hit just inside the TTL.
	clock.Advance(4*time.Minute + 59*time.Second)
	_, ok := c.Get(ctx, 1, 1)
	assert.True(t, ok, "expected hit at T+4m59s")

	// Age exactly TTL is already a miss.
	clock.Advance(1 * time.Second)
	_, ok = c.Get(ctx, 1, 1)
	assert.False(t, ok, "expected miss at exactly T+5m")
}

func TestCache_TTLMissAfterExpiry(t *testing.T) {
	c, clock := newTestCache(t, 5*time.Minute)
	ctx := context.Background()

	c.Set(ctx, 1, 1, models.IndicatorSet{CAPE: 100})
	clock.Advance(5*time.Minute + 1*time.Second)

	_, ok := c.Get(ctx, 1, 1)
	assert.False(t, ok, "expected miss at T+5m01s")
}

func TestCache_MissWhenAbsent(t *testing.T) {
	c, _ := newTestCache(t, 5*time.Minute)

	_, ok := c.Get(context.Background(), 99, 99)
	assert.False(t, ok)
}

func TestCache_DirectionalRoundTrip(t *testing.T) {
	c, _ := newTestCache(t, 5*time.Minute)
	ctx := context.Background()

	data := models.DirectionalData{
		models.DirectionNorth: {
			50:  {CAPE: 500},
			160: {CAPE: 1500, Temperature: 28},
			250: {CAPE: 2500},
		},
		models.DirectionWest: {
			50: {LiftedIndex: -4, Temperature: 26},
		},
	}
	c.SetDirectional(ctx, 35.68, 139.65, data)

	got, ok := c.GetDirectional(ctx, 35.68, 139.65)
	require.True(t, ok, "expected directional hit")
	assert.Equal(t, data, got)

	// Directional and single entries use distinct keys.
	_, ok = c.Get(ctx, 35.68, 139.65)
	assert.False(t, ok, "single-point key must not alias the directional entry")
}

func TestCache_DirectionalExpires(t *testing.T) {
	c, clock := newTestCache(t, 5*time.Minute)
	ctx := context.Background()

	c.SetDirectional(ctx, 1, 1, models.DirectionalData{models.DirectionNorth: {50: {CAPE: 1}}})
	clock.Advance(6 * time.Minute)

	_, ok := c.GetDirectional(ctx, 1, 1)
	assert.False(t, ok)
}

func TestCache_SetOverwrites(t *testing.T) {
	c, clock := newTestCache(t, 5*time.Minute)
	ctx := context.Background()

	c.Set(ctx, 1, 1, models.IndicatorSet{CAPE: 1})
	clock.Advance(4 * time.Minute)
	c.Set(ctx, 1, 1, models.IndicatorSet{CAPE: 2})

	// The rewrite reset the entry age.
	clock.Advance(4 * time.Minute)
	got, ok := c.Get(ctx, 1, 1)
	require.True(t, ok, "expected hit after overwrite reset the timestamp")
	assert.Equal(t, float64(2), got.CAPE)
}

func TestCache_CleanupRetention(t *testing.T) {
	c, clock := newTestCache(t, 5*time.Minute)
	ctx := context.Background()

	c.Set(ctx, 1, 1, models.IndicatorSet{CAPE: 1})
	clock.Advance(3 * time.Hour)
	c.Set(ctx, 2, 2, models.IndicatorSet{CAPE: 2})

	deleted := c.Cleanup(ctx, 2*time.Hour, 100)
	assert.Equal(t, int64(1), deleted, "only the entry past retention is removed")

	stats, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Total)
}

func TestCache_CleanupBatchBound(t *testing.T) {
	c, clock := newTestCache(t, 5*time.Minute)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		c.Set(ctx, float64(i), float64(i), models.IndicatorSet{})
	}
	clock.Advance(3 * time.Hour)

	deleted := c.Cleanup(ctx, 2*time.Hour, 2)
	assert.Equal(t, int64(2), deleted, "cleanup must respect the batch size")
}

func TestCache_TTLAndRetentionIndependent(t *testing.T) {
	// An entry can be TTL-expired long before it is retention-deleted.
	c, clock := newTestCache(t, 5*time.Minute)
	ctx := context.Background()

	c.Set(ctx, 1, 1, models.IndicatorSet{CAPE: 1})
	clock.Advance(30 * time.Minute)

	_, ok := c.Get(ctx, 1, 1)
	assert.False(t, ok, "entry is no longer trusted for scoring")

	deleted := c.Cleanup(ctx, 2*time.Hour, 100)
	assert.Equal(t, int64(0), deleted, "entry is still within retention")

	stats, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Total, "entry is still physically present")
}

func TestCache_Stats(t *testing.T) {
	c, clock := newTestCache(t, 5*time.Minute)
	ctx := context.Background()

	c.Set(ctx, 1, 1, models.IndicatorSet{}) // becomes stale
	clock.Advance(3 * time.Hour)
	c.Set(ctx, 2, 2, models.IndicatorSet{}) // recent

	stats, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Total)
	assert.Equal(t, int64(1), stats.Recent)
	assert.Equal(t, int64(1), stats.Stale)
}
