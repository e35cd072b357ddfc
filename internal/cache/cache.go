// Package cache is the time-boxed weather store. Freshness (TTL) and storage
// retention are independent knobs: an entry stops being trusted for scoring
// after the TTL but is only physically removed by the retention sweep.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/cbwatch/thundercloud-alerts/internal/geo"
	"github.com/cbwatch/thundercloud-alerts/internal/models"
	"github.com/cbwatch/thundercloud-alerts/internal/observability"
	"github.com/cbwatch/thundercloud-alerts/internal/repository"
)

const (
	cacheTypeSingle      = "single"
	cacheTypeDirectional = "multi_distance_directional"
)

type Cache struct {
	repo    repository.CacheRepository
	ttl     time.Duration
	clock   clockwork.Clock
	metrics *observability.Metrics
}

func New(repo repository.CacheRepository, ttl time.Duration, clock clockwork.Clock, metrics *observability.Metrics) *Cache {
	return &Cache{
		repo:    repo,
		ttl:     ttl,
		clock:   clock,
		metrics: metrics,
	}
}

// Get returns the cached indicators for a coordinate, or a miss when no entry
// exists, the entry's age has reached the TTL, or the store errored. Store
// errors degrade to misses so the caller falls through to a direct fetch.
func (c *Cache) Get(ctx context.Context, lat, lon float64) (models.IndicatorSet, bool) {
	var ind models.IndicatorSet
	if !c.load(ctx, geo.CacheKey(lat, lon), &ind) {
		return models.IndicatorSet{}, false
	}
	return ind, true
}

// Set stores indicators for one coordinate, overwriting any previous entry.
// Write failures are logged and dropped; the next cycle rewrites the key.
func (c *Cache) Set(ctx context.Context, lat, lon float64, ind models.IndicatorSet) {
	c.store(ctx, geo.CacheKey(lat, lon), cacheTypeSingle, ind)
}

// GetDirectional returns the full direction/distance structure for one
// observer location.
func (c *Cache) GetDirectional(ctx context.Context, lat, lon float64) (models.DirectionalData, bool) {
	var data models.DirectionalData
	if !c.load(ctx, geo.DirectionalCacheKey(lat, lon), &data) {
		return nil, false
	}
	return data, true
}

// SetDirectional stores an observer location's entire 12-point structure in
// a single entry so one read answers one observer's whole check.
func (c *Cache) SetDirectional(ctx context.Context, lat, lon float64, data models.DirectionalData) {
	c.store(ctx, geo.DirectionalCacheKey(lat, lon), cacheTypeDirectional, data)
}

// Cleanup deletes entries stored before the retention window, at most batch
// per invocation, and returns the count removed. Decoupled from the TTL.
func (c *Cache) Cleanup(ctx context.Context, retention time.Duration, batch int) int64 {
	cutoff := c.clock.Now().Add(-retention)
	deleted, err := c.repo.DeleteOlderThan(ctx, cutoff, batch)
	if err != nil {
		slog.Error("cache cleanup failed", "error", err)
		return 0
	}
	c.metrics.CacheDeletes.Add(float64(deleted))
	return deleted
}

// Stats reports total / recent(<1h) / stale(>2h) entry counts.
func (c *Cache) Stats(ctx context.Context) (repository.CacheStats, error) {
	now := c.clock.Now()
	return c.repo.Stats(ctx, now.Add(-time.Hour), now.Add(-2*time.Hour))
}

func (c *Cache) load(ctx context.Context, key string, dst any) bool {
	row, err := c.repo.Get(ctx, key)
	if err != nil {
		slog.Warn("cache read failed, treating as miss", "key", key, "error", err)
		c.metrics.CacheLookups.WithLabelValues("miss").Inc()
		return false
	}
	// Hit requires age strictly below the TTL; an entry aged exactly TTL is
	// already a miss.
	if row == nil || c.clock.Now().Sub(row.StoredAt) >= c.ttl {
		c.metrics.CacheLookups.WithLabelValues("miss").Inc()
		return false
	}
	if err := json.Unmarshal(row.Payload, dst); err != nil {
		slog.Warn("cache payload corrupt, treating as miss", "key", key, "error", err)
		c.metrics.CacheLookups.WithLabelValues("miss").Inc()
		return false
	}
	c.metrics.CacheLookups.WithLabelValues("hit").Inc()
	return true
}

func (c *Cache) store(ctx context.Context, key, cacheType string, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		slog.Error("cache payload marshal failed", "key", key, "error", err)
		return
	}
	row := &repository.CacheRow{
		Key:       key,
		Payload:   raw,
		CacheType: cacheType,
		StoredAt:  c.clock.Now(),
	}
	if err := c.repo.Put(ctx, row); err != nil {
		slog.Warn("cache write failed, dropping entry", "key", key, "error", err)
	}
}
