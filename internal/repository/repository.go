package repository

import (
	"context"
	"time"

	"github.com/cbwatch/thundercloud-alerts/internal/models"
)

// CacheRow is one stored cache entry. Payload is the JSON-encoded indicator
// data; CacheType tags the payload shape ("single" or
// "multi_distance_directional").
type CacheRow struct {
	Key       string
	Payload   []byte
	CacheType string
	StoredAt  time.Time
}

// CacheStats are the observability counters exposed by the stats endpoint.
type CacheStats struct {
	Total  int64 `json:"total"`
	Recent int64 `json:"recent"` // stored within the last hour
	Stale  int64 `json:"stale"`  // older than the retention window
}

type ObserverRepository interface {
	Upsert(ctx context.Context, o *models.Observer) error
	// ListActive returns active observers whose location was updated within
	// staleAfter of now. Staler observers are filtered, not errors.
	ListActive(ctx context.Context, staleAfter time.Duration, now time.Time) ([]models.Observer, error)
	Deactivate(ctx context.Context, token string) error
}

type CacheRepository interface {
	// Get returns nil when no row exists for key.
	Get(ctx context.Context, key string) (*CacheRow, error)
	Put(ctx context.Context, row *CacheRow) error
	// DeleteOlderThan removes at most limit rows stored before cutoff and
	// returns the number deleted.
	DeleteOlderThan(ctx context.Context, cutoff time.Time, limit int) (int64, error)
	Stats(ctx context.Context, recentCutoff, staleCutoff time.Time) (CacheStats, error)
}
