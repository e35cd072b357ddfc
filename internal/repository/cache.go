package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

func (s *SQLiteDB) Get(ctx context.Context, key string) (*CacheRow, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT key, payload, cache_type, stored_at
		FROM weather_cache
		WHERE key = ?
	`, key)

	var r CacheRow
	if err := row.Scan(&r.Key, &r.Payload, &r.CacheType, &r.StoredAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error reading cache row: %w", err)
	}
	return &r, nil
}

// Put overwrites unconditionally. Writers from overlapping cycles derive the
// same payload from the same source, so last-writer-wins is safe.
func (s *SQLiteDB) Put(ctx context.Context, row *CacheRow) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO weather_cache (key, payload, cache_type, stored_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			payload = excluded.payload,
			cache_type = excluded.cache_type,
			stored_at = excluded.stored_at
	`, row.Key, row.Payload, row.CacheType, row.StoredAt.UTC())
	if err != nil {
		return fmt.Errorf("error writing cache row: %w", err)
	}
	return nil
}

func (s *SQLiteDB) DeleteOlderThan(ctx context.Context, cutoff time.Time, limit int) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM weather_cache
		WHERE key IN (
			SELECT key FROM weather_cache WHERE stored_at < ? LIMIT ?
		)
	`, cutoff.UTC(), limit)
	if err != nil {
		return 0, fmt.Errorf("error deleting cache rows: %w", err)
	}
	return res.RowsAffected()
}

func (s *SQLiteDB) Stats(ctx context.Context, recentCutoff, staleCutoff time.Time) (CacheStats, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN stored_at >= ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN stored_at < ? THEN 1 ELSE 0 END), 0)
		FROM weather_cache
	`, recentCutoff.UTC(), staleCutoff.UTC())

	var stats CacheStats
	if err := row.Scan(&stats.Total, &stats.Recent, &stats.Stale); err != nil {
		return CacheStats{}, fmt.Errorf("error reading cache stats: %w", err)
	}
	return stats, nil
}
