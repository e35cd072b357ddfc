package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/cbwatch/thundercloud-alerts/internal/models"
)

func (s *SQLiteDB) Upsert(ctx context.Context, o *models.Observer) error {
	query := `
		INSERT INTO observers (token, latitude, longitude, last_updated, is_active)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(token) DO UPDATE SET
			latitude = excluded.latitude,
			longitude = excluded.longitude,
			last_updated = excluded.last_updated,
			is_active = excluded.is_active
	`

	_, err := s.db.ExecContext(ctx, query,
		o.Token, o.Latitude, o.Longitude, o.LastUpdated.UTC(), boolToInt(o.IsActive))
	if err != nil {
		return fmt.Errorf("error upserting observer: %w", err)
	}
	return nil
}

func (s *SQLiteDB) ListActive(ctx context.Context, staleAfter time.Duration, now time.Time) ([]models.Observer, error) {
	cutoff := now.Add(-staleAfter).UTC()

	rows, err := s.db.QueryContext(ctx, `
		SELECT token, latitude, longitude, last_updated, is_active
		FROM observers
		WHERE is_active = 1 AND last_updated >= ?
		ORDER BY token
	`, cutoff)
	if err != nil {
		return nil, fmt.Errorf("error listing observers: %w", err)
	}
	defer rows.Close()

	var observers []models.Observer
	for rows.Next() {
		var o models.Observer
		var active int
		if err := rows.Scan(&o.Token, &o.Latitude, &o.Longitude, &o.LastUpdated, &active); err != nil {
			return nil, fmt.Errorf("error scanning observer: %w", err)
		}
		o.IsActive = active != 0
		observers = append(observers, o)
	}
	return observers, rows.Err()
}

func (s *SQLiteDB) Deactivate(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE observers SET is_active = 0 WHERE token = ?`, token)
	if err != nil {
		return fmt.Errorf("error deactivating observer: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
