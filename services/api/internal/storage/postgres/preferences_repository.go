package postgres

import (
	"context"
	"fmt"

	"github.com/bao1311/EventFinder/services/api/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PreferencesRepository struct {
	pool *pgxpool.Pool
}

func NewPreferencesRepository(pool *pgxpool.Pool) *PreferencesRepository {
	return &PreferencesRepository{pool: pool}
}

// Upsert writes the single preferences row for a profile.
func (r *PreferencesRepository) Upsert(ctx context.Context, prefs domain.UserPreferences) error {
	const stmt = `
INSERT INTO preferences (profile_id, city, segment_ids, onboarded, updated_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (profile_id) DO UPDATE SET
	city = EXCLUDED.city,
	segment_ids = EXCLUDED.segment_ids,
	onboarded = EXCLUDED.onboarded,
	updated_at = EXCLUDED.updated_at`

	segmentIDs := prefs.SegmentIDs
	if segmentIDs == nil {
		segmentIDs = []string{}
	}
	_, err := r.exec(ctx, stmt, prefs.ProfileID, prefs.City, segmentIDs, prefs.Onboarded, prefs.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert preferences: %w", err)
	}
	return nil
}

func (r *PreferencesRepository) GetByProfile(ctx context.Context, profileID string) (domain.UserPreferences, error) {
	const query = `
SELECT profile_id, city, segment_ids, onboarded, updated_at
FROM preferences
WHERE profile_id = $1`

	var p domain.UserPreferences
	err := r.queryRow(ctx, query, profileID).
		Scan(&p.ProfileID, &p.City, &p.SegmentIDs, &p.Onboarded, &p.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.UserPreferences{}, domain.ErrPreferencesNotFound
		}
		return domain.UserPreferences{}, fmt.Errorf("get preferences: %w", err)
	}
	return p, nil
}

// DistinctCities lists every city saved by an onboarded profile, for
// the scheduled refresh.
func (r *PreferencesRepository) DistinctCities(ctx context.Context) ([]string, error) {
	const query = `
SELECT DISTINCT city
FROM preferences
WHERE onboarded AND city <> ''
ORDER BY city`

	rows, err := r.query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("distinct cities: %w", err)
	}
	defer rows.Close()

	var cities []string
	for rows.Next() {
		var city string
		if err := rows.Scan(&city); err != nil {
			return nil, fmt.Errorf("scan city: %w", err)
		}
		cities = append(cities, city)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("distinct cities: %w", err)
	}
	return cities, nil
}

func (r *PreferencesRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *PreferencesRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}

func (r *PreferencesRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}
