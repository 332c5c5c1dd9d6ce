package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/bao1311/EventFinder/services/api/internal/domain"
	"github.com/bao1311/EventFinder/services/api/internal/testutil"
)

func TestPreferencesRepository(t *testing.T) {
	pool := testutil.NewTestPool(t)
	ctx := context.Background()
	testutil.ApplyMigrations(t, ctx, pool)
	repo := NewPreferencesRepository(pool)

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("upsert then get round-trips", func(t *testing.T) {
		testutil.TruncateAll(t, ctx, pool)

		prefs := domain.UserPreferences{
			ProfileID:  "p1",
			City:       "Seattle",
			SegmentIDs: []string{"seg-1", "seg-2"},
			Onboarded:  true,
			UpdatedAt:  now,
		}
		if err := repo.Upsert(ctx, prefs); err != nil {
			t.Fatalf("upsert: %v", err)
		}

		got, err := repo.GetByProfile(ctx, "p1")
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.City != "Seattle" || !got.Onboarded || len(got.SegmentIDs) != 2 {
			t.Fatalf("unexpected record %+v", got)
		}
		if !got.UpdatedAt.Equal(now) {
			t.Fatalf("expected updated_at %v, got %v", now, got.UpdatedAt)
		}
	})

	t.Run("second upsert replaces the single row", func(t *testing.T) {
		testutil.TruncateAll(t, ctx, pool)

		first := domain.UserPreferences{ProfileID: "p1", City: "Seattle", Onboarded: true, UpdatedAt: now}
		second := domain.UserPreferences{ProfileID: "p1", City: "Portland", SegmentIDs: []string{"seg-1"}, Onboarded: true, UpdatedAt: now.Add(time.Hour)}
		if err := repo.Upsert(ctx, first); err != nil {
			t.Fatalf("first upsert: %v", err)
		}
		if err := repo.Upsert(ctx, second); err != nil {
			t.Fatalf("second upsert: %v", err)
		}

		got, err := repo.GetByProfile(ctx, "p1")
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.City != "Portland" || len(got.SegmentIDs) != 1 {
			t.Fatalf("expected latest write, got %+v", got)
		}

		var count int
		if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM preferences`).Scan(&count); err != nil {
			t.Fatalf("count: %v", err)
		}
		if count != 1 {
			t.Fatalf("expected a single row, got %d", count)
		}
	})

	t.Run("missing profile", func(t *testing.T) {
		testutil.TruncateAll(t, ctx, pool)

		if _, err := repo.GetByProfile(ctx, "absent"); err != domain.ErrPreferencesNotFound {
			t.Fatalf("expected ErrPreferencesNotFound, got %v", err)
		}
	})

	t.Run("distinct cities skips blank and pre-onboarding rows", func(t *testing.T) {
		testutil.TruncateAll(t, ctx, pool)

		records := []domain.UserPreferences{
			{ProfileID: "p1", City: "Seattle", Onboarded: true, UpdatedAt: now},
			{ProfileID: "p2", City: "Seattle", Onboarded: true, UpdatedAt: now},
			{ProfileID: "p3", City: "Portland", Onboarded: true, UpdatedAt: now},
			{ProfileID: "p4", City: "Denver", Onboarded: false, UpdatedAt: now},
			{ProfileID: "p5", City: "", Onboarded: true, UpdatedAt: now},
		}
		for _, r := range records {
			if err := repo.Upsert(ctx, r); err != nil {
				t.Fatalf("seed %s: %v", r.ProfileID, err)
			}
		}

		cities, err := repo.DistinctCities(ctx)
		if err != nil {
			t.Fatalf("distinct: %v", err)
		}
		if len(cities) != 2 || cities[0] != "Portland" || cities[1] != "Seattle" {
			t.Fatalf("unexpected cities %v", cities)
		}
	})
}
