package app

import (
	"context"
	"testing"
	"time"

	"github.com/bao1311/EventFinder/services/api/internal/clock"
	"github.com/bao1311/EventFinder/services/api/internal/domain"
)

type fakePrefsRepo struct {
	records map[string]domain.UserPreferences
}

func newFakePrefsRepo() *fakePrefsRepo {
	return &fakePrefsRepo{records: make(map[string]domain.UserPreferences)}
}

func (f *fakePrefsRepo) Upsert(ctx context.Context, prefs domain.UserPreferences) error {
	f.records[prefs.ProfileID] = prefs
	return nil
}

func (f *fakePrefsRepo) GetByProfile(ctx context.Context, profileID string) (domain.UserPreferences, error) {
	prefs, ok := f.records[profileID]
	if !ok {
		return domain.UserPreferences{}, domain.ErrPreferencesNotFound
	}
	return prefs, nil
}

func TestPreferencesService(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	musicID := domain.Segments[0].ID

	t.Run("put then get round-trips the record", func(t *testing.T) {
		repo := newFakePrefsRepo()
		svc := NewPreferencesService(repo, clock.NewFixed(now))

		saved, err := svc.Put(context.Background(), PutPreferencesInput{
			ProfileID:  "p1",
			City:       "Seattle",
			SegmentIDs: []string{musicID},
			Onboarded:  true,
		})
		if err != nil {
			t.Fatalf("put: %v", err)
		}
		if !saved.UpdatedAt.Equal(now) {
			t.Fatalf("expected UpdatedAt stamped from clock, got %v", saved.UpdatedAt)
		}

		got, err := svc.Get(context.Background(), "p1")
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.City != "Seattle" || !got.Onboarded || len(got.SegmentIDs) != 1 {
			t.Fatalf("unexpected record %+v", got)
		}
	})

	t.Run("put is an upsert", func(t *testing.T) {
		repo := newFakePrefsRepo()
		svc := NewPreferencesService(repo, clock.NewFixed(now))

		for _, city := range []string{"Seattle", "Portland"} {
			if _, err := svc.Put(context.Background(), PutPreferencesInput{ProfileID: "p1", City: city, Onboarded: true}); err != nil {
				t.Fatalf("put %s: %v", city, err)
			}
		}
		if len(repo.records) != 1 {
			t.Fatalf("expected a single record, got %d", len(repo.records))
		}
		got, _ := svc.Get(context.Background(), "p1")
		if got.City != "Portland" {
			t.Fatalf("expected latest write, got %s", got.City)
		}
	})

	t.Run("validation failures", func(t *testing.T) {
		svc := NewPreferencesService(newFakePrefsRepo(), clock.NewFixed(now))

		if _, err := svc.Put(context.Background(), PutPreferencesInput{City: "Seattle"}); err != domain.ErrProfileIDRequired {
			t.Fatalf("expected ErrProfileIDRequired, got %v", err)
		}
		if _, err := svc.Put(context.Background(), PutPreferencesInput{ProfileID: "p1", Onboarded: true}); err != domain.ErrCityRequired {
			t.Fatalf("expected ErrCityRequired, got %v", err)
		}
		if _, err := svc.Put(context.Background(), PutPreferencesInput{ProfileID: "p1", City: "Seattle", SegmentIDs: []string{"x"}, Onboarded: true}); err != domain.ErrUnknownSegment {
			t.Fatalf("expected ErrUnknownSegment, got %v", err)
		}
	})

	t.Run("get missing record", func(t *testing.T) {
		svc := NewPreferencesService(newFakePrefsRepo(), clock.NewFixed(now))

		if _, err := svc.Get(context.Background(), "absent"); err != domain.ErrPreferencesNotFound {
			t.Fatalf("expected ErrPreferencesNotFound, got %v", err)
		}
		if _, err := svc.Get(context.Background(), ""); err != domain.ErrProfileIDRequired {
			t.Fatalf("expected ErrProfileIDRequired, got %v", err)
		}
	})
}
