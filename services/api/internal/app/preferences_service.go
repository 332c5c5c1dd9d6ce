package app

import (
	"context"

	"github.com/bao1311/EventFinder/services/api/internal/clock"
	"github.com/bao1311/EventFinder/services/api/internal/domain"
)

// PreferencesRepository persists the single per-profile record.
type PreferencesRepository interface {
	Upsert(ctx context.Context, prefs domain.UserPreferences) error
	GetByProfile(ctx context.Context, profileID string) (domain.UserPreferences, error)
}

// PreferencesService implements the two local-persistence operations:
// reading and upserting a profile's preferences record.
type PreferencesService struct {
	repo  PreferencesRepository
	clock clock.Clock
}

func NewPreferencesService(repo PreferencesRepository, clk clock.Clock) *PreferencesService {
	return &PreferencesService{repo: repo, clock: clk}
}

func (s *PreferencesService) Get(ctx context.Context, profileID string) (domain.UserPreferences, error) {
	if profileID == "" {
		return domain.UserPreferences{}, domain.ErrProfileIDRequired
	}
	return s.repo.GetByProfile(ctx, profileID)
}

type PutPreferencesInput struct {
	ProfileID  string
	City       string
	SegmentIDs []string
	Onboarded  bool
}

func (s *PreferencesService) Put(ctx context.Context, in PutPreferencesInput) (domain.UserPreferences, error) {
	prefs := domain.UserPreferences{
		ProfileID:  in.ProfileID,
		City:       in.City,
		SegmentIDs: in.SegmentIDs,
		Onboarded:  in.Onboarded,
		UpdatedAt:  s.clock.Now(),
	}
	if err := prefs.Validate(); err != nil {
		return domain.UserPreferences{}, err
	}
	if err := s.repo.Upsert(ctx, prefs); err != nil {
		return domain.UserPreferences{}, err
	}
	return prefs, nil
}
