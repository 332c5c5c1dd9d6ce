package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/bao1311/EventFinder/services/api/internal/clock"
	"github.com/bao1311/EventFinder/services/api/internal/domain"
	"github.com/bao1311/EventFinder/services/api/internal/ticketmaster"
)

// RefreshService re-fetches every saved city on a schedule and prunes
// events that started long enough ago to be useless.
type RefreshService struct {
	events    RefreshEventRepository
	prefs     RefreshPreferencesRepository
	fetcher   EventFetcher
	clock     clock.Clock
	logger    *log.Logger
	retention time.Duration
}

// RefreshEventRepository is the event storage surface for refreshes.
type RefreshEventRepository interface {
	UpsertEvents(ctx context.Context, events []domain.Event) (int, error)
	PruneStartedBefore(ctx context.Context, cutoff time.Time) (int, error)
}

// RefreshPreferencesRepository lists the cities saved across profiles.
type RefreshPreferencesRepository interface {
	DistinctCities(ctx context.Context) ([]string, error)
}

const defaultRetention = 7 * 24 * time.Hour

func NewRefreshService(events RefreshEventRepository, prefs RefreshPreferencesRepository, fetcher EventFetcher, clk clock.Clock, opts ...RefreshServiceOption) *RefreshService {
	svc := &RefreshService{
		events:    events,
		prefs:     prefs,
		fetcher:   fetcher,
		clock:     clk,
		logger:    log.Default(),
		retention: defaultRetention,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type RefreshServiceOption func(*RefreshService)

// WithRetention overrides how long past events are kept.
func WithRetention(d time.Duration) RefreshServiceOption {
	return func(s *RefreshService) {
		if d > 0 {
			s.retention = d
		}
	}
}

// WithRefreshLogger overrides the default logger.
func WithRefreshLogger(logger *log.Logger) RefreshServiceOption {
	return func(s *RefreshService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// RefreshResult reports per-city upsert counts and the prune count.
type RefreshResult struct {
	Cities map[string]int
	Pruned int
}

// RefreshAll fetches and upserts events for every distinct saved city.
// A failing city is logged and skipped so one bad fetch cannot starve
// the rest of the schedule; the error comes back only when every city
// failed.
func (s *RefreshService) RefreshAll(ctx context.Context) (RefreshResult, error) {
	cities, err := s.prefs.DistinctCities(ctx)
	if err != nil {
		return RefreshResult{}, err
	}

	result := RefreshResult{Cities: make(map[string]int, len(cities))}
	var lastErr error
	failed := 0

	for _, city := range cities {
		events, err := s.fetcher.SearchEvents(ctx, ticketmaster.SearchQuery{City: city})
		if err != nil {
			s.logger.Printf("WARN: refresh fetch for city %q failed: %v", city, err)
			lastErr = err
			failed++
			continue
		}
		for i := range events {
			events[i].ID = newUUID()
		}
		n, err := s.events.UpsertEvents(ctx, events)
		if err != nil {
			s.logger.Printf("WARN: refresh upsert for city %q failed: %v", city, err)
			lastErr = err
			failed++
			continue
		}
		result.Cities[city] = n
	}

	if len(cities) > 0 && failed == len(cities) {
		return result, fmt.Errorf("refresh failed for all %d cities: %w", failed, lastErr)
	}

	cutoff := s.clock.Now().Add(-s.retention)
	pruned, err := s.events.PruneStartedBefore(ctx, cutoff)
	if err != nil {
		return result, err
	}
	result.Pruned = pruned
	return result, nil
}
