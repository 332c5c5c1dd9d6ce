package app

import (
	"context"
	"log"
	"time"

	"github.com/bao1311/EventFinder/services/api/internal/clock"
	"github.com/bao1311/EventFinder/services/api/internal/domain"
	"github.com/bao1311/EventFinder/services/api/internal/ticketmaster"
)

// EventRepository is the storage surface the discovery service needs.
type EventRepository interface {
	UpsertEvents(ctx context.Context, events []domain.Event) (int, error)
	ListEvents(ctx context.Context, filter domain.EventFilter) ([]domain.Event, error)
	GetEvent(ctx context.Context, id string) (domain.Event, error)
	LatestFetch(ctx context.Context, city string) (time.Time, error)
}

// EventFetcher fetches upstream events for a city.
type EventFetcher interface {
	SearchEvents(ctx context.Context, q ticketmaster.SearchQuery) ([]domain.Event, error)
}

// DiscoveryService serves event listings from the Postgres cache,
// refreshing a city from the upstream API when its cache is empty or
// stale.
type DiscoveryService struct {
	repo     EventRepository
	fetcher  EventFetcher
	clock    clock.Clock
	logger   *log.Logger
	cacheTTL time.Duration
	maxLimit int
}

const (
	defaultCacheTTL = 6 * time.Hour
	defaultMaxLimit = 200
)

func NewDiscoveryService(repo EventRepository, fetcher EventFetcher, clk clock.Clock, opts ...DiscoveryServiceOption) *DiscoveryService {
	svc := &DiscoveryService{
		repo:     repo,
		fetcher:  fetcher,
		clock:    clk,
		logger:   log.Default(),
		cacheTTL: defaultCacheTTL,
		maxLimit: defaultMaxLimit,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type DiscoveryServiceOption func(*DiscoveryService)

// WithCacheTTL overrides how long a city's cached events stay fresh.
func WithCacheTTL(d time.Duration) DiscoveryServiceOption {
	return func(s *DiscoveryService) {
		if d > 0 {
			s.cacheTTL = d
		}
	}
}

// WithDiscoveryLogger overrides the default logger.
func WithDiscoveryLogger(logger *log.Logger) DiscoveryServiceOption {
	return func(s *DiscoveryService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

type SearchEventsInput struct {
	City       string
	SegmentIDs []string
	Keyword    string
	Sort       domain.EventSort
	Limit      int
}

func (s *DiscoveryService) SearchEvents(ctx context.Context, in SearchEventsInput) ([]domain.Event, error) {
	if in.City == "" {
		return nil, domain.ErrCityRequired
	}
	sortKey := in.Sort
	if sortKey == "" {
		sortKey = domain.SortDateAsc
	}
	if !domain.ValidEventSort(sortKey) {
		return nil, domain.ErrInvalidSort
	}
	for _, id := range in.SegmentIDs {
		if !domain.ValidSegmentID(id) {
			return nil, domain.ErrUnknownSegment
		}
	}
	limit := in.Limit
	if limit <= 0 || limit > s.maxLimit {
		limit = s.maxLimit
	}

	now := s.clock.Now()
	if err := s.ensureFresh(ctx, in.City, now); err != nil {
		return nil, err
	}

	return s.repo.ListEvents(ctx, domain.EventFilter{
		City:       in.City,
		SegmentIDs: in.SegmentIDs,
		Keyword:    in.Keyword,
		Sort:       sortKey,
		From:       now,
		Limit:      limit,
	})
}

// ensureFresh fetches and upserts the city's events when the cache has
// never been filled or is older than the TTL. A fetch failure over a
// still-populated cache is logged and served stale rather than failed.
func (s *DiscoveryService) ensureFresh(ctx context.Context, city string, now time.Time) error {
	latest, err := s.repo.LatestFetch(ctx, city)
	if err != nil {
		return err
	}
	if !latest.IsZero() && now.Sub(latest) < s.cacheTTL {
		return nil
	}

	events, err := s.fetcher.SearchEvents(ctx, ticketmaster.SearchQuery{City: city})
	if err != nil {
		if !latest.IsZero() {
			s.logger.Printf("WARN: refresh for city %q failed, serving stale cache: %v", city, err)
			return nil
		}
		return err
	}

	for i := range events {
		events[i].ID = newUUID()
	}
	if _, err := s.repo.UpsertEvents(ctx, events); err != nil {
		return err
	}
	return nil
}

func (s *DiscoveryService) GetEvent(ctx context.Context, id string) (domain.Event, error) {
	if id == "" {
		return domain.Event{}, domain.ErrInvalidID
	}
	return s.repo.GetEvent(ctx, id)
}
