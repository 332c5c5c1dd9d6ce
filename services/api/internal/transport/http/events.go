package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bao1311/EventFinder/services/api/internal/app"
	"github.com/bao1311/EventFinder/services/api/internal/domain"
)

// EventSearcher is the minimal interface needed for the event list.
type EventSearcher interface {
	SearchEvents(ctx context.Context, in app.SearchEventsInput) ([]domain.Event, error)
}

// EventGetter is the minimal interface needed for the event detail.
type EventGetter interface {
	GetEvent(ctx context.Context, id string) (domain.Event, error)
}

// HandleListEvents returns an HTTP handler for GET /events.
func HandleListEvents(svc EventSearcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		q := r.URL.Query()
		limit := 0
		if raw := q.Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 0 {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid limit")
				return
			}
			limit = parsed
		}

		events, err := svc.SearchEvents(r.Context(), app.SearchEventsInput{
			City:       q.Get("city"),
			SegmentIDs: splitCSV(q.Get("segments")),
			Keyword:    q.Get("q"),
			Sort:       domain.EventSort(q.Get("sort")),
			Limit:      limit,
		})
		if err != nil {
			switch err {
			case domain.ErrCityRequired:
				writeError(w, http.StatusBadRequest, codeCityRequired, err.Error())
			case domain.ErrUnknownSegment:
				writeError(w, http.StatusBadRequest, codeUnknownSegment, err.Error())
			case domain.ErrInvalidSort:
				writeError(w, http.StatusBadRequest, codeInvalidSort, err.Error())
			default:
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			}
			return
		}

		resp := listEventsResponse{Events: make([]eventSummary, 0, len(events))}
		for _, ev := range events {
			resp.Events = append(resp.Events, newEventSummary(ev))
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}

// HandleGetEvent returns an HTTP handler for GET /events/{id}.
func HandleGetEvent(svc EventGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		id, ok := parseEventPath(r.URL.Path)
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}

		ev, err := svc.GetEvent(r.Context(), id)
		if err != nil {
			writeEventError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(newEventDetail(ev))
	}
}

func writeEventError(w http.ResponseWriter, err error) {
	switch err {
	case domain.ErrInvalidID:
		writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
	case domain.ErrEventNotFound:
		writeError(w, http.StatusNotFound, codeEventNotFound, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}

// parseEventPath extracts the event ID from /events/{id}.
func parseEventPath(path string) (string, bool) {
	rest, ok := strings.CutPrefix(path, "/events/")
	if !ok || rest == "" || strings.Contains(rest, "/") {
		return "", false
	}
	return rest, true
}

func splitCSV(input string) []string {
	if input == "" {
		return nil
	}
	parts := strings.Split(input, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}

type listEventsResponse struct {
	Events []eventSummary `json:"events"`
}

type eventSummary struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Segment   string     `json:"segment,omitempty"`
	Genre     string     `json:"genre,omitempty"`
	StartsAt  *time.Time `json:"starts_at,omitempty"`
	DateTBA   bool       `json:"date_tba,omitempty"`
	TimeTBA   bool       `json:"time_tba,omitempty"`
	Status    string     `json:"status"`
	VenueName string     `json:"venue_name,omitempty"`
	City      string     `json:"city,omitempty"`
	ImageURL  string     `json:"image_url,omitempty"`
	PriceMin  *float64   `json:"price_min,omitempty"`
	PriceMax  *float64   `json:"price_max,omitempty"`
	Currency  string     `json:"currency,omitempty"`
}

func newEventSummary(ev domain.Event) eventSummary {
	s := eventSummary{
		ID:        ev.ID,
		Name:      ev.Name,
		Segment:   ev.Segment,
		Genre:     ev.Genre,
		DateTBA:   ev.DateTBA,
		TimeTBA:   ev.TimeTBA,
		Status:    string(ev.Status),
		VenueName: ev.Venue.Name,
		City:      ev.Venue.City,
		ImageURL:  ev.ImageURL,
		Currency:  ev.Price.Currency,
	}
	if !ev.DateTBA {
		t := ev.StartsAt
		s.StartsAt = &t
	}
	if ev.HasPrice() {
		minPrice, maxPrice := ev.Price.Min, ev.Price.Max
		s.PriceMin = &minPrice
		s.PriceMax = &maxPrice
	}
	return s
}

type eventDetail struct {
	eventSummary
	URL       string       `json:"url,omitempty"`
	Timezone  string       `json:"timezone,omitempty"`
	Venue     venueDetail  `json:"venue"`
	Latitude  *float64     `json:"latitude,omitempty"`
	Longitude *float64     `json:"longitude,omitempty"`
	MapURL    string       `json:"map_url,omitempty"`
	FetchedAt time.Time    `json:"fetched_at"`
}

type venueDetail struct {
	Name       string `json:"name,omitempty"`
	Address    string `json:"address,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	Country    string `json:"country,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
}

func newEventDetail(ev domain.Event) eventDetail {
	d := eventDetail{
		eventSummary: newEventSummary(ev),
		URL:          ev.URL,
		Timezone:     ev.Timezone,
		Venue: venueDetail{
			Name:       ev.Venue.Name,
			Address:    ev.Venue.Address,
			City:       ev.Venue.City,
			State:      ev.Venue.State,
			Country:    ev.Venue.Country,
			PostalCode: ev.Venue.PostalCode,
		},
		MapURL:    ev.MapURL(),
		FetchedAt: ev.FetchedAt,
	}
	if ev.Geocoded {
		lat, lon := ev.Latitude, ev.Longitude
		d.Latitude = &lat
		d.Longitude = &lon
	}
	return d
}
