package ticketmaster

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/bao1311/EventFinder/services/api/internal/domain"
)

const defaultCurrency = "USD"

// mapEvent converts one raw API event into the domain shape, filling
// fallback defaults for the many optional fields. Events without a
// source ID are unusable and reported via ok=false.
func mapEvent(raw apiEvent, fetchedAt time.Time) (domain.Event, bool) {
	if raw.ID == "" {
		return domain.Event{}, false
	}

	ev := domain.Event{
		Source:    domain.SourceTicketmaster,
		SourceID:  raw.ID,
		Name:      raw.Name,
		URL:       raw.URL,
		ImageURL:  bestImage(raw.Images),
		Timezone:  raw.Dates.Timezone,
		Status:    mapStatus(raw.Dates.Status.Code),
		FetchedAt: fetchedAt,
	}
	if ev.Name == "" {
		ev.Name = "Untitled event"
	}

	mapClassification(raw.Classifications, &ev)
	mapStart(raw.Dates, &ev)
	mapPrice(raw.PriceRanges, &ev)

	if raw.Embedded != nil && len(raw.Embedded.Venues) > 0 {
		mapVenue(raw.Embedded.Venues[0], &ev)
	}

	return ev, true
}

// mapStart resolves the start instant through the fallback chain:
// dateTime (RFC3339) first, then localDate+localTime in the event
// timezone, then localDate at midnight, and finally date TBA.
func mapStart(dates apiDates, ev *domain.Event) {
	start := dates.Start
	if start.DateTBA || start.DateTBD {
		ev.DateTBA = true
		ev.TimeTBA = true
		return
	}
	ev.TimeTBA = start.TimeTBA || start.NoSpecificTime

	if start.DateTime != "" {
		if t, err := time.Parse(time.RFC3339, start.DateTime); err == nil {
			ev.StartsAt = t.UTC()
			return
		}
	}

	if start.LocalDate == "" {
		ev.DateTBA = true
		ev.TimeTBA = true
		return
	}

	loc := time.UTC
	if dates.Timezone != "" {
		if l, err := time.LoadLocation(dates.Timezone); err == nil {
			loc = l
		}
	}

	if start.LocalTime != "" {
		if t, err := time.ParseInLocation("2006-01-02 15:04:05", start.LocalDate+" "+start.LocalTime, loc); err == nil {
			ev.StartsAt = t.UTC()
			return
		}
	}

	if t, err := time.ParseInLocation("2006-01-02", start.LocalDate, loc); err == nil {
		ev.StartsAt = t.UTC()
		ev.TimeTBA = true
		return
	}

	ev.DateTBA = true
	ev.TimeTBA = true
}

func mapClassification(cls []classification, ev *domain.Event) {
	if len(cls) == 0 {
		return
	}
	chosen := cls[0]
	for _, c := range cls {
		if c.Primary {
			chosen = c
			break
		}
	}
	ev.SegmentID = chosen.Segment.ID
	ev.Segment = chosen.Segment.Name
	// "Undefined" is the API's placeholder genre; treat it as absent.
	if !strings.EqualFold(chosen.Genre.Name, "undefined") {
		ev.Genre = chosen.Genre.Name
	}
}

func mapPrice(ranges []apiPriceRange, ev *domain.Event) {
	if len(ranges) == 0 {
		return
	}
	first := ranges[0]
	for _, pr := range ranges {
		if pr.Type == "standard" {
			first = pr
			break
		}
	}
	if first.Min < 0 || first.Max < first.Min {
		return
	}
	currency := first.Currency
	if currency == "" {
		currency = defaultCurrency
	}
	ev.Price = domain.PriceRange{Min: first.Min, Max: first.Max, Currency: currency}
}

func mapVenue(v apiVenue, ev *domain.Event) {
	state := v.State.Name
	if state == "" {
		state = v.State.StateCode
	}
	country := v.Country.Name
	if country == "" {
		country = v.Country.CountryCode
	}
	ev.Venue = domain.Venue{
		Name:       v.Name,
		Address:    v.Address.Line1,
		City:       v.City.Name,
		State:      state,
		Country:    country,
		PostalCode: v.PostalCode,
	}

	// Malformed coordinates drop the field, not the event.
	lat, errLat := strconv.ParseFloat(v.Location.Latitude, 64)
	lon, errLon := strconv.ParseFloat(v.Location.Longitude, 64)
	if errLat == nil && errLon == nil {
		ev.Latitude = lat
		ev.Longitude = lon
		ev.Geocoded = true
	}
}

// bestImage prefers 16:9 images at least 640 wide, then any image at
// least 640 wide, then the widest available.
func bestImage(images []apiImage) string {
	var widest apiImage
	var wide apiImage
	for _, img := range images {
		if img.URL == "" {
			continue
		}
		if img.Width > widest.Width {
			widest = img
		}
		if img.Width < 640 {
			continue
		}
		if img.Ratio == "16_9" {
			return img.URL
		}
		if wide.URL == "" {
			wide = img
		}
	}
	if wide.URL != "" {
		return wide.URL
	}
	return widest.URL
}

func mapStatus(code string) domain.EventStatus {
	switch strings.ToLower(code) {
	case "offsale":
		return domain.EventStatusOffSale
	case "cancelled", "canceled":
		return domain.EventStatusCancelled
	case "postponed":
		return domain.EventStatusPostponed
	case "rescheduled":
		return domain.EventStatusRescheduled
	default:
		return domain.EventStatusOnSale
	}
}

// sortEvents orders ascending by start time with date-TBA events last
// and name as the tie-break.
func sortEvents(events []domain.Event) {
	sort.SliceStable(events, func(i, j int) bool {
		a, b := events[i], events[j]
		if a.DateTBA != b.DateTBA {
			return !a.DateTBA
		}
		if !a.DateTBA && !a.StartsAt.Equal(b.StartsAt) {
			return a.StartsAt.Before(b.StartsAt)
		}
		return a.Name < b.Name
	})
}
