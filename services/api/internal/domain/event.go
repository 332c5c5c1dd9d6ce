package domain

import (
	"fmt"
	"time"
)

// SourceTicketmaster identifies events imported from the Ticketmaster
// Discovery API.
const SourceTicketmaster = "ticketmaster"

type EventStatus string

const (
	EventStatusOnSale      EventStatus = "onsale"
	EventStatusOffSale     EventStatus = "offsale"
	EventStatusCancelled   EventStatus = "cancelled"
	EventStatusPostponed   EventStatus = "postponed"
	EventStatusRescheduled EventStatus = "rescheduled"
)

// Venue is the place an event happens at. Fields the source did not
// publish are left empty.
type Venue struct {
	Name       string
	Address    string
	City       string
	State      string
	Country    string
	PostalCode string
}

// PriceRange is the advertised ticket price span. An empty Currency
// means the source published no pricing for the event.
type PriceRange struct {
	Min      float64
	Max      float64
	Currency string
}

// Event represents one discoverable event after conversion from the
// upstream API shape. (Source, SourceID) is unique; ID is assigned by
// this service.
type Event struct {
	ID       string
	Source   string
	SourceID string

	Name     string
	URL      string
	ImageURL string

	SegmentID string
	Segment   string
	Genre     string

	// StartsAt is zero when the date is still to be announced; DateTBA
	// marks that case so callers never mistake the zero time for year 1.
	StartsAt time.Time
	Timezone string
	DateTBA  bool
	TimeTBA  bool

	Status EventStatus
	Venue  Venue
	Price  PriceRange

	Latitude  float64
	Longitude float64
	Geocoded  bool

	FetchedAt time.Time
}

// HasPrice reports whether the source published a price range.
func (e Event) HasPrice() bool {
	return e.Price.Currency != ""
}

// MapURL returns an OpenStreetMap link pointing at the venue, or ""
// when the event was never geocoded.
func (e Event) MapURL() string {
	if !e.Geocoded {
		return ""
	}
	return fmt.Sprintf(
		"https://www.openstreetmap.org/?mlat=%.6f&mlon=%.6f#map=16/%.6f/%.6f",
		e.Latitude, e.Longitude, e.Latitude, e.Longitude,
	)
}

// EventSort selects the ordering of event listings.
type EventSort string

const (
	SortDateAsc   EventSort = "date_asc"
	SortDateDesc  EventSort = "date_desc"
	SortNameAsc   EventSort = "name_asc"
	SortNameDesc  EventSort = "name_desc"
	SortPriceAsc  EventSort = "price_asc"
	SortPriceDesc EventSort = "price_desc"
)

// ValidEventSort reports whether s is a supported sort key.
func ValidEventSort(s EventSort) bool {
	switch s {
	case SortDateAsc, SortDateDesc, SortNameAsc, SortNameDesc, SortPriceAsc, SortPriceDesc:
		return true
	}
	return false
}

// EventFilter narrows and orders an event listing. Zero fields are
// ignored; a zero From means no lower bound on the start time.
type EventFilter struct {
	City       string
	SegmentIDs []string
	Keyword    string
	Sort       EventSort
	From       time.Time
	Limit      int
}
