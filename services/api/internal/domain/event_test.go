package domain

import (
	"strings"
	"testing"
)

func TestEventMapURL(t *testing.T) {
	t.Parallel()

	t.Run("geocoded event yields an OpenStreetMap link", func(t *testing.T) {
		ev := Event{Latitude: 47.6062, Longitude: -122.3321, Geocoded: true}
		got := ev.MapURL()
		if !strings.HasPrefix(got, "https://www.openstreetmap.org/?mlat=47.606200&mlon=-122.332100") {
			t.Fatalf("unexpected map url: %s", got)
		}
	})

	t.Run("ungeocoded event has no link", func(t *testing.T) {
		ev := Event{Latitude: 47.0, Longitude: -122.0}
		if got := ev.MapURL(); got != "" {
			t.Fatalf("expected empty map url, got %s", got)
		}
	})
}

func TestEventHasPrice(t *testing.T) {
	t.Parallel()

	if (Event{}).HasPrice() {
		t.Fatalf("zero event should have no price")
	}
	ev := Event{Price: PriceRange{Min: 10, Max: 20, Currency: "USD"}}
	if !ev.HasPrice() {
		t.Fatalf("expected price present")
	}
}

func TestValidEventSort(t *testing.T) {
	t.Parallel()

	valid := []EventSort{SortDateAsc, SortDateDesc, SortNameAsc, SortNameDesc, SortPriceAsc, SortPriceDesc}
	for _, s := range valid {
		if !ValidEventSort(s) {
			t.Errorf("expected %s to be valid", s)
		}
	}
	if ValidEventSort("price") {
		t.Errorf("expected bare 'price' to be invalid")
	}
	if ValidEventSort("") {
		t.Errorf("expected empty sort to be invalid")
	}
}

func TestSegmentCatalog(t *testing.T) {
	t.Parallel()

	if len(Segments) != 5 {
		t.Fatalf("expected 5 catalog segments, got %d", len(Segments))
	}
	for _, s := range Segments {
		if !ValidSegmentID(s.ID) {
			t.Errorf("catalog segment %s not valid by its own ID", s.Name)
		}
		if SegmentName(s.ID) != s.Name {
			t.Errorf("name lookup mismatch for %s", s.ID)
		}
	}
	if ValidSegmentID("nope") {
		t.Errorf("unknown id accepted")
	}
	if SegmentName("nope") != "" {
		t.Errorf("unknown id produced a name")
	}
}
