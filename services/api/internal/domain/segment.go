package domain

// Segment is one entry of the category catalog shown on the onboarding
// grid. IDs follow the Ticketmaster segment taxonomy so they can be
// passed straight through as classificationId filters.
type Segment struct {
	ID   string
	Name string
}

// Segments is the fixed category catalog.
var Segments = []Segment{
	{ID: "KZFzniwnSyZfZ7v7nJ", Name: "Music"},
	{ID: "KZFzniwnSyZfZ7v7nE", Name: "Sports"},
	{ID: "KZFzniwnSyZfZ7v7na", Name: "Arts & Theatre"},
	{ID: "KZFzniwnSyZfZ7v7nn", Name: "Film"},
	{ID: "KZFzniwnSyZfZ7v7n1", Name: "Miscellaneous"},
}

// ValidSegmentID reports whether id belongs to the catalog.
func ValidSegmentID(id string) bool {
	for _, s := range Segments {
		if s.ID == id {
			return true
		}
	}
	return false
}

// SegmentName returns the catalog name for id, or "" when unknown.
func SegmentName(id string) string {
	for _, s := range Segments {
		if s.ID == id {
			return s.Name
		}
	}
	return ""
}
