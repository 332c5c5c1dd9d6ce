package domain

import "time"

// UserPreferences is the single preferences record kept per profile.
// At most one row exists per ProfileID; writes are upserts.
type UserPreferences struct {
	ProfileID  string
	City       string
	SegmentIDs []string
	Onboarded  bool
	UpdatedAt  time.Time
}

// Validate checks the record against the category catalog. An onboarded
// profile must carry a city; segment IDs must all be catalog members.
func (p UserPreferences) Validate() error {
	if p.ProfileID == "" {
		return ErrProfileIDRequired
	}
	if p.Onboarded && p.City == "" {
		return ErrCityRequired
	}
	for _, id := range p.SegmentIDs {
		if !ValidSegmentID(id) {
			return ErrUnknownSegment
		}
	}
	return nil
}
