package domain

import "testing"

func TestUserPreferencesValidate(t *testing.T) {
	t.Parallel()

	musicID := Segments[0].ID

	tests := []struct {
		name    string
		prefs   UserPreferences
		wantErr error
	}{
		{
			name:  "valid onboarded record",
			prefs: UserPreferences{ProfileID: "p1", City: "Seattle", SegmentIDs: []string{musicID}, Onboarded: true},
		},
		{
			name:  "pre-onboarding record without city",
			prefs: UserPreferences{ProfileID: "p1"},
		},
		{
			name:    "missing profile id",
			prefs:   UserPreferences{City: "Seattle"},
			wantErr: ErrProfileIDRequired,
		},
		{
			name:    "onboarded without city",
			prefs:   UserPreferences{ProfileID: "p1", Onboarded: true},
			wantErr: ErrCityRequired,
		},
		{
			name:    "segment outside catalog",
			prefs:   UserPreferences{ProfileID: "p1", City: "Seattle", SegmentIDs: []string{"bogus"}, Onboarded: true},
			wantErr: ErrUnknownSegment,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.prefs.Validate(); err != tt.wantErr {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}
