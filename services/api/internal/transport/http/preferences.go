package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/bao1311/EventFinder/services/api/internal/app"
	"github.com/bao1311/EventFinder/services/api/internal/domain"
)

// PreferencesService is the minimal interface needed for the
// preferences endpoints.
type PreferencesService interface {
	Get(ctx context.Context, profileID string) (domain.UserPreferences, error)
	Put(ctx context.Context, in app.PutPreferencesInput) (domain.UserPreferences, error)
}

// HandlePreferences returns an HTTP handler for
// GET/PUT /profiles/{id}/preferences.
func HandlePreferences(svc PreferencesService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profileID, ok := parsePreferencesPath(r.URL.Path)
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}

		switch r.Method {
		case http.MethodGet:
			prefs, err := svc.Get(r.Context(), profileID)
			if err != nil {
				switch err {
				case domain.ErrPreferencesNotFound:
					writeError(w, http.StatusNotFound, codePreferencesNotFound, err.Error())
				case domain.ErrProfileIDRequired:
					writeError(w, http.StatusBadRequest, codeProfileIDRequired, err.Error())
				default:
					writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
				}
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(newPreferencesResponse(prefs))
			return
		case http.MethodPut:
			var req putPreferencesRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
				return
			}

			prefs, err := svc.Put(r.Context(), app.PutPreferencesInput{
				ProfileID:  profileID,
				City:       req.City,
				SegmentIDs: req.SegmentIDs,
				Onboarded:  req.Onboarded,
			})
			if err != nil {
				switch err {
				case domain.ErrCityRequired:
					writeError(w, http.StatusBadRequest, codeCityRequired, err.Error())
				case domain.ErrUnknownSegment:
					writeError(w, http.StatusBadRequest, codeUnknownSegment, err.Error())
				case domain.ErrProfileIDRequired:
					writeError(w, http.StatusBadRequest, codeProfileIDRequired, err.Error())
				default:
					writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
				}
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(newPreferencesResponse(prefs))
			return
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}
	}
}

// parsePreferencesPath extracts the profile ID from
// /profiles/{id}/preferences.
func parsePreferencesPath(path string) (string, bool) {
	rest, ok := strings.CutPrefix(path, "/profiles/")
	if !ok {
		return "", false
	}
	id, ok := strings.CutSuffix(rest, "/preferences")
	if !ok || id == "" || strings.Contains(id, "/") {
		return "", false
	}
	return id, true
}

type putPreferencesRequest struct {
	City       string   `json:"city"`
	SegmentIDs []string `json:"segment_ids"`
	Onboarded  bool     `json:"onboarded"`
}

type preferencesResponse struct {
	ProfileID  string    `json:"profile_id"`
	City       string    `json:"city"`
	SegmentIDs []string  `json:"segment_ids"`
	Onboarded  bool      `json:"onboarded"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func newPreferencesResponse(prefs domain.UserPreferences) preferencesResponse {
	segmentIDs := prefs.SegmentIDs
	if segmentIDs == nil {
		segmentIDs = []string{}
	}
	return preferencesResponse{
		ProfileID:  prefs.ProfileID,
		City:       prefs.City,
		SegmentIDs: segmentIDs,
		Onboarded:  prefs.Onboarded,
		UpdatedAt:  prefs.UpdatedAt,
	}
}
