package http

import (
	"encoding/json"
	"net/http"

	"github.com/bao1311/EventFinder/services/api/internal/domain"
)

// HandleListSegments returns the category catalog for the onboarding
// grid.
func HandleListSegments() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		resp := make([]segmentResponse, 0, len(domain.Segments))
		for _, s := range domain.Segments {
			resp = append(resp, segmentResponse{ID: s.ID, Name: s.Name})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}

type segmentResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
