package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bao1311/EventFinder/services/api/internal/domain"
)

func TestHandleListSegments(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/segments", nil)
	rr := httptest.NewRecorder()
	HandleListSegments().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var resp []segmentResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp) != len(domain.Segments) {
		t.Fatalf("expected %d segments, got %d", len(domain.Segments), len(resp))
	}
	if resp[0].Name != "Music" || resp[0].ID == "" {
		t.Fatalf("unexpected first segment %+v", resp[0])
	}

	postReq := httptest.NewRequest(http.MethodPost, "/segments", nil)
	postRR := httptest.NewRecorder()
	HandleListSegments().ServeHTTP(postRR, postReq)
	if postRR.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", postRR.Code)
	}
}
