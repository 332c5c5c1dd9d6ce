package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/bao1311/EventFinder/services/api/internal/app"
	"golang.org/x/crypto/bcrypt"
)

// Refresher is the minimal interface needed for the forced refresh.
type Refresher interface {
	RefreshAll(ctx context.Context) (app.RefreshResult, error)
}

// HandleAdminRefresh returns an HTTP handler for POST /admin/refresh.
// The caller must present the admin key in X-Admin-Key; it is checked
// against the bcrypt hash the server was configured with. An empty
// hash disables the endpoint.
func HandleAdminRefresh(svc Refresher, adminKeyHash string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}
		if adminKeyHash == "" {
			writeError(w, http.StatusForbidden, codeForbidden, "admin endpoint disabled")
			return
		}
		key := r.Header.Get("X-Admin-Key")
		if key == "" || bcrypt.CompareHashAndPassword([]byte(adminKeyHash), []byte(key)) != nil {
			writeError(w, http.StatusForbidden, codeForbidden, "forbidden")
			return
		}

		result, err := svc.RefreshAll(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			return
		}

		resp := refreshResponse{Cities: result.Cities, Pruned: result.Pruned}
		if resp.Cities == nil {
			resp.Cities = map[string]int{}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}

type refreshResponse struct {
	Cities map[string]int `json:"cities"`
	Pruned int            `json:"pruned"`
}
