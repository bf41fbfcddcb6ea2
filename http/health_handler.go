package http

import (
	"net/http"
)

type healthResponse struct {
	Status  string `json:"status"`
	Storage string `json:"storage"`
	Cache   string `json:"cache"`
}

// HealthHandler reports liveness along with the configured backends.
func HealthHandler(storage, cache string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		writeJSON(w, http.StatusOK, healthResponse{
			Status:  "ok",
			Storage: storage,
			Cache:   cache,
		})
	}
}
