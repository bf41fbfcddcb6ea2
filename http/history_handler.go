package http

import (
	"net/http"
	"strconv"

	"realty-calc/domain"
	"realty-calc/repository"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 200
)

type HistoryHandler struct {
	repo repository.CalculationRepository
}

func NewHistoryHandler(repo repository.CalculationRepository) *HistoryHandler {
	return &HistoryHandler{repo: repo}
}

// List serves GET /calculations?kind=loan&limit=20, newest first.
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	query := r.URL.Query()
	kind := domain.CalculationKind(query.Get("kind"))
	if kind != "" && !kind.Valid() {
		writeError(w, http.StatusBadRequest, "unknown calculation kind")
		return
	}

	limit := defaultHistoryLimit
	if raw := query.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxHistoryLimit {
			writeError(w, http.StatusBadRequest, "limit must be between 1 and "+strconv.Itoa(maxHistoryLimit))
			return
		}
		limit = n
	}

	calcs, err := h.repo.List(r.Context(), kind, limit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if calcs == nil {
		calcs = []domain.Calculation{}
	}

	writeJSON(w, http.StatusOK, calcs)
}
