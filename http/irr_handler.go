package http

import (
	"net/http"

	"realty-calc/domain"
	"realty-calc/service"
)

type IRRHandler struct {
	service *service.IRRService
}

func NewIRRHandler(service *service.IRRService) *IRRHandler {
	return &IRRHandler{service: service}
}

// CalculateIRR answers 200 for every series it can read, including ones
// with no rate; the status field tells the two apart.
func (h *IRRHandler) CalculateIRR(w http.ResponseWriter, r *http.Request) {
	var input domain.IRRInput
	if !decodeJSONPost(w, r, &input) {
		return
	}

	result, err := h.service.CalculateIRR(r.Context(), input)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
