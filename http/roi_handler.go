package http

import (
	"net/http"

	"realty-calc/domain"
	"realty-calc/service"
)

type ROIHandler struct {
	service *service.ROIService
}

func NewROIHandler(service *service.ROIService) *ROIHandler {
	return &ROIHandler{service: service}
}

func (h *ROIHandler) CalculateROI(w http.ResponseWriter, r *http.Request) {
	var input domain.ROIInput
	if !decodeJSONPost(w, r, &input) {
		return
	}

	result, err := h.service.CalculateROI(r.Context(), input)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
