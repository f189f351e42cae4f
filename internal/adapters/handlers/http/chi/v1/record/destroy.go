package record

import (
	"mediavault/internal/adapters/handlers/http/chi/v1/response"
	"net/http"
)

func (h *HandlerV1) DestroyV1(w http.ResponseWriter, r *http.Request) {
	id, ok := h.recordID(w, r)
	if !ok {
		return
	}

	result, err := h.recordService.Destroy(r.Context(), id)
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}

	response.JSON(w, h.logger, http.StatusOK, result)
}
