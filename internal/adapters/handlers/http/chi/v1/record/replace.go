package record

import (
	"mediavault/internal/adapters/handlers/http/chi/v1/response"
	"mediavault/internal/core/domain"
	"net/http"
)

type V1ReplaceRequest struct {
	Entries []domain.StorageEntry `json:"entries"`
}

func (h *HandlerV1) ReplaceV1(w http.ResponseWriter, r *http.Request) {
	id, ok := h.recordID(w, r)
	if !ok {
		return
	}

	var req V1ReplaceRequest
	if err := response.Decode(w, r, &req); err != nil {
		response.BadRequest(w, h.logger, err.Error())
		return
	}

	record, err := h.recordService.Replace(r.Context(), id, req.Entries)
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}

	response.JSON(w, h.logger, http.StatusOK, record)
}
