package record

import (
	"mediavault/internal/adapters/handlers/http/chi/v1/response"
	"mediavault/internal/core/domain"
	"net/http"
)

type V1StoreRequest struct {
	Name    string                `json:"name"`
	OwnerID string                `json:"ownerId"`
	Entries []domain.StorageEntry `json:"entries"`
}

func (h *HandlerV1) StoreV1(w http.ResponseWriter, r *http.Request) {
	var req V1StoreRequest
	if err := response.Decode(w, r, &req); err != nil {
		response.BadRequest(w, h.logger, err.Error())
		return
	}

	record, err := h.recordService.Store(r.Context(), req.Name, req.OwnerID, req.Entries)
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}

	response.JSON(w, h.logger, http.StatusCreated, record)
}
