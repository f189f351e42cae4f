package upload

import (
	"mediavault/internal/adapters/handlers/http/chi/v1/response"
	"mediavault/internal/core/domain"
	"net/http"

	"github.com/google/uuid"
)

type CompletedPart struct {
	ETag string `json:"etag"`
	Part int    `json:"part"`
}

type V1MultipartCompleteRequest struct {
	Key      string          `json:"key"`
	UploadID string          `json:"uploadId"`
	Parts    []CompletedPart `json:"parts"`
}

type V1MultipartCompleteResponse struct {
	Success bool   `json:"success"`
	Key     string `json:"key"`
}

func (h *HandlerV1) MultipartCompleteV1(w http.ResponseWriter, r *http.Request) {
	var req V1MultipartCompleteRequest
	if err := response.Decode(w, r, &req); err != nil {
		response.BadRequest(w, h.logger, err.Error())
		return
	}
	sessionID, err := uuid.Parse(req.UploadID)
	if err != nil {
		response.BadRequest(w, h.logger, "uploadId must be a uuid")
		return
	}
	if req.Key == "" {
		response.BadRequest(w, h.logger, "key is required")
		return
	}

	parts := make([]domain.UploadPart, 0, len(req.Parts))
	for _, p := range req.Parts {
		parts = append(parts, domain.UploadPart{PartNumber: p.Part, ETag: p.ETag})
	}

	session, err := h.uploadService.Complete(r.Context(), req.Key, sessionID, parts)
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}

	response.JSON(w, h.logger, http.StatusOK, V1MultipartCompleteResponse{Success: true, Key: session.StorageKey})
}
