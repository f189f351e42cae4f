package upload

import (
	"mediavault/internal/adapters/handlers/http/chi/v1/response"
	"net/http"
	"time"

	"github.com/google/uuid"
)

type V1SignPartRequest struct {
	Key        string `json:"key"`
	UploadID   string `json:"uploadId"`
	PartNumber int    `json:"partNumber"`
}

type V1SignPartResponse struct {
	URL       string     `json:"url"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

func (h *HandlerV1) MultipartSignPartV1(w http.ResponseWriter, r *http.Request) {
	var req V1SignPartRequest
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

	part, err := h.uploadService.SignPart(r.Context(), req.Key, sessionID, req.PartNumber)
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}

	response.JSON(w, h.logger, http.StatusOK, V1SignPartResponse{URL: part.PresignedURL, ExpiresAt: part.ExpiresAt})
}
