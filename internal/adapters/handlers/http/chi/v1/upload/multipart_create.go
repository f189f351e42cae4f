package upload

import (
	"mediavault/internal/adapters/handlers/http/chi/v1/response"
	"net/http"
	"time"

	"github.com/google/uuid"
)

type V1MultipartCreateRequest struct {
	Filename string `json:"filename"`
	Type     string `json:"type"`
	Size     int64  `json:"size"`
}

type V1MultipartCreateResponse struct {
	UploadID   uuid.UUID `json:"uploadId"`
	Key        string    `json:"key"`
	TotalParts int       `json:"totalParts"`
	PartSize   int64     `json:"partSize"`
	ExpiresAt  time.Time `json:"expiresAt"`
}

func (h *HandlerV1) MultipartCreateV1(w http.ResponseWriter, r *http.Request) {
	var req V1MultipartCreateRequest
	if err := response.Decode(w, r, &req); err != nil {
		response.BadRequest(w, h.logger, err.Error())
		return
	}
	if req.Filename == "" {
		response.BadRequest(w, h.logger, "filename is required")
		return
	}

	session, err := h.uploadService.CreateSession(r.Context(), req.Filename, req.Type, req.Size)
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}

	response.JSON(w, h.logger, http.StatusCreated, V1MultipartCreateResponse{
		UploadID:   session.ID,
		Key:        session.StorageKey,
		TotalParts: session.TotalParts,
		PartSize:   session.PartSize,
		ExpiresAt:  session.ExpiresAt,
	})
}
