package upload

import (
	"mediavault/internal/adapters/handlers/http/chi/v1/response"
	"net/http"
	"time"
)

type V1PresignedSimpleRequest struct {
	FileName string `json:"fileName"`
	Type     string `json:"type"`
	Size     int64  `json:"size"`
}

type V1PresignedSimpleResponse struct {
	UploadURL string     `json:"uploadUrl"`
	Key       string     `json:"key"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

func (h *HandlerV1) PresignedSimpleV1(w http.ResponseWriter, r *http.Request) {
	var req V1PresignedSimpleRequest
	if err := response.Decode(w, r, &req); err != nil {
		response.BadRequest(w, h.logger, err.Error())
		return
	}
	if req.FileName == "" {
		response.BadRequest(w, h.logger, "fileName is required")
		return
	}

	upload, err := h.uploadService.PresignSimple(r.Context(), req.FileName, req.Type, req.Size)
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}

	response.JSON(w, h.logger, http.StatusOK, V1PresignedSimpleResponse{
		UploadURL: upload.UploadURL,
		Key:       upload.Key,
		ExpiresAt: upload.ExpiresAt,
	})
}
