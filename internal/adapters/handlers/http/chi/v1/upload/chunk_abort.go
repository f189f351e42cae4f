package upload

import (
	"mediavault/internal/adapters/handlers/http/chi/v1/response"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type V1ChunkAbortResponse struct {
	OK bool `json:"ok"`
}

func (h *HandlerV1) ChunkAbortV1(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(chi.URLParam(r, "uploadId"))
	if err != nil {
		response.BadRequest(w, h.logger, "uploadId must be a uuid")
		return
	}
	key := r.URL.Query().Get("key")
	if key == "" {
		response.BadRequest(w, h.logger, "key is required")
		return
	}

	if err := h.uploadService.Abort(r.Context(), key, sessionID); err != nil {
		response.Error(w, h.logger, err)
		return
	}

	response.JSON(w, h.logger, http.StatusOK, V1ChunkAbortResponse{OK: true})
}
