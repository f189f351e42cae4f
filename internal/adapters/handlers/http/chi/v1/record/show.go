package record

import (
	"mediavault/internal/adapters/handlers/http/chi/v1/response"
	"mediavault/internal/core/domain"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type V1ShowResponse struct {
	*domain.FileRecord
	DownloadURL       string     `json:"downloadUrl,omitempty"`
	DownloadExpiresAt *time.Time `json:"downloadExpiresAt,omitempty"`
}

func (h *HandlerV1) ShowV1(w http.ResponseWriter, r *http.Request) {
	id, ok := h.recordID(w, r)
	if !ok {
		return
	}

	record, err := h.recordService.Show(r.Context(), id)
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}

	resp := V1ShowResponse{FileRecord: record}
	if len(record.Entries) > 0 {
		// a record stays readable when signing fails
		url, expiresAt, err := h.recordService.DownloadURL(r.Context(), record.Entries[0].Key)
		if err != nil {
			h.logger.Warn("failed to sign download url", "recordID", id, "key", record.Entries[0].Key, "error", err)
		} else {
			resp.DownloadURL = url
			resp.DownloadExpiresAt = expiresAt
		}
	}

	response.JSON(w, h.logger, http.StatusOK, resp)
}

func (h *HandlerV1) recordID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, h.logger, "id must be a uuid")
		return uuid.Nil, false
	}
	return id, true
}
