package upload

import (
	"mediavault/internal/adapters/handlers/http/chi/v1/response"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
)

type V1DeleteObjectResponse struct {
	Message string `json:"message"`
	Key     string `json:"key"`
}

func (h *HandlerV1) DeleteObjectV1(w http.ResponseWriter, r *http.Request) {
	key, err := url.PathUnescape(chi.URLParam(r, "*"))
	if err != nil {
		response.BadRequest(w, h.logger, "invalid key")
		return
	}
	key = strings.Trim(key, "/")
	if key == "" {
		response.BadRequest(w, h.logger, "key is required")
		return
	}

	if err := h.uploadService.DeleteObject(r.Context(), key); err != nil {
		response.Error(w, h.logger, err)
		return
	}

	response.JSON(w, h.logger, http.StatusOK, V1DeleteObjectResponse{Message: "file deleted", Key: key})
}
