package upload

import (
	"log/slog"
	"mediavault/internal/config"
	"mediavault/internal/core/port"

	"github.com/go-chi/chi/v5"
)

// HandlerV1 is the handler for v1 upload routes
type HandlerV1 struct {
	uploadService port.UploadService
	mediaService  port.MediaService
	rules         *config.Rules
	tempDir       string
	logger        *slog.Logger
}

// NewUploadHandlerV1 creates HandlerV1
func NewUploadHandlerV1(uploadService port.UploadService, mediaService port.MediaService, rules *config.Rules, tempDir string, logger *slog.Logger) *HandlerV1 {
	return &HandlerV1{
		uploadService: uploadService,
		mediaService:  mediaService,
		rules:         rules,
		tempDir:       tempDir,
		logger:        logger,
	}
}

// Routes exposes handler routes
func (h *HandlerV1) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/presigned-simple", h.PresignedSimpleV1)
	router.Post("/multipart-create", h.MultipartCreateV1)
	router.Post("/multipart-sign-part", h.MultipartSignPartV1)
	router.Post("/multipart-complete", h.MultipartCompleteV1)
	router.Delete("/chunk-abort/{uploadId}", h.ChunkAbortV1)
	router.Post("/{entity}/{property}", h.MediaUploadV1)
	router.Delete("/*", h.DeleteObjectV1)

	return router
}
