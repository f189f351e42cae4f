package record

import (
	"log/slog"
	"mediavault/internal/core/port"

	"github.com/go-chi/chi/v5"
)

// HandlerV1 is the handler for v1 file record routes
type HandlerV1 struct {
	recordService port.FileRecordService
	logger        *slog.Logger
}

// NewFileRecordHandlerV1 creates HandlerV1
func NewFileRecordHandlerV1(recordService port.FileRecordService, logger *slog.Logger) *HandlerV1 {
	return &HandlerV1{
		recordService: recordService,
		logger:        logger,
	}
}

// Routes exposes handler routes
func (h *HandlerV1) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/", h.StoreV1)
	router.Get("/", h.IndexV1)
	router.Get("/{id}", h.ShowV1)
	router.Put("/{id}", h.ReplaceV1)
	router.Delete("/{id}", h.DestroyV1)

	return router
}
