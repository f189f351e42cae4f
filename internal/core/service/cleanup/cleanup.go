package cleanup

import (
	"log/slog"
	"mediavault/internal/core/port"
)

type cleanupService struct {
	uow         port.UnitOfWork
	fileStorage port.FileStorage
	metrics     port.Metrics
	logger      *slog.Logger
}

// NewCleanupService creates a new cleanup service
func NewCleanupService(uow port.UnitOfWork, fileStorage port.FileStorage, metrics port.Metrics, logger *slog.Logger) port.CleanupService {
	return &cleanupService{
		uow:         uow,
		fileStorage: fileStorage,
		metrics:     metrics,
		logger:      logger,
	}
}
