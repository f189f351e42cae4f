package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mediavault/internal/adapters/storage/minio"
	"mediavault/internal/adapters/storage/s3"
	"mediavault/internal/config"
	"mediavault/internal/core/port"
	"strings"
)

// ErrUnknownDriver is returned for a STORAGE_DRIVER value with no adapter
var ErrUnknownDriver = errors.New("unknown storage driver")

// New returns the FileStorage adapter selected by cfg.Driver
func New(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (port.FileStorage, error) {
	switch strings.ToLower(cfg.Driver) {
	case "", "minio":
		adapter, err := minio.NewAdapter(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		return adapter, nil
	case "s3":
		adapter, err := s3.NewAdapter(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		return adapter, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}
