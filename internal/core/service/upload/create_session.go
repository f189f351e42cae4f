package upload

import (
	"context"
	"fmt"
	"mediavault/internal/core/domain"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CreateSession allocates a storage key and opens a backend multipart upload
func (u *uploadService) CreateSession(ctx context.Context, fileName string, contentType string, size int64) (*domain.UploadSession, error) {
	if strings.TrimSpace(fileName) == "" {
		return nil, fmt.Errorf("%w: file name is required", domain.ErrInvalidFileType)
	}
	if size <= 0 {
		return nil, domain.ErrFileSizeTooSmall
	}
	if size > u.fileUploadCfg.MultipartUploadMaxSize {
		return nil, domain.ErrFileSizeTooBig
	}

	totalParts := domain.TotalPartsFor(size, u.fileUploadCfg.PartSize)
	if totalParts > maxParts {
		return nil, fmt.Errorf("%w: %d parts exceed the %d parts limit", domain.ErrFileSizeTooBig, totalParts, maxParts)
	}

	key := u.allocateKey(fileName)
	providerUploadID, err := u.fileStorage.InitMultipartUpload(ctx, key, contentType)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	session := domain.UploadSession{
		ID:               uuid.New(),
		StorageKey:       key,
		ProviderUploadID: providerUploadID,
		FileName:         fileName,
		ContentType:      contentType,
		SizeBytes:        size,
		PartSize:         u.fileUploadCfg.PartSize,
		TotalParts:       totalParts,
		ExpiresAt:        now.Add(u.fileUploadCfg.SessionTTL),
		Status:           domain.UploadSessionStatusOpen,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := u.uow.UploadSessionRepo().Create(ctx, session); err != nil {
		if abortErr := u.fileStorage.AbortMultipartUpload(ctx, key, providerUploadID); abortErr != nil {
			u.logger.Warn("failed to release multipart upload", "key", key, "error", abortErr)
		}
		return nil, fmt.Errorf("could not start multipart upload: %w", err)
	}

	u.metrics.ObserveSession("created")
	u.logger.Info("upload session created", "session_id", session.ID, "key", key, "total_parts", totalParts)
	return &session, nil
}
