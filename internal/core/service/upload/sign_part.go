package upload

import (
	"context"
	"fmt"
	"mediavault/internal/core/domain"

	"github.com/google/uuid"
)

// SignPart presigns one part. Signing the same part twice yields two valid urls.
func (u *uploadService) SignPart(ctx context.Context, key string, sessionID uuid.UUID, partNumber int) (*domain.UploadPart, error) {
	session, err := u.loadOpenSession(ctx, key, sessionID)
	if err != nil {
		return nil, err
	}

	if partNumber < 1 || partNumber > session.TotalParts {
		return nil, fmt.Errorf("%w: %d not in 1..%d", domain.ErrInvalidPartNumber, partNumber, session.TotalParts)
	}

	url, expiresAt, err := u.fileStorage.GeneratePresignedURLForPart(ctx, session.StorageKey, partNumber, session.ProviderUploadID)
	if err != nil {
		return nil, err
	}

	return &domain.UploadPart{
		PartNumber:   partNumber,
		PresignedURL: url,
		ExpiresAt:    expiresAt,
	}, nil
}
