package upload

import (
	"context"
	"fmt"
	"mediavault/internal/core/domain"
	"strings"
)

// PresignSimple returns a single PUT url for a whole object
func (u *uploadService) PresignSimple(ctx context.Context, fileName string, contentType string, size int64) (*domain.SimpleUpload, error) {
	if strings.TrimSpace(fileName) == "" {
		return nil, fmt.Errorf("%w: file name is required", domain.ErrInvalidFileType)
	}
	if size < 0 {
		return nil, domain.ErrFileSizeTooSmall
	}
	if size > u.fileUploadCfg.SimpleUploadMaxSize {
		return nil, domain.ErrFileSizeTooBig
	}

	key := u.allocateKey(fileName)
	url, expiresAt, err := u.fileStorage.GeneratePresignedURLSimpleUpload(ctx, key, contentType)
	if err != nil {
		return nil, err
	}

	return &domain.SimpleUpload{UploadURL: url, Key: key, ExpiresAt: expiresAt}, nil
}
