package port

import (
	"context"
	"io"
	"mediavault/internal/core/domain"
	"time"
)

// FileStorage is an interface to define file storage interactions
type FileStorage interface {
	GeneratePresignedURLSimpleUpload(ctx context.Context, fileKey string, contentType string) (string, *time.Time, error)
	InitMultipartUpload(ctx context.Context, fileKey string, contentType string) (string, error)
	GeneratePresignedURLForPart(ctx context.Context, fileKey string, partNumber int, uploadID string) (string, *time.Time, error)
	ListPartsPaginated(ctx context.Context, fileKey string, uploadID string, maxParts int, partNumberMarker int) ([]domain.UploadPart, int, error)
	CompleteMultipartUpload(ctx context.Context, fileKey string, uploadID string, parts []domain.UploadPart) error
	AbortMultipartUpload(ctx context.Context, fileKey string, uploadID string) error
	PutObject(ctx context.Context, fileKey string, reader io.Reader, size int64, contentType string) error
	GetObjectInfo(ctx context.Context, fileKey string) (*domain.ObjectInfo, error)
	DeleteObject(ctx context.Context, fileKey string) error
	GeneratePresignedURLForDownload(ctx context.Context, fileKey string) (string, *time.Time, error)
}
