package port

import (
	"context"
	"mediavault/internal/core/domain"
	"time"

	"github.com/google/uuid"
)

// UploadSessionRepository is an interface to interact with upload session repositories
type UploadSessionRepository interface {
	Create(ctx context.Context, session domain.UploadSession) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.UploadSession, error)
	TransitionStatus(ctx context.Context, id uuid.UUID, from domain.UploadSessionStatus, to domain.UploadSessionStatus) error
	FindAllExpired(ctx context.Context, now time.Time) ([]domain.UploadSession, error)
}

// UploadService brokers the multipart protocol between callers and the storage backend
type UploadService interface {
	PresignSimple(ctx context.Context, fileName string, contentType string, size int64) (*domain.SimpleUpload, error)
	CreateSession(ctx context.Context, fileName string, contentType string, size int64) (*domain.UploadSession, error)
	SignPart(ctx context.Context, key string, sessionID uuid.UUID, partNumber int) (*domain.UploadPart, error)
	Complete(ctx context.Context, key string, sessionID uuid.UUID, parts []domain.UploadPart) (*domain.UploadSession, error)
	Abort(ctx context.Context, key string, sessionID uuid.UUID) error
	DeleteObject(ctx context.Context, key string) error
}
