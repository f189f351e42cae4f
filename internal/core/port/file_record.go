package port

import (
	"context"
	"mediavault/internal/core/domain"
	"time"

	"github.com/google/uuid"
)

// FileRecordRepository is an interface to define file record repository interactions
type FileRecordRepository interface {
	Create(ctx context.Context, record domain.FileRecord) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.FileRecord, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.FileRecord, error)
	Update(ctx context.Context, record domain.FileRecord) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, query domain.RecordQuery) ([]domain.FileRecord, int, error)
}

// FileRecordService is an interface to define the file record service
type FileRecordService interface {
	Store(ctx context.Context, name string, ownerID string, entries []domain.StorageEntry) (*domain.FileRecord, error)
	Replace(ctx context.Context, id uuid.UUID, entries []domain.StorageEntry) (*domain.FileRecord, error)
	Show(ctx context.Context, id uuid.UUID) (*domain.FileRecord, error)
	Index(ctx context.Context, query domain.RecordQuery) (*domain.RecordPage, error)
	Destroy(ctx context.Context, id uuid.UUID) (*domain.DestroyResult, error)
	DownloadURL(ctx context.Context, key string) (string, *time.Time, error)
}
