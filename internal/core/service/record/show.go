package record

import (
	"context"
	"mediavault/internal/core/domain"
	"time"

	"github.com/google/uuid"
)

// Show returns a record, read through the cache
func (s *recordService) Show(ctx context.Context, id uuid.UUID) (*domain.FileRecord, error) {
	var cached domain.FileRecord
	if s.cacheGet(ctx, recordCacheKey(id), &cached) {
		return &cached, nil
	}

	record, err := s.uow.FileRecordRepo().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.cacheSet(ctx, recordCacheKey(id), record)
	return record, nil
}

// DownloadURL presigns a GET for one of the record keys
func (s *recordService) DownloadURL(ctx context.Context, key string) (string, *time.Time, error) {
	return s.fileStorage.GeneratePresignedURLForDownload(ctx, key)
}
