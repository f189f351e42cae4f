package record

import (
	"context"
	"errors"
	"mediavault/internal/core/domain"
	"time"

	"github.com/google/uuid"
)

// Destroy removes every object of the record then its metadata.
// Storage failures do not block the metadata delete, leftovers are queued for the sweeper.
func (s *recordService) Destroy(ctx context.Context, id uuid.UUID) (*domain.DestroyResult, error) {
	record, err := s.uow.FileRecordRepo().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	result := &domain.DestroyResult{RemovedKeys: []string{}, FailedKeys: []string{}}
	for _, key := range record.Keys() {
		err := s.fileStorage.DeleteObject(ctx, key)
		if err != nil && !errors.Is(err, domain.ErrObjectNotFound) {
			s.logger.Warn("failed to remove stored object", "record_id", id, "key", key, "error", err)
			result.FailedKeys = append(result.FailedKeys, key)
			continue
		}
		result.RemovedKeys = append(result.RemovedKeys, key)
	}

	if err := s.uow.FileRecordRepo().Delete(ctx, id); err != nil {
		return nil, err
	}
	s.invalidate(ctx, recordCacheKey(id), listCacheKey)

	if len(result.FailedKeys) > 0 {
		s.enqueueCleanup(ctx, id, result.FailedKeys)
	}

	s.logger.Info("file record destroyed", "record_id", id, "removed", len(result.RemovedKeys), "failed", len(result.FailedKeys))
	return result, nil
}

func (s *recordService) enqueueCleanup(ctx context.Context, id uuid.UUID, keys []string) {
	if s.publisher == nil {
		s.logger.Warn("storage keys leaked, no cleanup publisher configured", "record_id", id, "keys", keys)
		return
	}

	job := domain.CleanupJob{
		RecordID:  id,
		Keys:      keys,
		Reason:    domain.CleanupReasonRecordDestroyed,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.publisher.PublishCleanupJob(context.WithoutCancel(ctx), job); err != nil {
		s.logger.Error("failed to publish cleanup job", "record_id", id, "keys", keys, "error", err)
	}
}
