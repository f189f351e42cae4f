package record

import (
	"context"
	"mediavault/internal/core/domain"
	"mediavault/internal/core/port"
	"time"

	"github.com/google/uuid"
)

// Replace swaps the record entries, keys no longer referenced move to history
func (s *recordService) Replace(ctx context.Context, id uuid.UUID, entries []domain.StorageEntry) (*domain.FileRecord, error) {
	resolved, err := s.resolveEntries(ctx, entries)
	if err != nil {
		return nil, err
	}

	var updated domain.FileRecord
	err = s.uow.Execute(ctx, func(tx port.UnitOfWork) error {
		record, err := tx.FileRecordRepo().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}

		current := make(map[string]struct{}, len(resolved))
		for _, e := range resolved {
			current[e.Key] = struct{}{}
		}
		for _, old := range record.Entries {
			if _, kept := current[old.Key]; !kept {
				record.History = append(record.History, old.Key)
			}
		}

		record.Entries = resolved
		record.UpdatedAt = time.Now()
		if err := tx.FileRecordRepo().Update(ctx, *record); err != nil {
			return err
		}
		updated = *record
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, recordCacheKey(id), listCacheKey)
	s.logger.Info("file record replaced", "record_id", id, "history", len(updated.History))
	return &updated, nil
}
