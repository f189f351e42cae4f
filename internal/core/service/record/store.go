package record

import (
	"context"
	"fmt"
	"mediavault/internal/core/domain"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Store persists a new file record pointing at already uploaded objects
func (s *recordService) Store(ctx context.Context, name string, ownerID string, entries []domain.StorageEntry) (*domain.FileRecord, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidRecord)
	}

	resolved, err := s.resolveEntries(ctx, entries)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	record := domain.FileRecord{
		ID:        uuid.New(),
		Name:      name,
		Entries:   resolved,
		History:   []string{},
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.uow.FileRecordRepo().Create(ctx, record); err != nil {
		return nil, err
	}

	s.invalidate(ctx, listCacheKey)
	s.logger.Info("file record stored", "record_id", record.ID, "name", record.Name, "entries", len(record.Entries))
	return &record, nil
}
