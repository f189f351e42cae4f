package record

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mediavault/internal/core/domain"
	"mediavault/internal/core/port"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultLimit is the page size when the caller gives none
	DefaultLimit = 20
	// MaxLimit caps the page size
	MaxLimit = 100

	listCacheKey = "file-records:list"
)

type recordService struct {
	uow         port.UnitOfWork
	fileStorage port.FileStorage
	cache       port.Cache
	publisher   port.EventPublisher
	cacheTTL    time.Duration
	logger      *slog.Logger
}

// NewFileRecordService creates a new file record service, cache and publisher may be nil
func NewFileRecordService(uow port.UnitOfWork, storage port.FileStorage, cache port.Cache, publisher port.EventPublisher, cacheTTL time.Duration, logger *slog.Logger) port.FileRecordService {
	return &recordService{
		uow:         uow,
		fileStorage: storage,
		cache:       cache,
		publisher:   publisher,
		cacheTTL:    cacheTTL,
		logger:      logger,
	}
}

func recordCacheKey(id uuid.UUID) string {
	return "file-record:" + id.String()
}

// resolveEntries checks every key exists in storage and fills missing size and mimetype
func (s *recordService) resolveEntries(ctx context.Context, entries []domain.StorageEntry) ([]domain.StorageEntry, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: at least one storage entry is required", domain.ErrInvalidRecord)
	}

	resolved := make([]domain.StorageEntry, 0, len(entries))
	for _, entry := range entries {
		entry.Key = strings.TrimSpace(entry.Key)
		if entry.Key == "" {
			return nil, fmt.Errorf("%w: storage entry without key", domain.ErrInvalidRecord)
		}

		info, err := s.fileStorage.GetObjectInfo(ctx, entry.Key)
		if errors.Is(err, domain.ErrObjectNotFound) {
			return nil, fmt.Errorf("%w: object %s does not exist", domain.ErrInvalidRecord, entry.Key)
		}
		if err != nil {
			return nil, err
		}

		if entry.Size == 0 {
			entry.Size = info.Size
		}
		if entry.Mimetype == "" {
			entry.Mimetype = info.ContentType
		}
		resolved = append(resolved, entry)
	}
	return resolved, nil
}

func (s *recordService) cacheGet(ctx context.Context, key string, dst any) bool {
	if s.cache == nil {
		return false
	}
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			s.logger.Warn("cache read failed", "key", key, "error", err)
		}
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		s.logger.Warn("cache entry is corrupt", "key", key, "error", err)
		return false
	}
	return true
}

func (s *recordService) cacheSet(ctx context.Context, key string, value any) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		s.logger.Warn("failed to encode cache entry", "key", key, "error", err)
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.cacheTTL); err != nil {
		s.logger.Warn("cache write failed", "key", key, "error", err)
	}
}

func (s *recordService) invalidate(ctx context.Context, keys ...string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.logger.Warn("cache invalidation failed", "keys", keys, "error", err)
	}
}
