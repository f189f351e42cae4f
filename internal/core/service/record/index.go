package record

import (
	"context"
	"mediavault/internal/core/domain"
)

// Index lists records, only the unfiltered first page is cached
func (s *recordService) Index(ctx context.Context, query domain.RecordQuery) (*domain.RecordPage, error) {
	if query.Limit <= 0 {
		query.Limit = DefaultLimit
	}
	if query.Limit > MaxLimit {
		query.Limit = MaxLimit
	}
	if query.Offset < 0 {
		query.Offset = 0
	}

	cacheable := query.IsDefault(DefaultLimit)
	if cacheable {
		var cached domain.RecordPage
		if s.cacheGet(ctx, listCacheKey, &cached) {
			return &cached, nil
		}
	}

	items, total, err := s.uow.FileRecordRepo().List(ctx, query)
	if err != nil {
		return nil, err
	}

	page := &domain.RecordPage{Items: items, Total: total, Limit: query.Limit, Offset: query.Offset}
	if page.Items == nil {
		page.Items = []domain.FileRecord{}
	}
	if cacheable {
		s.cacheSet(ctx, listCacheKey, page)
	}
	return page, nil
}
