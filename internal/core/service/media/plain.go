package media

import (
	"context"
	"fmt"
	"mediavault/internal/config"
	"mediavault/internal/core/domain"
)

func (s *mediaService) processPlain(ctx context.Context, file domain.RawFile, rule config.Rule) ([]domain.StoredFile, error) {
	key := objectStem(rule.Folder, file.Name) + originalExt(file.Name)
	size, err := s.putFile(ctx, key, file.Path, file.Mimetype)
	if err != nil {
		return nil, fmt.Errorf("store %s: %w", key, err)
	}
	return []domain.StoredFile{{Key: key, Mimetype: file.Mimetype, Size: size, Name: file.Name}}, nil
}
