package media

import (
	"bytes"
	"context"
	"fmt"
	"mediavault/internal/config"
	"mediavault/internal/core/domain"
	"os"
)

// processImage stores one webp variant per dimension. A variant that cannot be
// resized falls back to the original bytes in the same dimension slot.
func (s *mediaService) processImage(ctx context.Context, file domain.RawFile, rule config.Rule) ([]domain.StoredFile, error) {
	src, err := os.ReadFile(file.Path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", file.Name, err)
	}

	stem := objectStem(rule.Folder, file.Name)
	ext := originalExt(file.Name)
	stored := make([]domain.StoredFile, 0, len(rule.Dimensions)+1)

	for _, dim := range rule.Dimensions {
		var variant []byte
		err := s.transcode(ctx, func() error {
			var rerr error
			variant, rerr = s.transcoder.ResizeToWebP(ctx, src, dim, s.cfg.WebPQuality)
			return rerr
		})
		if ctx.Err() != nil {
			s.rollback(ctx, stored)
			return nil, ctx.Err()
		}

		entry := domain.StoredFile{
			Key:       fmt.Sprintf("%s-%d.webp", stem, dim),
			Mimetype:  "image/webp",
			Name:      file.Name,
			Dimension: &dim,
		}
		if err != nil {
			s.logger.Warn("resize failed, storing original bytes", "name", file.Name, "dimension", dim, "error", err)
			s.metrics.ObserveMediaFile(domain.FileTypeImage, "fallback")
			variant = src
			entry.Key = fmt.Sprintf("%s-%d%s", stem, dim, ext)
			entry.Mimetype = file.Mimetype
		}
		entry.Size = int64(len(variant))

		if err := s.fileStorage.PutObject(ctx, entry.Key, bytes.NewReader(variant), entry.Size, entry.Mimetype); err != nil {
			s.rollback(ctx, stored)
			return nil, fmt.Errorf("store %s: %w", entry.Key, err)
		}
		stored = append(stored, entry)
	}

	if rule.KeepOriginal {
		key := stem + ext
		if err := s.fileStorage.PutObject(ctx, key, bytes.NewReader(src), int64(len(src)), file.Mimetype); err != nil {
			s.rollback(ctx, stored)
			return nil, fmt.Errorf("store %s: %w", key, err)
		}
		stored = append(stored, domain.StoredFile{Key: key, Mimetype: file.Mimetype, Size: int64(len(src)), Name: file.Name})
	}

	return stored, nil
}
