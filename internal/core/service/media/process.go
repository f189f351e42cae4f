package media

import (
	"context"
	"fmt"
	"mediavault/internal/config"
	"mediavault/internal/core/domain"
	"sync"
)

// Process validates the whole batch, then handles every file concurrently.
// A failing file never affects its siblings.
func (s *mediaService) Process(ctx context.Context, files []domain.RawFile, rule config.Rule) (*domain.ProcessResult, error) {
	if err := validate(files, rule); err != nil {
		return nil, err
	}

	stored := make([][]domain.StoredFile, len(files))
	errs := make([]error, len(files))

	var wg sync.WaitGroup
	for i, file := range files {
		wg.Add(1)
		go func() {
			defer wg.Done()
			stored[i], errs[i] = s.processFile(ctx, file, rule)
		}()
	}
	wg.Wait()

	result := &domain.ProcessResult{}
	for i, file := range files {
		kind := domain.FileTypeFromMime(file.Mimetype)
		if errs[i] != nil {
			s.metrics.ObserveMediaFile(kind, "failed")
			s.logger.Error("failed to process file", "name", file.Name, "mimetype", file.Mimetype, "error", errs[i])
			result.Failed = append(result.Failed, domain.FailedFile{Name: file.Name, Err: errs[i]})
			continue
		}
		s.metrics.ObserveMediaFile(kind, "stored")
		result.Stored = append(result.Stored, stored[i]...)
	}

	s.logger.Info("media batch processed", "files", len(files), "stored", len(result.Stored), "failed", len(result.Failed))
	return result, nil
}

func validate(files []domain.RawFile, rule config.Rule) error {
	if rule.MaxFiles > 0 && len(files) > rule.MaxFiles {
		return fmt.Errorf("%w: got %d, max %d", domain.ErrTooManyFiles, len(files), rule.MaxFiles)
	}
	for _, f := range files {
		if !rule.Allows(f.Mimetype) {
			return fmt.Errorf("%w: %s (%s)", domain.ErrInvalidFileType, f.Name, f.Mimetype)
		}
		if rule.MaxSize > 0 && f.Size > rule.MaxSize {
			return fmt.Errorf("%w: %s is %d bytes, max %d", domain.ErrFileSizeTooBig, f.Name, f.Size, rule.MaxSize)
		}
	}
	return nil
}

func (s *mediaService) processFile(ctx context.Context, file domain.RawFile, rule config.Rule) ([]domain.StoredFile, error) {
	switch domain.FileTypeFromMime(file.Mimetype) {
	case domain.FileTypeImage:
		if len(rule.Dimensions) > 0 {
			return s.processImage(ctx, file, rule)
		}
	case domain.FileTypeVideo:
		return s.processVideo(ctx, file, rule)
	}
	return s.processPlain(ctx, file, rule)
}
