package media

import (
	"context"
	"fmt"
	"log/slog"
	"mediavault/internal/config"
	"mediavault/internal/core/domain"
	"mediavault/internal/core/port"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
)

type mediaService struct {
	fileStorage port.FileStorage
	transcoder  port.MediaTranscoder
	transcodes  *semaphore.Weighted
	cfg         config.MediaConfig
	metrics     port.Metrics
	logger      *slog.Logger
}

// NewMediaService creates a new media post processing service
func NewMediaService(storage port.FileStorage, transcoder port.MediaTranscoder, cfg config.MediaConfig, metrics port.Metrics, logger *slog.Logger) port.MediaService {
	workers := cfg.TranscodeWorkers
	if workers <= 0 {
		workers = 1
	}
	if cfg.WebPQuality <= 0 {
		cfg.WebPQuality = 80
	}
	return &mediaService{
		fileStorage: storage,
		transcoder:  transcoder,
		transcodes:  semaphore.NewWeighted(workers),
		cfg:         cfg,
		metrics:     metrics,
		logger:      logger,
	}
}

// objectStem is "{folder}/{base}-{uuid8}", shared by every artifact of one file
func objectStem(folder, name string) string {
	return path.Join(folder, fmt.Sprintf("%s-%s", domain.BaseName(name), uuid.NewString()[:8]))
}

func originalExt(name string) string {
	return strings.ToLower(filepath.Ext(domain.SanitizeFileName(name)))
}

// transcode runs fn once a transcode slot is free
func (s *mediaService) transcode(ctx context.Context, fn func() error) error {
	if err := s.transcodes.Acquire(ctx, 1); err != nil {
		return err
	}
	defer s.transcodes.Release(1)
	return fn()
}

// putFile streams a local file into storage
func (s *mediaService) putFile(ctx context.Context, key, localPath, contentType string) (int64, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", localPath, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return 0, fmt.Errorf("stat %s: %w", localPath, err)
	}

	if err := s.fileStorage.PutObject(ctx, key, f, info.Size(), contentType); err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// rollback removes objects already written for a file that failed later on
func (s *mediaService) rollback(ctx context.Context, stored []domain.StoredFile) {
	for _, st := range stored {
		if err := s.fileStorage.DeleteObject(context.WithoutCancel(ctx), st.Key); err != nil {
			s.logger.Warn("failed to roll back stored object", "key", st.Key, "error", err)
		}
	}
}

// removeTemp deletes a temp file, a file that is already gone is fine
func (s *mediaService) removeTemp(p string) {
	if p == "" {
		return
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		s.logger.Warn("failed to remove temp file", "path", p, "error", err)
	}
}
