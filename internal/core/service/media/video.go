package media

import (
	"context"
	"fmt"
	"mediavault/internal/config"
	"mediavault/internal/core/domain"
	"os"
)

// processVideo transcodes to mp4 and uploads the result. There is no fallback,
// a video that cannot be transcoded fails.
func (s *mediaService) processVideo(ctx context.Context, file domain.RawFile, rule config.Rule) ([]domain.StoredFile, error) {
	out, err := os.CreateTemp(s.cfg.TempDir, "transcode-*.mp4")
	if err != nil {
		return nil, fmt.Errorf("create temp output: %w", err)
	}
	outPath := out.Name()
	_ = out.Close()

	defer func() {
		s.removeTemp(file.Path)
		s.removeTemp(outPath)
	}()

	err = s.transcode(ctx, func() error {
		return s.transcoder.TranscodeMP4(ctx, file.Path, outPath)
	})
	if err != nil {
		return nil, err
	}

	key := objectStem(rule.Folder, file.Name) + ".mp4"
	size, err := s.putFile(ctx, key, outPath, "video/mp4")
	if err != nil {
		return nil, fmt.Errorf("store %s: %w", key, err)
	}

	return []domain.StoredFile{{Key: key, Mimetype: "video/mp4", Size: size, Name: file.Name}}, nil
}
