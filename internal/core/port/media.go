package port

import (
	"context"
	"mediavault/internal/config"
	"mediavault/internal/core/domain"
)

// MediaTranscoder turns raw media into normalized derived artifacts
type MediaTranscoder interface {
	ResizeToWebP(ctx context.Context, src []byte, width int, quality int) ([]byte, error)
	TranscodeMP4(ctx context.Context, inputPath string, outputPath string) error
}

// MediaService processes server mediated uploads
type MediaService interface {
	Process(ctx context.Context, files []domain.RawFile, rule config.Rule) (*domain.ProcessResult, error)
}
