package transcoder

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"mediavault/internal/config"
	"mediavault/internal/core/domain"
	"os/exec"
	"strconv"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
)

// Transcoder resizes images with imaging and shells out to ffmpeg for video
type Transcoder struct {
	ffmpegPath string
	maxWidth   int
	logger     *slog.Logger
}

// NewTranscoder returns Transcoder
func NewTranscoder(cfg config.MediaConfig, logger *slog.Logger) *Transcoder {
	ffmpegPath := cfg.FFmpegPath
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	maxWidth := cfg.VideoMaxWidth
	if maxWidth <= 0 {
		maxWidth = 1280
	}
	return &Transcoder{ffmpegPath: ffmpegPath, maxWidth: maxWidth, logger: logger}
}

// ResizeToWebP scales src down to width (never up) and encodes it as webp
func (t *Transcoder) ResizeToWebP(ctx context.Context, src []byte, width int, quality int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img, err := imaging.Decode(bytes.NewReader(src), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: decode image: %w", domain.ErrTranscodeFailed, err)
	}

	if width > 0 && img.Bounds().Dx() > width {
		img = imaging.Resize(img, width, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Quality: float32(quality)}); err != nil {
		return nil, fmt.Errorf("%w: encode webp: %w", domain.ErrTranscodeFailed, err)
	}
	return buf.Bytes(), nil
}

// TranscodeMP4 normalizes a video into a web friendly h264/aac mp4
func (t *Transcoder) TranscodeMP4(ctx context.Context, inputPath string, outputPath string) error {
	cmd := exec.CommandContext(ctx, t.ffmpegPath, t.args(inputPath, outputPath)...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		t.logger.Error("ffmpeg failed",
			slog.String("input", inputPath),
			slog.String("stderr", tail(stderr.String(), 2048)),
			slog.Any("error", err))
		return fmt.Errorf("%w: ffmpeg: %w", domain.ErrTranscodeFailed, err)
	}
	return nil
}

func (t *Transcoder) args(inputPath, outputPath string) []string {
	return []string{
		"-y",
		"-i", inputPath,
		"-c:v", "libx264",
		// libx264 rejects odd dimensions
		"-vf", "scale='trunc(min(" + strconv.Itoa(t.maxWidth) + ",iw)/2)*2':-2",
		"-c:a", "aac",
		"-b:a", "128k",
		"-ac", "2",
		"-movflags", "+faststart",
		outputPath,
	}
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
