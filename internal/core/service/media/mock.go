package media

import (
	"context"
	"mediavault/internal/config"
	"mediavault/internal/core/domain"

	"github.com/stretchr/testify/mock"
)

type MockMediaService struct {
	mock.Mock
}

func NewMockMediaService() *MockMediaService {
	return &MockMediaService{}
}

func (m *MockMediaService) Process(ctx context.Context, files []domain.RawFile, rule config.Rule) (*domain.ProcessResult, error) {
	args := m.Called(ctx, files, rule)
	return args.Get(0).(*domain.ProcessResult), args.Error(1)
}

type MockTranscoder struct {
	mock.Mock
}

func NewMockTranscoder() *MockTranscoder {
	return &MockTranscoder{}
}

func (m *MockTranscoder) ResizeToWebP(ctx context.Context, src []byte, width int, quality int) ([]byte, error) {
	args := m.Called(ctx, src, width, quality)
	b, _ := args.Get(0).([]byte)
	return b, args.Error(1)
}

func (m *MockTranscoder) TranscodeMP4(ctx context.Context, inputPath string, outputPath string) error {
	args := m.Called(ctx, inputPath, outputPath)
	return args.Error(0)
}
