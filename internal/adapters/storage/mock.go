package storage

import (
	"context"
	"io"
	"mediavault/internal/core/domain"
	"time"

	"github.com/stretchr/testify/mock"
)

type MockStorage struct {
	mock.Mock
}

func NewMockStorage() *MockStorage {
	return &MockStorage{}
}

func (m *MockStorage) GeneratePresignedURLSimpleUpload(ctx context.Context, fileKey string, contentType string) (string, *time.Time, error) {
	args := m.Called(ctx, fileKey, contentType)
	return args.String(0), args.Get(1).(*time.Time), args.Error(2)
}

func (m *MockStorage) InitMultipartUpload(ctx context.Context, fileKey string, contentType string) (string, error) {
	args := m.Called(ctx, fileKey, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockStorage) GeneratePresignedURLForPart(ctx context.Context, fileKey string, partNumber int, uploadID string) (string, *time.Time, error) {
	args := m.Called(ctx, fileKey, partNumber, uploadID)
	return args.String(0), args.Get(1).(*time.Time), args.Error(2)
}

func (m *MockStorage) ListPartsPaginated(ctx context.Context, fileKey string, uploadID string, maxParts int, partNumberMarker int) ([]domain.UploadPart, int, error) {
	args := m.Called(ctx, fileKey, uploadID, maxParts, partNumberMarker)
	return args.Get(0).([]domain.UploadPart), args.Int(1), args.Error(2)
}

func (m *MockStorage) CompleteMultipartUpload(ctx context.Context, fileKey string, uploadID string, parts []domain.UploadPart) error {
	args := m.Called(ctx, fileKey, uploadID, parts)
	return args.Error(0)
}

func (m *MockStorage) AbortMultipartUpload(ctx context.Context, fileKey string, uploadID string) error {
	args := m.Called(ctx, fileKey, uploadID)
	return args.Error(0)
}

// PutObject drains the reader so callers streaming from temp files behave like a real upload
func (m *MockStorage) PutObject(ctx context.Context, fileKey string, reader io.Reader, size int64, contentType string) error {
	_, _ = io.Copy(io.Discard, reader)
	args := m.Called(ctx, fileKey, size, contentType)
	return args.Error(0)
}

func (m *MockStorage) GetObjectInfo(ctx context.Context, fileKey string) (*domain.ObjectInfo, error) {
	args := m.Called(ctx, fileKey)
	return args.Get(0).(*domain.ObjectInfo), args.Error(1)
}

func (m *MockStorage) DeleteObject(ctx context.Context, fileKey string) error {
	args := m.Called(ctx, fileKey)
	return args.Error(0)
}

func (m *MockStorage) GeneratePresignedURLForDownload(ctx context.Context, fileKey string) (string, *time.Time, error) {
	args := m.Called(ctx, fileKey)
	return args.String(0), args.Get(1).(*time.Time), args.Error(2)
}
