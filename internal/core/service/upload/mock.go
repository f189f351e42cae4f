package upload

import (
	"context"
	"mediavault/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockUploadService is a mock implementation of UploadService
type MockUploadService struct {
	mock.Mock
}

// NewMockUploadService creates a new MockUploadService
func NewMockUploadService() *MockUploadService {
	return &MockUploadService{}
}

func (m *MockUploadService) PresignSimple(ctx context.Context, fileName string, contentType string, size int64) (*domain.SimpleUpload, error) {
	args := m.Called(ctx, fileName, contentType, size)
	return args.Get(0).(*domain.SimpleUpload), args.Error(1)
}

func (m *MockUploadService) CreateSession(ctx context.Context, fileName string, contentType string, size int64) (*domain.UploadSession, error) {
	args := m.Called(ctx, fileName, contentType, size)
	return args.Get(0).(*domain.UploadSession), args.Error(1)
}

func (m *MockUploadService) SignPart(ctx context.Context, key string, sessionID uuid.UUID, partNumber int) (*domain.UploadPart, error) {
	args := m.Called(ctx, key, sessionID, partNumber)
	return args.Get(0).(*domain.UploadPart), args.Error(1)
}

func (m *MockUploadService) Complete(ctx context.Context, key string, sessionID uuid.UUID, parts []domain.UploadPart) (*domain.UploadSession, error) {
	args := m.Called(ctx, key, sessionID, parts)
	return args.Get(0).(*domain.UploadSession), args.Error(1)
}

func (m *MockUploadService) Abort(ctx context.Context, key string, sessionID uuid.UUID) error {
	args := m.Called(ctx, key, sessionID)
	return args.Error(0)
}

func (m *MockUploadService) DeleteObject(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
