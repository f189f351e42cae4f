package record

import (
	"context"
	"mediavault/internal/core/domain"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockFileRecordService struct {
	mock.Mock
}

func NewMockFileRecordService() *MockFileRecordService {
	return &MockFileRecordService{}
}

func (m *MockFileRecordService) Store(ctx context.Context, name string, ownerID string, entries []domain.StorageEntry) (*domain.FileRecord, error) {
	args := m.Called(ctx, name, ownerID, entries)
	return args.Get(0).(*domain.FileRecord), args.Error(1)
}

func (m *MockFileRecordService) Replace(ctx context.Context, id uuid.UUID, entries []domain.StorageEntry) (*domain.FileRecord, error) {
	args := m.Called(ctx, id, entries)
	return args.Get(0).(*domain.FileRecord), args.Error(1)
}

func (m *MockFileRecordService) Show(ctx context.Context, id uuid.UUID) (*domain.FileRecord, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*domain.FileRecord), args.Error(1)
}

func (m *MockFileRecordService) Index(ctx context.Context, query domain.RecordQuery) (*domain.RecordPage, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(*domain.RecordPage), args.Error(1)
}

func (m *MockFileRecordService) Destroy(ctx context.Context, id uuid.UUID) (*domain.DestroyResult, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*domain.DestroyResult), args.Error(1)
}

func (m *MockFileRecordService) DownloadURL(ctx context.Context, key string) (string, *time.Time, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Get(1).(*time.Time), args.Error(2)
}

type MockCache struct {
	mock.Mock
}

func NewMockCache() *MockCache {
	return &MockCache{}
}

func (m *MockCache) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	b, _ := args.Get(0).([]byte)
	return b, args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCache) Delete(ctx context.Context, keys ...string) error {
	args := m.Called(ctx, keys)
	return args.Error(0)
}

type MockPublisher struct {
	mock.Mock
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

func (m *MockPublisher) PublishCleanupJob(ctx context.Context, job domain.CleanupJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}
