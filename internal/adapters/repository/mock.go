package repository

import (
	"context"
	"mediavault/internal/core/domain"
	"mediavault/internal/core/port"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockFileRecordRepository struct {
	mock.Mock
}

func NewMockFileRecordRepository() *MockFileRecordRepository {
	return &MockFileRecordRepository{}
}

func (m *MockFileRecordRepository) Create(ctx context.Context, record domain.FileRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockFileRecordRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.FileRecord, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*domain.FileRecord), args.Error(1)
}

func (m *MockFileRecordRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.FileRecord, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*domain.FileRecord), args.Error(1)
}

func (m *MockFileRecordRepository) Update(ctx context.Context, record domain.FileRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockFileRecordRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockFileRecordRepository) List(ctx context.Context, query domain.RecordQuery) ([]domain.FileRecord, int, error) {
	args := m.Called(ctx, query)
	return args.Get(0).([]domain.FileRecord), args.Int(1), args.Error(2)
}

type MockUploadSessionRepository struct {
	mock.Mock
}

func NewMockUploadSessionRepository() *MockUploadSessionRepository {
	return &MockUploadSessionRepository{}
}

func (m *MockUploadSessionRepository) Create(ctx context.Context, session domain.UploadSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockUploadSessionRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.UploadSession, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*domain.UploadSession), args.Error(1)
}

func (m *MockUploadSessionRepository) TransitionStatus(ctx context.Context, id uuid.UUID, from domain.UploadSessionStatus, to domain.UploadSessionStatus) error {
	args := m.Called(ctx, id, from, to)
	return args.Error(0)
}

func (m *MockUploadSessionRepository) FindAllExpired(ctx context.Context, now time.Time) ([]domain.UploadSession, error) {
	args := m.Called(ctx, now)
	return args.Get(0).([]domain.UploadSession), args.Error(1)
}

type MockUnitOfWork struct {
	mock.Mock
	fileRecordRepo    *MockFileRecordRepository
	uploadSessionRepo *MockUploadSessionRepository
}

func NewMockUnitOfWork() *MockUnitOfWork {
	return &MockUnitOfWork{
		fileRecordRepo:    &MockFileRecordRepository{},
		uploadSessionRepo: &MockUploadSessionRepository{},
	}
}

func (m *MockUnitOfWork) FileRecordRepo() port.FileRecordRepository {
	return m.fileRecordRepo
}

func (m *MockUnitOfWork) UploadSessionRepo() port.UploadSessionRepository {
	return m.uploadSessionRepo
}

func (m *MockUnitOfWork) Execute(ctx context.Context, fn func(uow port.UnitOfWork) error) error {
	args := m.Called(ctx, fn)

	if err := fn(m); err != nil {
		return err
	}

	return args.Error(0)
}

func (m *MockUnitOfWork) GetFileRecordRepoMock() *MockFileRecordRepository {
	return m.fileRecordRepo
}

func (m *MockUnitOfWork) GetUploadSessionRepoMock() *MockUploadSessionRepository {
	return m.uploadSessionRepo
}
