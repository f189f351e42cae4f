package upload_test

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"mediavault/internal/adapters/repository"
	"mediavault/internal/adapters/storage"
	"mediavault/internal/core/domain"
	"mediavault/internal/core/service/upload"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func partsFor(n int) []domain.UploadPart {
	parts := make([]domain.UploadPart, n)
	for i := range parts {
		parts[i] = domain.UploadPart{PartNumber: i + 1, ETag: fmt.Sprintf("etag-%d", i+1)}
	}
	return parts
}

func TestUploadService_Complete_SortsParts(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockUow := repository.NewMockUnitOfWork()
	mockStorage := storage.NewMockStorage()
	service := upload.NewUploadService(mockUow, mockStorage, defaultCfg, noopMetrics, discardLogger)

	session := openSession(12)
	ordered := partsFor(12)
	shuffled := append([]domain.UploadPart(nil), ordered...)
	rand.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	sessions := mockUow.GetUploadSessionRepoMock()
	sessions.On("FindByID", ctx, session.ID).Return(session, nil)
	sessions.On("TransitionStatus", ctx, session.ID, domain.UploadSessionStatusOpen, domain.UploadSessionStatusCompleting).Return(nil)
	sessions.On("TransitionStatus", ctx, session.ID, domain.UploadSessionStatusCompleting, domain.UploadSessionStatusCompleted).Return(nil)
	mockStorage.On("ListPartsPaginated", ctx, session.StorageKey, "provider-id", 1000, 0).Return(ordered, 0, nil)
	mockStorage.On("CompleteMultipartUpload", ctx, session.StorageKey, "provider-id", ordered).Return(nil)

	// Act
	completed, err := service.Complete(ctx, session.StorageKey, session.ID, shuffled)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, domain.UploadSessionStatusCompleted, completed.Status)
	sessions.AssertExpectations(t)
	mockStorage.AssertExpectations(t)
}

func TestUploadService_Complete_IncompleteParts(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		parts []domain.UploadPart
	}{
		{"gap", append(partsFor(5)[:2], partsFor(5)[3:]...)},
		{"duplicate", append(partsFor(5), domain.UploadPart{PartNumber: 3, ETag: "etag-3"})},
		{"extra", partsFor(6)},
		{"empty", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			mockUow := repository.NewMockUnitOfWork()
			mockStorage := storage.NewMockStorage()
			service := upload.NewUploadService(mockUow, mockStorage, defaultCfg, noopMetrics, discardLogger)

			session := openSession(5)
			mockUow.GetUploadSessionRepoMock().On("FindByID", ctx, session.ID).Return(session, nil)

			// Act
			completed, err := service.Complete(ctx, session.StorageKey, session.ID, tt.parts)

			// Assert
			var incomplete *domain.IncompletePartsError
			assert.True(t, errors.As(err, &incomplete))
			assert.ErrorIs(t, err, domain.ErrIncompleteParts)
			assert.Nil(t, completed)
			mockUow.GetUploadSessionRepoMock().AssertNotCalled(t, "TransitionStatus")
			mockStorage.AssertNotCalled(t, "CompleteMultipartUpload")
		})
	}
}

func TestUploadService_Complete_AlreadyCompleted(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockUow := repository.NewMockUnitOfWork()
	mockStorage := storage.NewMockStorage()
	service := upload.NewUploadService(mockUow, mockStorage, defaultCfg, noopMetrics, discardLogger)

	session := openSession(2)
	session.Status = domain.UploadSessionStatusCompleted
	mockUow.GetUploadSessionRepoMock().On("FindByID", ctx, session.ID).Return(session, nil)

	// Act
	completed, err := service.Complete(ctx, "", session.ID, partsFor(2))

	// Assert
	assert.ErrorIs(t, err, domain.ErrSessionCompleted)
	assert.Nil(t, completed)
	mockStorage.AssertNotCalled(t, "CompleteMultipartUpload")
}

func TestUploadService_Complete_LostRace(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockUow := repository.NewMockUnitOfWork()
	mockStorage := storage.NewMockStorage()
	service := upload.NewUploadService(mockUow, mockStorage, defaultCfg, noopMetrics, discardLogger)

	session := openSession(2)
	sessions := mockUow.GetUploadSessionRepoMock()
	sessions.On("FindByID", ctx, session.ID).Return(session, nil)
	sessions.On("TransitionStatus", ctx, session.ID, domain.UploadSessionStatusOpen, domain.UploadSessionStatusCompleting).
		Return(domain.ErrSessionStateConflict)

	// Act
	completed, err := service.Complete(ctx, session.StorageKey, session.ID, partsFor(2))

	// Assert
	assert.ErrorIs(t, err, domain.ErrSessionStateConflict)
	assert.Nil(t, completed)
	mockStorage.AssertNotCalled(t, "CompleteMultipartUpload")
}

func TestUploadService_Complete_ETagMismatchReopens(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockUow := repository.NewMockUnitOfWork()
	mockStorage := storage.NewMockStorage()
	service := upload.NewUploadService(mockUow, mockStorage, defaultCfg, noopMetrics, discardLogger)

	session := openSession(2)
	sessions := mockUow.GetUploadSessionRepoMock()
	sessions.On("FindByID", ctx, session.ID).Return(session, nil)
	sessions.On("TransitionStatus", ctx, session.ID, domain.UploadSessionStatusOpen, domain.UploadSessionStatusCompleting).Return(nil)
	sessions.On("TransitionStatus", ctx, session.ID, domain.UploadSessionStatusCompleting, domain.UploadSessionStatusOpen).Return(nil)
	mockStorage.On("ListPartsPaginated", ctx, session.StorageKey, "provider-id", 1000, 0).
		Return([]domain.UploadPart{{PartNumber: 1, ETag: "\"etag-1\""}, {PartNumber: 2, ETag: "wrong"}}, 0, nil)

	// Act
	completed, err := service.Complete(ctx, session.StorageKey, session.ID, partsFor(2))

	// Assert
	assert.ErrorIs(t, err, domain.ErrMismatchETag)
	assert.Nil(t, completed)
	sessions.AssertExpectations(t)
	mockStorage.AssertNotCalled(t, "CompleteMultipartUpload")
}

func TestUploadService_Complete_MissingBackendPart(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockUow := repository.NewMockUnitOfWork()
	mockStorage := storage.NewMockStorage()
	service := upload.NewUploadService(mockUow, mockStorage, defaultCfg, noopMetrics, discardLogger)

	session := openSession(2)
	sessions := mockUow.GetUploadSessionRepoMock()
	sessions.On("FindByID", ctx, session.ID).Return(session, nil)
	sessions.On("TransitionStatus", ctx, session.ID, mock.Anything, mock.Anything).Return(nil)
	mockStorage.On("ListPartsPaginated", ctx, session.StorageKey, "provider-id", 1000, 0).
		Return(partsFor(1), 0, nil)

	// Act
	_, err := service.Complete(ctx, session.StorageKey, session.ID, partsFor(2))

	// Assert
	assert.ErrorIs(t, err, domain.ErrMismatchNBParts)
}

func TestUploadService_Complete_BackendFailureReopens(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockUow := repository.NewMockUnitOfWork()
	mockStorage := storage.NewMockStorage()
	service := upload.NewUploadService(mockUow, mockStorage, defaultCfg, noopMetrics, discardLogger)

	session := openSession(2)
	backendErr := errors.New("backend unavailable")
	sessions := mockUow.GetUploadSessionRepoMock()
	sessions.On("FindByID", ctx, session.ID).Return(session, nil)
	sessions.On("TransitionStatus", ctx, session.ID, domain.UploadSessionStatusOpen, domain.UploadSessionStatusCompleting).Return(nil)
	sessions.On("TransitionStatus", ctx, session.ID, domain.UploadSessionStatusCompleting, domain.UploadSessionStatusOpen).Return(nil)
	mockStorage.On("ListPartsPaginated", ctx, session.StorageKey, "provider-id", 1000, 0).Return(partsFor(2), 0, nil)
	mockStorage.On("CompleteMultipartUpload", ctx, session.StorageKey, "provider-id", partsFor(2)).Return(backendErr)

	// Act
	_, err := service.Complete(ctx, session.StorageKey, session.ID, partsFor(2))

	// Assert
	assert.ErrorIs(t, err, backendErr)
	sessions.AssertExpectations(t)
}
