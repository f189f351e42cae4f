package record_test

import (
	"context"
	"errors"
	"mediavault/internal/adapters/repository"
	"mediavault/internal/adapters/storage"
	"mediavault/internal/core/domain"
	"mediavault/internal/core/service/record"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRecordService_Show(t *testing.T) {
	ctx := context.Background()

	t.Run("read through cache", func(t *testing.T) {
		// Arrange
		mockUow := repository.NewMockUnitOfWork()
		redisServer, cache := newCache(t)
		service := record.NewFileRecordService(mockUow, storage.NewMockStorage(), cache, nil, cacheTTL, discardLogger)

		existing := existingRecord()
		records := mockUow.GetFileRecordRepoMock()
		records.On("FindByID", ctx, existing.ID).Return(existing, nil).Once()

		// Act
		first, err1 := service.Show(ctx, existing.ID)
		second, err2 := service.Show(ctx, existing.ID)

		// Assert
		require.NoError(t, err1)
		require.NoError(t, err2)
		assert.Equal(t, existing.Name, first.Name)
		assert.Equal(t, existing.Name, second.Name)
		assert.Equal(t, existing.Entries[0].Key, second.Entries[0].Key)
		assert.Equal(t, 200, *second.Entries[0].Dimension)
		records.AssertNumberOfCalls(t, "FindByID", 1)
		assert.True(t, redisServer.Exists("file-record:"+existing.ID.String()))
		assert.Equal(t, cacheTTL, redisServer.TTL("file-record:"+existing.ID.String()))
	})

	t.Run("cache failure falls back to repository", func(t *testing.T) {
		// Arrange
		mockUow := repository.NewMockUnitOfWork()
		mockCache := record.NewMockCache()
		service := record.NewFileRecordService(mockUow, storage.NewMockStorage(), mockCache, nil, cacheTTL, discardLogger)

		existing := existingRecord()
		mockCache.On("Get", ctx, mock.Anything).Return(nil, errors.New("redis down"))
		mockCache.On("Set", ctx, mock.Anything, mock.Anything, cacheTTL).Return(errors.New("redis down"))
		mockUow.GetFileRecordRepoMock().On("FindByID", ctx, existing.ID).Return(existing, nil)

		// Act
		got, err := service.Show(ctx, existing.ID)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, existing.ID, got.ID)
	})

	t.Run("not found", func(t *testing.T) {
		mockUow := repository.NewMockUnitOfWork()
		service := record.NewFileRecordService(mockUow, storage.NewMockStorage(), nil, nil, cacheTTL, discardLogger)
		existing := existingRecord()
		mockUow.GetFileRecordRepoMock().On("FindByID", ctx, existing.ID).Return((*domain.FileRecord)(nil), domain.ErrFileRecordNotFound)

		_, err := service.Show(ctx, existing.ID)

		assert.ErrorIs(t, err, domain.ErrFileRecordNotFound)
	})
}

func TestRecordService_DownloadURL(t *testing.T) {
	ctx := context.Background()
	mockStorage := storage.NewMockStorage()
	service := record.NewFileRecordService(repository.NewMockUnitOfWork(), mockStorage, nil, nil, cacheTTL, discardLogger)
	expiresAt := time.Now().Add(15 * time.Minute)
	mockStorage.On("GeneratePresignedURLForDownload", ctx, "a.png").Return("https://signed/a.png", &expiresAt, nil)

	url, exp, err := service.DownloadURL(ctx, "a.png")

	require.NoError(t, err)
	assert.Equal(t, "https://signed/a.png", url)
	assert.Equal(t, &expiresAt, exp)
}
