package postgres_test

import (
	"context"
	"mediavault/internal/adapters/repository/postgres"
	"mediavault/internal/core/domain"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newSession(expiresAt time.Time) domain.UploadSession {
	id := uuid.New()
	return domain.UploadSession{
		ID:               id,
		StorageKey:       "uploads/2026/10/16/" + id.String() + "-video.mp4",
		ProviderUploadID: "provider-" + id.String(),
		FileName:         "video.mp4",
		ContentType:      "video/mp4",
		SizeBytes:        120 << 20,
		PartSize:         10 << 20,
		TotalParts:       12,
		ExpiresAt:        expiresAt.Round(time.Microsecond),
		Status:           domain.UploadSessionStatusOpen,
	}
}

func TestSqlUploadSessionRepository(t *testing.T) {
	dbConnection, truncate := postgres.NewTestDB(t)
	ctx := context.Background()

	sessionRepo := postgres.NewSQLUploadSessionRepository(dbConnection)

	t.Run("Create - Nominal case", func(t *testing.T) {
		// Arrange
		truncate()
		session := newSession(time.Now().Add(time.Hour))

		// Act
		err := sessionRepo.Create(ctx, session)

		// Assert
		require.NoError(t, err)
		saved, err := sessionRepo.FindByID(ctx, session.ID)
		require.NoError(t, err)
		require.Equal(t, session.ID, saved.ID)
		require.Equal(t, session.StorageKey, saved.StorageKey)
		require.Equal(t, session.ProviderUploadID, saved.ProviderUploadID)
		require.Equal(t, 12, saved.TotalParts)
		require.Equal(t, domain.UploadSessionStatusOpen, saved.Status)
		require.WithinDuration(t, session.ExpiresAt, saved.ExpiresAt, time.Second)
	})

	t.Run("Create - Duplicate key", func(t *testing.T) {
		// Arrange
		truncate()
		session := newSession(time.Now().Add(time.Hour))
		require.NoError(t, sessionRepo.Create(ctx, session))
		other := newSession(time.Now().Add(time.Hour))
		other.StorageKey = session.StorageKey

		// Act
		err := sessionRepo.Create(ctx, other)

		// Assert
		require.ErrorIs(t, err, domain.ErrAlreadyExists)
	})

	t.Run("FindByID - Not found", func(t *testing.T) {
		// Act
		_, err := sessionRepo.FindByID(ctx, uuid.New())

		// Assert
		require.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("TransitionStatus - Success and conflict", func(t *testing.T) {
		// Arrange
		truncate()
		session := newSession(time.Now().Add(time.Hour))
		require.NoError(t, sessionRepo.Create(ctx, session))

		// Act
		err := sessionRepo.TransitionStatus(ctx, session.ID, domain.UploadSessionStatusOpen, domain.UploadSessionStatusCompleting)
		conflict := sessionRepo.TransitionStatus(ctx, session.ID, domain.UploadSessionStatusOpen, domain.UploadSessionStatusAborted)
		missing := sessionRepo.TransitionStatus(ctx, uuid.New(), domain.UploadSessionStatusOpen, domain.UploadSessionStatusAborted)

		// Assert
		require.NoError(t, err)
		require.ErrorIs(t, conflict, domain.ErrSessionStateConflict)
		require.ErrorIs(t, missing, domain.ErrSessionNotFound)
		saved, err := sessionRepo.FindByID(ctx, session.ID)
		require.NoError(t, err)
		require.Equal(t, domain.UploadSessionStatusCompleting, saved.Status)
	})

	t.Run("TransitionStatus - Exactly one concurrent winner", func(t *testing.T) {
		// Arrange
		truncate()
		session := newSession(time.Now().Add(time.Hour))
		require.NoError(t, sessionRepo.Create(ctx, session))

		var wins atomic.Int32
		var wg sync.WaitGroup

		// Act
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if sessionRepo.TransitionStatus(ctx, session.ID, domain.UploadSessionStatusOpen, domain.UploadSessionStatusCompleting) == nil {
					wins.Add(1)
				}
			}()
		}
		wg.Wait()

		// Assert
		require.Equal(t, int32(1), wins.Load())
	})

	t.Run("FindAllExpired - Only open and expired", func(t *testing.T) {
		// Arrange
		truncate()
		now := time.Now()
		expired := newSession(now.Add(-time.Hour))
		fresh := newSession(now.Add(time.Hour))
		expiredAborted := newSession(now.Add(-time.Hour))
		expiredAborted.Status = domain.UploadSessionStatusAborted
		for _, s := range []domain.UploadSession{expired, fresh, expiredAborted} {
			require.NoError(t, sessionRepo.Create(ctx, s))
		}

		// Act
		sessions, err := sessionRepo.FindAllExpired(ctx, now)

		// Assert
		require.NoError(t, err)
		require.Len(t, sessions, 1)
		require.Equal(t, expired.ID, sessions[0].ID)
	})
}
