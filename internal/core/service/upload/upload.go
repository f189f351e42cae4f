package upload

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mediavault/internal/config"
	"mediavault/internal/core/domain"
	"mediavault/internal/core/port"
	"time"

	"github.com/google/uuid"
)

// maxParts is the S3 limit on parts per upload
const maxParts = 10000

type uploadService struct {
	fileStorage   port.FileStorage
	uow           port.UnitOfWork
	fileUploadCfg config.FileUploadConfig
	metrics       port.Metrics
	logger        *slog.Logger
}

// NewUploadService creates a new upload service
func NewUploadService(uow port.UnitOfWork, storage port.FileStorage, cfg config.FileUploadConfig, metrics port.Metrics, logger *slog.Logger) port.UploadService {
	return &uploadService{
		uow:           uow,
		fileStorage:   storage,
		fileUploadCfg: cfg,
		metrics:       metrics,
		logger:        logger,
	}
}

// allocateKey namespaces the object by day, the uuid keeps concurrent callers apart
func (u *uploadService) allocateKey(fileName string) string {
	now := time.Now().UTC()
	return fmt.Sprintf("%s/%s/%s-%s", u.fileUploadCfg.KeyPrefix, now.Format("2006/01/02"), uuid.NewString(), domain.SanitizeFileName(fileName))
}

// loadSession fetches the session and checks the caller supplied key against it
func (u *uploadService) loadSession(ctx context.Context, key string, sessionID uuid.UUID) (*domain.UploadSession, error) {
	session, err := u.uow.UploadSessionRepo().FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if key != "" && key != session.StorageKey {
		return nil, domain.ErrKeyMismatch
	}
	return session, nil
}

// loadOpenSession is loadSession restricted to sessions still accepting parts
func (u *uploadService) loadOpenSession(ctx context.Context, key string, sessionID uuid.UUID) (*domain.UploadSession, error) {
	session, err := u.loadSession(ctx, key, sessionID)
	if err != nil {
		return nil, err
	}

	switch session.Status {
	case domain.UploadSessionStatusOpen:
	case domain.UploadSessionStatusCompleted:
		return nil, domain.ErrSessionCompleted
	case domain.UploadSessionStatusAborted:
		return nil, domain.ErrSessionAborted
	default:
		return nil, domain.ErrSessionStateConflict
	}

	if session.Expired(time.Now()) {
		return nil, domain.ErrSessionExpired
	}
	return session, nil
}

// reopen hands a session back to the caller after a failed completion attempt
func (u *uploadService) reopen(ctx context.Context, session *domain.UploadSession) {
	err := u.uow.UploadSessionRepo().TransitionStatus(ctx, session.ID, domain.UploadSessionStatusCompleting, domain.UploadSessionStatusOpen)
	if err != nil && !errors.Is(err, domain.ErrSessionStateConflict) {
		u.logger.Error("failed to reopen session", "session_id", session.ID, "error", err)
	}
}
