package upload

import (
	"context"
	"errors"
	"mediavault/internal/core/domain"

	"github.com/google/uuid"
)

// Abort releases uncommitted parts. Aborting twice is a no-op.
func (u *uploadService) Abort(ctx context.Context, key string, sessionID uuid.UUID) error {
	session, err := u.loadSession(ctx, key, sessionID)
	if err != nil {
		return err
	}

	switch session.Status {
	case domain.UploadSessionStatusAborted:
		return nil
	case domain.UploadSessionStatusCompleted:
		return domain.ErrSessionCompleted
	case domain.UploadSessionStatusCompleting:
		return domain.ErrSessionStateConflict
	}

	err = u.fileStorage.AbortMultipartUpload(ctx, session.StorageKey, session.ProviderUploadID)
	if err != nil && !errors.Is(err, domain.ErrUploadNotFound) {
		return err
	}

	repo := u.uow.UploadSessionRepo()
	err = repo.TransitionStatus(ctx, session.ID, domain.UploadSessionStatusOpen, domain.UploadSessionStatusAborted)
	if errors.Is(err, domain.ErrSessionStateConflict) {
		current, findErr := repo.FindByID(ctx, session.ID)
		if findErr == nil && current.Status == domain.UploadSessionStatusAborted {
			return nil
		}
	}
	if err != nil {
		return err
	}

	u.metrics.ObserveSession("aborted")
	u.logger.Info("upload session aborted", "session_id", session.ID, "key", session.StorageKey)
	return nil
}
