package cleanup

import (
	"context"
	"errors"
	"mediavault/internal/core/domain"
	"time"
)

// CleanupExpiredSessions aborts every open session whose TTL elapsed.
// One failing session never stops the sweep.
func (c *cleanupService) CleanupExpiredSessions(ctx context.Context, now time.Time) error {
	sessions, err := c.uow.UploadSessionRepo().FindAllExpired(ctx, now)
	if err != nil {
		return err
	}

	aborted := 0
	for _, session := range sessions {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := c.fileStorage.AbortMultipartUpload(ctx, session.StorageKey, session.ProviderUploadID)
		if err != nil && !errors.Is(err, domain.ErrUploadNotFound) {
			c.logger.Error("failed to abort expired upload", "session_id", session.ID, "key", session.StorageKey, "error", err)
			continue
		}

		err = c.uow.UploadSessionRepo().TransitionStatus(ctx, session.ID, domain.UploadSessionStatusOpen, domain.UploadSessionStatusAborted)
		if err != nil {
			if errors.Is(err, domain.ErrSessionStateConflict) {
				c.logger.Warn("expired session changed state during cleanup", "session_id", session.ID)
				continue
			}
			c.logger.Error("failed to mark expired session aborted", "session_id", session.ID, "error", err)
			continue
		}
		aborted++
		c.metrics.ObserveSession("expired")
	}

	c.logger.Info("expired sessions cleanup completed", "found", len(sessions), "aborted", aborted)
	return nil
}
