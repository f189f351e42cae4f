package upload

import (
	"context"
	"mediavault/internal/core/domain"
	"strings"

	"github.com/google/uuid"
)

// Complete assembles the parts into the final object. Exactly one caller wins the open -> completing transition.
func (u *uploadService) Complete(ctx context.Context, key string, sessionID uuid.UUID, parts []domain.UploadPart) (*domain.UploadSession, error) {
	session, err := u.loadOpenSession(ctx, key, sessionID)
	if err != nil {
		return nil, err
	}

	if err := domain.CheckParts(parts, session.TotalParts); err != nil {
		return nil, err
	}

	repo := u.uow.UploadSessionRepo()
	if err := repo.TransitionStatus(ctx, session.ID, domain.UploadSessionStatusOpen, domain.UploadSessionStatusCompleting); err != nil {
		return nil, err
	}

	sorted := domain.SortParts(parts)

	if err := u.verifyParts(ctx, session, sorted); err != nil {
		u.reopen(ctx, session)
		return nil, err
	}

	if err := u.fileStorage.CompleteMultipartUpload(ctx, session.StorageKey, session.ProviderUploadID, sorted); err != nil {
		u.reopen(ctx, session)
		return nil, err
	}

	if err := repo.TransitionStatus(ctx, session.ID, domain.UploadSessionStatusCompleting, domain.UploadSessionStatusCompleted); err != nil {
		u.logger.Error("object assembled but session not marked completed", "session_id", session.ID, "error", err)
		return nil, err
	}

	u.metrics.ObserveSession("completed")
	session.Status = domain.UploadSessionStatusCompleted
	return session, nil
}

// verifyParts cross checks the caller ETags with what the backend actually holds
func (u *uploadService) verifyParts(ctx context.Context, session *domain.UploadSession, parts []domain.UploadPart) error {
	exp := make(map[int]string, len(parts))
	for _, p := range parts {
		exp[p.PartNumber] = strings.Trim(p.ETag, "\"")
	}

	marker := 0
	listed := 0
	for {
		stored, next, err := u.fileStorage.ListPartsPaginated(ctx, session.StorageKey, session.ProviderUploadID, 1000, marker)
		if err != nil {
			return err
		}
		for _, part := range stored {
			want, ok := exp[part.PartNumber]
			if !ok {
				// parts beyond the declared set are ignored by the backend on completion
				continue
			}
			listed++
			if want != strings.Trim(part.ETag, "\"") {
				return domain.ErrMismatchETag
			}
		}
		if next == 0 || len(stored) == 0 {
			break
		}
		marker = next
	}
	if listed != len(parts) {
		return domain.ErrMismatchNBParts
	}
	return nil
}
