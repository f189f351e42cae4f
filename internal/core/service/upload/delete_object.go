package upload

import (
	"context"
	"errors"
	"mediavault/internal/core/domain"
)

// DeleteObject removes an object, an object already gone counts as removed
func (u *uploadService) DeleteObject(ctx context.Context, key string) error {
	err := u.fileStorage.DeleteObject(ctx, key)
	if errors.Is(err, domain.ErrObjectNotFound) {
		u.logger.Info("object already removed", "key", key)
		return nil
	}
	return err
}
