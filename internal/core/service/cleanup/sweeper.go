package cleanup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mediavault/internal/core/domain"
	"mediavault/internal/core/port"
)

type sweeper struct {
	fileStorage port.FileStorage
	logger      *slog.Logger
}

// NewSweeper handles CleanupJob messages. Returning an error makes the broker redeliver.
func NewSweeper(fileStorage port.FileStorage, logger *slog.Logger) port.MessageService {
	return &sweeper{fileStorage: fileStorage, logger: logger}
}

func (s *sweeper) HandleMessage(ctx context.Context, data []byte) error {
	var job domain.CleanupJob
	if err := json.Unmarshal(data, &job); err != nil {
		// redelivering a payload that never decodes only burns attempts
		s.logger.Error("dropping malformed cleanup job", "error", err)
		return nil
	}

	var failed []string
	for _, key := range job.Keys {
		err := s.fileStorage.DeleteObject(ctx, key)
		if err != nil && !errors.Is(err, domain.ErrObjectNotFound) {
			s.logger.Warn("sweep failed", "record_id", job.RecordID, "key", key, "error", err)
			failed = append(failed, key)
		}
	}

	if len(failed) > 0 {
		return fmt.Errorf("%d of %d keys still present: %v", len(failed), len(job.Keys), failed)
	}

	s.logger.Info("cleanup job swept", "record_id", job.RecordID, "reason", job.Reason, "keys", len(job.Keys))
	return nil
}
