package domain

import (
	"time"

	"github.com/google/uuid"
)

// CleanupReason tells why storage keys were queued for removal
type CleanupReason string

const (
	CleanupReasonRecordDestroyed CleanupReason = "record_destroyed"
	CleanupReasonObjectDeleted   CleanupReason = "object_deleted"
)

// CleanupJob is the compensating job published when storage removal failed
type CleanupJob struct {
	RecordID  uuid.UUID     `json:"record_id"`
	Keys      []string      `json:"keys"`
	Reason    CleanupReason `json:"reason"`
	CreatedAt time.Time     `json:"created_at"`
}
