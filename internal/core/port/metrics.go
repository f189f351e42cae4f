package port

import "mediavault/internal/core/domain"

// Metrics records domain level counters
type Metrics interface {
	ObserveSession(outcome string)
	ObserveMediaFile(kind domain.FileType, outcome string)
}
