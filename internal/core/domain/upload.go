package domain

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// UploadSessionStatus represents the status of an upload session
type UploadSessionStatus string

const (
	UploadSessionStatusOpen       UploadSessionStatus = "open"
	UploadSessionStatusCompleting UploadSessionStatus = "completing"
	UploadSessionStatusCompleted  UploadSessionStatus = "completed"
	UploadSessionStatusAborted    UploadSessionStatus = "aborted"
)

// UploadSession represents a server owned multipart upload
type UploadSession struct {
	ID               uuid.UUID
	StorageKey       string
	ProviderUploadID string
	FileName         string
	ContentType      string
	SizeBytes        int64
	PartSize         int64
	TotalParts       int
	ExpiresAt        time.Time
	Status           UploadSessionStatus
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Expired reports whether the session outlived its TTL at now
func (s *UploadSession) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// TotalPartsFor returns ceil(size / partSize)
func TotalPartsFor(size, partSize int64) int {
	if size <= 0 || partSize <= 0 {
		return 0
	}
	return int((size + partSize - 1) / partSize)
}

// UploadPart represents an upload part (chunk)
type UploadPart struct {
	PartNumber   int
	ETag         string
	PresignedURL string
	ExpiresAt    *time.Time
}

// SimpleUpload is the answer to a single shot presign request
type SimpleUpload struct {
	UploadURL string
	Key       string
	ExpiresAt *time.Time
}

// CheckParts verifies that parts cover 1..totalParts exactly once.
func CheckParts(parts []UploadPart, totalParts int) error {
	seen := make(map[int]int, len(parts))
	incomplete := &IncompletePartsError{TotalParts: totalParts}
	for _, p := range parts {
		if p.PartNumber < 1 || p.PartNumber > totalParts {
			incomplete.OutOfRange = append(incomplete.OutOfRange, p.PartNumber)
			continue
		}
		seen[p.PartNumber]++
		if seen[p.PartNumber] == 2 {
			incomplete.Duplicates = append(incomplete.Duplicates, p.PartNumber)
		}
	}
	for n := 1; n <= totalParts; n++ {
		if seen[n] == 0 {
			incomplete.Missing = append(incomplete.Missing, n)
		}
	}
	if len(incomplete.Missing) > 0 || len(incomplete.Duplicates) > 0 || len(incomplete.OutOfRange) > 0 {
		sort.Ints(incomplete.Duplicates)
		sort.Ints(incomplete.OutOfRange)
		return incomplete
	}
	return nil
}

// SortParts returns a copy of parts ordered by part number
func SortParts(parts []UploadPart) []UploadPart {
	sorted := make([]UploadPart, len(parts))
	copy(sorted, parts)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].PartNumber < sorted[j].PartNumber
	})
	return sorted
}

// ObjectInfo describes a stored object
type ObjectInfo struct {
	Key         string
	Size        int64
	ContentType string
	ETag        string
	ModTime     time.Time
}

// String is used in logs
func (s UploadSessionStatus) String() string {
	return string(s)
}

func (s *UploadSession) String() string {
	return fmt.Sprintf("session %s (%s, %d parts)", s.ID, s.StorageKey, s.TotalParts)
}
