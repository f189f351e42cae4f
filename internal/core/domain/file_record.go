package domain

import (
	"time"

	"github.com/google/uuid"
)

// StorageEntry is one stored object belonging to a file record
type StorageEntry struct {
	Key       string `json:"key"`
	Mimetype  string `json:"mimetype"`
	Size      int64  `json:"size"`
	Dimension *int   `json:"dimension,omitempty"`
}

// FileRecord represents the logical file persisted once an upload succeeded
type FileRecord struct {
	ID        uuid.UUID      `json:"id"`
	Name      string         `json:"name"`
	Entries   []StorageEntry `json:"entries"`
	History   []string       `json:"history"`
	OwnerID   string         `json:"ownerId"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// Keys returns every storage key referenced by the record, history included
func (r *FileRecord) Keys() []string {
	keys := make([]string, 0, len(r.Entries)+len(r.History))
	seen := make(map[string]struct{}, cap(keys))
	add := func(k string) {
		if k == "" {
			return
		}
		if _, ok := seen[k]; ok {
			return
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	for _, e := range r.Entries {
		add(e.Key)
	}
	for _, h := range r.History {
		add(h)
	}
	return keys
}

// RecordQuery filters a file record listing
type RecordQuery struct {
	Search string
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

// IsDefault reports whether the query is the unfiltered first page
func (q RecordQuery) IsDefault(defaultLimit int) bool {
	return q.Search == "" && q.From == nil && q.To == nil && q.Offset == 0 && q.Limit == defaultLimit
}

// RecordPage is a page of file records
type RecordPage struct {
	Items  []FileRecord `json:"items"`
	Total  int          `json:"total"`
	Limit  int          `json:"limit"`
	Offset int          `json:"offset"`
}

// DestroyResult reports the storage sweep done while destroying a record
type DestroyResult struct {
	RemovedKeys []string `json:"removedKeys"`
	FailedKeys  []string `json:"failedKeys"`
}
