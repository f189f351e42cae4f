package domain

import "strings"

// FileType represents a file type
type FileType string

const (
	FileTypeImage FileType = "image"
	FileTypeVideo FileType = "video"
	FileTypePlain FileType = "plain"
)

// FileTypeFromMime resolves the processing path for a mimetype
func FileTypeFromMime(mimeType string) FileType {
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return FileTypeImage
	case strings.HasPrefix(mimeType, "video/"):
		return FileTypeVideo
	default:
		return FileTypePlain
	}
}

// RawFile is a server side temp file waiting for post processing.
// Processing may remove Path once consumed, callers must tolerate it being gone.
type RawFile struct {
	Name     string
	Path     string
	Size     int64
	Mimetype string
}

// StoredFile describes an object written by the media post processor
type StoredFile struct {
	Key       string `json:"key"`
	Mimetype  string `json:"mimetype"`
	Size      int64  `json:"size"`
	Name      string `json:"name"`
	Dimension *int   `json:"dimension,omitempty"`
}

// FailedFile is a file the post processor gave up on
type FailedFile struct {
	Name string
	Err  error
}

// ProcessResult holds successes and failures of a batch separately
type ProcessResult struct {
	Stored []StoredFile
	Failed []FailedFile
}

// Entries converts stored files to record storage entries
func (r *ProcessResult) Entries() []StorageEntry {
	entries := make([]StorageEntry, 0, len(r.Stored))
	for _, s := range r.Stored {
		entries = append(entries, StorageEntry{Key: s.Key, Mimetype: s.Mimetype, Size: s.Size, Dimension: s.Dimension})
	}
	return entries
}
