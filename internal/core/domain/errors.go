package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrAlreadyExists is an error thrown when entity already exists
var ErrAlreadyExists = errors.New("already exists")

// ErrSessionNotFound is an error thrown when session is not found
var ErrSessionNotFound = errors.New("session not found")

// ErrSessionExpired is an error thrown when a session outlived its TTL
var ErrSessionExpired = errors.New("session expired")

// ErrSessionCompleted is an error thrown when a session was already completed
var ErrSessionCompleted = errors.New("session already completed")

// ErrSessionAborted is an error thrown when a session was already aborted
var ErrSessionAborted = errors.New("session already aborted")

// ErrSessionStateConflict is an error thrown when a status transition lost a race
var ErrSessionStateConflict = errors.New("session state conflict")

// ErrKeyMismatch is an error thrown when the storage key does not belong to the session
var ErrKeyMismatch = errors.New("storage key does not match session")

// ErrInvalidPartNumber is an error thrown when a part number is out of range
var ErrInvalidPartNumber = errors.New("invalid part number")

// ErrIncompleteParts is matched by IncompletePartsError
var ErrIncompleteParts = errors.New("incomplete parts")

// ErrFileRecordNotFound is an error thrown when file record is not found
var ErrFileRecordNotFound = errors.New("file record not found")

// ErrInvalidRecord is an error thrown when a file record is missing mandatory data
var ErrInvalidRecord = errors.New("invalid file record")

// ErrInvalidFileType is an error thrown when file type is invalid
var ErrInvalidFileType = errors.New("invalid file type")

// ErrFileSizeTooBig is an error thrown when file size is too big
var ErrFileSizeTooBig = errors.New("file size too big")

// ErrFileSizeTooSmall is an error thrown when file size is too small
var ErrFileSizeTooSmall = errors.New("file size too small")

// ErrTooManyFiles is an error thrown when a batch exceeds the rule max files
var ErrTooManyFiles = errors.New("too many files")

// ErrMismatchETag is an error thrown when tags mismatch
var ErrMismatchETag = errors.New("mismatched ETag")

// ErrMismatchNBParts is an error thrown when nb parts mismatch
var ErrMismatchNBParts = errors.New("mismatched number of parts")

// ErrObjectNotFound is an error thrown when a storage object does not exist
var ErrObjectNotFound = errors.New("object not found")

// ErrUploadNotFound is an error thrown when the backend no longer knows a multipart upload
var ErrUploadNotFound = errors.New("multipart upload not found")

// ErrTranscodeFailed is an error thrown when a media transformation fails
var ErrTranscodeFailed = errors.New("transcode failed")

// IncompletePartsError reports why a set of parts cannot complete a session.
type IncompletePartsError struct {
	TotalParts int
	Missing    []int
	Duplicates []int
	OutOfRange []int
}

func (e *IncompletePartsError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "incomplete parts: expected 1..%d", e.TotalParts)
	if len(e.Missing) > 0 {
		fmt.Fprintf(&b, ", missing %v", e.Missing)
	}
	if len(e.Duplicates) > 0 {
		fmt.Fprintf(&b, ", duplicated %v", e.Duplicates)
	}
	if len(e.OutOfRange) > 0 {
		fmt.Fprintf(&b, ", out of range %v", e.OutOfRange)
	}
	return b.String()
}

// Is makes errors.Is(err, ErrIncompleteParts) work
func (e *IncompletePartsError) Is(target error) bool {
	return target == ErrIncompleteParts
}

// ErrCacheMiss is returned by caches when the key is absent
var ErrCacheMiss = errors.New("cache miss")
