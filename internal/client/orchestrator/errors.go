package orchestrator

import "errors"

// ErrMimetypeNotAllowed is returned when a file type is outside the allow list
var ErrMimetypeNotAllowed = errors.New("mimetype not allowed")

// ErrPartFailed is returned when a part exhausted its attempts
var ErrPartFailed = errors.New("part upload failed")

// ErrMissingETag is returned when storage accepted a part without an ETag
var ErrMissingETag = errors.New("storage returned no ETag")

// ErrDuplicateID is returned for a second file carrying an ID already in flight
var ErrDuplicateID = errors.New("duplicate file id")
