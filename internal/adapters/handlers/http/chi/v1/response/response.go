package response

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mediavault/internal/core/domain"
	"net/http"
)

// MaxJSONBody caps JSON request bodies
const MaxJSONBody = 1 << 20

// ErrorBody is the JSON error payload
type ErrorBody struct {
	Error      string `json:"error"`
	Missing    []int  `json:"missing,omitempty"`
	Duplicates []int  `json:"duplicates,omitempty"`
	OutOfRange []int  `json:"outOfRange,omitempty"`
}

// JSON writes v with status
func JSON(w http.ResponseWriter, logger *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("error encoding response", "error", err)
	}
}

// Decode reads a JSON body into dst, unknown fields are ignored
func Decode(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, MaxJSONBody)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		return err
	}
	return nil
}

// StatusFor maps domain errors to HTTP status codes
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrFileRecordNotFound),
		errors.Is(err, domain.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrSessionCompleted),
		errors.Is(err, domain.ErrSessionAborted),
		errors.Is(err, domain.ErrSessionStateConflict),
		errors.Is(err, domain.ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, domain.ErrSessionExpired):
		return http.StatusGone
	case errors.Is(err, domain.ErrKeyMismatch),
		errors.Is(err, domain.ErrInvalidPartNumber),
		errors.Is(err, domain.ErrIncompleteParts),
		errors.Is(err, domain.ErrMismatchETag),
		errors.Is(err, domain.ErrMismatchNBParts),
		errors.Is(err, domain.ErrInvalidRecord):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidFileType),
		errors.Is(err, domain.ErrFileSizeTooBig),
		errors.Is(err, domain.ErrFileSizeTooSmall),
		errors.Is(err, domain.ErrTooManyFiles):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// Error writes err as JSON, internal errors are logged and masked
func Error(w http.ResponseWriter, logger *slog.Logger, err error) {
	status := StatusFor(err)
	body := ErrorBody{Error: err.Error()}

	var incomplete *domain.IncompletePartsError
	if errors.As(err, &incomplete) {
		body.Missing = incomplete.Missing
		body.Duplicates = incomplete.Duplicates
		body.OutOfRange = incomplete.OutOfRange
	}

	if status == http.StatusInternalServerError {
		logger.Error("request failed", "error", err)
		body.Error = http.StatusText(status)
	}
	JSON(w, logger, status, body)
}

// BadRequest writes a 400 with msg
func BadRequest(w http.ResponseWriter, logger *slog.Logger, msg string) {
	JSON(w, logger, http.StatusBadRequest, ErrorBody{Error: msg})
}
