package upload

import (
	"errors"
	"fmt"
	"io"
	"mediavault/internal/adapters/handlers/http/chi/v1/response"
	"mediavault/internal/core/domain"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-chi/chi/v5"
)

const formField = "files"

// MediaUploadV1 streams the "files" form field to temp files and hands them
// to the media processor under the entity/property rule.
func (h *HandlerV1) MediaUploadV1(w http.ResponseWriter, r *http.Request) {
	rule := h.rules.Lookup(chi.URLParam(r, "entity"), chi.URLParam(r, "property"))

	reader, err := r.MultipartReader()
	if err != nil {
		response.BadRequest(w, h.logger, "expected multipart/form-data body")
		return
	}

	var files []domain.RawFile
	defer func() {
		for _, f := range files {
			if err := os.Remove(f.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
				h.logger.Warn("failed to remove temp upload", "path", f.Path, "error", err)
			}
		}
	}()

	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			response.BadRequest(w, h.logger, "malformed multipart body")
			return
		}
		if part.FormName() != formField || part.FileName() == "" {
			part.Close()
			continue
		}
		if rule.MaxFiles > 0 && len(files) >= rule.MaxFiles {
			part.Close()
			response.Error(w, h.logger, fmt.Errorf("%w: max %d", domain.ErrTooManyFiles, rule.MaxFiles))
			return
		}

		raw, err := h.spool(part)
		part.Close()
		if raw.Path != "" {
			files = append(files, raw)
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.JSON(w, h.logger, http.StatusRequestEntityTooLarge, response.ErrorBody{Error: "request body too large"})
			return
		}
		if err != nil {
			response.Error(w, h.logger, err)
			return
		}
	}

	if len(files) == 0 {
		response.BadRequest(w, h.logger, "no files provided")
		return
	}

	result, err := h.mediaService.Process(r.Context(), files, rule)
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}
	if len(result.Stored) == 0 && len(result.Failed) > 0 {
		response.Error(w, h.logger, fmt.Errorf("all %d files failed: %w", len(result.Failed), result.Failed[0].Err))
		return
	}

	response.JSON(w, h.logger, http.StatusCreated, result.Stored)
}

// spool copies one form part to disk and sniffs its content.
// The returned RawFile carries a Path whenever a temp file was created.
func (h *HandlerV1) spool(part *multipart.Part) (domain.RawFile, error) {
	name := filepath.Base(part.FileName())

	tmp, err := os.CreateTemp(h.tempDir, "upload-*")
	if err != nil {
		return domain.RawFile{}, fmt.Errorf("failed to create temp file: %w", err)
	}
	raw := domain.RawFile{Name: name, Path: tmp.Name()}

	size, err := io.Copy(tmp, part)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return raw, fmt.Errorf("failed to buffer %s: %w", name, err)
	}
	raw.Size = size

	mtype, err := mimetype.DetectFile(raw.Path)
	if err != nil {
		return raw, fmt.Errorf("failed to detect type of %s: %w", name, err)
	}
	raw.Mimetype = mtype.String()
	return raw, nil
}
