package record_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mediavault/internal/adapters/handlers/http/chi"
	recordhandler "mediavault/internal/adapters/handlers/http/chi/v1/record"
	uploadhandler "mediavault/internal/adapters/handlers/http/chi/v1/upload"
	"mediavault/internal/config"
	"mediavault/internal/core/domain"
	"mediavault/internal/core/service/media"
	"mediavault/internal/core/service/record"
	"mediavault/internal/core/service/upload"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newRouter(service *record.MockFileRecordService) http.Handler {
	discardLogger := slog.New(slog.NewTextHandler(io.Discard, nil))
	uploadHandler := uploadhandler.NewUploadHandlerV1(upload.NewMockUploadService(), media.NewMockMediaService(), config.NewRules(nil), "", discardLogger)
	recordHandler := recordhandler.NewFileRecordHandlerV1(service, discardLogger)
	return chi.NewRouter(discardLogger, uploadHandler, recordHandler, nil, config.Env{}, config.ServerConfig{})
}

func serve(t *testing.T, h http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader = http.NoBody
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(method, target, reader))
	return w
}

func sampleRecord() *domain.FileRecord {
	return &domain.FileRecord{
		ID:      uuid.New(),
		Name:    "holiday",
		OwnerID: "user-1",
		Entries: []domain.StorageEntry{
			{Key: "uploads/2026/01/02/a-holiday.mp4", Mimetype: "video/mp4", Size: 2048},
		},
		History:   []string{},
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
}

func TestStoreV1(t *testing.T) {
	t.Run("nominal", func(t *testing.T) {
		// Arrange
		service := record.NewMockFileRecordService()
		rec := sampleRecord()
		service.On("Store", mock.Anything, "holiday", "user-1", rec.Entries).Return(rec, nil)

		// Act
		w := serve(t, newRouter(service), http.MethodPost, "/api/v1/files", recordhandler.V1StoreRequest{
			Name: "holiday", OwnerID: "user-1", Entries: rec.Entries,
		})

		// Assert
		assert.Equal(t, http.StatusCreated, w.Code)
		var got domain.FileRecord
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, rec.ID, got.ID)
		service.AssertExpectations(t)
	})

	t.Run("missing object", func(t *testing.T) {
		// Arrange
		service := record.NewMockFileRecordService()
		service.On("Store", mock.Anything, "x", "", mock.Anything).Return((*domain.FileRecord)(nil), domain.ErrInvalidRecord)

		// Act
		w := serve(t, newRouter(service), http.MethodPost, "/api/v1/files", recordhandler.V1StoreRequest{Name: "x"})

		// Assert
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		// Arrange
		service := record.NewMockFileRecordService()
		w := httptest.NewRecorder()

		// Act
		newRouter(service).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/files", bytes.NewBufferString("{")))

		// Assert
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestIndexV1(t *testing.T) {
	t.Run("query parameters", func(t *testing.T) {
		// Arrange
		service := record.NewMockFileRecordService()
		from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2026, 1, 31, 23, 59, 59, 999999999, time.UTC)
		service.On("Index", mock.Anything, mock.MatchedBy(func(q domain.RecordQuery) bool {
			return q.Search == "holi" && q.Limit == 5 && q.Offset == 10 &&
				q.From != nil && q.From.Equal(from) &&
				q.To != nil && q.To.Equal(to)
		})).Return(&domain.RecordPage{Items: []domain.FileRecord{*sampleRecord()}, Total: 11, Limit: 5, Offset: 10}, nil)

		// Act
		w := serve(t, newRouter(service), http.MethodGet, "/api/v1/files?q=holi&from=2026-01-01T00:00:00Z&to=2026-01-31&limit=5&offset=10", nil)

		// Assert
		assert.Equal(t, http.StatusOK, w.Code)
		var page domain.RecordPage
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
		assert.Equal(t, 11, page.Total)
		assert.Len(t, page.Items, 1)
		service.AssertExpectations(t)
	})

	t.Run("invalid dates and numbers", func(t *testing.T) {
		for _, target := range []string{
			"/api/v1/files?from=yesterday",
			"/api/v1/files?to=2026-13-01",
			"/api/v1/files?limit=ten",
			"/api/v1/files?offset=-1",
		} {
			// Arrange
			service := record.NewMockFileRecordService()

			// Act
			w := serve(t, newRouter(service), http.MethodGet, target, nil)

			// Assert
			assert.Equal(t, http.StatusBadRequest, w.Code, target)
			service.AssertNotCalled(t, "Index", mock.Anything, mock.Anything)
		}
	})
}

func TestShowV1(t *testing.T) {
	t.Run("with download url", func(t *testing.T) {
		// Arrange
		service := record.NewMockFileRecordService()
		rec := sampleRecord()
		expiresAt := time.Now().Add(15 * time.Minute)
		service.On("Show", mock.Anything, rec.ID).Return(rec, nil)
		service.On("DownloadURL", mock.Anything, rec.Entries[0].Key).Return("http://storage/get", &expiresAt, nil)

		// Act
		w := serve(t, newRouter(service), http.MethodGet, "/api/v1/files/"+rec.ID.String(), nil)

		// Assert
		assert.Equal(t, http.StatusOK, w.Code)
		var got recordhandler.V1ShowResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, rec.ID, got.ID)
		assert.Equal(t, "http://storage/get", got.DownloadURL)
	})

	t.Run("signing failure keeps the record readable", func(t *testing.T) {
		// Arrange
		service := record.NewMockFileRecordService()
		rec := sampleRecord()
		service.On("Show", mock.Anything, rec.ID).Return(rec, nil)
		service.On("DownloadURL", mock.Anything, mock.Anything).Return("", (*time.Time)(nil), errors.New("storage down"))

		// Act
		w := serve(t, newRouter(service), http.MethodGet, "/api/v1/files/"+rec.ID.String(), nil)

		// Assert
		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotContains(t, w.Body.String(), "downloadUrl")
	})

	t.Run("not found", func(t *testing.T) {
		// Arrange
		service := record.NewMockFileRecordService()
		id := uuid.New()
		service.On("Show", mock.Anything, id).Return((*domain.FileRecord)(nil), domain.ErrFileRecordNotFound)

		// Act
		w := serve(t, newRouter(service), http.MethodGet, "/api/v1/files/"+id.String(), nil)

		// Assert
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("bad id", func(t *testing.T) {
		// Arrange
		service := record.NewMockFileRecordService()

		// Act
		w := serve(t, newRouter(service), http.MethodGet, "/api/v1/files/not-a-uuid", nil)

		// Assert
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestReplaceV1(t *testing.T) {
	t.Run("nominal", func(t *testing.T) {
		// Arrange
		service := record.NewMockFileRecordService()
		rec := sampleRecord()
		entries := []domain.StorageEntry{{Key: "uploads/2026/02/01/b-holiday.mp4", Mimetype: "video/mp4", Size: 4096}}
		updated := *rec
		updated.Entries = entries
		updated.History = []string{rec.Entries[0].Key}
		service.On("Replace", mock.Anything, rec.ID, entries).Return(&updated, nil)

		// Act
		w := serve(t, newRouter(service), http.MethodPut, "/api/v1/files/"+rec.ID.String(), recordhandler.V1ReplaceRequest{Entries: entries})

		// Assert
		assert.Equal(t, http.StatusOK, w.Code)
		var got domain.FileRecord
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, []string{rec.Entries[0].Key}, got.History)
	})
}

func TestDestroyV1(t *testing.T) {
	t.Run("nominal", func(t *testing.T) {
		// Arrange
		service := record.NewMockFileRecordService()
		id := uuid.New()
		service.On("Destroy", mock.Anything, id).Return(&domain.DestroyResult{
			RemovedKeys: []string{"uploads/a"},
			FailedKeys:  []string{"uploads/b"},
		}, nil)

		// Act
		w := serve(t, newRouter(service), http.MethodDelete, "/api/v1/files/"+id.String(), nil)

		// Assert
		assert.Equal(t, http.StatusOK, w.Code)
		var got domain.DestroyResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, []string{"uploads/b"}, got.FailedKeys)
	})
}
