package chi_test

import (
	"io"
	"log/slog"
	"mediavault/internal/adapters/handlers/http/chi"
	recordhandler "mediavault/internal/adapters/handlers/http/chi/v1/record"
	uploadhandler "mediavault/internal/adapters/handlers/http/chi/v1/upload"
	"mediavault/internal/adapters/metrics"
	"mediavault/internal/config"
	"mediavault/internal/core/domain"
	"mediavault/internal/core/service/media"
	"mediavault/internal/core/service/record"
	"mediavault/internal/core/service/upload"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRouter(t *testing.T) {
	discardLogger := slog.New(slog.NewTextHandler(io.Discard, nil))
	uploadService := upload.NewMockUploadService()
	uploadHandler := uploadhandler.NewUploadHandlerV1(uploadService, media.NewMockMediaService(), config.NewRules(nil), t.TempDir(), discardLogger)
	recordHandler := recordhandler.NewFileRecordHandlerV1(record.NewMockFileRecordService(), discardLogger)
	prom := metrics.NewPrometheus()
	h := chi.NewRouter(discardLogger, uploadHandler, recordHandler, prom, config.Env{Env: "prod"}, config.ServerConfig{MaxBodySize: 1 << 20})

	t.Run("health", func(t *testing.T) {
		// Arrange
		w := httptest.NewRecorder()

		// Act
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		// Assert
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"ok"`)
	})

	t.Run("requests are labelled by route pattern", func(t *testing.T) {
		// Arrange
		uploadService.On("DeleteObject", mock.Anything, "uploads/2026/01/02/a.png").Return(nil).Once()
		uploadService.On("DeleteObject", mock.Anything, "uploads/2026/01/02/b.png").Return(domain.ErrObjectNotFound).Once()

		// Act
		for _, key := range []string{"a.png", "b.png"} {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/v1/upload/uploads/2026/01/02/"+key, nil))
		}

		// Assert
		assert.Equal(t, float64(1), testutil.ToFloat64(prom.RequestsTotal.WithLabelValues(http.MethodDelete, "/api/v1/upload/*", "200")))
		assert.Equal(t, float64(1), testutil.ToFloat64(prom.RequestsTotal.WithLabelValues(http.MethodDelete, "/api/v1/upload/*", "404")))
	})

	t.Run("metrics endpoint", func(t *testing.T) {
		// Arrange
		w := httptest.NewRecorder()

		// Act
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		// Assert
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "mediavault_http_requests_total")
	})

	t.Run("oversized bodies are rejected", func(t *testing.T) {
		// Arrange
		w := httptest.NewRecorder()
		body := `{"fileName":"` + strings.Repeat("a", 2<<20) + `"}`

		// Act
		h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/upload/presigned-simple", strings.NewReader(body)))

		// Assert
		assert.Equal(t, http.StatusBadRequest, w.Code)
		uploadService.AssertNotCalled(t, "PresignSimple", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
