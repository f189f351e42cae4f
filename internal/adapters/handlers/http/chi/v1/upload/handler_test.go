package upload_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mediavault/internal/adapters/handlers/http/chi"
	recordhandler "mediavault/internal/adapters/handlers/http/chi/v1/record"
	uploadhandler "mediavault/internal/adapters/handlers/http/chi/v1/upload"
	"mediavault/internal/config"
	"mediavault/internal/core/service/media"
	"mediavault/internal/core/service/record"
	"mediavault/internal/core/service/upload"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

type testEnv struct {
	uploadService *upload.MockUploadService
	mediaService  *media.MockMediaService
	tempDir       string
	handler       http.Handler
}

func newTestEnv(t *testing.T, rules *config.Rules) *testEnv {
	t.Helper()
	if rules == nil {
		rules = config.NewRules(nil)
	}
	discardLogger := slog.New(slog.NewTextHandler(io.Discard, nil))

	env := &testEnv{
		uploadService: upload.NewMockUploadService(),
		mediaService:  media.NewMockMediaService(),
		tempDir:       t.TempDir(),
	}
	uploadHandler := uploadhandler.NewUploadHandlerV1(env.uploadService, env.mediaService, rules, env.tempDir, discardLogger)
	recordHandler := recordhandler.NewFileRecordHandlerV1(record.NewMockFileRecordService(), discardLogger)
	env.handler = chi.NewRouter(discardLogger, uploadHandler, recordHandler, nil, config.Env{}, config.ServerConfig{MaxBodySize: 10 << 20})
	return env
}

func (e *testEnv) do(t *testing.T, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader = http.NoBody
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}
