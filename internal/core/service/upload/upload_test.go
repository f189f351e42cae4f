package upload_test

import (
	"io"
	"log/slog"
	"mediavault/internal/adapters/metrics"
	"mediavault/internal/config"
	"time"
)

const mib = int64(1 << 20)

var defaultCfg = config.FileUploadConfig{
	PartSize:               10 * mib,
	SimpleUploadMaxSize:    50 * mib,
	MultipartUploadMaxSize: 5 * 1024 * mib,
	SessionTTL:             24 * time.Hour,
	KeyPrefix:              "uploads",
}

var (
	discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))
	noopMetrics   = metrics.Noop{}
)
