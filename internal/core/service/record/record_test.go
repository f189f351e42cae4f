package record_test

import (
	"io"
	"log/slog"
	rediscache "mediavault/internal/adapters/cache/redis"
	"mediavault/internal/core/domain"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

const cacheTTL = 5 * time.Minute

func newCache(t *testing.T) (*miniredis.Miniredis, *rediscache.Cache) {
	t.Helper()
	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return s, rediscache.NewCache(client)
}

func existingRecord() *domain.FileRecord {
	dim := 200
	now := time.Now().Add(-time.Hour)
	return &domain.FileRecord{
		ID:   uuid.New(),
		Name: "catalog-cover",
		Entries: []domain.StorageEntry{
			{Key: "products/cover-1a2b3c4d-200.webp", Mimetype: "image/webp", Size: 100, Dimension: &dim},
			{Key: "products/cover-1a2b3c4d.png", Mimetype: "image/png", Size: 900},
		},
		History:   []string{"products/cover-old.png"},
		OwnerID:   "user-1",
		CreatedAt: now,
		UpdatedAt: now,
	}
}
